package columnar

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"tg-datalake/internal/domain"
)

// row — строка parquet-файла. Указатели дают optional-колонки.
type row struct {
	MessageID     *int64  `parquet:"message_id"`
	UserID        *int64  `parquet:"user_id"`
	UserIsBot     *bool   `parquet:"user_is_bot"`
	UserFirstName *string `parquet:"user_first_name"`
	ChatID        *int64  `parquet:"chat_id"`
	ChatType      *string `parquet:"chat_type"`
	Date          *int64  `parquet:"date"`
	Text          *string `parquet:"text"`
}

var schema = parquet.SchemaOf(row{})

// Schema возвращает фиксированную схему таблицы сообщений.
func Schema() *parquet.Schema {
	return schema
}

// Table накапливает строки в памяти и пишет их одним файлом.
type Table struct {
	rows []row
}

var _ domain.RecordTable = (*Table)(nil)

// NewTable создаёт пустую таблицу.
func NewTable() *Table {
	return &Table{}
}

// Append добавляет строку в конец таблицы.
func (t *Table) Append(rec domain.MessageRecord) {
	t.rows = append(t.rows, row(rec))
}

// Len возвращает число строк.
func (t *Table) Len() int {
	return len(t.rows)
}

// WriteFile сериализует таблицу в parquet со сжатием snappy.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание %s: %w", path, err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[row](f, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(t.rows); err != nil {
		return fmt.Errorf("запись строк: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("закрытие writer: %w", err)
	}
	return f.Close()
}

// ReadFile читает parquet-файл обратно в записи.
func ReadFile(path string) ([]domain.MessageRecord, error) {
	rows, err := parquet.ReadFile[row](path)
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", path, err)
	}
	records := make([]domain.MessageRecord, len(rows))
	for i, r := range rows {
		records[i] = domain.MessageRecord(r)
	}
	return records, nil
}
