package domain

import "errors"

var (
	// ErrNoObjects — за дату нет ни одного сырого объекта.
	ErrNoObjects = errors.New("no raw objects for date")
	// ErrFieldType — значение поля имеет неожиданный JSON-тип.
	ErrFieldType = errors.New("unexpected field type")
	// ErrInvalidText — документ содержит невалидный UTF-8 или одиночный суррогат.
	ErrInvalidText = errors.New("invalid utf-8 text")
)

// CompactionStatus описывает исход запуска компакции.
type CompactionStatus string

const (
	// CompactionSucceeded — файл записан и загружен.
	CompactionSucceeded CompactionStatus = "succeeded"
	// CompactionEmpty — за дату нет данных, это не ошибка.
	CompactionEmpty CompactionStatus = "empty"
	// CompactionFailed — запуск завершился ошибкой, причина в Err.
	CompactionFailed CompactionStatus = "failed"
)

// CompactionResult — итог одного запуска компакции.
type CompactionResult struct {
	RunID  string
	Status CompactionStatus
	Date   string
	Key    string
	Rows   int
	Err    error
}

// OK возвращает булев сигнал для внешнего планировщика.
func (r CompactionResult) OK() bool {
	return r.Status == CompactionSucceeded
}

// Failed создаёт результат с ошибкой.
func Failed(runID, date string, err error) CompactionResult {
	return CompactionResult{RunID: runID, Status: CompactionFailed, Date: date, Err: err}
}
