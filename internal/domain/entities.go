package domain

import (
	"fmt"
	"path"
	"time"
)

// SourcePrefix — общий префикс сырых и обогащённых объектов.
const SourcePrefix = "telegram"

// MessageRecord — плоская строка таблицы сообщений.
// Порядок и типы полей фиксированы, любое поле может отсутствовать.
type MessageRecord struct {
	MessageID     *int64  `json:"message_id"`
	UserID        *int64  `json:"user_id"`
	UserIsBot     *bool   `json:"user_is_bot"`
	UserFirstName *string `json:"user_first_name"`
	ChatID        *int64  `json:"chat_id"`
	ChatType      *string `json:"chat_type"`
	Date          *int64  `json:"date"`
	Text          *string `json:"text"`
}

// ObjectInfo описывает объект в бакете.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// BaseName возвращает последний сегмент ключа.
func (o ObjectInfo) BaseName() string {
	return path.Base(o.Key)
}

// PartitionPrefix строит префикс партиции для даты в формате YYYY-MM-DD.
func PartitionPrefix(date string) string {
	return fmt.Sprintf("%s/context_date=%s", SourcePrefix, date)
}

// EnrichedKey строит ключ итогового parquet-файла.
func EnrichedKey(date, timestamp string) string {
	return fmt.Sprintf("%s/%s.parquet", PartitionPrefix(date), timestamp)
}
