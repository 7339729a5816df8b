package domain

import (
	"context"
	"time"
)

// ObjectStore — хранилище объектов (S3 или совместимое).
type ObjectStore interface {
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	// Download сохраняет объект в локальный файл path.
	Download(ctx context.Context, bucket, key, path string) error
	// Upload загружает локальный файл path в объект key.
	Upload(ctx context.Context, bucket, key, path string) error
}

// RecordTable накапливает строки и сериализует их в колоночный файл.
type RecordTable interface {
	Append(record MessageRecord)
	Len() int
	WriteFile(path string) error
}

// Clock отдаёт текущее время.
type Clock interface {
	Now() time.Time
}

// ClockFunc адаптирует функцию к Clock.
type ClockFunc func() time.Time

// Now реализует Clock.
func (f ClockFunc) Now() time.Time { return f() }
