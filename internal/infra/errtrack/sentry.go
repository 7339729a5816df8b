package errtrack

import (
	"time"

	"github.com/getsentry/sentry-go"

	"tg-datalake/internal/domain"
)

// Init подключает Sentry. Пустой DSN отключает отправку, возвращённую функцию можно вызывать всегда.
func Init(dsn, env, release string) (flush func(), err error) {
	flush = func() {}
	if dsn == "" {
		return flush, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return flush, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// ReportCompaction отправляет в Sentry только неуспешные запуски с ошибкой.
// Пустой день ошибкой не считается.
func ReportCompaction(res domain.CompactionResult) {
	if res.Status != domain.CompactionFailed || res.Err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "compaction")
		scope.SetTag("run_id", res.RunID)
		scope.SetTag("date", res.Date)
		sentry.CaptureException(res.Err)
	})
}

// Capture отправляет ошибку запуска, не связанную с конкретной компакцией.
func Capture(err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "compaction")
		sentry.CaptureException(err)
	})
}
