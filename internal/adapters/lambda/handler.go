package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tg-datalake/internal/domain"
	"tg-datalake/internal/infra/config"
	"tg-datalake/internal/usecase/compaction"
)

// Runner выполняет один запуск компакции.
type Runner interface {
	Run(ctx context.Context, runID string, buckets compaction.Buckets) domain.CompactionResult
}

// Handler — точка входа Lambda. Событие и контекст вызова не используются.
type Handler struct {
	runner      Runner
	loadBuckets func() (config.BucketConfig, error)
	report      func(domain.CompactionResult)
	clock       domain.Clock
	log         zerolog.Logger
}

// NewHandler создаёт обработчик. report вызывается после каждого запуска, может быть nil.
func NewHandler(runner Runner, loadBuckets func() (config.BucketConfig, error), report func(domain.CompactionResult), log zerolog.Logger) *Handler {
	if loadBuckets == nil {
		loadBuckets = config.LoadBuckets
	}
	if report == nil {
		report = func(domain.CompactionResult) {}
	}
	return &Handler{runner: runner, loadBuckets: loadBuckets, report: report, clock: domain.ClockFunc(time.Now), log: log}
}

// Handle возвращает true только при успешной записи файла и никогда не возвращает ошибку.
func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) (bool, error) {
	return h.Invoke(ctx).OK(), nil
}

// Invoke выполняет запуск и возвращает подробный результат.
// run_id и дата назначаются до чтения конфигурации, чтобы ошибка конфигурации их тоже несла.
func (h *Handler) Invoke(ctx context.Context) domain.CompactionResult {
	runID := uuid.NewString()
	cfg, err := h.loadBuckets()
	if err != nil {
		date, _ := compaction.TargetDate(h.clock.Now())
		res := domain.Failed(runID, date, fmt.Errorf("конфигурация бакетов: %w", err))
		h.log.Error().Err(res.Err).Str("run_id", runID).Str("date", date).Msg("compaction: запуск завершился ошибкой")
		h.report(res)
		return res
	}
	res := h.runner.Run(ctx, runID, compaction.Buckets{Raw: cfg.Raw, Enriched: cfg.Enriched})
	h.report(res)
	return res
}
