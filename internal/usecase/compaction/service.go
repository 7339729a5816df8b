package compaction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tg-datalake/internal/domain"
	"tg-datalake/internal/infra/metrics"
)

// Location — фиксированный пояс UTC-3, в котором считается «вчера».
var Location = time.FixedZone("UTC-3", -3*60*60)

// Buckets задаёт исходный и целевой бакеты.
type Buckets struct {
	Raw      string
	Enriched string
}

// Service собирает сырые сообщения за вчера в один parquet-файл.
type Service struct {
	store      domain.ObjectStore
	newTable   func() domain.RecordTable
	clock      domain.Clock
	scratchDir string
	log        zerolog.Logger
}

// NewService создаёт сервис компакции.
func NewService(store domain.ObjectStore, newTable func() domain.RecordTable, clock domain.Clock, scratchDir string, log zerolog.Logger) *Service {
	if clock == nil {
		clock = domain.ClockFunc(time.Now)
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &Service{store: store, newTable: newTable, clock: clock, scratchDir: scratchDir, log: log}
}

// TargetDate возвращает вчерашнюю дату и метку времени с микросекундами для имени файла.
func TargetDate(now time.Time) (date, timestamp string) {
	local := now.In(Location)
	date = local.AddDate(0, 0, -1).Format("2006-01-02")
	timestamp = fmt.Sprintf("%s%06d", local.Format("20060102150405"), local.Nanosecond()/int(time.Microsecond))
	return date, timestamp
}

// Run выполняет один запуск. Ошибки не возвращаются, а попадают в результат.
// Пустой runID заменяется новым UUID.
func (s *Service) Run(ctx context.Context, runID string, buckets Buckets) domain.CompactionResult {
	if runID == "" {
		runID = uuid.NewString()
	}
	start := time.Now()
	date, timestamp := TargetDate(s.clock.Now())
	log := s.log.With().Str("run_id", runID).Str("date", date).Logger()

	res := s.run(ctx, log, buckets, date, timestamp)
	res.RunID = runID
	res.Date = date
	metrics.ObserveCompaction(string(res.Status), res.Rows, start)

	switch res.Status {
	case domain.CompactionEmpty:
		log.Warn().Str("bucket", buckets.Raw).Msg("compaction: нет файлов за дату")
	case domain.CompactionFailed:
		log.Error().Err(res.Err).Msg("compaction: запуск завершился ошибкой")
	default:
		log.Info().Str("key", res.Key).Int("rows", res.Rows).Msg("compaction: файл загружен")
	}
	return res
}

func (s *Service) run(ctx context.Context, log zerolog.Logger, buckets Buckets, date, timestamp string) domain.CompactionResult {
	if buckets.Raw == "" || buckets.Enriched == "" {
		return domain.CompactionResult{Status: domain.CompactionFailed, Err: errors.New("не заданы бакеты")}
	}

	objects, err := s.store.List(ctx, buckets.Raw, domain.PartitionPrefix(date))
	if err != nil {
		return domain.CompactionResult{Status: domain.CompactionFailed, Err: fmt.Errorf("список объектов: %w", err)}
	}
	if len(objects) == 0 {
		return domain.CompactionResult{Status: domain.CompactionEmpty, Err: domain.ErrNoObjects}
	}
	log.Debug().Int("objects", len(objects)).Msg("compaction: найдены объекты")

	table := s.newTable()
	for _, obj := range objects {
		rec, err := s.load(ctx, buckets.Raw, obj)
		if err != nil {
			return domain.CompactionResult{Status: domain.CompactionFailed, Err: fmt.Errorf("объект %s: %w", obj.Key, err)}
		}
		table.Append(rec)
	}

	local := filepath.Join(s.scratchDir, timestamp+".parquet")
	if err := table.WriteFile(local); err != nil {
		return domain.CompactionResult{Status: domain.CompactionFailed, Err: fmt.Errorf("запись parquet: %w", err)}
	}

	key := domain.EnrichedKey(date, timestamp)
	if err := s.store.Upload(ctx, buckets.Enriched, key, local); err != nil {
		return domain.CompactionResult{Status: domain.CompactionFailed, Err: fmt.Errorf("загрузка %s: %w", key, err)}
	}
	return domain.CompactionResult{Status: domain.CompactionSucceeded, Key: key, Rows: table.Len()}
}

func (s *Service) load(ctx context.Context, bucket string, obj domain.ObjectInfo) (domain.MessageRecord, error) {
	local := filepath.Join(s.scratchDir, obj.BaseName())
	if err := s.store.Download(ctx, bucket, obj.Key, local); err != nil {
		return domain.MessageRecord{}, fmt.Errorf("скачивание: %w", err)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return domain.MessageRecord{}, fmt.Errorf("чтение: %w", err)
	}
	return ParseEnvelope(data)
}
