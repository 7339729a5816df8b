package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"tg-datalake/internal/adapters/columnar"
	"tg-datalake/internal/adapters/lambda"
	"tg-datalake/internal/adapters/storage"
	"tg-datalake/internal/domain"
	"tg-datalake/internal/infra/config"
	"tg-datalake/internal/infra/errtrack"
	apphttp "tg-datalake/internal/infra/http"
	applog "tg-datalake/internal/infra/log"
	"tg-datalake/internal/infra/metrics"
	"tg-datalake/internal/infra/scheduler"
	"tg-datalake/internal/usecase/compaction"
)

var version = "dev"

func main() {
	var (
		mode    string
		inspect string
	)
	flag.StringVar(&mode, "mode", "once", "Run mode outside Lambda: once or schedule")
	flag.StringVar(&inspect, "inspect", "", "Print rows of a local parquet file as JSON lines and exit")
	flag.Parse()

	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "compaction").Logger()

	if inspect != "" {
		if err := printParquet(inspect); err != nil {
			logger.Fatal().Err(err).Str("path", inspect).Msg("compaction: не удалось прочитать файл")
		}
		return
	}

	flush, err := errtrack.Init(cfg.SentryDSN, cfg.AppEnv, version)
	if err != nil {
		logger.Error().Err(err).Msg("compaction: sentry не инициализирован")
	}
	defer flush()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	store, err := storage.NewS3(context.Background(), cfg.S3.Endpoint, logger)
	if err != nil {
		logger.Error().Err(err).Msg("compaction: не удалось создать клиента S3")
		errtrack.Capture(err)
		flush()
		os.Exit(1)
	}
	newTable := func() domain.RecordTable { return columnar.NewTable() }
	service := compaction.NewService(store, newTable, nil, cfg.ScratchDir, logger)
	report := func(res domain.CompactionResult) {
		errtrack.ReportCompaction(res)
		flush()
	}
	handler := lambda.NewHandler(service, config.LoadBuckets, report, logger)

	if config.InLambda() {
		awslambda.Start(handler.Handle)
		return
	}

	switch mode {
	case "once":
		if !handler.Invoke(context.Background()).OK() {
			flush()
			os.Exit(1)
		}
	case "schedule":
		if err := runScheduled(cfg, handler, logger); err != nil {
			logger.Error().Err(err).Msg("compaction: планировщик не запущен")
			flush()
			os.Exit(1)
		}
	default:
		logger.Error().Str("mode", mode).Msg("compaction: неизвестный режим")
		flush()
		os.Exit(2)
	}
}

func runScheduled(cfg config.AppConfig, handler *lambda.Handler, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched, err := scheduler.New(compaction.Location, logger.With().Str("component", "scheduler").Logger())
	if err != nil {
		return fmt.Errorf("создание планировщика: %w", err)
	}
	if err := sched.AddJob("compaction", cfg.Schedule.Cron, func() { handler.Invoke(ctx) }); err != nil {
		return fmt.Errorf("добавление задачи: %w", err)
	}
	sched.Start()

	srv := apphttp.NewServer(logger.With().Str("component", "http").Logger())
	go func() {
		if err := srv.Start(cfg.Schedule.MetricsAddr); err != nil {
			logger.Error().Err(err).Msg("compaction: HTTP сервер остановлен")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("compaction: остановка")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error().Err(err).Msg("compaction: HTTP сервер не остановлен корректно")
	}
	if err := sched.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("compaction: планировщик не остановлен корректно")
	}
	return nil
}

func printParquet(path string) error {
	records, err := columnar.ReadFile(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
