package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CompactionRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "compaction_runs_total",
		Help: "Запуски компакции по исходу",
	}, []string{"status"})
	CompactionRows = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "compaction_rows_written_total",
		Help: "Строки, записанные в parquet-файлы",
	})
	CompactionSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "compaction_duration_seconds",
		Help:    "Длительность одного запуска компакции",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 900},
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		CompactionRuns,
		CompactionRows,
		CompactionSeconds,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveCompaction записывает исход запуска компакции.
func ObserveCompaction(status string, rows int, start time.Time) {
	CompactionRuns.WithLabelValues(status).Inc()
	if rows > 0 {
		CompactionRows.Add(float64(rows))
	}
	CompactionSeconds.Observe(time.Since(start).Seconds())
}
