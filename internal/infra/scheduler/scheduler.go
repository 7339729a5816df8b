package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Scheduler запускает задачи по cron-выражению.
type Scheduler struct {
	s   gocron.Scheduler
	log zerolog.Logger
}

// New создаёт планировщик в указанном часовом поясе.
func New(loc *time.Location, log zerolog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("создание планировщика: %w", err)
	}
	return &Scheduler{s: s, log: log}, nil
}

// AddJob регистрирует задачу. Пока задача выполняется, следующий запуск пропускается.
func (s *Scheduler) AddJob(name, cronExpr string, task func()) error {
	_, err := s.s.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("задача %q (%s): %w", name, cronExpr, err)
	}
	s.log.Info().Str("job", name).Str("cron", cronExpr).Msg("scheduler: задача добавлена")
	return nil
}

// Start запускает планировщик в фоне.
func (s *Scheduler) Start() {
	s.s.Start()
}

// Shutdown дожидается текущих задач и останавливает планировщик.
func (s *Scheduler) Shutdown() error {
	if err := s.s.Shutdown(); err != nil {
		return fmt.Errorf("остановка планировщика: %w", err)
	}
	return nil
}
