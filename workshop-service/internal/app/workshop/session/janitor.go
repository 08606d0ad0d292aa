package session

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"odilusta/pkg/logger"
)

// Janitor периодически удаляет простаивающие сессии по cron-расписанию
type Janitor struct {
	cron    *cron.Cron
	manager *Manager
}

func NewJanitor(manager *Manager) *Janitor {
	return &Janitor{
		cron:    cron.New(),
		manager: manager,
	}
}

// Start запускает чистку по расписанию, например "*/5 * * * *"
func (j *Janitor) Start(schedule string) error {
	_, err := j.cron.AddFunc(schedule, func() {
		removed := j.manager.Sweep()
		if removed > 0 {
			logger.Info().
				Int("removed", removed).
				Int("alive", j.manager.Len()).
				Msg("swept idle sessions")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}

	j.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("session janitor started")
	return nil
}

// Stop останавливает планировщик и дожидается текущей чистки
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}
