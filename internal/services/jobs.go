package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// StartFlowPruner schedules manager.Prune(idle) on spec (cron syntax or "@every 5m") and
// returns the running scheduler. Callers stop it on shutdown.
func StartFlowPruner(manager *BookingFlowManager, spec string, idle time.Duration, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n := manager.Prune(idle)
		logger.Debug("cron job: pruned idle booking flows", "count", n)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule flow pruner %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
