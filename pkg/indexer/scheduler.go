package indexer

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler triggers periodic reindexing from a cron expression.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler validates the expression and schedules fn. Standard
// five-field cron syntax (minute granularity).
func NewScheduler(expr string, fn func(), logger zerolog.Logger) (*Scheduler, error) {
	if expr == "" {
		return nil, fmt.Errorf("cron expression is required")
	}

	c := cron.New()
	if _, err := c.AddFunc(expr, fn); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins scheduling.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Reindex scheduler started")
	s.cron.Start()
}

// Stop halts scheduling; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Reindex scheduler stopped")
}
