package cronjob

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSpec runs the session sweep every five minutes
const DefaultSweepSpec = "0 */5 * * * *"

// Sweeper removes expired sessions and reports how many were dropped
type Sweeper interface {
	Sweep() int
}

// Scheduler runs periodic maintenance for the in-memory session store
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  *zap.Logger
}

// NewScheduler creates a scheduler for sweeper
func NewScheduler(sweeper Sweeper, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start registers the sweep job under spec and starts the cron loop
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	if _, err := s.cron.AddFunc(spec, s.RunSweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", zap.String("spec", spec))
	return nil
}

// RunSweep performs one sweep
func (s *Scheduler) RunSweep() {
	if removed := s.sweeper.Sweep(); removed > 0 {
		s.logger.Info("expired sessions swept", zap.Int("removed", removed))
	}
}

// Stop halts the cron loop and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
