package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/tamsys/backend/internal/config"
)

// Scheduler runs the recurring jobs on a daily cadence
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   *ExpirySweeper
	cfg       config.SweeperConfig
}

// NewScheduler creates a scheduler in UTC
func NewScheduler(sweeper *ExpirySweeper, cfg config.SweeperConfig) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sweeper:   sweeper,
		cfg:       cfg,
	}
}

// Start registers the daily sweep and starts the scheduler asynchronously
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		log.Printf("Expiry sweeper disabled, scheduler not started")
		return nil
	}

	at := fmt.Sprintf("%02d:00", s.cfg.HourUTC)
	_, err := s.scheduler.Every(1).Day().At(at).Do(func() {
		if _, err := s.sweeper.RunSweep(context.Background(), time.Now().UTC()); err != nil {
			log.Printf("Scheduled expiry sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}

	s.scheduler.StartAsync()
	log.Printf("Expiry sweeper scheduled daily at %s UTC", at)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
