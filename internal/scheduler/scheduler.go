package scheduler

import (
	"log"
	"time"

	"github.com/founder-prep/backend/internal/gamification"
	"github.com/go-co-op/gocron"
)

// Scheduler runs the periodic maintenance jobs for the progress engine.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *gamification.Service
}

func New(service *gamification.Service) *Scheduler {
	// Jobs run on the server's local clock, the same clock the streak
	// rules derive calendar days from.
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		service:   service,
	}
}

// Start schedules the jobs and runs them in the background.
func (s *Scheduler) Start() {
	// Shortly after midnight, zero the streak of anyone who skipped a day.
	if _, err := s.scheduler.Every(1).Day().At("00:05").Do(s.auditStreaks); err != nil {
		log.Printf("[scheduler] failed to schedule streak audit: %v", err)
	}
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) auditStreaks() {
	log.Println("[scheduler] running streak audit")
	s.service.AuditStreaks()
}
