package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Defaults for the idle check
const (
	DefaultCheckInterval = time.Minute
	DefaultIdleAfter     = 12 * time.Hour
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler     *gocron.Scheduler
	resetter      IdleResetter
	idleAfter     time.Duration
	checkInterval time.Duration
	now           func() time.Time
}

// IdleResetter restarts a quiz session nobody has touched for a while
type IdleResetter interface {
	// ResetIfIdle restarts the session when its last activity is older than
	// idleAfter at now, and reports whether it did
	ResetIfIdle(now time.Time, idleAfter time.Duration) (bool, error)
}

// New creates a new scheduler instance
func New(resetter IdleResetter, idleAfter, checkInterval time.Duration) *Scheduler {
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	s.WaitForScheduleAll()
	return &Scheduler{
		scheduler:     s,
		resetter:      resetter,
		idleAfter:     idleAfter,
		checkInterval: checkInterval,
		now:           time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	if s.idleAfter <= 0 {
		log.Println("Idle reset disabled")
		return nil
	}

	if _, err := s.scheduler.Every(s.checkInterval).Do(s.checkIdleSession); err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	log.Printf("Idle reset scheduled every %s for sessions idle longer than %s", s.checkInterval, s.idleAfter)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkIdleSession restarts the session if it has been idle for too long
func (s *Scheduler) checkIdleSession() {
	reset, err := s.resetter.ResetIfIdle(s.now(), s.idleAfter)
	if err != nil {
		log.Printf("Error resetting idle session: %v", err)
		return
	}
	if reset {
		log.Printf("Idle session restarted after %s", s.idleAfter)
	}
}

// RunManualCheck forces an idle check
func (s *Scheduler) RunManualCheck() (bool, error) {
	return s.resetter.ResetIfIdle(s.now(), s.idleAfter)
}
