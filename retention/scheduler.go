// Package retention runs periodic retention sweeps over registered
// companions on a cron schedule.
package retention

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/privacy"
)

// Target is anything that can drop its own expired data. *companion.Manager
// satisfies it.
type Target interface {
	ID() string
	CleanExpiredData() privacy.CleanupReport
}

// SweepReport summarises one pass over all targets.
type SweepReport struct {
	At      time.Time
	Reports map[string]privacy.CleanupReport
	Removed int
}

// Options configures a Scheduler. Zero values are usable.
type Options struct {
	Logger   *logrus.Entry
	Location *time.Location // cron evaluation timezone, default UTC
	// OnClean runs after each target is cleaned, e.g. to persist a new
	// snapshot. It is called from the sweep goroutine.
	OnClean func(id string, report privacy.CleanupReport)
	Now     func() time.Time
}

// Scheduler owns a gocron scheduler with a single sweep job.
type Scheduler struct {
	schedule  string
	scheduler gocron.Scheduler
	opts      Options
	log       *logrus.Entry

	mu      sync.RWMutex
	targets map[string]Target
	job     gocron.Job
}

// New creates a stopped scheduler for the given standard cron expression.
func New(schedule string, opts Options) (*Scheduler, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	log = log.WithField("component", "Retention")

	sched, err := gocron.NewScheduler(gocron.WithLocation(opts.Location))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		schedule:  schedule,
		scheduler: sched,
		opts:      opts,
		log:       log,
		targets:   make(map[string]Target),
	}, nil
}

// Register adds or replaces a target by id.
func (s *Scheduler) Register(t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[t.ID()] = t
}

// Unregister removes a target. Unknown ids are ignored.
func (s *Scheduler) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.targets, id)
}

// Targets returns the registered ids in ascending order.
func (s *Scheduler) Targets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.targets))
	for id := range s.targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sweep cleans every registered target once, in id order.
func (s *Scheduler) Sweep() SweepReport {
	s.mu.RLock()
	targets := make([]Target, 0, len(s.targets))
	for _, t := range s.targets {
		targets = append(targets, t)
	}
	s.mu.RUnlock()
	sort.Slice(targets, func(i, j int) bool { return targets[i].ID() < targets[j].ID() })

	rep := SweepReport{At: s.opts.Now(), Reports: make(map[string]privacy.CleanupReport, len(targets))}
	for _, t := range targets {
		id := t.ID()
		r := t.CleanExpiredData()
		rep.Reports[id] = r
		rep.Removed += r.Removed()
		if r.Removed() > 0 {
			s.log.WithFields(logrus.Fields{
				"companion": id,
				"removed":   r.Removed(),
				"policy":    r.Policy,
			}).Debug("expired data removed")
		}
		if s.opts.OnClean != nil {
			s.opts.OnClean(id, r)
		}
	}
	s.log.WithFields(logrus.Fields{
		"targets": len(targets),
		"removed": rep.Removed,
	}).Info("retention sweep finished")
	return rep
}

// Start registers the sweep job and starts the scheduler. Sweeps never
// overlap; a tick that arrives during a running sweep is skipped.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job != nil {
		return nil
	}
	job, err := s.scheduler.NewJob(
		gocron.CronJob(s.schedule, false),
		gocron.NewTask(func() { s.Sweep() }),
		gocron.WithName("retention_sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register retention job %q: %w", s.schedule, err)
	}
	s.job = job
	s.scheduler.Start()
	s.log.WithField("schedule", s.schedule).Info("retention scheduler started")
	return nil
}

// NextRun reports when the next sweep is due. It fails before Start.
func (s *Scheduler) NextRun() (time.Time, error) {
	s.mu.RLock()
	job := s.job
	s.mu.RUnlock()
	if job == nil {
		return time.Time{}, fmt.Errorf("retention scheduler not started")
	}
	return job.NextRun()
}

// RunNow triggers an out-of-band sweep on the scheduler goroutine.
func (s *Scheduler) RunNow() error {
	s.mu.RLock()
	job := s.job
	s.mu.RUnlock()
	if job == nil {
		return fmt.Errorf("retention scheduler not started")
	}
	return job.RunNow()
}

// Stop shuts the scheduler down and waits for a running sweep to finish.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
