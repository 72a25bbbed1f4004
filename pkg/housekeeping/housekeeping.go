// Package housekeeping runs a cron-scheduled pass that logs Component
// directory statistics. It is deliberately independent of the routing
// loop's own timeout scan: liveness (pinging, eviction) stays the
// Coordinator's exclusive responsibility, per SPEC_FULL.md §11.4 — this
// scheduler only observes and logs.
package housekeeping

import (
	"context"
	"time"

	"github.com/adhocore/gronx"

	"github.com/leco-dev/coordinator/pkg/directory"
	"github.com/leco-dev/coordinator/pkg/logger"
)

const component = "housekeeping"

// Scheduler evaluates a cron expression once a minute and logs a directory
// snapshot whenever it fires.
type Scheduler struct {
	expr string
	dir  *directory.Directory
	gron gronx.Gronx

	tick time.Duration
}

// Option customizes a Scheduler at construction time.
type Option func(*Scheduler)

// WithPollInterval overrides the default one-minute poll tick. Tests use
// this to avoid waiting on real-world cron boundaries.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.tick = d }
}

// New constructs a Scheduler that fires on expr (standard 5-field cron
// syntax) and reports on dir.
func New(expr string, dir *directory.Directory, opts ...Option) *Scheduler {
	s := &Scheduler{expr: expr, dir: dir, gron: gronx.New(), tick: time.Minute}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls until ctx is cancelled, evaluating the cron expression on every
// tick and logging a snapshot whenever it is due.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.fireIfDue(now)
		}
	}
}

func (s *Scheduler) fireIfDue(now time.Time) {
	due, err := s.gron.IsDue(s.expr, now)
	if err != nil {
		logger.WarnCF(component, "invalid housekeeping cron expression", map[string]any{"expr": s.expr, "error": err.Error()})
		return
	}
	if !due {
		return
	}
	s.logSnapshot()
}

func (s *Scheduler) logSnapshot() {
	logger.InfoCF(component, "directory snapshot", map[string]any{
		"signed_in_components": s.dir.Len(),
		"names":                s.dir.Names(),
	})
}
