// Package supervisor keeps the agent's loops alive.
package supervisor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/paylock/internal/logging"
)

const DefaultBackoff = 3 * time.Second

// Task is a long-running loop that should only return once ctx is done
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Supervisor restarts tasks that panic or return before shutdown
type Supervisor struct {
	log     logging.Logger
	backoff time.Duration
}

// New creates a supervisor. A zero backoff means DefaultBackoff.
func New(log logging.Logger, backoff time.Duration) *Supervisor {
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Supervisor{log: log, backoff: backoff}
}

// Run starts every task and blocks until ctx is done and all of them have
// returned.
func (s *Supervisor) Run(ctx context.Context, tasks ...Task) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			s.keepAlive(ctx, t)
			return nil
		})
	}
	return g.Wait()
}

func (s *Supervisor) keepAlive(ctx context.Context, t Task) {
	log := s.log.With("task", t.Name)
	for restarts := 0; ; restarts++ {
		err := runSafely(ctx, t.Run)
		if ctx.Err() != nil {
			log.Debug(ctx, "task stopped")
			return
		}

		log.Error(ctx, "task exited unexpectedly, restarting", "error", err, "restarts", restarts, "backoff", s.backoff)
		select {
		case <-time.After(s.backoff):
		case <-ctx.Done():
			return
		}
	}
}

func runSafely(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return fn(ctx)
}
