// Package poller keeps the local lock flag in step with the backend.
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/fkhayef/paylock/internal/agent/backend"
	"github.com/fkhayef/paylock/internal/agent/lockflag"
	"github.com/fkhayef/paylock/internal/lock"
	"github.com/fkhayef/paylock/internal/logging"
)

const (
	DefaultInterval   = 10 * time.Second
	DefaultFirstDelay = 2 * time.Second
)

// LockChecker queries the backend for this device's lock state
type LockChecker interface {
	CheckLock(ctx context.Context) (*lock.StatusResponse, error)
}

// Session is the stored login the poller checks with. A token the backend
// rejects is cleared so that a fresh login can replace it.
type Session interface {
	Token() string
	Clear() error
}

// Poller periodically reconciles the backend lock with the local flag. It
// only writes the flag; the kiosk enforcer follows it. Network failures
// leave the last known state in place.
type Poller struct {
	checker  LockChecker
	sessions Session
	flags    *lockflag.Store
	log      logging.Logger

	interval   time.Duration
	firstDelay time.Duration
	now        func() time.Time
}

// New creates a poller. Zero durations fall back to the defaults.
func New(checker LockChecker, sessions Session, flags *lockflag.Store, log logging.Logger, interval, firstDelay time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if firstDelay <= 0 {
		firstDelay = DefaultFirstDelay
	}
	return &Poller{
		checker:    checker,
		sessions:   sessions,
		flags:      flags,
		log:        log,
		interval:   interval,
		firstDelay: firstDelay,
		now:        time.Now,
	}
}

// Run checks once after the first delay and then every interval until ctx
// is done.
func (p *Poller) Run(ctx context.Context) error {
	timer := time.NewTimer(p.firstDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		p.Tick(ctx)
	case <-ctx.Done():
		return ctx.Err()
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Tick(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Tick performs one check. It is a no-op without a session.
func (p *Poller) Tick(ctx context.Context) {
	if p.sessions.Token() == "" {
		p.log.Debug(ctx, "no session, skipping lock check")
		return
	}

	remote, err := p.checker.CheckLock(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			p.log.Warn(ctx, "session rejected by backend, keeping last known lock state")
			if err := p.sessions.Clear(); err != nil {
				p.log.Error(ctx, "failed to clear rejected session", "error", err)
			}
		} else {
			p.log.Warn(ctx, "lock check failed, keeping last known lock state", "error", err)
		}
		return
	}

	local := p.flags.Get()
	switch {
	case remote.IsLocked && !local.Locked:
		p.lock(ctx, messageOf(remote))
	case remote.IsLocked && messageOf(remote) != local.Message:
		p.relabel(ctx, messageOf(remote))
	case !remote.IsLocked && local.Locked:
		p.unlock(ctx)
	}
}

func (p *Poller) lock(ctx context.Context, message string) {
	now := p.now()
	_, err := p.flags.Update(func(st *lockflag.State) {
		st.Locked = true
		st.Message = message
		st.ActivatedAt = &now
	})
	if err != nil {
		p.log.Error(ctx, "failed to persist lock flag", "error", err)
		return
	}
	p.log.Info(ctx, "device locked by backend")
}

func (p *Poller) relabel(ctx context.Context, message string) {
	if _, err := p.flags.Update(func(st *lockflag.State) { st.Message = message }); err != nil {
		p.log.Error(ctx, "failed to persist lock message", "error", err)
	}
}

func (p *Poller) unlock(ctx context.Context) {
	st, err := p.flags.Update(func(st *lockflag.State) {
		st.Locked = false
		st.Message = ""
		st.ActivatedAt = nil
	})
	if err != nil {
		p.log.Error(ctx, "failed to persist unlock", "error", err)
		return
	}
	p.log.Info(ctx, "device unlocked by backend")
	if st.Tamper {
		p.log.Warn(ctx, "tamper lock still raised, staying in kiosk mode")
	}
}

func messageOf(s *lock.StatusResponse) string {
	if s.LockMessage == "" {
		return lock.DefaultMessage
	}
	return s.LockMessage
}
