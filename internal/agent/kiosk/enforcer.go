// Package kiosk keeps the lock surface pinned in the foreground while the
// device is locked and releases it when the lock is lifted.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fkhayef/paylock/internal/agent/lockflag"
	"github.com/fkhayef/paylock/internal/logging"
)

// DefaultReassertInterval is how often the surface is checked while locked
const DefaultReassertInterval = 500 * time.Millisecond

// Enforcer applies and reverses kiosk mode. Enter and Exit are idempotent:
// repeated calls in the same state do nothing.
type Enforcer struct {
	cap      Capability
	log      logging.Logger
	interval time.Duration

	mu      sync.Mutex
	active  bool
	message string
	owner   bool
}

// NewEnforcer creates an enforcer. A zero interval means
// DefaultReassertInterval.
func NewEnforcer(c Capability, log logging.Logger, interval time.Duration) *Enforcer {
	if interval <= 0 {
		interval = DefaultReassertInterval
	}
	return &Enforcer{cap: c, log: log, interval: interval}
}

// Active reports whether kiosk mode is currently applied
func (e *Enforcer) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Enter shows the surface, restricts input, disables keyguard and status
// bar when privileged, then pins the task. A failing step does not stop
// the later ones; the joined errors are returned.
func (e *Enforcer) Enter(ctx context.Context, message string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		if message != e.message {
			e.message = message
			if err := e.cap.ShowLockSurface(ctx, message); err != nil {
				return fmt.Errorf("failed to refresh lock surface: %w", err)
			}
		}
		return nil
	}

	var errs []error
	step := func(name string, err error) {
		if err != nil {
			e.log.Error(ctx, "kiosk enter step failed", "step", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	step("show surface", e.cap.ShowLockSurface(ctx, message))
	step("restrict input", e.cap.SetInputRestricted(ctx, true))
	e.owner = e.cap.IsDeviceOwner(ctx)
	if e.owner {
		step("disable keyguard", e.cap.SetKeyguardDisabled(ctx, true))
		step("disable status bar", e.cap.SetStatusBarDisabled(ctx, true))
	}
	step("pin task", e.cap.EnterKioskMode(ctx))

	e.active = true
	e.message = message
	e.log.Info(ctx, "kiosk mode entered", "deviceOwner", e.owner)
	return errors.Join(errs...)
}

// Exit reverses Enter in the inverse order. Every step is attempted and
// failures are only logged, leaving a partially unlocked device rather
// than a stranded user.
func (e *Enforcer) Exit(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return
	}

	step := func(name string, err error) {
		if err != nil {
			e.log.Warn(ctx, "kiosk exit step failed", "step", name, "error", err)
		}
	}

	step("unpin task", e.cap.ExitKioskMode(ctx))
	if e.owner {
		step("restore status bar", e.cap.SetStatusBarDisabled(ctx, false))
		step("restore keyguard", e.cap.SetKeyguardDisabled(ctx, false))
	}
	step("release input", e.cap.SetInputRestricted(ctx, false))
	step("dismiss surface", e.cap.DismissLockSurface(ctx))

	e.active = false
	e.message = ""
	e.log.Info(ctx, "kiosk mode exited")
}

// FlagSource is the lock flag the enforcer follows
type FlagSource interface {
	Get() lockflag.State
	Subscribe() (<-chan lockflag.State, func())
}

// Sync enters kiosk mode when st is engaged and leaves it otherwise
func (e *Enforcer) Sync(ctx context.Context, st lockflag.State) {
	if !st.Engaged() {
		e.Exit(ctx)
		return
	}
	if err := e.Enter(ctx, st.SurfaceMessage()); err != nil {
		e.log.Error(ctx, "kiosk mode only partially applied", "error", err)
	}
}

// Run drives Enter and Exit for the running agent; nothing else does. It
// applies the current flag, follows every change, and on each tick
// re-applies the flag and re-shows a displaced lock surface. It returns
// when ctx is done.
func (e *Enforcer) Run(ctx context.Context, flags FlagSource) error {
	changes, cancel := flags.Subscribe()
	defer cancel()

	e.Sync(ctx, flags.Get())

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case st := <-changes:
			e.Sync(ctx, st)
		case <-ticker.C:
			e.Sync(ctx, flags.Get())
			e.reassert(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (e *Enforcer) reassert(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return
	}

	fg, err := e.cap.IsSurfaceForeground(ctx)
	if err != nil {
		e.log.Warn(ctx, "failed to query foreground surface", "error", err)
		return
	}
	if fg {
		return
	}

	e.log.Info(ctx, "lock surface displaced, relaunching")
	if err := e.cap.ShowLockSurface(ctx, e.message); err != nil {
		e.log.Error(ctx, "failed to relaunch lock surface", "error", err)
	}
}
