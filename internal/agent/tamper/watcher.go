// Package tamper locks the device while a debug bridge is enabled.
package tamper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fkhayef/paylock/internal/agent/lockflag"
	"github.com/fkhayef/paylock/internal/logging"
)

const (
	DefaultInterval = 2 * time.Second
	Message         = lockflag.TamperMessage
)

// DebugBridgeSensor reports whether a debug bridge (USB debugging or
// similar) is currently enabled.
type DebugBridgeSensor interface {
	Active(ctx context.Context) (bool, error)
}

// Watcher polls the sensor and raises or clears the tamper bit of the lock
// flag on transitions. Clearing it leaves a backend lock in place.
type Watcher struct {
	sensor   DebugBridgeSensor
	flags    *lockflag.Store
	log      logging.Logger
	interval time.Duration
}

// NewWatcher creates a watcher. A zero interval means DefaultInterval.
func NewWatcher(sensor DebugBridgeSensor, flags *lockflag.Store, log logging.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{sensor: sensor, flags: flags, log: log, interval: interval}
}

// Run checks immediately and then every interval until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Check reads the sensor once and applies any transition
func (w *Watcher) Check(ctx context.Context) {
	active, err := w.sensor.Active(ctx)
	if err != nil {
		w.log.Warn(ctx, "debug bridge sensor failed", "error", err)
		return
	}

	current := w.flags.Get()
	switch {
	case active && !current.Tamper:
		w.raise(ctx)
	case !active && current.Tamper:
		w.clear(ctx)
	}
}

func (w *Watcher) raise(ctx context.Context) {
	if _, err := w.flags.Update(func(st *lockflag.State) { st.Tamper = true }); err != nil {
		w.log.Error(ctx, "failed to persist tamper lock", "error", err)
		return
	}
	w.log.Warn(ctx, "debug bridge enabled, locking device")
}

func (w *Watcher) clear(ctx context.Context) {
	st, err := w.flags.Update(func(st *lockflag.State) { st.Tamper = false })
	if err != nil {
		w.log.Error(ctx, "failed to persist tamper clear", "error", err)
		return
	}
	w.log.Info(ctx, "debug bridge disabled", "backendLocked", st.Locked)
}

// FileSensor reads a setting file mirroring the platform's debug bridge
// switch; "1" or "true" means enabled and a missing file means disabled.
type FileSensor struct {
	Path string
}

func (s FileSensor) Active(ctx context.Context) (bool, error) {
	if s.Path == "" {
		return false, nil
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case "1", "true", "on":
		return true, nil
	default:
		return false, nil
	}
}
