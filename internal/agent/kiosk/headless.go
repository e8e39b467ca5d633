package kiosk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fkhayef/paylock/internal/logging"
)

// Headless is a Capability for hosts without a kiosk API. The lock surface
// is a file holding the lock message, which a display process renders;
// the other primitives are recorded and logged.
type Headless struct {
	path string
	log  logging.Logger

	mu         sync.Mutex
	restricted bool
	pinned     bool
}

// NewHeadless writes the lock surface to dir/lockscreen.txt
func NewHeadless(dir string, log logging.Logger) *Headless {
	return &Headless{path: filepath.Join(dir, "lockscreen.txt"), log: log}
}

func (h *Headless) ShowLockSurface(ctx context.Context, message string) error {
	if err := os.WriteFile(h.path, []byte(message+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write lock surface: %w", err)
	}
	return nil
}

func (h *Headless) DismissLockSurface(ctx context.Context) error {
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock surface: %w", err)
	}
	return nil
}

func (h *Headless) IsSurfaceForeground(ctx context.Context) (bool, error) {
	_, err := os.Stat(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (h *Headless) SetInputRestricted(ctx context.Context, restricted bool) error {
	h.mu.Lock()
	h.restricted = restricted
	h.mu.Unlock()
	h.log.Debug(ctx, "input restriction", "restricted", restricted)
	return nil
}

// IsDeviceOwner is always false; keyguard and status bar are left alone
func (h *Headless) IsDeviceOwner(ctx context.Context) bool { return false }

func (h *Headless) SetKeyguardDisabled(ctx context.Context, disabled bool) error { return nil }

func (h *Headless) SetStatusBarDisabled(ctx context.Context, disabled bool) error { return nil }

func (h *Headless) EnterKioskMode(ctx context.Context) error {
	h.mu.Lock()
	h.pinned = true
	h.mu.Unlock()
	return nil
}

func (h *Headless) ExitKioskMode(ctx context.Context) error {
	h.mu.Lock()
	h.pinned = false
	h.mu.Unlock()
	return nil
}

// Pinned reports whether input is restricted and the task pinned
func (h *Headless) Pinned() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.restricted && h.pinned
}
