// Package tracker reports the device's position to the backend.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/fkhayef/paylock/internal/agent/backend"
	"github.com/fkhayef/paylock/internal/location"
	"github.com/fkhayef/paylock/internal/logging"
)

const DefaultInterval = 5 * time.Minute

// Locator produces the current position
type Locator interface {
	Locate(ctx context.Context) (*location.UpdateRequest, error)
}

// Reporter posts a position to the backend
type Reporter interface {
	UpdateLocation(ctx context.Context, req *location.UpdateRequest) error
}

// Tracker reports a position immediately and then every interval.
// Failures are logged and the next report is attempted on schedule.
type Tracker struct {
	locator  Locator
	reporter Reporter
	log      logging.Logger
	interval time.Duration
}

// New creates a tracker. A zero interval means DefaultInterval.
func New(locator Locator, reporter Reporter, log logging.Logger, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tracker{locator: locator, reporter: reporter, log: log, interval: interval}
}

func (t *Tracker) Run(ctx context.Context) error {
	t.Report(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.Report(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Report sends one position and reports whether it was accepted
func (t *Tracker) Report(ctx context.Context) bool {
	req, err := t.locator.Locate(ctx)
	if err != nil {
		t.log.Warn(ctx, "failed to determine location", "error", err)
		return false
	}

	err = t.reporter.UpdateLocation(ctx, req)
	switch {
	case errors.Is(err, backend.ErrNoSession):
		t.log.Debug(ctx, "no session, skipping location report")
		return false
	case err != nil:
		t.log.Warn(ctx, "failed to report location", "error", err)
		return false
	}
	t.log.Debug(ctx, "location reported")
	return true
}

// FixedLocator always reports the same coordinates
type FixedLocator struct {
	Latitude  float64
	Longitude float64
	Address   string
}

func (f FixedLocator) Locate(ctx context.Context) (*location.UpdateRequest, error) {
	lat, lng := f.Latitude, f.Longitude
	return &location.UpdateRequest{Latitude: &lat, Longitude: &lng, Address: f.Address}, nil
}
