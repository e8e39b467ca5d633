// Package agent assembles the device-side loops: lock polling, kiosk
// re-assertion, tamper watching and location reporting.
package agent

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/fkhayef/paylock/internal/agent/backend"
	"github.com/fkhayef/paylock/internal/agent/config"
	"github.com/fkhayef/paylock/internal/agent/kiosk"
	"github.com/fkhayef/paylock/internal/agent/lockflag"
	"github.com/fkhayef/paylock/internal/agent/poller"
	"github.com/fkhayef/paylock/internal/agent/session"
	"github.com/fkhayef/paylock/internal/agent/supervisor"
	"github.com/fkhayef/paylock/internal/agent/tamper"
	"github.com/fkhayef/paylock/internal/agent/tracker"
	"github.com/fkhayef/paylock/internal/logging"
)

// Agent owns the local state and the loops acting on it
type Agent struct {
	cfg *config.Config
	log logging.Logger

	flags    *lockflag.Store
	sessions *session.Store
	client   *backend.Client
	enforcer *kiosk.Enforcer

	tasks []supervisor.Task
}

// New opens the agent's state in cfg.DataDir and wires the loops around
// the given kiosk capability and tamper sensor.
func New(cfg *config.Config, log logging.Logger, capability kiosk.Capability, sensor tamper.DebugBridgeSensor) (*Agent, error) {
	flags, err := lockflag.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	sessions, err := session.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		cfg:      cfg,
		log:      log,
		flags:    flags,
		sessions: sessions,
		client:   backend.NewClient(cfg.ServerURL, sessions, cfg.RequestTimeout),
		enforcer: kiosk.NewEnforcer(capability, log.With("component", "kiosk"), cfg.ReassertInterval),
	}

	p := poller.New(a.client, sessions, flags, log.With("component", "poller"), cfg.PollInterval, cfg.FirstPollDelay)
	w := tamper.NewWatcher(sensor, flags, log.With("component", "tamper"), cfg.TamperInterval)

	a.tasks = []supervisor.Task{
		{Name: "session", Run: a.keepSession},
		{Name: "poller", Run: p.Run},
		{Name: "kiosk", Run: func(ctx context.Context) error { return a.enforcer.Run(ctx, flags) }},
		{Name: "tamper", Run: w.Run},
	}
	if cfg.HasFixedLocation() {
		loc := tracker.FixedLocator{Latitude: *cfg.Latitude, Longitude: *cfg.Longitude}
		t := tracker.New(loc, a.client, log.With("component", "tracker"), cfg.LocationInterval)
		a.tasks = append(a.tasks, supervisor.Task{Name: "tracker", Run: t.Run})
	}

	return a, nil
}

// Run re-applies a lock persisted by a previous run, then supervises the
// loops until ctx is done.
func (a *Agent) Run(ctx context.Context) error {
	if st := a.flags.Get(); st.Engaged() {
		a.log.Info(ctx, "restoring lock from previous run", "tamper", st.Tamper)
		a.enforcer.Sync(ctx, st)
	}

	err := supervisor.New(a.log.With("component", "supervisor"), a.cfg.RestartBackoff).Run(ctx, a.tasks...)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// keepSession logs in with the configured credentials whenever no session
// is stored, including after the poller dropped a rejected token. Without
// credentials the agent waits for a session file to be provisioned.
func (a *Agent) keepSession(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if a.sessions.Token() == "" && a.cfg.Username != "" {
			if err := a.login(ctx); err != nil {
				a.log.Warn(ctx, "login failed", "error", err)
			}
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *Agent) login(ctx context.Context) error {
	auth, err := a.client.Login(ctx, a.cfg.Username, a.cfg.Password)
	if err != nil {
		return err
	}
	if err := a.sessions.Save(session.Session{Token: auth.Token, AccountID: auth.User.ID}); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	a.log.Info(ctx, "logged in", "accountId", auth.User.ID)

	info := map[string]interface{}{"os": runtime.GOOS, "arch": runtime.GOARCH}
	if err := a.client.RegisterDevice(ctx, a.cfg.DeviceID, info); err != nil {
		a.log.Warn(ctx, "device registration failed", "error", err)
	}
	return nil
}
