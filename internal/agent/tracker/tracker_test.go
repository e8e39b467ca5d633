package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/paylock/internal/agent/backend"
	"github.com/fkhayef/paylock/internal/location"
	"github.com/fkhayef/paylock/internal/logging"
)

type recordingReporter struct {
	mu   sync.Mutex
	sent []*location.UpdateRequest
	err  error
}

func (r *recordingReporter) UpdateLocation(ctx context.Context, req *location.UpdateRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, req)
	return nil
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type brokenLocator struct{}

func (brokenLocator) Locate(ctx context.Context) (*location.UpdateRequest, error) {
	return nil, errors.New("no fix")
}

func TestReport(t *testing.T) {
	rep := &recordingReporter{}
	tr := New(FixedLocator{Latitude: 4.6, Longitude: -74.1}, rep, logging.Discard(), time.Hour)

	require.True(t, tr.Report(context.Background()))
	require.Len(t, rep.sent, 1)
	assert.InDelta(t, 4.6, *rep.sent[0].Latitude, 1e-9)
	assert.InDelta(t, -74.1, *rep.sent[0].Longitude, 1e-9)

	rep.err = backend.ErrNoSession
	assert.False(t, tr.Report(context.Background()))

	rep.err = &backend.APIError{Status: 400}
	assert.False(t, tr.Report(context.Background()))

	assert.False(t, New(brokenLocator{}, rep, logging.Discard(), 0).Report(context.Background()))
}

func TestRun_ReportsPeriodically(t *testing.T) {
	rep := &recordingReporter{}
	tr := New(FixedLocator{}, rep, logging.Discard(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	assert.Eventually(t, func() bool { return rep.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
