package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/paylock/internal/agent/backend"
	"github.com/fkhayef/paylock/internal/agent/lockflag"
	"github.com/fkhayef/paylock/internal/lock"
	"github.com/fkhayef/paylock/internal/logging"
)

type fakeBackend struct {
	mu     sync.Mutex
	status lock.StatusResponse
	err    error
	calls  int
}

func (f *fakeBackend) set(locked bool, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = lock.StatusResponse{IsLocked: locked, LockMessage: msg}
	f.err = nil
}

func (f *fakeBackend) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeBackend) CheckLock(ctx context.Context) (*lock.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	return &st, nil
}

type fakeSession struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

func newPoller(t *testing.T, tok string) (*Poller, *fakeBackend, *fakeSession, *lockflag.Store) {
	t.Helper()
	flags, err := lockflag.Open(t.TempDir())
	require.NoError(t, err)
	be := &fakeBackend{}
	sess := &fakeSession{token: tok}
	p := New(be, sess, flags, logging.Discard(), time.Hour, time.Hour)

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return p, be, sess, flags
}

func TestTick_Convergence(t *testing.T) {
	p, be, _, flags := newPoller(t, "tok")
	ctx := context.Background()

	p.Tick(ctx)
	assert.Equal(t, lockflag.State{}, flags.Get())

	be.set(true, "pay today")
	p.Tick(ctx)
	st := flags.Get()
	assert.True(t, st.Locked)
	assert.Equal(t, "pay today", st.Message)
	require.NotNil(t, st.ActivatedAt)
	lockedAt := *st.ActivatedAt

	p.Tick(ctx)
	p.Tick(ctx)
	assert.Equal(t, lockedAt, *flags.Get().ActivatedAt, "unchanged backend state must not re-lock")

	be.set(false, "")
	p.Tick(ctx)
	p.Tick(ctx)
	assert.Equal(t, lockflag.State{}, flags.Get())
}

func TestTick_UnlockBroadcastsThroughFlag(t *testing.T) {
	p, be, _, flags := newPoller(t, "tok")
	ctx := context.Background()

	be.set(true, "x")
	p.Tick(ctx)

	ch, cancel := flags.Subscribe()
	defer cancel()

	be.set(false, "")
	p.Tick(ctx)

	select {
	case st := <-ch:
		assert.False(t, st.Engaged())
	case <-time.After(time.Second):
		t.Fatal("unlock was not broadcast")
	}
}

func TestTick_DefaultAndChangedMessage(t *testing.T) {
	p, be, _, flags := newPoller(t, "tok")
	ctx := context.Background()

	be.set(true, "")
	p.Tick(ctx)
	assert.Equal(t, lock.DefaultMessage, flags.Get().Message)
	lockedAt := *flags.Get().ActivatedAt

	be.set(true, "new text")
	p.Tick(ctx)
	st := flags.Get()
	assert.Equal(t, "new text", st.Message)
	assert.Equal(t, lockedAt, *st.ActivatedAt, "relabel keeps the lock time")
}

func TestTick_FailuresKeepLastKnownState(t *testing.T) {
	p, be, sess, flags := newPoller(t, "tok")
	ctx := context.Background()

	be.set(true, "locked")
	p.Tick(ctx)

	for _, err := range []error{errors.New("dial tcp: i/o timeout"), &backend.APIError{Status: 500}} {
		be.fail(err)
		p.Tick(ctx)
		assert.True(t, flags.Get().Locked)
	}
	assert.Zero(t, sess.cleared, "transient failures keep the session")
}

func TestTick_RejectedSessionIsCleared(t *testing.T) {
	p, be, sess, flags := newPoller(t, "expired")
	ctx := context.Background()
	require.NoError(t, flags.Set(lockflag.State{Locked: true, Message: "owed"}))

	be.fail(backend.ErrUnauthorized)
	p.Tick(ctx)
	assert.Equal(t, 1, sess.cleared)
	assert.Empty(t, sess.Token())
	assert.Equal(t, lockflag.State{Locked: true, Message: "owed"}, flags.Get())

	p.Tick(ctx)
	assert.Equal(t, 1, be.calls, "no checks until a new session exists")

	sess.token = "fresh"
	be.set(false, "")
	p.Tick(ctx)
	assert.False(t, flags.Get().Locked)
}

func TestTick_InertWithoutSession(t *testing.T) {
	p, be, _, _ := newPoller(t, "")
	p.Tick(context.Background())
	assert.Zero(t, be.calls)
}

func TestTick_BackendUnlockKeepsTamper(t *testing.T) {
	p, be, _, flags := newPoller(t, "tok")
	ctx := context.Background()

	be.set(true, "x")
	p.Tick(ctx)
	_, err := flags.Update(func(st *lockflag.State) { st.Tamper = true })
	require.NoError(t, err)

	be.set(false, "")
	p.Tick(ctx)

	st := flags.Get()
	assert.False(t, st.Locked)
	assert.True(t, st.Engaged())
}

func TestRun_LocksWithinOneInterval(t *testing.T) {
	flags, err := lockflag.Open(t.TempDir())
	require.NoError(t, err)
	be := &fakeBackend{}
	p := New(be, &fakeSession{token: "tok"}, flags, logging.Discard(), 20*time.Millisecond, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	be.set(true, "late payment")
	assert.Eventually(t, func() bool { return flags.Get().Locked }, time.Second, 5*time.Millisecond)

	be.set(false, "")
	assert.Eventually(t, func() bool { return !flags.Get().Engaged() }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
