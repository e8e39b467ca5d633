package tamper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/paylock/internal/agent/lockflag"
	"github.com/fkhayef/paylock/internal/logging"
)

type switchSensor struct {
	mu     sync.Mutex
	active bool
	err    error
}

func (s *switchSensor) set(v bool) {
	s.mu.Lock()
	s.active = v
	s.mu.Unlock()
}

func (s *switchSensor) Active(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.err
}

func setup(t *testing.T) (*Watcher, *switchSensor, *lockflag.Store) {
	t.Helper()
	flags, err := lockflag.Open(t.TempDir())
	require.NoError(t, err)
	s := &switchSensor{}
	return NewWatcher(s, flags, logging.Discard(), 10*time.Millisecond), s, flags
}

func TestCheck_RaiseAndClear(t *testing.T) {
	w, s, flags := setup(t)
	ctx := context.Background()

	changes, cancel := flags.Subscribe()
	defer cancel()

	w.Check(ctx)
	assert.False(t, flags.Get().Engaged())

	s.set(true)
	w.Check(ctx)
	st := <-changes
	assert.True(t, st.Tamper)
	assert.Equal(t, Message, st.SurfaceMessage())

	w.Check(ctx)
	select {
	case <-changes:
		t.Fatal("a steady sensor must not rewrite the flag")
	default:
	}

	s.set(false)
	w.Check(ctx)
	assert.False(t, flags.Get().Engaged())
}

func TestCheck_ClearKeepsBackendLock(t *testing.T) {
	w, s, flags := setup(t)
	ctx := context.Background()
	require.NoError(t, flags.Set(lockflag.State{Locked: true, Message: "owed"}))

	s.set(true)
	w.Check(ctx)
	assert.Equal(t, "owed", flags.Get().SurfaceMessage())

	s.set(false)
	w.Check(ctx)
	st := flags.Get()
	assert.True(t, st.Locked)
	assert.False(t, st.Tamper)
	assert.True(t, st.Engaged())
}

func TestCheck_SensorErrorChangesNothing(t *testing.T) {
	w, s, flags := setup(t)
	require.NoError(t, flags.Set(lockflag.State{Tamper: true}))
	s.err = errors.New("permission denied")

	w.Check(context.Background())
	assert.True(t, flags.Get().Tamper)
}

func TestRun_StopsOnCancel(t *testing.T) {
	w, s, flags := setup(t)
	s.set(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool { return flags.Get().Tamper }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestFileSensor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adb_enabled")
	s := FileSensor{Path: path}
	ctx := context.Background()

	active, err := s.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o600))
	active, err = s.Active(ctx)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, os.WriteFile(path, []byte("0"), 0o600))
	active, err = s.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = FileSensor{}.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}
