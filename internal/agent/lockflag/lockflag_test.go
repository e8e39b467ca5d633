package lockflag

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFileIsUnlocked(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	s, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, State{}, s.Get())
	assert.DirExists(t, dir)
}

func TestSet_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Set(State{Locked: true, Message: "pay up", ActivatedAt: &at}))

	reopened, err := Open(dir)
	require.NoError(t, err)
	got := reopened.Get()
	assert.True(t, got.Locked)
	assert.Equal(t, "pay up", got.Message)
	require.NotNil(t, got.ActivatedAt)
	assert.True(t, at.Equal(*got.ActivatedAt))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestOpen_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{nope"), 0o600))

	_, err := Open(dir)
	assert.ErrorContains(t, err, "failed to decode lock flag")
}

func TestUpdate_NotifiesOnlyOnChange(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	ch, cancel := s.Subscribe()
	defer cancel()

	_, err = s.Update(func(st *State) { st.Tamper = true })
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.True(t, got.Tamper)
		assert.True(t, got.Engaged())
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}

	_, err = s.Update(func(st *State) { st.Tamper = true })
	require.NoError(t, err)
	select {
	case got := <-ch:
		t.Fatalf("unexpected notification %+v", got)
	default:
	}
}

func TestSubscribe_SlowReaderSeesLatest(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	ch, cancel := s.Subscribe()
	require.NoError(t, s.Set(State{Locked: true, Message: "one"}))
	require.NoError(t, s.Set(State{Locked: true, Message: "two"}))

	got := <-ch
	assert.Equal(t, "two", got.Message)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, s.Set(State{}))
}

func TestUpdate_ConcurrentWritersSerialise(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Update(func(st *State) {
				st.Locked = i%2 == 0
				st.Message = "m"
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	reopened, err := Open(filepath.Dir(s.path))
	require.NoError(t, err)
	assert.Equal(t, s.Get(), reopened.Get())
}

func TestState_SurfaceMessage(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"backend lock", State{Locked: true, Message: "pay"}, "pay"},
		{"tamper only", State{Tamper: true}, TamperMessage},
		{"backend lock wins over tamper", State{Locked: true, Message: "pay", Tamper: true}, "pay"},
		{"unlocked", State{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.state.SurfaceMessage())
		})
	}
}
