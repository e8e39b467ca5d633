// Package lockflag owns the device's local lock state.
//
// A single Store guards the state with one mutex and persists every change
// to a JSON file so the lock survives a reboot. Components never share raw
// variables; they read with Get, write with Set or Update, and watch changes
// through Subscribe.
package lockflag

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// FileName is the name of the persisted flag inside the data directory
	FileName = "lockflag.json"

	// TamperMessage is shown while only the tamper lock is raised
	TamperMessage = "Debugging was enabled on this device. Disable it to continue."
)

// State is the locally cached lock flag.
//
// Locked mirrors the backend lock; Tamper is raised by the local tamper
// watcher and is never reported by the backend.
type State struct {
	Locked      bool       `json:"locked"`
	Message     string     `json:"message,omitempty"`
	ActivatedAt *time.Time `json:"activatedAt,omitempty"`
	Tamper      bool       `json:"tamper,omitempty"`
}

// Engaged reports whether the device should be in kiosk mode
func (s State) Engaged() bool {
	return s.Locked || s.Tamper
}

// SurfaceMessage is the text the lock surface shows for this state. A
// backend lock wins over the tamper lock.
func (s State) SurfaceMessage() string {
	if s.Locked && s.Message != "" {
		return s.Message
	}
	if s.Tamper {
		return TamperMessage
	}
	return s.Message
}

// Store is the single owner of the persisted lock flag
type Store struct {
	path string

	mu          sync.Mutex
	state       State
	subscribers map[int]chan State
	nextID      int
}

// Open loads the flag from dir, creating the directory when needed. A
// missing file yields an unlocked state.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &Store{
		path:        filepath.Join(dir, FileName),
		subscribers: make(map[int]chan State),
	}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read lock flag: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to decode lock flag: %w", err)
	}
	return s, nil
}

// Get returns a copy of the current state
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the state
func (s *Store) Set(st State) error {
	_, err := s.Update(func(cur *State) { *cur = st })
	return err
}

// Update applies fn to the state under the store's lock, persists the
// result and notifies subscribers when it changed. The in-memory state is
// left untouched when persisting fails.
func (s *Store) Update(fn func(*State)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)
	if equal(next, s.state) {
		return next, nil
	}

	if err := s.persist(next); err != nil {
		return s.state, err
	}
	s.state = next

	for _, ch := range s.subscribers {
		publish(ch, next)
	}
	return next, nil
}

// Subscribe returns a channel receiving the state after every change, and a
// function that ends the subscription. Slow readers only see the latest
// state.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) persist(st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode lock flag: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write lock flag: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync lock flag: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close lock flag: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace lock flag: %w", err)
	}
	return nil
}

// publish drops a stale pending value so the channel holds the latest one
func publish(ch chan State, st State) {
	select {
	case <-ch:
	default:
	}
	ch <- st
}

func equal(a, b State) bool {
	if a.Locked != b.Locked || a.Message != b.Message || a.Tamper != b.Tamper {
		return false
	}
	switch {
	case a.ActivatedAt == nil && b.ActivatedAt == nil:
		return true
	case a.ActivatedAt == nil || b.ActivatedAt == nil:
		return false
	default:
		return a.ActivatedAt.Equal(*b.ActivatedAt)
	}
}
