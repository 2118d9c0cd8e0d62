// Package transcript holds the append-only transcript store. Lines are written
// only by the session supervisor and observed by any number of readers.
package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Line is one immutable transcript entry. Ordering is append order.
type Line struct {
	ID        string
	Text      string
	Timestamp time.Time
}

// NewLine creates a transcript line stamped with the current time.
func NewLine(text string) Line {
	return Line{ID: uuid.NewString(), Text: text, Timestamp: time.Now()}
}

// Store is an in-memory append-only line store with change subscriptions.
type Store struct {
	mu        sync.RWMutex
	lines     []Line
	observers []func([]Line)
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Append(line Line) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	snapshot := s.snapshotLocked()
	observers := append([]func([]Line){}, s.observers...)
	s.mu.Unlock()

	for _, observe := range observers {
		observe(snapshot)
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	observers := append([]func([]Line){}, s.observers...)
	s.mu.Unlock()

	for _, observe := range observers {
		observe(nil)
	}
}

// Lines returns a point-in-time copy of the stored lines in append order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer invoked with a fresh snapshot after every
// append or clear. Observers run on the writer's goroutine and should not
// block.
func (s *Store) Subscribe(observer func(lines []Line)) {
	if observer == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

func (s *Store) snapshotLocked() []Line {
	if len(s.lines) == 0 {
		return nil
	}

	snapshot := make([]Line, len(s.lines))
	copy(snapshot, s.lines)
	return snapshot
}
