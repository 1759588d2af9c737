package state

import (
	"fmt"
	"sync"
	"time"
)

// Status is the connection state shown next to the total.
type Status int

const (
	// StatusUnset is the neutral state before the first poll starts.
	StatusUnset Status = iota
	StatusConnecting
	StatusConnected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// Snapshot represents the latest data available to the renderer.
type Snapshot struct {
	Amount              int64
	HasAmount           bool // at least one poll succeeded
	Status              Status
	LastUpdated         time.Time // last poll outcome, success or failure
	LastSuccess         time.Time
	LastError           error
	ConsecutiveFailures int
	Polls               int // completed polls
}

// IsStale returns true when the shown amount has survived several failed polls.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// BeginPoll marks a poll as started. Amount and the last error are untouched.
func (s *Store) BeginPoll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Status = StatusConnecting
}

// Update records a poll outcome. When err is non-nil the previous amount is
// kept and the error is recorded for visibility.
func (s *Store) Update(amount int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.Polls++
	s.snapshot.LastUpdated = now

	if err != nil {
		s.snapshot.Status = StatusError
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Amount = amount
	s.snapshot.HasAmount = true
	s.snapshot.Status = StatusConnected
	s.snapshot.LastError = nil
	s.snapshot.LastSuccess = now
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
