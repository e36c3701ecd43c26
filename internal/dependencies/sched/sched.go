package sched

import (
	"sync"
	"time"
)

// Token identifies a pending scheduled action so it can be cancelled
type Token struct {
	ID uint64
}

// Scheduler runs an action after a delay. It replaces ad hoc timer
// chains: pending actions (spin resolution, AI thinking pauses) can be
// invalidated when state changes underneath them.
type Scheduler interface {
	// Schedule runs fn after d on a separate goroutine
	Schedule(d time.Duration, fn func()) Token

	// Cancel stops a pending action. Cancelling an already-fired or
	// unknown token is a no-op.
	Cancel(token Token)

	// CancelAll stops every pending action
	CancelAll()
}

// TimerScheduler implements Scheduler with time.AfterFunc
type TimerScheduler struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*time.Timer
}

// New creates a new TimerScheduler
func New() *TimerScheduler {
	return &TimerScheduler{
		pending: make(map[uint64]*time.Timer),
	}
}

var _ Scheduler = (*TimerScheduler)(nil)

// Schedule runs fn after d
func (s *TimerScheduler) Schedule(d time.Duration, fn func()) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.pending[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		fn()
	})
	return Token{ID: id}
}

// Cancel stops a pending action
func (s *TimerScheduler) Cancel(token Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[token.ID]; ok {
		timer.Stop()
		delete(s.pending, token.ID)
	}
}

// CancelAll stops every pending action
func (s *TimerScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
}
