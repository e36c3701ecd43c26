package mocks

import (
	"sync"
	"time"

	"github.com/wheelwords/wheelwords-go/internal/dependencies/sched"
)

// MockScheduler is a mock implementation of Scheduler for testing.
// Scheduled actions do not fire on their own; tests trigger them with
// FireNext or FireAll. Safe for concurrent use so it can sit behind
// subscription callbacks.
type MockScheduler struct {
	mu      sync.Mutex
	nextID  uint64
	pending []pendingAction
}

type pendingAction struct {
	token sched.Token
	delay time.Duration
	fn    func()
}

// Ensure MockScheduler implements Scheduler
var _ sched.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates a new MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// Schedule queues fn without starting any timer
func (s *MockScheduler) Schedule(d time.Duration, fn func()) sched.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	token := sched.Token{ID: s.nextID}
	s.pending = append(s.pending, pendingAction{token: token, delay: d, fn: fn})
	return token
}

// Cancel removes a queued action
func (s *MockScheduler) Cancel(token sched.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p.token == token {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// CancelAll removes every queued action
func (s *MockScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// PendingCount returns the number of queued actions
func (s *MockScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// FireNext runs and removes the oldest queued action.
// Returns false if none are queued.
func (s *MockScheduler) FireNext() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false
	}
	p := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	p.fn()
	return true
}

// FireAll runs queued actions until none remain, including actions
// queued by the actions themselves
func (s *MockScheduler) FireAll() {
	for s.FireNext() {
	}
}
