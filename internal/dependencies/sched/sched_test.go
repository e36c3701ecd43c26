package sched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFires(t *testing.T) {
	s := New()
	fired := make(chan struct{})

	s.Schedule(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduled action never fired")
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	s := New()
	var fired atomic.Bool

	token := s.Schedule(20*time.Millisecond, func() { fired.Store(true) })
	s.Cancel(token)

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestCancelUnknownTokenIsNoop(t *testing.T) {
	s := New()
	s.Cancel(Token{ID: 42})
}

func TestCancelAfterFireIsNoop(t *testing.T) {
	s := New()
	fired := make(chan struct{})

	token := s.Schedule(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduled action never fired")
	}
	s.Cancel(token)
}

func TestCancelAllStopsEverything(t *testing.T) {
	s := New()
	var count atomic.Int32

	for i := 0; i < 5; i++ {
		s.Schedule(20*time.Millisecond, func() { count.Add(1) })
	}
	s.CancelAll()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
}

func TestTokensAreUnique(t *testing.T) {
	s := New()
	defer s.CancelAll()

	a := s.Schedule(time.Hour, func() {})
	b := s.Schedule(time.Hour, func() {})
	require.NotEqual(t, a, b)
}
