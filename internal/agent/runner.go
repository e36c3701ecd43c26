package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wheelwords/wheelwords-go/internal/dependencies/sched"
	"github.com/wheelwords/wheelwords-go/internal/model"
	"github.com/wheelwords/wheelwords-go/internal/services/session"
)

// DefaultThinkingDelay paces AI actions so human observers can follow
const DefaultThinkingDelay = 1500 * time.Millisecond

// Runner drives AI seats from one client's point of view. Every client
// observing the game may host a Runner; the turn lease guarantees that
// only one of them executes a given seat's turn for a given state
// version.
type Runner struct {
	sessions *session.Manager
	sched    sched.Scheduler
	logger   *slog.Logger

	// OwnerID identifies this client in lease claims
	ownerID string
	policy  *Policy
	delay   time.Duration

	mu      sync.Mutex
	pending *sched.Token
}

// NewRunner creates a Runner submitting actions as the given client
func NewRunner(
	sessions *session.Manager,
	policy *Policy,
	scheduler sched.Scheduler,
	ownerID string,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		sessions: sessions,
		sched:    scheduler,
		logger:   logger.With(slog.String("component", "agent-runner")),
		ownerID:  ownerID,
		policy:   policy,
		delay:    DefaultThinkingDelay,
	}
}

// SetThinkingDelay overrides the pacing delay (zero for tests)
func (r *Runner) SetThinkingDelay(d time.Duration) {
	r.delay = d
}

// Observe inspects a fresh snapshot and, when an AI seat holds the
// turn, schedules one paced attempt to act on its behalf. Any pending
// attempt from an older snapshot is cancelled first: the state it was
// planned against no longer exists.
func (r *Runner) Observe(ctx context.Context, g *model.Game) {
	r.mu.Lock()
	if r.pending != nil {
		r.sched.Cancel(*r.pending)
		r.pending = nil
	}
	r.mu.Unlock()

	if g.Status != model.GameStatusActive || g.FinalRound {
		return
	}
	seat := g.CurrentPlayer()
	if seat == nil || seat.IsHuman {
		return
	}

	seatID := seat.ID
	code := g.JoinCode
	token := r.sched.Schedule(r.delay, func() {
		r.act(ctx, code, seatID)
	})

	r.mu.Lock()
	r.pending = &token
	r.mu.Unlock()
}

// Stop cancels any pending attempt
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		r.sched.Cancel(*r.pending)
		r.pending = nil
	}
}

// act claims the turn lease and submits a single action. Losing the
// lease or the turn is normal: another observer got there first.
func (r *Runner) act(ctx context.Context, code model.JoinCode, seatID model.PlayerID) {
	g, acquired, err := r.sessions.AcquireTurnLease(ctx, code, seatID, r.ownerID)
	if err != nil {
		r.logger.Warn("lease acquisition failed",
			slog.String("join_code", string(code)),
			slog.String("error", err.Error()))
		return
	}
	if !acquired {
		return
	}

	action := r.policy.ChooseAction(g, seatID)
	if action == nil {
		return
	}

	if _, err := r.sessions.Submit(ctx, code, action); err != nil {
		r.logger.Warn("agent action rejected",
			slog.String("join_code", string(code)),
			slog.String("seat", string(seatID)),
			slog.String("error", err.Error()))
	}
}
