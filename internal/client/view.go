package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/wheelwords/wheelwords-go/internal/agent"
	"github.com/wheelwords/wheelwords-go/internal/dependencies/random"
	"github.com/wheelwords/wheelwords-go/internal/dependencies/sched"
	"github.com/wheelwords/wheelwords-go/internal/engine"
	"github.com/wheelwords/wheelwords-go/internal/identity"
	"github.com/wheelwords/wheelwords-go/internal/model"
	"github.com/wheelwords/wheelwords-go/internal/services/session"
	"github.com/wheelwords/wheelwords-go/internal/store"
)

// DefaultSpinDelay is the pacing pause between emitting a spin and
// resolving its outcome, mirroring the wheel animation
const DefaultSpinDelay = 2 * time.Second

// View is one connecting process's window onto a shared game. It
// subscribes to store snapshots, treats each inbound snapshot as
// authoritative (no local merging), derives whose turn it is, and
// submits this player's actions. Its embedded agent runner plays AI
// seats, coordinated across clients by the turn lease.
type View struct {
	sessions *session.Manager
	store    store.Store
	resolver *identity.Resolver
	sched    sched.Scheduler
	random   random.Random
	runner   *agent.Runner
	logger   *slog.Logger

	clientID    string
	displayName string
	spinDelay   time.Duration

	mu          sync.RWMutex
	playerID    model.PlayerID
	snapshot    *model.Game
	message     string
	unsubscribe store.Unsubscribe
}

// NewView creates a client view for the named player. ClientID
// distinguishes this process in lease claims and may be any unique
// string.
func NewView(
	sessions *session.Manager,
	st store.Store,
	resolver *identity.Resolver,
	scheduler sched.Scheduler,
	rnd random.Random,
	clientID string,
	displayName string,
	logger *slog.Logger,
) *View {
	v := &View{
		sessions:    sessions,
		store:       st,
		resolver:    resolver,
		sched:       scheduler,
		random:      rnd,
		logger:      logger.With(slog.String("component", "client-view"), slog.String("client_id", clientID)),
		clientID:    clientID,
		displayName: displayName,
		spinDelay:   DefaultSpinDelay,
	}
	v.runner = agent.NewRunner(sessions, agent.NewPolicy(rnd), scheduler, clientID, logger)
	return v
}

// SetSpinDelay overrides the spin pacing delay (zero for tests)
func (v *View) SetSpinDelay(d time.Duration) {
	v.spinDelay = d
}

// Runner exposes the embedded agent runner, e.g. to shorten its
// thinking delay in tests
func (v *View) Runner() *agent.Runner {
	return v.runner
}

// Create starts a new game hosted by this player and attaches to it
func (v *View) Create(ctx context.Context) (*model.Game, error) {
	game, err := v.sessions.CreateGame(ctx, model.Player{DisplayName: v.displayName})
	if err != nil {
		return nil, err
	}
	host := game.GetHost()
	v.resolver.Remember(game.JoinCode, v.displayName, host.ID)

	if err := v.attach(ctx, game, host.ID); err != nil {
		return nil, err
	}
	return game, nil
}

// Join enters an existing game by code. Rejoining after a disconnect
// resumes the previous seat: the resolver recovers the identifier and
// JoinGame treats the duplicate join as a no-op.
func (v *View) Join(ctx context.Context, code model.JoinCode) (*model.Game, error) {
	joining := model.Player{DisplayName: v.displayName}
	if current, err := v.sessions.GetGame(ctx, code); err == nil {
		if id, ok := v.resolver.Resolve(current, v.displayName); ok {
			joining.ID = id
		}
	}

	game, seat, err := v.sessions.JoinGame(ctx, code, joining)
	if err != nil {
		return nil, err
	}
	v.resolver.Remember(code, v.displayName, seat.ID)

	if err := v.attach(ctx, game, seat.ID); err != nil {
		return nil, err
	}
	return game, nil
}

func (v *View) attach(ctx context.Context, game *model.Game, id model.PlayerID) error {
	unsub, err := v.store.Subscribe(ctx, game.JoinCode, func(snapshot *model.Game) {
		v.onSnapshot(ctx, snapshot)
	})
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.playerID = id
	v.snapshot = game
	v.unsubscribe = unsub
	v.mu.Unlock()
	return nil
}

// onSnapshot replaces the local copy wholesale and re-derives identity;
// pending paced actions planned against the previous snapshot are
// cancelled inside the runner
func (v *View) onSnapshot(ctx context.Context, snapshot *model.Game) {
	v.mu.Lock()
	v.snapshot = snapshot
	if id, ok := v.resolver.Resolve(snapshot, v.displayName); ok && id != v.playerID {
		v.playerID = id
	}
	v.mu.Unlock()

	v.runner.Observe(ctx, snapshot)
}

// Snapshot returns the latest authoritative game state
func (v *View) Snapshot() *model.Game {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot
}

// PlayerID returns the seat this view plays
func (v *View) PlayerID() model.PlayerID {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.playerID
}

// IsMyTurn reports whether this view's seat holds the turn
func (v *View) IsMyTurn() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot != nil &&
		v.snapshot.Status == model.GameStatusActive &&
		v.snapshot.CurrentPlayerID == v.playerID
}

// Message returns the last validation message surfaced to this client
func (v *View) Message() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.message
}

// Start begins the game (host only)
func (v *View) Start(ctx context.Context) error {
	v.mu.RLock()
	code, id := v.code(), v.playerID
	v.mu.RUnlock()
	_, err := v.sessions.StartGame(ctx, code, id)
	return v.surface(err)
}

// Spin emits a wheel spin: the outcome is decided now, the resolution
// action lands after the animation pacing delay
func (v *View) Spin(ctx context.Context) {
	v.mu.RLock()
	code, id := v.code(), v.playerID
	v.mu.RUnlock()

	outcome := engine.SpinWheel(v.random)
	v.sched.Schedule(v.spinDelay, func() {
		if _, err := v.sessions.Submit(ctx, code, engine.Spin{PlayerID: id, Outcome: outcome}); err != nil {
			_ = v.surface(err)
		}
	})
}

// GuessLetter calls a letter
func (v *View) GuessLetter(ctx context.Context, letter rune) error {
	v.mu.RLock()
	code, id := v.code(), v.playerID
	v.mu.RUnlock()
	_, err := v.sessions.Submit(ctx, code, engine.GuessLetter{PlayerID: id, Letter: letter})
	return v.surface(err)
}

// Solve attempts the puzzle
func (v *View) Solve(ctx context.Context, attempt string) error {
	v.mu.RLock()
	code, id := v.code(), v.playerID
	v.mu.RUnlock()
	_, err := v.sessions.Submit(ctx, code, engine.Solve{PlayerID: id, Attempt: attempt})
	return v.surface(err)
}

// UseWildCard plays a held wild card
func (v *View) UseWildCard(ctx context.Context) error {
	v.mu.RLock()
	code, id := v.code(), v.playerID
	v.mu.RUnlock()
	_, err := v.sessions.Submit(ctx, code, engine.UseWildCard{PlayerID: id})
	return v.surface(err)
}

// EndTurn forces the turn to the named seat, the self-healing fallback
// for a stalled rotation
func (v *View) EndTurn(ctx context.Context, next model.PlayerID) error {
	v.mu.RLock()
	code, id := v.code(), v.playerID
	v.mu.RUnlock()
	_, err := v.sessions.Submit(ctx, code, engine.EndTurn{PlayerID: id, Next: next})
	return v.surface(err)
}

// Leave removes this seat from the game and detaches
func (v *View) Leave(ctx context.Context) error {
	v.mu.RLock()
	code, id := v.code(), v.playerID
	v.mu.RUnlock()

	v.Close()
	return v.sessions.RemovePlayer(ctx, code, id)
}

// Close detaches from the game without removing the seat, e.g. on
// navigation away; the seat survives for reconnection
func (v *View) Close() {
	v.runner.Stop()

	v.mu.Lock()
	unsub := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// surface keeps validation errors visible to this client while letting
// the caller branch on the error kind; store outages pass through for
// the caller's retry affordance
func (v *View) surface(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrInvalidAction) || errors.Is(err, model.ErrGameFull) || errors.Is(err, model.ErrGameNotFound) {
		v.mu.Lock()
		v.message = err.Error()
		v.mu.Unlock()
	}
	return err
}

// code returns the join code of the attached game; callers hold v.mu
func (v *View) code() model.JoinCode {
	if v.snapshot == nil {
		return ""
	}
	return v.snapshot.JoinCode
}
