package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wheelwords/wheelwords-go/internal/dependencies/clock"
	"github.com/wheelwords/wheelwords-go/internal/dependencies/random"
	"github.com/wheelwords/wheelwords-go/internal/engine"
	"github.com/wheelwords/wheelwords-go/internal/model"
	"github.com/wheelwords/wheelwords-go/internal/puzzle"
	"github.com/wheelwords/wheelwords-go/internal/store"
)

const (
	// JoinCodeLength is the length of generated join codes
	JoinCodeLength = 6
	// JoinCodeAlphabet is the characters used in join codes (avoid confusing chars)
	JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// PlayerIDAlphabet is the character set for generated player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated player IDs
	PlayerIDLength = 16

	// MaxWriteRetries bounds the optimistic-concurrency retry loop
	MaxWriteRetries = 5

	// LeaseTTL is how long an AI turn lease is honored before any
	// client may reclaim it
	LeaseTTL = 5 * time.Second
)

// Manager orchestrates game membership and turn resolution against the
// shared store. Every mutation is read-transition-write with a
// compare-and-swap; a losing writer re-reads and retries against the
// fresh snapshot.
type Manager struct {
	store   store.Store
	puzzles *puzzle.Generator
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewManager creates a new session Manager
func NewManager(
	st store.Store,
	puzzles *puzzle.Generator,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		store:   st,
		puzzles: puzzles,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "session-manager")),
	}
}

// GetGame returns a snapshot of the game record
func (m *Manager) GetGame(ctx context.Context, code model.JoinCode) (*model.Game, error) {
	return m.store.Get(ctx, code)
}

// CreateGame seeds a fresh waiting game with the given player as host
// and runs seat reconciliation
func (m *Manager) CreateGame(ctx context.Context, host model.Player) (*model.Game, error) {
	now := m.clock.Now()

	// Generate a unique join code
	var code model.JoinCode
	for {
		code = model.JoinCode(m.random.String(JoinCodeLength, JoinCodeAlphabet))
		exists, err := m.store.Exists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	if host.ID == "" {
		host.ID = m.newPlayerID()
	}
	host.IsHost = true
	host.IsHuman = true
	host.LastSeen = now

	game := &model.Game{
		ID:          model.GameID(m.random.String(12, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")),
		JoinCode:    code,
		Status:      model.GameStatusWaiting,
		CreatedAt:   now,
		LastUpdated: now,
		MaxHumans:   model.MaxHumanSeats,
		UsedLetters: make(map[string]bool),
		Players:     map[model.PlayerID]*model.Player{host.ID: &host},
		TurnOrder:   []model.PlayerID{host.ID},
	}

	m.reconcileSeats(game)

	if err := m.store.Set(ctx, game); err != nil {
		return nil, err
	}

	m.logger.Info("game created",
		slog.String("join_code", string(code)),
		slog.String("host_id", string(host.ID)),
	)
	return game, nil
}

// JoinGame adds a player to the game. It is idempotent: a resubmitted
// join with a known id or display name returns the existing seat
// unchanged. Fails with model.ErrGameFull once three humans are seated.
func (m *Manager) JoinGame(ctx context.Context, code model.JoinCode, p model.Player) (*model.Game, *model.Player, error) {
	now := m.clock.Now()

	for attempt := 0; attempt < MaxWriteRetries; attempt++ {
		game, err := m.store.Get(ctx, code)
		if err != nil {
			return nil, nil, err
		}

		if existing, ok := game.Players[p.ID]; ok {
			return game, existing, nil
		}
		if existing := game.FindByName(p.DisplayName); existing != nil {
			return game, existing, nil
		}

		if game.HumanCount() >= game.MaxHumans {
			return nil, nil, model.ErrGameFull
		}

		seat := p
		if seat.ID == "" {
			seat.ID = m.newPlayerID()
		}
		seat.IsHuman = true
		seat.IsHost = false
		seat.LastSeen = now

		game.Players[seat.ID] = &seat
		game.TurnOrder = append(game.TurnOrder, seat.ID)
		m.reconcileSeats(game)
		if _, ok := game.Players[game.CurrentPlayerID]; !ok && game.Status == model.GameStatusActive {
			// Reconciliation trimmed the seat holding the turn
			if eligible := game.EligibleSeats(); len(eligible) > 0 {
				game.CurrentPlayerID = eligible[0]
			}
		}
		game.LastUpdated = now

		err = m.store.Update(ctx, game)
		if errors.Is(err, model.ErrStaleWrite) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		m.logger.Info("player joined",
			slog.String("join_code", string(code)),
			slog.String("player_id", string(seat.ID)),
		)
		return game, game.Players[seat.ID], nil
	}
	return nil, nil, model.ErrStaleWrite
}

// RemovePlayer deletes a seat. Removing the last seat deletes the game
// record entirely.
func (m *Manager) RemovePlayer(ctx context.Context, code model.JoinCode, id model.PlayerID) error {
	now := m.clock.Now()

	for attempt := 0; attempt < MaxWriteRetries; attempt++ {
		game, err := m.store.Get(ctx, code)
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				return nil
			}
			return err
		}

		removed, ok := game.Players[id]
		if !ok {
			return nil
		}

		delete(game.Players, id)
		game.TurnOrder = removeID(game.TurnOrder, id)

		if game.HumanCount() == 0 {
			// Last human gone: tear the record down, orphaned AI
			// seats included
			if err := m.store.Remove(ctx, code); err != nil {
				return err
			}
			m.logger.Info("game removed", slog.String("join_code", string(code)))
			return nil
		}

		if removed.IsHost {
			m.promoteHost(game)
		}
		m.reconcileSeats(game)

		if _, ok := game.Players[game.CurrentPlayerID]; !ok && game.Status == model.GameStatusActive {
			if eligible := game.EligibleSeats(); len(eligible) > 0 {
				game.CurrentPlayerID = eligible[0]
			}
		}
		game.LastUpdated = now

		err = m.store.Update(ctx, game)
		if errors.Is(err, model.ErrStaleWrite) {
			continue
		}
		if err != nil {
			return err
		}

		m.logger.Info("player removed",
			slog.String("join_code", string(code)),
			slog.String("player_id", string(id)),
		)
		return nil
	}
	return model.ErrStaleWrite
}

// StartGame moves a waiting game to active: a puzzle is drawn, the
// rotation mode locks in from the seat composition and the host takes
// the first turn
func (m *Manager) StartGame(ctx context.Context, code model.JoinCode, hostID model.PlayerID) (*model.Game, error) {
	now := m.clock.Now()

	for attempt := 0; attempt < MaxWriteRetries; attempt++ {
		game, err := m.store.Get(ctx, code)
		if err != nil {
			return nil, err
		}

		requester, ok := game.Players[hostID]
		if !ok {
			return nil, model.ErrPlayerNotFound
		}
		if !requester.IsHost {
			return nil, model.ErrNotHost
		}
		if game.Status == model.GameStatusActive {
			return game, nil
		}
		if game.Status != model.GameStatusWaiting {
			return nil, model.ErrGameNotWaiting
		}

		pz, err := m.puzzles.Next("")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrNoPuzzle, err)
		}

		if game.HumanCount() >= 2 {
			game.RotationMode = model.RotationShared
		} else {
			game.RotationMode = model.RotationSolo
		}
		m.reconcileSeats(game)

		game = engine.BeginRound(game, pz, now)
		game.Status = model.GameStatusActive
		game.CurrentPlayerID = hostID

		err = m.store.Update(ctx, game)
		if errors.Is(err, model.ErrStaleWrite) {
			continue
		}
		if err != nil {
			return nil, err
		}

		m.logger.Info("game started",
			slog.String("join_code", string(code)),
			slog.String("mode", string(game.RotationMode)),
			slog.Int("humans", game.HumanCount()),
		)
		return game, nil
	}
	return nil, model.ErrStaleWrite
}

// Submit resolves one action against the current snapshot and persists
// the transition. A WrongTurn race is dropped silently (logged) and the
// unchanged snapshot returned; a stale write re-reads and retries so
// exactly one writer wins per turn.
func (m *Manager) Submit(ctx context.Context, code model.JoinCode, action engine.Action) (*model.Game, error) {
	for attempt := 0; attempt < MaxWriteRetries; attempt++ {
		game, err := m.store.Get(ctx, code)
		if err != nil {
			return nil, err
		}

		result, err := engine.Apply(game, action, m.clock.Now())
		if errors.Is(err, model.ErrWrongTurn) {
			m.logger.Info("action dropped: turn already advanced",
				slog.String("join_code", string(code)),
				slog.String("actor", string(action.Actor())),
			)
			return game, nil
		}
		if err != nil {
			return game, err
		}

		next := result.Game
		if result.RoundOver {
			next, err = m.advanceRound(next, result.Banked)
			if err != nil {
				return game, err
			}
		}

		err = m.store.Update(ctx, next)
		if errors.Is(err, model.ErrStaleWrite) {
			continue
		}
		if err != nil {
			return game, err
		}
		return next, nil
	}
	return nil, model.ErrStaleWrite
}

// AcquireTurnLease claims single-flight execution of an AI seat's turn
// for the current state version. Returns the refreshed snapshot and
// true when the caller holds the lease; false when another client does
// or the state moved on.
func (m *Manager) AcquireTurnLease(ctx context.Context, code model.JoinCode, seatID model.PlayerID, ownerID string) (*model.Game, bool, error) {
	now := m.clock.Now()

	game, err := m.store.Get(ctx, code)
	if err != nil {
		return nil, false, err
	}

	if game.Status != model.GameStatusActive || game.FinalRound {
		return game, false, nil
	}
	seat, ok := game.Players[seatID]
	if !ok || seat.IsHuman || game.CurrentPlayerID != seatID {
		return game, false, nil
	}
	if l := game.Lease; l != nil && l.Version == game.Version && !l.Expired(now) && l.OwnerID != ownerID {
		return game, false, nil
	}

	// Lease.Version is the version the record carries once this write
	// lands; any later write invalidates the lease by moving past it
	game.Lease = &model.TurnLease{
		OwnerID:   ownerID,
		SeatID:    seatID,
		Version:   game.Version + 1,
		ExpiresAt: now.Add(LeaseTTL),
	}
	game.LastUpdated = now

	err = m.store.Update(ctx, game)
	if errors.Is(err, model.ErrStaleWrite) {
		// Someone else's write landed first; they or their lease win
		return game, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return game, true, nil
}

// advanceRound draws the next puzzle and begins the next round. In solo
// mode, entering the final round requires the human to have earned
// money in the prior round; otherwise the whole game resets.
func (m *Manager) advanceRound(g *model.Game, banked int) (*model.Game, error) {
	now := m.clock.Now()
	entering := g.Round + 1

	if g.RotationMode == model.RotationSolo && entering >= model.FinalRoundNumber {
		if m.humanEarnings(g, banked) == 0 {
			pz, err := m.puzzles.Next("")
			if err != nil {
				return nil, fmt.Errorf("%w: %v", model.ErrNoPuzzle, err)
			}
			m.logger.Info("final round gate failed, game resets",
				slog.String("join_code", string(g.JoinCode)))
			return engine.ResetGame(g, pz, now), nil
		}
	}

	pz, err := m.puzzles.Next("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrNoPuzzle, err)
	}
	return engine.BeginRound(g, pz, now), nil
}

// humanEarnings returns what the solo human carried out of the round
// that just ended. The solver's round money was already banked, so the
// banked amount stands in when the human solved.
func (m *Manager) humanEarnings(g *model.Game, banked int) int {
	for _, p := range g.Players {
		if !p.IsHuman {
			continue
		}
		if p.ID == g.CurrentPlayerID {
			return banked
		}
		return p.RoundMoney
	}
	return 0
}

// reconcileSeats tops up or trims seats to the 3-seat convention:
//
//	H >= 3: no AI seats
//	H == 2: exactly 1 AI seat
//	H <= 1: AI seats fill to 3 total
//
// Excess AI seats are always removed immediately; new AI seats are only
// added while the game is still waiting.
func (m *Manager) reconcileSeats(g *model.Game) {
	targetAI := 0
	switch h := g.HumanCount(); {
	case h >= 3:
		targetAI = 0
	case h == 2:
		targetAI = 1
	default:
		targetAI = model.TotalSeats - h
	}

	// Trim from the back of the turn order so earlier AI seats keep
	// their identity
	for g.AICount() > targetAI {
		for i := len(g.TurnOrder) - 1; i >= 0; i-- {
			id := g.TurnOrder[i]
			if p, ok := g.Players[id]; ok && !p.IsHuman {
				delete(g.Players, id)
				g.TurnOrder = removeID(g.TurnOrder, id)
				break
			}
		}
	}

	if g.Status != model.GameStatusWaiting {
		return
	}
	for g.AICount() < targetAI {
		seat := m.newAIPlayer(g)
		g.Players[seat.ID] = seat
		g.TurnOrder = append(g.TurnOrder, seat.ID)
	}
}

func (m *Manager) newAIPlayer(g *model.Game) *model.Player {
	name := ""
	for n := 1; ; n++ {
		name = fmt.Sprintf("Computer %d", n)
		if g.FindByName(name) == nil {
			break
		}
	}
	return &model.Player{
		ID:          model.PlayerID("ai-" + m.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: name,
		IsHuman:     false,
		LastSeen:    m.clock.Now(),
	}
}

// promoteHost hands host to the first remaining human in turn order
func (m *Manager) promoteHost(g *model.Game) {
	for _, id := range g.TurnOrder {
		if p, ok := g.Players[id]; ok && p.IsHuman {
			p.IsHost = true
			return
		}
	}
}

func (m *Manager) newPlayerID() model.PlayerID {
	return model.PlayerID(m.random.String(PlayerIDLength, PlayerIDAlphabet))
}

func removeID(order []model.PlayerID, id model.PlayerID) []model.PlayerID {
	for i, existing := range order {
		if existing == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
