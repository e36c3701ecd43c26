package model

import "time"

// GameID uniquely identifies a game
type GameID string

// JoinCode is the human-readable identifier players use to join a game
type JoinCode string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"  // Seats still being composed
	GameStatusActive   GameStatus = "active"   // Host started, turns running
	GameStatusFinished GameStatus = "finished" // Puzzle solved in shared mode or final round won
)

// RotationMode selects which seats receive turns.
// Shared mode (2+ humans at start) rotates through human seats only; a
// filler AI seat never acts. Solo mode rotates through all 3 seats.
type RotationMode string

const (
	RotationShared RotationMode = "shared"
	RotationSolo   RotationMode = "solo"
)

const (
	// TotalSeats is the fixed seat count once a game leaves waiting
	TotalSeats = 3
	// MaxHumanSeats caps human occupancy
	MaxHumanSeats = 3
	// FinalRoundNumber is the first round played under final-round rules
	FinalRoundNumber = 4
)

// TurnLease is the single-flight grant for executing an AI seat's turn.
// It is valid only for the state version it was written against.
type TurnLease struct {
	OwnerID   string
	SeatID    PlayerID
	Version   int64
	ExpiresAt time.Time
}

// Expired reports whether the lease has lapsed at the given time
func (l *TurnLease) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// Game is the canonical shared game record. One record exists per join
// code; every connected client holds snapshots of it and never a merge.
type Game struct {
	ID        GameID
	JoinCode  JoinCode
	Status    GameStatus
	CreatedAt time.Time

	Round           int
	CurrentPlayerID PlayerID
	Puzzle          *Puzzle

	// UsedLetters only grows within one puzzle's lifetime and resets
	// exactly at new-puzzle boundaries. Keys are single letters A-Z.
	UsedLetters map[string]bool

	// WheelValue is the pending spin outcome awaiting a letter call;
	// nil when the current player must spin first
	WheelValue     *WheelOutcome
	IsSpinning     bool
	TurnInProgress bool
	LastSpinResult string
	Message        string

	// WildCardActive grants one consonant call without a pending spin
	WildCardActive bool

	FinalRound          bool
	ConsonantsRemaining int
	VowelsRemaining     int

	MaxHumans   int
	LastUpdated time.Time

	// Version drives optimistic-concurrency writes; every successful
	// store update increments it
	Version int64

	History []HistoryEntry

	// Players is the canonical seat collection; TurnOrder is the
	// derived ordered turn list rebuilt whenever membership changes
	Players   map[PlayerID]*Player
	TurnOrder []PlayerID

	RotationMode RotationMode
	Lease        *TurnLease
}

// HumanCount returns the number of human seats
func (g *Game) HumanCount() int {
	n := 0
	for _, p := range g.Players {
		if p.IsHuman {
			n++
		}
	}
	return n
}

// AICount returns the number of AI seats
func (g *Game) AICount() int {
	return len(g.Players) - g.HumanCount()
}

// CurrentPlayer returns the seat currently holding the turn, or nil
func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.CurrentPlayerID]
}

// GetHost returns the host seat, or nil if none
func (g *Game) GetHost() *Player {
	for _, p := range g.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// FindByName returns the seat with the given display name, or nil
func (g *Game) FindByName(displayName string) *Player {
	for _, p := range g.Players {
		if p.DisplayName == displayName {
			return p
		}
	}
	return nil
}

// EligibleSeats returns the ordered seats that may receive turns under
// the active rotation mode. The final round is human-only in both modes.
func (g *Game) EligibleSeats() []PlayerID {
	humansOnly := g.RotationMode == RotationShared || g.FinalRound
	var out []PlayerID
	for _, id := range g.TurnOrder {
		p, ok := g.Players[id]
		if !ok {
			continue
		}
		if humansOnly && !p.IsHuman {
			continue
		}
		out = append(out, id)
	}
	return out
}

// NextEligible returns the seat after the given one in rotation order,
// skipping ineligible seats. Returns the input unchanged if no other
// seat is eligible.
func (g *Game) NextEligible(after PlayerID) PlayerID {
	eligible := g.EligibleSeats()
	if len(eligible) == 0 {
		return after
	}
	idx := -1
	for i, id := range eligible {
		if id == after {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Current seat not eligible (e.g. AI seat entering the final
		// round); hand to the first eligible seat
		return eligible[0]
	}
	return eligible[(idx+1)%len(eligible)]
}

// Clone returns a deep copy of the game record. The turn engine
// transitions copies so callers always retain the pre-action snapshot.
func (g *Game) Clone() *Game {
	cp := *g
	if g.Puzzle != nil {
		cp.Puzzle = g.Puzzle.clone()
	}
	cp.UsedLetters = make(map[string]bool, len(g.UsedLetters))
	for k, v := range g.UsedLetters {
		cp.UsedLetters[k] = v
	}
	if g.WheelValue != nil {
		wv := *g.WheelValue
		cp.WheelValue = &wv
	}
	if g.Lease != nil {
		lease := *g.Lease
		cp.Lease = &lease
	}
	cp.History = append([]HistoryEntry(nil), g.History...)
	cp.Players = make(map[PlayerID]*Player, len(g.Players))
	for id, p := range g.Players {
		cp.Players[id] = p.clone()
	}
	cp.TurnOrder = append([]PlayerID(nil), g.TurnOrder...)
	return &cp
}
