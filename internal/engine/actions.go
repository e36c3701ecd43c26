package engine

import "github.com/wheelwords/wheelwords-go/internal/model"

// Action is a player or AI intent applied to a game snapshot by Apply.
// Implementations are small value types; the acting seat is carried so
// turn ownership can be re-validated against the current snapshot.
type Action interface {
	// Actor returns the seat emitting the action
	Actor() model.PlayerID
}

// Spin lands a wheel outcome for the acting player. The outcome itself
// is decided by the spinning client (or the agent's wheel table) before
// the action is emitted.
type Spin struct {
	PlayerID model.PlayerID
	Outcome  model.WheelOutcome
}

func (a Spin) Actor() model.PlayerID { return a.PlayerID }

// GuessLetter calls a letter against the puzzle
type GuessLetter struct {
	PlayerID model.PlayerID
	Letter   rune
}

func (a GuessLetter) Actor() model.PlayerID { return a.PlayerID }

// Solve attempts the full puzzle text
type Solve struct {
	PlayerID model.PlayerID
	Attempt  string
}

func (a Solve) Actor() model.PlayerID { return a.PlayerID }

// UseWildCard spends a held Wild Card to earn a consonant call without
// a fresh spin
type UseWildCard struct {
	PlayerID model.PlayerID
}

func (a UseWildCard) Actor() model.PlayerID { return a.PlayerID }

// EndTurn is the manual handoff fallback: any client may force the turn
// to a named seat when automatic rotation appears stuck (e.g. the
// client owning an AI seat disconnected mid-turn).
type EndTurn struct {
	PlayerID model.PlayerID
	Next     model.PlayerID
}

func (a EndTurn) Actor() model.PlayerID { return a.PlayerID }
