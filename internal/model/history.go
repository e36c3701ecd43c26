package model

import "time"

// HistoryKind distinguishes letter calls from solve attempts
type HistoryKind string

const (
	HistoryLetter HistoryKind = "letter"
	HistorySolve  HistoryKind = "solve"
)

// HistoryResult records whether an attempt was correct
type HistoryResult string

const (
	ResultCorrect   HistoryResult = "correct"
	ResultIncorrect HistoryResult = "incorrect"
)

// HistoryEntry is one entry in a game's append-only action log
type HistoryEntry struct {
	Kind       HistoryKind
	PlayerID   PlayerID
	PlayerName string
	Value      string
	Timestamp  time.Time
	Result     HistoryResult
}
