package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound   = errors.New("game not found")
	ErrGameFull       = errors.New("game is full")
	ErrGameNotWaiting = errors.New("game is not waiting for players")
	ErrGameFinished   = errors.New("game is finished")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotHost        = errors.New("player is not the host")
	ErrNoPuzzle       = errors.New("no puzzle selected")

	// Turn resolution errors
	ErrInvalidAction = errors.New("invalid action")
	ErrWrongTurn     = errors.New("not this player's turn")

	// Store errors
	ErrStaleWrite       = errors.New("stale write: record version advanced")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Lease errors
	ErrLeaseHeld = errors.New("turn lease held by another client")
)
