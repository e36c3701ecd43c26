package store

import (
	"context"

	"github.com/wheelwords/wheelwords-go/internal/model"
)

// Handler receives full game snapshots pushed on every write. Each
// inbound snapshot is authoritative; subscribers must replace their
// local copy, never merge.
type Handler func(*model.Game)

// Unsubscribe detaches a subscription registered with Subscribe
type Unsubscribe func()

// Store defines the shared game-record adapter. Records are keyed by
// join code. Cross-field consistency is achieved by whole-record writes:
// Update is a compare-and-swap on Game.Version and fails with
// model.ErrStaleWrite when another writer got there first.
type Store interface {
	// Get returns a snapshot of the record, or model.ErrGameNotFound
	Get(ctx context.Context, code model.JoinCode) (*model.Game, error)

	// Set writes the record unconditionally, bumping its version.
	// Used only for record creation.
	Set(ctx context.Context, game *model.Game) error

	// Update writes the record iff the stored version still equals
	// game.Version, then increments game.Version in place. Returns
	// model.ErrStaleWrite on a version mismatch.
	Update(ctx context.Context, game *model.Game) error

	// Exists reports whether a record exists for the join code
	Exists(ctx context.Context, code model.JoinCode) (bool, error)

	// Subscribe registers a handler invoked with a snapshot after
	// every write to the record
	Subscribe(ctx context.Context, code model.JoinCode, handler Handler) (Unsubscribe, error)

	// Remove deletes the record
	Remove(ctx context.Context, code model.JoinCode) error
}
