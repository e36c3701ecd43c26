package identity

import (
	"log/slog"

	"github.com/wheelwords/wheelwords-go/internal/model"
)

// Resolver maps a (join code, display name) pair onto a durable seat
// identifier. When the stored identifier has gone stale (the seat was
// recreated under a new id), it falls back to matching by display name
// and migrates the stored identifier to the recovered one.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given client-side store
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger.With(slog.String("component", "identity-resolver")),
	}
}

// Resolve returns the seat id this client should play as in the given
// game, or false if neither the stored id nor the display name matches
// a seat. Call it on every state refresh; stale identifiers migrate as
// a side effect.
func (r *Resolver) Resolve(g *model.Game, displayName string) (model.PlayerID, bool) {
	stored, ok, err := r.store.Load(g.JoinCode, displayName)
	if err != nil {
		r.logger.Warn("identity load failed", slog.String("error", err.Error()))
	}
	if ok {
		if _, present := g.Players[stored]; present {
			return stored, true
		}
	}

	// Stored id absent from the seat map: recover by display name
	recovered := g.FindByName(displayName)
	if recovered == nil {
		return "", false
	}
	if err := r.store.Save(g.JoinCode, displayName, recovered.ID); err != nil {
		r.logger.Warn("identity migration failed", slog.String("error", err.Error()))
	} else if ok && stored != recovered.ID {
		r.logger.Info("identity migrated",
			slog.String("join_code", string(g.JoinCode)),
			slog.String("old_id", string(stored)),
			slog.String("new_id", string(recovered.ID)))
	}
	return recovered.ID, true
}

// Remember stores the identifier after a successful join
func (r *Resolver) Remember(code model.JoinCode, displayName string, id model.PlayerID) {
	if err := r.store.Save(code, displayName, id); err != nil {
		r.logger.Warn("identity save failed", slog.String("error", err.Error()))
	}
}
