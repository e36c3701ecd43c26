package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wheelwords/wheelwords-go/internal/model"
	"github.com/wheelwords/wheelwords-go/internal/store"
)

// Buffer size for each subscriber's snapshot channel
const sendBufferSize = 64

// Store is an in-memory implementation of the store interface with
// push-based snapshot fan-out. It is safe for concurrent use and is the
// reference implementation for tests and single-process play.
type Store struct {
	mu          sync.RWMutex
	games       map[model.JoinCode]*model.Game
	subscribers map[model.JoinCode]map[*subscriber]bool
	logger      *slog.Logger
}

type subscriber struct {
	send chan *model.Game
	done chan struct{}
}

// New creates a new in-memory store instance
func New(logger *slog.Logger) *Store {
	return &Store{
		games:       make(map[model.JoinCode]*model.Game),
		subscribers: make(map[model.JoinCode]map[*subscriber]bool),
		logger:      logger.With(slog.String("component", "memory-store")),
	}
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, code model.JoinCode) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[code]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Store) Set(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	game.Version++
	stored := game.Clone()
	s.games[game.JoinCode] = stored
	s.mu.Unlock()

	s.fanOut(game.JoinCode, stored)
	return nil
}

func (s *Store) Update(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	current, ok := s.games[game.JoinCode]
	if !ok {
		s.mu.Unlock()
		return model.ErrGameNotFound
	}
	if current.Version != game.Version {
		s.mu.Unlock()
		return model.ErrStaleWrite
	}
	game.Version++
	stored := game.Clone()
	s.games[game.JoinCode] = stored
	s.mu.Unlock()

	s.fanOut(game.JoinCode, stored)
	return nil
}

func (s *Store) Exists(ctx context.Context, code model.JoinCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[code]
	return ok, nil
}

func (s *Store) Subscribe(ctx context.Context, code model.JoinCode, handler store.Handler) (store.Unsubscribe, error) {
	sub := &subscriber{
		send: make(chan *model.Game, sendBufferSize),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	if s.subscribers[code] == nil {
		s.subscribers[code] = make(map[*subscriber]bool)
	}
	s.subscribers[code][sub] = true
	s.mu.Unlock()

	go func() {
		for {
			select {
			case snapshot := <-sub.send:
				handler(snapshot)
			case <-sub.done:
				return
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers[code], sub)
			s.mu.Unlock()
			close(sub.done)
		})
	}
	return unsubscribe, nil
}

func (s *Store) Remove(ctx context.Context, code model.JoinCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, code)
	return nil
}

// fanOut pushes a snapshot clone to every subscriber of the record.
// Slow subscribers drop snapshots rather than block the writer; the
// next write delivers a fresher one anyway.
func (s *Store) fanOut(code model.JoinCode, stored *model.Game) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for sub := range s.subscribers[code] {
		select {
		case sub.send <- stored.Clone():
		default:
			s.logger.Warn("snapshot dropped - subscriber buffer full",
				slog.String("join_code", string(code)))
		}
	}
}
