package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wheelwords/wheelwords-go/internal/model"
	"github.com/wheelwords/wheelwords-go/internal/store"
)

// casScript performs the version-guarded whole-record write. The record
// and its version counter are written together and the new snapshot is
// published to subscribers in the same script, so no client can observe
// a record/version mismatch.
//
// KEYS[1] = game key, KEYS[2] = version key
// ARGV[1] = expected version, ARGV[2] = JSON payload (already carrying
// expected+1), ARGV[3] = TTL seconds (0 = no expiry), ARGV[4] = channel
//
// Returns 1 on success, 0 on version mismatch, -1 if the record is gone.
var casScript = redis.NewScript(`
local v = redis.call('GET', KEYS[2])
if not v then
  return -1
end
if tonumber(v) ~= tonumber(ARGV[1]) then
  return 0
end
local next = tonumber(ARGV[1]) + 1
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[2], 'EX', ttl)
  redis.call('SET', KEYS[2], next, 'EX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[2])
  redis.call('SET', KEYS[2], next)
end
redis.call('PUBLISH', ARGV[4], ARGV[2])
return 1
`)

// Store is a Redis-backed implementation of the store interface.
// Records are JSON blobs; subscriptions ride Redis pub/sub.
type Store struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a new Redis store instance
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	return &Store{
		client: client,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "redis-store")),
	}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "redis-store")),
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, code model.JoinCode) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Store) Set(ctx context.Context, game *model.Game) error {
	game.Version++
	data, err := json.Marshal(game)
	if err != nil {
		game.Version--
		return err
	}

	pipe := s.client.Pipeline()
	if s.cfg.GameTTL > 0 {
		pipe.Set(ctx, gameKey(game.JoinCode), data, s.cfg.GameTTL)
		pipe.Set(ctx, versionKey(game.JoinCode), game.Version, s.cfg.GameTTL)
	} else {
		pipe.Set(ctx, gameKey(game.JoinCode), data, 0)
		pipe.Set(ctx, versionKey(game.JoinCode), game.Version, 0)
	}
	pipe.Publish(ctx, eventChannel(game.JoinCode), data)
	if _, err := pipe.Exec(ctx); err != nil {
		game.Version--
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, game *model.Game) error {
	expected := game.Version
	game.Version++
	data, err := json.Marshal(game)
	if err != nil {
		game.Version = expected
		return err
	}

	ttlSeconds := int64(s.cfg.GameTTL / time.Second)
	result, err := casScript.Run(ctx, s.client,
		[]string{gameKey(game.JoinCode), versionKey(game.JoinCode)},
		expected, data, ttlSeconds, eventChannel(game.JoinCode),
	).Int64()
	if err != nil {
		game.Version = expected
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	switch result {
	case 1:
		return nil
	case 0:
		game.Version = expected
		return model.ErrStaleWrite
	default:
		game.Version = expected
		return model.ErrGameNotFound
	}
}

func (s *Store) Exists(ctx context.Context, code model.JoinCode) (bool, error) {
	exists, err := s.client.Exists(ctx, gameKey(code)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return exists > 0, nil
}

func (s *Store) Subscribe(ctx context.Context, code model.JoinCode, handler store.Handler) (store.Unsubscribe, error) {
	pubsub := s.client.Subscribe(ctx, eventChannel(code))

	// Force the subscription to be established before returning so
	// callers do not miss writes racing the subscribe
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			var game model.Game
			if err := json.Unmarshal([]byte(msg.Payload), &game); err != nil {
				s.logger.Warn("discarding malformed snapshot",
					slog.String("join_code", string(code)),
					slog.String("error", err.Error()))
				continue
			}
			handler(&game)
		}
	}()

	return func() { _ = pubsub.Close() }, nil
}

func (s *Store) Remove(ctx context.Context, code model.JoinCode) error {
	if err := s.client.Del(ctx, gameKey(code), versionKey(code)).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}
