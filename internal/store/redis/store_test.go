package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/wheelwords/wheelwords-go/internal/model"
	"github.com/wheelwords/wheelwords-go/internal/testutil"
)

type RedisStoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *Store
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.store = NewWithClient(client, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) TearDownTest() {
	_ = s.store.Close()
}

func (s *RedisStoreSuite) newGame(code model.JoinCode) *model.Game {
	return &model.Game{
		ID:          "game-1",
		JoinCode:    code,
		Status:      model.GameStatusWaiting,
		UsedLetters: make(map[string]bool),
		Players: map[model.PlayerID]*model.Player{
			"p1": {ID: "p1", DisplayName: "Alice", IsHost: true, IsHuman: true},
		},
		TurnOrder: []model.PlayerID{"p1"},
		MaxHumans: model.MaxHumanSeats,
	}
}

func (s *RedisStoreSuite) TestGetMissingGame() {
	_, err := s.store.Get(s.ctx, "NOSUCH")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *RedisStoreSuite) TestSetAndGetRoundtrip() {
	game := s.newGame("ABC123")
	game.Puzzle = model.NewPuzzle("GREAT IDEA", "Phrase", model.FormatPlain)

	s.Require().NoError(s.store.Set(s.ctx, game))
	s.Equal(int64(1), game.Version)

	got, err := s.store.Get(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(game.ID, got.ID)
	s.Equal(int64(1), got.Version)
	s.Require().NotNil(got.Puzzle)
	s.Equal("GREAT IDEA", got.Puzzle.Text)
	s.Equal("Alice", got.Players["p1"].DisplayName)
}

func (s *RedisStoreSuite) TestUpdateIncrementsVersion() {
	s.Require().NoError(s.store.Set(s.ctx, s.newGame("ABC123")))

	got, _ := s.store.Get(s.ctx, "ABC123")
	got.Status = model.GameStatusActive
	s.Require().NoError(s.store.Update(s.ctx, got))

	fresh, _ := s.store.Get(s.ctx, "ABC123")
	s.Equal(model.GameStatusActive, fresh.Status)
	s.Equal(int64(2), fresh.Version)
}

func (s *RedisStoreSuite) TestUpdateRejectsStaleVersion() {
	s.Require().NoError(s.store.Set(s.ctx, s.newGame("ABC123")))

	first, _ := s.store.Get(s.ctx, "ABC123")
	second, _ := s.store.Get(s.ctx, "ABC123")

	first.Status = model.GameStatusActive
	s.Require().NoError(s.store.Update(s.ctx, first))

	second.Status = model.GameStatusFinished
	s.ErrorIs(s.store.Update(s.ctx, second), model.ErrStaleWrite)
	s.Equal(int64(1), second.Version, "failed write leaves the snapshot version untouched")

	fresh, _ := s.store.Get(s.ctx, "ABC123")
	s.Equal(model.GameStatusActive, fresh.Status)
}

func (s *RedisStoreSuite) TestUpdateMissingGame() {
	err := s.store.Update(s.ctx, s.newGame("NOSUCH"))
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *RedisStoreSuite) TestExists() {
	ok, err := s.store.Exists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Set(s.ctx, s.newGame("ABC123")))
	ok, err = s.store.Exists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *RedisStoreSuite) TestRemoveDeletesRecordAndVersion() {
	s.Require().NoError(s.store.Set(s.ctx, s.newGame("ABC123")))
	s.Require().NoError(s.store.Remove(s.ctx, "ABC123"))

	_, err := s.store.Get(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrGameNotFound)
	s.False(s.mini.Exists(versionKey("ABC123")))
}

func (s *RedisStoreSuite) TestSetAppliesTTL() {
	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	store := NewWithClient(client, cfg, testutil.NopLogger())
	defer store.Close()

	s.Require().NoError(store.Set(s.ctx, s.newGame("ABC123")))
	s.Equal(time.Hour, s.mini.TTL(gameKey("ABC123")))
	s.Equal(time.Hour, s.mini.TTL(versionKey("ABC123")))
}

func (s *RedisStoreSuite) TestSubscribeDeliversWrites() {
	received := make(chan *model.Game, 8)
	unsubscribe, err := s.store.Subscribe(s.ctx, "ABC123", func(g *model.Game) {
		received <- g
	})
	s.Require().NoError(err)
	defer unsubscribe()

	s.Require().NoError(s.store.Set(s.ctx, s.newGame("ABC123")))

	got, _ := s.store.Get(s.ctx, "ABC123")
	got.Status = model.GameStatusActive
	s.Require().NoError(s.store.Update(s.ctx, got))

	first := s.waitForSnapshot(received)
	s.Equal(int64(1), first.Version)
	second := s.waitForSnapshot(received)
	s.Equal(int64(2), second.Version)
	s.Equal(model.GameStatusActive, second.Status)
}

func (s *RedisStoreSuite) TestUnsubscribeStopsDelivery() {
	received := make(chan *model.Game, 8)
	unsubscribe, err := s.store.Subscribe(s.ctx, "ABC123", func(g *model.Game) {
		received <- g
	})
	s.Require().NoError(err)

	unsubscribe()
	s.Require().NoError(s.store.Set(s.ctx, s.newGame("ABC123")))

	select {
	case <-received:
		s.Fail("snapshot delivered after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func (s *RedisStoreSuite) waitForSnapshot(ch <-chan *model.Game) *model.Game {
	select {
	case g := <-ch:
		return g
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for snapshot")
		return nil
	}
}
