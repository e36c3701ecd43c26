package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/wheelwords/wheelwords-go/internal/dependencies/mocks"
	"github.com/wheelwords/wheelwords-go/internal/engine"
	"github.com/wheelwords/wheelwords-go/internal/model"
	"github.com/wheelwords/wheelwords-go/internal/puzzle"
	"github.com/wheelwords/wheelwords-go/internal/services/session"
	"github.com/wheelwords/wheelwords-go/internal/store/memory"
	"github.com/wheelwords/wheelwords-go/internal/testutil"
)

type RunnerSuite struct {
	suite.Suite
	store    *memory.Store
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	sched    *mocks.MockScheduler
	sessions *session.Manager
	runner   *Runner
	ctx      context.Context
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.store = memory.New(logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.sched = mocks.NewMockScheduler()

	catalog := puzzle.Catalog{
		"Phrase": {{Text: "GREAT IDEA"}, {Text: "PIECE OF CAKE"}},
	}
	s.sessions = session.NewManager(s.store, puzzle.NewGenerator(catalog, s.random), s.clock, s.random, logger)
	s.runner = NewRunner(s.sessions, NewPolicy(s.random), s.sched, "client-1", logger)
	s.ctx = context.Background()
}

// gameWithAITurn starts a solo game and hands the turn to the first AI
// seat through a missed solve
func (s *RunnerSuite) gameWithAITurn() *model.Game {
	s.random.QueueString("ABC123", "hostaaaaaaaaaaaa", "GAMEID123456", "aiseat1aaaaaaaaa", "aiseat2aaaaaaaaa")
	game, err := s.sessions.CreateGame(s.ctx, model.Player{DisplayName: "Alice"})
	s.Require().NoError(err)

	host := game.GetHost()
	_, err = s.sessions.StartGame(s.ctx, game.JoinCode, host.ID)
	s.Require().NoError(err)

	current, err := s.sessions.Submit(s.ctx, game.JoinCode,
		engine.Solve{PlayerID: host.ID, Attempt: "DEFINITELY WRONG"})
	s.Require().NoError(err)
	s.Require().False(current.CurrentPlayer().IsHuman)
	return current
}

func (s *RunnerSuite) TestObserveSchedulesOnAITurn() {
	g := s.gameWithAITurn()

	s.runner.Observe(s.ctx, g)
	s.Equal(1, s.sched.PendingCount())
}

func (s *RunnerSuite) TestObserveIgnoresHumanTurn() {
	g := s.gameWithAITurn()
	g.CurrentPlayerID = g.GetHost().ID

	s.runner.Observe(s.ctx, g)
	s.Equal(0, s.sched.PendingCount())
}

func (s *RunnerSuite) TestObserveReplacesStalePendingAttempt() {
	g := s.gameWithAITurn()

	s.runner.Observe(s.ctx, g)
	s.runner.Observe(s.ctx, g)
	s.Equal(1, s.sched.PendingCount(), "a fresh snapshot invalidates the old plan")
}

func (s *RunnerSuite) TestObserveCancelsWhenTurnMovesToHuman() {
	g := s.gameWithAITurn()
	s.runner.Observe(s.ctx, g)

	human := g.Clone()
	human.CurrentPlayerID = g.GetHost().ID
	s.runner.Observe(s.ctx, human)
	s.Equal(0, s.sched.PendingCount())
}

func (s *RunnerSuite) TestFiredAttemptActsForTheSeat() {
	g := s.gameWithAITurn()
	before := g.Version

	s.runner.Observe(s.ctx, g)
	s.Require().True(s.sched.FireNext())

	after, err := s.sessions.GetGame(s.ctx, g.JoinCode)
	s.Require().NoError(err)
	s.Greater(after.Version, before, "lease and action both landed")
	s.Require().NotNil(after.WheelValue, "the agent's first move is a spin")
	s.Equal(model.WheelMoney, after.WheelValue.Kind)
}

func (s *RunnerSuite) TestTwoObserversAdvanceTheTurnOnce() {
	g := s.gameWithAITurn()
	historyBefore := len(g.History)
	other := NewRunner(s.sessions, NewPolicy(s.random), s.sched, "client-2", testutil.NopLogger())

	s.runner.Observe(s.ctx, g)
	other.Observe(s.ctx, g)
	s.Require().Equal(2, s.sched.PendingCount())

	// First observer claims the lease and spins
	s.Require().True(s.sched.FireNext())
	mid, _ := s.sessions.GetGame(s.ctx, g.JoinCode)
	s.Require().NotNil(mid.WheelValue)

	// The second observer fires against the moved-on state: the old
	// lease is void, so it claims a fresh one and continues the turn
	// with a letter call rather than re-spinning
	s.Require().True(s.sched.FireNext())
	after, _ := s.sessions.GetGame(s.ctx, g.JoinCode)
	s.Nil(after.WheelValue, "the pending wheel value was consumed")
	s.Len(after.History, historyBefore+1, "exactly one letter call recorded")
}

func (s *RunnerSuite) TestStopCancelsPendingAttempt() {
	g := s.gameWithAITurn()

	s.runner.Observe(s.ctx, g)
	s.runner.Stop()
	s.Equal(0, s.sched.PendingCount())
}

func (s *RunnerSuite) TestObserveIgnoresFinishedGame() {
	g := s.gameWithAITurn()
	g.Status = model.GameStatusFinished

	s.runner.Observe(s.ctx, g)
	s.Equal(0, s.sched.PendingCount())
}
