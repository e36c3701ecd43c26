package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/wheelwords/wheelwords-go/internal/dependencies/mocks"
	"github.com/wheelwords/wheelwords-go/internal/identity"
	"github.com/wheelwords/wheelwords-go/internal/model"
	"github.com/wheelwords/wheelwords-go/internal/puzzle"
	"github.com/wheelwords/wheelwords-go/internal/services/session"
	"github.com/wheelwords/wheelwords-go/internal/store/memory"
	"github.com/wheelwords/wheelwords-go/internal/testutil"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

type ViewSuite struct {
	suite.Suite
	store    *memory.Store
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	sessions *session.Manager
	ctx      context.Context

	views []*View
}

func TestViewSuite(t *testing.T) {
	suite.Run(t, new(ViewSuite))
}

func (s *ViewSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.store = memory.New(logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.views = nil

	catalog := puzzle.Catalog{
		"Phrase": {
			{Text: "GREAT IDEA"},
			{Text: "PIECE OF CAKE"},
			{Text: "ONCE IN A BLUE MOON"},
		},
	}
	s.sessions = session.NewManager(s.store, puzzle.NewGenerator(catalog, s.random), s.clock, s.random, logger)
	s.ctx = context.Background()
}

func (s *ViewSuite) TearDownTest() {
	for _, v := range s.views {
		v.Close()
	}
}

// newView builds a view with its own scheduler and identity store so
// each simulated client is isolated the way separate processes are
func (s *ViewSuite) newView(clientID, name string) (*View, *mocks.MockScheduler) {
	scheduler := mocks.NewMockScheduler()
	resolver := identity.NewResolver(identity.NewMemoryStore(), testutil.NopLogger())
	v := NewView(s.sessions, s.store, resolver, scheduler, s.random, clientID, name, testutil.NopLogger())
	s.views = append(s.views, v)
	return v, scheduler
}

// createAs queues the manager's random draws and creates a game
func (s *ViewSuite) createAs(v *View) *model.Game {
	s.random.QueueString("ABC123", "hostaaaaaaaaaaaa", "GAMEID123456", "aiseat1aaaaaaaaa", "aiseat2aaaaaaaaa")
	game, err := v.Create(s.ctx)
	s.Require().NoError(err)
	return game
}

func (s *ViewSuite) eventually(cond func() bool, msg string) {
	s.Require().Eventually(cond, waitFor, tick, msg)
}

func (s *ViewSuite) TestCreateAttachesHostSeat() {
	host, _ := s.newView("client-1", "Alice")
	game := s.createAs(host)

	s.Equal(model.JoinCode("ABC123"), game.JoinCode)
	s.NotEmpty(host.PlayerID())
	s.False(host.IsMyTurn(), "no turn before the game starts")
	s.Equal(model.GameStatusWaiting, host.Snapshot().Status)
}

func (s *ViewSuite) TestJoinPropagatesToOtherClients() {
	host, _ := s.newView("client-1", "Alice")
	game := s.createAs(host)

	guest, _ := s.newView("client-2", "Bob")
	s.random.QueueString("bobaaaaaaaaaaaaa")
	_, err := guest.Join(s.ctx, game.JoinCode)
	s.Require().NoError(err)

	s.NotEqual(host.PlayerID(), guest.PlayerID())
	s.eventually(func() bool {
		return host.Snapshot().HumanCount() == 2
	}, "host view hears about the new seat")
}

func (s *ViewSuite) TestRejoinResumesSameSeat() {
	host, _ := s.newView("client-1", "Alice")
	game := s.createAs(host)

	guestStore := identity.NewMemoryStore()
	first := NewView(s.sessions, s.store,
		identity.NewResolver(guestStore, testutil.NopLogger()),
		mocks.NewMockScheduler(), s.random, "client-2", "Bob", testutil.NopLogger())
	s.random.QueueString("bobaaaaaaaaaaaaa")
	_, err := first.Join(s.ctx, game.JoinCode)
	s.Require().NoError(err)
	firstID := first.PlayerID()
	first.Close()

	// A restarted process shares only the identity file
	second := NewView(s.sessions, s.store,
		identity.NewResolver(guestStore, testutil.NopLogger()),
		mocks.NewMockScheduler(), s.random, "client-3", "Bob", testutil.NopLogger())
	s.views = append(s.views, second)
	_, err = second.Join(s.ctx, game.JoinCode)
	s.Require().NoError(err)

	s.Equal(firstID, second.PlayerID())
	s.Equal(2, second.Snapshot().HumanCount(), "no duplicate seat")
}

func (s *ViewSuite) TestStartSpinAndGuessFlow() {
	host, scheduler := s.newView("client-1", "Alice")
	s.createAs(host)

	s.Require().NoError(host.Start(s.ctx))
	s.eventually(host.IsMyTurn, "host takes the first turn")

	// The spin outcome resolves after the pacing delay
	host.Spin(s.ctx)
	s.Require().True(scheduler.FireNext())
	s.eventually(func() bool {
		g := host.Snapshot()
		return g.WheelValue != nil
	}, "spin outcome lands")

	// First catalog puzzle is GREAT IDEA; T pays once
	s.Require().NoError(host.GuessLetter(s.ctx, 'T'))
	s.eventually(func() bool {
		g := host.Snapshot()
		return g.Players[host.PlayerID()].RoundMoney > 0
	}, "consonant award lands")
	s.True(host.IsMyTurn(), "a hit keeps the turn")
}

func (s *ViewSuite) TestInvalidActionSurfacesMessage() {
	host, _ := s.newView("client-1", "Alice")
	s.createAs(host)
	s.Require().NoError(host.Start(s.ctx))

	err := host.GuessLetter(s.ctx, 'T')
	s.ErrorIs(err, model.ErrInvalidAction, "consonant before spinning")
	s.NotEmpty(host.Message())
}

func (s *ViewSuite) TestAgentPlaysAISeat() {
	host, scheduler := s.newView("client-1", "Alice")
	s.createAs(host)
	s.Require().NoError(host.Start(s.ctx))
	s.eventually(host.IsMyTurn, "host starts")

	// Hand the turn to the AI with a missed solve
	s.Require().NoError(host.Solve(s.ctx, "DEFINITELY WRONG"))
	s.eventually(func() bool {
		seat := host.Snapshot().CurrentPlayer()
		return seat != nil && !seat.IsHuman
	}, "turn rotates to the AI seat")

	// The snapshot schedules a paced agent attempt; firing it claims
	// the lease and spins
	s.eventually(func() bool { return scheduler.PendingCount() > 0 }, "agent attempt scheduled")
	historyBefore := len(host.Snapshot().History)
	s.Require().True(scheduler.FireNext())

	s.eventually(func() bool {
		g := host.Snapshot()
		return g.WheelValue != nil || len(g.History) > historyBefore
	}, "agent move lands and fans back out")
}

func (s *ViewSuite) TestLeaveRemovesSeat() {
	host, _ := s.newView("client-1", "Alice")
	game := s.createAs(host)

	guest, _ := s.newView("client-2", "Bob")
	s.random.QueueString("bobaaaaaaaaaaaaa")
	_, err := guest.Join(s.ctx, game.JoinCode)
	s.Require().NoError(err)
	guestID := guest.PlayerID()

	s.Require().NoError(guest.Leave(s.ctx))

	current, err := s.sessions.GetGame(s.ctx, game.JoinCode)
	s.Require().NoError(err)
	_, seated := current.Players[guestID]
	s.False(seated)
}

func (s *ViewSuite) TestCloseDetachesWithoutRemovingSeat() {
	host, _ := s.newView("client-1", "Alice")
	game := s.createAs(host)
	hostID := host.PlayerID()

	host.Close()

	current, err := s.sessions.GetGame(s.ctx, game.JoinCode)
	s.Require().NoError(err)
	_, seated := current.Players[hostID]
	s.True(seated, "the seat survives for reconnection")
}
