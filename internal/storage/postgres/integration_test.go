//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
	"github.com/atelic/chess-dashboard-sub001/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_users.up.sql"),
			filepath.Join(migrationsPath, "002_create_games.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM games")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM users")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) createUser() int64 {
	store := NewUserStore(s.db)
	id, err := store.Create(s.ctx, &domain.User{
		ChessComUsername: utils.Ptr("magnus"),
		LichessUsername:  utils.Ptr("DrNykterstein"),
	})
	s.Require().NoError(err)
	return id
}

func (s *PostgresIntegrationSuite) testGame(userID int64, externalID string, playedAt time.Time) domain.Game {
	return domain.Game{
		UserID:       userID,
		Source:       domain.SourceChessCom,
		ExternalID:   externalID,
		PlayedAt:     playedAt,
		TimeClass:    domain.TimeClassBlitz,
		PlayerColor:  domain.ColorWhite,
		Result:       domain.ResultWin,
		Termination:  domain.TerminationCheckmate,
		Opening:      domain.Opening{ECO: "B20", Name: "Sicilian Defense"},
		Opponent:     domain.Opponent{Username: "rival", Rating: 1500},
		PlayerRating: 1550,
		RatingChange: utils.Ptr(8),
		MoveCount:    40,
		Rated:        true,
		GameURL:      "https://www.chess.com/game/live/" + externalID,
		Clock:        &domain.Clock{InitialTime: 300, Increment: 3},
	}
}

func (s *PostgresIntegrationSuite) TestGameStore_UpsertBatch_Insert() {
	userID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	games := []domain.Game{
		s.testGame(userID, "g1", now),
		s.testGame(userID, "g2", now.Add(time.Hour)),
	}

	err := store.UpsertBatch(s.ctx, games)
	s.NoError(err)

	count, err := store.CountByUser(s.ctx, userID)
	s.NoError(err)
	s.Equal(2, count)
}

func (s *PostgresIntegrationSuite) TestGameStore_UpsertBatch_Idempotent() {
	userID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	games := []domain.Game{s.testGame(userID, "g1", now)}

	s.NoError(store.UpsertBatch(s.ctx, games))
	s.NoError(store.UpsertBatch(s.ctx, games))

	count, err := store.CountByUser(s.ctx, userID)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestGameStore_UpsertBatch_UpdatesExistingRow() {
	userID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	game := s.testGame(userID, "g1", now)
	s.NoError(store.UpsertBatch(s.ctx, []domain.Game{game}))

	game.Result = domain.ResultLoss
	game.Termination = domain.TerminationResignation
	game.Clock.TimeRemaining = utils.Ptr(42)
	game.Clock.AvgMoveTime = utils.Ptr(4.5)
	game.Clock.MoveTimes = []float64{2.1, 6.9}
	s.NoError(store.UpsertBatch(s.ctx, []domain.Game{game}))

	stored, err := store.FindByUser(s.ctx, userID)
	s.NoError(err)
	s.Require().Len(stored, 1)
	s.Equal(domain.ResultLoss, stored[0].Result)
	s.Equal(domain.TerminationResignation, stored[0].Termination)
	s.Require().NotNil(stored[0].Clock)
	s.Require().NotNil(stored[0].Clock.TimeRemaining)
	s.Equal(42, *stored[0].Clock.TimeRemaining)
	s.Require().NotNil(stored[0].Clock.AvgMoveTime)
	s.Equal(4.5, *stored[0].Clock.AvgMoveTime)
	s.Equal([]float64{2.1, 6.9}, stored[0].Clock.MoveTimes)
}

func (s *PostgresIntegrationSuite) TestGameStore_UpsertBatch_PreservesAnalysis() {
	userID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	game := s.testGame(userID, "g1", now)
	s.NoError(store.UpsertBatch(s.ctx, []domain.Game{game}))

	stored, err := store.FindByUser(s.ctx, userID)
	s.NoError(err)
	s.Require().Len(stored, 1)

	err = store.UpdateAnalysis(s.ctx, stored[0].ID, domain.Analysis{
		Accuracy: utils.Ptr(92.5),
		Blunders: 1,
		Mistakes: 2,
	})
	s.NoError(err)

	// A later re-sync of the same game must not clobber the evaluation.
	s.NoError(store.UpsertBatch(s.ctx, []domain.Game{game}))

	stored, err = store.FindByUser(s.ctx, userID)
	s.NoError(err)
	s.Require().Len(stored, 1)
	s.Require().NotNil(stored[0].Analysis)
	s.Equal(1, stored[0].Analysis.Blunders)
	s.Equal(2, stored[0].Analysis.Mistakes)
	s.Require().NotNil(stored[0].Analysis.Accuracy)
	s.InDelta(92.5, *stored[0].Analysis.Accuracy, 0.001)
}

func (s *PostgresIntegrationSuite) TestGameStore_FindByUser_RoundTrip() {
	userID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	game := s.testGame(userID, "g1", now)
	s.NoError(store.UpsertBatch(s.ctx, []domain.Game{game}))

	stored, err := store.FindByUser(s.ctx, userID)
	s.NoError(err)
	s.Require().Len(stored, 1)

	got := stored[0]
	s.Equal(game.ExternalID, got.ExternalID)
	s.Equal(game.Source, got.Source)
	s.Equal(game.PlayedAt, got.PlayedAt)
	s.Equal(game.Result, got.Result)
	s.Equal(game.Opening, got.Opening)
	s.Equal(game.Opponent, got.Opponent)
	s.Require().NotNil(got.RatingChange)
	s.Equal(8, *got.RatingChange)
	s.Require().NotNil(got.Clock)
	s.Equal(300, got.Clock.InitialTime)
	s.Equal(3, got.Clock.Increment)
	s.Nil(got.Analysis)
}

func (s *PostgresIntegrationSuite) TestGameStore_LatestPlayedAt() {
	userID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	latest, err := store.LatestPlayedAt(s.ctx, userID, domain.SourceChessCom)
	s.NoError(err)
	s.Nil(latest)

	games := []domain.Game{
		s.testGame(userID, "g1", now.Add(-time.Hour)),
		s.testGame(userID, "g2", now),
	}
	s.NoError(store.UpsertBatch(s.ctx, games))

	latest, err = store.LatestPlayedAt(s.ctx, userID, domain.SourceChessCom)
	s.NoError(err)
	s.Require().NotNil(latest)
	s.Equal(now, *latest)

	// Other platforms are unaffected.
	latest, err = store.LatestPlayedAt(s.ctx, userID, domain.SourceLichess)
	s.NoError(err)
	s.Nil(latest)
}

func (s *PostgresIntegrationSuite) TestGameStore_FindByOpponent_CaseInsensitive() {
	userID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	game := s.testGame(userID, "g1", now)
	game.Opponent.Username = "Hikaru"
	s.NoError(store.UpsertBatch(s.ctx, []domain.Game{game}))

	found, err := store.FindByOpponent(s.ctx, userID, "hikaru")
	s.NoError(err)
	s.Len(found, 1)
}

func (s *PostgresIntegrationSuite) TestGameStore_FindNeedingAnalysis() {
	userID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	games := []domain.Game{
		s.testGame(userID, "old", now.Add(-time.Hour)),
		s.testGame(userID, "new", now),
	}
	s.NoError(store.UpsertBatch(s.ctx, games))

	pending, err := store.FindNeedingAnalysis(s.ctx, userID, 10)
	s.NoError(err)
	s.Require().Len(pending, 2)
	// Oldest first so the backlog drains in play order.
	s.Equal("old", pending[0].ExternalID)

	s.NoError(store.UpdateAnalysis(s.ctx, pending[0].ID, domain.Analysis{Blunders: 1}))

	pending, err = store.FindNeedingAnalysis(s.ctx, userID, 10)
	s.NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("new", pending[0].ExternalID)
}

func (s *PostgresIntegrationSuite) TestGameStore_DeleteByUser() {
	userID := s.createUser()
	otherID := s.createUser()
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.NoError(store.UpsertBatch(s.ctx, []domain.Game{s.testGame(userID, "g1", now)}))
	s.NoError(store.UpsertBatch(s.ctx, []domain.Game{s.testGame(otherID, "g1", now)}))

	s.NoError(store.DeleteByUser(s.ctx, userID))

	count, err := store.CountByUser(s.ctx, userID)
	s.NoError(err)
	s.Zero(count)

	count, err = store.CountByUser(s.ctx, otherID)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestUserStore_GetByID_NotFound() {
	store := NewUserStore(s.db)

	_, err := store.GetByID(s.ctx, 999999)

	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *PostgresIntegrationSuite) TestUserStore_UpdateLastSynced() {
	userID := s.createUser()
	store := NewUserStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.NoError(store.UpdateLastSynced(s.ctx, userID, now))

	user, err := store.GetByID(s.ctx, userID)
	s.NoError(err)
	s.Require().NotNil(user.LastSyncedAt)
	s.WithinDuration(now, *user.LastSyncedAt, time.Second)
}

func (s *PostgresIntegrationSuite) TestUserStore_DeleteCascadesToGames() {
	userID := s.createUser()
	users := NewUserStore(s.db)
	games := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.NoError(games.UpsertBatch(s.ctx, []domain.Game{s.testGame(userID, "g1", now)}))

	s.NoError(users.Delete(s.ctx, userID))

	var count int
	err := s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM games")
	s.NoError(err)
	s.Zero(count)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	userID := s.createUser()
	tm := NewTransactionManager(s.db)
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return store.UpsertBatch(ctx, []domain.Game{s.testGame(userID, "g1", now)})
	})
	s.NoError(err)

	count, err := store.CountByUser(s.ctx, userID)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	userID := s.createUser()
	tm := NewTransactionManager(s.db)
	store := NewGameStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := store.UpsertBatch(ctx, []domain.Game{s.testGame(userID, "g1", now)}); err != nil {
			return err
		}
		return context.Canceled
	})
	s.Error(err)

	count, err := store.CountByUser(s.ctx, userID)
	s.NoError(err)
	s.Zero(count)
}
