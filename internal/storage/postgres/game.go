package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

const gameColumns = `
	id, user_id, source, external_id, played_at, time_class, player_color,
	result, termination, opening_eco, opening_name, opponent_username,
	opponent_rating, player_rating, rating_change, move_count, rated, game_url,
	clock_initial, clock_increment, clock_time_remaining, clock_avg_move_time,
	clock_move_times, analysis_accuracy, analysis_blunders, analysis_mistakes,
	analysis_inaccuracies, analysis_acpl, analyzed_at`

// GameStore persists canonical game records. The sync service is the only
// writer of game rows; the evaluation pipeline updates only the analysis
// columns through UpdateAnalysis.
type GameStore struct {
	db *sqlx.DB
}

func NewGameStore(db *sqlx.DB) *GameStore {
	return &GameStore{db: db}
}

// UpsertBatch inserts the games, updating rows that already exist for the
// same (user_id, source, external_id). Analysis columns are never touched,
// so re-syncing cannot clobber evaluation results.
func (s *GameStore) UpsertBatch(ctx context.Context, games []domain.Game) error {
	if len(games) == 0 {
		return nil
	}

	query := `
		INSERT INTO games (
			user_id, source, external_id, played_at, time_class, player_color,
			result, termination, opening_eco, opening_name, opponent_username,
			opponent_rating, player_rating, rating_change, move_count, rated,
			game_url, clock_initial, clock_increment, clock_time_remaining,
			clock_avg_move_time, clock_move_times
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
		ON CONFLICT (user_id, source, external_id) DO UPDATE SET
			played_at = EXCLUDED.played_at,
			time_class = EXCLUDED.time_class,
			player_color = EXCLUDED.player_color,
			result = EXCLUDED.result,
			termination = EXCLUDED.termination,
			opening_eco = EXCLUDED.opening_eco,
			opening_name = EXCLUDED.opening_name,
			opponent_username = EXCLUDED.opponent_username,
			opponent_rating = EXCLUDED.opponent_rating,
			player_rating = EXCLUDED.player_rating,
			rating_change = EXCLUDED.rating_change,
			move_count = EXCLUDED.move_count,
			rated = EXCLUDED.rated,
			game_url = EXCLUDED.game_url,
			clock_initial = EXCLUDED.clock_initial,
			clock_increment = EXCLUDED.clock_increment,
			clock_time_remaining = EXCLUDED.clock_time_remaining,
			clock_avg_move_time = EXCLUDED.clock_avg_move_time,
			clock_move_times = EXCLUDED.clock_move_times,
			updated_at = now()`

	exec := executor(ctx, s.db)
	for i := range games {
		g := &games[i]

		var clockInitial, clockIncrement, clockRemaining sql.NullInt64
		var avgMoveTime sql.NullFloat64
		var moveTimes any
		if g.Clock != nil {
			clockInitial = sql.NullInt64{Int64: int64(g.Clock.InitialTime), Valid: true}
			clockIncrement = sql.NullInt64{Int64: int64(g.Clock.Increment), Valid: true}
			if g.Clock.TimeRemaining != nil {
				clockRemaining = sql.NullInt64{Int64: int64(*g.Clock.TimeRemaining), Valid: true}
			}
			if g.Clock.AvgMoveTime != nil {
				avgMoveTime = sql.NullFloat64{Float64: *g.Clock.AvgMoveTime, Valid: true}
			}
			if len(g.Clock.MoveTimes) > 0 {
				moveTimes = pq.Array(g.Clock.MoveTimes)
			}
		}

		_, err := exec.ExecContext(ctx, query,
			g.UserID, g.Source, g.ExternalID, g.PlayedAt, g.TimeClass,
			g.PlayerColor, g.Result, g.Termination, g.Opening.ECO,
			g.Opening.Name, g.Opponent.Username, g.Opponent.Rating,
			g.PlayerRating, g.RatingChange, g.MoveCount, g.Rated, g.GameURL,
			clockInitial, clockIncrement, clockRemaining, avgMoveTime, moveTimes,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindByUser returns every game of the user, newest first.
func (s *GameStore) FindByUser(ctx context.Context, userID int64) ([]domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE user_id = $1 ORDER BY played_at DESC`
	return s.selectGames(ctx, query, userID)
}

// FindByID returns one game or nil when absent.
func (s *GameStore) FindByID(ctx context.Context, id int64) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	games, err := s.selectGames(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	return &games[0], nil
}

// FindByIDs returns the games with the given row ids, newest first.
func (s *GameStore) FindByIDs(ctx context.Context, ids []int64) ([]domain.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ANY($1) ORDER BY played_at DESC`
	return s.selectGames(ctx, query, pq.Array(ids))
}

// FindByOpening returns the user's games with the given ECO code, newest first.
func (s *GameStore) FindByOpening(ctx context.Context, userID int64, eco string) ([]domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games
		WHERE user_id = $1 AND opening_eco = $2 ORDER BY played_at DESC`
	return s.selectGames(ctx, query, userID, eco)
}

// FindByOpponent returns the user's games against the opponent, matched
// case-insensitively, newest first.
func (s *GameStore) FindByOpponent(ctx context.Context, userID int64, username string) ([]domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games
		WHERE user_id = $1 AND lower(opponent_username) = lower($2)
		ORDER BY played_at DESC`
	return s.selectGames(ctx, query, userID, username)
}

// FindNeedingAnalysis returns up to limit games that have not been analyzed
// yet, oldest first so the backlog drains in play order.
func (s *GameStore) FindNeedingAnalysis(ctx context.Context, userID int64, limit int) ([]domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games
		WHERE user_id = $1 AND analyzed_at IS NULL
		ORDER BY played_at ASC LIMIT $2`
	return s.selectGames(ctx, query, userID, limit)
}

// CountByUser returns the user's total stored game count.
func (s *GameStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, executor(ctx, s.db), &count,
		`SELECT COUNT(*) FROM games WHERE user_id = $1`, userID)
	return count, err
}

// CountBySource returns the user's stored game count for one platform.
func (s *GameStore) CountBySource(ctx context.Context, userID int64, src domain.Source) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, executor(ctx, s.db), &count,
		`SELECT COUNT(*) FROM games WHERE user_id = $1 AND source = $2`, userID, src)
	return count, err
}

// Exists reports whether the user already has the platform game stored.
func (s *GameStore) Exists(ctx context.Context, userID int64, src domain.Source, externalID string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, s.db), &exists,
		`SELECT EXISTS (SELECT 1 FROM games WHERE user_id = $1 AND source = $2 AND external_id = $3)`,
		userID, src, externalID)
	return exists, err
}

// LatestPlayedAt returns when the user's most recent stored game on the
// platform was played, or nil when none is stored.
func (s *GameStore) LatestPlayedAt(ctx context.Context, userID int64, src domain.Source) (*time.Time, error) {
	var latest sql.NullTime
	err := sqlx.GetContext(ctx, executor(ctx, s.db), &latest,
		`SELECT MAX(played_at) FROM games WHERE user_id = $1 AND source = $2`, userID, src)
	if err != nil {
		return nil, err
	}
	if !latest.Valid {
		return nil, nil
	}
	t := latest.Time.UTC()
	return &t, nil
}

// DeleteByUser removes every stored game of the user.
func (s *GameStore) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM games WHERE user_id = $1`, userID)
	return err
}

// UpdateAnalysis records engine-evaluation results for one game. Only the
// analysis columns are written.
func (s *GameStore) UpdateAnalysis(ctx context.Context, gameID int64, a domain.Analysis) error {
	analyzedAt := time.Now().UTC()
	if a.AnalyzedAt != nil {
		analyzedAt = *a.AnalyzedAt
	}
	_, err := executor(ctx, s.db).ExecContext(ctx, `
		UPDATE games SET
			analysis_accuracy = $2,
			analysis_blunders = $3,
			analysis_mistakes = $4,
			analysis_inaccuracies = $5,
			analysis_acpl = $6,
			analyzed_at = $7,
			updated_at = now()
		WHERE id = $1`,
		gameID, a.Accuracy, a.Blunders, a.Mistakes, a.Inaccuracies, a.ACPL, analyzedAt)
	return err
}

func (s *GameStore) selectGames(ctx context.Context, query string, args ...any) ([]domain.Game, error) {
	rows, err := executor(ctx, s.db).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func scanGame(rows *sqlx.Rows) (domain.Game, error) {
	var (
		g              domain.Game
		ratingChange   sql.NullInt64
		clockInitial   sql.NullInt64
		clockIncrement sql.NullInt64
		clockRemaining sql.NullInt64
		avgMoveTime    sql.NullFloat64
		moveTimes      pq.Float64Array
		accuracy       sql.NullFloat64
		blunders       sql.NullInt64
		mistakes       sql.NullInt64
		inaccuracies   sql.NullInt64
		acpl           sql.NullFloat64
		analyzedAt     sql.NullTime
	)

	err := rows.Scan(
		&g.ID, &g.UserID, &g.Source, &g.ExternalID, &g.PlayedAt, &g.TimeClass,
		&g.PlayerColor, &g.Result, &g.Termination, &g.Opening.ECO,
		&g.Opening.Name, &g.Opponent.Username, &g.Opponent.Rating,
		&g.PlayerRating, &ratingChange, &g.MoveCount, &g.Rated, &g.GameURL,
		&clockInitial, &clockIncrement, &clockRemaining, &avgMoveTime,
		&moveTimes, &accuracy, &blunders, &mistakes, &inaccuracies, &acpl,
		&analyzedAt,
	)
	if err != nil {
		return domain.Game{}, err
	}

	g.PlayedAt = g.PlayedAt.UTC()
	if ratingChange.Valid {
		rc := int(ratingChange.Int64)
		g.RatingChange = &rc
	}

	if clockInitial.Valid {
		clock := &domain.Clock{
			InitialTime: int(clockInitial.Int64),
			Increment:   int(clockIncrement.Int64),
		}
		if clockRemaining.Valid {
			r := int(clockRemaining.Int64)
			clock.TimeRemaining = &r
		}
		if avgMoveTime.Valid {
			v := avgMoveTime.Float64
			clock.AvgMoveTime = &v
		}
		if len(moveTimes) > 0 {
			clock.MoveTimes = []float64(moveTimes)
		}
		g.Clock = clock
	}

	if analyzedAt.Valid {
		at := analyzedAt.Time.UTC()
		analysis := &domain.Analysis{
			Blunders:     int(blunders.Int64),
			Mistakes:     int(mistakes.Int64),
			Inaccuracies: int(inaccuracies.Int64),
			AnalyzedAt:   &at,
		}
		if accuracy.Valid {
			v := accuracy.Float64
			analysis.Accuracy = &v
		}
		if acpl.Valid {
			v := acpl.Float64
			analysis.ACPL = &v
		}
		g.Analysis = analysis
	}

	return g, nil
}
