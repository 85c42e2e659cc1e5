package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// UserStore persists user accounts. Deleting a user cascades to their games.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// GetByID returns the user or domain.ErrUserNotFound.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := sqlx.GetContext(ctx, executor(ctx, s.db), &user, `
		SELECT id, chesscom_username, lichess_username, last_synced_at, created_at, updated_at
		FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a user and returns its id.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (int64, error) {
	var id int64
	err := executor(ctx, s.db).QueryRowxContext(ctx, `
		INSERT INTO users (chesscom_username, lichess_username)
		VALUES ($1, $2) RETURNING id`,
		user.ChessComUsername, user.LichessUsername,
	).Scan(&id)
	return id, err
}

// Update rewrites the user's platform usernames.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	res, err := executor(ctx, s.db).ExecContext(ctx, `
		UPDATE users SET
			chesscom_username = $2,
			lichess_username = $3,
			updated_at = now()
		WHERE id = $1`,
		user.ID, user.ChessComUsername, user.LichessUsername)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes the user; their games cascade.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := executor(ctx, s.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateLastSynced advances the account-level last-synced timestamp.
func (s *UserStore) UpdateLastSynced(ctx context.Context, id int64, at time.Time) error {
	res, err := executor(ctx, s.db).ExecContext(ctx, `
		UPDATE users SET last_synced_at = $2, updated_at = now() WHERE id = $1`,
		id, at)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
