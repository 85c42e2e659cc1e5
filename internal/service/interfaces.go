package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
	"github.com/atelic/chess-dashboard-sub001/internal/source"
)

// GameStore is the game persistence contract the orchestrator depends on.
type GameStore interface {
	UpsertBatch(ctx context.Context, games []domain.Game) error
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountBySource(ctx context.Context, userID int64, src domain.Source) (int, error)
	LatestPlayedAt(ctx context.Context, userID int64, src domain.Source) (*time.Time, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// UserStore is the account persistence contract the orchestrator depends on.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateLastSynced(ctx context.Context, id int64, at time.Time) error
}

// Source is one platform adapter.
type Source interface {
	Source() domain.Source
	ValidateUser(ctx context.Context, username string) (bool, error)
	FetchGames(ctx context.Context, username string, opts source.FetchOptions) ([]domain.Game, error)
}

// Publisher notifies the evaluation pipeline about games awaiting analysis.
type Publisher interface {
	PublishAnalysisRequested(ctx context.Context, game *domain.Game) error
}

// TransactionManager wraps a unit of work in a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
