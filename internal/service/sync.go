package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atelic/chess-dashboard-sub001/internal/config"
	"github.com/atelic/chess-dashboard-sub001/internal/domain"
	"github.com/atelic/chess-dashboard-sub001/internal/source"
)

// SyncService orchestrates pulling games from the configured platforms into
// the store. Platforms are fetched independently: one platform's failure is
// recorded in the result and never aborts the other's attempt.
type SyncService struct {
	sources   []Source
	games     GameStore
	users     UserStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	config    config.SyncConfig

	now func() time.Time
}

// Options controls one sync invocation.
type Options struct {
	// FullSync ignores the incremental cutoff and walks the platform's
	// full available history.
	FullSync bool
}

func NewSyncService(
	sources []Source,
	games GameStore,
	users UserStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		sources:   sources,
		games:     games,
		users:     users,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// SyncGames fetches and persists new games for every platform the user has
// linked. A partially failed sync is a successful return value with
// Success=false; callers inspect the per-source entries. LastSyncedAt
// advances only when every configured source succeeded.
func (s *SyncService) SyncGames(ctx context.Context, userID int64, opts Options) (*domain.SyncResult, error) {
	if userID <= 0 {
		return nil, &domain.ValidationError{Field: "userId", Reason: "must be positive"}
	}

	start := s.now()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	targets := s.configuredSources(user)
	s.logger.Info("starting sync",
		"user_id", userID,
		"sources", len(targets),
		"full_sync", opts.FullSync,
	)

	// All-settled: each platform runs to completion and records its own
	// outcome; nothing here cancels a sibling fetch.
	results := make([]domain.SourceResult, len(targets))
	var wg sync.WaitGroup
	for i, src := range targets {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = s.syncSource(ctx, user, src, opts)
		}(i, src)
	}
	wg.Wait()

	result := &domain.SyncResult{Success: true, Sources: results}
	for i := range results {
		if results[i].Err != nil {
			results[i].Error = results[i].Err.Error()
			result.Success = false
			continue
		}
		result.NewGamesCount += results[i].NewGames
	}

	total, err := s.games.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count games: %w", err)
	}
	result.TotalGamesCount = total

	if result.Success {
		if err := s.users.UpdateLastSynced(ctx, userID, s.now()); err != nil {
			return nil, fmt.Errorf("update last synced: %w", err)
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info("sync completed",
		"user_id", userID,
		"success", result.Success,
		"new_games", result.NewGamesCount,
		"total_games", result.TotalGamesCount,
		"duration", result.Duration,
	)

	return result, nil
}

// FullResync discards every stored game of the user, then re-ingests the
// full available history. Deletion always happens before any fetch, so an
// interrupted resync leaves zero games rather than duplicates.
func (s *SyncService) FullResync(ctx context.Context, userID int64) (*domain.SyncResult, error) {
	if userID <= 0 {
		return nil, &domain.ValidationError{Field: "userId", Reason: "must be positive"}
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	if err := s.games.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete games: %w", err)
	}
	s.logger.Info("deleted stored games for full resync", "user_id", userID)

	return s.SyncGames(ctx, userID, Options{FullSync: true})
}

// syncSource runs one platform's fetch-and-persist cycle. Every failure is
// caught here and recorded in the returned SourceResult.
func (s *SyncService) syncSource(ctx context.Context, user *domain.User, src Source, opts Options) domain.SourceResult {
	res := domain.SourceResult{Source: src.Source()}
	logger := s.logger.With("source", src.Source(), "user_id", user.ID)

	username, ok := user.UsernameFor(src.Source())
	if !ok {
		res.Err = fmt.Errorf("no username configured")
		return res
	}

	fetchOpts := source.FetchOptions{
		FetchAll: opts.FullSync,
		MaxGames: s.config.MaxGamesPerSource,
	}
	if !opts.FullSync {
		latest, err := s.games.LatestPlayedAt(ctx, user.ID, src.Source())
		if err != nil {
			res.Err = fmt.Errorf("latest stored game: %w", err)
			return res
		}
		if latest != nil {
			// One second past the boundary game: it is not re-fetched,
			// and a game played within the same second is not skipped.
			since := latest.Add(time.Second)
			fetchOpts.Since = &since
		}
	}

	before, err := s.games.CountBySource(ctx, user.ID, src.Source())
	if err != nil {
		res.Err = fmt.Errorf("count games: %w", err)
		return res
	}

	games, err := src.FetchGames(ctx, username, fetchOpts)
	if err != nil {
		res.Err = fmt.Errorf("fetch games: %w", err)
		logger.Warn("source fetch failed", "error", err)
		return res
	}
	logger.Info("fetched games", "count", len(games))

	for i := range games {
		games[i].UserID = user.ID
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.games.UpsertBatch(txCtx, games)
	})
	if err != nil {
		res.Err = fmt.Errorf("persist games: %w", err)
		return res
	}

	after, err := s.games.CountBySource(ctx, user.ID, src.Source())
	if err != nil {
		res.Err = fmt.Errorf("count games: %w", err)
		return res
	}
	res.NewGames = after - before

	s.requestAnalysis(ctx, logger, games, res.NewGames)

	return res
}

// requestAnalysis tells the evaluation pipeline about newly stored games.
// Fetched games arrive newest-first and an incremental window only contains
// unseen games, so the first newCount entries are the new ones. Publish
// failures are logged and do not fail the sync.
func (s *SyncService) requestAnalysis(ctx context.Context, logger *slog.Logger, games []domain.Game, newCount int) {
	if s.publisher == nil || newCount <= 0 {
		return
	}
	if newCount > len(games) {
		newCount = len(games)
	}
	for i := 0; i < newCount; i++ {
		if err := s.publisher.PublishAnalysisRequested(ctx, &games[i]); err != nil {
			logger.Warn("publish analysis request failed",
				"external_id", games[i].ExternalID,
				"error", err,
			)
		}
	}
}

func (s *SyncService) configuredSources(user *domain.User) []Source {
	var targets []Source
	for _, src := range s.sources {
		if _, ok := user.UsernameFor(src.Source()); ok {
			targets = append(targets, src)
		}
	}
	return targets
}
