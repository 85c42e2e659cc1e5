// Package chesscom adapts the Chess.com published-data API to the canonical
// game record. Games are exposed as monthly archives, so the adapter walks
// the archive list newest to oldest and prunes whole months before parsing
// individual games.
package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
	"github.com/atelic/chess-dashboard-sub001/internal/source"
)

const userAgent = "chess-dashboard/1.0"

// Config holds Chess.com adapter configuration.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RateLimit      time.Duration // minimum delay between requests
}

// Source implements source.Source for the Chess.com published-data API.
type Source struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a Chess.com source.
func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 500 * time.Millisecond
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Every(cfg.RateLimit), 1),
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", domain.SourceChessCom),
	}
}

// Source identifies the platform.
func (s *Source) Source() domain.Source {
	return domain.SourceChessCom
}

// ValidateUser reports whether the username exists on Chess.com.
func (s *Source) ValidateUser(ctx context.Context, username string) (bool, error) {
	url := fmt.Sprintf("%s/pub/player/%s", s.baseURL, strings.ToLower(username))

	status, err := s.statusOf(ctx, url)
	if err != nil {
		return false, fmt.Errorf("validate user %q: %w", username, err)
	}
	return status == http.StatusOK, nil
}

// FetchGames walks the player's monthly archives newest to oldest, stops
// once the walk passes the requested start boundary or enough games are
// collected, then applies exact per-game date filtering.
func (s *Source) FetchGames(ctx context.Context, username string, opts source.FetchOptions) ([]domain.Game, error) {
	archives, err := s.listArchives(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}

	var games []domain.Game
	for i := len(archives) - 1; i >= 0; i-- {
		archiveURL := archives[i]

		monthEnd, ok := archiveMonthEnd(archiveURL)
		if ok && !opts.FetchAll && opts.Since != nil && monthEnd.Before(*opts.Since) {
			// Every remaining archive is older still.
			break
		}

		batch, err := s.fetchArchive(ctx, archiveURL)
		if err != nil {
			return nil, fmt.Errorf("fetch archive %s: %w", archiveURL, err)
		}

		for j := range batch.Games {
			game, err := s.transform(&batch.Games[j], username)
			if err != nil {
				s.logger.Warn("skipping unusable game",
					"url", batch.Games[j].URL,
					"error", err,
				)
				continue
			}
			if opts.InRange(game.PlayedAt) {
				games = append(games, game)
			}
		}

		s.logger.Debug("walked archive",
			"archive", archiveURL,
			"batch", len(batch.Games),
			"collected", len(games),
		)

		if opts.MaxGames > 0 && len(games) >= opts.MaxGames {
			break
		}
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].PlayedAt.After(games[j].PlayedAt)
	})
	if opts.MaxGames > 0 && len(games) > opts.MaxGames {
		games = games[:opts.MaxGames]
	}

	return games, nil
}

func (s *Source) listArchives(ctx context.Context, username string) ([]string, error) {
	url := fmt.Sprintf("%s/pub/player/%s/games/archives", s.baseURL, strings.ToLower(username))

	var resp archivesResponse
	if err := s.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return resp.Archives, nil
}

func (s *Source) fetchArchive(ctx context.Context, url string) (*archiveGamesResponse, error) {
	var resp archiveGamesResponse
	if err := s.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// transform converts one archive game into the canonical record.
func (s *Source) transform(g *apiGame, username string) (domain.Game, error) {
	if g.White.Username == "" || g.Black.Username == "" {
		return domain.Game{}, fmt.Errorf("missing player usernames")
	}

	var me, them apiPlayer
	var color domain.Color
	switch {
	case strings.EqualFold(g.White.Username, username):
		me, them, color = g.White, g.Black, domain.ColorWhite
	case strings.EqualFold(g.Black.Username, username):
		me, them, color = g.Black, g.White, domain.ColorBlack
	default:
		return domain.Game{}, fmt.Errorf("player %q not in game", username)
	}

	id := g.UUID
	if id == "" {
		// Older archives omit the uuid; fall back to the URL's game id.
		id = g.URL[strings.LastIndex(g.URL, "/")+1:]
	}

	return domain.Game{
		ExternalID:   id,
		Source:       domain.SourceChessCom,
		PlayedAt:     time.Unix(g.EndTime, 0).UTC(),
		TimeClass:    mapTimeClass(g.TimeClass),
		PlayerColor:  color,
		Result:       classifyResult(me.Result),
		Termination:  resolveTermination(g.White.Result, g.Black.Result),
		Opening:      parseOpening(g.PGN),
		Opponent:     domain.Opponent{Username: them.Username, Rating: them.Rating},
		PlayerRating: me.Rating,
		MoveCount:    parseMoveCount(g.PGN),
		Rated:        g.Rated,
		GameURL:      g.URL,
		Clock:        parseTimeControl(g.TimeControl),
	}, nil
}

func mapTimeClass(raw string) domain.TimeClass {
	switch raw {
	case "bullet":
		return domain.TimeClassBullet
	case "blitz":
		return domain.TimeClassBlitz
	case "rapid":
		return domain.TimeClassRapid
	case "daily", "classical":
		return domain.TimeClassClassical
	default:
		return domain.TimeClassBlitz
	}
}

// archiveMonthEnd parses the trailing /YYYY/MM of an archive URL and returns
// the last instant of that month.
func archiveMonthEnd(archiveURL string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSuffix(archiveURL, "/"), "/")
	if len(parts) < 2 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 1, 0).Add(-time.Second), true
}

func (s *Source) get(ctx context.Context, url string, out any) error {
	var lastErr error
	backoff := s.initialBackoff

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		lastErr = s.doJSON(ctx, url, out)
		if lastErr == nil {
			return nil
		}
		if attempt == s.maxAttempts {
			break
		}

		s.logger.Warn("request failed, retrying",
			"url", url,
			"attempt", attempt,
			"backoff", backoff,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > s.maxBackoff {
			backoff = s.maxBackoff
		}
	}

	return fmt.Errorf("after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *Source) doJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (s *Source) statusOf(ctx context.Context, url string) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
