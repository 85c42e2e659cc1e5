// Package lichess adapts the Lichess game export API to the canonical game
// record. The export streams one JSON record per line, already carrying
// structured opening and winner data, so no text parsing is needed.
package lichess

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
	"github.com/atelic/chess-dashboard-sub001/internal/source"
)

const userAgent = "chess-dashboard/1.0"

// maxLineBytes bounds a single NDJSON record; export lines for long games
// run a few KB.
const maxLineBytes = 1 << 20

// Config holds Lichess adapter configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxGames    int // per-request max parameter when the caller sets no cap
	MaxAttempts int
	Backoff     time.Duration
}

// Source implements source.Source for the Lichess export API.
type Source struct {
	httpClient  *http.Client
	baseURL     string
	maxGames    int
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
}

// New creates a Lichess source.
func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		maxGames:    cfg.MaxGames,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		logger:      logger.With("source", domain.SourceLichess),
	}
}

// Source identifies the platform.
func (s *Source) Source() domain.Source {
	return domain.SourceLichess
}

// ValidateUser reports whether the username exists on Lichess.
func (s *Source) ValidateUser(ctx context.Context, username string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/user/%s", s.baseURL, url.PathEscape(username)), nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("validate user %q: %w", username, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

// FetchGames streams the user's games newest-first. Malformed lines are
// skipped, not fatal.
func (s *Source) FetchGames(ctx context.Context, username string, opts source.FetchOptions) ([]domain.Game, error) {
	q := url.Values{}
	q.Set("opening", "true")
	q.Set("moves", "true")
	if !opts.FetchAll && opts.Since != nil {
		q.Set("since", fmt.Sprintf("%d", opts.Since.UnixMilli()))
	}
	if opts.Until != nil {
		// Lichess treats until as exclusive; widen by one ms to keep the
		// canonical inclusive window.
		q.Set("until", fmt.Sprintf("%d", opts.Until.UnixMilli()+1))
	}
	max := opts.MaxGames
	if max <= 0 {
		max = s.maxGames
	}
	if max > 0 {
		q.Set("max", fmt.Sprintf("%d", max))
	}

	exportURL := fmt.Sprintf("%s/api/games/user/%s?%s", s.baseURL, url.PathEscape(username), q.Encode())

	var games []domain.Game
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		games, lastErr = s.stream(ctx, exportURL, username, opts)
		if lastErr == nil {
			break
		}
		if attempt == s.maxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, lastErr)
		}
		s.logger.Warn("export failed, retrying",
			"attempt", attempt,
			"error", lastErr,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].PlayedAt.After(games[j].PlayedAt)
	})
	return games, nil
}

func (s *Source) stream(ctx context.Context, exportURL, username string, opts source.FetchOptions) ([]domain.Game, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/x-ndjson")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var games []domain.Game
	skipped := 0

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var g apiGame
		if err := json.Unmarshal(line, &g); err != nil {
			skipped++
			continue
		}

		game, err := s.transform(&g, username)
		if err != nil {
			skipped++
			continue
		}
		if opts.InRange(game.PlayedAt) {
			games = append(games, game)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}

	if skipped > 0 {
		s.logger.Warn("skipped malformed export lines", "count", skipped)
	}
	s.logger.Debug("streamed games", "count", len(games))

	return games, nil
}

// transform converts one export record into the canonical record.
func (s *Source) transform(g *apiGame, username string) (domain.Game, error) {
	if g.ID == "" || g.CreatedAt == 0 {
		return domain.Game{}, fmt.Errorf("incomplete record")
	}

	var me, them apiPlayer
	var color domain.Color
	switch {
	case strings.EqualFold(g.Players.White.name(), username):
		me, them, color = g.Players.White, g.Players.Black, domain.ColorWhite
	case strings.EqualFold(g.Players.Black.name(), username):
		me, them, color = g.Players.Black, g.Players.White, domain.ColorBlack
	default:
		return domain.Game{}, fmt.Errorf("player %q not in game", username)
	}

	opening := domain.Opening{ECO: domain.UnknownECO, Name: domain.UnknownOpeningName}
	if g.Opening != nil {
		if g.Opening.ECO != "" {
			opening.ECO = g.Opening.ECO
		}
		if g.Opening.Name != "" {
			opening.Name = g.Opening.Name
		}
	}

	game := domain.Game{
		ExternalID:   g.ID,
		Source:       domain.SourceLichess,
		PlayedAt:     time.UnixMilli(g.CreatedAt).UTC(),
		TimeClass:    mapSpeed(g.Speed),
		PlayerColor:  color,
		Result:       resultFromWinner(g.Winner, color),
		Termination:  mapStatus(g.Status),
		Opening:      opening,
		Opponent:     domain.Opponent{Username: them.name(), Rating: them.Rating},
		PlayerRating: me.Rating,
		RatingChange: me.RatingDiff,
		MoveCount:    fullMoves(g.Moves),
		Rated:        g.Rated,
		GameURL:      fmt.Sprintf("https://lichess.org/%s", g.ID),
	}
	if g.Clock != nil {
		game.Clock = &domain.Clock{
			InitialTime: g.Clock.Initial,
			Increment:   g.Clock.Increment,
		}
	}
	return game, nil
}

// speedToClass maps the Lichess speed field to the canonical time class.
// Unrecognized speeds default to blitz.
var speedToClass = map[string]domain.TimeClass{
	"ultraBullet":    domain.TimeClassBullet,
	"bullet":         domain.TimeClassBullet,
	"blitz":          domain.TimeClassBlitz,
	"rapid":          domain.TimeClassRapid,
	"classical":      domain.TimeClassClassical,
	"correspondence": domain.TimeClassClassical,
}

func mapSpeed(speed string) domain.TimeClass {
	if tc, ok := speedToClass[speed]; ok {
		return tc
	}
	return domain.TimeClassBlitz
}

// resultFromWinner compares the reported winner color to the player's color;
// absence of a winner means a draw.
func resultFromWinner(winner string, color domain.Color) domain.Result {
	switch winner {
	case "":
		return domain.ResultDraw
	case string(color):
		return domain.ResultWin
	default:
		return domain.ResultLoss
	}
}

var statusToTermination = map[string]domain.Termination{
	"mate":      domain.TerminationCheckmate,
	"resign":    domain.TerminationResignation,
	"outoftime": domain.TerminationTimeout,
	"stalemate": domain.TerminationStalemate,
	"draw":      domain.TerminationAgreement,
	"timeout":   domain.TerminationAbandoned,
	"aborted":   domain.TerminationAbandoned,
	"noStart":   domain.TerminationAbandoned,
}

func mapStatus(status string) domain.Termination {
	if t, ok := statusToTermination[status]; ok {
		return t
	}
	return domain.TerminationOther
}

// fullMoves counts full moves from the space-separated move list.
func fullMoves(moves string) int {
	if moves == "" {
		return 0
	}
	plies := len(strings.Fields(moves))
	return (plies + 1) / 2
}
