package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

func gamesWithOpponentRatings(ratings ...int) []domain.Game {
	games := make([]domain.Game, len(ratings))
	for i, r := range ratings {
		games[i] = gameAt(testEpoch.Add(time.Duration(i)*time.Hour), domain.ResultWin)
		games[i].Opponent.Rating = r
	}
	return games
}

func TestBracketConfigFor(t *testing.T) {
	// Spread of 500 gives ceil(500/5)=100, already a round hundred.
	cfg := BracketConfigFor(gamesWithOpponentRatings(1000, 1250, 1500))

	assert.Equal(t, 100, cfg.Size)
	assert.Equal(t, 1000, cfg.Min)
	assert.Equal(t, 1500, cfg.Max)
}

func TestBracketConfigFor_RoundsToNearestHundred(t *testing.T) {
	// Spread of 1180 gives 236, which rounds to 200.
	cfg := BracketConfigFor(gamesWithOpponentRatings(820, 2000))

	assert.Equal(t, 200, cfg.Size)
	assert.Equal(t, 800, cfg.Min)
}

func TestBracketConfigFor_ClampsWidth(t *testing.T) {
	wide := BracketConfigFor(gamesWithOpponentRatings(500, 3500))
	assert.Equal(t, 400, wide.Size)

	narrow := BracketConfigFor(gamesWithOpponentRatings(1200, 1210))
	assert.Equal(t, 100, narrow.Size)
}

func TestBracketConfigFor_Empty(t *testing.T) {
	cfg := BracketConfigFor(nil)

	assert.Equal(t, BracketConfig{Min: 0, Max: 0, Size: 200}, cfg)
}

func TestRatingBrackets(t *testing.T) {
	games := gamesWithOpponentRatings(1000, 1050, 1150, 1499)
	games[2].Result = domain.ResultLoss

	cfg, brackets := RatingBrackets(games)

	assert.Equal(t, 100, cfg.Size)
	require.Len(t, brackets, 3)

	assert.Equal(t, 1000, brackets[0].Low)
	assert.Equal(t, 1100, brackets[0].High)
	assert.Equal(t, 2, brackets[0].TotalGames)

	assert.Equal(t, 1100, brackets[1].Low)
	assert.Equal(t, 1, brackets[1].Losses)

	assert.Equal(t, 1400, brackets[2].Low)
	assert.Equal(t, 1, brackets[2].Wins)
}
