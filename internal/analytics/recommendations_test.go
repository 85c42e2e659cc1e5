package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

func TestRecommendations_RequiresMinimumGames(t *testing.T) {
	games := sequence(
		domain.ResultLoss, domain.ResultLoss, domain.ResultLoss,
		domain.ResultLoss, domain.ResultLoss,
	)

	assert.Nil(t, Recommendations(games))
}

func TestRecommendations_FlagsWeakOpening(t *testing.T) {
	var games []domain.Game
	games = append(games, gamesWithOpening("C50", "Italian Game",
		domain.ResultLoss, domain.ResultLoss, domain.ResultLoss, domain.ResultWin)...)
	games = append(games, gamesWithOpening("B20", "Sicilian Defense",
		domain.ResultWin, domain.ResultWin, domain.ResultWin,
		domain.ResultWin, domain.ResultWin, domain.ResultWin)...)

	recs := Recommendations(games)

	require.NotEmpty(t, recs)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, "openings", recs[0].Category)
	assert.Contains(t, recs[0].Title, "Italian Game")
}

func TestRecommendations_FlagsTimeoutLosses(t *testing.T) {
	games := sequence(
		domain.ResultWin, domain.ResultWin, domain.ResultWin,
		domain.ResultWin, domain.ResultWin, domain.ResultWin,
		domain.ResultLoss, domain.ResultLoss, domain.ResultLoss, domain.ResultLoss,
	)
	for i := 6; i < 9; i++ {
		games[i].Termination = domain.TerminationTimeout
	}
	// Avoid the lower-rated-opponent detector.
	for i := range games {
		games[i].Opponent.Rating = 1400
	}

	recs := Recommendations(games)

	var titles []string
	for _, r := range recs {
		titles = append(titles, r.Title)
	}
	assert.Contains(t, titles, "Stop losing on time")
}

func TestRecommendations_CappedAndPriorityOrdered(t *testing.T) {
	var games []domain.Game
	games = append(games, gamesWithOpening("C50", "Italian Game",
		domain.ResultLoss, domain.ResultLoss, domain.ResultLoss)...)
	games = append(games, gamesWithOpening("B12", "Caro-Kann Defense",
		domain.ResultLoss, domain.ResultLoss, domain.ResultLoss)...)
	games = append(games, gamesWithOpening("B20", "Sicilian Defense",
		domain.ResultWin, domain.ResultWin, domain.ResultWin, domain.ResultWin,
		domain.ResultLoss, domain.ResultLoss)...)

	// Stagger timestamps so every game is distinct.
	for i := range games {
		games[i].PlayedAt = testEpoch.Add(time.Duration(i) * time.Hour)
		if games[i].Result == domain.ResultLoss {
			games[i].Termination = domain.TerminationTimeout
		}
	}
	// Two analyzed losses with heavy blunders and one analyzed win.
	games[0] = analyzed(games[0], 3, 0)
	games[3] = analyzed(games[3], 3, 1)
	games[6] = analyzed(games[6], 0, 1)

	recs := Recommendations(games)

	require.Len(t, recs, MaxRecommendations)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t,
			priorityRank[recs[i-1].Priority], priorityRank[recs[i].Priority])
	}
	for _, r := range recs {
		assert.NotEqual(t, PriorityLow, r.Priority)
	}
}

func TestRecommendations_QuietForHealthyRecord(t *testing.T) {
	var games []domain.Game
	games = append(games, gamesWithOpening("B20", "Sicilian Defense",
		domain.ResultWin, domain.ResultWin, domain.ResultWin, domain.ResultWin,
		domain.ResultWin, domain.ResultWin, domain.ResultWin, domain.ResultWin,
		domain.ResultWin, domain.ResultLoss)...)
	for i := range games {
		games[i].Opponent.Rating = 1400
	}

	recs := Recommendations(games)

	for _, r := range recs {
		assert.NotEqual(t, PriorityHigh, r.Priority)
	}
}
