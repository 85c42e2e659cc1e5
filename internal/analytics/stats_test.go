package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

func TestSummarize(t *testing.T) {
	games := sequence(
		domain.ResultWin, domain.ResultWin, domain.ResultLoss, domain.ResultDraw,
	)

	s := Summarize(games)

	assert.Equal(t, 4, s.TotalGames)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Draws)
	assert.InDelta(t, 50.0, s.WinRate, 0.001)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalGames)
	assert.Zero(t, s.WinRate)
}

func TestCurrentStreak_CountsRunFromNewest(t *testing.T) {
	games := sequence(
		domain.ResultLoss, domain.ResultWin, domain.ResultWin, domain.ResultWin,
	)

	streak := CurrentStreakOf(games)

	assert.Equal(t, StreakWin, streak.Kind)
	assert.Equal(t, 3, streak.Count)
}

func TestCurrentStreak_SkipsLeadingDraws(t *testing.T) {
	games := sequence(
		domain.ResultLoss, domain.ResultLoss, domain.ResultDraw, domain.ResultDraw,
	)

	streak := CurrentStreakOf(games)

	assert.Equal(t, StreakLoss, streak.Kind)
	assert.Equal(t, 2, streak.Count)
}

func TestCurrentStreak_SingleGameIsNoStreak(t *testing.T) {
	games := sequence(domain.ResultLoss, domain.ResultWin)

	streak := CurrentStreakOf(games)

	assert.Equal(t, StreakNone, streak.Kind)
	assert.Zero(t, streak.Count)
}

func TestCurrentStreak_AllDraws(t *testing.T) {
	games := sequence(domain.ResultDraw, domain.ResultDraw, domain.ResultDraw)

	assert.Equal(t, StreakNone, CurrentStreakOf(games).Kind)
}

func TestLongestStreaks(t *testing.T) {
	games := sequence(
		domain.ResultWin, domain.ResultWin, domain.ResultLoss,
		domain.ResultWin, domain.ResultWin, domain.ResultWin, domain.ResultWin,
	)

	longest := LongestStreaksOf(games)

	assert.Equal(t, 4, longest.Wins)
	assert.Equal(t, 1, longest.Losses)
}

func TestLongestStreaks_DrawsAreTransparent(t *testing.T) {
	games := sequence(
		domain.ResultWin, domain.ResultWin, domain.ResultDraw, domain.ResultWin,
	)

	longest := LongestStreaksOf(games)

	assert.Equal(t, 3, longest.Wins)
}

func TestBuildUserStats(t *testing.T) {
	games := sequence(domain.ResultWin, domain.ResultLoss, domain.ResultWin)
	games[0].TimeClass = domain.TimeClassBullet
	games[0].Opponent.Rating = 1100
	games[1].Opponent.Rating = 1200
	games[2].Opponent.Rating = 1300
	games[1].Rated = false

	stats := BuildUserStats(games)

	assert.Equal(t, 3, stats.TotalGames)
	assert.Equal(t, 2, stats.RatedGames)
	assert.InDelta(t, 1200.0, stats.AvgOpponentRating, 0.001)

	require.Len(t, stats.ByTimeClass, 2)
	assert.Equal(t, domain.TimeClassBullet, stats.ByTimeClass[0].TimeClass)
	assert.Equal(t, 1, stats.ByTimeClass[0].TotalGames)
	assert.Equal(t, domain.TimeClassBlitz, stats.ByTimeClass[1].TimeClass)
	assert.Equal(t, 2, stats.ByTimeClass[1].TotalGames)
}
