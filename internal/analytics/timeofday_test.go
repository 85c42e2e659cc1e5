package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

func gamesAtHour(hour, count int, result domain.Result) []domain.Game {
	games := make([]domain.Game, count)
	for i := range games {
		at := time.Date(2024, 3, 1+i, hour, 15, 0, 0, time.Local)
		games[i] = gameAt(at, result)
	}
	return games
}

func TestHourlyRecords(t *testing.T) {
	var games []domain.Game
	games = append(games, gamesAtHour(9, 2, domain.ResultWin)...)
	games = append(games, gamesAtHour(22, 1, domain.ResultLoss)...)

	records := HourlyRecords(games)

	require.Len(t, records, 24)
	assert.Equal(t, 2, records[9].Wins)
	assert.Equal(t, 1, records[22].Losses)
	assert.Zero(t, records[3].TotalGames)
}

func TestDayOfWeekRecords(t *testing.T) {
	// 2024-03-01 is a Friday.
	games := gamesAtHour(12, 1, domain.ResultWin)

	records := DayOfWeekRecords(games)

	require.Len(t, records, 7)
	assert.Equal(t, "Sunday", records[0].Day)
	assert.Equal(t, "Friday", records[5].Day)
	assert.Equal(t, 1, records[5].Wins)
}

func TestBestTimeWindow(t *testing.T) {
	var games []domain.Game
	games = append(games, gamesAtHour(13, 5, domain.ResultLoss)...)
	games = append(games, gamesAtHour(14, 10, domain.ResultWin)...)

	best, ok := BestTimeWindow(games, DefaultMinWindowSample)

	require.True(t, ok)
	assert.Equal(t, 14, best.StartHour)
	assert.Equal(t, 17, best.EndHour)
	assert.Equal(t, 10, best.Games)
	assert.InDelta(t, 100.0, best.WinRate, 0.001)
}

func TestWorstTimeWindow_TieKeepsEarliestStart(t *testing.T) {
	var games []domain.Game
	games = append(games, gamesAtHour(13, 5, domain.ResultLoss)...)
	games = append(games, gamesAtHour(14, 10, domain.ResultWin)...)

	// Windows starting at 12 and 13 both hold the same fifteen games.
	worst, ok := WorstTimeWindow(games, DefaultMinWindowSample)

	require.True(t, ok)
	assert.Equal(t, 12, worst.StartHour)
	assert.Equal(t, 15, worst.Games)
}

func TestTimeWindow_WrapsPastMidnight(t *testing.T) {
	var games []domain.Game
	games = append(games, gamesAtHour(23, 2, domain.ResultWin)...)
	games = append(games, gamesAtHour(0, 1, domain.ResultWin)...)
	games = append(games, gamesAtHour(1, 1, domain.ResultWin)...)

	best, ok := BestTimeWindow(games, 4)

	require.True(t, ok)
	assert.Equal(t, 23, best.StartHour)
	assert.Equal(t, 2, best.EndHour)
	assert.Equal(t, 4, best.Games)
}

func TestBestTimeWindow_InsufficientSample(t *testing.T) {
	games := gamesAtHour(14, 3, domain.ResultWin)

	_, ok := BestTimeWindow(games, DefaultMinWindowSample)

	assert.False(t, ok)
}
