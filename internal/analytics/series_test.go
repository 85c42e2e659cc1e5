package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

func TestWinRateSeries(t *testing.T) {
	games := []domain.Game{
		gameAt(time.Date(2024, 1, 5, 12, 0, 0, 0, time.Local), domain.ResultWin),
		gameAt(time.Date(2024, 1, 20, 12, 0, 0, 0, time.Local), domain.ResultLoss),
		gameAt(time.Date(2024, 3, 2, 12, 0, 0, 0, time.Local), domain.ResultWin),
	}

	points := WinRateSeries(games)

	require.Len(t, points, 2)
	assert.Equal(t, "2024-01", points[0].Month)
	assert.Equal(t, 2, points[0].Games)
	assert.InDelta(t, 50.0, points[0].WinRate, 0.001)
	assert.Equal(t, "2024-03", points[1].Month)
	assert.InDelta(t, 100.0, points[1].WinRate, 0.001)
}

func TestWinRateSeries_Empty(t *testing.T) {
	assert.Empty(t, WinRateSeries(nil))
}

func TestTerminationBreakdown(t *testing.T) {
	games := sequence(domain.ResultWin, domain.ResultLoss, domain.ResultLoss, domain.ResultDraw)
	games[0].Termination = domain.TerminationCheckmate
	games[1].Termination = domain.TerminationTimeout
	games[2].Termination = domain.TerminationTimeout
	games[3].Termination = domain.TerminationStalemate

	records := TerminationBreakdown(games)

	require.Len(t, records, 3)
	assert.Equal(t, domain.TerminationTimeout, records[0].Termination)
	assert.Equal(t, 2, records[0].Games)
	assert.Equal(t, 2, records[0].Losses)

	for _, rec := range records {
		if rec.Termination == domain.TerminationStalemate {
			assert.Zero(t, rec.Wins)
			assert.Zero(t, rec.Losses)
		}
	}
}
