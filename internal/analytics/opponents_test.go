package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

func gamesAgainst(results map[string][]domain.Result) []domain.Game {
	var games []domain.Game
	i := 0
	for username, rs := range results {
		for _, r := range rs {
			g := gameAt(testEpoch.Add(time.Duration(i)*time.Hour), r)
			g.Opponent.Username = username
			games = append(games, g)
			i++
		}
	}
	return games
}

func TestOpponentRecords_GroupsCaseInsensitively(t *testing.T) {
	g1 := gameAt(testEpoch, domain.ResultWin)
	g1.Opponent.Username = "Hikaru"
	g2 := gameAt(testEpoch.Add(time.Hour), domain.ResultLoss)
	g2.Opponent.Username = "hikaru"

	records := OpponentRecords([]domain.Game{g1, g2})

	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Games)
	assert.Equal(t, 1, records[0].Wins)
	assert.Equal(t, 1, records[0].Losses)
	// Display casing follows the most recent game.
	assert.Equal(t, "hikaru", records[0].Username)
}

func TestOpponentRecords_SortedByGamesPlayed(t *testing.T) {
	games := gamesAgainst(map[string][]domain.Result{
		"alice": {domain.ResultWin},
		"bob":   {domain.ResultWin, domain.ResultLoss, domain.ResultDraw},
	})

	records := OpponentRecords(games)

	require.Len(t, records, 2)
	assert.Equal(t, "bob", records[0].Username)
	assert.Equal(t, 3, records[0].Games)
}

func TestNemesis(t *testing.T) {
	games := gamesAgainst(map[string][]domain.Result{
		"tough": {domain.ResultLoss, domain.ResultLoss, domain.ResultLoss, domain.ResultWin},
		"even":  {domain.ResultWin, domain.ResultLoss, domain.ResultWin},
		"rare":  {domain.ResultLoss},
	})

	nemesis, ok := Nemesis(OpponentRecords(games), DefaultMinOpponentGames)

	require.True(t, ok)
	assert.Equal(t, "tough", nemesis.Username)
	assert.Equal(t, 3, nemesis.Losses)
}

func TestNemesis_NoneWithoutNegativeRecord(t *testing.T) {
	games := gamesAgainst(map[string][]domain.Result{
		"friendly": {domain.ResultWin, domain.ResultWin, domain.ResultLoss},
	})

	_, ok := Nemesis(OpponentRecords(games), DefaultMinOpponentGames)

	assert.False(t, ok)
}

func TestFavorite(t *testing.T) {
	games := gamesAgainst(map[string][]domain.Result{
		"easy": {domain.ResultWin, domain.ResultWin, domain.ResultWin, domain.ResultLoss},
	})

	favorite, ok := Favorite(OpponentRecords(games), DefaultMinOpponentGames)

	require.True(t, ok)
	assert.Equal(t, "easy", favorite.Username)
	assert.Equal(t, 3, favorite.Wins)
}
