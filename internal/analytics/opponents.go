package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// OpponentRecord is the head-to-head record against a single opponent.
// Usernames are grouped case-insensitively; the stored casing is the one
// from the most recently played game.
type OpponentRecord struct {
	Username   string    `json:"username"`
	Games      int       `json:"games"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	Draws      int       `json:"draws"`
	WinRate    float64   `json:"winRate"`
	AvgRating  float64   `json:"avgRating"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// DefaultMinOpponentGames is the minimum number of encounters before an
// opponent qualifies as a nemesis or favorite.
const DefaultMinOpponentGames = 3

// OpponentRecords aggregates per-opponent records, most games first, with
// ties broken by most recent encounter.
func OpponentRecords(games []domain.Game) []OpponentRecord {
	type acc struct {
		rec       OpponentRecord
		ratingSum int
	}

	byKey := make(map[string]*acc)
	for i := range games {
		g := &games[i]
		key := strings.ToLower(g.Opponent.Username)
		a, ok := byKey[key]
		if !ok {
			a = &acc{rec: OpponentRecord{Username: g.Opponent.Username}}
			byKey[key] = a
		}
		a.rec.Games++
		a.ratingSum += g.Opponent.Rating
		switch g.Result {
		case domain.ResultWin:
			a.rec.Wins++
		case domain.ResultLoss:
			a.rec.Losses++
		default:
			a.rec.Draws++
		}
		if g.PlayedAt.After(a.rec.LastPlayed) {
			a.rec.LastPlayed = g.PlayedAt
			a.rec.Username = g.Opponent.Username
		}
	}

	records := make([]OpponentRecord, 0, len(byKey))
	for _, a := range byKey {
		a.rec.WinRate = winRate(a.rec.Wins, a.rec.Games)
		a.rec.AvgRating = float64(a.ratingSum) / float64(a.rec.Games)
		records = append(records, a.rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Games != records[j].Games {
			return records[i].Games > records[j].Games
		}
		return records[i].LastPlayed.After(records[j].LastPlayed)
	})
	return records
}

// Nemesis returns the opponent with the most losses among those with a
// negative record and at least minGames encounters. Ties go to the lower
// win rate. Returns false when nobody qualifies.
func Nemesis(records []OpponentRecord, minGames int) (OpponentRecord, bool) {
	var best OpponentRecord
	found := false
	for _, r := range records {
		if r.Games < minGames || r.Losses <= r.Wins {
			continue
		}
		if !found || r.Losses > best.Losses ||
			(r.Losses == best.Losses && r.WinRate < best.WinRate) {
			best = r
			found = true
		}
	}
	return best, found
}

// Favorite returns the opponent with the most wins among those with a
// positive record and at least minGames encounters. Ties go to the higher
// win rate.
func Favorite(records []OpponentRecord, minGames int) (OpponentRecord, bool) {
	var best OpponentRecord
	found := false
	for _, r := range records {
		if r.Games < minGames || r.Wins <= r.Losses {
			continue
		}
		if !found || r.Wins > best.Wins ||
			(r.Wins == best.Wins && r.WinRate > best.WinRate) {
			best = r
			found = true
		}
	}
	return best, found
}
