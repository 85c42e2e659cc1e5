// Package analytics derives performance statistics and study heuristics
// from an in-memory collection of canonical game records.
//
// Every function is pure and synchronous: no I/O, no stored state, and
// zero-valued or empty defaults for empty or sparse input instead of
// errors. Many games lack clock or analysis enrichments; every computation
// here tolerates that.
package analytics

import (
	"sort"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// Summary is the basic win/loss/draw breakdown of a set of games.
type Summary struct {
	TotalGames int     `json:"totalGames"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"winRate"` // percentage, 0 when no games
}

// TimeClassRecord is a Summary scoped to one time class.
type TimeClassRecord struct {
	TimeClass domain.TimeClass `json:"timeClass"`
	Summary
}

// UserStats is the headline aggregate handed to the presentation layer.
type UserStats struct {
	Summary
	RatedGames        int               `json:"ratedGames"`
	AvgOpponentRating float64           `json:"avgOpponentRating"`
	CurrentStreak     CurrentStreak     `json:"currentStreak"`
	LongestWinStreak  int               `json:"longestWinStreak"`
	LongestLossStreak int               `json:"longestLossStreak"`
	ByTimeClass       []TimeClassRecord `json:"byTimeClass"`
}

// Summarize computes the basic breakdown. Win rate is wins/total*100 and 0
// for an empty input.
func Summarize(games []domain.Game) Summary {
	s := Summary{TotalGames: len(games)}
	for i := range games {
		switch games[i].Result {
		case domain.ResultWin:
			s.Wins++
		case domain.ResultLoss:
			s.Losses++
		default:
			s.Draws++
		}
	}
	s.WinRate = winRate(s.Wins, s.TotalGames)
	return s
}

// BuildUserStats composes the headline aggregate.
func BuildUserStats(games []domain.Game) UserStats {
	stats := UserStats{Summary: Summarize(games)}

	var ratingSum int
	for i := range games {
		if games[i].Rated {
			stats.RatedGames++
		}
		ratingSum += games[i].Opponent.Rating
	}
	if len(games) > 0 {
		stats.AvgOpponentRating = float64(ratingSum) / float64(len(games))
	}

	stats.CurrentStreak = CurrentStreakOf(games)
	longest := LongestStreaksOf(games)
	stats.LongestWinStreak = longest.Wins
	stats.LongestLossStreak = longest.Losses

	byClass := make(map[domain.TimeClass][]domain.Game)
	for i := range games {
		byClass[games[i].TimeClass] = append(byClass[games[i].TimeClass], games[i])
	}
	for _, tc := range []domain.TimeClass{
		domain.TimeClassBullet, domain.TimeClassBlitz,
		domain.TimeClassRapid, domain.TimeClassClassical,
	} {
		if scoped, ok := byClass[tc]; ok {
			stats.ByTimeClass = append(stats.ByTimeClass, TimeClassRecord{
				TimeClass: tc,
				Summary:   Summarize(scoped),
			})
		}
	}

	return stats
}

func winRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// chronological returns a copy of games sorted oldest first. Analytics
// never rely on (or disturb) the caller's ordering.
func chronological(games []domain.Game) []domain.Game {
	out := append([]domain.Game(nil), games...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayedAt.Before(out[j].PlayedAt)
	})
	return out
}

// newestFirst returns a copy of games sorted most recent first.
func newestFirst(games []domain.Game) []domain.Game {
	out := append([]domain.Game(nil), games...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayedAt.After(out[j].PlayedAt)
	})
	return out
}
