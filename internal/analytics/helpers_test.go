package analytics

import (
	"time"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func gameAt(playedAt time.Time, result domain.Result) domain.Game {
	return domain.Game{
		Source:       domain.SourceChessCom,
		PlayedAt:     playedAt,
		TimeClass:    domain.TimeClassBlitz,
		PlayerColor:  domain.ColorWhite,
		Result:       result,
		Termination:  domain.TerminationResignation,
		Opening:      domain.Opening{ECO: "B20", Name: "Sicilian Defense"},
		Opponent:     domain.Opponent{Username: "rival", Rating: 1200},
		PlayerRating: 1250,
		MoveCount:    35,
		Rated:        true,
	}
}

// sequence builds games an hour apart, oldest first.
func sequence(results ...domain.Result) []domain.Game {
	games := make([]domain.Game, len(results))
	for i, r := range results {
		games[i] = gameAt(testEpoch.Add(time.Duration(i)*time.Hour), r)
	}
	return games
}

func analyzed(g domain.Game, blunders, mistakes int) domain.Game {
	at := g.PlayedAt.Add(time.Hour)
	g.Analysis = &domain.Analysis{
		Blunders:   blunders,
		Mistakes:   mistakes,
		AnalyzedAt: &at,
	}
	return g
}
