package analytics

import (
	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// Resilience measures how the player holds up under pressure, computed
// over games with engine analysis only.
type Resilience struct {
	AnalyzedGames  int `json:"analyzedGames"`
	AnalyzedWins   int `json:"analyzedWins"`
	AnalyzedLosses int `json:"analyzedLosses"`

	// ComebackWins are wins despite two or more blunders.
	ComebackWins int     `json:"comebackWins"`
	ComebackRate float64 `json:"comebackRate"`

	// BlownWins are losses despite having had a game the engine judged
	// roughly even or better until the blunders.
	BlownWins int     `json:"blownWins"`
	BlownRate float64 `json:"blownRate"`

	// CleanConversions are wins with no blunders and at most one mistake.
	CleanConversions int     `json:"cleanConversions"`
	CleanRate        float64 `json:"cleanRate"`

	// MentalScore folds the three rates into a 0-100 composite.
	MentalScore float64 `json:"mentalScore"`
}

const comebackBlunders = 2

// ResilienceOf computes comeback, blown-win and clean-conversion rates
// from the analyzed subset of games. With no analyzed games everything is
// zero.
func ResilienceOf(games []domain.Game) Resilience {
	var r Resilience
	for i := range games {
		g := &games[i]
		if !g.HasAnalysis() {
			continue
		}
		r.AnalyzedGames++
		switch g.Result {
		case domain.ResultWin:
			r.AnalyzedWins++
			if g.Analysis.Blunders >= comebackBlunders {
				r.ComebackWins++
			}
			if g.Analysis.Blunders == 0 && g.Analysis.Mistakes <= 1 {
				r.CleanConversions++
			}
		case domain.ResultLoss:
			r.AnalyzedLosses++
			if g.Analysis.Blunders >= comebackBlunders {
				r.BlownWins++
			}
		}
	}

	if r.AnalyzedWins > 0 {
		r.ComebackRate = 100 * float64(r.ComebackWins) / float64(r.AnalyzedWins)
		r.CleanRate = 100 * float64(r.CleanConversions) / float64(r.AnalyzedWins)
	}
	if r.AnalyzedLosses > 0 {
		r.BlownRate = 100 * float64(r.BlownWins) / float64(r.AnalyzedLosses)
	}

	if r.AnalyzedGames > 0 {
		score := 0.35*r.ComebackRate + 0.40*(100-r.BlownRate) + 0.25*r.CleanRate
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		r.MentalScore = score
	}
	return r
}
