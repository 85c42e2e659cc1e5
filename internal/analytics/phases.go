package analytics

import (
	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// Phase is a segment of a chess game.
type Phase string

const (
	PhaseOpening    Phase = "opening"
	PhaseMiddlegame Phase = "middlegame"
	PhaseEndgame    Phase = "endgame"
)

// PhaseErrors is the estimated error load attributed to one phase across
// the analyzed games.
type PhaseErrors struct {
	Phase        Phase   `json:"phase"`
	Blunders     float64 `json:"blunders"`
	Mistakes     float64 `json:"mistakes"`
	Inaccuracies float64 `json:"inaccuracies"`
	Weighted     float64 `json:"weighted"`
}

// Engine analysis reports error totals per game, not per move, so errors
// are apportioned to phases by fixed weights chosen from the game's
// length. Short games are dominated by the opening, long games by the
// endgame. The result is an estimate, not a move-accurate accounting.
var phaseWeights = []struct {
	maxMoves int
	weights  [3]float64 // opening, middlegame, endgame
}{
	{20, [3]float64{0.45, 0.40, 0.15}},
	{40, [3]float64{0.25, 0.45, 0.30}},
	{1 << 30, [3]float64{0.15, 0.40, 0.45}},
}

const (
	blunderWeight    = 3
	mistakeWeight    = 2
	inaccuracyWeight = 1
)

// PhaseBreakdown distributes analyzed-game errors across phases and
// returns them in opening, middlegame, endgame order. Games without engine
// analysis are ignored; with none at all it returns zeroed records.
func PhaseBreakdown(games []domain.Game) [3]PhaseErrors {
	breakdown := [3]PhaseErrors{
		{Phase: PhaseOpening},
		{Phase: PhaseMiddlegame},
		{Phase: PhaseEndgame},
	}

	for i := range games {
		g := &games[i]
		if !g.HasAnalysis() {
			continue
		}
		weights := weightsForLength(g.MoveCount)
		for p := 0; p < 3; p++ {
			breakdown[p].Blunders += float64(g.Analysis.Blunders) * weights[p]
			breakdown[p].Mistakes += float64(g.Analysis.Mistakes) * weights[p]
			breakdown[p].Inaccuracies += float64(g.Analysis.Inaccuracies) * weights[p]
		}
	}

	for p := range breakdown {
		b := &breakdown[p]
		b.Weighted = b.Blunders*blunderWeight + b.Mistakes*mistakeWeight + b.Inaccuracies*inaccuracyWeight
	}
	return breakdown
}

// WeakestPhase returns the phase with the highest weighted error load.
// Returns false when no game has analysis attached.
func WeakestPhase(games []domain.Game) (PhaseErrors, bool) {
	breakdown := PhaseBreakdown(games)
	weakest := breakdown[0]
	any := false
	for _, b := range breakdown {
		if b.Weighted > 0 {
			any = true
		}
		if b.Weighted > weakest.Weighted {
			weakest = b
		}
	}
	return weakest, any
}

func weightsForLength(moves int) [3]float64 {
	for _, tier := range phaseWeights {
		if moves <= tier.maxMoves {
			return tier.weights
		}
	}
	return phaseWeights[len(phaseWeights)-1].weights
}
