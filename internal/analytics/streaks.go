package analytics

import "github.com/atelic/chess-dashboard-sub001/internal/domain"

// StreakKind classifies a run of identical results.
type StreakKind string

const (
	StreakNone StreakKind = "none"
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

// CurrentStreak is the run of identical results the player is on right now.
type CurrentStreak struct {
	Kind  StreakKind `json:"kind"`
	Count int        `json:"count"`
}

// LongestStreaks are the longest win and loss runs over the whole history.
type LongestStreaks struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// CurrentStreakOf walks from the most recent game backward, skips any
// leading draws, then counts consecutive identical non-draw results. A run
// shorter than two games is reported as no streak.
func CurrentStreakOf(games []domain.Game) CurrentStreak {
	recent := newestFirst(games)

	i := 0
	for i < len(recent) && recent[i].Result == domain.ResultDraw {
		i++
	}
	if i == len(recent) {
		return CurrentStreak{Kind: StreakNone}
	}

	run := recent[i].Result
	count := 0
	for ; i < len(recent) && recent[i].Result == run; i++ {
		count++
	}

	if count < 2 {
		return CurrentStreak{Kind: StreakNone}
	}
	kind := StreakWin
	if run == domain.ResultLoss {
		kind = StreakLoss
	}
	return CurrentStreak{Kind: kind, Count: count}
}

// LongestStreaksOf walks the history chronologically. Draws are transparent:
// they neither extend nor break an in-progress win or loss run, so
// W W D W is a four-game window holding a three-win streak.
func LongestStreaksOf(games []domain.Game) LongestStreaks {
	ordered := chronological(games)

	var longest LongestStreaks
	var runKind domain.Result
	runLen := 0

	for i := range ordered {
		switch ordered[i].Result {
		case domain.ResultDraw:
			// transparent
		case runKind:
			runLen++
		default:
			runKind = ordered[i].Result
			runLen = 1
		}

		switch runKind {
		case domain.ResultWin:
			if runLen > longest.Wins {
				longest.Wins = runLen
			}
		case domain.ResultLoss:
			if runLen > longest.Losses {
				longest.Losses = runLen
			}
		}
	}

	return longest
}
