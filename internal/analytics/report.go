package analytics

import (
	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// Report bundles every analytics view over one game set. Optional sections
// are pointers and stay nil when no candidate qualifies.
type Report struct {
	Stats UserStats `json:"stats"`

	BracketConfig BracketConfig   `json:"bracketConfig"`
	Brackets      []RatingBracket `json:"brackets,omitempty"`

	Openings     []OpeningRecord `json:"openings,omitempty"`
	BestOpening  *OpeningRecord  `json:"bestOpening,omitempty"`
	WorstOpening *OpeningRecord  `json:"worstOpening,omitempty"`

	Opponents []OpponentRecord `json:"opponents,omitempty"`
	Nemesis   *OpponentRecord  `json:"nemesis,omitempty"`
	Favorite  *OpponentRecord  `json:"favorite,omitempty"`

	Hourly          []HourlyRecord    `json:"hourly"`
	DaysOfWeek      []DayOfWeekRecord `json:"daysOfWeek"`
	BestTimeWindow  *TimeWindow       `json:"bestTimeWindow,omitempty"`
	WorstTimeWindow *TimeWindow       `json:"worstTimeWindow,omitempty"`

	Daily  []DailyRecord  `json:"daily,omitempty"`
	Series []WinRatePoint `json:"series,omitempty"`

	Terminations []TerminationRecord `json:"terminations,omitempty"`
	Phases       [3]PhaseErrors      `json:"phases"`
	Resilience   Resilience          `json:"resilience"`

	Recommendations []StudyRecommendation `json:"recommendations,omitempty"`
}

// BuildReport computes the full analytics report. Sparse input produces a
// report with zeroed sections rather than an error.
func BuildReport(games []domain.Game) *Report {
	r := &Report{
		Stats:           BuildUserStats(games),
		Openings:        OpeningRecords(games),
		Opponents:       OpponentRecords(games),
		Hourly:          HourlyRecords(games),
		DaysOfWeek:      DayOfWeekRecords(games),
		Daily:           DailyRecords(games),
		Series:          WinRateSeries(games),
		Terminations:    TerminationBreakdown(games),
		Phases:          PhaseBreakdown(games),
		Resilience:      ResilienceOf(games),
		Recommendations: Recommendations(games),
	}

	r.BracketConfig, r.Brackets = RatingBrackets(games)

	if best, ok := BestOpening(r.Openings, DefaultMinOpeningGames); ok {
		r.BestOpening = &best
	}
	if worst, ok := WorstOpening(r.Openings, DefaultMinOpeningGames); ok {
		r.WorstOpening = &worst
	}
	if nemesis, ok := Nemesis(r.Opponents, DefaultMinOpponentGames); ok {
		r.Nemesis = &nemesis
	}
	if favorite, ok := Favorite(r.Opponents, DefaultMinOpponentGames); ok {
		r.Favorite = &favorite
	}
	if best, ok := BestTimeWindow(games, DefaultMinWindowSample); ok {
		r.BestTimeWindow = &best
	}
	if worst, ok := WorstTimeWindow(games, DefaultMinWindowSample); ok {
		r.WorstTimeWindow = &worst
	}
	return r
}
