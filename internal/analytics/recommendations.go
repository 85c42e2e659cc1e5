package analytics

import (
	"fmt"
	"sort"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// Priority orders study recommendations by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// StudyRecommendation is one actionable suggestion derived from the
// player's record.
type StudyRecommendation struct {
	Priority Priority `json:"priority"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
}

const (
	// MinGamesForRecommendations is the sample size below which no
	// recommendations are produced at all.
	MinGamesForRecommendations = 10

	// MaxRecommendations caps the returned list.
	MaxRecommendations = 6

	weakOpeningWinRate  = 40.0
	timeoutLossCritical = 0.25
	blownWinCritical    = 30.0
)

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Recommendations inspects the full game set and returns at most
// MaxRecommendations suggestions, highest priority first. Detectors run in
// a fixed order and the sort is stable, so equal-priority items keep that
// order. Fewer than MinGamesForRecommendations games yields nil.
func Recommendations(games []domain.Game) []StudyRecommendation {
	if len(games) < MinGamesForRecommendations {
		return nil
	}

	var recs []StudyRecommendation
	recs = append(recs, weakOpeningRecs(games)...)
	recs = append(recs, timeManagementRecs(games)...)
	recs = append(recs, phaseRecs(games)...)
	recs = append(recs, resilienceRecs(games)...)
	recs = append(recs, ratingRecs(games)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

// weakOpeningRecs flags up to two openings scoring under 40% with a real
// sample, worst first.
func weakOpeningRecs(games []domain.Game) []StudyRecommendation {
	records := OpeningRecords(games)

	var weak []OpeningRecord
	for _, r := range records {
		if qualifies(r, DefaultMinOpeningGames) && r.WinRate < weakOpeningWinRate {
			weak = append(weak, r)
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].WinRate != weak[j].WinRate {
			return weak[i].WinRate < weak[j].WinRate
		}
		return weak[i].Games > weak[j].Games
	})
	if len(weak) > 2 {
		weak = weak[:2]
	}

	recs := make([]StudyRecommendation, 0, len(weak))
	for _, r := range weak {
		recs = append(recs, StudyRecommendation{
			Priority: PriorityHigh,
			Category: "openings",
			Title:    fmt.Sprintf("Review the %s", r.Name),
			Detail: fmt.Sprintf("You score %.0f%% over %d games with the %s (%s). Study its main lines or switch to a different opening.",
				r.WinRate, r.Games, r.Name, r.ECO),
		})
	}
	return recs
}

func timeManagementRecs(games []domain.Game) []StudyRecommendation {
	var recs []StudyRecommendation

	share, losses := timeoutLossShare(games)
	if losses > 0 && share > timeoutLossCritical {
		recs = append(recs, StudyRecommendation{
			Priority: PriorityHigh,
			Category: "time management",
			Title:    "Stop losing on time",
			Detail: fmt.Sprintf("%.0f%% of your losses are timeouts. Practice faster decision making or pick slower time controls.",
				share*100),
		})
	}

	if tc, tcShare, ok := worstTimeoutClass(games); ok {
		recs = append(recs, StudyRecommendation{
			Priority: PriorityMedium,
			Category: "time management",
			Title:    fmt.Sprintf("Watch the clock in %s", tc),
			Detail: fmt.Sprintf("%s is your most timeout-prone time control, with %.0f%% of its losses on time.",
				tc, tcShare*100),
		})
	}
	return recs
}

// worstTimeoutClass finds the time control whose losses most often come on
// time, ignoring controls without timeout losses.
func worstTimeoutClass(games []domain.Game) (domain.TimeClass, float64, bool) {
	byClass := make(map[domain.TimeClass][]domain.Game)
	for i := range games {
		tc := games[i].TimeClass
		byClass[tc] = append(byClass[tc], games[i])
	}

	classes := make([]domain.TimeClass, 0, len(byClass))
	for tc := range byClass {
		classes = append(classes, tc)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	var worst domain.TimeClass
	worstShare := 0.0
	found := false
	for _, tc := range classes {
		share, losses := timeoutLossShare(byClass[tc])
		if losses == 0 || share == 0 {
			continue
		}
		if !found || share > worstShare {
			worst, worstShare, found = tc, share, true
		}
	}
	return worst, worstShare, found
}

func phaseRecs(games []domain.Game) []StudyRecommendation {
	weakest, ok := WeakestPhase(games)
	if !ok {
		return nil
	}
	return []StudyRecommendation{{
		Priority: PriorityMedium,
		Category: "phases",
		Title:    fmt.Sprintf("Sharpen your %s play", weakest.Phase),
		Detail: fmt.Sprintf("Engine analysis places most of your errors in the %s (%.0f blunders, %.0f mistakes across analyzed games).",
			weakest.Phase, weakest.Blunders, weakest.Mistakes),
	}}
}

func resilienceRecs(games []domain.Game) []StudyRecommendation {
	r := ResilienceOf(games)
	if r.AnalyzedLosses == 0 || r.BlownRate <= blownWinCritical {
		return nil
	}
	return []StudyRecommendation{{
		Priority: PriorityMedium,
		Category: "resilience",
		Title:    "Convert your winning positions",
		Detail: fmt.Sprintf("%.0f%% of your analyzed losses came after heavy blunders. Slow down when ahead and double-check forcing moves.",
			r.BlownRate),
	}}
}

// ratingRecs flags underperformance against lower-rated opposition, a sign
// of lapses in routine positions rather than a skill gap.
func ratingRecs(games []domain.Game) []StudyRecommendation {
	var lower []domain.Game
	for i := range games {
		if games[i].Opponent.Rating < games[i].PlayerRating {
			lower = append(lower, games[i])
		}
	}
	if len(lower) < DefaultMinOpeningGames {
		return nil
	}
	s := Summarize(lower)
	if s.WinRate >= 50 {
		return nil
	}
	return []StudyRecommendation{{
		Priority: PriorityLow,
		Category: "consistency",
		Title:    "Take lower-rated opponents seriously",
		Detail: fmt.Sprintf("You score only %.0f%% against lower-rated players over %d games. Tighten up in positions you should win on rating.",
			s.WinRate, s.TotalGames),
	}}
}
