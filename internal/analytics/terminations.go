package analytics

import (
	"sort"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// TerminationRecord counts how often games end a particular way, split by
// whether the player won or lost them.
type TerminationRecord struct {
	Termination domain.Termination `json:"termination"`
	Games       int                `json:"games"`
	Wins        int                `json:"wins"`
	Losses      int                `json:"losses"`
}

// TerminationBreakdown aggregates games by termination, most frequent
// first.
func TerminationBreakdown(games []domain.Game) []TerminationRecord {
	byTerm := make(map[domain.Termination]*TerminationRecord)
	for i := range games {
		g := &games[i]
		rec, ok := byTerm[g.Termination]
		if !ok {
			rec = &TerminationRecord{Termination: g.Termination}
			byTerm[g.Termination] = rec
		}
		rec.Games++
		switch g.Result {
		case domain.ResultWin:
			rec.Wins++
		case domain.ResultLoss:
			rec.Losses++
		}
	}

	records := make([]TerminationRecord, 0, len(byTerm))
	for _, rec := range byTerm {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Games != records[j].Games {
			return records[i].Games > records[j].Games
		}
		return records[i].Termination < records[j].Termination
	})
	return records
}

// timeoutLossShare is the fraction of all losses that were lost on time.
func timeoutLossShare(games []domain.Game) (share float64, losses int) {
	timeouts := 0
	for i := range games {
		if games[i].Result != domain.ResultLoss {
			continue
		}
		losses++
		if games[i].Termination == domain.TerminationTimeout {
			timeouts++
		}
	}
	if losses == 0 {
		return 0, 0
	}
	return float64(timeouts) / float64(losses), losses
}
