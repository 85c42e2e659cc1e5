package analytics

import (
	"sort"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// OpeningRecord is the record with a single opening, grouped by ECO code.
type OpeningRecord struct {
	ECO     string  `json:"eco"`
	Name    string  `json:"name"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	WinRate float64 `json:"winRate"`
}

// DefaultMinOpeningGames is the minimum sample before an opening counts
// toward best/worst selection.
const DefaultMinOpeningGames = 3

// genericECOs are catch-all codes that name a first move rather than a real
// opening. They are excluded from best/worst selection along with games
// whose opening could not be identified at all.
var genericECOs = map[string]bool{
	"A00": true,
	"A40": true,
	"B00": true,
	"C00": true,
	"D00": true,
	"E00": true,
}

// OpeningRecords aggregates per-opening records, most played first. Games
// with an unidentified opening are grouped under the unknown code.
func OpeningRecords(games []domain.Game) []OpeningRecord {
	byECO := make(map[string]*OpeningRecord)
	for i := range games {
		g := &games[i]
		rec, ok := byECO[g.Opening.ECO]
		if !ok {
			rec = &OpeningRecord{ECO: g.Opening.ECO, Name: g.Opening.Name}
			byECO[g.Opening.ECO] = rec
		}
		rec.Games++
		switch g.Result {
		case domain.ResultWin:
			rec.Wins++
		case domain.ResultLoss:
			rec.Losses++
		default:
			rec.Draws++
		}
	}

	records := make([]OpeningRecord, 0, len(byECO))
	for _, rec := range byECO {
		rec.WinRate = winRate(rec.Wins, rec.Games)
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Games != records[j].Games {
			return records[i].Games > records[j].Games
		}
		return records[i].ECO < records[j].ECO
	})
	return records
}

// BestOpening returns the qualifying opening with the highest win rate.
// Ties go to the larger sample.
func BestOpening(records []OpeningRecord, minGames int) (OpeningRecord, bool) {
	var best OpeningRecord
	found := false
	for _, r := range records {
		if !qualifies(r, minGames) {
			continue
		}
		if !found || r.WinRate > best.WinRate ||
			(r.WinRate == best.WinRate && r.Games > best.Games) {
			best = r
			found = true
		}
	}
	return best, found
}

// WorstOpening returns the qualifying opening with the lowest win rate.
// Ties go to the larger sample.
func WorstOpening(records []OpeningRecord, minGames int) (OpeningRecord, bool) {
	var worst OpeningRecord
	found := false
	for _, r := range records {
		if !qualifies(r, minGames) {
			continue
		}
		if !found || r.WinRate < worst.WinRate ||
			(r.WinRate == worst.WinRate && r.Games > worst.Games) {
			worst = r
			found = true
		}
	}
	return worst, found
}

func qualifies(r OpeningRecord, minGames int) bool {
	return r.Games >= minGames && r.ECO != domain.UnknownECO && !genericECOs[r.ECO]
}
