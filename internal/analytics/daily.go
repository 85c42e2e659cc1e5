package analytics

import (
	"sort"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// DailyRecord is one local calendar day of play.
type DailyRecord struct {
	Date    string  `json:"date"` // 2006-01-02
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	WinRate float64 `json:"winRate"`
	Tilt    bool    `json:"tilt"`
}

// tiltRunLength is the number of consecutive losses within a single day
// that flags the day as a tilt session.
const tiltRunLength = 3

// DailyRecords groups games by local calendar day, oldest day first. A day
// is flagged as tilt when it contains a run of three or more consecutive
// losses in playing order.
func DailyRecords(games []domain.Game) []DailyRecord {
	ordered := chronological(games)

	byDate := make(map[string]*DailyRecord)
	lossRun := make(map[string]int)
	var dates []string

	for i := range ordered {
		g := &ordered[i]
		date := g.PlayedAt.Local().Format("2006-01-02")
		rec, ok := byDate[date]
		if !ok {
			rec = &DailyRecord{Date: date}
			byDate[date] = rec
			dates = append(dates, date)
		}
		rec.Games++
		switch g.Result {
		case domain.ResultWin:
			rec.Wins++
			lossRun[date] = 0
		case domain.ResultLoss:
			rec.Losses++
			lossRun[date]++
			if lossRun[date] >= tiltRunLength {
				rec.Tilt = true
			}
		default:
			rec.Draws++
			lossRun[date] = 0
		}
	}

	sort.Strings(dates)
	records := make([]DailyRecord, 0, len(dates))
	for _, date := range dates {
		rec := byDate[date]
		rec.WinRate = winRate(rec.Wins, rec.Games)
		records = append(records, *rec)
	}
	return records
}

// TiltDays returns only the days flagged as tilt sessions, oldest first.
func TiltDays(games []domain.Game) []DailyRecord {
	var tilted []DailyRecord
	for _, rec := range DailyRecords(games) {
		if rec.Tilt {
			tilted = append(tilted, rec)
		}
	}
	return tilted
}
