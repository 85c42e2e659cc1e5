package analytics

import (
	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// HourlyRecord is the record for games started during one local hour.
type HourlyRecord struct {
	Hour int `json:"hour"`
	Summary
}

// DayOfWeekRecord is the record for one day of the week, Sunday first.
type DayOfWeekRecord struct {
	Day string `json:"day"`
	Summary
}

// TimeWindow is a three-hour span of local start hours. Windows wrap past
// midnight, so StartHour 23 covers 23:00 through 01:59.
type TimeWindow struct {
	StartHour int     `json:"startHour"`
	EndHour   int     `json:"endHour"` // exclusive
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
	WinRate   float64 `json:"winRate"`
}

const (
	timeWindowHours = 3

	// DefaultMinWindowSample is the minimum number of games a window needs
	// before it can be reported as a best or worst time to play.
	DefaultMinWindowSample = 10
)

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// HourlyRecords summarizes games by local hour of day, 24 entries, hours
// with no games included with zero counts.
func HourlyRecords(games []domain.Game) []HourlyRecord {
	buckets := make([][]domain.Game, 24)
	for i := range games {
		h := games[i].PlayedAt.Local().Hour()
		buckets[h] = append(buckets[h], games[i])
	}
	records := make([]HourlyRecord, 24)
	for h := range buckets {
		records[h] = HourlyRecord{Hour: h, Summary: Summarize(buckets[h])}
	}
	return records
}

// DayOfWeekRecords summarizes games by local day of week, Sunday first.
func DayOfWeekRecords(games []domain.Game) []DayOfWeekRecord {
	buckets := make([][]domain.Game, 7)
	for i := range games {
		d := games[i].PlayedAt.Local().Weekday()
		buckets[d] = append(buckets[d], games[i])
	}
	records := make([]DayOfWeekRecord, 7)
	for d := range buckets {
		records[d] = DayOfWeekRecord{Day: dayNames[d], Summary: Summarize(buckets[d])}
	}
	return records
}

// BestTimeWindow returns the three-hour window with the highest win rate
// among windows with at least minSample games. Candidate windows start at
// every hour; on equal win rates the earliest start hour wins.
func BestTimeWindow(games []domain.Game, minSample int) (TimeWindow, bool) {
	windows := timeWindows(games)
	var best TimeWindow
	found := false
	for _, w := range windows {
		if w.Games < minSample {
			continue
		}
		if !found || w.WinRate > best.WinRate {
			best = w
			found = true
		}
	}
	return best, found
}

// WorstTimeWindow is the counterpart of BestTimeWindow for the lowest win
// rate.
func WorstTimeWindow(games []domain.Game, minSample int) (TimeWindow, bool) {
	windows := timeWindows(games)
	var worst TimeWindow
	found := false
	for _, w := range windows {
		if w.Games < minSample {
			continue
		}
		if !found || w.WinRate < worst.WinRate {
			worst = w
			found = true
		}
	}
	return worst, found
}

func timeWindows(games []domain.Game) [24]TimeWindow {
	var hourGames, hourWins [24]int
	for i := range games {
		h := games[i].PlayedAt.Local().Hour()
		hourGames[h]++
		if games[i].Result == domain.ResultWin {
			hourWins[h]++
		}
	}

	var windows [24]TimeWindow
	for start := 0; start < 24; start++ {
		w := TimeWindow{StartHour: start, EndHour: (start + timeWindowHours) % 24}
		for off := 0; off < timeWindowHours; off++ {
			h := (start + off) % 24
			w.Games += hourGames[h]
			w.Wins += hourWins[h]
		}
		w.WinRate = winRate(w.Wins, w.Games)
		windows[start] = w
	}
	return windows
}
