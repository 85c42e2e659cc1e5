package analytics

import (
	"sort"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// WinRatePoint is one month of the win-rate trend.
type WinRatePoint struct {
	Month   string  `json:"month"` // 2006-01
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}

// WinRateSeries groups games into local calendar months, oldest first.
// Months with no games are omitted rather than zero-filled.
func WinRateSeries(games []domain.Game) []WinRatePoint {
	byMonth := make(map[string]*WinRatePoint)
	var months []string

	for i := range games {
		month := games[i].PlayedAt.Local().Format("2006-01")
		p, ok := byMonth[month]
		if !ok {
			p = &WinRatePoint{Month: month}
			byMonth[month] = p
			months = append(months, month)
		}
		p.Games++
		if games[i].Result == domain.ResultWin {
			p.Wins++
		}
	}

	sort.Strings(months)
	points := make([]WinRatePoint, 0, len(months))
	for _, month := range months {
		p := byMonth[month]
		p.WinRate = winRate(p.Wins, p.Games)
		points = append(points, *p)
	}
	return points
}
