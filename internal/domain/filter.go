package domain

import (
	"sort"
	"strings"
	"time"
)

// GameFilter is an immutable predicate set over canonical games. Every
// With- method returns a new value and never mutates its receiver, so
// filters can be shared and extended safely.
type GameFilter struct {
	startDate *time.Time
	endDate   *time.Time

	timeClasses  []TimeClass
	colors       []Color
	results      []Result
	openings     []string
	minOppRating int
	maxOppRating int
	hasOppRange  bool
	opponents    []string // lower-cased at construction
	terminations []Termination
	sources      []Source
	rated        *bool

	limit int
}

// NewGameFilter returns a filter that matches every game.
func NewGameFilter() GameFilter {
	return GameFilter{}
}

// WithDateRange restricts games to the inclusive [start, end] instant range.
func (f GameFilter) WithDateRange(start, end time.Time) GameFilter {
	s, e := start, end
	f.startDate = &s
	f.endDate = &e
	return f
}

// WithTimeClasses restricts games to the given time classes.
func (f GameFilter) WithTimeClasses(classes ...TimeClass) GameFilter {
	f.timeClasses = append([]TimeClass(nil), classes...)
	return f
}

// WithColors restricts games to those where the player held one of the colors.
func (f GameFilter) WithColors(colors ...Color) GameFilter {
	f.colors = append([]Color(nil), colors...)
	return f
}

// WithResults restricts games to the given outcomes.
func (f GameFilter) WithResults(results ...Result) GameFilter {
	f.results = append([]Result(nil), results...)
	return f
}

// WithOpenings restricts games to the given ECO codes.
func (f GameFilter) WithOpenings(ecoCodes ...string) GameFilter {
	f.openings = append([]string(nil), ecoCodes...)
	return f
}

// WithOpponentRating restricts games to opponents rated within [min, max].
func (f GameFilter) WithOpponentRating(min, max int) GameFilter {
	f.minOppRating = min
	f.maxOppRating = max
	f.hasOppRange = true
	return f
}

// WithOpponents restricts games to the given opponent usernames,
// case-insensitively.
func (f GameFilter) WithOpponents(usernames ...string) GameFilter {
	folded := make([]string, len(usernames))
	for i, u := range usernames {
		folded[i] = strings.ToLower(u)
	}
	f.opponents = folded
	return f
}

// WithTerminations restricts games to the given termination kinds.
func (f GameFilter) WithTerminations(terminations ...Termination) GameFilter {
	f.terminations = append([]Termination(nil), terminations...)
	return f
}

// WithSources restricts games to the given platforms.
func (f GameFilter) WithSources(sources ...Source) GameFilter {
	f.sources = append([]Source(nil), sources...)
	return f
}

// WithRated restricts games to rated (true) or casual (false) games.
func (f GameFilter) WithRated(rated bool) GameFilter {
	f.rated = &rated
	return f
}

// WithLimit caps the result to the n most recent games after all predicates
// have been applied. Zero means unlimited.
func (f GameFilter) WithLimit(n int) GameFilter {
	f.limit = n
	return f
}

// Apply returns the games matching every predicate. Predicates run in a
// fixed order; the limit is applied last, keeping the most recent games
// first. The input slice is never mutated.
func (f GameFilter) Apply(games []Game) []Game {
	out := make([]Game, 0, len(games))
	out = append(out, games...)

	out = keep(out, f.matchDateRange)
	out = keep(out, f.matchTimeClass)
	out = keep(out, f.matchColor)
	out = keep(out, f.matchResult)
	out = keep(out, f.matchOpening)
	out = keep(out, f.matchOpponentRating)
	out = keep(out, f.matchOpponent)
	out = keep(out, f.matchTermination)
	out = keep(out, f.matchSource)
	out = keep(out, f.matchRated)

	if f.limit > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PlayedAt.After(out[j].PlayedAt)
		})
		if len(out) > f.limit {
			out = out[:f.limit]
		}
	}

	return out
}

func keep(games []Game, match func(*Game) bool) []Game {
	out := games[:0]
	for i := range games {
		if match(&games[i]) {
			out = append(out, games[i])
		}
	}
	return out
}

func (f GameFilter) matchDateRange(g *Game) bool {
	if f.startDate != nil && g.PlayedAt.Before(*f.startDate) {
		return false
	}
	if f.endDate != nil && g.PlayedAt.After(*f.endDate) {
		return false
	}
	return true
}

func (f GameFilter) matchTimeClass(g *Game) bool {
	if len(f.timeClasses) == 0 {
		return true
	}
	for _, tc := range f.timeClasses {
		if g.TimeClass == tc {
			return true
		}
	}
	return false
}

func (f GameFilter) matchColor(g *Game) bool {
	if len(f.colors) == 0 {
		return true
	}
	for _, c := range f.colors {
		if g.PlayerColor == c {
			return true
		}
	}
	return false
}

func (f GameFilter) matchResult(g *Game) bool {
	if len(f.results) == 0 {
		return true
	}
	for _, r := range f.results {
		if g.Result == r {
			return true
		}
	}
	return false
}

func (f GameFilter) matchOpening(g *Game) bool {
	if len(f.openings) == 0 {
		return true
	}
	for _, eco := range f.openings {
		if g.Opening.ECO == eco {
			return true
		}
	}
	return false
}

func (f GameFilter) matchOpponentRating(g *Game) bool {
	if !f.hasOppRange {
		return true
	}
	return g.Opponent.Rating >= f.minOppRating && g.Opponent.Rating <= f.maxOppRating
}

func (f GameFilter) matchOpponent(g *Game) bool {
	if len(f.opponents) == 0 {
		return true
	}
	name := strings.ToLower(g.Opponent.Username)
	for _, u := range f.opponents {
		if name == u {
			return true
		}
	}
	return false
}

func (f GameFilter) matchTermination(g *Game) bool {
	if len(f.terminations) == 0 {
		return true
	}
	for _, t := range f.terminations {
		if g.Termination == t {
			return true
		}
	}
	return false
}

func (f GameFilter) matchSource(g *Game) bool {
	if len(f.sources) == 0 {
		return true
	}
	for _, s := range f.sources {
		if g.Source == s {
			return true
		}
	}
	return false
}

func (f GameFilter) matchRated(g *Game) bool {
	return f.rated == nil || g.Rated == *f.rated
}
