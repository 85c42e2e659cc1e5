package chesscom

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

var (
	ecoTagRe     = regexp.MustCompile(`\[ECO "([^"]+)"\]`)
	ecoURLTagRe  = regexp.MustCompile(`\[ECOUrl "[^"]*/openings/([^"]+)"\]`)
	openingTagRe = regexp.MustCompile(`\[Opening "([^"]+)"\]`)
	moveMarkerRe = regexp.MustCompile(`(?:^|\s)(\d+)\.`)
)

// parseOpening extracts the ECO code and opening name from the embedded PGN
// tag pairs. Chess.com encodes the human-readable name in the ECOUrl slug;
// some months additionally carry an Opening tag. Missing metadata falls back
// to the documented unknowns.
func parseOpening(pgn string) domain.Opening {
	opening := domain.Opening{ECO: domain.UnknownECO, Name: domain.UnknownOpeningName}

	if m := ecoTagRe.FindStringSubmatch(pgn); m != nil {
		opening.ECO = m[1]
	}
	if m := openingTagRe.FindStringSubmatch(pgn); m != nil {
		opening.Name = m[1]
	} else if m := ecoURLTagRe.FindStringSubmatch(pgn); m != nil {
		opening.Name = slugToName(m[1])
	}

	return opening
}

// slugToName turns an ECOUrl path segment like
// "Sicilian-Defense-Najdorf-Variation" into "Sicilian Defense Najdorf Variation".
func slugToName(slug string) string {
	name := strings.ReplaceAll(slug, "-", " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.UnknownOpeningName
	}
	return name
}

// parseMoveCount returns the highest numbered move marker in the PGN
// movetext, or 0 when no moves were recorded.
func parseMoveCount(pgn string) int {
	max := 0
	for _, m := range moveMarkerRe.FindAllStringSubmatch(pgn, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// parseTimeControl decodes the Chess.com time_control field: "600+5" is
// base seconds plus increment, "600" has no increment, and daily games use
// "1/86400" (seconds allowed per move).
func parseTimeControl(tc string) *domain.Clock {
	if tc == "" {
		return nil
	}

	if base, per, ok := strings.Cut(tc, "/"); ok {
		_ = base
		secs, err := strconv.Atoi(per)
		if err != nil {
			return nil
		}
		return &domain.Clock{InitialTime: secs}
	}

	initial, increment, _ := strings.Cut(tc, "+")
	secs, err := strconv.Atoi(initial)
	if err != nil {
		return nil
	}
	clock := &domain.Clock{InitialTime: secs}
	if increment != "" {
		if inc, err := strconv.Atoi(increment); err == nil {
			clock.Increment = inc
		}
	}
	return clock
}
