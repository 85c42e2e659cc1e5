package analytics

import (
	"math"
	"sort"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// BracketConfig describes how opponent ratings are bucketed. The size is
// derived from the observed spread so roughly five buckets cover it.
type BracketConfig struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Size int `json:"size"`
}

// RatingBracket is the player's record against opponents in one bucket.
type RatingBracket struct {
	Low  int `json:"low"`  // inclusive
	High int `json:"high"` // exclusive
	Summary
}

const (
	minBracketSize     = 100
	maxBracketSize     = 400
	defaultBracketSize = 200
	targetBracketCount = 5
)

// BracketConfigFor derives the bucket layout from the opponent-rating
// spread: width = ceil(range/5) rounded to the nearest hundred, clamped to
// [100, 400]; the bucket origin is the largest multiple of the width not
// exceeding the minimum rating. With no games it returns the fixed default.
func BracketConfigFor(games []domain.Game) BracketConfig {
	if len(games) == 0 {
		return BracketConfig{Min: 0, Max: 0, Size: defaultBracketSize}
	}

	min, max := games[0].Opponent.Rating, games[0].Opponent.Rating
	for i := range games {
		r := games[i].Opponent.Rating
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}

	raw := int(math.Ceil(float64(max-min) / targetBracketCount))
	size := int(math.Round(float64(raw)/100)) * 100
	if size < minBracketSize {
		size = minBracketSize
	}
	if size > maxBracketSize {
		size = maxBracketSize
	}

	origin := (min / size) * size
	return BracketConfig{Min: origin, Max: max, Size: size}
}

// RatingBrackets buckets games by opponent rating and summarizes each
// non-empty bucket, ascending by rating.
func RatingBrackets(games []domain.Game) (BracketConfig, []RatingBracket) {
	cfg := BracketConfigFor(games)
	if len(games) == 0 {
		return cfg, nil
	}

	byBucket := make(map[int][]domain.Game)
	for i := range games {
		low := cfg.Min + ((games[i].Opponent.Rating-cfg.Min)/cfg.Size)*cfg.Size
		byBucket[low] = append(byBucket[low], games[i])
	}

	lows := make([]int, 0, len(byBucket))
	for low := range byBucket {
		lows = append(lows, low)
	}
	sort.Ints(lows)

	brackets := make([]RatingBracket, 0, len(lows))
	for _, low := range lows {
		brackets = append(brackets, RatingBracket{
			Low:     low,
			High:    low + cfg.Size,
			Summary: Summarize(byBucket[low]),
		})
	}
	return cfg, brackets
}
