package domain

import "time"

// SourceResult is the outcome of one platform's contribution to a sync.
// A fetch or persistence failure is recorded here instead of aborting the
// other platform's attempt.
type SourceResult struct {
	Source   Source `json:"source"`
	NewGames int    `json:"newGames"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// SyncResult summarizes one sync invocation. It is returned to the caller
// and never persisted.
type SyncResult struct {
	Success         bool           `json:"success"`
	NewGamesCount   int            `json:"newGamesCount"`
	TotalGamesCount int            `json:"totalGamesCount"`
	Sources         []SourceResult `json:"sources"`
	Duration        time.Duration  `json:"duration"`
}
