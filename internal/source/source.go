// Package source defines the contract platform adapters implement to feed
// the sync pipeline with canonical game records.
package source

import (
	"context"
	"time"

	"github.com/atelic/chess-dashboard-sub001/internal/domain"
)

// FetchOptions bounds a fetch. Since and Until are inclusive instants;
// FetchAll ignores Since and walks the full available history. MaxGames
// caps how many games are collected (0 = no cap).
type FetchOptions struct {
	Since    *time.Time
	Until    *time.Time
	FetchAll bool
	MaxGames int
}

// InRange reports whether t falls inside the requested window.
func (o FetchOptions) InRange(t time.Time) bool {
	if !o.FetchAll && o.Since != nil && t.Before(*o.Since) {
		return false
	}
	if o.Until != nil && t.After(*o.Until) {
		return false
	}
	return true
}

// Source is one external chess platform. Implementations convert the
// platform's native game representation into canonical records.
type Source interface {
	// Source identifies the platform.
	Source() domain.Source

	// ValidateUser reports whether the username exists on the platform.
	ValidateUser(ctx context.Context, username string) (bool, error)

	// FetchGames returns the user's games within the requested window,
	// sorted descending by PlayedAt.
	FetchGames(ctx context.Context, username string, opts FetchOptions) ([]domain.Game, error)
}
