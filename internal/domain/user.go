package domain

import "time"

// User owns a set of games and at most one username per platform.
type User struct {
	ID               int64      `db:"id"`
	ChessComUsername *string    `db:"chesscom_username"`
	LichessUsername  *string    `db:"lichess_username"`
	LastSyncedAt     *time.Time `db:"last_synced_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// UsernameFor returns the user's username on the given platform, if configured.
func (u *User) UsernameFor(source Source) (string, bool) {
	switch source {
	case SourceChessCom:
		if u.ChessComUsername != nil && *u.ChessComUsername != "" {
			return *u.ChessComUsername, true
		}
	case SourceLichess:
		if u.LichessUsername != nil && *u.LichessUsername != "" {
			return *u.LichessUsername, true
		}
	}
	return "", false
}

// ConfiguredSources lists the platforms the user has linked, in a fixed order.
func (u *User) ConfiguredSources() []Source {
	var sources []Source
	for _, s := range []Source{SourceChessCom, SourceLichess} {
		if _, ok := u.UsernameFor(s); ok {
			sources = append(sources, s)
		}
	}
	return sources
}
