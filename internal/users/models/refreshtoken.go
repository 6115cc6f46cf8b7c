package models

import "time"

// RefreshToken is the single live refresh record per user. A new login
// replaces it, which silently invalidates the previously issued token.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
