package model

import "time"

// Session is a server-side authentication session tied to a browser cookie.
// The ID is the opaque token stored in the cookie; there is no separate
// token column.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

// Expired reports whether the session has passed its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
