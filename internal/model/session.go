package model

import "time"

// Session is the in-browser record of the authenticated user: a profile
// snapshot plus the opaque bearer credential the remote API issued at login.
//
// Sessions are read-only from every view's perspective. The login and logout
// handlers are the only writers; everything else receives the session (or
// its absence) as input and must treat "absent" as a first-class case.
type Session struct {
	ID        string
	Token     string
	User      *User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Credential returns the bearer token, or "" when the session carries none.
func (s *Session) Credential() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// CurrentUser returns the profile snapshot, or nil when absent.
func (s *Session) CurrentUser() *User {
	if s == nil {
		return nil
	}
	return s.User
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
