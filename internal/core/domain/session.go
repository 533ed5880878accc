package domain

import "time"

// Session binds an opaque identifier held by the client to an authenticated
// account for the lifetime of a login. The identifier is random and carries
// no information about the account.
type Session struct {
	ID          string
	AccountID   int64
	Email       string
	DisplayName string
	LoginAt     time.Time
	ExpiresAt   time.Time
}

// Active reports whether the session is still valid at the supplied moment.
func (s Session) Active(at time.Time) bool {
	return at.Before(s.ExpiresAt)
}

// RememberToken is a long-lived credential issued when a user opts into
// "remember me". Only the SHA-256 hash of the raw token is stored, so a
// leaked store cannot be replayed against the redemption path.
type RememberToken struct {
	TokenHash string
	AccountID int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token can no longer be redeemed.
func (t RememberToken) Expired(at time.Time) bool {
	return !at.Before(t.ExpiresAt)
}
