package domain

import "time"

// AccountRegisteredEvent represents the payload for catering.account.registered messages.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    int64
	Email        string
	Phone        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// LoginSucceededEvent represents the payload for catering.auth.login messages.
type LoginSucceededEvent struct {
	EventID    string
	AccountID  int64
	Email      string
	RememberMe bool
	IPAddress  string
	LoginAt    time.Time
	Metadata   map[string]any
}

// LoginFailedEvent represents the payload for catering.auth.login_failed messages.
// AccountID is zero when the email did not match a known account; handlers never
// reveal this distinction to callers.
type LoginFailedEvent struct {
	EventID   string
	AccountID int64
	Email     string
	Reason    string
	IPAddress string
	FailedAt  time.Time
	Metadata  map[string]any
}

// LogoutEvent represents the payload for catering.auth.logout messages.
type LogoutEvent struct {
	EventID   string
	AccountID int64
	SessionID string
	LogoutAt  time.Time
	Metadata  map[string]any
}
