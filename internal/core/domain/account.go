package domain

import (
	"strings"
	"time"
)

// AccountStatus describes the lifecycle state of a customer account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusDisabled  AccountStatus = "disabled"
)

// Account is a customer record as persisted in the users table. PasswordHash
// holds the encoded Argon2id digest, never the plaintext password.
type Account struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	PasswordHash  string
	EmailVerified bool
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLogin     *time.Time
}

// FullName joins first and last name for display.
func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// CanAuthenticate reports whether the account is allowed to log in.
// Suspension and deactivation both block authentication regardless of
// whether the presented password is correct.
func (a Account) CanAuthenticate() bool {
	return a.Status == AccountStatusActive
}
