package usecase

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/savoro/catering-auth/internal/infra/security"
)

const (
	minNameLength  = 2
	minPhoneDigits = 10
)

// NormalizeEmail lowercases and trims an email address. All storage and
// lookups go through this so equality is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips every non-digit character, keeping a leading plus.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune('+')
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidEmail reports whether the address parses and carries a dotted domain.
// mail.ParseAddress accepts bare local domains like "user@host"; requiring a
// dot matches what browsers and the signup form enforce.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	_, domainPart, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	return strings.Contains(domainPart, ".")
}

func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

// RegistrationInput carries normalized signup fields.
type RegistrationInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// AccountValidator checks registration input against the acceptance rules.
type AccountValidator struct {
	passwords *security.PasswordValidator
}

// NewAccountValidator constructs a validator using the supplied password rules.
func NewAccountValidator(passwords *security.PasswordValidator) *AccountValidator {
	return &AccountValidator{passwords: passwords}
}

// Validate evaluates every rule and returns the full list of violations in a
// stable order. A valid submission returns an empty slice.
func (v *AccountValidator) Validate(in RegistrationInput) []string {
	var violations []string

	if len([]rune(strings.TrimSpace(in.FirstName))) < minNameLength {
		violations = append(violations, "First name must be at least 2 characters long")
	}
	if len([]rune(strings.TrimSpace(in.LastName))) < minNameLength {
		violations = append(violations, "Last name must be at least 2 characters long")
	}
	if !ValidEmail(in.Email) {
		violations = append(violations, "Valid email address is required")
	}
	if !validPhone(in.Phone) {
		violations = append(violations, "Valid phone number is required")
	}

	violations = append(violations, v.passwords.Violations(in.Password)...)

	return violations
}
