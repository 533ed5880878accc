package security

import (
	"fmt"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// PasswordRule validates a password according to a specific policy rule.
type PasswordRule interface {
	Validate(password string) error
}

// PasswordRuleFunc adapts a function to be used as a PasswordRule.
type PasswordRuleFunc func(password string) error

// Validate executes the underlying rule function.
func (f PasswordRuleFunc) Validate(password string) error {
	return f(password)
}

// PasswordValidator applies a sequence of password rules.
type PasswordValidator struct {
	rules []PasswordRule
}

// NewPasswordValidator constructs a validator with the provided rules.
func NewPasswordValidator(rules ...PasswordRule) *PasswordValidator {
	copied := make([]PasswordRule, len(rules))
	copy(copied, rules)
	return &PasswordValidator{rules: copied}
}

// Violations executes every rule and returns all violation messages. All
// rules run even after a failure so callers can report the full list at once.
func (v *PasswordValidator) Violations(password string) []string {
	if v == nil {
		return nil
	}

	var violations []string
	for _, rule := range v.rules {
		if err := rule.Validate(password); err != nil {
			violations = append(violations, err.Error())
		}
	}
	return violations
}

// MinLengthRule ensures the password has at least min characters.
func MinLengthRule(min int) PasswordRule {
	return PasswordRuleFunc(func(password string) error {
		if len([]rune(password)) < min {
			return fmt.Errorf("Password must be at least %d characters long", min)
		}
		return nil
	})
}

// RequireLetterAndDigitRule ensures the password mixes letters and digits.
func RequireLetterAndDigitRule() PasswordRule {
	return PasswordRuleFunc(func(password string) error {
		var hasLetter, hasDigit bool
		for _, r := range password {
			switch {
			case unicode.IsLetter(r):
				hasLetter = true
			case unicode.IsDigit(r):
				hasDigit = true
			}
		}
		if hasLetter && hasDigit {
			return nil
		}
		return fmt.Errorf("Password must contain both letters and numbers")
	})
}

// RequirePasswordStrengthRule enforces a minimum zxcvbn score. A minScore of
// zero disables the rule.
func RequirePasswordStrengthRule(minScore int, userInputs ...string) PasswordRule {
	return PasswordRuleFunc(func(password string) error {
		if minScore <= 0 {
			return nil
		}
		if minScore > 4 {
			minScore = 4
		}

		result := zxcvbn.PasswordStrength(password, userInputs)
		if result.Score >= minScore {
			return nil
		}

		return fmt.Errorf("Password is too easy to guess. Please choose a stronger password")
	})
}
