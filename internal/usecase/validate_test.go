package usecase

import (
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  Maria@Example.COM ": "maria@example.com",
		"chef@bistro.fr":       "chef@bistro.fr",
		"":                     "",
	}
	for input, want := range cases {
		if got := NormalizeEmail(input); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"(555) 123-4567":  "5551234567",
		"+1 555 123 4567": "+15551234567",
		"555.123.4567":    "5551234567",
		"":                "",
	}
	for input, want := range cases {
		if got := NormalizePhone(input); got != want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"maria@example.com",
		"chef.maria@bistro.example.co.uk",
		"orders+weekend@catering.io",
	}
	for _, email := range valid {
		if !ValidEmail(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-user.com",
		"missing-domain@",
		"spaces in@example.com",
		"no-tld@localhost",
	}
	for _, email := range invalid {
		if ValidEmail(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestAccountValidatorFieldRules(t *testing.T) {
	validator := defaultValidator()

	tests := []struct {
		name  string
		mut   func(*RegistrationInput)
		wants string
	}{
		{
			name:  "short first name",
			mut:   func(in *RegistrationInput) { in.FirstName = "A" },
			wants: "First name must be at least 2 characters long",
		},
		{
			name:  "whitespace last name",
			mut:   func(in *RegistrationInput) { in.LastName = "  " },
			wants: "Last name must be at least 2 characters long",
		},
		{
			name:  "bad email",
			mut:   func(in *RegistrationInput) { in.Email = "nope" },
			wants: "Valid email address is required",
		},
		{
			name:  "short phone",
			mut:   func(in *RegistrationInput) { in.Phone = "12345" },
			wants: "Valid phone number is required",
		},
		{
			name:  "short password",
			mut:   func(in *RegistrationInput) { in.Password = "ab1" },
			wants: "Password must be at least 8 characters long",
		},
		{
			name:  "digits only password",
			mut:   func(in *RegistrationInput) { in.Password = "12345678" },
			wants: "Password must contain both letters and numbers",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validSignup()
			input.Email = NormalizeEmail(input.Email)
			input.Phone = NormalizePhone(input.Phone)
			tc.mut(&input)

			violations := validator.Validate(input)

			found := false
			for _, v := range violations {
				if v == tc.wants {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected %q in violations, got %v", tc.wants, violations)
			}
		})
	}

	input := validSignup()
	input.Email = NormalizeEmail(input.Email)
	input.Phone = NormalizePhone(input.Phone)
	if violations := validator.Validate(input); len(violations) != 0 {
		t.Fatalf("expected no violations for valid input, got %v", violations)
	}
}
