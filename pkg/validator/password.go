package validator

import "unicode"

// PasswordRequirement is a single checklist rule surfaced next to the
// registration form while the user types.
//
// This checklist is intentionally stricter than the acceptance check the
// auth service applies on register/change-password. The two rule sets are
// kept separate; unifying them would change which passwords are accepted.
type PasswordRequirement struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

// StrengthLevel buckets a password score for display.
type StrengthLevel string

const (
	StrengthVeryWeak StrengthLevel = "very-weak"
	StrengthWeak     StrengthLevel = "weak"
	StrengthFair     StrengthLevel = "fair"
	StrengthGood     StrengthLevel = "good"
	StrengthStrong   StrengthLevel = "strong"
)

// PasswordStrength summarises how many checklist rules a password meets.
type PasswordStrength struct {
	Score int           `json:"score"`
	Level StrengthLevel `json:"level"`
}

const specialRunes = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasSpecial(s string) bool {
	for _, r := range s {
		for _, sp := range specialRunes {
			if r == sp {
				return true
			}
		}
	}
	return false
}

// CheckPassword evaluates the full requirement checklist against a password.
func CheckPassword(password string) []PasswordRequirement {
	return []PasswordRequirement{
		{ID: "length", Label: "At least 8 characters", Met: len(password) >= 8},
		{ID: "uppercase", Label: "One uppercase letter", Met: hasUpper(password)},
		{ID: "lowercase", Label: "One lowercase letter", Met: hasLower(password)},
		{ID: "number", Label: "One number", Met: hasDigit(password)},
		{ID: "special", Label: "One special character", Met: hasSpecial(password)},
	}
}

// IsPasswordCompliant reports whether every checklist rule is met.
func IsPasswordCompliant(password string) bool {
	for _, req := range CheckPassword(password) {
		if !req.Met {
			return false
		}
	}
	return true
}

// Strength scores a password by the number of checklist rules met.
func Strength(password string) PasswordStrength {
	score := 0
	for _, req := range CheckPassword(password) {
		if req.Met {
			score++
		}
	}

	var level StrengthLevel
	switch {
	case score == 0:
		level = StrengthVeryWeak
	case score <= 1:
		level = StrengthWeak
	case score <= 2:
		level = StrengthFair
	case score <= 3:
		level = StrengthGood
	default:
		level = StrengthStrong
	}

	return PasswordStrength{Score: score, Level: level}
}
