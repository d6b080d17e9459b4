package validation

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	PasswordMinLength = 8
	PasswordMaxLength = 72 // bcrypt ignores anything longer

	NameMinLength = 1
	NameMaxLength = 100

	AcademicFigureMin = 0.0
	AcademicFigureMax = 10.0
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email (already normalized) looks like an address
func ValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// ValidPassword requires the length bounds plus at least one letter and one digit
func ValidPassword(password string) bool {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return false
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// ValidName checks a trimmed person name against the length bounds
func ValidName(name string) bool {
	n := len([]rune(strings.TrimSpace(name)))
	return n >= NameMinLength && n <= NameMaxLength
}

// ValidAcademicFigure checks a CGPA-like figure is on the 0-10 scale
func ValidAcademicFigure(v float64) bool {
	return !math.IsNaN(v) && v >= AcademicFigureMin && v <= AcademicFigureMax
}

// ValidSalaryBand accepts open-ended bands and rejects inverted or negative ones
func ValidSalaryBand(min, max *int64) bool {
	if min != nil && *min < 0 {
		return false
	}
	if max != nil && *max < 0 {
		return false
	}
	return min == nil || max == nil || *min <= *max
}
