package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
)

var (
	usernameRe       = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	displayNameRe    = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]+$`)
	passwordLetterRe = regexp.MustCompile(`[A-Za-z]`)
	passwordDigitRe  = regexp.MustCompile(`[0-9]`)
)

// Username normalizes to lower case and checks the account-name rules.
func Username(username *string) []FieldError {
	*username = strings.ToLower(strings.TrimSpace(*username))
	if n := utf8.RuneCountInString(*username); n < 3 || n > 30 {
		return []FieldError{{"username", "Username must be between 3 and 30 characters"}}
	}
	if !usernameRe.MatchString(*username) {
		return []FieldError{{"username", "Username can only contain letters, numbers, hyphens, and underscores"}}
	}
	return nil
}

func Password(password string) []FieldError {
	var errs []FieldError
	if utf8.RuneCountInString(password) < 6 {
		errs = append(errs, FieldError{"password", "Password must be at least 6 characters"})
	}
	if !passwordLetterRe.MatchString(password) || !passwordDigitRe.MatchString(password) {
		errs = append(errs, FieldError{"password", "Password must contain at least one letter and one number"})
	}
	return errs
}

func DisplayName(name *string) []FieldError {
	*name = strings.TrimSpace(*name)
	if n := utf8.RuneCountInString(*name); n < 2 || n > 100 {
		return []FieldError{{"name", "Name must be between 2 and 100 characters"}}
	}
	if !displayNameRe.MatchString(*name) {
		return []FieldError{{"name", "Name can only contain letters, spaces, hyphens, and apostrophes"}}
	}
	return nil
}

func Role(role string) []FieldError {
	if role != "" && !models.ValidUserRole(models.UserRole(role)) {
		return []FieldError{{"role", "Role must be admin, supervisor, or user"}}
	}
	return nil
}
