package validator

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"file-exchange-api/internal/interface/api/rest/dto/auth"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
	maxEmailLen    = 120
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Normalize trims what is safe to trim. Passwords are left untouched.
func Normalize(r auth.SignupRequest) auth.SignupRequest {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return r
}

// HasSignupFields reports whether every field was supplied at all.
func HasSignupFields(r auth.SignupRequest) bool {
	return r.Username != "" && r.Email != "" && r.Password != ""
}

func ValidateSignup(r auth.SignupRequest) map[string]string {
	errs := make(map[string]string)

	// username (length + allowed chars)
	if l := utf8.RuneCountInString(r.Username); l < minUsernameLen || l > maxUsernameLen {
		errs["username"] = "username length must be 3–64 characters"
	} else if !usernameRe.MatchString(r.Username) {
		errs["username"] = "allowed characters: letters, digits, '_', '.', '-'"
	}

	// email (format + column size)
	if len(r.Email) > maxEmailLen {
		errs["email"] = "email must be at most 120 characters"
	} else if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		errs["email"] = "invalid email format"
	}

	// password (length; bcrypt ignores bytes past 72)
	if l := len(r.Password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 8–72 bytes"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateLogin(r auth.LoginRequest) bool {
	return strings.TrimSpace(r.Username) != "" && r.Password != ""
}

// ParseID accepts positive decimal ids only.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
