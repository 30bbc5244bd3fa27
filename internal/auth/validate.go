package auth

import (
	"regexp"
	"strings"
)

// emailRx is intentionally loose: one @, no spaces, a dot in the domain.
// Real deliverability is the mail system's problem, not ours.
var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 8

// RegisterInput carries the raw registration fields before validation.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Role            string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegister checks every field and returns all violations at once
// so the client can fix the whole form in one round trip. A nil return
// means the input is acceptable.
func validateRegister(in RegisterInput) *ValidationError {
	v := &ValidationError{}
	email := normalizeEmail(in.Email)
	if email == "" {
		v.add("email", "email is required")
	} else if !emailRx.MatchString(email) {
		v.add("email", "email is malformed")
	}
	if len(in.Password) < minPasswordLen {
		v.add("password", "password must be at least 8 characters")
	}
	if in.Password != in.ConfirmPassword {
		v.add("confirm_password", "passwords do not match")
	}
	if strings.TrimSpace(in.Role) != "" {
		if _, ok := ParseRole(in.Role); !ok {
			v.add("role", "unknown role")
		}
	}
	if len(v.Violations) > 0 {
		return v
	}
	return nil
}

// validatePasswordChange checks the replacement password pair.
func validatePasswordChange(newPassword, confirmPassword string) *ValidationError {
	v := &ValidationError{}
	if len(newPassword) < minPasswordLen {
		v.add("new_password", "password must be at least 8 characters")
	}
	if newPassword != confirmPassword {
		v.add("confirm_password", "passwords do not match")
	}
	if len(v.Violations) > 0 {
		return v
	}
	return nil
}
