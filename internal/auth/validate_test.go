package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func violationFields(v *ValidationError) []string {
	var out []string
	for _, f := range v.Violations {
		out = append(out, f.Field)
	}
	return out
}

func TestValidateRegisterCollectsAllViolations(t *testing.T) {
	v := validateRegister(RegisterInput{
		Email:           "nope",
		Password:        "short",
		ConfirmPassword: "other",
		Role:            "WIZARD",
	})
	require.NotNil(t, v)
	fields := violationFields(v)
	assert.ElementsMatch(t, []string{"email", "password", "confirm_password", "role"}, fields)
}

func TestValidateRegisterAcceptsGoodInput(t *testing.T) {
	assert.Nil(t, validateRegister(RegisterInput{
		Email:           "a@x.com",
		Password:        "secret-pw1",
		ConfirmPassword: "secret-pw1",
		Role:            "moderator",
	}))
	// Empty role means the default; it is not a violation.
	assert.Nil(t, validateRegister(RegisterInput{
		Email:           "a@x.com",
		Password:        "secret-pw1",
		ConfirmPassword: "secret-pw1",
	}))
}

func TestValidatePasswordChange(t *testing.T) {
	assert.Nil(t, validatePasswordChange("secret-pw1", "secret-pw1"))

	v := validatePasswordChange("secret-pw1", "different1")
	require.NotNil(t, v)
	assert.Equal(t, []string{"confirm_password"}, violationFields(v))

	v = validatePasswordChange("short", "short")
	require.NotNil(t, v)
	assert.Equal(t, []string{"new_password"}, violationFields(v))
}
