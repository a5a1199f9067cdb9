package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=customer owner"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(signup{Email: "ada@example.com", Password: "secret1"}))

	errs := ValidateStruct(signup{Email: "nope", Password: "abc", Role: "admin"})
	assert.Equal(t, map[string]string{
		"email":    "Invalid email format",
		"password": "Minimum is 6",
		"role":     "Must be one of: customer, owner",
	}, errs)

	assert.Equal(t, "email: Invalid email format; password: Minimum is 6; role: Must be one of: customer, owner",
		FormatValidationErrors(errs))
}
