package response

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	RoleName    string `validate:"required"`
	Description string `validate:"max=5"`
	RoleID      int64  `validate:"isdefault"`
	Status      int    `validate:"omitempty,oneof=1 2"`
}

func TestValidationMessage_FieldErrors(t *testing.T) {
	v := validator.New()

	err := v.Struct(sample{Description: "too long", RoleID: 3, Status: 7})

	msg := ValidationMessage(err)
	assert.Contains(t, msg, "roleName is required")
	assert.Contains(t, msg, "description must be at most 5 characters")
	assert.Contains(t, msg, "roleID must be empty")
	assert.Contains(t, msg, "status must be one of [1 2]")
}

func TestValidationMessage_JSONErrors(t *testing.T) {
	var target struct {
		RoleSort int `json:"roleSort"`
	}

	err := json.Unmarshal([]byte(`{"roleSort": "x"}`), &target)
	assert.Equal(t, "roleSort has an invalid type", ValidationMessage(err))

	err = json.Unmarshal([]byte(`{"roleSort": }`), &target)
	assert.Equal(t, "Invalid request body", ValidationMessage(err))
}

func TestValidationMessage_Other(t *testing.T) {
	assert.Equal(t, "EOF", ValidationMessage(errors.New("EOF")))
}
