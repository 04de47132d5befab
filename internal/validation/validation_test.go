package validation_test

import (
	"testing"

	"taskboard/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createTaskPayload struct {
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"omitempty,taskstatus"`
}

func TestVar_TaskStatus(t *testing.T) {
	assert.NoError(t, validation.Var("status", "review", validation.TagTaskStatus))

	err := validation.Var("status", "finished", validation.TagTaskStatus)
	require.Error(t, err)
	assert.Equal(t, "status must be one of: pending, working, review, done, archive", err.Error())
}

func TestVar_UserRoleIgnoresCase(t *testing.T) {
	assert.NoError(t, validation.Var("role", "Manager", validation.TagUserRole))
	assert.Error(t, validation.Var("role", "boss", validation.TagUserRole))
}

func TestMessage_UsesJSONNames(t *testing.T) {
	v := validator.New()
	require.NoError(t, validation.Register(v))

	err := v.Struct(createTaskPayload{Status: "nope"})
	require.Error(t, err)

	msg := validation.Message(err)
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "status must be one of")
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, assert.AnError.Error(), validation.Message(assert.AnError))
}
