package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"taskboard/internal/apperror"
	"taskboard/internal/model"
	"taskboard/internal/response"
	"taskboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, env response.Envelope) map[string]any {
	t.Helper()
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestTask_EmptyAssigneeRendersObject(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	view := &service.TaskView{Task: model.Task{
		ID:          "t1",
		Name:        "report",
		Description: "q3",
		Status:      model.StatusWorking,
		CreatedAt:   now,
		UpdatedAt:   now,
	}}

	withEmpty := render(t, response.Task(view, true))
	without := render(t, response.Task(view, false))

	assert.Equal(t, map[string]any{}, withEmpty["assignee"])
	assert.NotContains(t, without, "assignee")
	assert.Equal(t, false, without["is_deleted"])
	assert.Equal(t, "2024-03-01T10:00:00Z", without["created_at"])
	assert.NotContains(t, without, "errors")
	assert.NotContains(t, without, "total")
}

func TestTask_ResolvedAssignee(t *testing.T) {
	assigneeID := "u1"
	view := &service.TaskView{
		Task:     model.Task{ID: "t1", Name: "n", Description: "d", Status: model.StatusPending, Assignee: &assigneeID},
		Assignee: &service.AssigneeSummary{ID: "u1", Name: "Ada", Role: model.RoleManager},
	}

	out := render(t, response.Task(view, true))

	assert.Equal(t, map[string]any{"id": "u1", "name": "Ada", "role": "manager"}, out["assignee"])
}

func TestUserPage(t *testing.T) {
	page := &service.Page[service.UserView]{
		Total:      3,
		PageSize:   2,
		PageNumber: 1,
		Items: []service.UserView{
			{User: model.User{ID: "u1", Name: "Ada", Role: model.RoleEmployee}},
		},
	}

	out := render(t, response.UserPage(page))

	assert.EqualValues(t, 3, out["total"])
	assert.EqualValues(t, 2, out["page_size"])
	assert.EqualValues(t, 1, out["page_number"])
	items := out["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, []any{}, items[0].(map[string]any)["tasks"])
}

func TestErrorEnvelope(t *testing.T) {
	status, env := response.ErrorEnvelope(fmt.Errorf("update: %w", apperror.NotFound("Task Not Found")))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, map[string]any{
		"errors":  map[string]any{"message": "Task Not Found"},
		"message": "Bad Request",
	}, render(t, env))

	status, env = response.ErrorEnvelope(errors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", env.Errors.Message)
	assert.Equal(t, "Internal Server Error", env.Message)
}
