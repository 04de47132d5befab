package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask_CanMoveTo(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		want     bool
	}{
		{StatusPending, StatusDone, true},
		{StatusReview, StatusWorking, true},
		{StatusDone, StatusArchive, true},
		{StatusDone, StatusReview, false},
		{StatusArchive, StatusPending, false},
		{StatusArchive, StatusArchive, false},
	}
	for _, tt := range tests {
		task := Task{Status: tt.from}
		assert.Equal(t, tt.want, task.CanMoveTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestUser_TaskList(t *testing.T) {
	u := User{Tasks: []string{"a", "b"}}

	u.AddTask("b")
	u.AddTask("c")
	assert.Equal(t, []string{"a", "b", "c"}, u.Tasks)

	u.RemoveTask("b")
	assert.Equal(t, []string{"a", "c"}, u.Tasks)
	assert.False(t, u.HasTask("b"))
}

func TestSchema(t *testing.T) {
	assert.True(t, ValidTaskStatus("review"))
	assert.False(t, ValidTaskStatus("Review"))
	assert.True(t, ValidRole("Manager"))
	assert.False(t, ValidRole("admin"))
	assert.True(t, TaskSchema.AllowsFilter("createdAt"))
	assert.False(t, TaskSchema.AllowsUpdate("name"))
	assert.True(t, UserSchema.AllowsUpdate("role"))
}
