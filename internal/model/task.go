package model

import "time"

type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	StatusWorking TaskStatus = "working"
	StatusReview  TaskStatus = "review"
	StatusDone    TaskStatus = "done"
	StatusArchive TaskStatus = "archive"
)

// Task is a unit of work that may be delegated to a single User.
// Assignee is nil when the task is unassigned.
type Task struct {
	ID          string
	Name        string
	Description string
	Status      TaskStatus
	Assignee    *string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) AssigneeID() string {
	if t.Assignee == nil {
		return ""
	}
	return *t.Assignee
}

// CanMoveTo reports whether the status machine allows t to move to next.
// done may only advance to archive, and archive is terminal.
func (t *Task) CanMoveTo(next TaskStatus) bool {
	switch t.Status {
	case StatusArchive:
		return false
	case StatusDone:
		return next == StatusArchive
	default:
		return true
	}
}
