package model

import "time"

type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// User owns an ordered list of task ids that mirrors Task.Assignee.
type User struct {
	ID        string
	Name      string
	Role      Role
	Tasks     []string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTask reports whether taskID is in u.Tasks.
func (u *User) HasTask(taskID string) bool {
	for _, id := range u.Tasks {
		if id == taskID {
			return true
		}
	}
	return false
}

// AddTask appends taskID unless it is already present.
func (u *User) AddTask(taskID string) {
	if u.HasTask(taskID) {
		return
	}
	u.Tasks = append(u.Tasks, taskID)
}

// RemoveTask drops every occurrence of taskID, keeping the order of the rest.
func (u *User) RemoveTask(taskID string) {
	kept := make([]string, 0, len(u.Tasks))
	for _, id := range u.Tasks {
		if id != taskID {
			kept = append(kept, id)
		}
	}
	u.Tasks = kept
}
