package service

import "taskboard/internal/model"

// AssigneeSummary is the resolved form of Task.Assignee.
type AssigneeSummary struct {
	ID   string
	Name string
	Role model.Role
}

// TaskSummary is the projection of a task embedded in a user.
type TaskSummary struct {
	ID          string
	Name        string
	Description string
	Status      model.TaskStatus
}

type TaskView struct {
	Task     model.Task
	Assignee *AssigneeSummary
}

type UserView struct {
	User  model.User
	Tasks []TaskSummary
}

func summarizeUser(u *model.User) *AssigneeSummary {
	if u == nil {
		return nil
	}
	return &AssigneeSummary{ID: u.ID, Name: u.Name, Role: u.Role}
}

func summarizeTask(t model.Task) TaskSummary {
	return TaskSummary{ID: t.ID, Name: t.Name, Description: t.Description, Status: t.Status}
}
