// Package service holds the task and user workflows. Every operation reports
// failures as *apperror.AppError; anything else is an unexpected storage error.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/apperror"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/validation"

	"github.com/sirupsen/logrus"
)

// Assignment change kinds reported to an AssignmentObserver.
const (
	ChangeAssign   = "assign"
	ChangeReassign = "reassign"
	ChangeUnassign = "unassign"
	ChangeDelete   = "delete"
)

// AssignmentObserver is told about every committed assignment change.
type AssignmentObserver interface {
	ObserveAssignment(kind string)
}

type noopObserver struct{}

func (noopObserver) ObserveAssignment(string) {}

type CreateTaskInput struct {
	Name        string
	Description string
	Status      string
	Assignee    string
}

type TaskService struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	tx       repository.Transactor
	log      logrus.FieldLogger
	observer AssignmentObserver
}

func NewTaskService(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	log logrus.FieldLogger,
	observer AssignmentObserver,
) *TaskService {
	if observer == nil {
		observer = noopObserver{}
	}
	return &TaskService{
		tasks:    tasks,
		users:    users,
		tx:       tx,
		log:      log,
		observer: observer,
	}
}

// Create stores a new task. When an assignee is given the user must be live,
// and the new task id is appended to that user's tasks.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*TaskView, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.Validation("name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperror.Validation("description is required")
	}
	status := model.StatusPending
	if in.Status != "" {
		if err := validation.Var("status", in.Status, validation.TagTaskStatus); err != nil {
			return nil, apperror.Validation("%s", err.Error())
		}
		status = model.TaskStatus(in.Status)
	}

	task := &model.Task{
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
	}
	var assignee *model.User

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if in.Assignee != "" {
			user, err := s.liveUser(ctx, in.Assignee)
			if err != nil {
				return err
			}
			assignee = user
			task.Assignee = &user.ID
		}
		if err := s.tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if assignee != nil {
			assignee.AddTask(task.ID)
			if err := s.users.Update(ctx, assignee); err != nil {
				return fmt.Errorf("add task to user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if assignee != nil {
		s.observer.ObserveAssignment(ChangeAssign)
	}
	s.log.WithFields(logrus.Fields{"task_id": task.ID, "assignee": task.AssigneeID()}).Debug("task created")
	return &TaskView{Task: *task, Assignee: summarizeUser(assignee)}, nil
}

// List returns one page of live tasks. An empty result is a NotFound error.
func (s *TaskService) List(ctx context.Context, q ListQuery) (*Page[TaskView], error) {
	filter, err := taskFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	window, err := pageWindow(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}

	total, err := s.tasks.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	if total == 0 {
		return nil, apperror.NotFound("Task Not Found")
	}

	tasks, err := s.tasks.List(ctx, filter, window)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	views, err := s.withAssignees(ctx, tasks)
	if err != nil {
		return nil, err
	}

	return &Page[TaskView]{
		Total:      total,
		PageSize:   window.Limit,
		PageNumber: window.Offset/window.Limit + 1,
		Items:      views,
	}, nil
}

func (s *TaskService) GetByID(ctx context.Context, id string) (*TaskView, error) {
	task, err := s.liveTask(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.withAssignees(ctx, []model.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type taskUpdate struct {
	status   model.TaskStatus
	assignee string
	unassign bool
}

func decodeTaskUpdate(p Payload) (taskUpdate, error) {
	accepted, err := p.accepted(model.TaskSchema)
	if err != nil {
		return taskUpdate{}, err
	}
	if len(accepted) == 0 {
		return taskUpdate{}, apperror.Validation("No fields to update")
	}

	var upd taskUpdate
	status, err := accepted.str("status")
	if err != nil {
		return taskUpdate{}, err
	}
	if status != "" {
		if err := validation.Var("status", status, validation.TagTaskStatus); err != nil {
			return taskUpdate{}, apperror.Validation("%s", err.Error())
		}
		upd.status = model.TaskStatus(status)
	}
	if upd.assignee, err = accepted.str("assignee"); err != nil {
		return taskUpdate{}, err
	}
	switch v := accepted["removeAssignee"].(type) {
	case nil:
	case bool:
		upd.unassign = v
	case string:
		if !strings.EqualFold(v, "yes") {
			return taskUpdate{}, apperror.Validation(`removeAssignee must be "yes"`)
		}
		upd.unassign = true
	default:
		return taskUpdate{}, apperror.Validation(`removeAssignee must be "yes"`)
	}
	return upd, nil
}

// Update changes a task's status and/or assignment. Rules are checked in a
// fixed order and every lookup that can fail happens before the first write,
// so a rejected request leaves both the task and the users untouched.
func (s *TaskService) Update(ctx context.Context, id string, payload Payload) (*TaskView, error) {
	upd, err := decodeTaskUpdate(payload)
	if err != nil {
		return nil, err
	}

	var (
		result *TaskView
		change string
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.liveTask(ctx, id)
		if err != nil {
			return err
		}
		if upd.assignee != "" && upd.unassign {
			return apperror.Validation("Cannot assign and remove the assignee in the same request")
		}
		// A done task only accepts updates that archive it.
		if task.Status == model.StatusDone && upd.status != model.StatusArchive {
			return apperror.Validation("Can only change status of 'done' task to 'archive'")
		}
		if upd.status != "" {
			if !task.CanMoveTo(upd.status) {
				if task.Status == model.StatusArchive {
					return apperror.Validation("Status of an 'archive' task cannot be changed")
				}
				return apperror.Validation("Can only change status of 'done' task to 'archive'")
			}
			if upd.status == task.Status {
				return apperror.Validation("Task is already in status '%s'", task.Status)
			}
		}
		if upd.unassign && task.Assignee == nil {
			return apperror.Validation("This task hasn't been assigned to anyone, so it can't be unassigned")
		}
		if upd.assignee != "" && upd.assignee == task.AssigneeID() {
			return apperror.Validation("This task has already been assigned to the requested user")
		}

		var assignee *model.User
		switch {
		case upd.assignee != "" && task.Assignee == nil:
			assignee, err = s.assign(ctx, task, upd)
			change = ChangeAssign
		case upd.assignee != "":
			assignee, err = s.reassign(ctx, task, upd)
			change = ChangeReassign
		case upd.unassign:
			err = s.unassign(ctx, task, upd)
			change = ChangeUnassign
		default:
			assignee, err = s.changeStatus(ctx, task, upd)
		}
		if err != nil {
			return err
		}

		result = &TaskView{Task: *task, Assignee: summarizeUser(assignee)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if change != "" {
		s.observer.ObserveAssignment(change)
	}
	s.log.WithFields(logrus.Fields{
		"task_id":  id,
		"change":   change,
		"status":   result.Task.Status,
		"assignee": result.Task.AssigneeID(),
	}).Info("task updated")
	return result, nil
}

func (s *TaskService) assign(ctx context.Context, task *model.Task, upd taskUpdate) (*model.User, error) {
	user, err := s.liveUser(ctx, upd.assignee)
	if err != nil {
		return nil, err
	}

	applyStatus(task, upd)
	task.Assignee = &user.ID
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	user.AddTask(task.ID)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("add task to user: %w", err)
	}
	return user, nil
}

func (s *TaskService) reassign(ctx context.Context, task *model.Task, upd taskUpdate) (*model.User, error) {
	next, err := s.liveUser(ctx, upd.assignee)
	if err != nil {
		return nil, err
	}
	prev, err := s.userIfExists(ctx, task.AssigneeID())
	if err != nil {
		return nil, err
	}

	if prev != nil {
		prev.RemoveTask(task.ID)
		if err := s.users.Update(ctx, prev); err != nil {
			return nil, fmt.Errorf("remove task from previous user: %w", err)
		}
	}
	applyStatus(task, upd)
	task.Assignee = &next.ID
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	next.AddTask(task.ID)
	if err := s.users.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("add task to user: %w", err)
	}
	return next, nil
}

func (s *TaskService) unassign(ctx context.Context, task *model.Task, upd taskUpdate) error {
	prev, err := s.userIfExists(ctx, task.AssigneeID())
	if err != nil {
		return err
	}
	if prev == nil {
		return apperror.NotFound("User Not Exist")
	}

	prev.RemoveTask(task.ID)
	if err := s.users.Update(ctx, prev); err != nil {
		return fmt.Errorf("remove task from user: %w", err)
	}
	applyStatus(task, upd)
	task.Assignee = nil
	if err := s.tasks.Update(ctx, task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *TaskService) changeStatus(ctx context.Context, task *model.Task, upd taskUpdate) (*model.User, error) {
	var assignee *model.User
	if task.Assignee != nil {
		var err error
		if assignee, err = s.userIfExists(ctx, task.AssigneeID()); err != nil {
			return nil, err
		}
	}
	applyStatus(task, upd)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return assignee, nil
}

func applyStatus(task *model.Task, upd taskUpdate) {
	if upd.status != "" {
		task.Status = upd.status
	}
}

// Delete soft-deletes a task, clears its assignee and drops it from the former
// assignee's tasks. The returned view carries the values the task had before,
// with IsDeleted set.
func (s *TaskService) Delete(ctx context.Context, id string) (*TaskView, error) {
	var result *TaskView
	var hadAssignee bool

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.liveTask(ctx, id)
		if err != nil {
			return err
		}
		prior := *task
		prev, err := s.userIfExists(ctx, task.AssigneeID())
		if err != nil {
			return err
		}

		task.IsDeleted = true
		task.Assignee = nil
		if err := s.tasks.Update(ctx, task); err != nil {
			return fmt.Errorf("soft delete task: %w", err)
		}
		if prev != nil {
			prev.RemoveTask(task.ID)
			if err := s.users.Update(ctx, prev); err != nil {
				return fmt.Errorf("remove task from user: %w", err)
			}
		}

		hadAssignee = prior.Assignee != nil
		prior.IsDeleted = true
		prior.UpdatedAt = task.UpdatedAt
		result = &TaskView{Task: prior, Assignee: summarizeUser(prev)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if hadAssignee {
		s.observer.ObserveAssignment(ChangeDelete)
	}
	s.log.WithField("task_id", id).Info("task deleted")
	return result, nil
}

// liveTask loads a task, treating soft-deleted tasks as missing.
func (s *TaskService) liveTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, apperror.NotFound("Task Not Found")
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.IsDeleted {
		return nil, apperror.NotFound("Task Not Found")
	}
	return task, nil
}

// liveUser loads an assignment target, treating soft-deleted users as missing.
func (s *TaskService) liveUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userIfExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted {
		return nil, apperror.NotFound("User Not Exist")
	}
	return user, nil
}

// userIfExists returns nil without error when id is empty or unknown.
func (s *TaskService) userIfExists(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *TaskService) withAssignees(ctx context.Context, tasks []model.Task) ([]TaskView, error) {
	ids := make([]string, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if id := t.AssigneeID(); id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	byID := make(map[string]*model.User, len(ids))
	if len(ids) > 0 {
		users, err := s.users.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve assignees: %w", err)
		}
		for i := range users {
			byID[users[i].ID] = &users[i]
		}
	}

	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = TaskView{Task: t, Assignee: summarizeUser(byID[t.AssigneeID()])}
	}
	return views, nil
}
