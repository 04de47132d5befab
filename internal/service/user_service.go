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

type CreateUserInput struct {
	Name string
	Role string
}

type UserService struct {
	users repository.UserRepository
	tasks repository.TaskRepository
	log   logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, tasks repository.TaskRepository, log logrus.FieldLogger) *UserService {
	return &UserService{users: users, tasks: tasks, log: log}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserView, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.Validation("name is required")
	}
	role, err := normalizeRole(in.Role)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: in.Name, Role: role, Tasks: []string{}}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.WithField("user_id", user.ID).Debug("user created")
	return &UserView{User: *user}, nil
}

// List returns one page of live users with their tasks projected.
func (s *UserService) List(ctx context.Context, q ListQuery) (*Page[UserView], error) {
	filter, err := userFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	window, err := pageWindow(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if total == 0 {
		return nil, apperror.NotFound("User Not Found")
	}

	users, err := s.users.List(ctx, filter, window)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	views, err := s.withTasks(ctx, users)
	if err != nil {
		return nil, err
	}

	return &Page[UserView]{
		Total:      total,
		PageSize:   window.Limit,
		PageNumber: window.Offset/window.Limit + 1,
		Items:      views,
	}, nil
}

// GetByID returns the user whether or not it has been soft-deleted.
func (s *UserService) GetByID(ctx context.Context, id string) (*UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NotFound("User Not Found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	views, err := s.withTasks(ctx, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Edit applies name and role changes to a live user.
func (s *UserService) Edit(ctx context.Context, id string, payload Payload) (*UserView, error) {
	accepted, err := payload.accepted(model.UserSchema)
	if err != nil {
		return nil, err
	}
	name, err := accepted.str("name")
	if err != nil {
		return nil, err
	}
	if name != "" && strings.TrimSpace(name) == "" {
		return nil, apperror.Validation("name must not be blank")
	}
	roleRaw, err := accepted.str("role")
	if err != nil {
		return nil, err
	}
	var role model.Role
	if roleRaw != "" {
		if role, err = normalizeRole(roleRaw); err != nil {
			return nil, err
		}
	}

	user, err := s.liveUser(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if name != "" && name != user.Name {
		user.Name = name
		changed = true
	}
	if role != "" && role != user.Role {
		user.Role = role
		changed = true
	}
	if changed {
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		s.log.WithField("user_id", id).Info("user edited")
	}

	views, err := s.withTasks(ctx, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete soft-deletes a user. Tasks assigned to the user keep their assignee.
func (s *UserService) Delete(ctx context.Context, id string) (*UserView, error) {
	user, err := s.liveUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsDeleted = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("soft delete user: %w", err)
	}
	s.log.WithField("user_id", id).Info("user deleted")
	return &UserView{User: *user}, nil
}

func (s *UserService) liveUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NotFound("User Not Found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsDeleted {
		return nil, apperror.NotFound("User no longer exists")
	}
	return user, nil
}

// withTasks populates each user's tasks, in the user's own order.
func (s *UserService) withTasks(ctx context.Context, users []model.User) ([]UserView, error) {
	var ids []string
	for _, u := range users {
		ids = append(ids, u.Tasks...)
	}

	byID := make(map[string]model.Task, len(ids))
	if len(ids) > 0 {
		tasks, err := s.tasks.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("populate tasks: %w", err)
		}
		for _, t := range tasks {
			byID[t.ID] = t
		}
	}

	views := make([]UserView, len(users))
	for i, u := range users {
		summaries := make([]TaskSummary, 0, len(u.Tasks))
		for _, id := range u.Tasks {
			if t, ok := byID[id]; ok {
				summaries = append(summaries, summarizeTask(t))
			}
		}
		views[i] = UserView{User: u, Tasks: summaries}
	}
	return views, nil
}

func normalizeRole(raw string) (model.Role, error) {
	if raw == "" {
		return model.RoleEmployee, nil
	}
	if err := validation.Var("role", raw, validation.TagUserRole); err != nil {
		return "", apperror.Validation("%s", err.Error())
	}
	return model.Role(strings.ToLower(raw)), nil
}
