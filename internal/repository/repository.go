// Package repository declares the storage contracts the workflow services run
// against. Implementations live in the mongodb and postgres subpackages.
package repository

import (
	"context"
	"time"

	"taskboard/internal/model"
)

// TimeRange matches timestamps in [From, To).
type TimeRange struct {
	From time.Time
	To   time.Time
}

// TaskFilter narrows a task listing. Name and Status are case-insensitive
// substring matches. Soft-deleted tasks are always excluded.
type TaskFilter struct {
	Name      string
	Status    string
	CreatedAt *TimeRange
	UpdatedAt *TimeRange
}

// UserFilter narrows a user listing. Soft-deleted users are always excluded.
type UserFilter struct {
	Name string
	Role string
}

type Page struct {
	Offset int
	Limit  int
}

// TaskRepository stores tasks. GetByID returns soft-deleted tasks as well;
// callers decide whether a deleted task counts as missing.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Task, error)
	List(ctx context.Context, filter TaskFilter, page Page) ([]model.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	Update(ctx context.Context, task *model.Task) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.User, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]model.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	Update(ctx context.Context, user *model.User) error
}

// Transactor runs fn inside one storage transaction when the backend supports
// it. Repositories called with the ctx passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles everything the services need from a backend.
type Store struct {
	Tasks      TaskRepository
	Users      UserRepository
	Transactor Transactor
	Ping       func(ctx context.Context) error
	Close      func(ctx context.Context) error
}
