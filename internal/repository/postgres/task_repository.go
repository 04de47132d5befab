package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

var taskColumns = []string{"name", "description", "status", "assignee_id", "is_deleted", "updated_at"}

type TaskRepository struct {
	db *gorm.DB
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	row, err := newTaskRow(task)
	if err != nil {
		return fmt.Errorf("task document: %w", err)
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return err
	}
	*task = row.toModel()
	return nil
}

// GetByID retrieves a task by its ID, soft-deleted or not
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrTaskNotFound
	}
	var row taskRow
	result := conn(ctx, r.db).Where("id = ?", taskID).Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, result.Error
	}
	task := row.toModel()
	return &task, nil
}

// GetByIDs retrieves every task whose id is listed; unknown ids are skipped
func (r *TaskRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Task, error) {
	parsed := parseIDs(ids)
	if len(parsed) == 0 {
		return nil, nil
	}
	var rows []taskRow
	if err := conn(ctx, r.db).Where("id IN ?", parsed).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toTasks(rows), nil
}

// List returns one page of live tasks ordered by creation time
func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter, page repository.Page) ([]model.Task, error) {
	var rows []taskRow
	result := applyTaskFilter(conn(ctx, r.db).Model(&taskRow{}), filter).
		Order("created_at, id").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return toTasks(rows), nil
}

// Count returns the number of live tasks matching filter
func (r *TaskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int64, error) {
	var total int64
	if err := applyTaskFilter(conn(ctx, r.db).Model(&taskRow{}), filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Update writes every mutable field of task back
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	row, err := newTaskRow(task)
	if err != nil {
		return repository.ErrTaskNotFound
	}
	row.UpdatedAt = time.Now().UTC()

	result := conn(ctx, r.db).Model(&taskRow{ID: row.ID}).Select(taskColumns).Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}
	task.UpdatedAt = row.UpdatedAt
	return nil
}

func toTasks(rows []taskRow) []model.Task {
	tasks := make([]model.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toModel()
	}
	return tasks
}
