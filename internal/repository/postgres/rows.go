package postgres

import (
	"time"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type taskRow struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"not null"`
	Description string     `gorm:"not null"`
	Status      string     `gorm:"not null"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index"`
	IsDeleted   bool       `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskRow) TableName() string { return "tasks" }

type userRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name      string         `gorm:"not null"`
	Role      string         `gorm:"not null"`
	TaskIDs   pq.StringArray `gorm:"type:text[];not null"`
	IsDeleted bool           `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

func newTaskRow(t *model.Task) (taskRow, error) {
	row := taskRow{
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		IsDeleted:   t.IsDeleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.ID != "" {
		id, err := uuid.Parse(t.ID)
		if err != nil {
			return taskRow{}, err
		}
		row.ID = id
	}
	if t.Assignee != nil {
		assignee, err := uuid.Parse(*t.Assignee)
		if err != nil {
			return taskRow{}, err
		}
		row.AssigneeID = &assignee
	}
	return row, nil
}

func (r taskRow) toModel() model.Task {
	t := model.Task{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Status:      model.TaskStatus(r.Status),
		IsDeleted:   r.IsDeleted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.AssigneeID != nil {
		assignee := r.AssigneeID.String()
		t.Assignee = &assignee
	}
	return t
}

func newUserRow(u *model.User) (userRow, error) {
	row := userRow{
		Name:      u.Name,
		Role:      string(u.Role),
		TaskIDs:   pq.StringArray(append([]string{}, u.Tasks...)),
		IsDeleted: u.IsDeleted,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.ID != "" {
		id, err := uuid.Parse(u.ID)
		if err != nil {
			return userRow{}, err
		}
		row.ID = id
	}
	return row, nil
}

func (r userRow) toModel() model.User {
	tasks := make([]string, len(r.TaskIDs))
	copy(tasks, r.TaskIDs)
	return model.User{
		ID:        r.ID.String(),
		Name:      r.Name,
		Role:      model.Role(r.Role),
		Tasks:     tasks,
		IsDeleted: r.IsDeleted,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// parseIDs keeps only well-formed uuids; malformed ids cannot match a row.
func parseIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		out = append(out, parsed)
	}
	return out
}
