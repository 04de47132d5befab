package postgres

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var userColumns = []string{"name", "role", "task_ids", "is_deleted", "updated_at"}

type UserRepository struct {
	db *gorm.DB
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row, err := newUserRow(user)
	if err != nil {
		return err
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return err
	}
	*user = row.toModel()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}
	var row userRow
	err = conn(ctx, r.db).Where("id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user := row.toModel()
	return &user, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	parsed := parseIDs(ids)
	if len(parsed) == 0 {
		return nil, nil
	}
	var rows []userRow
	if err := conn(ctx, r.db).Where("id IN ?", parsed).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toUsers(rows), nil
}

func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter, page repository.Page) ([]model.User, error) {
	var rows []userRow
	err := applyUserFilter(conn(ctx, r.db).Model(&userRow{}), filter).
		Order("created_at, id").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toUsers(rows), nil
}

func (r *UserRepository) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	var total int64
	err := applyUserFilter(conn(ctx, r.db).Model(&userRow{}), filter).Count(&total).Error
	return total, err
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	row, err := newUserRow(user)
	if err != nil {
		return repository.ErrUserNotFound
	}
	row.UpdatedAt = time.Now().UTC()

	result := conn(ctx, r.db).Model(&userRow{ID: row.ID}).Select(userColumns).Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func toUsers(rows []userRow) []model.User {
	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = row.toModel()
	}
	return users
}
