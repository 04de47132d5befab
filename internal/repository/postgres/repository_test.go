package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := gormpostgres.New(gormpostgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

var taskColumns = []string{"id", "name", "description", "status", "assignee_id", "is_deleted", "created_at", "updated_at"}

func TestTaskRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "tasks"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	task := &model.Task{Name: "Write report", Description: "Q3 numbers", Status: model.StatusPending}
	err := repo.Create(context.Background(), task)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(task.ID)
	assert.NoError(t, parseErr)
	assert.False(t, task.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create_MalformedAssignee(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewTaskRepository(gormDB)

	bad := "not-a-uuid"
	err := repo.Create(context.Background(), &model.Task{Name: "n", Description: "d", Assignee: &bad})

	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrUserNotFound)
	assert.Contains(t, err.Error(), "task document")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewTaskRepository(gormDB)

	taskID := uuid.New()
	assigneeID := uuid.New()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(taskID.String(), "Write report", "Q3 numbers", "working", assigneeID.String(), false, now, now))

	task, err := repo.GetByID(context.Background(), taskID.String())

	require.NoError(t, err)
	assert.Equal(t, taskID.String(), task.ID)
	assert.Equal(t, model.StatusWorking, task.Status)
	assert.Equal(t, assigneeID.String(), task.AssigneeID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	task, err := repo.GetByID(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_MalformedID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewTaskRepository(gormDB)

	task, err := repo.GetByID(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Count_AppliesFilter(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewTaskRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "tasks" WHERE is_deleted = $1 AND name ILIKE $2`)).
		WithArgs(false, `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	total, err := repo.Count(context.Background(), repository.TaskFilter{Name: "50%"})

	assert.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Update_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	task := &model.Task{ID: uuid.NewString(), Name: "n", Description: "d", Status: model.StatusDone}
	err := repo.Update(context.Background(), task)

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &model.User{Name: "Ada", Role: model.RoleManager}
	err := repo.Create(context.Background(), user)

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.Tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewUserRepository(gormDB)

	userID := uuid.New()
	taskID := uuid.NewString()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role", "task_ids", "is_deleted", "created_at", "updated_at"}).
			AddRow(userID.String(), "Ada", "manager", "{"+taskID+"}", false, now, now))

	user, err := repo.GetByID(context.Background(), userID.String())

	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, model.RoleManager, user.Role)
	assert.Equal(t, []string{taskID}, user.Tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := postgres.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = .*`).
		WillReturnError(assert.AnError)

	user, err := repo.GetByID(context.Background(), uuid.NewString())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_CommitsAndRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	tx := postgres.NewTransactor(gormDB)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err = tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, mock.ExpectationsWereMet())
}
