package mongodb

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository struct {
	collection *mongo.Collection
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{collection: db.Collection(TasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	ts := now()
	task.CreatedAt, task.UpdatedAt = ts, ts

	doc, err := newTaskDocument(task)
	if err != nil {
		return fmt.Errorf("task document: %w", err)
	}
	if task.ID == "" {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	*task = doc.toModel()
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrTaskNotFound
	}
	var doc taskDocument
	if err := r.collection.FindOne(ctx, idFilter(oid)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	task := doc.toModel()
	return &task, nil
}

func (r *TaskRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Task, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, idsFilter(oids), options.Find())
}

func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter, page repository.Page) ([]model.Task, error) {
	opts := options.Find().
		SetSort(listSort).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))
	return r.find(ctx, taskFilter(filter), opts)
}

func (r *TaskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, taskFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, nil
}

// Update replaces the stored document with task, keeping createdAt.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	doc, err := newTaskDocument(task)
	if err != nil {
		return repository.ErrTaskNotFound
	}
	doc.UpdatedAt = now()

	result, err := r.collection.ReplaceOne(ctx, idFilter(doc.ID), doc)
	if err != nil {
		return fmt.Errorf("replace task: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrTaskNotFound
	}
	task.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *TaskRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]model.Task, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks := make([]model.Task, len(docs))
	for i, doc := range docs {
		tasks[i] = doc.toModel()
	}
	return tasks, nil
}
