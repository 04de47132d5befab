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

type UserRepository struct {
	collection *mongo.Collection
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(UsersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ts := now()
	user.CreatedAt, user.UpdatedAt = ts, ts

	doc, err := newUserDocument(user)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	if user.ID == "" {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	*user = doc.toModel()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}
	var doc userDocument
	if err := r.collection.FindOne(ctx, idFilter(oid)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user := doc.toModel()
	return &user, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, idsFilter(oids), options.Find())
}

func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter, page repository.Page) ([]model.User, error) {
	opts := options.Find().
		SetSort(listSort).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))
	return r.find(ctx, userFilter(filter), opts)
}

func (r *UserRepository) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, userFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	doc, err := newUserDocument(user)
	if err != nil {
		return repository.ErrUserNotFound
	}
	doc.UpdatedAt = now()

	result, err := r.collection.ReplaceOne(ctx, idFilter(doc.ID), doc)
	if err != nil {
		return fmt.Errorf("replace user: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *UserRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]model.User, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]model.User, len(docs))
	for i, doc := range docs {
		users[i] = doc.toModel()
	}
	return users, nil
}
