package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TasksCollection = "tasks"
	UsersCollection = "users"
)

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes listings and assignment lookups rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	taskIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_deleted", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "assignee", Value: 1}}},
	}
	if _, err := db.Collection(TasksCollection).Indexes().CreateMany(ctx, taskIndexes); err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_deleted", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// Transactor wraps workflow steps in a session transaction when enabled.
// Transactions need a replica set; on a standalone server leave it disabled
// and the steps run one after another.
type Transactor struct {
	client  *mongo.Client
	enabled bool
}

func NewTransactor(client *mongo.Client, enabled bool) *Transactor {
	return &Transactor{client: client, enabled: enabled}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}
	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
