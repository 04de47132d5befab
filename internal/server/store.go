package server

import (
	"context"
	"fmt"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/repository/mongodb"
	"taskboard/internal/repository/postgres"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// OpenStore connects the backend selected by cfg.StorageDriver.
func OpenStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*repository.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.Postgres, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*repository.Store, error) {
	client, err := mongodb.Connect(ctx, cfg.URI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &repository.Store{
		Tasks:      mongodb.NewTaskRepository(db),
		Users:      mongodb.NewUserRepository(db),
		Transactor: mongodb.NewTransactor(client, cfg.Transactions),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		Close: client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, log *logrus.Logger) (*repository.Store, error) {
	gormLog := gormlogger.New(log, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	db, err := postgres.Open(cfg.DSN(), gormLog)
	if err != nil {
		return nil, err
	}
	if err := postgres.Ping(ctx, db); err != nil {
		_ = postgres.Close(db)
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &repository.Store{
		Tasks:      postgres.NewTaskRepository(db),
		Users:      postgres.NewUserRepository(db),
		Transactor: postgres.NewTransactor(db),
		Ping: func(ctx context.Context) error {
			return postgres.Ping(ctx, db)
		},
		Close: func(context.Context) error {
			return postgres.Close(db)
		},
	}, nil
}
