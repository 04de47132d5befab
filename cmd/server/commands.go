package main

import (
	"errors"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/repository/postgres"
	"taskboard/internal/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const systemName = "taskboard"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "Task board REST API",
		Long:          "Serve the task board API. Configuration is read from the environment and an optional .env file:\n\n" + config.Usage(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations",
		Long:  "Apply every pending migration to the database named by DB_*. Only meaningful with STORAGE_DRIVER=postgres.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.DriverPostgres {
				return errors.New("migrate needs STORAGE_DRIVER=postgres; MongoDB collections need no migrations")
			}
			version, err := postgres.Migrate(cfg.Postgres.URL())
			if err != nil {
				return err
			}
			log.WithField("version", version).Info("schema up to date")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", systemName, version, commit)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	s, err := server.Init(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("server initialization failed: %w", err)
	}
	return s.Run()
}

func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Options{SystemName: systemName, Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
