package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "Manage the database schema"}
	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, func(runner *migrations.Runner) error {
				applied, err := runner.Up(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
				return nil
			})
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, func(runner *migrations.Runner) error {
				statuses, err := runner.Status(cmd.Context())
				if err != nil {
					return err
				}
				renderStatus(cmd.OutOrStdout(), statuses)
				return nil
			})
		},
	}
}

func withRunner(cmd *cobra.Command, fn func(*migrations.Runner) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := migrationLogger(cmd.ErrOrStderr(), cfg.Server)

	db, err := openDatabase(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner, err := migrations.NewRunner(db, cfg.Database.Driver, log)
	if err != nil {
		return err
	}
	return fn(runner)
}

// migrationLogger writes to stderr so stdout stays the command's output.
func migrationLogger(w io.Writer, cfg config.ServerConfig) *slog.Logger {
	log, err := logger.SetupWithWriter(cfg, w)
	if err != nil {
		return slog.Default()
	}
	return log
}

func renderStatus(w io.Writer, statuses []migrations.Status) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Version", "Name", "Applied", "Applied At"})
	for _, st := range statuses {
		appliedAt := ""
		if st.Applied && !st.AppliedAt.IsZero() {
			appliedAt = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		tw.AppendRow(table.Row{st.Version, st.Name, st.Applied, appliedAt})
	}
	tw.Render()
}
