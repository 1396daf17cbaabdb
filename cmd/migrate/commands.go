package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

const defaultMigrationsPath = "./migrations"

// migrator is the subset of *migrate.Migrate the commands use.
type migrator interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(v int) error
	Close() (error, error)
}

type openFunc func(sourceURL, databaseURL string) (migrator, error)

func openMigrator(sourceURL, databaseURL string) (migrator, error) {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return nil, err
	}
	m.Log = &migrateLogger{}
	return m, nil
}

func newRootCmd(out io.Writer, open openFunc) *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
	)

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply users schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "database URL (env DATABASE_URL)")
	root.PersistentFlags().StringVar(&migrationsPath, "path", envOr("MIGRATIONS_PATH", defaultMigrationsPath), "migrations root directory (env MIGRATIONS_PATH)")

	// withMigrator opens a migrator for the configured database and closes it after fn.
	withMigrator := func(fn func(m migrator) error) error {
		if databaseURL == "" {
			return errors.New("DATABASE_URL environment variable is required")
		}
		dir, err := migrationsDir(migrationsPath, databaseURL)
		if err != nil {
			return err
		}
		m, err := open("file://"+filepath.ToSlash(dir), databaseURL)
		if err != nil {
			return fmt.Errorf("migration init failed: %w", err)
		}
		defer func() {
			if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
				slog.Warn("migrate close failed", "source_error", srcErr, "database_error", dbErr)
			}
		}()
		return fn(m)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m migrator) error {
					if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("up failed: %w", err)
					}
					slog.Info("migrations: up completed")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [N]",
			Short: "Roll back N migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				return withMigrator(func(m migrator) error {
					if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("down failed: %w", err)
					}
					slog.Info("migrations: down completed", "steps", steps)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m migrator) error {
					v, dirty, err := m.Version()
					if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
						return fmt.Errorf("version failed: %w", err)
					}
					_, err = fmt.Fprintf(out, "version: %d  dirty: %v\n", v, dirty)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "force V",
			Short: "Set the migration version without running migrations (clears dirty state)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("force: invalid version %q", args[0])
				}
				return withMigrator(func(m migrator) error {
					if err := m.Force(v); err != nil {
						return fmt.Errorf("force failed: %w", err)
					}
					slog.Info("migrations: forced", "version", v)
					return nil
				})
			},
		},
	)
	return root
}

// parseSteps reads the optional step count of "down".
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("down: invalid steps argument %q", args[0])
	}
	return n, nil
}

// migrationsDir picks the dialect subdirectory of base from the database URL scheme.
func migrationsDir(base, databaseURL string) (string, error) {
	scheme, _, ok := strings.Cut(databaseURL, "://")
	if !ok || scheme == "" {
		return "", errors.New("invalid DATABASE_URL: missing scheme")
	}
	switch scheme {
	case "mysql":
		return filepath.Join(base, "mysql"), nil
	case "postgres", "postgresql":
		return filepath.Join(base, "postgres"), nil
	case "sqlite3":
		return filepath.Join(base, "sqlite"), nil
	default:
		return "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
