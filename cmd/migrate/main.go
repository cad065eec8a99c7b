// Command migrate manages the postgres schema for the ledger. Sqlite
// installs do not use it; they sync the schema at server startup.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/negoce/backend/internal/infrastructure/config"
	"github.com/negoce/backend/internal/infrastructure/logger"
	"github.com/negoce/backend/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

var usage = `Negoce schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show current schema version
  force <version>       Overwrite the recorded version (repair only)
  drop -confirm         Drop all database objects
  create <name> [desc]  Create an empty up/down migration pair
  list                  List migration files

Flags:
  -path string          Migrations directory (default: ./migrations)
  -log-level string     debug, info, warn or error (default: info)

The database connection comes from the server configuration, so the
NEGOCE_DATABASE_* environment variables apply here too.

Examples:
  migrate up
  migrate step -1
  migrate create add_lot_supplier "Track the supplier on each lot"`

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println(usage)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(args, resolvePath(migrationsPath), log); err != nil {
		log.Fatal("migration command failed", zap.Error(err))
	}
}

func run(args []string, path string, log *zap.Logger) error {
	command := args[0]
	args = args[1:]

	log.Info("migration command", zap.String("command", command), zap.String("path", path))

	// create and list work on files alone
	switch command {
	case "create":
		return createMigration(args, path, log)
	case "list":
		return listMigrations(path, log)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("versioned migrations require database.driver=postgres, got %q", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, path, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "target version")
		if err != nil || v < 0 {
			return fmt.Errorf("goto needs a non-negative version")
		}
		return m.GoTo(uint(v))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("no migrations applied")
		} else {
			log.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		return nil
	case "force":
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		log.Warn("forcing recorded schema version", zap.Int("version", v))
		return m.Force(v)
	case "drop":
		if !hasConfirmFlag(args) {
			return fmt.Errorf("drop destroys every table; rerun as 'migrate drop -confirm'")
		}
		return m.Drop()
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func createMigration(args []string, path string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(path, args[0], description)
	if err != nil {
		return err
	}
	log.Info("migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func listMigrations(path string, log *zap.Logger) error {
	migrations, err := migration.ListMigrations(path)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		log.Info("no migrations found")
		return nil
	}
	log.Info("available migrations", zap.Int("count", len(migrations)))
	for _, m := range migrations {
		fmt.Println("  -", m)
	}
	return nil
}

// resolvePath finds the migrations directory: the flag wins, then the
// working directory, then the directory two levels above the binary (the
// repo root when running a built cmd/migrate binary).
func resolvePath(flagPath string) string {
	if flagPath != "" {
		return mustAbs(flagPath)
	}
	if _, err := os.Stat(defaultMigrationsPath); err == nil {
		return mustAbs(defaultMigrationsPath)
	}
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsPath)
		if _, err := os.Stat(candidate); err == nil {
			return mustAbs(candidate)
		}
	}
	return mustAbs(defaultMigrationsPath)
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

func hasConfirmFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return true
		}
	}
	return false
}
