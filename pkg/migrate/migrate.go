package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	// DefaultRoot is where the per-dialect migration directories live on disk.
	DefaultRoot = "pkg/migrate/migrations"
)

var dialects = []string{DialectPostgres, DialectSQLite}

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedded embed.FS

// goose keeps dialect and base FS as package globals.
var gooseMu sync.Mutex

// DefaultDir returns the on-disk migration directory for a dialect.
func DefaultDir(dialect string) string {
	return path.Join(DefaultRoot, dialect)
}

// Up applies every embedded migration for the dialect. Used by the API on boot
// and by tests that need a real schema.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	sub, err := embeddedDir(dialect)
	if err != nil {
		return err
	}
	return run(ctx, db, dialect, sub, ".", "up")
}

// Run executes a standard goose command against migrations on disk.
func Run(ctx context.Context, db *sql.DB, dialect string, dir string, command string, args ...string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return run(ctx, db, dialect, nil, dir, command, args...)
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect string, dir string, targetVersion string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configure(dialect, nil); err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}

func run(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configure(dialect, fsys); err != nil {
		return err
	}

	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// configure must be called with gooseMu held. A nil fsys means the OS filesystem.
func configure(dialect string, fsys fs.FS) error {
	name, err := gooseDialect(dialect)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(name); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(fsys)
	return nil
}

func gooseDialect(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

func embeddedDir(dialect string) (fs.FS, error) {
	if _, err := gooseDialect(dialect); err != nil {
		return nil, err
	}
	sub, err := fs.Sub(embedded, path.Join("migrations", dialect))
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return sub, nil
}
