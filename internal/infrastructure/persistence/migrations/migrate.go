// Package migrations versions the postgres schema of recipes, profiles,
// preference snapshots, plans and grocery overlays
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migrator applies the embedded postgres schema
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a new migrator for the named database. It holds one
// connection from db until Close.
func New(db *sql.DB, databaseName string, logger *zap.Logger) (*Migrator, error) {
	source, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("failed to acquire migration connection: %w", err)
	}
	// WithConnection leaves db open on Close; WithInstance would close it
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{
		MigrationsTable: "schema_migrations",
		DatabaseName:    databaseName,
	})
	if err != nil {
		_ = conn.Close()
		_ = source.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{
		migrate: m,
		logger:  logger.Named("migrations"),
	}, nil
}

// ErrDirty is returned by Up when a previous run failed half way.
// Inspect the schema, then call Force with the last good version.
var ErrDirty = errors.New("schema is dirty")

// Up runs all pending migrations
func (m *Migrator) Up() error {
	start := time.Now()

	from, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("version %d: %w", from, ErrDirty)
	}

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to run", zap.Uint("current_version", from))
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	to, _, _ := m.Version()
	m.logger.Info("Migrations completed",
		zap.Uint("from_version", from),
		zap.Uint("to_version", to),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Down rolls back one migration
func (m *Migrator) Down() error {
	if err := m.migrate.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	m.logger.Info("Migration rolled back")
	return nil
}

// Reset rolls back all migrations
func (m *Migrator) Reset() error {
	m.logger.Warn("Resetting all migrations")
	if err := m.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to reset migrations: %w", err)
	}
	return nil
}

// Force records version as applied and clears the dirty flag
func (m *Migrator) Force(version int) error {
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	m.logger.Warn("Schema version forced", zap.Int("version", version))
	return nil
}

// Version returns the current migration version; 0 when nothing was applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close releases the source and returns the connection to the pool.
// The database handle stays open for the caller.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to release migration connection: %w", dbErr)
	}
	return nil
}

// ActionKind names a migration command
type ActionKind string

const (
	ActionUp      ActionKind = "up"
	ActionDown    ActionKind = "down"
	ActionReset   ActionKind = "reset"
	ActionForce   ActionKind = "force"
	ActionVersion ActionKind = "version"
)

// Action is a parsed migration command; Version is set for force
type Action struct {
	Kind    ActionKind
	Version int
}

// ErrUnknownAction is returned by ParseAction for unrecognized commands
var ErrUnknownAction = errors.New("unknown migration action")

// ParseAction reads up, down, reset, version or force:N
func ParseAction(s string) (Action, error) {
	kind, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	switch ActionKind(kind) {
	case ActionUp, ActionDown, ActionReset, ActionVersion:
		if hasArg {
			return Action{}, fmt.Errorf("%q takes no argument: %w", kind, ErrUnknownAction)
		}
		return Action{Kind: ActionKind(kind)}, nil
	case ActionForce:
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 {
			return Action{}, fmt.Errorf("force needs a version, e.g. force:1: %w", ErrUnknownAction)
		}
		return Action{Kind: ActionForce, Version: v}, nil
	}
	return Action{}, fmt.Errorf("%q: %w", s, ErrUnknownAction)
}

// Run executes a and logs the resulting schema version
func (m *Migrator) Run(a Action) error {
	var err error
	switch a.Kind {
	case ActionUp:
		err = m.Up()
	case ActionDown:
		err = m.Down()
	case ActionReset:
		err = m.Reset()
	case ActionForce:
		err = m.Force(a.Version)
	case ActionVersion:
	default:
		return fmt.Errorf("%q: %w", a.Kind, ErrUnknownAction)
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	m.logger.Info("Schema version",
		zap.String("action", string(a.Kind)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
