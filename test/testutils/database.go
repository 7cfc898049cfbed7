// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/migrations"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/sqlite"
)

// PostgresEnv opts into container-backed tests, e.g. FOODI_TEST_POSTGRES=1
const PostgresEnv = "FOODI_TEST_POSTGRES"

// NewSQLiteDB returns a migrated private in-memory database closed at test end
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase("", nil)
	require.NoError(t, err, "Failed to create sqlite database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewSeededSQLiteDB returns an in-memory database holding the demo catalog
func NewSeededSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := NewSQLiteDB(t)
	require.NoError(t, sqlite.SeedDatabase(context.Background(), db), "Failed to seed sqlite database")
	return db
}

// TestDatabase is a migrated postgres container
type TestDatabase struct {
	Container testcontainers.Container
	DB        *sql.DB
	GormDB    *gorm.DB
	DSN       string
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "foodi_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432",
	}
}

// SetupTestDatabase starts postgres in a container and applies the embedded
// migrations. The test is skipped in -short mode or unless PostgresEnv is set.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() || os.Getenv(PostgresEnv) == "" {
		t.Skipf("postgres tests disabled; set %s=1 to run them", PostgresEnv)
	}
	return SetupTestDatabaseWithConfig(t, DefaultDatabaseConfig())
}

// SetupTestDatabaseWithConfig creates a test database with custom configuration
func SetupTestDatabaseWithConfig(t *testing.T, cfg DatabaseConfig) *TestDatabase {
	t.Helper()
	ctx := context.Background()

	url := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
	}

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        cfg.Image,
				ExposedPorts: []string{cfg.Port + "/tcp"},
				Env: map[string]string{
					"POSTGRES_DB":       cfg.Database,
					"POSTGRES_USER":     cfg.Username,
					"POSTGRES_PASSWORD": cfg.Password,
				},
				WaitingFor: wait.ForAll(
					wait.ForLog("database system is ready to accept connections").
						WithOccurrence(2).
						WithStartupTimeout(60*time.Second),
					wait.ForSQL(nat.Port(cfg.Port+"/tcp"), "pgx", url),
				),
				Tmpfs: map[string]string{
					"/var/lib/postgresql/data": "rw,noexec,nosuid,size=512m",
				},
			},
			Started: true,
		})
	require.NoError(t, err, "Failed to start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port(cfg.Port+"/tcp"))
	require.NoError(t, err)
	dsn := url(host, port)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.PingContext(ctx), "Failed to ping test database")

	migrator, err := migrations.New(db, cfg.Database, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up(), "Failed to migrate test database")
	require.NoError(t, migrator.Close())

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create GORM connection")

	td := &TestDatabase{Container: container, DB: db, GormDB: gormDB, DSN: dsn}
	t.Cleanup(td.Cleanup)
	return td
}

// TruncateAllTables empties every application table
func (td *TestDatabase) TruncateAllTables() error {
	_, err := td.DB.Exec(`TRUNCATE TABLE
		grocery_overlays, meal_plan_substitutions, meal_plan_slots, meal_plans,
		user_preferences, user_profiles, recipes
		RESTART IDENTITY CASCADE`)
	return err
}

// Cleanup closes the connection and terminates the container
func (td *TestDatabase) Cleanup() {
	if td.DB != nil {
		_ = td.DB.Close()
	}
	if td.Container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = td.Container.Terminate(ctx)
	}
}
