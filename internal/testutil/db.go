package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/target/jobops-api/internal/migrate"
)

// TestDBConfig locates the integration database. The default port matches the
// docker-compose test profile; CI sets TEST_DB_PORT=5432. Ephemeral and Require
// accept the loose truthy values of envBool.
type TestDBConfig struct {
	Host      string `env:"TEST_DB_HOST"      envDefault:"localhost"`
	Port      int    `env:"TEST_DB_PORT"      envDefault:"55432"`
	User      string `env:"TEST_DB_USER"      envDefault:"jobops"`
	Password  string `env:"TEST_DB_PASSWORD"  envDefault:"jobops"`
	DBName    string `env:"TEST_DB_NAME"      envDefault:"jobops"`
	SSLMode   string `env:"DB_SSL_MODE"       envDefault:"disable"`
	Ephemeral bool
	Require   bool
}

// DefaultTestDBConfig reads TestDBConfig from the environment.
func DefaultTestDBConfig() TestDBConfig {
	cfg, err := env.ParseAs[TestDBConfig]()
	if err != nil {
		// malformed values fall back to defaults
		cfg = TestDBConfig{Host: "localhost", Port: 55432, User: "jobops", Password: "jobops", DBName: "jobops", SSLMode: "disable"}
	}
	cfg.Ephemeral = envBool("TEST_DB_EPHEMERAL")
	cfg.Require = envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA")
	return cfg
}

// DSN renders the config as a connection URL, optionally pinned to a search_path.
func (c TestDBConfig) DSN(searchPath string) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	if searchPath != "" {
		q.Set("search_path", searchPath)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// TestingTB covers *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// cleanupTables lists every table in foreign key order, children first.
var cleanupTables = []string{"job_task_equipment", "job_tasks", "jobs", "equipment", "users"}

func openPinged(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SkipIfNoTestDB skips t when the integration database cannot be reached.
// TEST_REQUIRE_DB or TEST_REQUIRE_INFRA turns the skip into a failure.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()
	cfg := DefaultTestDBConfig()
	db, err := openPinged(cfg.DSN(""), 2*time.Second)
	if err != nil {
		if cfg.Require {
			t.Fatal("test database not available:", err)
		}
		t.Skip("test database not available:", err)
		return
	}
	closeAndLog(t, "probe DB", db)
}

// SetupTestDB connects to the shared test database, migrates it and empties every table.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := openPinged(DefaultTestDBConfig().DSN(""), 5*time.Second)
	if err != nil {
		t.Fatal("connect test database (is docker-compose up?):", err)
	}
	migrateDB(t, db)
	CleanupTestDB(t, db)
	return db
}

// CleanupTestDB deletes all rows from the jobops tables.
func CleanupTestDB(t TestingTB, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, table := range cleanupTables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("clean table %s: %v", table, err)
		}
	}
}

// WithAutoDB runs fn against a fresh database. TEST_DB_EPHEMERAL selects a
// throwaway schema per test, otherwise the shared database is emptied before and after.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	if DefaultTestDBConfig().Ephemeral {
		fn(SetupEphemeralSchemaDB(t))
		return
	}
	db := SetupTestDB(t)
	defer func() {
		CleanupTestDB(t, db)
		closeAndLog(t, "test DB", db)
	}()
	fn(db)
}

// SetupEphemeralSchemaDB creates a uniquely named schema, migrates it and drops it on cleanup.
func SetupEphemeralSchemaDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)
	cfg := DefaultTestDBConfig()

	admin, err := openPinged(cfg.DSN(""), 5*time.Second)
	if err != nil {
		t.Fatal("open admin DB:", err)
	}

	schema := schemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema); err != nil {
		closeAndLog(t, "admin DB", admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := openPinged(cfg.DSN(schema+",public"), 10*time.Second)
	if err != nil {
		closeAndLog(t, "admin DB", admin)
		t.Fatal("open schema-scoped DB:", err)
	}
	db.SetMaxOpenConns(10)

	t.Logf("using ephemeral schema %s", schema)
	drop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		closeAndLog(t, "schema DB", db)
		if _, err := admin.ExecContext(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		closeAndLog(t, "admin DB", admin)
	}
	if tc, ok := t.(interface{ Cleanup(func()) }); ok {
		tc.Cleanup(drop)
	} else {
		defer drop()
	}

	migrateDB(t, db)
	return db
}

func migrateDB(t TestingTB, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := migrate.Run(ctx, db); err != nil {
		t.Fatal("run migrations:", err)
	}
}

func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t_%d", time.Now().UnixNano())
	}
	return "t_" + hex.EncodeToString(b)
}

func closeAndLog(t TestingTB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("close %s: %v", name, err)
	}
}
