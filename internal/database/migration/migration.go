// Package migration creates the schema on startup. Every step is idempotent.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created last, so its presence means every step has run.
const sentinelTable = "public.home_banners"

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         TEXT        PRIMARY KEY,
  name       TEXT        NOT NULL,
  role       TEXT        NOT NULL DEFAULT 'customer' CHECK (role IN ('customer', 'admin')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_orders",
		SQL: `CREATE TABLE IF NOT EXISTS orders (
  id            UUID             PRIMARY KEY,
  user_id       TEXT             NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  product_id    INTEGER          NOT NULL,
  price         DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (price >= 0),
  status        TEXT             NOT NULL,
  specification JSONB            NOT NULL DEFAULT '{}'::jsonb,
  created_at    TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_orders_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id, created_at DESC);`,
	},
	{
		Name: "create_index_orders_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);`,
	},
	{
		Name: "create_index_orders_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC);`,
	},
	{
		Name: "create_table_home_banners",
		SQL: `CREATE TABLE IF NOT EXISTS home_banners (
  id         UUID        PRIMARY KEY,
  object_key TEXT        NOT NULL UNIQUE,
  public_url TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated runs the schema steps unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()
	log := logrus.WithFields(logrus.Fields{"component": "database", "db_host": dbHost})

	log.Info("db_migration_check")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists); err != nil {
		log.WithError(err).WithField("duration_ms", time.Since(start).Milliseconds()).Error("db_migration_failed")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("db_migration_skip")
		return nil
	}

	log.Info("db_migration_start")
	for _, step := range steps {
		stepStart := time.Now()
		slog := log.WithField("migration_step", step.Name)
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			slog.WithError(err).WithField("step_duration_ms", time.Since(stepStart).Milliseconds()).Error("db_migration_failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		slog.WithField("step_duration_ms", time.Since(stepStart).Milliseconds()).Debug("db_migration_step")
	}

	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("db_migration_success")
	return nil
}
