package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
)

// Reconciler brings a live database into the shape the code expects without
// a migration-version table. It inspects the catalog and applies whatever
// forward step is missing; running it any number of times converges to the
// same state. It runs once at startup and again on every health check.
type Reconciler struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewReconciler creates a new schema reconciler
func NewReconciler(db *sql.DB, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		db:     db,
		logger: logger,
	}
}

// baselineSchema is applied in full when the database is empty. The users
// table carries password_hash from the start; decisions and items reference
// their owners so the reconciler never has to repair those shapes.
const baselineSchema = `
CREATE TABLE users (
	id SERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE decisions (
	id SERIAL PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	archived BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE items (
	id SERIAL PRIMARY KEY,
	decision_id INTEGER NOT NULL REFERENCES decisions(id),
	text TEXT NOT NULL,
	weight DOUBLE PRECISION NOT NULL DEFAULT 0,
	type TEXT NOT NULL DEFAULT 'pro' CHECK (type IN ('pro', 'con'))
);
`

// Reconcile inspects the live schema and migrates it forward. After it
// returns nil the users table exists and stores credentials under
// password_hash, so request handlers never branch on schema shape.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	usersExists, err := r.tableExists(ctx, "users")
	if err != nil {
		return fmt.Errorf("failed to probe users table: %w", err)
	}

	if !usersExists {
		r.logger.Info("🔄 [Schema] No schema found, applying baseline")
		if _, err := r.db.ExecContext(ctx, baselineSchema); err != nil {
			if isConvergedRace(err) {
				// Another instance applied the baseline first
				r.logger.Warn("⚠️ [Schema] Baseline raced with another instance, already applied")
				return nil
			}
			return fmt.Errorf("failed to apply baseline schema: %w", err)
		}
		r.logger.Info("✅ [Schema] Baseline schema applied")
		return nil
	}

	hasHash, err := r.columnExists(ctx, "users", "password_hash")
	if err != nil {
		return fmt.Errorf("failed to probe password_hash column: %w", err)
	}
	hasPlain, err := r.columnExists(ctx, "users", "password")
	if err != nil {
		return fmt.Errorf("failed to probe password column: %w", err)
	}

	switch {
	case !hasHash && hasPlain:
		// Legacy layout: keep the credential data, fix the name
		r.logger.Info("🔄 [Schema] Renaming users.password to users.password_hash")
		if _, err := r.db.ExecContext(ctx, `ALTER TABLE users RENAME COLUMN password TO password_hash`); err != nil {
			if isConvergedRace(err) {
				r.logger.Warn("⚠️ [Schema] Rename raced with another instance, already applied")
				return nil
			}
			return fmt.Errorf("failed to rename password column: %w", err)
		}
	case !hasHash && !hasPlain:
		// Degraded: pre-existing rows get an unusable empty credential and
		// their owners must re-register
		r.logger.Warn("⚠️ [Schema] No credential column found, adding empty password_hash")
		if _, err := r.db.ExecContext(ctx, `ALTER TABLE users ADD COLUMN password_hash TEXT NOT NULL DEFAULT ''`); err != nil {
			if isConvergedRace(err) {
				r.logger.Warn("⚠️ [Schema] Column add raced with another instance, already applied")
				return nil
			}
			return fmt.Errorf("failed to add password_hash column: %w", err)
		}
	default:
		r.logger.Debug("✅ [Schema] Schema up to date")
	}

	return nil
}

func (r *Reconciler) tableExists(ctx context.Context, tableName string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`
	err := r.db.QueryRowContext(ctx, query, tableName).Scan(&exists)
	return exists, err
}

func (r *Reconciler) columnExists(ctx context.Context, tableName, columnName string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`
	err := r.db.QueryRowContext(ctx, query, tableName, columnName).Scan(&exists)
	return exists, err
}

// isConvergedRace reports whether err means a concurrent reconciler already
// performed the step this instance was about to: duplicate table (42P07),
// duplicate column (42701), or the rename source already gone (42703).
func isConvergedRace(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "42P07", "42701", "42703":
		return true
	}
	return false
}
