package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/1kta4/finances/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Remote table schema. Rows are scoped by user_id; row-level access policy
// is the remote service's concern. "interval" is quoted because it is a
// reserved word in Postgres.
const (
	createRemoteCategoriesSQL = `
	CREATE TABLE IF NOT EXISTS categories (
		user_id    TEXT NOT NULL,
		id         TEXT NOT NULL,
		name       TEXT NOT NULL,
		type       TEXT NOT NULL,
		is_custom  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, id)
	);`

	createRemoteTransactionsSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		user_id         TEXT NOT NULL,
		id              TEXT NOT NULL,
		category_id     TEXT NOT NULL,
		type            TEXT NOT NULL,
		amount          NUMERIC(12,2) NOT NULL,
		item_name       TEXT,
		description     TEXT,
		method          TEXT NOT NULL,
		date            TIMESTAMPTZ NOT NULL,
		is_subscription BOOLEAN NOT NULL DEFAULT FALSE,
		"interval"      TEXT,
		custom_months   INTEGER,
		parent_id       TEXT,
		next_occurrence TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, id)
	);`

	createRemoteGoalsSQL = `
	CREATE TABLE IF NOT EXISTS goals (
		user_id        TEXT NOT NULL,
		id             TEXT NOT NULL,
		title          TEXT NOT NULL,
		target_amount  NUMERIC(12,2) NOT NULL,
		current_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		deadline       TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, id)
	);`

	createRemoteSettingsSQL = `
	CREATE TABLE IF NOT EXISTS settings (
		user_id        TEXT PRIMARY KEY,
		last_backup_at TIMESTAMPTZ
	);`
)

// PostgresRemote implements RemoteStore against the backup Postgres peer.
type PostgresRemote struct {
	db *pgxpool.Pool
}

// NewPostgresRemote wraps a pgx pool.
func NewPostgresRemote(db *pgxpool.Pool) *PostgresRemote {
	return &PostgresRemote{db: db}
}

// Setup creates the remote tables if absent. Idempotent.
func (r *PostgresRemote) Setup(ctx context.Context) error {
	for _, q := range []string{
		createRemoteCategoriesSQL,
		createRemoteTransactionsSQL,
		createRemoteGoalsSQL,
		createRemoteSettingsSQL,
	} {
		if _, err := r.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("create remote table: %w", err)
		}
	}
	return nil
}

// Replace swaps the user's remote ledger for the snapshot in one remote
// transaction: delete transactions, goals and custom categories, re-insert
// from the snapshot, stamp the backup time.
func (r *PostgresRemote) Replace(ctx context.Context, userID string, snap Snapshot, backupAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin remote tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear remote transactions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM goals WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear remote goals: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE user_id = $1 AND is_custom`, userID); err != nil {
		return fmt.Errorf("clear remote custom categories: %w", err)
	}

	for i := range snap.Categories {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := &snap.Categories[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO categories (user_id, id, name, type, is_custom, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, userID, c.ID, c.Name, c.Type, c.IsCustom.Bool(), c.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert remote category %q: %w", c.Name, err)
		}
	}

	for i := range snap.Transactions {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := &snap.Transactions[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (
				user_id, id, category_id, type, amount, item_name, description,
				method, date, is_subscription, "interval", custom_months,
				parent_id, next_occurrence, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, userID, t.ID, t.CategoryID, t.Type, t.Amount, t.ItemName, t.Description,
			t.Method, t.Date, t.IsSubscription.Bool(), t.Interval, t.CustomMonths,
			t.ParentID, t.NextOccurrence, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert remote transaction %s: %w", t.ID, err)
		}
	}

	for i := range snap.Goals {
		if err := ctx.Err(); err != nil {
			return err
		}
		g := &snap.Goals[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO goals (user_id, id, title, target_amount, current_amount, deadline, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, userID, g.ID, g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline, g.CreatedAt, g.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert remote goal %q: %w", g.Title, err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO settings (user_id, last_backup_at) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET last_backup_at = EXCLUDED.last_backup_at
	`, userID, backupAt); err != nil {
		return fmt.Errorf("stamp remote backup: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit remote tx: %w", err)
	}
	return nil
}

// Fetch returns the user's remote ledger: custom categories, all
// transactions, all goals.
func (r *PostgresRemote) Fetch(ctx context.Context, userID string) (Snapshot, error) {
	var snap Snapshot

	rows, err := r.db.Query(ctx, `
		SELECT id, name, type, is_custom, created_at
		FROM categories
		WHERE user_id = $1 AND is_custom
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch remote categories: %w", err)
	}
	snap.Categories, err = scanAll(rows, func(row pgx.Rows) (models.Category, error) {
		var c models.Category
		var isCustom bool
		err := row.Scan(&c.ID, &c.Name, &c.Type, &isCustom, &c.CreatedAt)
		c.IsCustom = models.Flag(isCustom)
		return c, err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan remote categories: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, category_id, type, amount, item_name, description, method,
		       date, is_subscription, "interval", custom_months, parent_id,
		       next_occurrence, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date ASC
	`, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch remote transactions: %w", err)
	}
	snap.Transactions, err = scanAll(rows, func(row pgx.Rows) (models.Transaction, error) {
		var t models.Transaction
		var isSubscription bool
		err := row.Scan(&t.ID, &t.CategoryID, &t.Type, &t.Amount, &t.ItemName,
			&t.Description, &t.Method, &t.Date, &isSubscription, &t.Interval,
			&t.CustomMonths, &t.ParentID, &t.NextOccurrence, &t.CreatedAt, &t.UpdatedAt)
		t.IsSubscription = models.Flag(isSubscription)
		return t, err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan remote transactions: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, title, target_amount, current_amount, deadline, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch remote goals: %w", err)
	}
	snap.Goals, err = scanAll(rows, func(row pgx.Rows) (models.Goal, error) {
		var g models.Goal
		err := row.Scan(&g.ID, &g.Title, &g.TargetAmount, &g.CurrentAmount,
			&g.Deadline, &g.CreatedAt, &g.UpdatedAt)
		return g, err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan remote goals: %w", err)
	}

	return snap, nil
}

func scanAll[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
