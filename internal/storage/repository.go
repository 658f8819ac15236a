// Package storage implements the SQL backends (SQLite and PostgreSQL)
// behind the ports interfaces.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
)

// Repository is a ports.Store over database/sql.
type Repository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLiteRepository opens (creating if needed) the SQLite database at
// dbPath and migrates it.
func NewSQLiteRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	repo, err := open(SQLite, dbPath)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
	repo.db.SetMaxOpenConns(1)
	return repo, nil
}

// NewPostgresRepository connects with a lib/pq DSN and migrates the schema.
func NewPostgresRepository(dsn string) (*Repository, error) {
	return open(Postgres, dsn)
}

func open(d Dialect, dsn string) (*Repository, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.Name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Repository{db: db, dialect: d}, nil
}

func (r *Repository) Dialect() Dialect { return r.dialect }

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, source, amount_cents, tx_date, tx_time, tx_type
		FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t    core.Transaction
			date string
			typ  string
		)
		if err := rows.Scan(&t.ID, &t.Category, &t.Source, &t.Amount.Cents, &date, &t.Time, &typ); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = core.DateOrZero(date)
		t.Type = core.TxType(typ)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) AppendTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
		INSERT INTO transactions (id, category, source, amount_cents, tx_date, tx_time, tx_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		t.ID, t.Category, t.Source, t.Amount.Cents, t.Date.String(), t.Time, string(t.Type))
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", t.ID, err)
	}
	return nil
}

func (r *Repository) LoadReminders(ctx context.Context) ([]core.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, amount_cents, due_date, recurrence,
		       email_enabled, user_email, email_sent, created_at
		FROM reminders ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	out := []core.Reminder{}
	for rows.Next() {
		var (
			rem        core.Reminder
			due        string
			recurrence string
			created    string
		)
		if err := rows.Scan(&rem.ID, &rem.Title, &rem.Description, &rem.Amount.Cents, &due, &recurrence,
			&rem.EmailEnabled, &rem.UserEmail, &rem.EmailSent, &created); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		rem.SetDueDateText(due)
		rem.Recurrence = core.Recurrence(recurrence)
		rem.CreatedAt = parseTimestamp(created)
		out = append(out, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return out, nil
}

// SaveReminders replaces the whole collection in one transaction.
func (r *Repository) SaveReminders(ctx context.Context, reminders []core.Reminder) error {
	return r.replaceAll(ctx, "reminders", len(reminders), `
		INSERT INTO reminders (position, id, title, description, amount_cents, due_date, recurrence,
		                       email_enabled, user_email, email_sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		func(i int) []any {
			rem := reminders[i]
			return []any{i, rem.ID, rem.Title, rem.Description, rem.Amount.Cents, rem.DueDateText(),
				string(rem.Recurrence), rem.EmailEnabled, rem.UserEmail, rem.EmailSent, formatTimestamp(rem.CreatedAt)}
		})
}

func (r *Repository) LoadUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, password_hash, created_at FROM users ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := []core.User{}
	for rows.Next() {
		var (
			u       core.User
			created string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.CreatedAt = parseTimestamp(created)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// SaveUsers replaces the whole user set in one transaction.
func (r *Repository) SaveUsers(ctx context.Context, users []core.User) error {
	return r.replaceAll(ctx, "users", len(users), `
		INSERT INTO users (position, id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		func(i int) []any {
			u := users[i]
			return []any{i, u.ID, u.Name, u.Email, u.PasswordHash, formatTimestamp(u.CreatedAt)}
		})
}

func (r *Repository) replaceAll(ctx context.Context, table string, n int, insert string, args func(i int) []any) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", table, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, r.dialect.Rebind(insert))
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err = stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
