// Package storage persists users and ledger entries in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"kharcha/internal/core"
)

// ErrDuplicateUser reports a username or email that is already taken.
var ErrDuplicateUser = errors.New("user already exists")

// User is a stored account. PasswordHash is a bcrypt hash, never plaintext.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PendingSyncEntry is the minimal view of an entry awaiting export.
type PendingSyncEntry struct {
	ID        string
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new account. Username and email collisions return
// ErrDuplicateUser.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (User, error) {
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return User{}, ErrDuplicateUser
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// GetUserByLogin looks an account up by username or email.
func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, identifier string) (User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ? OR email = ?`,
		identifier, identifier))
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, core.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// AppendEntries stores a batch of entries for ownerID in one transaction and
// returns them with their assigned IDs. An unknown owner fails with
// core.ErrNotFound and nothing is written.
func (r *SQLiteRepository) AppendEntries(ctx context.Context, ownerID string, entries []core.Entry) ([]core.Entry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, ownerID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check owner: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("owner %s: %w", ownerID, core.ErrNotFound)
	}

	stored := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		e.ID = uuid.NewString()
		e.OwnerID = ownerID

		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries
			   (id, user_id, expense_item, expense_cents, expense_date, saving_option, saving_cents, saving_date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.OwnerID,
			nullIfEmpty(e.ExpenseItem), e.ExpenseAmount.Cents, nullDate(e.ExpenseDate),
			nullIfEmpty(e.SavingOption), e.SavingAmount.Cents, nullDate(e.SavingDate),
			time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("insert entry: %w", err)
		}

		stored = append(stored, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return stored, nil
}

// ListByOwner returns all entries belonging to ownerID, oldest insert first.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, expense_item, expense_cents, expense_date, saving_option, saving_cents, saving_date
		   FROM entries WHERE user_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, expense_item, expense_cents, expense_date, saving_option, saving_cents, saving_date
		   FROM entries WHERE id = ?`, id)
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Entry{}, fmt.Errorf("get entry: %w", err)
		}
		return core.Entry{}, core.ErrNotFound
	}

	return scanEntry(rows)
}

// GetPendingSyncEntries returns up to limit entries still waiting for export.
func (r *SQLiteRepository) GetPendingSyncEntries(ctx context.Context, limit int) ([]PendingSyncEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM entries WHERE sync_status = 'pending' ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync entries: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncEntry
	for rows.Next() {
		var p PendingSyncEntry
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending entries: %w", err)
	}

	return pending, nil
}

// MarkSynced records a successful export of the entry.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	return nil
}

// MarkSyncError records a failed export so the batch sweep can retry it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	return nil
}

func scanEntry(rows *sql.Rows) (core.Entry, error) {
	var (
		e            core.Entry
		expenseItem  sql.NullString
		expenseDate  sql.NullString
		savingOption sql.NullString
		savingDate   sql.NullString
	)

	err := rows.Scan(&e.ID, &e.OwnerID,
		&expenseItem, &e.ExpenseAmount.Cents, &expenseDate,
		&savingOption, &e.SavingAmount.Cents, &savingDate)
	if err != nil {
		return core.Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	e.ExpenseItem = expenseItem.String
	e.SavingOption = savingOption.String
	if expenseDate.Valid {
		// Rows written before date validation existed may hold junk. A
		// failed parse leaves the date empty rather than erroring.
		e.ExpenseDate, _ = core.ParseDate(expenseDate.String)
	}
	if savingDate.Valid {
		e.SavingDate, _ = core.ParseDate(savingDate.String)
	}

	return e, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(d core.Date) sql.NullString {
	if d.IsEmpty() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}
