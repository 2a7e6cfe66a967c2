package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dwhitburn/taskvault/internal/auth"
)

// Repository defines the interface for todo persistence. An absent todo
// is reported as ErrNotFound, never as a nil success.
type Repository interface {
	Create(ctx context.Context, item *Todo) error
	GetByID(ctx context.Context, id string) (*Todo, error)
	List(ctx context.Context) ([]Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Todo, error)
	Update(ctx context.Context, item *Todo) error
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed todo repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const todoColumns = "id, title, description, priority, complete, owner_id, created_at, updated_at"

// Create inserts a new todo. The ID is generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, item *Todo) error {
	if item.ID == "" {
		item.ID = "tdo-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	item.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	item.UpdatedAt = item.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, title, description, priority, complete, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, nullString(item.Description), item.Priority,
		boolToInt(item.Complete), item.OwnerID, now, now,
	)
	if err != nil {
		return fmt.Errorf("creating todo: %w: %w", auth.ErrStoreUnavailable, err)
	}

	return nil
}

// GetByID retrieves a todo by its unique ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Todo, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	return scanTodoFrom(row)
}

// List returns all todos regardless of owner, ordered by creation date.
func (r *SQLiteRepository) List(ctx context.Context) ([]Todo, error) {
	return r.queryTodos(ctx,
		"SELECT "+todoColumns+" FROM todos ORDER BY created_at ASC")
}

// ListByOwner returns the todos belonging to a single user, ordered by
// priority (most urgent first) then creation date.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]Todo, error) {
	return r.queryTodos(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE owner_id = ? ORDER BY priority ASC, created_at ASC",
		ownerID)
}

// Update modifies a todo's mutable fields. OwnerID is immutable, so the
// statement never touches it.
func (r *SQLiteRepository) Update(ctx context.Context, item *Todo) error {
	now := time.Now().UTC().Format(time.RFC3339)
	item.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, priority = ?, complete = ?, updated_at = ? WHERE id = ?`,
		item.Title, nullString(item.Description), item.Priority,
		boolToInt(item.Complete), now, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating todo: %w: %w", auth.ErrStoreUnavailable, err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a todo by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo: %w: %w", auth.ErrStoreUnavailable, err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByOwner returns the number of todos a user owns.
func (r *SQLiteRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM todos WHERE owner_id = ?", ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting todos: %w: %w", auth.ErrStoreUnavailable, err)
	}
	return count, nil
}

func (r *SQLiteRepository) queryTodos(ctx context.Context, query string, args ...any) ([]Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w: %w", auth.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var items []Todo
	for rows.Next() {
		item, err := scanTodoFrom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w: %w", auth.ErrStoreUnavailable, err)
	}

	if items == nil {
		items = []Todo{}
	}
	return items, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanTodoFrom scans a todo from any scanner (Row or Rows).
func scanTodoFrom(s scanner) (*Todo, error) {
	var item Todo
	var description sql.NullString
	var complete int
	var createdAt, updatedAt string

	err := s.Scan(&item.ID, &item.Title, &description, &item.Priority,
		&complete, &item.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning todo: %w: %w", auth.ErrStoreUnavailable, err)
	}

	item.Complete = complete != 0
	if description.Valid {
		item.Description = description.String
	}

	item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	item.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &item, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
