package todo

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dwhitburn/taskvault/internal/auth"
)

// testDB creates a temporary SQLite database with the todos schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE todos (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		priority INTEGER NOT NULL DEFAULT 3,
		complete INTEGER NOT NULL DEFAULT 0,
		owner_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	) STRICT;
	CREATE INDEX idx_todos_owner ON todos(owner_id);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

func testPrincipal(userID string, role auth.Role) *auth.Principal {
	return &auth.Principal{UserID: userID, Username: userID, Role: role}
}

func seedTodo(t *testing.T, repo Repository, ownerID, title string) *Todo {
	t.Helper()

	item := &Todo{Title: title, Priority: DefaultPriority, OwnerID: ownerID}
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("seeding todo: %v", err)
	}
	return item
}
