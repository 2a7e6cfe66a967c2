package todo

import (
	"errors"
	"time"
)

// Priority bounds. 1 is the most urgent, 5 the least.
const (
	MinPriority = 1
	MaxPriority = 5

	// DefaultPriority is assigned when a create request omits priority.
	DefaultPriority = 3

	maxTitleLength = 256
)

// Todo is a single task owned by exactly one user. OwnerID is set at
// creation and immutable; updates never touch it.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    int       `json:"priority"`
	Complete    bool      `json:"complete"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ResourceOwner returns the owning user's ID, making Todo a resource
// the auth policy layer can evaluate.
func (t *Todo) ResourceOwner() string {
	return t.OwnerID
}

// IsValidPriority reports whether p is within the accepted range.
func IsValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}

var (
	// ErrNotFound indicates the todo does not exist.
	ErrNotFound = errors.New("todo not found")

	// ErrInvalidTitle indicates an empty or oversized title.
	ErrInvalidTitle = errors.New("title must be 1-256 characters")

	// ErrInvalidPriority indicates a priority outside 1-5.
	ErrInvalidPriority = errors.New("priority must be between 1 and 5")
)
