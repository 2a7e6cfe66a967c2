package todo

import (
	"context"
	"fmt"
	"strings"

	"github.com/dwhitburn/taskvault/internal/auth"
)

// Service coordinates todo operations, enforcing validation and the
// access policy before anything reaches storage.
type Service struct {
	repo Repository
}

// NewService creates a new todo service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the caller-supplied fields for a new todo.
// Priority 0 means "use the default".
type CreateInput struct {
	Title       string
	Description string
	Priority    int
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *int
	Complete    *bool
}

// Create validates the input and stores a new todo owned by the caller.
func (s *Service) Create(ctx context.Context, p *auth.Principal, in CreateInput) (*Todo, error) {
	if err := auth.Authorize(p, nil, auth.OpCreate); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLength {
		return nil, ErrInvalidTitle
	}

	priority := in.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	if !IsValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	item := &Todo{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		OwnerID:     p.UserID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get retrieves a single todo if the caller owns it or is an admin.
func (s *Service) Get(ctx context.Context, p *auth.Principal, id string) (*Todo, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, item, auth.OpRead); err != nil {
		return nil, err
	}
	return item, nil
}

// ListMine returns the caller's own todos.
func (s *Service) ListMine(ctx context.Context, p *auth.Principal) ([]Todo, error) {
	if p == nil {
		return nil, auth.ErrForbidden
	}
	return s.repo.ListByOwner(ctx, p.UserID)
}

// ListAll returns every todo in the system. Admin only.
func (s *Service) ListAll(ctx context.Context, p *auth.Principal) ([]Todo, error) {
	if p == nil || !p.IsAdmin() {
		return nil, auth.ErrForbidden
	}
	return s.repo.List(ctx)
}

// Update applies a partial update to a todo the caller may modify.
// Ownership never changes, whoever performs the update.
func (s *Service) Update(ctx context.Context, p *auth.Principal, id string, in UpdateInput) (*Todo, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, item, auth.OpUpdate); err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, ErrInvalidTitle
		}
		item.Title = title
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		if !IsValidPriority(*in.Priority) {
			return nil, ErrInvalidPriority
		}
		item.Priority = *in.Priority
	}
	if in.Complete != nil {
		item.Complete = *in.Complete
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a todo the caller may delete.
func (s *Service) Delete(ctx context.Context, p *auth.Principal, id string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(p, item, auth.OpDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("deleting todo %s: %w", item.ID, err)
	}
	return nil
}
