package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dwhitburn/taskvault/internal/audit"
	"github.com/dwhitburn/taskvault/internal/auth"
	"github.com/dwhitburn/taskvault/internal/todo"
)

type createTodoRequest struct {
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description" validate:"max=4096"`
	Priority    int    `json:"priority" validate:"omitempty,min=1,max=5"`
}

type updateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Complete    *bool   `json:"complete,omitempty"`
}

// handleListTodos returns the caller's own todos.
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	items, err := s.todos.ListMine(r.Context(), p)
	if err != nil {
		s.logger.Error("list todos failed", "error", err)
		s.writeTodoError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todos": items,
		"count": len(items),
	})
}

// handleListAllTodos returns every todo in the system. Admin only,
// enforced by the router.
func (s *Server) handleListAllTodos(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	items, err := s.todos.ListAll(r.Context(), p)
	if err != nil {
		s.logger.Error("list all todos failed", "error", err)
		s.writeTodoError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todos": items,
		"count": len(items),
	})
}

// handleCreateTodo creates a todo owned by the caller.
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, "title is required and priority must be 1-5")
		return
	}

	item, err := s.todos.Create(r.Context(), p, todo.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		s.writeTodoError(w, err)
		return
	}

	s.auditLog(audit.ActionCreate, audit.EntityTodo, item.ID, p.UserID, map[string]any{
		"title": item.Title,
	})

	writeJSON(w, http.StatusCreated, item)
}

// handleGetTodo returns a single todo if the caller may read it.
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	item, err := s.todos.Get(r.Context(), p, id)
	if err != nil {
		s.auditDenied(p, id, err)
		s.writeTodoError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// handleUpdateTodo applies a partial update.
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	item, err := s.todos.Update(r.Context(), p, id, todo.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
	})
	if err != nil {
		s.auditDenied(p, id, err)
		s.writeTodoError(w, err)
		return
	}

	s.auditLog(audit.ActionUpdate, audit.EntityTodo, item.ID, p.UserID, nil)

	writeJSON(w, http.StatusOK, item)
}

// handleDeleteTodo removes a todo the caller may delete.
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.todos.Delete(r.Context(), p, id); err != nil {
		s.auditDenied(p, id, err)
		s.writeTodoError(w, err)
		return
	}

	s.auditLog(audit.ActionDelete, audit.EntityTodo, id, p.UserID, nil)

	w.WriteHeader(http.StatusNoContent)
}

// auditDenied records a denied access attempt on a todo.
func (s *Server) auditDenied(p *auth.Principal, todoID string, err error) {
	if !errors.Is(err, auth.ErrForbidden) {
		return
	}
	userID := ""
	if p != nil {
		userID = p.UserID
	}
	s.auditLog(audit.ActionDenied, audit.EntityTodo, todoID, userID, nil)
}

// writeTodoError maps domain errors from the todo service to HTTP
// responses.
func (s *Server) writeTodoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, todo.ErrNotFound):
		writeNotFound(w, "todo not found")
	case errors.Is(err, auth.ErrForbidden):
		writeForbidden(w, "access denied")
	case errors.Is(err, todo.ErrInvalidTitle):
		writeValidationError(w, "title must be 1-256 characters")
	case errors.Is(err, todo.ErrInvalidPriority):
		writeValidationError(w, "priority must be between 1 and 5")
	case errors.Is(err, auth.ErrStoreUnavailable):
		s.logger.Error("todo storage fault", "error", err)
		writeStoreUnavailable(w, "storage unavailable")
	default:
		s.logger.Error("todo operation failed", "error", err)
		writeInternalError(w, "operation failed")
	}
}
