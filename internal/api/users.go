package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dwhitburn/taskvault/internal/audit"
	"github.com/dwhitburn/taskvault/internal/auth"
)

type createUserRequest struct {
	Username string    `json:"username" validate:"required,max=64"`
	Password string    `json:"password" validate:"required,min=8,max=256"`
	Role     auth.Role `json:"role"`
	Phone    string    `json:"phone" validate:"omitempty,max=32"`
}

type updateUserRequest struct {
	Role     *auth.Role `json:"role,omitempty"`
	Phone    *string    `json:"phone,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}

// handleListUsers returns all user accounts.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		writeStoreUnavailable(w, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// handleCreateUser creates a new account with an explicit role.
// Unlike self-registration, admins may create other admins.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, "username and a password of at least 8 characters are required")
		return
	}

	user, err := s.accounts.Register(r.Context(), req.Username, req.Password, req.Role, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidUsername):
			writeValidationError(w, "username must be 1-64 characters of letters, digits, dot, underscore, or hyphen")
		case errors.Is(err, auth.ErrInvalidPassword):
			writeValidationError(w, "password must be at least 8 characters")
		case errors.Is(err, auth.ErrInvalidRole):
			writeValidationError(w, "role must be user or admin")
		case errors.Is(err, auth.ErrUsernameExists):
			writeConflict(w, "username already exists")
		case errors.Is(err, auth.ErrStoreUnavailable):
			s.logger.Error("create user failed", "error", err)
			writeStoreUnavailable(w, "storage unavailable")
		default:
			s.logger.Error("create user failed", "error", err)
			writeInternalError(w, "failed to create user")
		}
		return
	}

	s.logger.Info("user created", "user_id", user.ID, "username", user.Username, "role", user.Role, "created_by", p.UserID)
	s.auditLog(audit.ActionCreate, audit.EntityUser, user.ID, p.UserID, map[string]any{
		"username": user.Username,
		"role":     user.Role,
	})

	writeJSON(w, http.StatusCreated, user)
}

// handleGetUser returns a single user by ID.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("get user failed", "error", err)
		writeStoreUnavailable(w, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleUpdateUser modifies a user's mutable fields (role, phone,
// is_active). Username and ID are immutable.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p := principalFromContext(r.Context())

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("get user for update failed", "error", err)
		writeStoreUnavailable(w, "failed to update user")
		return
	}

	// Self-protection: cannot deactivate your own account
	if req.IsActive != nil && !*req.IsActive && id == p.UserID {
		writeForbidden(w, "cannot deactivate your own account")
		return
	}

	// Self-protection: cannot change your own role
	if req.Role != nil && id == p.UserID && *req.Role != p.Role {
		writeForbidden(w, "cannot change your own role")
		return
	}

	if req.Role != nil {
		if !auth.IsValidRole(*req.Role) {
			writeValidationError(w, "role must be user or admin")
			return
		}
		user.Role = *req.Role
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(r.Context(), user); err != nil {
		s.logger.Error("update user failed", "error", err)
		writeStoreUnavailable(w, "failed to update user")
		return
	}

	s.logger.Info("user updated", "user_id", id, "updated_by", p.UserID)
	s.auditLog(audit.ActionUpdate, audit.EntityUser, id, p.UserID, nil)

	writeJSON(w, http.StatusOK, user)
}

// handleDeleteUser removes a user account. Owned todos go with it via
// the foreign key cascade.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p := principalFromContext(r.Context())

	// Cannot delete yourself
	if id == p.UserID {
		writeForbidden(w, "cannot delete your own account")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("get user for delete failed", "error", err)
		writeStoreUnavailable(w, "failed to delete user")
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete user failed", "error", err)
		writeStoreUnavailable(w, "failed to delete user")
		return
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", p.UserID)
	s.auditLog(audit.ActionDelete, audit.EntityUser, id, p.UserID, map[string]any{
		"username": user.Username,
	})

	w.WriteHeader(http.StatusNoContent)
}
