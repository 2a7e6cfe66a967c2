package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dwhitburn/taskvault/internal/audit"
	"github.com/dwhitburn/taskvault/internal/auth"
)

// validate is the shared request validator. validator.Validate is safe
// for concurrent use and caches struct metadata.
var validate = validator.New()

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=256"`
}

type setPhoneRequest struct {
	Phone string `json:"phone" validate:"max=32"`
}

// handleLogin authenticates a user and returns an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, "username and password are required")
		return
	}

	result, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeUnauthorized(w, "invalid credentials")
		case errors.Is(err, auth.ErrUserInactive):
			writeForbidden(w, "account is deactivated")
		case errors.Is(err, auth.ErrStoreUnavailable):
			s.logger.Error("login failed", "error", err)
			writeStoreUnavailable(w, "storage unavailable")
		default:
			s.logger.Error("login failed", "error", err)
			writeInternalError(w, "login failed")
		}
		return
	}

	s.auditLog(audit.ActionLogin, audit.EntitySession, "", result.User.ID, map[string]any{
		"username": result.User.Username,
	})

	writeJSON(w, http.StatusOK, result)
}

// handleRegister creates a new account with the default user role.
// Role assignment is reserved for the admin user-management endpoints.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, "username and a password of at least 8 characters are required")
		return
	}

	user, err := s.accounts.Register(r.Context(), req.Username, req.Password, auth.RoleUser, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidUsername):
			writeValidationError(w, "username must be 1-64 characters of letters, digits, dot, underscore, or hyphen")
		case errors.Is(err, auth.ErrInvalidPassword):
			writeValidationError(w, "password must be at least 8 characters")
		case errors.Is(err, auth.ErrUsernameExists):
			writeConflict(w, "username already exists")
		case errors.Is(err, auth.ErrStoreUnavailable):
			s.logger.Error("register failed", "error", err)
			writeStoreUnavailable(w, "storage unavailable")
		default:
			s.logger.Error("register failed", "error", err)
			writeInternalError(w, "registration failed")
		}
		return
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	s.auditLog(audit.ActionRegister, audit.EntityUser, user.ID, user.ID, map[string]any{
		"username": user.Username,
	})

	writeJSON(w, http.StatusCreated, user)
}

// handleMe returns the authenticated caller's account.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	user, err := s.users.GetByID(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// Account deleted after the token was issued
			writeUnauthorized(w, "account no longer exists")
			return
		}
		s.logger.Error("get current user failed", "error", err)
		writeInternalError(w, "failed to load account")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleChangePassword updates the caller's own password after
// verifying the current one.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, "current_password and a new_password of at least 8 characters are required")
		return
	}

	err := s.accounts.ChangePassword(r.Context(), p.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeUnauthorized(w, "current password is incorrect")
		case errors.Is(err, auth.ErrInvalidPassword):
			writeValidationError(w, "new password must be at least 8 characters")
		case errors.Is(err, auth.ErrUserNotFound):
			writeUnauthorized(w, "account no longer exists")
		default:
			s.logger.Error("change password failed", "error", err)
			writeInternalError(w, "failed to change password")
		}
		return
	}

	s.logger.Info("password changed", "user_id", p.UserID)
	s.auditLog(audit.ActionUpdate, audit.EntityUser, p.UserID, p.UserID, map[string]any{
		"field": "password",
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// handleSetPhone updates the caller's contact phone number.
func (s *Server) handleSetPhone(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	var req setPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, "phone must be at most 32 characters")
		return
	}

	user, err := s.accounts.SetPhone(r.Context(), p.UserID, req.Phone)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeUnauthorized(w, "account no longer exists")
			return
		}
		s.logger.Error("set phone failed", "error", err)
		writeInternalError(w, "failed to update phone")
		return
	}

	s.auditLog(audit.ActionUpdate, audit.EntityUser, p.UserID, p.UserID, map[string]any{
		"field": "phone",
	})

	writeJSON(w, http.StatusOK, user)
}
