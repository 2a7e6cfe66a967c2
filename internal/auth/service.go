package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Service implements the account operations the inbound layer calls:
// registration, login (credential check + token issuance), and the
// owner-only mutations (password, phone).
type Service struct {
	users  UserRepository
	tokens *TokenService
}

// NewService creates an account service.
func NewService(users UserRepository, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// LoginResult is what a successful login returns to the caller.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// dummyHash is verified against when a login names an unknown username, so
// the unknown-username and wrong-password paths cost the same and neither
// can be told apart by timing.
var dummyHash = sync.OnceValue(func() string {
	h, err := HashPassword("taskvault-timing-equalizer")
	if err != nil {
		return ""
	}
	return h
})

// Register creates a new account. The role defaults to user when empty;
// validation failures surface as ErrInvalidUsername, ErrInvalidPassword, or
// ErrInvalidRole, and a duplicate username as ErrUsernameExists.
func (s *Service) Register(ctx context.Context, username, password string, role Role, phone string) (*User, error) {
	if !IsValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return nil, ErrInvalidPassword
	}
	if role == "" {
		role = RoleUser
	}
	if !IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Phone:        phone,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a username/password pair and issues a bearer token.
// Unknown username and wrong password both collapse to ErrInvalidCredentials,
// so the caller can never learn which half was wrong. An inactive account fails
// ErrUserInactive; the inbound layer reports it with the same generic message.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			VerifyPassword(password, dummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.Lifetime().Seconds()),
		User:        user,
	}, nil
}

// ChangePassword verifies the current password before storing a new hash.
// The current-password check keeps a stolen bearer token from being enough
// to take over the account.
func (s *Service) ChangePassword(ctx context.Context, userID, current, updated string) error {
	if len(updated) < minPasswordLength {
		return ErrInvalidPassword
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !VerifyPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(updated)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}

// SetPhone updates the account's phone number.
func (s *Service) SetPhone(ctx context.Context, userID, phone string) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Phone = phone
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
