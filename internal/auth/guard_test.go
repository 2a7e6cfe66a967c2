package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGuard_Authenticate(t *testing.T) {
	svc := NewTokenService(testSecret, 20*time.Minute)
	guard := NewGuard(svc)

	token, err := svc.Issue(&User{ID: "usr-1", Username: "alice", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	principal, err := guard.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if principal.Username != "alice" {
		t.Errorf("Username = %q, want %q", principal.Username, "alice")
	}
	if principal.UserID != "usr-1" {
		t.Errorf("UserID = %q, want %q", principal.UserID, "usr-1")
	}
	if principal.Role != RoleUser {
		t.Errorf("Role = %q, want %q", principal.Role, RoleUser)
	}
}

func TestGuard_MissingToken(t *testing.T) {
	guard := NewGuard(NewTokenService(testSecret, 20*time.Minute))

	_, err := guard.Authenticate("")
	if !errors.Is(err, ErrTokenMissing) {
		t.Errorf("Authenticate(\"\") error = %v, want ErrTokenMissing", err)
	}
}

// Absent, expired, and malformed credentials must each fail with their own
// kind: callers distinguish "no token" from "stale token" from "junk".
func TestGuard_FailureKindsAreDistinct(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testSecret, 20*time.Minute)
	svc.now = func() time.Time { return issued }
	guard := NewGuard(svc)

	expired, err := svc.Issue(&User{ID: "usr-1", Username: "alice", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	svc.now = func() time.Time { return issued.Add(time.Hour) }

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", ErrTokenMissing},
		{"expired", expired, ErrTokenExpired},
		{"malformed", "junk", ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := guard.Authenticate(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Authenticate() error = %v, want %v", err, tt.want)
			}
		})
	}

	// An expired token is not "missing" and not merely "invalid"
	_, err = guard.Authenticate(expired)
	if errors.Is(err, ErrTokenMissing) {
		t.Error("expired token must not report ErrTokenMissing")
	}
}

func TestGuard_NoStoreLookup(t *testing.T) {
	// The guard is constructed without any repository: authentication is
	// purely a signature check, by construction.
	svc := NewTokenService(testSecret, 20*time.Minute)
	guard := NewGuard(svc)

	token, err := svc.Issue(&User{ID: "usr-gone", Username: "deleted-user", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := guard.Authenticate(token); err != nil {
		t.Errorf("Authenticate() error = %v, want success without store lookup", err)
	}
}
