package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, 20*time.Minute)
	user := &User{ID: "usr-alice001", Username: "alice", Role: RoleUser}

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "alice")
	}
	if claims.UserID != "usr-alice001" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "usr-alice001")
	}
	if claims.Role != RoleUser {
		t.Errorf("Role = %q, want %q", claims.Role, RoleUser)
	}
}

func TestTokenService_ExpiryIsIssuedAtPlusLifetime(t *testing.T) {
	lifetime := 20 * time.Minute
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := NewTokenService(testSecret, lifetime)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(&User{ID: "usr-1", Username: "alice", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if !claims.IssuedAt.Time.Equal(issued) {
		t.Errorf("IssuedAt = %v, want %v", claims.IssuedAt.Time, issued)
	}
	if !claims.ExpiresAt.Time.Equal(issued.Add(lifetime)) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt.Time, issued.Add(lifetime))
	}
}

func TestTokenService_Expired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := NewTokenService(testSecret, 20*time.Minute)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(&User{ID: "usr-1", Username: "alice", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Valid just before the boundary
	svc.now = func() time.Time { return issued.Add(19 * time.Minute) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("Verify() before expiry error = %v", err)
	}

	// Expired past the boundary
	svc.now = func() time.Time { return issued.Add(21 * time.Minute) }
	_, err = svc.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() after expiry error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenService_WrongKey(t *testing.T) {
	issuer := NewTokenService(testSecret, 20*time.Minute)
	verifier := NewTokenService("a-completely-different-32-char-secret!!", 20*time.Minute)

	token, err := issuer.Issue(&User{ID: "usr-1", Username: "alice", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify() with wrong key error = %v, want ErrSignatureInvalid", err)
	}
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc := NewTokenService(testSecret, 20*time.Minute)

	token, err := svc.Issue(&User{ID: "usr-1", Username: "alice", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("JWT should have 3 segments, got %d", len(parts))
	}

	// Flip a single byte of the signature segment
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := svc.Verify(tampered)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify() of tampered token error = %v, want ErrSignatureInvalid", err)
	}
	if claims != nil {
		t.Error("tampered token must never yield claims")
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService(testSecret, 20*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"two segments", "abc.def"},
		{"empty segments", ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			if !errors.Is(err, ErrTokenMalformed) {
				t.Errorf("Verify(%q) error = %v, want ErrTokenMalformed", tt.token, err)
			}
		})
	}
}

func TestNewTokenService_DefaultLifetime(t *testing.T) {
	svc := NewTokenService(testSecret, 0)
	if svc.Lifetime() != DefaultTokenLifetime {
		t.Errorf("Lifetime() = %v, want %v", svc.Lifetime(), DefaultTokenLifetime)
	}
}
