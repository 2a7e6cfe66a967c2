package auth

import (
	"errors"
	"fmt"
)

// Guard is the single choke point that turns a raw bearer credential into an
// authenticated Principal. Every protected operation passes through it
// uniformly; there are no per-route special cases. Success performs no store
// lookup: signature-valid claims are trusted for their lifetime.
type Guard struct {
	tokens *TokenService
}

// NewGuard creates a guard backed by the given token service.
func NewGuard(tokens *TokenService) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate verifies a raw token string and yields a Principal.
// An absent credential fails ErrTokenMissing, an expired one ErrTokenExpired,
// and anything else (malformed, tampered, wrong key) ErrTokenInvalid. The
// three kinds stay distinguishable with errors.Is so callers can report
// "not logged in" precisely.
func (g *Guard) Authenticate(raw string) (*Principal, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, ErrTokenInvalid):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
		}
	}

	return &Principal{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Role:     claims.Role,
	}, nil
}
