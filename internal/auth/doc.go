// Package auth provides authentication and authorisation for TaskVault.
//
// It implements a 2-tier role model (user → admin) with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Stateless HS256 JWT access tokens with a configurable lifetime
//   - A single authentication guard all protected operations pass through
//   - A pure ownership-based authorisation policy (admin bypasses ownership)
//
// Tokens are trusted for their full lifetime once the signature verifies;
// there is no server-side session table or revocation list. Callers that
// need live account state (e.g. a deactivation check) query the user
// repository separately.
package auth
