// Package api provides the HTTP REST API for TaskVault.
//
// It exposes authentication, todo, user administration, and audit trail
// endpoints. Every protected route passes through the bearer-token
// middleware, which resolves the caller to a principal; handlers then
// delegate ownership and role decisions to the auth policy layer.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: all methods are safe for concurrent use from multiple
// goroutines.
package api
