// Package common contains shared constants and small helpers used across
// doccheck client components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token value in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates a client request with backend logs.
	RequestIDHeaderName = "X-Request-ID"
)

// Keys under which client state is kept in persistent storage.
const (
	TokenStorageKey = "jwt_token"
	UserStorageKey  = "user"
)
