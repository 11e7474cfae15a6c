// Package models defines the client-side data models of the doccheck client:
// the signed-in user and the server-owned read models for uploaded documents.
package models

// User is the signed-in account as the client knows it.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials are submitted to the login endpoint.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResult is the normalized outcome of a successful login.
type LoginResult struct {
	Token string
	User  User
}
