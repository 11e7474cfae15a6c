package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/doccheck/internal/client/models"
)

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *struct {
		ID    models.DocID `json:"id"`
		Name  string       `json:"name"`
		Email string       `json:"email"`
	} `json:"user"`
}

// Login exchanges credentials for a bearer token, stores the token and
// returns it together with the user the server reported.
func (c *Client) Login(ctx context.Context, cred models.Credentials) (*models.LoginResult, error) {
	body, err := json.Marshal(cred)
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    "/login",
		body:        bytes.NewReader(body),
		contentType: "application/json",
		accept:      "application/json",
	})
	if err != nil {
		return nil, err
	}

	var lr loginResponse
	if err := decodeJSON(resp, &lr); err != nil {
		return nil, err
	}
	if lr.AccessToken == "" {
		return nil, invalidResponse("Login response carries no access token", resp.StatusCode, nil)
	}

	if err := c.tokens.Set(ctx, lr.AccessToken); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	return &models.LoginResult{Token: lr.AccessToken, User: c.loginUser(cred.Login, lr)}, nil
}

func (c *Client) loginUser(login string, lr loginResponse) models.User {
	var u models.User
	if lr.User != nil {
		u = models.User{ID: lr.User.ID.String(), Name: lr.User.Name, Email: lr.User.Email}
	}
	if c.userFallback {
		if u.ID == "" {
			u.ID = login
		}
		if u.Name == "" {
			u.Name = login
		}
	}
	return u
}

// Logout drops the stored token. The backend keeps no session to end.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Remove(ctx)
}

// IsAuthenticated reports whether a usable token is stored.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.tokens.IsAuthenticated(ctx)
}

// ValidateToken is IsAuthenticated that also evicts an expired token.
func (c *Client) ValidateToken(ctx context.Context) bool {
	return c.tokens.Validate(ctx)
}
