package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/doccheck/internal/client/token"
	"github.com/dmitrijs2005/doccheck/internal/common"
	"github.com/dmitrijs2005/doccheck/internal/logging"
	"github.com/google/uuid"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:3000/api"

// error bodies larger than this are not inspected
const maxErrorBody = 1 << 20

type Client struct {
	baseURL      string
	http         *http.Client
	tokens       *token.Store
	log          logging.Logger
	userFallback bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUserFallback controls whether Login fills a missing user id and name
// with the submitted login. Enabled by default.
func WithUserFallback(on bool) Option {
	return func(c *Client) { c.userFallback = on }
}

// New builds a Client for the backend rooted at baseURL.
func New(baseURL string, tokens *token.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{},
		tokens:       tokens,
		log:          logging.NewNop(),
		userFallback: true,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("component", "api")
	return c
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string { return c.baseURL }

type request struct {
	method      string
	endpoint    string
	body        io.Reader
	contentType string
	accept      string
	auth        bool
}

// do sends r and returns a 2xx response; the caller closes its body.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	reqID := uuid.NewString()
	log := c.log.With("method", r.method, "path", r.endpoint, "request_id", reqID)

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.endpoint, r.body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", r.endpoint, err)
	}
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.accept != "" {
		req.Header.Set("Accept", r.accept)
	}
	if r.auth {
		if tok, ok := c.tokens.Valid(ctx); ok {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn(ctx, "request failed", "error", err)
		return nil, networkError(err)
	}
	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := c.httpError(ctx, resp)
		log.Warn(ctx, "request rejected", "status", apiErr.Status, "code", apiErr.Code)
		return nil, apiErr
	}
	return resp, nil
}

type errorBody struct {
	Message string `json:"message"`
	// FastAPI reports failures as {"detail": "..."}.
	Detail any `json:"detail"`
	Code   any `json:"code"`
}

func (c *Client) httpError(ctx context.Context, resp *http.Response) *Error {
	e := &Error{
		Kind:    KindHTTP,
		Message: defaultHTTPMessage(resp.StatusCode),
		Code:    strconv.Itoa(resp.StatusCode),
		Status:  resp.StatusCode,
	}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil {
		switch {
		case body.Message != "":
			e.Message = body.Message
		case detailString(body.Detail) != "":
			e.Message = detailString(body.Detail)
		}
		if code := codeString(body.Code); code != "" {
			e.Code = code
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.Remove(ctx); err != nil {
			c.log.Warn(ctx, "failed to drop token after 401", "error", err)
		}
		e.Kind = KindAuth
		e.Message = MsgAuthFailed
	}
	return e
}

func detailString(v any) string {
	s, _ := v.(string)
	return s
}

func codeString(v any) string {
	switch code := v.(type) {
	case string:
		return code
	case float64:
		return strconv.FormatFloat(code, 'f', -1, 64)
	}
	return ""
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// decodeJSON reads a JSON body into v and closes it.
func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()

	if !isJSON(resp.Header.Get("Content-Type")) {
		return invalidResponse("Expected a JSON response", resp.StatusCode, nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return invalidResponse("Malformed JSON response", resp.StatusCode, err)
	}
	return nil
}
