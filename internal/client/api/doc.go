// Package api is the single HTTP boundary between the doccheck client and
// the document-checking backend.
//
// # Overview
//
// Client wraps net/http and exposes one method per backend endpoint:
// Login, Upload/UploadFile, Download, DownloadAnnotated, History and Result.
// The bearer token is read from (and, on login, written to) a token.Store;
// it is attached only while it has not expired.
//
// # Error Handling
//
// Every failure is returned as *Error carrying a Kind, a user-facing Message,
// a machine Code and, for HTTP failures, the Status. Callers match the kind
// with errors.Is against the sentinels ErrNetwork, ErrHTTP, ErrUnauthorized
// and ErrInvalidResponse. A 401 response also evicts the stored token.
//
// Nothing is retried. Cancellation and timeouts come from the caller's
// context and the configured http.Client.
package api
