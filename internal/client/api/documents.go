package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/doccheck/internal/client/models"
)

// Blob is a downloaded document.
type Blob struct {
	Data        []byte
	ContentType string
	// Filename is taken from Content-Disposition, empty when absent.
	Filename string
}

// Upload submits a document as multipart field "file".
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    "/upload",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		accept:      "application/json",
		auth:        true,
	})
	if err != nil {
		return nil, err
	}

	var out models.UploadResult
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.Filename == "" {
		out.Filename = filename
	}
	out.Normalize()
	return &out, nil
}

// UploadFile uploads the file at path under its base name.
func (c *Client) UploadFile(ctx context.Context, path string) (*models.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return c.Upload(ctx, filepath.Base(path), f)
}

// Download fetches the original document.
func (c *Client) Download(ctx context.Context, id models.DocID) (*Blob, error) {
	return c.download(ctx, "/download/"+url.PathEscape(id.String()), "Invalid response format for file download")
}

// DownloadAnnotated fetches the document with violations marked up.
func (c *Client) DownloadAnnotated(ctx context.Context, id models.DocID) (*Blob, error) {
	return c.download(ctx, "/download_annotated/"+url.PathEscape(id.String()), "Invalid response format for annotated file download")
}

func (c *Client) download(ctx context.Context, endpoint, invalidMsg string) (*Blob, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, endpoint: endpoint, auth: true})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if isJSON(ct) || resp.StatusCode == http.StatusNoContent {
		return nil, invalidResponse(invalidMsg, resp.StatusCode, nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, networkError(err)
	}
	if len(data) == 0 {
		return nil, invalidResponse(invalidMsg, resp.StatusCode, nil)
	}

	return &Blob{Data: data, ContentType: ct, Filename: dispositionFilename(resp.Header.Get("Content-Disposition"))}, nil
}

func dispositionFilename(v string) string {
	if v == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(v)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// History lists the signed-in user's past checks.
func (c *Client) History(ctx context.Context) ([]models.HistoryItem, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, endpoint: "/history", accept: "application/json", auth: true})
	if err != nil {
		return nil, err
	}

	var items []models.HistoryItem
	if err := decodeJSON(resp, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

// Result fetches the detailed check result of one document.
func (c *Client) Result(ctx context.Context, id models.DocID) (*models.Result, error) {
	resp, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/result/" + url.PathEscape(id.String()),
		accept:   "application/json",
		auth:     true,
	})
	if err != nil {
		return nil, err
	}

	var out models.Result
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	out.Normalize()
	return &out, nil
}
