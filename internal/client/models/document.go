package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DocID identifies an uploaded document. The backend sends integers, other
// deployments send strings; both decode.
type DocID string

func (id *DocID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = DocID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("document id: %w", err)
	}
	*id = DocID(n.String())
	return nil
}

func (id DocID) String() string { return string(id) }

// Int returns the numeric form of the id, when it has one.
func (id DocID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// Processing states reported by the backend.
const (
	StatusProcessing    = "processing"
	StatusCompleted     = "completed"
	StatusError         = "error"
	StatusReportMissing = "report missing"
)

// ErrorCounts maps a rule (standard clause) to the number of violations.
// The backend also sends an aggregate under "total".
type ErrorCounts map[string]int

// Total returns the aggregate count, summing rules when "total" is absent.
func (c ErrorCounts) Total() int {
	if t, ok := c["total"]; ok {
		return t
	}
	sum := 0
	for _, n := range c {
		sum += n
	}
	return sum
}

// UploadResult describes a freshly submitted document.
type UploadResult struct {
	ID         DocID     `json:"id"`
	DocID      DocID     `json:"doc_id"`
	Filename   string    `json:"filename"`
	UploadDate Timestamp `json:"upload_date"`
	Status     string    `json:"status"`
}

// Document returns whichever id field the server filled.
func (u UploadResult) Document() DocID {
	if u.DocID != "" {
		return u.DocID
	}
	return u.ID
}

// HistoryItem is one past check of the signed-in user.
type HistoryItem struct {
	ID              DocID       `json:"id"`
	DocID           DocID       `json:"doc_id"`
	Filename        string      `json:"filename"`
	UploadDate      Timestamp   `json:"upload_date"`
	ErrorPoints     []string    `json:"error_points"`
	ErrorCounts     ErrorCounts `json:"error_counts"`
	TotalViolations int         `json:"total_violations"`
	Status          string      `json:"status"`
}

// Result is the detailed report for one document.
type Result struct {
	ID              DocID       `json:"id"`
	Filename        string      `json:"filename"`
	UploadDate      Timestamp   `json:"upload_date"`
	ErrorPoints     []string    `json:"error_points"`
	ErrorCounts     ErrorCounts `json:"error_counts"`
	TotalViolations int         `json:"total_violations"`
	FullReport      string      `json:"full_report"`
	Status          string      `json:"status"`
}

// Normalize fills Status when the server left it out: an item with counts is
// completed, one without is still processing.
func (h *HistoryItem) Normalize() {
	if h.Status != "" {
		return
	}
	if h.ErrorCounts != nil {
		h.Status = StatusCompleted
		return
	}
	h.Status = StatusProcessing
}

func (r *Result) Normalize() {
	if r.Status != "" {
		return
	}
	if r.ErrorCounts != nil || r.FullReport != "" {
		r.Status = StatusCompleted
		return
	}
	r.Status = StatusProcessing
}

func (u *UploadResult) Normalize() {
	if u.Status == "" {
		u.Status = StatusProcessing
	}
}

// Timestamp decodes the backend's ISO-8601 dates, which may lack a zone
// (naive datetimes are read as UTC).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
