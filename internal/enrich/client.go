// Package enrich drives the bulk-add enrichment preview flow: fetch image
// and fact suggestions for a batch of words, let the caller pick and approve
// candidates, then confirm the approved items.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const (
	previewPath = "/api/vocab/enrichment/preview"
	confirmPath = "/api/vocab/enrichment/confirm"
)

// FactType classifies a suggested fact.
type FactType string

const (
	FactEtymology FactType = "etymology"
	FactIdiom     FactType = "idiom"
	FactTrivia    FactType = "trivia"
)

// ImageCandidate is one suggested image for a word.
type ImageCandidate struct {
	URL         string `json:"url"`
	Thumb       string `json:"thumb,omitempty"`
	Source      string `json:"source,omitempty"`
	Attribution string `json:"attribution,omitempty"`
	License     string `json:"license,omitempty"`
}

// Fact is one suggested fact for a word.
type Fact struct {
	Text       string   `json:"text"`
	Type       FactType `json:"type"`
	Confidence float64  `json:"confidence,omitempty"`
}

// Row is the enrichment suggestion set for one word.
type Row struct {
	Word        string           `json:"word"`
	Translation string           `json:"translation,omitempty"`
	Images      []ImageCandidate `json:"images"`
	Fact        Fact             `json:"fact"`
}

// WordEntry is one word submitted for enrichment.
type WordEntry struct {
	Word          string
	Translation   string
	FactType      FactType
	ExcludeImages []string
}

// ConfirmItem is one approved row sent back to the server.
type ConfirmItem struct {
	Word         string          `json:"word"`
	Translation  string          `json:"translation"`
	Image        *ImageCandidate `json:"image"`
	ApproveImage bool            `json:"approveImage"`
	ApproveFact  bool            `json:"approveFact"`
}

// RowSource loads the enrichment suggestions for a single word. Caches wrap
// a Client through this interface.
type RowSource interface {
	PreviewWord(ctx context.Context, listID int, entry WordEntry) (Row, error)
}

// Client calls the enrichment endpoints on the API host.
type Client struct {
	base string
	http *http.Client
	csrf func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCSRFTokenSource attaches an X-CSRFToken header whenever source returns
// a non-empty token.
func WithCSRFTokenSource(source func() string) Option {
	return func(c *Client) { c.csrf = source }
}

// NewClient builds a Client for the API host base URL.
func NewClient(base string, opts ...Option) *Client {
	c := &Client{base: strings.TrimRight(base, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		jar, _ := cookiejar.New(nil)
		c.http = &http.Client{Jar: jar, Timeout: 30 * time.Second}
	}
	return c
}

type previewEntry struct {
	Word          string   `json:"word"`
	Translation   string   `json:"translation"`
	ExcludeImages []string `json:"exclude_images,omitempty"`
}

// Preview fetches suggestion rows for a batch of words. Blank words are
// skipped; an all-blank batch short-circuits without a network call.
func (c *Client) Preview(ctx context.Context, listID int, entries []WordEntry) ([]Row, error) {
	payload := make([]previewEntry, 0, len(entries))
	for _, entry := range entries {
		word := strings.TrimSpace(entry.Word)
		if word == "" {
			continue
		}
		exclude := make([]string, 0, len(entry.ExcludeImages))
		for _, url := range entry.ExcludeImages {
			if trimmed := strings.TrimSpace(url); trimmed != "" {
				exclude = append(exclude, trimmed)
			}
		}
		payload = append(payload, previewEntry{
			Word:          word,
			Translation:   strings.TrimSpace(entry.Translation),
			ExcludeImages: exclude,
		})
	}
	if len(payload) == 0 {
		return nil, nil
	}

	body := map[string]any{"list_id": listID, "entries": payload}
	var rows []Row
	if err := c.post(ctx, previewPath, body, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// PreviewWord loads suggestions for one word, implementing RowSource.
func (c *Client) PreviewWord(ctx context.Context, listID int, entry WordEntry) (Row, error) {
	rows, err := c.Preview(ctx, listID, []WordEntry{entry})
	if err != nil {
		return Row{}, err
	}
	want := strings.ToLower(strings.TrimSpace(entry.Word))
	for _, row := range rows {
		if strings.ToLower(strings.TrimSpace(row.Word)) == want {
			return row, nil
		}
	}
	if len(rows) > 0 {
		return rows[0], nil
	}
	return Row{}, fmt.Errorf("no enrichment suggestions returned for %q", entry.Word)
}

// Confirm saves the approved items for the list.
func (c *Client) Confirm(ctx context.Context, listID int, items []ConfirmItem) error {
	body := map[string]any{"list_id": listID, "items": items}
	return c.post(ctx, confirmPath, body, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.csrf != nil {
		if token := c.csrf(); token != "" {
			req.Header.Set("X-CSRFToken", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
			return fmt.Errorf("%s", payload.Detail)
		}
		return fmt.Errorf("Request failed with status %d", resp.StatusCode)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
