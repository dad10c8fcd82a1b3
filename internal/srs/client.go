package srs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	queuePath   = "/api/srs/queue"
	attemptPath = "/api/srs/attempt"

	// DefaultQueueLimit matches the batch size the review screen loads.
	DefaultQueueLimit = 30
	// DefaultQueueMode mixes due and new words.
	DefaultQueueMode = "mix"
)

// Attempt is one graded response reported back to the scheduler.
type Attempt struct {
	WordID       int          `json:"word_id"`
	ActivityType ActivityType `json:"activity_type"`
	IsCorrect    bool         `json:"is_correct"`
	UserAnswer   string       `json:"user_answer,omitempty"`
	ResponseMs   int          `json:"response_ms,omitempty"`
}

// QueueSource is the server surface a Session needs.
type QueueSource interface {
	Queue(ctx context.Context, limit int, mode string) ([]ReviewWord, error)
	ReportAttempt(ctx context.Context, attempt Attempt) error
}

// Client calls the review queue endpoints on the API host.
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

// Queue fetches the next batch of due words.
func (c *Client) Queue(ctx context.Context, limit int, mode string) ([]ReviewWord, error) {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	if mode == "" {
		mode = DefaultQueueMode
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("mode", mode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+queuePath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var words []ReviewWord
	if err := c.do(req, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// ReportAttempt posts one graded response.
func (c *Client) ReportAttempt(ctx context.Context, attempt Attempt) error {
	encoded, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+attemptPath, bytes.NewReader(encoded))
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
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
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
