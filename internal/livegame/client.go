package livegame

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"pavonify-live-client/internal/domain"
)

// DefaultBasePath is the session collection root on the API host.
const DefaultBasePath = "/api/live-games"

// APIError carries the server-provided detail message for a non-2xx response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed with status %d", e.StatusCode)
}

// Client issues the fixed set of session REST calls. All requests send and
// receive JSON and carry the cookie jar so server-side session cookies behave
// like a browser's same-origin credentials.
type Client struct {
	base string
	http *http.Client
	csrf func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom jars).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCSRFTokenSource attaches an X-CSRFToken header whenever source returns
// a non-empty token.
func WithCSRFTokenSource(source func() string) Option {
	return func(c *Client) { c.csrf = source }
}

// NewClient builds a Client for base, e.g. "https://host/api/live-games" or
// just "https://host" (DefaultBasePath is appended when missing).
func NewClient(base string, opts ...Option) *Client {
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, DefaultBasePath) {
		base += DefaultBasePath
	}
	c := &Client{base: base}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		jar, _ := cookiejar.New(nil)
		c.http = &http.Client{Jar: jar, Timeout: 30 * time.Second}
	}
	return c
}

// CreateSessionParams is the payload for creating a session.
type CreateSessionParams struct {
	ClassID         string             `json:"class_id"`
	VocabListIDs    []int              `json:"vocab_list_ids"`
	TotalQuestions  int                `json:"total_questions"`
	QuestionTimeSec int                `json:"question_time_sec"`
	ScoringMode     domain.ScoringMode `json:"scoring_mode"`
}

// JoinParams optionally names the joining participant.
type JoinParams struct {
	DisplayName string `json:"display_name,omitempty"`
}

// AnswerParams identifies the question being answered and the answer itself.
// AnswerPayload is opaque to this layer.
type AnswerParams struct {
	QuestionIndex int `json:"questionIndex"`
	AnswerPayload any `json:"answerPayload"`
}

// CreateSession creates a new lobby and returns the created session.
func (c *Client) CreateSession(ctx context.Context, params CreateSessionParams) (domain.Session, error) {
	var session domain.Session
	err := c.do(ctx, http.MethodPost, "/", params, &session)
	return session, err
}

// StartSession moves a lobby into the running state.
func (c *Client) StartSession(ctx context.Context, sessionID string) (domain.Session, error) {
	var session domain.Session
	err := c.do(ctx, http.MethodPost, "/"+sessionID+"/start/", nil, &session)
	return session, err
}

// AdvanceSession requests the next question. The question itself arrives via
// the socket, so the response body is discarded.
func (c *Client) AdvanceSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodPost, "/"+sessionID+"/next/", nil, nil)
}

// EndSession terminates the session.
func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodPost, "/"+sessionID+"/end/", nil, nil)
}

// JoinSession joins the caller as a participant and returns the initial
// state snapshot.
func (c *Client) JoinSession(ctx context.Context, sessionID string, params *JoinParams) (domain.LiveState, error) {
	var body any = struct{}{}
	if params != nil {
		body = params
	}
	var state domain.LiveState
	err := c.do(ctx, http.MethodPost, "/"+sessionID+"/join/", body, &state)
	return state, err
}

// SubmitAnswer submits an answer for the given question index.
func (c *Client) SubmitAnswer(ctx context.Context, sessionID string, params AnswerParams) (domain.AnswerResult, error) {
	var result domain.AnswerResult
	err := c.do(ctx, http.MethodPost, "/"+sessionID+"/answer/", params, &result)
	return result, err
}

// FetchState returns the full state snapshot, used on join and for recovery
// after a reconnect.
func (c *Client) FetchState(ctx context.Context, sessionID string) (domain.LiveState, error) {
	var state domain.LiveState
	err := c.do(ctx, http.MethodGet, "/"+sessionID+"/state/", nil, &state)
	return state, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
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
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if isJSONResponse(resp) {
			var payload struct {
				Detail string `json:"detail"`
			}
			if err := json.Unmarshal(data, &payload); err == nil {
				apiErr.Detail = payload.Detail
			}
		}
		return apiErr
	}

	// Empty 2xx bodies (e.g. end returns 204) resolve to zero values.
	if out == nil || len(data) == 0 || !isJSONResponse(resp) {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func isJSONResponse(resp *http.Response) bool {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
