package livegame

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pavonify-live-client/internal/domain"
)

func TestCreateSessionSendsPayload(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/live-games/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusCreated, domain.Session{
			ID: "sess-1", PIN: "123456", Status: domain.StatusLobby,
			TotalQuestions: 10, QuestionTimeSec: 20, ScoringMode: domain.ScoringFast,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	session, err := client.CreateSession(context.Background(), CreateSessionParams{
		ClassID:         "class-1",
		VocabListIDs:    []int{3, 7},
		TotalQuestions:  10,
		QuestionTimeSec: 20,
		ScoringMode:     domain.ScoringFast,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.ID != "sess-1" || session.Status != domain.StatusLobby {
		t.Fatalf("unexpected session %+v", session)
	}
	if got["class_id"] != "class-1" || got["scoring_mode"] != "FAST" {
		t.Fatalf("unexpected payload %+v", got)
	}
	lists, ok := got["vocab_list_ids"].([]any)
	if !ok || len(lists) != 2 {
		t.Fatalf("unexpected vocab_list_ids %+v", got["vocab_list_ids"])
	}
}

func TestSubmitAnswerShape(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/live-games/sess-1/answer/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, domain.AnswerResult{Accepted: true, IsCorrect: true, ScoreDelta: 110})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.SubmitAnswer(context.Background(), "sess-1", AnswerParams{
		QuestionIndex: 1,
		AnswerPayload: "hola",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Accepted || result.ScoreDelta != 110 {
		t.Fatalf("unexpected result %+v", result)
	}
	if got["questionIndex"] != float64(1) || got["answerPayload"] != "hola" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestErrorDetailBecomesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Session already started."})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.StartSession(context.Background(), "sess-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Session already started." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestErrorWithoutJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.EndSession(context.Background(), "sess-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Request failed with status 502" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestEmptySuccessBodyResolves(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.EndSession(context.Background(), "sess-1"); err != nil {
		t.Fatalf("end: %v", err)
	}
}

func TestCSRFTokenHeaderAttachedWhenPresent(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("X-CSRFToken")
		writeJSON(w, http.StatusOK, domain.LiveState{})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithCSRFTokenSource(func() string { return "tok-123" }))
	if _, err := client.FetchState(context.Background(), "sess-1"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if header != "tok-123" {
		t.Fatalf("expected csrf header, got %q", header)
	}

	// No header when the source yields nothing.
	client = NewClient(server.URL, WithCSRFTokenSource(func() string { return "" }))
	header = "sentinel"
	if _, err := client.FetchState(context.Background(), "sess-1"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if header != "" {
		t.Fatalf("expected empty csrf header, got %q", header)
	}
}
