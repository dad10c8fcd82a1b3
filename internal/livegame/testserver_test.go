package livegame

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pavonify-live-client/internal/domain"
)

// fakeGameServer implements just enough of the live-games API and socket
// endpoint to exercise the orchestrators end to end.
type fakeGameServer struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	requests map[string]int
	answers  []AnswerParams

	session      domain.Session
	state        domain.LiveState
	answerResult domain.AnswerResult
	answerStatus int
	answerDetail string
	joinStatus   int
	joinDetail   string
	nextStatus   int
	nextDetail   string

	startGate chan struct{}
	answerGate chan struct{}

	conns []*websocket.Conn
}

func newFakeGameServer(t *testing.T) *fakeGameServer {
	t.Helper()
	f := &fakeGameServer{
		t:        t,
		requests: make(map[string]int),
		session: domain.Session{
			ID:              "sess-1",
			PIN:             "482913",
			Status:          domain.StatusLobby,
			TotalQuestions:  10,
			QuestionTimeSec: 20,
			ScoringMode:     domain.ScoringStandard,
			ClassID:         "class-1",
		},
		state: domain.LiveState{
			SessionID:          "sess-1",
			Status:             domain.StatusLobby,
			CurrentQuestionIdx: 0,
			TotalQuestions:     10,
			QuestionTimeSec:    20,
			Leaderboard:        []domain.Entry{},
		},
		answerResult: domain.AnswerResult{Accepted: true, IsCorrect: true, ScoreDelta: 110},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGameServer) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if strings.HasPrefix(path, "/ws/live-games/") {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		f.mu.Lock()
		f.conns = append(f.conns, conn)
		f.mu.Unlock()
		return
	}

	f.mu.Lock()
	f.requests[path]++
	f.mu.Unlock()

	switch {
	case path == "/api/live-games/" && r.Method == http.MethodPost:
		var params CreateSessionParams
		_ = json.NewDecoder(r.Body).Decode(&params)
		f.mu.Lock()
		if params.TotalQuestions > 0 {
			f.session.TotalQuestions = params.TotalQuestions
		}
		session := f.session
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, session)
	case strings.HasSuffix(path, "/start/"):
		if f.startGate != nil {
			<-f.startGate
		}
		f.mu.Lock()
		f.session.Status = domain.StatusRunning
		session := f.session
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, session)
	case strings.HasSuffix(path, "/next/"):
		f.mu.Lock()
		status, detail := f.nextStatus, f.nextDetail
		f.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": detail})
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"index": 1})
	case strings.HasSuffix(path, "/end/"):
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(path, "/join/"):
		f.mu.Lock()
		status, detail := f.joinStatus, f.joinDetail
		state := f.state
		f.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": detail})
			return
		}
		writeJSON(w, http.StatusOK, state)
	case strings.HasSuffix(path, "/answer/"):
		if f.answerGate != nil {
			<-f.answerGate
		}
		var params AnswerParams
		_ = json.NewDecoder(r.Body).Decode(&params)
		f.mu.Lock()
		f.answers = append(f.answers, params)
		status, detail := f.answerStatus, f.answerDetail
		result := f.answerResult
		f.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": detail})
			return
		}
		writeJSON(w, http.StatusOK, result)
	case strings.HasSuffix(path, "/state/"):
		f.mu.Lock()
		state := f.state
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, state)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

func (f *fakeGameServer) url() string {
	return f.server.URL
}

func (f *fakeGameServer) wsBase() string {
	return "ws" + strings.TrimPrefix(f.server.URL, "http")
}

func (f *fakeGameServer) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *fakeGameServer) totalRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.requests {
		total += n
	}
	return total
}

func (f *fakeGameServer) recordedAnswers() []AnswerParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AnswerParams(nil), f.answers...)
}

func (f *fakeGameServer) connCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

// broadcast pushes a raw frame to every connected socket.
func (f *fakeGameServer) broadcast(raw string) {
	f.mu.Lock()
	conns := append([]*websocket.Conn(nil), f.conns...)
	f.mu.Unlock()
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
			f.t.Logf("broadcast write: %v", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
