package livegame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"pavonify-live-client/internal/domain"
	"pavonify-live-client/internal/transport/ws"
)

// Validation failures are shown verbatim to the host, so they keep the
// product wording.
var (
	ErrClassRequired     = errors.New("Select a class to continue.")
	ErrVocabListRequired = errors.New("Select at least one vocabulary list.")
)

// Lobby is the roster waiting for the game to start.
type Lobby struct {
	Participants []string
	PIN          string
}

// TeacherSnapshot is a point-in-time copy of the console's view state.
type TeacherSnapshot struct {
	Session        *domain.Session
	State          *domain.LiveState
	Leaderboard    []domain.Entry
	You            *domain.Entry
	LatestQuestion json.RawMessage
	Lobby          Lobby
	StatusMessage  string
	LastError      string
	Busy           bool
	SocketStatus   ws.Status
}

// TeacherOptions configure a TeacherConsole.
type TeacherOptions struct {
	// WSBase is the socket base URL, e.g. "wss://host".
	WSBase string
	// ReconnectInterval is passed through to the session socket.
	ReconnectInterval time.Duration
	// OnChange, if set, fires after every state mutation.
	OnChange func()
}

// TeacherConsole drives the host's view of a live session: it reconciles
// REST responses, socket events, and local actions into one view model.
//
// Socket events replace their slice of view state wholesale, so an
// interleaved FetchState snapshot can only show momentarily stale data that
// the next event corrects.
type TeacherConsole struct {
	api  *Client
	opts TeacherOptions

	mu             sync.Mutex
	session        *domain.Session
	state          *domain.LiveState
	leaderboard    []domain.Entry
	you            *domain.Entry
	latestQuestion json.RawMessage
	lobby          Lobby
	statusMessage  string
	lastError      string
	busy           bool
	closed         bool
	conn           *ws.Conn
}

// NewTeacherConsole builds a console around the given REST client.
func NewTeacherConsole(api *Client, opts TeacherOptions) *TeacherConsole {
	return &TeacherConsole{api: api, opts: opts}
}

// CreateSession validates the selection locally, creates the session, opens
// the session socket, and seeds leaderboard state with an immediate
// FetchState so the lobby view is never empty.
func (t *TeacherConsole) CreateSession(ctx context.Context, params CreateSessionParams) error {
	if params.ClassID == "" {
		t.recordError(ErrClassRequired)
		return ErrClassRequired
	}
	if len(params.VocabListIDs) == 0 {
		t.recordError(ErrVocabListRequired)
		return ErrVocabListRequired
	}

	session, err := t.api.CreateSession(ctx, params)
	if err != nil {
		t.recordError(err)
		return err
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.session = &session
	t.lobby = Lobby{PIN: session.PIN}
	t.statusMessage = "Waiting in lobby"
	t.lastError = ""
	t.conn = ws.Dial(ws.GameURL(t.opts.WSBase, session.ID), t.handleEvent, ws.Options{
		ReconnectInterval: t.opts.ReconnectInterval,
	})
	t.mu.Unlock()
	t.notify()

	go t.seedState(ctx, session.ID)
	return nil
}

// Start moves the lobby into the running state.
func (t *TeacherConsole) Start(ctx context.Context) error {
	return t.runAction(ctx, func(ctx context.Context, sessionID string) error {
		updated, err := t.api.StartSession(ctx, sessionID)
		if err != nil {
			return err
		}
		t.mu.Lock()
		t.session = &updated
		t.statusMessage = "Game running"
		t.mu.Unlock()
		return nil
	})
}

// Next requests the next question. The displayed question only advances when
// the server broadcasts the QUESTION event.
func (t *TeacherConsole) Next(ctx context.Context) error {
	return t.runAction(ctx, func(ctx context.Context, sessionID string) error {
		return t.api.AdvanceSession(ctx, sessionID)
	})
}

// End terminates the session.
func (t *TeacherConsole) End(ctx context.Context) error {
	return t.runAction(ctx, func(ctx context.Context, sessionID string) error {
		if err := t.api.EndSession(ctx, sessionID); err != nil {
			return err
		}
		t.mu.Lock()
		t.statusMessage = "Game ended"
		t.mu.Unlock()
		return nil
	})
}

// Snapshot copies the current view state.
func (t *TeacherConsole) Snapshot() TeacherSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snapshot := TeacherSnapshot{
		Session:        t.session,
		State:          t.state,
		Leaderboard:    append([]domain.Entry(nil), t.leaderboard...),
		You:            t.you,
		LatestQuestion: t.latestQuestion,
		Lobby: Lobby{
			Participants: append([]string(nil), t.lobby.Participants...),
			PIN:          t.lobby.PIN,
		},
		StatusMessage: t.statusMessage,
		LastError:     t.lastError,
		Busy:          t.busy,
	}
	if t.conn != nil {
		snapshot.SocketStatus = t.conn.Status()
	}
	return snapshot
}

// Close tears down the socket and marks in-flight work stale.
func (t *TeacherConsole) Close() {
	t.mu.Lock()
	t.closed = true
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// runAction serializes mutating host actions behind the busy flag. A failing
// action surfaces its message and leaves the rest of the state untouched.
func (t *TeacherConsole) runAction(ctx context.Context, fn func(ctx context.Context, sessionID string) error) error {
	t.mu.Lock()
	if t.session == nil {
		t.mu.Unlock()
		return domain.ErrNoSession
	}
	if t.busy {
		t.mu.Unlock()
		return domain.ErrActionInFlight
	}
	t.busy = true
	t.lastError = ""
	sessionID := t.session.ID
	t.mu.Unlock()
	t.notify()

	err := fn(ctx, sessionID)

	t.mu.Lock()
	t.busy = false
	if err != nil {
		t.lastError = err.Error()
	}
	t.mu.Unlock()
	t.notify()
	return err
}

// seedState pulls a snapshot right after creation so leaderboard and "you"
// are populated before any socket event arrives.
func (t *TeacherConsole) seedState(ctx context.Context, sessionID string) {
	state, err := t.api.FetchState(ctx, sessionID)

	t.mu.Lock()
	if t.closed || t.session == nil || t.session.ID != sessionID {
		// Late response for a torn-down console; drop it.
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.lastError = err.Error()
	} else {
		t.state = &state
		t.leaderboard = state.Leaderboard
		t.you = state.You
	}
	t.mu.Unlock()
	t.notify()
}

func (t *TeacherConsole) handleEvent(ev ws.Event) {
	t.mu.Lock()
	switch event := ev.(type) {
	case ws.GameStarted:
		t.statusMessage = fmt.Sprintf("Game running, %d questions", event.TotalQuestions)
		t.latestQuestion = nil
	case ws.Question:
		total := 0
		if t.state != nil {
			total = t.state.TotalQuestions
		} else if t.session != nil {
			total = t.session.TotalQuestions
		}
		t.statusMessage = fmt.Sprintf("Question %d/%d", event.Index, total)
		t.latestQuestion = event.Payload
		if t.state != nil {
			t.state.CurrentQuestionIdx = event.Index
			startedAt := event.StartedAt
			deadlineAt := event.DeadlineAt
			t.state.StartedAt = &startedAt
			t.state.DeadlineAt = &deadlineAt
		}
	case ws.Leaderboard:
		t.leaderboard = event.Top
		t.you = event.You
	case ws.LobbyUpdate:
		t.lobby = Lobby{Participants: event.Participants, PIN: event.PIN}
	case ws.GameEnded:
		t.statusMessage = "Game ended"
		t.leaderboard = event.FinalTop
	default:
		// Unknown events keep the state untouched.
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.notify()
}

func (t *TeacherConsole) recordError(err error) {
	t.mu.Lock()
	t.lastError = err.Error()
	t.mu.Unlock()
	t.notify()
}

func (t *TeacherConsole) notify() {
	if t.opts.OnChange != nil {
		t.opts.OnChange()
	}
}
