package livegame

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"pavonify-live-client/internal/domain"
	"pavonify-live-client/internal/transport/ws"
)

// LockState is the submission guard for the active question. It is the sole
// protection against duplicate or late submissions.
type LockState int

const (
	// LockUnlocked means a fresh question is active and answerable.
	LockUnlocked LockState = iota
	// LockSubmitting means an answer is in flight; further submissions are
	// rejected until the call resolves.
	LockSubmitting
	// LockLocked means the current question was answered successfully.
	LockLocked
	// LockEnded means the game is over; the lock never releases again.
	LockEnded
)

func (s LockState) String() string {
	switch s {
	case LockUnlocked:
		return "unlocked"
	case LockSubmitting:
		return "submitting"
	case LockLocked:
		return "locked"
	case LockEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// StudentSnapshot is a point-in-time copy of the student's view state.
type StudentSnapshot struct {
	Joined          bool
	State           *domain.LiveState
	QuestionPayload json.RawMessage
	DeadlineAt      *time.Time
	Lock            LockState
	Leaderboard     []domain.Entry
	You             *domain.Entry
	LastError       string
	SubmissionError string
	SocketStatus    ws.Status
}

// StudentOptions configure a StudentGame.
type StudentOptions struct {
	WSBase            string
	ReconnectInterval time.Duration
	// OnAccepted fires with the server's response after a successful answer
	// submission.
	OnAccepted func(domain.AnswerResult)
	// OnChange, if set, fires after every state mutation.
	OnChange func()
}

// StudentGame drives one participant's view of a live session.
type StudentGame struct {
	api       *Client
	sessionID string
	opts      StudentOptions

	mu              sync.Mutex
	joined          bool
	state           *domain.LiveState
	question        json.RawMessage
	deadlineAt      *time.Time
	lock            LockState
	leaderboard     []domain.Entry
	you             *domain.Entry
	lastError       string
	submissionError string
	closed          bool
	conn            *ws.Conn
}

// NewStudentGame builds a student view for one session.
func NewStudentGame(api *Client, sessionID string, opts StudentOptions) *StudentGame {
	return &StudentGame{api: api, sessionID: sessionID, opts: opts}
}

// Join enters the session and opens the game socket. On failure the game
// stays in the not-joined state and Join may be retried.
func (s *StudentGame) Join(ctx context.Context, params *JoinParams) error {
	state, err := s.api.JoinSession(ctx, s.sessionID, params)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		s.notify()
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.joined = true
	s.lastError = ""
	s.applySnapshotLocked(state)
	if s.conn == nil {
		s.conn = ws.Dial(ws.GameURL(s.opts.WSBase, s.sessionID), s.handleEvent, ws.Options{
			ReconnectInterval: s.opts.ReconnectInterval,
		})
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Refresh pulls a fresh state snapshot, used for recovery after reconnect.
func (s *StudentGame) Refresh(ctx context.Context) error {
	s.mu.Lock()
	joined := s.joined
	s.mu.Unlock()
	if !joined {
		return domain.ErrNotJoined
	}

	state, err := s.api.FetchState(ctx, s.sessionID)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.applySnapshotLocked(state)
	s.mu.Unlock()
	s.notify()
	return nil
}

// Submit sends the answer for the current question. The view locks
// optimistically before the network call so rapid repeat input cannot issue
// a second request; a failed call unlocks again so the student may retry
// against the same question index.
func (s *StudentGame) Submit(ctx context.Context, answerPayload any) error {
	s.mu.Lock()
	if !s.joined || s.state == nil {
		s.mu.Unlock()
		return domain.ErrNotJoined
	}
	if s.lock != LockUnlocked {
		s.mu.Unlock()
		return domain.ErrSubmissionLocked
	}
	s.lock = LockSubmitting
	s.submissionError = ""
	questionIndex := s.state.CurrentQuestionIdx
	s.mu.Unlock()
	s.notify()

	result, err := s.api.SubmitAnswer(ctx, s.sessionID, AnswerParams{
		QuestionIndex: questionIndex,
		AnswerPayload: answerPayload,
	})

	s.mu.Lock()
	if err != nil {
		// Only revert if no QUESTION or GAME_ENDED event superseded the
		// in-flight lock while we were waiting.
		if s.lock == LockSubmitting {
			s.lock = LockUnlocked
		}
		s.submissionError = err.Error()
		s.mu.Unlock()
		s.notify()
		return err
	}
	if s.lock == LockSubmitting {
		s.lock = LockLocked
	}
	accepted := s.opts.OnAccepted
	s.mu.Unlock()
	s.notify()

	if accepted != nil {
		accepted(result)
	}
	return nil
}

// Locked reports whether submissions are currently rejected.
func (s *StudentGame) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock != LockUnlocked
}

// Snapshot copies the current view state.
func (s *StudentGame) Snapshot() StudentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := StudentSnapshot{
		Joined:          s.joined,
		State:           s.state,
		QuestionPayload: s.question,
		DeadlineAt:      s.deadlineAt,
		Lock:            s.lock,
		Leaderboard:     append([]domain.Entry(nil), s.leaderboard...),
		You:             s.you,
		LastError:       s.lastError,
		SubmissionError: s.submissionError,
	}
	if s.conn != nil {
		snapshot.SocketStatus = s.conn.Status()
	}
	return snapshot
}

// Close tears down the socket and marks in-flight work stale.
func (s *StudentGame) Close() {
	s.mu.Lock()
	s.closed = true
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (s *StudentGame) handleEvent(ev ws.Event) {
	s.mu.Lock()
	switch event := ev.(type) {
	case ws.Question:
		// A fresh question always overrides an in-flight or stale lock,
		// unless the game already ended.
		if s.lock != LockEnded {
			s.lock = LockUnlocked
		}
		s.question = event.Payload
		deadline := event.DeadlineAt
		s.deadlineAt = &deadline
		s.submissionError = ""
		if s.state != nil {
			s.state.CurrentQuestionIdx = event.Index
			startedAt := event.StartedAt
			s.state.StartedAt = &startedAt
			s.state.DeadlineAt = &deadline
		}
	case ws.Leaderboard:
		s.leaderboard = event.Top
		s.you = event.You
	case ws.GameEnded:
		s.lock = LockEnded
	default:
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.notify()
}

// applySnapshotLocked replaces the snapshot-backed slices of view state.
// The lock flag is deliberately left alone: it belongs to the local
// question/submission cycle, not the server snapshot.
func (s *StudentGame) applySnapshotLocked(state domain.LiveState) {
	s.state = &state
	s.leaderboard = state.Leaderboard
	s.you = state.You
	if state.DeadlineAt != nil {
		s.deadlineAt = state.DeadlineAt
	}
	if state.Status == domain.StatusEnded {
		s.lock = LockEnded
	}
}

func (s *StudentGame) notify() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}
