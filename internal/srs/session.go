package srs

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"pavonify-live-client/internal/gamehub"
)

// PointsPerCorrect is awarded for each correctly answered card.
const PointsPerCorrect = 10

// ErrQueueEmpty reports that the server has no more due words.
var ErrQueueEmpty = errors.New("review queue is empty")

// SessionOptions tune a review session.
type SessionOptions struct {
	// QueueLimit caps each batch fetch; zero means DefaultQueueLimit.
	QueueLimit int
	// QueueMode selects due/new mixing; empty means DefaultQueueMode.
	QueueMode string
	// Hub, when set, receives each graded answer for the energy meter.
	Hub *gamehub.Hub
}

// Summary is a point-in-time view of session progress.
type Summary struct {
	SessionID string
	Points    int
	Streak    int
	Attempted int
	Correct   int
}

// Session walks a student through the review queue one card at a time,
// reloading the queue when it drains.
type Session struct {
	id     string
	source QueueSource
	opts   SessionOptions

	mu        sync.Mutex
	queue     []ReviewWord
	idx       int
	points    int
	streak    int
	attempted int
	correct   int
}

// NewSession builds a session over source. The session gets a fresh id used
// to correlate attempts in server logs.
func NewSession(source QueueSource, opts SessionOptions) *Session {
	return &Session{id: uuid.NewString(), source: source, opts: opts}
}

// Start loads the first batch. ErrQueueEmpty means nothing is due.
func (s *Session) Start(ctx context.Context) error {
	return s.reload(ctx)
}

func (s *Session) reload(ctx context.Context) error {
	words, err := s.source.Queue(ctx, s.opts.QueueLimit, s.opts.QueueMode)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return ErrQueueEmpty
	}
	s.mu.Lock()
	s.queue = words
	s.idx = 0
	s.mu.Unlock()
	return nil
}

// Current returns the active card, or false when the batch is drained.
func (s *Session) Current() (ReviewWord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx >= len(s.queue) {
		return ReviewWord{}, false
	}
	return s.queue[s.idx], true
}

// SubmitAnswer grades the active card, reports the attempt, updates points
// and streak, and advances. When the batch drains it fetches the next one;
// ErrQueueEmpty then signals the session is done.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) (bool, error) {
	s.mu.Lock()
	if s.idx >= len(s.queue) {
		s.mu.Unlock()
		return false, ErrQueueEmpty
	}
	word := s.queue[s.idx]
	s.mu.Unlock()

	activity := word.Activity()
	correct := CheckAnswer(activity, word, answer)

	attempt := Attempt{
		WordID:       word.WordID,
		ActivityType: activity,
		IsCorrect:    correct,
	}
	if activity == ActivityTyping {
		attempt.UserAnswer = answer
	}
	if err := s.source.ReportAttempt(ctx, attempt); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.attempted++
	if correct {
		s.correct++
		s.points += PointsPerCorrect
		s.streak++
	} else {
		s.streak = 0
	}
	streak := s.streak
	s.idx++
	drained := s.idx >= len(s.queue)
	s.mu.Unlock()

	if s.opts.Hub != nil {
		s.opts.Hub.OnQuestionResult(correct, streak)
	}

	if drained {
		if err := s.reload(ctx); err != nil {
			if errors.Is(err, ErrQueueEmpty) {
				return correct, ErrQueueEmpty
			}
			return correct, err
		}
	}
	return correct, nil
}

// Summary reports progress so far.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		SessionID: s.id,
		Points:    s.points,
		Streak:    s.streak,
		Attempted: s.attempted,
		Correct:   s.correct,
	}
}
