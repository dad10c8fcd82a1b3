// Package minigame scores the conveyor-sorter arcade round: words roll past
// on a belt and the player sorts each one before it falls off.
package minigame

import (
	"sync"
	"time"
)

const (
	// DefaultTimeLimit is the length of one round.
	DefaultTimeLimit = 60 * time.Second
	// PointsPerCorrect is awarded for each correctly sorted word.
	PointsPerCorrect = 10
)

// Word is one item on the belt.
type Word struct {
	Text        string
	Translation string
}

// Summary is the final scoreboard for a round.
type Summary struct {
	Score     int     `json:"score"`
	Correct   int     `json:"correct"`
	Wrong     int     `json:"wrong"`
	WordsSeen int     `json:"wordsSeen"`
	Accuracy  float64 `json:"accuracy"`
	TimeMs    int64   `json:"timeMs"`
}

// Options tune a round.
type Options struct {
	// TimeLimit bounds the round; zero means DefaultTimeLimit.
	TimeLimit time.Duration
	// Clock is swapped in tests.
	Clock func() time.Time
}

// Sorter runs one round over a word list, cycling through it so short lists
// never starve the belt.
type Sorter struct {
	words []Word
	limit time.Duration
	clock func() time.Time

	mu       sync.Mutex
	started  time.Time
	idx      int
	correct  int
	wrong    int
	finished bool
	summary  Summary
}

// NewSorter builds a round over words, which must be non-empty.
func NewSorter(words []Word, opts Options) *Sorter {
	s := &Sorter{
		words: words,
		limit: opts.TimeLimit,
		clock: opts.Clock,
	}
	if s.limit <= 0 {
		s.limit = DefaultTimeLimit
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// Start begins the round clock.
func (s *Sorter) Start() {
	s.mu.Lock()
	s.started = s.clock()
	s.mu.Unlock()
}

// Current returns the word on the belt, or false once the round is over.
func (s *Sorter) Current() (Word, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roundOverLocked() {
		return Word{}, false
	}
	return s.words[s.idx%len(s.words)], true
}

// MarkCorrect records a correct sort and moves the belt.
func (s *Sorter) MarkCorrect() {
	s.mark(true)
}

// MarkMissed records a miss or wrong bin and moves the belt.
func (s *Sorter) MarkMissed() {
	s.mark(false)
}

func (s *Sorter) mark(correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roundOverLocked() {
		return
	}
	if correct {
		s.correct++
	} else {
		s.wrong++
	}
	s.idx++
}

// Expired reports whether the time limit has passed.
func (s *Sorter) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiredLocked()
}

func (s *Sorter) expiredLocked() bool {
	return !s.started.IsZero() && s.clock().Sub(s.started) >= s.limit
}

func (s *Sorter) roundOverLocked() bool {
	return s.finished || len(s.words) == 0 || s.expiredLocked()
}

// Finish freezes the scoreboard. Later calls return the same summary.
func (s *Sorter) Finish() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return s.summary
	}
	s.finished = true

	seen := s.correct + s.wrong
	summary := Summary{
		Score:     s.correct * PointsPerCorrect,
		Correct:   s.correct,
		Wrong:     s.wrong,
		WordsSeen: seen,
	}
	if seen > 0 {
		summary.Accuracy = float64(s.correct) / float64(seen)
	}
	if !s.started.IsZero() {
		elapsed := s.clock().Sub(s.started)
		if elapsed > s.limit {
			elapsed = s.limit
		}
		summary.TimeMs = elapsed.Milliseconds()
	}
	s.summary = summary
	return summary
}
