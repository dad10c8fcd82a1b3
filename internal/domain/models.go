package domain

import "time"

// SessionStatus tracks the server-side lifecycle of a live game.
type SessionStatus string

const (
	StatusLobby   SessionStatus = "LOBBY"
	StatusRunning SessionStatus = "RUNNING"
	StatusEnded   SessionStatus = "ENDED"
)

// ScoringMode selects how answers are rewarded during a session.
type ScoringMode string

const (
	ScoringStandard ScoringMode = "STANDARD"
	ScoringFast     ScoringMode = "FAST"
	ScoringStreaky  ScoringMode = "STREAKY"
)

// Session mirrors the server-owned live game record. Created by the
// teacher's create action, mutated only by server-side transitions, terminal
// at ENDED.
type Session struct {
	ID              string        `json:"id"`
	PIN             string        `json:"pin"`
	Status          SessionStatus `json:"status"`
	TotalQuestions  int           `json:"total_questions"`
	QuestionTimeSec int           `json:"question_time_sec"`
	ScoringMode     ScoringMode   `json:"scoring_mode"`
	ClassID         string        `json:"clazz"`
}

// Entry is one leaderboard row. The "you" entry carries no name.
type Entry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name,omitempty"`
	Score  int    `json:"score"`
	Streak int    `json:"streak"`
}

// LiveState is the state snapshot served by GET /{id}/state/. Clients rebuild
// their view from it on join and after reconnect.
type LiveState struct {
	SessionID          string        `json:"session_id"`
	Status             SessionStatus `json:"status"`
	CurrentQuestionIdx int           `json:"current_question_idx"`
	TotalQuestions     int           `json:"total_questions"`
	QuestionTimeSec    int           `json:"question_time_sec"`
	StartedAt          *time.Time    `json:"started_at"`
	DeadlineAt         *time.Time    `json:"deadline_at"`
	Leaderboard        []Entry       `json:"leaderboard"`
	You                *Entry        `json:"you"`
}

// AnswerResult is the server's acceptance response for a submitted answer.
type AnswerResult struct {
	Accepted   bool `json:"accepted"`
	IsCorrect  bool `json:"isCorrect"`
	ScoreDelta int  `json:"scoreDelta"`
}

// AnnouncedGame is the payload of a class-wide GAME_ANNOUNCED broadcast.
type AnnouncedGame struct {
	SessionID    string
	PIN          string
	HostName     string
	ClassID      string
	QuestionTime int
}
