package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"pavonify-live-client/internal/domain"
)

// Event is a server push message decoded once at the socket boundary.
// Unrecognized message types decode to Unknown so a new server event can
// never break an older client.
type Event interface {
	isEvent()
}

// GameAnnounced is broadcast to a class when a teacher opens a lobby.
type GameAnnounced struct {
	SessionID    string `json:"sessionId"`
	PIN          string `json:"pin"`
	HostName     string `json:"hostName"`
	ClassID      string `json:"classId"`
	QuestionTime int    `json:"questionTime"`
}

// GameStarted signals the transition from lobby to running.
type GameStarted struct {
	SessionID      string `json:"sessionId"`
	TotalQuestions int    `json:"totalQuestions"`
	QuestionTime   int    `json:"questionTime"`
}

// Question delivers the next question to every connected client. It is the
// authoritative trigger for advancing the displayed question.
type Question struct {
	Index      int             `json:"index"`
	Payload    json.RawMessage `json:"payload"`
	StartedAt  time.Time       `json:"startedAt"`
	DeadlineAt time.Time       `json:"deadlineAt"`
}

// Leaderboard replaces the current top-N and "you" entries.
type Leaderboard struct {
	Top []domain.Entry `json:"top"`
	You *domain.Entry  `json:"you"`
}

// LobbyUpdate replaces the lobby roster and PIN.
type LobbyUpdate struct {
	Participants []string `json:"participants"`
	PIN          string   `json:"pin"`
}

// GameEnded carries the final leaderboard and terminates the session.
type GameEnded struct {
	FinalTop []domain.Entry `json:"finalTop"`
}

// Unknown wraps any message type this client does not recognize.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

func (GameAnnounced) isEvent() {}
func (GameStarted) isEvent()   {}
func (Question) isEvent()      {}
func (Leaderboard) isEvent()   {}
func (LobbyUpdate) isEvent()   {}
func (GameEnded) isEvent()     {}
func (Unknown) isEvent()       {}

// Decode parses a raw frame into its typed event. Frames without a valid
// JSON envelope are an error; the caller drops them.
func Decode(data []byte) (Event, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	switch envelope.Type {
	case "GAME_ANNOUNCED":
		var ev GameAnnounced
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode GAME_ANNOUNCED: %w", err)
		}
		return ev, nil
	case "GAME_STARTED":
		var ev GameStarted
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode GAME_STARTED: %w", err)
		}
		return ev, nil
	case "QUESTION":
		var ev Question
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode QUESTION: %w", err)
		}
		return ev, nil
	case "LEADERBOARD":
		var ev Leaderboard
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode LEADERBOARD: %w", err)
		}
		return ev, nil
	case "LOBBY_UPDATE":
		var ev LobbyUpdate
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode LOBBY_UPDATE: %w", err)
		}
		return ev, nil
	case "GAME_ENDED":
		var ev GameEnded
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode GAME_ENDED: %w", err)
		}
		return ev, nil
	default:
		return Unknown{Type: envelope.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}
