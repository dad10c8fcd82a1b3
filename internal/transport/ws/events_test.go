package ws

import (
	"testing"
	"time"
)

func TestDecodeQuestion(t *testing.T) {
	data := []byte(`{
		"type": "QUESTION",
		"index": 3,
		"payload": {"prompt": "Translate 'hola'"},
		"startedAt": "2026-03-01T10:00:00+00:00",
		"deadlineAt": "2026-03-01T10:00:20+00:00"
	}`)

	ev, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	q, ok := ev.(Question)
	if !ok {
		t.Fatalf("expected Question, got %T", ev)
	}
	if q.Index != 3 {
		t.Fatalf("expected index 3, got %d", q.Index)
	}
	if string(q.Payload) == "" {
		t.Fatal("expected raw payload to be preserved")
	}
	if q.DeadlineAt.Sub(q.StartedAt) != 20*time.Second {
		t.Fatalf("unexpected deadline window: %v", q.DeadlineAt.Sub(q.StartedAt))
	}
}

func TestDecodeLobbyUpdate(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"LOBBY_UPDATE","participants":["Ana","Ben"],"pin":"482913"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	lobby, ok := ev.(LobbyUpdate)
	if !ok {
		t.Fatalf("expected LobbyUpdate, got %T", ev)
	}
	if len(lobby.Participants) != 2 || lobby.PIN != "482913" {
		t.Fatalf("unexpected lobby: %+v", lobby)
	}
}

func TestDecodeGameAnnounced(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"GAME_ANNOUNCED","sessionId":"s1","pin":"123456","hostName":"Ms. Reyes","classId":"c9","questionTime":20}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ga, ok := ev.(GameAnnounced)
	if !ok {
		t.Fatalf("expected GameAnnounced, got %T", ev)
	}
	if ga.SessionID != "s1" || ga.HostName != "Ms. Reyes" || ga.QuestionTime != 20 {
		t.Fatalf("unexpected announcement: %+v", ga)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"FUTURE_THING","whatever":true}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	unknown, ok := ev.(Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %T", ev)
	}
	if unknown.Type != "FUTURE_THING" {
		t.Fatalf("unexpected type %q", unknown.Type)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{oops`)); err == nil {
		t.Fatal("expected error for malformed frame")
	}
}
