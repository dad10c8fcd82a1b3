package livegame

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestAnnouncementListenerDeliversGames(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/ws/announce/classes/") {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		classID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/ws/announce/classes/"), "/")
		msg := `{"type":"GAME_ANNOUNCED","sessionId":"sess-1","pin":"482913","hostName":"Ms. Reyes","classId":"` + classID + `","questionTime":20}`
		_ = conn.WriteMessage(websocket.TextMessage, []byte(msg))
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	wsBase := "ws" + strings.TrimPrefix(server.URL, "http")
	listener := ListenAnnouncements(wsBase, []string{"class-1", "class-2"}, -1)
	defer listener.Close()

	seen := map[string]bool{}
	timeout := time.After(3 * time.Second)
	for len(seen) < 2 {
		select {
		case game := <-listener.Announcements():
			if game.SessionID != "sess-1" || game.PIN != "482913" {
				t.Fatalf("unexpected announcement %+v", game)
			}
			seen[game.ClassID] = true
		case <-timeout:
			t.Fatalf("timed out, saw %v", seen)
		}
	}
}
