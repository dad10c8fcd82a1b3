package livegame

import (
	"time"

	"pavonify-live-client/internal/domain"
	"pavonify-live-client/internal/transport/ws"
)

// AnnouncementListener watches the announcement socket of one or more
// classes and funnels GAME_ANNOUNCED broadcasts onto a single channel.
type AnnouncementListener struct {
	conns []*ws.Conn
	ch    chan domain.AnnouncedGame
}

// ListenAnnouncements opens one socket per class. The returned listener must
// be closed to release the connections.
func ListenAnnouncements(wsBase string, classIDs []string, reconnectInterval time.Duration) *AnnouncementListener {
	l := &AnnouncementListener{
		ch: make(chan domain.AnnouncedGame, 16),
	}
	for _, classID := range classIDs {
		conn := ws.Dial(ws.AnnounceURL(wsBase, classID), l.handleEvent, ws.Options{
			ReconnectInterval: reconnectInterval,
		})
		l.conns = append(l.conns, conn)
	}
	return l
}

// Announcements delivers incoming game announcements. The channel is never
// closed; stop reading after Close.
func (l *AnnouncementListener) Announcements() <-chan domain.AnnouncedGame {
	return l.ch
}

// Close tears down every class socket.
func (l *AnnouncementListener) Close() {
	for _, conn := range l.conns {
		conn.Close()
	}
}

func (l *AnnouncementListener) handleEvent(ev ws.Event) {
	announced, ok := ev.(ws.GameAnnounced)
	if !ok {
		return
	}
	game := domain.AnnouncedGame{
		SessionID:    announced.SessionID,
		PIN:          announced.PIN,
		HostName:     announced.HostName,
		ClassID:      announced.ClassID,
		QuestionTime: announced.QuestionTime,
	}
	select {
	case l.ch <- game:
	default:
		// Drop when the consumer is not keeping up; announcements are
		// advisory and the next one supersedes this one anyway.
	}
}
