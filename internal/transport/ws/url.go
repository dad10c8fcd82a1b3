package ws

import (
	"fmt"
	"net/url"
	"strings"
)

// BaseFromHTTP derives a WebSocket base URL from an http(s) one, matching
// ws: to http: and wss: to https:.
func BaseFromHTTP(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// GameURL returns the per-session game socket URL.
func GameURL(base, sessionID string) string {
	return joinURL(base, "/ws/live-games/"+sessionID+"/")
}

// AnnounceURL returns the class-wide announcement socket URL.
func AnnounceURL(base, classID string) string {
	return joinURL(base, "/ws/announce/classes/"+classID+"/")
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
