package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Status is the advisory connection state. It never gates event dispatch.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusOpen
	StatusClosed
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// DefaultReconnectInterval is the delay before the single reconnect attempt
// scheduled after a connection closes.
const DefaultReconnectInterval = 2 * time.Second

// Options tune a Conn. The zero value is usable.
type Options struct {
	// ReconnectInterval is the delay before reconnecting after a close.
	// Zero selects DefaultReconnectInterval; a negative value disables
	// reconnecting entirely.
	ReconnectInterval time.Duration
	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
	// OnStatus, if set, observes every status transition.
	OnStatus func(Status)
}

// Conn owns the lifecycle of one WebSocket connection: dial, decode and
// dispatch inbound events, reconnect after close, tear down on Close.
//
// Transport failures are never escalated to the caller; the reconnect loop
// absorbs them and the only caller-visible signal is Status.
type Conn struct {
	url      string
	interval time.Duration
	dialer   *websocket.Dialer
	onStatus func(Status)

	mu       sync.Mutex
	dispatch func(Event)
	ws       *websocket.Conn
	timer    *time.Timer
	closed   bool
	status   Status
}

// Dial starts connecting to url in the background and dispatches every
// decoded event to fn. Dispatch always goes through the latest registration
// (see SetDispatch), never a snapshot taken at connect time.
func Dial(url string, fn func(Event), opts Options) *Conn {
	interval := opts.ReconnectInterval
	if interval == 0 {
		interval = DefaultReconnectInterval
	} else if interval < 0 {
		interval = 0
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	c := &Conn{
		url:      url,
		interval: interval,
		dialer:   dialer,
		onStatus: opts.OnStatus,
		dispatch: fn,
		status:   StatusIdle,
	}
	go c.connect()
	return c
}

// SetDispatch replaces the event callback without tearing down the socket.
func (c *Conn) SetDispatch(fn func(Event)) {
	c.mu.Lock()
	c.dispatch = fn
	c.mu.Unlock()
}

// Status reports the current connection state.
func (c *Conn) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Close cancels any pending reconnect and closes the socket. Events that
// race with teardown are dropped.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	ws := c.ws
	c.ws = nil
	c.status = StatusClosed
	c.mu.Unlock()
	if ws != nil {
		ws.Close()
	}
}

func (c *Conn) connect() {
	if c.isClosed() {
		return
	}
	c.setStatus(StatusConnecting)

	conn, _, err := c.dialer.Dial(c.url, nil)
	if err != nil {
		if c.isClosed() {
			return
		}
		log.Printf("ws: dial %s: %v", c.url, err)
		// A failed dial is both the error and the close for this attempt.
		c.setStatus(StatusError)
		c.scheduleReconnect()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.ws = conn
	c.mu.Unlock()

	c.setStatus(StatusOpen)
	c.readLoop(conn)
}

func (c *Conn) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		c.deliver(data)
	}
	conn.Close()
	if c.isClosed() {
		return
	}
	c.setStatus(StatusClosed)
	c.scheduleReconnect()
}

func (c *Conn) deliver(data []byte) {
	ev, err := Decode(data)
	if err != nil {
		// One bad frame must not break the session.
		log.Printf("ws: dropping malformed message: %v", err)
		return
	}
	c.mu.Lock()
	fn := c.dispatch
	closed := c.closed
	c.mu.Unlock()
	if closed || fn == nil {
		return
	}
	fn(ev)
}

func (c *Conn) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.interval <= 0 {
		return
	}
	c.timer = time.AfterFunc(c.interval, c.connect)
}

func (c *Conn) setStatus(s Status) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.status = s
	fn := c.onStatus
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
