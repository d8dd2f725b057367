package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// WSSession adapts a gorilla websocket connection to the hub's Session
// interface. All writes go through a single writer goroutine; Send enqueues
// and drops when the buffer is full, so one stalled client cannot hold up a
// publish fan-out.
type WSSession struct {
	id   string
	conn *websocket.Conn
	out  chan Event
	once sync.Once
	done chan struct{}
	log  zerolog.Logger
}

func NewWSSession(conn *websocket.Conn, log zerolog.Logger) *WSSession {
	return &WSSession{
		id:   uuid.NewString(),
		conn: conn,
		out:  make(chan Event, sendBuffer),
		done: make(chan struct{}),
		log:  log,
	}
}

func (s *WSSession) ID() string { return s.id }

// Send enqueues an event for the writer goroutine. Events for a closed or
// saturated session are dropped; the client reconciles via the history
// endpoint on reconnect.
func (s *WSSession) Send(event Event) {
	select {
	case s.out <- event:
	case <-s.done:
	default:
		s.log.Warn().Str("session", s.id).Msg("send buffer full, dropping event")
	}
}

// WriteLoop serialises queued events and keepalive pings onto the socket.
// It returns when Close is called or a write fails.
func (s *WSSession) WriteLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteJSON(event); err != nil {
				s.log.Debug().Str("session", s.id).Err(err).Msg("write failed")
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// Close stops the writer and closes the underlying connection. Safe to call
// more than once.
func (s *WSSession) Close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}
