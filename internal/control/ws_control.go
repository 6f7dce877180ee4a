package control

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// AuthFunc reports whether a request may open a control channel.
type AuthFunc func(r *http.Request) bool

// Server handles websocket control input.
type Server struct {
	mu        sync.Mutex
	upgrader  websocket.Upgrader
	handler   *Handler
	authFn    AuthFunc
	readLimit int64
	log       zerolog.Logger
	conn      *websocket.Conn
}

// NewServer creates a control websocket server. readLimit bounds one message in bytes.
// Upgrades keep gorilla's default check that Origin matches the request host.
func NewServer(handler *Handler, authFn AuthFunc, readLimit int64, log zerolog.Logger) *Server {
	return &Server{
		handler:   handler,
		authFn:    authFn,
		readLimit: readLimit,
		log:       log.With().Str("component", "ws_control").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authFn != nil && !s.authFn(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		rejectConn(conn, err.Error())
		return
	}
	defer s.cleanupConn(conn)

	log := s.log.With().Str("conn", uuid.NewString()).Str("remote", r.RemoteAddr).Logger()
	log.Info().Msg("control connected")
	defer log.Info().Msg("control disconnected")

	if s.readLimit > 0 {
		conn.SetReadLimit(s.readLimit)
	}
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := conn.WriteJSON(s.handler.HandleRaw(data)); err != nil {
			log.Debug().Err(err).Msg("write reply failed")
			return
		}
	}
}

// Active reports whether a control connection is open.
func (s *Server) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// cleanupConn clears the active connection when closed.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// rejectConn sends a policy violation close and closes the socket.
func rejectConn(conn *websocket.Conn, reason string) {
	message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
	_ = conn.Close()
}
