// Package signaling exchanges WebRTC session descriptions over WebSocket.
package signaling

import (
	"errors"
	"net/http"
	"sync"
	"time"

	rtc "github.com/frudas24/deskinject/internal/webrtc"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"
)

// ControllerPolicy decides what happens when a second controller signals while one
// already holds the input channel.
type ControllerPolicy int

const (
	// ControllerReject refuses the newcomer with a policy-violation close.
	ControllerReject ControllerPolicy = iota
	// ControllerReplace disconnects the current controller in favour of the newcomer.
	ControllerReplace
)

// ErrControllerActive is returned to a rejected newcomer.
var ErrControllerActive = errors.New("controller already connected")

// errSuperseded marks writes to a controller that has been replaced.
var errSuperseded = errors.New("controller superseded")

// controller is one signaling socket and the peer negotiated over it.
type controller struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
	peer    *webrtc.PeerConnection
}

// send writes one signaling message to the controller socket.
func (c *controller) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Server negotiates the input data channel for one controller at a time.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	receiver *rtc.Receiver
	policy   ControllerPolicy
	authFn   func(*http.Request) bool
	log      zerolog.Logger
	current  *controller
}

// NewServer creates a signaling server. Upgrades keep gorilla's default check that
// Origin matches the request host.
func NewServer(receiver *rtc.Receiver, policy ControllerPolicy, authFn func(*http.Request) bool, log zerolog.Logger) *Server {
	return &Server{
		receiver: receiver,
		policy:   policy,
		authFn:   authFn,
		log:      log.With().Str("component", "signaling").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// ServeHTTP upgrades the request, claims the controller slot, and answers offers
// until the socket closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authFn != nil && !s.authFn(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &controller{id: uuid.NewString(), conn: conn}
	log := s.log.With().Str("controller", c.id).Str("remote", r.RemoteAddr).Logger()
	if err := s.claim(c, log); err != nil {
		closePolicy(conn, err.Error())
		return
	}
	defer s.release(c)
	log.Info().Msg("controller connected")
	defer log.Info().Msg("controller disconnected")

	peer, err := s.receiver.NewPeer()
	if err != nil {
		log.Warn().Err(err).Msg("create peer failed")
		return
	}
	if !s.bindPeer(c, peer) {
		_ = peer.Close()
		return
	}
	peer.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		if candidate == nil {
			return
		}
		ice := candidate.ToJSON()
		_ = s.sendIfCurrent(c, Message{T: TypeICE, Candidate: &ice})
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.negotiate(c, msg); err != nil {
			log.Debug().Err(err).Str("t", msg.T).Msg("negotiation failed")
			_ = s.sendIfCurrent(c, Message{T: TypeError, Error: err.Error()})
			return
		}
	}
}

// Active reports whether a controller holds the signaling slot.
func (s *Server) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// claim makes c the current controller according to the policy.
func (s *Server) claim(c *controller, log zerolog.Logger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev := s.current; prev != nil {
		if s.policy != ControllerReplace {
			return ErrControllerActive
		}
		log.Info().Str("previous", prev.id).Msg("replacing controller")
		closePolicy(prev.conn, "replaced by another controller")
	}
	s.current = c
	return nil
}

// bindPeer attaches peer to c if c still holds the slot.
func (s *Server) bindPeer(c *controller, peer *webrtc.PeerConnection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != c {
		return false
	}
	c.peer = peer
	return true
}

// release frees the slot if c still holds it and tears down its peer.
func (s *Server) release(c *controller) {
	s.mu.Lock()
	if s.current == c {
		s.current = nil
	}
	s.mu.Unlock()
	if c.peer != nil {
		_ = c.peer.Close()
	}
	_ = c.conn.Close()
}

// negotiate applies one signaling message to the controller's peer.
func (s *Server) negotiate(c *controller, msg Message) error {
	switch msg.T {
	case TypeOffer:
		answer, err := s.receiver.Answer(c.peer, msg.SDP)
		if err != nil {
			return err
		}
		return s.sendIfCurrent(c, Message{T: TypeAnswer, SDP: answer})
	case TypeICE:
		if msg.Candidate == nil {
			return nil
		}
		return c.peer.AddICECandidate(*msg.Candidate)
	default:
		return nil
	}
}

// sendIfCurrent writes msg unless c has been superseded.
func (s *Server) sendIfCurrent(c *controller, msg Message) error {
	s.mu.Lock()
	current := s.current == c
	s.mu.Unlock()
	if !current {
		return errSuperseded
	}
	return c.send(msg)
}

// closePolicy sends a policy-violation close frame and closes the socket.
func closePolicy(conn *websocket.Conn, reason string) {
	frame := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(time.Second))
	_ = conn.Close()
}
