package control

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/frudas24/deskinject/internal/event"
	"github.com/frudas24/deskinject/internal/session"
	"github.com/rs/zerolog"
)

// ErrInputDisabled indicates the session gate rejected an input message.
var ErrInputDisabled = errors.New("input disabled")

// Simulator injects one event.
type Simulator interface {
	Simulate(ev event.Event) error
}

// SimulatorFunc adapts a function to Simulator.
type SimulatorFunc func(ev event.Event) error

// Simulate calls f.
func (f SimulatorFunc) Simulate(ev event.Event) error {
	return f(ev)
}

// Handler applies control messages. It is shared by every transport.
type Handler struct {
	sim     Simulator
	session *session.Session
	log     zerolog.Logger
}

// NewHandler returns a handler gated by sess.
func NewHandler(sim Simulator, sess *session.Session, log zerolog.Logger) *Handler {
	return &Handler{
		sim:     sim,
		session: sess,
		log:     log.With().Str("component", "control").Logger(),
	}
}

// Handle applies one message and returns its acknowledgement.
func (h *Handler) Handle(msg Message) Reply {
	reply := Reply{T: "ack", ID: msg.ID}
	switch msg.T {
	case TypePing:
		reply.T, reply.OK = "pong", true
		return reply
	case TypeInputEnabled:
		if msg.Enabled == nil {
			return withError(reply, fmt.Errorf("%w: enabled is required", ErrBadMessage))
		}
		h.session.SetInputEnabled(*msg.Enabled)
		h.log.Info().Bool("enabled", *msg.Enabled).Msg("input gate changed")
		reply.OK = true
		return reply
	}

	ev, err := Decode(msg)
	if err != nil {
		return withError(reply, err)
	}
	if err := h.Apply(ev); err != nil {
		return withError(reply, err)
	}
	reply.OK = true
	return reply
}

// Apply injects ev when the input gate is open and records the outcome.
func (h *Handler) Apply(ev event.Event) error {
	if !h.session.InputEnabled() {
		return ErrInputDisabled
	}
	err := h.sim.Simulate(ev)
	h.session.RecordResult(err)
	if err != nil {
		h.log.Warn().Err(err).Stringer("event", ev).Msg("simulate failed")
		return err
	}
	h.log.Debug().Stringer("event", ev).Msg("simulated")
	return nil
}

// HandleRaw decodes a JSON message and applies it.
func (h *Handler) HandleRaw(data []byte) Reply {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return withError(Reply{T: "ack"}, fmt.Errorf("%w: %v", ErrBadMessage, err))
	}
	return h.Handle(msg)
}

// withError marks reply as failed.
func withError(reply Reply, err error) Reply {
	reply.OK = false
	reply.Error = err.Error()
	return reply
}
