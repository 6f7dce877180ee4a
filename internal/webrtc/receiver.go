// Package webrtc receives control messages over a WebRTC data channel.
package webrtc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/frudas24/deskinject/internal/control"
	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"
)

// InputLabel is the data channel label carrying control messages.
const InputLabel = "input"

// MessageHandler applies one raw control message.
type MessageHandler interface {
	HandleRaw(data []byte) control.Reply
}

// Receiver manages the peer connection that carries the input data channel.
type Receiver struct {
	mu      sync.Mutex
	api     *webrtc.API
	config  webrtc.Configuration
	handler MessageHandler
	log     zerolog.Logger
	peer    *webrtc.PeerConnection
}

// NewReceiver initializes a receiver with default codecs/interceptors and optional STUN servers.
func NewReceiver(handler MessageHandler, stunURLs []string, log zerolog.Logger) (*Receiver, error) {
	if handler == nil {
		return nil, fmt.Errorf("message handler is required")
	}
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
	)

	config := webrtc.Configuration{}
	if len(stunURLs) > 0 {
		config.ICEServers = []webrtc.ICEServer{{URLs: stunURLs}}
	}

	return &Receiver{
		api:     api,
		config:  config,
		handler: handler,
		log:     log.With().Str("component", "webrtc").Logger(),
	}, nil
}

// NewPeer creates a new peer connection, replacing any previous one.
func (r *Receiver) NewPeer() (*webrtc.PeerConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.peer != nil {
		_ = r.peer.Close()
		r.peer = nil
	}

	peer, err := r.api.NewPeerConnection(r.config)
	if err != nil {
		return nil, err
	}
	peer.OnDataChannel(r.attachChannel)
	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		r.log.Info().Stringer("state", state).Msg("peer state changed")
	})

	r.peer = peer
	return peer, nil
}

// ClosePeer closes the current peer connection.
func (r *Receiver) ClosePeer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.peer != nil {
		_ = r.peer.Close()
		r.peer = nil
	}
}

// Answer applies a remote offer to peer and returns the local answer SDP once ICE
// gathering has finished.
func (r *Receiver) Answer(peer *webrtc.PeerConnection, offer string) (string, error) {
	if offer == "" {
		return "", fmt.Errorf("empty offer")
	}
	if err := peer.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  offer,
	}); err != nil {
		return "", err
	}
	answer, err := peer.CreateAnswer(nil)
	if err != nil {
		return "", err
	}
	gatherComplete := webrtc.GatheringCompletePromise(peer)
	if err := peer.SetLocalDescription(answer); err != nil {
		return "", err
	}
	<-gatherComplete
	local := peer.LocalDescription()
	if local == nil {
		return "", fmt.Errorf("missing local description")
	}
	return local.SDP, nil
}

// attachChannel routes messages of the input channel to the handler.
func (r *Receiver) attachChannel(dc *webrtc.DataChannel) {
	if dc.Label() != InputLabel {
		r.log.Debug().Str("label", dc.Label()).Msg("ignoring data channel")
		return
	}
	dc.OnOpen(func() {
		r.log.Info().Msg("input channel open")
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if err := dc.SendText(r.reply(msg.Data)); err != nil {
			r.log.Debug().Err(err).Msg("send reply failed")
		}
	})
}

// reply handles one message and encodes the acknowledgement.
func (r *Receiver) reply(data []byte) string {
	out, err := json.Marshal(r.handler.HandleRaw(data))
	if err != nil {
		return `{"t":"ack","ok":false,"error":"encode reply"}`
	}
	return string(out)
}
