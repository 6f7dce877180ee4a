// Package app wires HTTP, the control transports, and scripts together.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/frudas24/deskinject/internal/config"
	"github.com/frudas24/deskinject/internal/control"
	"github.com/frudas24/deskinject/internal/monitor"
	"github.com/frudas24/deskinject/internal/script"
	"github.com/frudas24/deskinject/internal/session"
	"github.com/frudas24/deskinject/internal/signaling"
	"github.com/frudas24/deskinject/internal/webrtc"
	"github.com/rs/zerolog"
)

// App coordinates the HTTP API, websocket servers, and script runs.
type App struct {
	runMu     sync.Mutex
	cfg       config.Config
	session   *session.Session
	handler   *control.Handler
	control   *control.Server
	receiver  *webrtc.Receiver
	signaling *signaling.Server
	scripts   *script.Store
	log       zerolog.Logger

	listMonitors func() ([]monitor.Monitor, error)
	virtualSize  func() (int32, int32)
}

// New creates a new application with its dependencies wired.
func New(cfg config.Config, sess *session.Session, sim control.Simulator, log zerolog.Logger) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if sim == nil {
		return nil, errors.New("simulator is required")
	}

	app := &App{
		cfg:          cfg,
		session:      sess,
		handler:      control.NewHandler(sim, sess, log),
		scripts:      script.NewStore(cfg.ScriptDir, cfg.MaxScriptSteps),
		log:          log.With().Str("component", "app").Logger(),
		listMonitors: monitor.ListMonitors,
		virtualSize:  monitor.VirtualSize,
	}
	sess.SetInputEnabled(cfg.InputEnabled)
	app.control = control.NewServer(app.handler, app.authorized, cfg.ControlReadLimit, log)

	if cfg.WebRTCEnabled {
		receiver, err := webrtc.NewReceiver(app.handler, cfg.STUNURLs, log)
		if err != nil {
			return nil, fmt.Errorf("webrtc receiver: %w", err)
		}
		app.receiver = receiver
		app.signaling = signaling.NewServer(receiver, signaling.ControllerReplace, app.authorized, log)
	}
	return app, nil
}

// Stop releases the data channel peer, if any.
func (a *App) Stop() error {
	if a.receiver != nil {
		a.receiver.ClosePeer()
	}
	return nil
}

// Handler returns the shared control message handler.
func (a *App) Handler() *control.Handler {
	return a.handler
}

// Signaling returns the signaling websocket handler, or nil when WebRTC is disabled.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// sessionCookie carries the login token for browser clients.
const sessionCookie = "deskinject_session"

// authorized checks the request's token against the session.
func (a *App) authorized(r *http.Request) bool {
	return a.session.Authorize(requestToken(r))
}

// requestToken extracts a token from the Authorization header, the session cookie,
// or ?token= for websocket clients that cannot set headers.
func requestToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return r.URL.Query().Get("token")
}
