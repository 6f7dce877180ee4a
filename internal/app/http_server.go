package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/frudas24/deskinject/internal/control"
	"github.com/frudas24/deskinject/internal/monitor"
	"github.com/frudas24/deskinject/internal/script"
	"github.com/frudas24/deskinject/internal/simulate"
	"github.com/frudas24/deskinject/internal/web"
	"github.com/google/uuid"
)

const maxScriptBody = 1 << 20

// RegisterRoutes wires API, websocket, and static handlers onto the mux. An empty
// staticDir serves the embedded console.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/monitors", a.handleMonitors)
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/input", a.handleInput)
	mux.HandleFunc("/api/simulate", a.handleSimulate)
	mux.HandleFunc("/api/script", a.handleScript)
	mux.HandleFunc("/api/scripts", a.handleScriptList)
	mux.HandleFunc("/api/scripts/", a.handleNamedScript)
	mux.Handle("/ws/control", a.Control())
	if s := a.Signaling(); s != nil {
		mux.Handle("/ws/signal", s)
	}
	mux.HandleFunc("/favicon.ico", handleFavicon)

	mux.Handle("/", a.staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

type inputRequest struct {
	Enabled *bool `json:"enabled"`
}

type stateResponse struct {
	Open          bool         `json:"open"`
	Logins        int          `json:"logins"`
	InputEnabled  bool         `json:"inputEnabled"`
	Injected      uint64       `json:"injected"`
	Failed        uint64       `json:"failed"`
	ControlActive bool         `json:"controlActive"`
	WebRTC        bool         `json:"webrtc"`
	PeerActive    bool         `json:"peerActive"`
	Desktop       desktopState `json:"desktop"`
}

type desktopState struct {
	Width    int32         `json:"width"`
	Height   int32         `json:"height"`
	Monitors int           `json:"monitors"`
	Bounds   *monitor.Rect `json:"bounds,omitempty"`
}

type scriptResponse struct {
	Name     string            `json:"name"`
	OK       bool              `json:"ok"`
	Executed int               `json:"executed"`
	Actions  []string          `json:"actions,omitempty"`
	Messages []control.Message `json:"messages,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	token, ok := a.session.Login(req.Password)
	if !ok {
		a.log.Warn().Str("remote", r.RemoteAddr).Msg("login failed")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{OK: true, Token: token})
}

// handleLogout revokes the caller's login token.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.session.Logout(requestToken(r))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMonitors returns the list of monitors.
func (a *App) handleMonitors(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, r) {
		return
	}
	list, err := a.listMonitors()
	if err != nil {
		http.Error(w, "failed to list monitors", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []monitor.Monitor{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleState returns session state, the virtual desktop size, and the monitor bounds.
func (a *App) handleState(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, r) {
		return
	}
	snap := a.session.Snapshot()
	width, height := a.virtualSize()
	desktop := desktopState{Width: width, Height: height}
	if list, err := a.listMonitors(); err == nil && len(list) > 0 {
		bounds := monitor.Union(list)
		desktop.Monitors = len(list)
		desktop.Bounds = &bounds
	}
	writeJSON(w, http.StatusOK, stateResponse{
		Open:          a.session.Open(),
		Logins:        snap.Logins,
		InputEnabled:  snap.InputEnabled,
		Injected:      snap.Injected,
		Failed:        snap.Failed,
		ControlActive: a.control.Active(),
		WebRTC:        a.signaling != nil,
		PeerActive:    a.signaling != nil && a.signaling.Active(),
		Desktop:       desktop,
	})
}

// handleInput toggles the input gate.
func (a *App) handleInput(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !a.requireAuth(w, r) {
		return
	}
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	a.session.SetInputEnabled(*req.Enabled)
	a.log.Info().Bool("enabled", *req.Enabled).Msg("input gate changed")
	writeJSON(w, http.StatusOK, map[string]bool{"inputEnabled": *req.Enabled})
}

// handleSimulate injects one control message.
func (a *App) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !a.requireAuth(w, r) {
		return
	}
	limit := a.cfg.ControlReadLimit
	if limit <= 0 {
		limit = maxScriptBody
	}
	var msg control.Message
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(&msg); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	reply := control.Reply{T: "ack", ID: msg.ID, OK: true}
	ev, err := control.Decode(msg)
	if err == nil {
		err = a.handler.Apply(ev)
	}
	if err != nil {
		reply.OK, reply.Error = false, err.Error()
	}
	writeJSON(w, statusFor(err), reply)
}

// handleScript runs a YAML script posted in the body. ?dryRun=1 only compiles it.
func (a *App) handleScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !a.requireAuth(w, r) {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScriptBody))
	if err != nil {
		http.Error(w, "script too large", http.StatusRequestEntityTooLarge)
		return
	}
	s, err := script.Parse(body, a.cfg.MaxScriptSteps)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, scriptResponse{Error: err.Error()})
		return
	}
	a.runScript(w, r, s)
}

// handleScriptList returns the names of stored scripts.
func (a *App) handleScriptList(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w, r) {
		return
	}
	names, err := a.scripts.List()
	if err != nil {
		http.Error(w, "failed to list scripts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// handleNamedScript runs a script from the script directory.
func (a *App) handleNamedScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !a.requireAuth(w, r) {
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/scripts/")
	s, err := a.scripts.Load(name)
	switch {
	case errors.Is(err, script.ErrNotFound):
		http.Error(w, "script not found", http.StatusNotFound)
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, scriptResponse{Name: name, Error: err.Error()})
		return
	}
	a.runScript(w, r, s)
}

// runScript replays s through the gated handler, one script at a time.
func (a *App) runScript(w http.ResponseWriter, r *http.Request, s script.Script) {
	resp := scriptResponse{Name: s.Name}
	if isTrue(r.URL.Query().Get("dryRun")) {
		for _, action := range s.Actions {
			resp.Actions = append(resp.Actions, action.String())
		}
		for _, ev := range s.Events() {
			msg, err := control.Encode(ev)
			if err != nil {
				resp.Error = err.Error()
				writeJSON(w, http.StatusBadRequest, resp)
				return
			}
			resp.Messages = append(resp.Messages, msg)
		}
		resp.OK = true
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if !a.session.InputEnabled() {
		resp.Error = control.ErrInputDisabled.Error()
		writeJSON(w, http.StatusConflict, resp)
		return
	}

	a.runMu.Lock()
	defer a.runMu.Unlock()

	log := a.log.With().Str("run", uuid.NewString()).Str("script", s.Name).Logger()
	log.Info().Int("actions", len(s.Actions)).Msg("script started")
	res, err := script.Run(r.Context(), control.SimulatorFunc(a.handler.Apply), s)
	resp.Executed = res.Executed
	if err != nil {
		log.Warn().Err(err).Int("executed", res.Executed).Msg("script stopped")
		resp.Error = err.Error()
		writeJSON(w, statusFor(err), resp)
		return
	}
	log.Info().Int("executed", res.Executed).Msg("script finished")
	resp.OK = true
	writeJSON(w, http.StatusOK, resp)
}

// requireAuth returns false and writes an error if the request is not authorized.
func (a *App) requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if !a.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// statusFor maps an apply error to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, control.ErrBadMessage), errors.Is(err, control.ErrUnknownMessage):
		return http.StatusBadRequest
	case errors.Is(err, control.ErrInputDisabled):
		return http.StatusConflict
	case errors.Is(err, simulate.ErrSimulate):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// isTrue parses loose boolean query values.
func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func (a *App) staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		a.log.Warn().Err(err).Msg("static assets unavailable")
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
