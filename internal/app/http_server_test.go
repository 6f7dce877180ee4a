package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frudas24/deskinject/internal/config"
	"github.com/frudas24/deskinject/internal/monitor"
	"github.com/frudas24/deskinject/internal/session"
	"github.com/frudas24/deskinject/internal/simulate"
	"github.com/frudas24/deskinject/internal/testutil"
	"github.com/frudas24/deskinject/internal/wininput"
	"github.com/rs/zerolog"
)

// newTestApp returns an App backed by a fake injector on a 1920x1080 desktop.
func newTestApp(t *testing.T, sess *session.Session) (*App, *testutil.FakeInjector, *http.ServeMux) {
	t.Helper()
	fake := &testutil.FakeInjector{Width: 1920, Height: 1080}
	cfg := config.Config{
		ScriptDir:        t.TempDir(),
		InputEnabled:     true,
		MaxScriptSteps:   10,
		ControlReadLimit: 4096,
	}
	app, err := New(cfg, sess, simulate.New(fake, fake.Screen), zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	app.listMonitors = func() ([]monitor.Monitor, error) {
		return []monitor.Monitor{{Index: 1, X: 0, Y: 0, W: 1920, H: 1080, Primary: true}}, nil
	}
	app.virtualSize = fake.Screen
	mux := http.NewServeMux()
	app.RegisterRoutes(mux, "")
	return app, fake, mux
}

// do sends a request through mux and returns the recorder.
func do(mux *http.ServeMux, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// TestNew_RequiresDependencies verifies missing dependencies are rejected.
func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(config.Config{}, nil, simulate.New(&testutil.FakeInjector{}, nil), zerolog.Nop()); err == nil {
		t.Fatalf("expected error without session")
	}
	if _, err := New(config.Config{}, session.New("pw"), nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected error without simulator")
	}
}

// TestAPI_RequiresAuth verifies protected routes reject anonymous requests.
func TestAPI_RequiresAuth(t *testing.T) {
	_, _, mux := newTestApp(t, session.New("pw"))
	for _, path := range []string{"/api/state", "/api/monitors", "/api/scripts"} {
		if rec := do(mux, http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
	rec := do(mux, http.MethodPost, "/api/simulate", `{"t":"ping"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("simulate: expected 401, got %d", rec.Code)
	}
}

// login posts the password and returns the session cookie header value.
func login(t *testing.T, mux *http.ServeMux, password string) string {
	t.Helper()
	rec := do(mux, http.MethodPost, "/login", `{"password":"`+password+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected login 200, got %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			if !c.HttpOnly || c.SameSite != http.SameSiteStrictMode {
				t.Fatalf("unexpected cookie attributes %+v", c)
			}
			return c.Name + "=" + c.Value
		}
	}
	t.Fatalf("login did not set %s", sessionCookie)
	return ""
}

// TestLogin_ThenState verifies the login cookie unlocks the state endpoint.
func TestLogin_ThenState(t *testing.T) {
	_, _, mux := newTestApp(t, session.New("pw"))

	if rec := do(mux, http.MethodPost, "/login", `{"password":"nope"}`, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}
	cookie := login(t, mux, "pw")

	rec := do(mux, http.MethodGet, "/api/state", "", map[string]string{"Cookie": cookie})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Open || resp.Logins != 1 || !resp.InputEnabled || resp.Desktop.Width != 1920 || resp.Desktop.Height != 1080 {
		t.Fatalf("unexpected state: %+v", resp)
	}
	if resp.Desktop.Monitors != 1 || resp.Desktop.Bounds == nil || *resp.Desktop.Bounds != (monitor.Rect{W: 1920, H: 1080}) {
		t.Fatalf("unexpected monitor bounds: %+v", resp.Desktop)
	}

	do(mux, http.MethodPost, "/logout", "", map[string]string{"Cookie": cookie})
	if rec := do(mux, http.MethodGet, "/api/state", "", map[string]string{"Cookie": cookie}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

// TestLogin_DoesNotAuthorizeOthers verifies a login only authorizes requests carrying its token.
func TestLogin_DoesNotAuthorizeOthers(t *testing.T) {
	_, fake, mux := newTestApp(t, session.New("secret"))
	login(t, mux, "secret")

	rec := do(mux, http.MethodPost, "/api/simulate", `{"t":"keyPress","key":"KeyA"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(mux, http.MethodPost, "/api/simulate", `{"t":"keyPress","key":"KeyA"}`, map[string]string{"Cookie": sessionCookie + "=forged"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a forged cookie, got %d", rec.Code)
	}
	if n := len(fake.Snapshot()); n != 0 {
		t.Fatalf("expected nothing injected, got %d records", n)
	}
}

// TestLogin_TokenAsBearer verifies the issued token works as a bearer token.
func TestLogin_TokenAsBearer(t *testing.T) {
	_, _, mux := newTestApp(t, session.New("pw"))
	rec := do(mux, http.MethodPost, "/login", `{"password":"pw"}`, nil)
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK || resp.Token == "" {
		t.Fatalf("unexpected login response %+v", resp)
	}
	if rec := do(mux, http.MethodGet, "/api/state", "", map[string]string{"Authorization": "Bearer " + resp.Token}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d", rec.Code)
	}
}

// TestSimulate_BodyLimit verifies oversized simulate bodies are rejected unread.
func TestSimulate_BodyLimit(t *testing.T) {
	_, fake, mux := newTestApp(t, session.NewOpen())
	body := `{"t":"keyPress","key":"KeyA","pad":"` + strings.Repeat("x", 8192) + `"}`
	if rec := do(mux, http.MethodPost, "/api/simulate", body, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if n := len(fake.Snapshot()); n != 0 {
		t.Fatalf("expected nothing injected, got %d records", n)
	}
}

// TestBearerToken verifies API clients can authenticate per request.
func TestBearerToken(t *testing.T) {
	_, _, mux := newTestApp(t, session.New("pw"))
	rec := do(mux, http.MethodGet, "/api/monitors", "", map[string]string{"Authorization": "Bearer pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []monitor.Monitor
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || !list[0].Primary {
		t.Fatalf("unexpected monitors: %+v", list)
	}
	if rec := do(mux, http.MethodGet, "/api/monitors", "", map[string]string{"Authorization": "Bearer bad"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
}

// TestSimulate_Move verifies a move message reaches the injector normalized.
func TestSimulate_Move(t *testing.T) {
	_, fake, mux := newTestApp(t, session.NewOpen())
	rec := do(mux, http.MethodPost, "/api/simulate", `{"t":"move","id":3,"x":100,"y":200}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	calls := fake.Snapshot()
	if len(calls) != 1 || calls[0].Mouse == nil {
		t.Fatalf("expected one mouse record, got %+v", calls)
	}
	want := wininput.MouseInput{
		Flags: wininput.MouseMove | wininput.MouseAbsolute | wininput.MouseVirtualDesk,
		Dx:    3447,
		Dy:    12196,
	}
	if *calls[0].Mouse != want {
		t.Fatalf("unexpected record %+v", *calls[0].Mouse)
	}
}

// TestSimulate_Statuses verifies failures map to HTTP statuses.
func TestSimulate_Statuses(t *testing.T) {
	app, fake, mux := newTestApp(t, session.NewOpen())

	if rec := do(mux, http.MethodPost, "/api/simulate", `{"t":"jump"}`, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}

	fake.FailAt = 1
	if rec := do(mux, http.MethodPost, "/api/simulate", `{"t":"keyPress","key":"KeyA"}`, nil); rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for rejected input, got %d", rec.Code)
	}

	app.session.SetInputEnabled(false)
	if rec := do(mux, http.MethodPost, "/api/simulate", `{"t":"keyPress","key":"KeyA"}`, nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 with input disabled, got %d", rec.Code)
	}
	if snap := app.session.Snapshot(); snap.Failed != 1 {
		t.Fatalf("expected one failure recorded, got %+v", snap)
	}
}

// TestInputToggle verifies the gate endpoint.
func TestInputToggle(t *testing.T) {
	app, _, mux := newTestApp(t, session.NewOpen())
	if rec := do(mux, http.MethodPost, "/api/input", `{}`, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without enabled, got %d", rec.Code)
	}
	if rec := do(mux, http.MethodPost, "/api/input", `{"enabled":false}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if app.session.InputEnabled() {
		t.Fatalf("expected input disabled")
	}
}

// TestScript_Body verifies a posted script is replayed.
func TestScript_Body(t *testing.T) {
	_, fake, mux := newTestApp(t, session.NewOpen())
	rec := do(mux, http.MethodPost, "/api/script", "name: t\nsteps:\n  - tap: KeyA\n  - click: left\n", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp scriptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK || resp.Executed != 4 || len(fake.Snapshot()) != 4 {
		t.Fatalf("unexpected response %+v with %d calls", resp, len(fake.Snapshot()))
	}
}

// TestScript_DryRunAndErrors verifies dry runs inject nothing and bad scripts are rejected.
func TestScript_DryRunAndErrors(t *testing.T) {
	_, fake, mux := newTestApp(t, session.NewOpen())

	rec := do(mux, http.MethodPost, "/api/script?dryRun=1", "steps:\n  - tap: KeyA\n", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp scriptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Actions) != 2 || len(fake.Snapshot()) != 0 {
		t.Fatalf("unexpected dry run %+v", resp)
	}
	if len(resp.Messages) != 2 || resp.Messages[0].T != "keyPress" || resp.Messages[1].Key != "KeyA" {
		t.Fatalf("unexpected dry run messages %+v", resp.Messages)
	}

	if rec := do(mux, http.MethodPost, "/api/script", "steps:\n  - tap: Nope\n", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid step, got %d", rec.Code)
	}
}

// TestNamedScript verifies scripts are loaded from the script directory.
func TestNamedScript(t *testing.T) {
	app, fake, mux := newTestApp(t, session.NewOpen())
	path := filepath.Join(app.cfg.ScriptDir, "hello.yaml")
	if err := os.WriteFile(path, []byte("steps:\n  - wheel: {dx: 1, dy: 2}\n"), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	rec := do(mux, http.MethodGet, "/api/scripts", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "[\"hello\"]\n" {
		t.Fatalf("unexpected list %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(mux, http.MethodPost, "/api/scripts/hello", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := len(fake.Snapshot()); n != 2 {
		t.Fatalf("expected horizontal and vertical wheel records, got %d", n)
	}
	if rec := do(mux, http.MethodPost, "/api/scripts/missing", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

// TestStaticConsole verifies the embedded console is served at the root.
func TestStaticConsole(t *testing.T) {
	_, _, mux := newTestApp(t, session.New("pw"))
	rec := do(mux, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "deskinject") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
