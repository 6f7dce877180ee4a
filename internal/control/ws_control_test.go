package control

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frudas24/deskinject/internal/session"
	"github.com/frudas24/deskinject/internal/simulate"
	"github.com/frudas24/deskinject/internal/testutil"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer serves a control server over httptest and returns its websocket URL.
func startServer(t *testing.T, authFn AuthFunc) (*Server, *testutil.FakeInjector, string) {
	t.Helper()
	inj := &testutil.FakeInjector{Width: 1920, Height: 1080}
	handler := NewHandler(simulate.New(inj, inj.Screen), session.New("pw"), zerolog.Nop())
	server := NewServer(handler, authFn, 4096, zerolog.Nop())
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)
	return server, inj, "ws" + strings.TrimPrefix(ts.URL, "http")
}

// TestServeHTTP_RoundTrip verifies messages are injected and acknowledged over websocket.
func TestServeHTTP_RoundTrip(t *testing.T) {
	_, inj, url := startServer(t, nil)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"move","id":1,"x":100,"y":200}`)))
	var reply Reply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, Reply{T: "ack", ID: 1, OK: true}, reply)

	calls := inj.Snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, int32(3447), calls[0].Mouse.Dx)
	assert.Equal(t, int32(12196), calls[0].Mouse.Dy)
}

// TestServeHTTP_Unauthorized verifies the auth hook runs before upgrading.
func TestServeHTTP_Unauthorized(t *testing.T) {
	_, _, url := startServer(t, func(*http.Request) bool { return false })
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestServeHTTP_SingleConnection verifies a second control connection is rejected.
func TestServeHTTP_SingleConnection(t *testing.T) {
	server, _, url := startServer(t, nil)
	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, server.Active, time.Second, 10*time.Millisecond)

	second, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer second.Close()
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = second.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "unexpected error %v", err)
}

// TestServeHTTP_ReadLimit verifies oversized messages close the connection.
func TestServeHTTP_ReadLimit(t *testing.T) {
	_, inj, url := startServer(t, nil)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	payload := `{"t":"ping","pad":"` + strings.Repeat("x", 8192) + `"}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Empty(t, inj.Snapshot())
}

// TestServeHTTP_CrossOriginRejected verifies pages from another origin cannot open the socket.
func TestServeHTTP_CrossOriginRejected(t *testing.T) {
	_, inj, url := startServer(t, nil)
	header := http.Header{"Origin": []string{"http://attacker.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, inj.Snapshot())
}
