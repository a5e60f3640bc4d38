package livereload_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"imuslab.com/siteserv/mod/info/logger"
	"imuslab.com/siteserv/mod/livereload"
)

func newTestService(t *testing.T) (*livereload.Service, string) {
	t.Helper()
	webroot := t.TempDir()
	fmtLogger, err := logger.NewFmtLogger()
	require.NoError(t, err)

	service, err := livereload.NewService(&livereload.Options{
		WebRoot:          webroot,
		DebounceInterval: 50 * time.Millisecond,
		Logger:           fmtLogger,
	})
	require.NoError(t, err)
	t.Cleanup(service.Close)
	return service, webroot
}

func dialTestClient(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + livereload.WebSocketPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInjectIntoHTML(t *testing.T) {
	service, _ := newTestService(t)

	withBody := []byte("<html><body><h1>hi</h1></body></html>")
	injected := string(service.InjectIntoHTML(withBody))
	assert.Contains(t, injected, "<script src=\""+livereload.ScriptPath+"\"></script>")
	assert.Less(t, strings.Index(injected, livereload.ScriptPath), strings.Index(injected, "</body>"))

	withoutBody := []byte("<h1>fragment</h1>")
	injected = string(service.InjectIntoHTML(withoutBody))
	assert.True(t, strings.HasPrefix(injected, "<h1>fragment</h1>"))
	assert.Contains(t, injected, livereload.ScriptPath)
}

func TestIsReservedPath(t *testing.T) {
	assert.True(t, livereload.IsReservedPath(livereload.WebSocketPath))
	assert.True(t, livereload.IsReservedPath(livereload.ScriptPath))
	assert.False(t, livereload.IsReservedPath("/index.html"))
	assert.False(t, livereload.IsReservedPath("/"))
}

func TestClientScriptServed(t *testing.T) {
	service, _ := newTestService(t)

	mux := http.NewServeMux()
	service.RegisterEndpoints(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + livereload.ScriptPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/javascript", resp.Header.Get("Content-Type"))
}

func TestBroadcastReachesClient(t *testing.T) {
	service, _ := newTestService(t)

	mux := http.NewServeMux()
	service.RegisterEndpoints(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dialTestClient(t, server)

	//Wait until the server side registered the connection
	require.Eventually(t, func() bool {
		return service.ConnectedClients() == 1
	}, time.Second, 10*time.Millisecond)

	service.Broadcast("reload")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(message))
}

func TestFileChangeTriggersReload(t *testing.T) {
	service, webroot := newTestService(t)

	mux := http.NewServeMux()
	service.RegisterEndpoints(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dialTestClient(t, server)
	require.Eventually(t, func() bool {
		return service.ConnectedClients() == 1
	}, time.Second, 10*time.Millisecond)

	err := os.WriteFile(filepath.Join(webroot, "index.html"), []byte("<html></html>"), 0775)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(message))
}
