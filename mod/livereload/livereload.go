package livereload

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"imuslab.com/siteserv/mod/info/logger"
)

/*
	Live Reload Service

	Watch the web root for changes and push a reload message to
	connected browsers over websocket. The client script is served
	from a reserved path and injected into HTML responses by the
	web server only when this service is enabled.
*/

const (
	//Reserved paths on the static web server
	WebSocketPath = "/.siteserv/livereload"
	ScriptPath    = "/.siteserv/livereload.js"

	//Message pushed to browsers on any change
	reloadMessage = "reload"

	defaultDebounceInterval = 250 * time.Millisecond
	clientWriteTimeout      = 5 * time.Second
)

//go:embed livereload.js
var clientScript []byte

// DefaultUpgrader specifies the parameters for upgrading an HTTP
// connection to a WebSocket connection.
var DefaultUpgrader = &websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	//The preview server is local development only. Allow any origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Options struct {
	WebRoot          string         //Folder to watch for changes
	DebounceInterval time.Duration  //Quiet period before a reload broadcast, 0 for default
	Logger           *logger.Logger //System wide logger
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex //Guard concurrent writes to the same connection
}

type Service struct {
	option   *Options
	clients  sync.Map //Map of client uuid to *client
	watcher  *fsnotify.Watcher
	stopChan chan bool
}

// NewService creates a live reload service watching the given web root.
// The web root must exist before this is called.
func NewService(options *Options) (*Service, error) {
	if options.DebounceInterval <= 0 {
		options.DebounceInterval = defaultDebounceInterval
	}

	thisService := Service{
		option:   options,
		stopChan: make(chan bool),
	}

	err := thisService.startWatcher()
	if err != nil {
		return nil, err
	}

	return &thisService, nil
}

// RegisterEndpoints attaches the reserved websocket and client script
// paths to the given mux
func (s *Service) RegisterEndpoints(mux *http.ServeMux) {
	mux.HandleFunc(WebSocketPath, s.HandleClientConnect)
	mux.HandleFunc(ScriptPath, s.HandleClientScript)
}

// IsReservedPath checks if a request path belongs to this service
func IsReservedPath(requestPath string) bool {
	return requestPath == WebSocketPath || requestPath == ScriptPath
}

// Handle websocket upgrade from a previewing browser
func (s *Service) HandleClientConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := DefaultUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.option.Logger.PrintAndLog("livereload", "Websocket upgrade failed", err)
		return
	}

	clientID := uuid.New().String()
	s.clients.Store(clientID, &client{conn: conn})

	//Browsers never send anything meaningful. Read until the
	//connection dies so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.removeClient(clientID)
				return
			}
		}
	}()
}

// Serve the embedded browser side reload script
func (s *Service) HandleClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript")
	w.Write(clientScript)
}

// Broadcast pushes a message to every connected browser
func (s *Service) Broadcast(message string) {
	s.clients.Range(func(key, value interface{}) bool {
		thisClient := value.(*client)
		thisClient.mu.Lock()
		thisClient.conn.SetWriteDeadline(time.Now().Add(clientWriteTimeout))
		err := thisClient.conn.WriteMessage(websocket.TextMessage, []byte(message))
		thisClient.mu.Unlock()
		if err != nil {
			s.removeClient(key.(string))
		}
		return true
	})
}

// ConnectedClients returns the number of browsers currently connected
func (s *Service) ConnectedClients() int {
	count := 0
	s.clients.Range(func(key, value interface{}) bool {
		count++
		return true
	})
	return count
}

// InjectIntoHTML inserts the client script tag into an HTML document,
// before the closing body tag if one exists
func (s *Service) InjectIntoHTML(content []byte) []byte {
	scriptTag := []byte("<script src=\"" + ScriptPath + "\"></script>")

	closingTag := []byte("</body>")
	idx := bytes.LastIndex(bytes.ToLower(content), closingTag)
	if idx < 0 {
		//No body tag. Append the script to the end of the document
		return append(content, scriptTag...)
	}

	injected := make([]byte, 0, len(content)+len(scriptTag))
	injected = append(injected, content[:idx]...)
	injected = append(injected, scriptTag...)
	injected = append(injected, content[idx:]...)
	return injected
}

func (s *Service) removeClient(clientID string) {
	value, loaded := s.clients.LoadAndDelete(clientID)
	if loaded {
		value.(*client).conn.Close()
	}
}

// Close stops the watcher and disconnects all browsers
func (s *Service) Close() {
	close(s.stopChan)
	s.watcher.Close()
	s.clients.Range(func(key, value interface{}) bool {
		value.(*client).conn.Close()
		s.clients.Delete(key)
		return true
	})
}
