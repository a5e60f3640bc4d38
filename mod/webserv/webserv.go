package webserv

import (
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"imuslab.com/siteserv/mod/database"
	"imuslab.com/siteserv/mod/info/logger"
	"imuslab.com/siteserv/mod/livereload"
	"imuslab.com/siteserv/mod/statistic"
	"imuslab.com/siteserv/mod/utils"
)

/*
	Static Web Server package

	This module hosts the static web server that serves the prebuilt
	website from the web root folder
*/

//go:embed templates/*
var templates embed.FS

type WebServerOptions struct {
	Port                   string               //Port for listening
	WebRoot                string               //Folder holding the static web content
	EnableDirectoryListing bool                 //Enable listing of folders without an index
	Sysdb                  *database.Database   //Database for storing configs
	Logger                 *logger.Logger       //System wide logger
	Collector              *statistic.Collector //Request statistic collector, can be nil
}

type WebServer struct {
	mux       *http.ServeMux
	server    *http.Server
	listener  net.Listener
	option    *WebServerOptions
	reloader  *livereload.Service
	isRunning bool
	mu        sync.Mutex
}

// NewWebServer creates a new WebServer instance. One instance only
func NewWebServer(options *WebServerOptions) *WebServer {
	if !utils.FileExists(options.WebRoot) {
		//Web root folder not exists. Create one with the default template
		os.MkdirAll(options.WebRoot, 0775)
		indexTemplate, err := templates.ReadFile("templates/index.html")
		if err != nil {
			options.Logger.PrintAndLog("webserv", "Failed to read default index template", err)
		} else {
			os.WriteFile(filepath.Join(options.WebRoot, "index.html"), indexTemplate, 0775)
		}
	}

	//Create a table to store the server settings
	options.Sysdb.NewTable("webserv")

	return &WebServer{
		mux:       http.NewServeMux(),
		option:    options,
		isRunning: false,
		mu:        sync.Mutex{},
	}
}

// SetLiveReloadService attaches a live reload service to the server.
// Must be called before Start.
func (ws *WebServer) SetLiveReloadService(reloader *livereload.Service) {
	ws.reloader = reloader
}

// GetListeningPort returns the current port in options
func (ws *WebServer) GetListeningPort() string {
	return ws.option.Port
}

// GetWebRoot returns the folder being served
func (ws *WebServer) GetWebRoot() string {
	return ws.option.WebRoot
}

// Start binds the listener and begins serving the web root.
// Bind failures are returned synchronously.
func (ws *WebServer) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	//Check if server already running
	if ws.isRunning {
		return fmt.Errorf("web server is already running")
	}

	//Dispose the old mux and create a new one
	ws.mux = http.NewServeMux()

	//Reserved live reload endpoints take precedence over the file server
	if ws.reloader != nil {
		ws.reloader.RegisterEndpoints(ws.mux)
	}

	//Create a static web server
	fs := http.FileServer(http.Dir(ws.option.WebRoot))
	ws.mux.Handle("/", ws.fsMiddleware(fs))

	ln, err := net.Listen("tcp", ":"+ws.option.Port)
	if err != nil {
		return errors.New("Port already in use or access denied by host OS")
	}
	ws.listener = ln
	ws.server = &http.Server{
		Addr:    ":" + ws.option.Port,
		Handler: ws.mux,
	}

	//Emit the status lines after bind and before the server accepts
	ws.option.Logger.PrintAndLog("webserv", "Serving at http://localhost:"+ws.option.Port, nil)
	ws.option.Logger.PrintAndLog("webserv", "Serving directory: "+ws.option.WebRoot, nil)

	go func() {
		if err := ws.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			ws.option.Logger.PrintAndLog("webserv", "Web server exited unexpectedly", err)
		}
	}()

	ws.isRunning = true
	ws.option.Sysdb.Write("webserv", "port", ws.option.Port)
	ws.option.Sysdb.Write("webserv", "dirlist", ws.option.EnableDirectoryListing)
	ws.option.Sysdb.Write("webserv", "enabled", true)
	return nil
}

// Stop stops the web server.
func (ws *WebServer) Stop() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.isRunning {
		return fmt.Errorf("web server is not running")
	}

	if err := ws.server.Close(); err != nil {
		return err
	}

	ws.isRunning = false
	ws.option.Sysdb.Write("webserv", "enabled", false)
	return nil
}

// ChangePort changes the server's port and restarts it.
func (ws *WebServer) ChangePort(port string) error {
	portNumber, err := utils.StringToInt64(port)
	if err != nil || portNumber < 1 || portNumber > 65535 {
		return errors.New("invalid port number given")
	}

	if IsPortInUse(port) {
		return errors.New("Selected port is used by another process")
	}

	if ws.IsRunning() {
		if err := ws.Stop(); err != nil {
			return err
		}
	}

	ws.option.Port = port
	if err := ws.Start(); err != nil {
		return err
	}

	ws.option.Sysdb.Write("webserv", "port", port)
	return nil
}

// UpdateDirectoryListing enables or disables directory listing.
func (ws *WebServer) UpdateDirectoryListing(enable bool) {
	ws.option.EnableDirectoryListing = enable
	ws.option.Sysdb.Write("webserv", "dirlist", enable)
}

// IsRunning reports whether the server is currently serving
func (ws *WebServer) IsRunning() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.isRunning
}

// Close stops the web server without returning an error.
func (ws *WebServer) Close() {
	ws.Stop()
}
