package webserv

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"imuslab.com/siteserv/mod/statistic"
	"imuslab.com/siteserv/mod/utils"
)

// statusRecorder captures the response status and body size for the
// statistic collector
type statusRecorder struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytesWritten += int64(n)
	return n, err
}

// Convert a request path (e.g. /index.html) into physical path on disk
func (ws *WebServer) resolveFileDiskPath(requestPath string) string {
	fileDiskpath := filepath.Join(ws.option.WebRoot, requestPath)

	//Force convert it to slash even if the host OS is on Windows
	fileDiskpath = filepath.Clean(fileDiskpath)
	fileDiskpath = strings.ReplaceAll(fileDiskpath, "\\", "/")
	return fileDiskpath
}

// File server middleware to handle directory listing, request
// accounting and live reload script injection
func (ws *WebServer) fsMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		ws.serveFile(rec, r, h)
		if ws.option.Collector != nil {
			ws.option.Collector.RecordRequest(statistic.RequestInfo{
				RequestURL:   r.URL.Path,
				StatusCode:   rec.status,
				BytesWritten: rec.bytesWritten,
			})
		}
	})
}

func (ws *WebServer) serveFile(w http.ResponseWriter, r *http.Request, h http.Handler) {
	if !ws.option.EnableDirectoryListing && strings.HasSuffix(r.URL.Path, "/") {
		//This is a folder. Only serve it if an index exists
		if ws.resolveIndexFile(r.URL.Path) == "" {
			http.NotFound(w, r)
			return
		}
	}

	if ws.reloader != nil && ws.serveInjectedHTML(w, r) {
		return
	}

	h.ServeHTTP(w, r)
}

// Find the index file of a request folder, return empty string if none exists
func (ws *WebServer) resolveIndexFile(requestPath string) string {
	for _, indexName := range []string{"index.html", "index.htm"} {
		indexPath := filepath.Join(ws.resolveFileDiskPath(requestPath), indexName)
		if utils.FileExists(indexPath) && !utils.IsDir(indexPath) {
			return indexPath
		}
	}
	return ""
}

// Serve an HTML file with the live reload client script injected.
// Returns false if the request is not for an HTML document, in which
// case the default file server takes over.
func (ws *WebServer) serveInjectedHTML(w http.ResponseWriter, r *http.Request) bool {
	diskPath := ""
	if strings.HasSuffix(r.URL.Path, "/") {
		diskPath = ws.resolveIndexFile(r.URL.Path)
	} else if strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, ".htm") {
		diskPath = ws.resolveFileDiskPath(r.URL.Path)
	}

	if diskPath == "" || !utils.FileExists(diskPath) || utils.IsDir(diskPath) {
		return false
	}

	content, err := os.ReadFile(diskPath)
	if err != nil {
		return false
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(ws.reloader.InjectIntoHTML(content))
	return true
}
