package livereload

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"imuslab.com/siteserv/mod/utils"
)

//Folders that never contain served content
var ignoredFolders = []string{".git", ".svn", "node_modules"}

// Watch the web root recursively and debounce change events
// into reload broadcasts
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	//Register the web root and all subfolders
	err = filepath.WalkDir(s.option.WebRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if utils.StringInArray(ignoredFolders, d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return err
	}

	s.watcher = watcher
	go s.watcherLoop()
	return nil
}

func (s *Service) watcherLoop() {
	debounce := time.NewTimer(s.option.DebounceInterval)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-s.stopChan:
			debounce.Stop()
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			//Newly created folders need to be watched as well
			if event.Has(fsnotify.Create) && utils.IsDir(event.Name) {
				if !utils.StringInArray(ignoredFolders, filepath.Base(event.Name)) {
					s.watcher.Add(event.Name)
				}
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				debounce.Reset(s.option.DebounceInterval)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.option.Logger.PrintAndLog("livereload", "File watcher error", err)
		case <-debounce.C:
			s.option.Logger.PrintAndLog("livereload", "Web root changed. Reloading connected browsers", nil)
			s.Broadcast(reloadMessage)
		}
	}
}
