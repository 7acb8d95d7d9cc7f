package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/litescript/ls-orrery/internal/logging"
)

// Debounce is the quiet period after the last write before a reload.
const Debounce = 100 * time.Millisecond

// Reload is one hot-reload result: either a freshly parsed system or the
// error that prevented parsing it.
type Reload struct {
	System System
	Err    error
}

// Watcher monitors a system descriptor file and re-parses it on change.
// It watches the containing directory so editors that replace the file
// by rename are still seen.
type Watcher struct {
	Path    string
	Reloads <-chan Reload // Read-only external channel

	reloads chan Reload
	done    chan struct{}
	watcher *fsnotify.Watcher
	log     *logging.Logger
}

// NewWatcher creates a watcher for the descriptor at path.
func NewWatcher(path string, log *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}

	ch := make(chan Reload, 4)
	return &Watcher{
		Path:    abs,
		Reloads: ch,
		reloads: ch,
		done:    make(chan struct{}),
		watcher: fw,
		log:     log.With("watch"),
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.reloads)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < Debounce {
				continue
			}
			pending = time.Time{}
			w.emit()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) emit() {
	sys, err := Load(w.Path)
	if err == nil {
		err = sys.Validate()
	}
	if err != nil {
		w.log.Warn("reload %s: %v", w.Path, err)
		w.send(Reload{System: System{Source: w.Path}, Err: err})
		return
	}
	w.log.Info("reloaded %s (%d bodies)", w.Path, sys.CountBodies())
	w.send(Reload{System: sys})
}

// send drops the oldest queued result rather than blocking the loop when
// nobody is reading.
func (w *Watcher) send(r Reload) {
	for {
		select {
		case w.reloads <- r:
			return
		default:
		}
		select {
		case <-w.reloads:
		default:
		}
	}
}
