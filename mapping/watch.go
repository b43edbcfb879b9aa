package mapping

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/relstore/relstore/schema"
	"github.com/relstore/relstore/visitor"
)

// Watcher reloads a mapping file when it changes and swaps the visitor chain
// atomically. Readers call Visitors per request; a reload that fails to
// parse or resolve keeps the previous chain in place.
type Watcher struct {
	path string
	ns   *schema.Namespace

	mu       sync.RWMutex
	visitors []visitor.StatementVisitor

	onReload func([]visitor.StatementVisitor, error)
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

// WatchOption configures a watcher.
type WatchOption func(*Watcher)

// OnReload registers a callback invoked after every reload attempt with the
// new chain (nil when the reload failed) and the reload error, if any.
func OnReload(fn func([]visitor.StatementVisitor, error)) WatchOption {
	return func(w *Watcher) { w.onReload = fn }
}

// Watch loads the mapping file and starts watching it for changes. The
// initial load must succeed; later reload failures keep the last good chain.
func Watch(path string, ns *schema.Namespace, opts ...WatchOption) (*Watcher, error) {
	w := &Watcher{path: path, ns: ns, done: make(chan struct{})}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.reload(); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors and config managers
	// replace files by rename, which drops a file-level watch.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	go w.loop()
	return w, nil
}

// Visitors returns the current visitor chain. The returned slice is never
// mutated after a swap, so it is safe to iterate without holding a lock.
func (w *Watcher) Visitors() []visitor.StatementVisitor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visitors
}

// Close stops watching the mapping file.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			err := w.reload()
			if w.onReload != nil {
				if err != nil {
					w.onReload(nil, err)
				} else {
					w.onReload(w.Visitors(), nil)
				}
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	visitors, err := Load(w.ns, data)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.visitors = visitors
	w.mu.Unlock()
	return nil
}
