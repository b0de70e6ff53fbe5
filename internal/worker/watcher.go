package worker

import (
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of events from build systems rewriting
// the database in several steps.
const debounceDelay = 500 * time.Millisecond

// Watcher invalidates derived state when watched paths change, typically
// the build directory holding compile_commands.json. Generation itself
// never depends on the watcher: results are keyed on content hashes, so a
// missed event costs a reparse, not a wrong answer.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func(path string)

	mu    sync.Mutex
	timer *time.Timer
	last  string

	stop chan struct{}
	done chan struct{}
}

// NewWatcher creates a watcher calling onChange (debounced) with the path
// that triggered invalidation.
func NewWatcher(onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		onChange: onChange,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// AddDir watches a directory. Directories rather than files: editors and
// build tools replace files instead of rewriting them in place, which
// drops file-level watches.
func (w *Watcher) AddDir(dir string) error {
	return w.fsw.Add(dir)
}

// Start runs the event loop in the background.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			w.schedule(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		p := w.last
		w.mu.Unlock()
		w.onChange(p)
	})
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	close(w.stop)
	w.fsw.Close()
	<-w.done
}
