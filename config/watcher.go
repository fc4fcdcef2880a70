package config

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// ChangeCallback is called once per debounced burst with the changed files.
type ChangeCallback func(changed []string) error

// SchemaWatcher watches the configuration and schema files and triggers
// regeneration callbacks.
//
// Parent directories are watched rather than the files themselves so that
// editors which save by rename keep being observed.
type SchemaWatcher struct {
	watcher        *fsnotify.Watcher
	files          map[string]bool
	callbacks      []ChangeCallback
	mu             sync.Mutex
	pending        map[string]bool
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	done           chan struct{}
}

// NewSchemaWatcher creates a watcher over the given files.
func NewSchemaWatcher(paths ...string) (*SchemaWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	sw := &SchemaWatcher{
		watcher:        watcher,
		files:          make(map[string]bool),
		pending:        make(map[string]bool),
		debouncePeriod: DefaultDebounce,
		done:           make(chan struct{}),
	}
	if err := sw.Add(paths...); err != nil {
		watcher.Close()
		return nil, err
	}
	return sw, nil
}

// Add starts watching more files.
func (sw *SchemaWatcher) Add(paths ...string) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", p)
		}
		dir := filepath.Dir(abs)
		if err := sw.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		sw.files[abs] = true
	}
	return nil
}

// SetDebounce changes the quiet period before callbacks run.
func (sw *SchemaWatcher) SetDebounce(d time.Duration) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.debouncePeriod = d
}

// OnChange registers a callback to be called after watched files change
func (sw *SchemaWatcher) OnChange(callback ChangeCallback) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.callbacks = append(sw.callbacks, callback)
}

// Start begins watching for changes
func (sw *SchemaWatcher) Start() {
	go sw.watchLoop()
}

// Done is closed when the watch loop started by Start exits.
func (sw *SchemaWatcher) Done() <-chan struct{} {
	return sw.done
}

func (sw *SchemaWatcher) watchLoop() {
	defer close(sw.done)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !sw.watched(event.Name) {
				continue
			}
			logger.Debugw("Schema watcher detected change",
				logger.FieldFile, event.Name,
				logger.FieldOp, event.Op.String())
			sw.schedule(event.Name)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Schema watcher error",
				logger.FieldError, err)
		}
	}
}

func (sw *SchemaWatcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.files[abs]
}

// schedule debounces rapid file changes and triggers the callbacks
func (sw *SchemaWatcher) schedule(name string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	abs, _ := filepath.Abs(name)
	sw.pending[abs] = true
	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.debounceTimer = time.AfterFunc(sw.debouncePeriod, sw.fire)
}

func (sw *SchemaWatcher) fire() {
	sw.mu.Lock()
	changed := make([]string, 0, len(sw.pending))
	for p := range sw.pending {
		changed = append(changed, p)
	}
	sort.Strings(changed)
	sw.pending = make(map[string]bool)
	callbacks := make([]ChangeCallback, len(sw.callbacks))
	copy(callbacks, sw.callbacks)
	sw.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	for _, callback := range callbacks {
		if err := callback(changed); err != nil {
			// Continue calling other callbacks even if one fails
			logger.Warnw("Schema change callback error",
				logger.FieldError, err)
		}
	}
}

// Stop stops watching for changes
func (sw *SchemaWatcher) Stop() error {
	sw.mu.Lock()
	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.mu.Unlock()
	return sw.watcher.Close()
}
