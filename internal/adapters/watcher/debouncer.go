package watcher

import (
	"sync"
	"time"
	"unique"
)

// Debouncer coalesces rapid file system events into batched invalidations.
// Editors commonly fire several events per save; without coalescing every
// one of them would invalidate and recompute widgets.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add adds a file path to the pending set and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Interned handles deduplicate repeated events for the same path.
	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()

	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	d.pending = make(map[unique.Handle[string]]struct{})
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		// Asynchronous to match Flush-after-fire semantics.
		go d.callback(paths)
	}
}

// Flush immediately invokes the callback with all pending paths, blocking
// until it completes. Intended for graceful shutdown.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired; let it deliver rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}

	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	d.pending = make(map[unique.Handle[string]]struct{})
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}
