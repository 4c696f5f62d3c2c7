package watcher

import (
	"sync"
	"time"
)

// DebouncedEvent represents a batched file system event.
type DebouncedEvent struct {
	Path string
	Op   EventOp
}

// EventOp represents the type of file system operation.
type EventOp int

const (
	OpCreate EventOp = iota
	OpWrite
	OpRemove
	OpRename
)

// Debouncer collects file system events and emits them as one batch
// after a quiet window. Multiple events for the same path within the
// window collapse into the latest one, so an editor's save dance
// (create temp, write, rename) yields a single event per file.
type Debouncer struct {
	window  time.Duration
	pending map[string]DebouncedEvent
	mu      sync.Mutex
	timer   *time.Timer
	output  chan []DebouncedEvent
}

// NewDebouncer creates a debouncer with the specified quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]DebouncedEvent),
		output:  make(chan []DebouncedEvent, 16),
	}
}

// Output returns the channel that receives batched events.
func (d *Debouncer) Output() <-chan []DebouncedEvent {
	return d.output
}

// Add records an event, restarting the quiet window. An existing event
// for the same path is replaced with the latest operation.
func (d *Debouncer) Add(path string, op EventOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = DebouncedEvent{Path: path, Op: op}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush sends the accumulated events to the output channel and resets the buffer.
func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		return
	}

	batch := make([]DebouncedEvent, 0, len(d.pending))
	for _, event := range d.pending {
		batch = append(batch, event)
	}

	d.pending = make(map[string]DebouncedEvent)
	d.output <- batch
}
