package content

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abhisek/paesdx/internal/logging"
)

// Source yields the content snapshot a computation should use. Callers
// take it once per computation.
type Source interface {
	Current() *Snapshot
}

// Loader produces a fresh snapshot, typically by re-reading a directory.
type Loader func() (*Snapshot, error)

// DirLoader returns a Loader that reads dir, or the embedded seed when
// dir is empty.
func DirLoader(dir string) Loader {
	if dir == "" {
		return LoadSeed
	}
	return func() (*Snapshot, error) { return Load(dir) }
}

// Holder publishes the current snapshot. Reload builds a complete new
// snapshot before swapping the pointer, so readers see either the old or
// the new content and never a mix.
type Holder struct {
	cur  atomic.Pointer[Snapshot]
	load Loader
	log  *logging.Logger

	mu sync.Mutex // serialises reloads
}

// NewHolder returns a Holder serving initial. load may be nil, in which
// case Reload fails.
func NewHolder(initial *Snapshot, load Loader, log *logging.Logger) *Holder {
	if log == nil {
		log = logging.Nop()
	}
	h := &Holder{load: load, log: log}
	h.cur.Store(initial)
	return h
}

// Open loads the first snapshot with load and returns a Holder for it.
func Open(load Loader, log *logging.Logger) (*Holder, error) {
	snap, err := load()
	if err != nil {
		return nil, err
	}
	return NewHolder(snap, load, log), nil
}

// Current returns the snapshot in force.
func (h *Holder) Current() *Snapshot {
	return h.cur.Load()
}

// Reload replaces the current snapshot. A failed load leaves the current
// snapshot in place and returns the error.
func (h *Holder) Reload() (*Snapshot, error) {
	if h.load == nil {
		return nil, errors.New("content holder has no loader")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	snap, err := h.load()
	if err != nil {
		h.log.Warn("content reload failed; keeping current snapshot", "error", err)
		return nil, err
	}
	prev := h.cur.Swap(snap)
	fields := []any{
		"origin", snap.Origin,
		"blueprint_version", snap.Blueprint.Version(),
		"atoms", snap.Graph.Len(),
		"items", snap.Bank.Len(),
		"took", time.Since(start),
	}
	if prev != nil {
		fields = append(fields, "previous_version", prev.Blueprint.Version())
	}
	h.log.Info("content reloaded", fields...)
	return snap, nil
}
