package assets

import (
	"sync"

	"github.com/google/uuid"
)

// Status tracks an asset through its load lifecycle.
type Status int

const (
	Loading Status = iota
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle identifies an asset across its whole lifecycle. The id is
// assigned when loading starts and never changes, so a handle obtained
// before the bytes arrive keeps working after they do.
type Handle[T any] struct {
	id   uuid.UUID
	path string

	mu     sync.RWMutex
	status Status
	value  T
	err    error
}

func newHandle[T any](path string) *Handle[T] {
	return &Handle[T]{id: uuid.New(), path: path}
}

// ID returns the stable identity of the asset.
func (h *Handle[T]) ID() uuid.UUID { return h.id }

// Path returns the path the asset was requested from.
func (h *Handle[T]) Path() string { return h.path }

// Status reports where the asset is in its lifecycle.
func (h *Handle[T]) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Get returns the decoded asset once loading has succeeded.
func (h *Handle[T]) Get() (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value, h.status == Loaded
}

// Err returns what went wrong for a Failed asset.
func (h *Handle[T]) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

func (h *Handle[T]) complete(value T) {
	h.mu.Lock()
	h.value = value
	h.status = Loaded
	h.mu.Unlock()
}

func (h *Handle[T]) fail(err error) {
	h.mu.Lock()
	h.err = err
	h.status = Failed
	h.mu.Unlock()
}
