package assets

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"golang.org/x/tools/godoc/vfs"

	"github.com/aldermoor/audial/internal/log"
)

// DefaultWorkers caps how many loads decode concurrently.
const DefaultWorkers = 4

// Store loads assets of one type from a virtual filesystem. Load returns
// immediately; decoding happens on a bounded pool of goroutines and the
// handle flips to Loaded or Failed when done.
type Store[T any] struct {
	fs      vfs.Opener
	loaders map[string]Loader[T]
	sem     chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex
	byPath map[string]*Handle[T]
	closed bool
}

// NewStore builds a store reading from fs. workers <= 0 uses
// DefaultWorkers.
func NewStore[T any](fs vfs.Opener, loaders []Loader[T], workers int) *Store[T] {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	s := &Store[T]{
		fs:      fs,
		loaders: make(map[string]Loader[T]),
		sem:     make(chan struct{}, workers),
		byPath:  make(map[string]*Handle[T]),
	}
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			s.loaders[normalizeExt(ext)] = l
		}
	}
	return s
}

// Load requests the asset at p and returns its handle. Requesting the
// same path again returns the same handle, whatever state it is in.
func (s *Store[T]) Load(p string) *Handle[T] {
	p = path.Clean(p)
	s.mu.Lock()
	if h, ok := s.byPath[p]; ok {
		s.mu.Unlock()
		return h
	}
	h := newHandle[T](p)
	s.byPath[p] = h
	closed := s.closed
	s.mu.Unlock()

	if closed {
		h.fail(ErrStoreClosed)
		return h
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sem <- struct{}{}
		defer func() { <-s.sem }()
		s.load(h)
	}()
	return h
}

// Wait blocks until every pending load has settled.
func (s *Store[T]) Wait() {
	s.wg.Wait()
}

// Close stops accepting loads. Loads already in flight still settle.
func (s *Store[T]) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Store[T]) load(h *Handle[T]) {
	data, err := readFile(s.fs, h.path)
	if err != nil {
		h.fail(fmt.Errorf("reading %s: %w", h.path, err))
		log.Warn("assets: read failed", "path", h.path, "error", err)
		return
	}
	ext := normalizeExt(path.Ext(h.path))
	loader, ok := s.loaders[ext]
	if !ok {
		h.fail(fmt.Errorf("%w: %q (%s)", ErrUnknownExtension, ext, h.path))
		log.Warn("assets: no loader", "path", h.path, "extension", ext)
		return
	}
	value, err := loader.Load(&Context{Path: h.path, Ext: ext, Data: data, fs: s.fs})
	if err != nil {
		h.fail(fmt.Errorf("decoding %s: %w", h.path, err))
		log.Warn("assets: decode failed", "path", h.path, "error", err)
		return
	}
	h.complete(value)
	log.Debug("assets: loaded", "path", h.path)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
