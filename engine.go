package audial

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"golang.org/x/tools/godoc/vfs"

	"github.com/aldermoor/audial/assets"
	"github.com/aldermoor/audial/internal/log"
	"github.com/aldermoor/audial/mixer"
)

// DefaultSpatialRadius bounds how far an emitter carries when neither the
// emitter nor the config overrides it.
const DefaultSpatialRadius = 25.0

// MainTrack is the channel marker for the engine's built-in channel.
type MainTrack struct{}

// Config holds engine construction options. The zero value is usable:
// output opens on the system default device at the mixer defaults and
// assets load relative to the working directory.
type Config struct {
	// SampleRate of the output stream. 0 uses mixer.DefaultSampleRate.
	SampleRate int

	// CommandCapacity bounds the mixer's realtime command queue.
	// 0 uses mixer.DefaultCommandCapacity.
	CommandCapacity int

	// VoiceCapacity bounds how many instances can play at once.
	// 0 uses mixer.DefaultVoiceCapacity.
	VoiceCapacity int

	// BufferSize is the requested device buffer length. 0 lets the
	// device pick.
	BufferSize time.Duration

	// Backend overrides the output device, mainly for tests.
	Backend mixer.Backend

	// FS is where source files load from. Nil reads from the working
	// directory.
	FS vfs.Opener

	// Workers bounds concurrent source decodes. 0 uses
	// assets.DefaultWorkers.
	Workers int

	// SpatialRadius is the distance at which emitters become inaudible.
	// 0 uses DefaultSpatialRadius. Individual emitters may override it.
	SpatialRadius float64

	// Logger routes the engine's log output into the host program's
	// logger. Nil keeps the default text logger on stderr.
	Logger *slog.Logger
}

// Engine ties the control surface to the mixer. Channels buffer commands;
// Update dispatches them once per game frame and reads mixer state back
// so queries between frames are stable and cheap.
//
// Every method is safe for concurrent use, but Update itself must be
// called from a single goroutine, typically the game loop.
type Engine struct {
	mixer   *mixer.Manager
	sources *assets.Store[*Source]

	mu        sync.RWMutex
	typed     map[reflect.Type]*Channel
	dynamic   map[string]*Channel
	order     []*Channel
	receivers []*Receiver
	emitters  []*Emitter

	instMu    sync.RWMutex
	instances map[InstanceID]*Instance

	spatialRadius float64
}

// New builds an engine, opens the output device, and creates the main
// channel. Loaders registered at that moment decide which audio formats
// the engine can decode.
func New(cfg Config) (*Engine, error) {
	if cfg.Logger != nil {
		log.Use(cfg.Logger)
	}
	m, err := mixer.NewManager(mixer.Settings{
		SampleRate:      cfg.SampleRate,
		CommandCapacity: cfg.CommandCapacity,
		VoiceCapacity:   cfg.VoiceCapacity,
		BufferSize:      cfg.BufferSize,
		Backend:         cfg.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("audial: %w", err)
	}
	fs := cfg.FS
	if fs == nil {
		fs = vfs.OS(".")
	}
	loaders := snapshotLoaders()
	if len(loaders) == 0 {
		log.Warn("audial: no source loaders registered, audio files cannot be decoded")
	}
	e := &Engine{
		mixer:         m,
		sources:       assets.NewStore(fs, loaders, cfg.Workers),
		typed:         make(map[reflect.Type]*Channel),
		dynamic:       make(map[string]*Channel),
		instances:     make(map[InstanceID]*Instance),
		spatialRadius: cfg.SpatialRadius,
	}
	if e.spatialRadius <= 0 {
		e.spatialRadius = DefaultSpatialRadius
	}
	AddChannel[MainTrack](e)
	return e, nil
}

// Main returns the engine's built-in channel.
func (e *Engine) Main() *Channel { return AddChannel[MainTrack](e) }

// AddChannel registers the channel keyed by the marker type T and
// returns it. Calling it again with the same marker returns the same
// channel, so markers can double as a lookup:
//
//	type Music struct{}
//	audial.AddChannel[Music](engine).SetVolume(0.4).Submit()
func AddChannel[T any](e *Engine) *Channel {
	key := reflect.TypeFor[T]()
	e.mu.Lock()
	defer e.mu.Unlock()
	if ch, ok := e.typed[key]; ok {
		return ch
	}
	ch := newChannel(key.String())
	e.typed[key] = ch
	e.order = append(e.order, ch)
	return ch
}

// Load requests the audio file at path and returns its handle. Decoding
// happens in the background; playing the handle before it finishes just
// defers the play until it does.
func (e *Engine) Load(path string) *SourceHandle { return e.sources.Load(path) }

// WaitForLoads blocks until every load requested so far has settled.
// Useful at startup when the first frame should not begin with deferred
// plays.
func (e *Engine) WaitForLoads() { e.sources.Wait() }

// Instance returns the direct-control handle for a dispatched play.
// It reports false while the play is still queued and after the
// instance's state entry has been dropped.
func (e *Engine) Instance(id InstanceID) (*Instance, bool) {
	e.instMu.RLock()
	defer e.instMu.RUnlock()
	inst, ok := e.instances[id]
	return inst, ok
}

func (e *Engine) registerInstance(inst *Instance) {
	e.instMu.Lock()
	e.instances[inst.id] = inst
	e.instMu.Unlock()
}

func (e *Engine) unregisterInstance(id InstanceID) {
	e.instMu.Lock()
	delete(e.instances, id)
	e.instMu.Unlock()
}

// Err surfaces device failures detected since the last call.
func (e *Engine) Err() error { return e.mixer.Err() }

// Close tears the engine down: pending loads finish, the device closes,
// and all playback ends. The engine must not be used afterwards.
func (e *Engine) Close() error {
	e.sources.Close()
	return e.mixer.Close()
}
