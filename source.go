package audial

import (
	"strings"
	"sync"
	"time"

	"github.com/aldermoor/audial/assets"
	"github.com/aldermoor/audial/mixer"
)

// Source is a decoded audio asset: interleaved stereo samples plus the
// playback defaults that came with it. Loaders fill Defaults from a
// settings document when one sits next to the file, otherwise plays
// start from DefaultPlaySettings.
type Source struct {
	Samples    []float32
	SampleRate int
	Defaults   PlaySettings
}

// NewSource wraps decoded samples with neutral playback defaults.
func NewSource(samples []float32, sampleRate int) *Source {
	return &Source{
		Samples:    samples,
		SampleRate: sampleRate,
		Defaults:   DefaultPlaySettings(),
	}
}

// Frames returns the number of sample frames in the source.
func (s *Source) Frames() int {
	if s == nil {
		return 0
	}
	return len(s.Samples) / 2
}

// Duration returns the playing time of the source at its native rate.
func (s *Source) Duration() time.Duration {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(s.Frames()) / float64(s.SampleRate) * float64(time.Second))
}

func (s *Source) sound() *mixer.Sound {
	return &mixer.Sound{Samples: s.Samples, SampleRate: s.SampleRate}
}

// PlaySettings are per-source playback defaults. A play command that sets
// the same parameter wins over them, as does remembered channel state.
type PlaySettings struct {
	Volume        float64
	Panning       float64
	PlaybackRate  float64
	Reverse       bool
	StartPosition time.Duration
	Loop          bool
	LoopStart     time.Duration
	FadeIn        time.Duration
}

// DefaultPlaySettings returns full volume, centered panning, and normal
// playback rate.
func DefaultPlaySettings() PlaySettings {
	return PlaySettings{Volume: 1, Panning: 0.5, PlaybackRate: 1}
}

// SourceHandle tracks a Source through its background load.
type SourceHandle = assets.Handle[*Source]

// SourceLoader decodes one audio container format into a Source.
type SourceLoader interface {
	Load(ctx *assets.Context) (*Source, error)
}

var (
	loaderMu      sync.RWMutex
	sourceLoaders = map[string]SourceLoader{}
)

// RegisterLoader makes a decoder available for the given file extensions.
// Codec packages call it from init, so importing a codec package for its
// side effects is all it takes to enable a format:
//
//	import _ "github.com/aldermoor/audial/loaders/wav"
//
// Registering an extension twice keeps the later loader.
func RegisterLoader(l SourceLoader, exts ...string) {
	loaderMu.Lock()
	defer loaderMu.Unlock()
	for _, ext := range exts {
		sourceLoaders[normalizeExt(ext)] = l
	}
}

// LoaderFor returns the decoder registered for a file extension, if any.
// The extension may carry a leading dot and any casing.
func LoaderFor(ext string) (SourceLoader, bool) {
	loaderMu.RLock()
	defer loaderMu.RUnlock()
	l, ok := sourceLoaders[normalizeExt(ext)]
	return l, ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// snapshotLoaders adapts the registry to the asset store. Loaders
// registered after an engine is built do not reach that engine.
func snapshotLoaders() []assets.Loader[*Source] {
	loaderMu.RLock()
	defer loaderMu.RUnlock()
	ls := make([]assets.Loader[*Source], 0, len(sourceLoaders))
	for ext, l := range sourceLoaders {
		ls = append(ls, registeredLoader{ext: ext, l: l})
	}
	return ls
}

type registeredLoader struct {
	ext string
	l   SourceLoader
}

func (r registeredLoader) Extensions() []string { return []string{r.ext} }

func (r registeredLoader) Load(ctx *assets.Context) (*Source, error) {
	return r.l.Load(ctx)
}
