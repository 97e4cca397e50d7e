// Package settings loads JSON documents that pair an audio file with
// playback defaults, so per-sound tuning lives next to the sound instead
// of in game code.
//
// A document sits beside the file it describes and is loaded in its
// place:
//
//	{"file": "choir.ogg", "volume": 0.4, "loop_start": 1.5}
//
// saved as choir.ogg.json makes engine.Load("music/choir.ogg.json")
// yield the decoded choir.ogg with those defaults baked in. Unknown
// fields are rejected. The loader for the referenced file's extension
// must be registered, or the load fails.
//
// Import it for its side effects to enable the format:
//
//	import _ "github.com/aldermoor/audial/loaders/settings"
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/assets"
)

func init() {
	audial.RegisterLoader(Loader{}, "json")
}

type document struct {
	File          string   `json:"file"`
	Volume        *float64 `json:"volume"`
	Panning       *float64 `json:"panning"`
	PlaybackRate  *float64 `json:"playback_rate"`
	Reverse       bool     `json:"reverse"`
	StartPosition float64  `json:"start_position"` // seconds
	LoopStart     *float64 `json:"loop_start"`     // seconds, presence enables looping
	FadeInUs      int64    `json:"fade_in_us"`
}

// Loader decodes a settings document, loads the audio file it names
// through that file's own loader, and applies the document on top of the
// decoded defaults.
type Loader struct{}

// Load implements audial.SourceLoader.
func (Loader) Load(ctx *assets.Context) (*audial.Source, error) {
	dec := json.NewDecoder(bytes.NewReader(ctx.Data))
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if doc.File == "" {
		return nil, errors.New(`settings: missing "file"`)
	}
	inner, err := ctx.Sibling(doc.File)
	if err != nil {
		return nil, fmt.Errorf("settings: reading %s: %w", doc.File, err)
	}
	loader, ok := audial.LoaderFor(inner.Ext)
	if !ok {
		return nil, fmt.Errorf("settings: %s: %w: %q", doc.File, assets.ErrUnknownExtension, inner.Ext)
	}
	src, err := loader.Load(inner)
	if err != nil {
		return nil, fmt.Errorf("settings: decoding %s: %w", doc.File, err)
	}
	src.Defaults = doc.apply(src.Defaults)
	return src, nil
}

func (d document) apply(def audial.PlaySettings) audial.PlaySettings {
	if d.Volume != nil {
		def.Volume = *d.Volume
	}
	if d.Panning != nil {
		def.Panning = *d.Panning
	}
	if d.PlaybackRate != nil {
		def.PlaybackRate = *d.PlaybackRate
	}
	if d.Reverse {
		def.Reverse = true
	}
	if d.StartPosition > 0 {
		def.StartPosition = seconds(d.StartPosition)
	}
	if d.LoopStart != nil {
		def.Loop = true
		def.LoopStart = seconds(*d.LoopStart)
	}
	if d.FadeInUs > 0 {
		def.FadeIn = time.Duration(d.FadeInUs) * time.Microsecond
	}
	return def
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
