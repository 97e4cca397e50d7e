// Package vorbis decodes Ogg Vorbis files into audial sources.
//
// Import it for its side effects to enable the format:
//
//	import _ "github.com/aldermoor/audial/loaders/vorbis"
package vorbis

import (
	"bytes"
	"fmt"

	"github.com/jfreymuth/oggvorbis"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/assets"
)

func init() {
	audial.RegisterLoader(Loader{}, "ogg", "oga", "spx")
}

// Loader decodes Ogg Vorbis files. Mono files are widened to stereo,
// the sample rate is kept as is.
type Loader struct{}

// Load implements audial.SourceLoader.
func (Loader) Load(ctx *assets.Context) (*audial.Source, error) {
	return Decode(ctx.Data)
}

// Decode parses a whole Ogg Vorbis file held in memory.
func Decode(data []byte) (*audial.Source, error) {
	pcm, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}
	switch format.Channels {
	case 1:
		samples := make([]float32, len(pcm)*2)
		for i, s := range pcm {
			samples[2*i] = s
			samples[2*i+1] = s
		}
		return audial.NewSource(samples, format.SampleRate), nil
	case 2:
		return audial.NewSource(pcm, format.SampleRate), nil
	default:
		return nil, fmt.Errorf("vorbis: %w: %d channels", audial.ErrUnsupportedChannels, format.Channels)
	}
}
