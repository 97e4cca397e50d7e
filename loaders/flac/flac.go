// Package flac decodes FLAC files into audial sources.
//
// Import it for its side effects to enable the format:
//
//	import _ "github.com/aldermoor/audial/loaders/flac"
package flac

import (
	"bytes"
	"fmt"

	"github.com/gopxl/beep/v2/flac"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/assets"
)

func init() {
	audial.RegisterLoader(Loader{}, "flac")
}

// Loader decodes FLAC files. The decoder streams in stereo frames, so
// mono files come out already widened; the sample rate is kept as is.
type Loader struct{}

// Load implements audial.SourceLoader.
func (Loader) Load(ctx *assets.Context) (*audial.Source, error) {
	return Decode(ctx.Data)
}

// Decode parses a whole FLAC file held in memory.
func Decode(data []byte) (*audial.Source, error) {
	stream, format, err := flac.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	defer stream.Close()
	if format.NumChannels > 2 {
		return nil, fmt.Errorf("flac: %w: %d channels", audial.ErrUnsupportedChannels, format.NumChannels)
	}
	samples := make([]float32, 0, stream.Len()*2)
	chunk := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(chunk)
		for _, frame := range chunk[:n] {
			samples = append(samples, float32(frame[0]), float32(frame[1]))
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	return audial.NewSource(samples, int(format.SampleRate)), nil
}
