// Package wav decodes WAV (RIFF) files into audial sources.
//
// Import it for its side effects to enable the format:
//
//	import _ "github.com/aldermoor/audial/loaders/wav"
package wav

import (
	"bytes"
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/assets"
)

func init() {
	audial.RegisterLoader(Loader{}, "wav")
}

// Loader decodes linear PCM WAV files at 8, 16, 24, or 32 bits per
// sample. Mono files are widened to stereo, the sample rate is kept as
// is.
type Loader struct{}

// Load implements audial.SourceLoader.
func (Loader) Load(ctx *assets.Context) (*audial.Source, error) {
	return Decode(ctx.Data)
}

// Decode parses a whole WAV file held in memory.
func Decode(data []byte) (*audial.Source, error) {
	dec := gowav.NewDecoder(bytes.NewReader(data))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, errors.New("wav: missing format chunk")
	}
	samples, err := toStereoFloat(buf)
	if err != nil {
		return nil, err
	}
	src := audial.NewSource(samples, buf.Format.SampleRate)
	return src, nil
}

func toStereoFloat(buf *goaudio.IntBuffer) ([]float32, error) {
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}
	scale := float32(int64(1) << (depth - 1))
	conv := func(v int) float32 {
		// 8-bit WAV is unsigned with the midpoint at 128.
		if depth == 8 {
			return (float32(v) - 128) / 128
		}
		return float32(v) / scale
	}
	switch buf.Format.NumChannels {
	case 1:
		out := make([]float32, len(buf.Data)*2)
		for i, v := range buf.Data {
			s := conv(v)
			out[2*i] = s
			out[2*i+1] = s
		}
		return out, nil
	case 2:
		out := make([]float32, len(buf.Data))
		for i, v := range buf.Data {
			out[i] = conv(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("wav: %w: %d channels", audial.ErrUnsupportedChannels, buf.Format.NumChannels)
	}
}
