// Package mp3 decodes MPEG-1 layer 3 files into audial sources.
//
// Import it for its side effects to enable the format:
//
//	import _ "github.com/aldermoor/audial/loaders/mp3"
package mp3

import (
	"bytes"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/assets"
)

func init() {
	audial.RegisterLoader(Loader{}, "mp3")
}

// Loader decodes MP3 files. The decoder always produces 16-bit stereo,
// so mono files come out already widened.
type Loader struct{}

// Load implements audial.SourceLoader.
func (Loader) Load(ctx *assets.Context) (*audial.Source, error) {
	return Decode(ctx.Data)
}

// Decode parses a whole MP3 file held in memory.
func Decode(data []byte) (*audial.Source, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	size := dec.Length() // -1 when the stream does not announce it
	if size < 0 {
		size = 0
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if _, err := io.Copy(buf, dec); err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	pcm := buf.Bytes()
	samples := make([]float32, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		samples[i/2] = float32(int16(pcm[i])|int16(pcm[i+1])<<8) / (1 << 15)
	}
	return audial.NewSource(samples, dec.SampleRate()), nil
}
