package mixer

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoBackend plays through the system output device. oto pulls samples
// from an io.Reader on its own thread, so renderReader is where render
// blocks are produced.
type otoBackend struct {
	bufferSize time.Duration
	ctx        *oto.Context
	player     *oto.Player
	err        atomicError
}

func (b *otoBackend) Start(sampleRate int, r Renderer) error {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   b.bufferSize,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoDevice, err)
		b.err.TryStore(err)
		return err
	}
	<-ready
	b.ctx = ctx
	b.player = ctx.NewPlayer(&renderReader{r: r})
	b.player.Play()
	return nil
}

func (b *otoBackend) Err() error {
	if err := b.err.Load(); err != nil {
		return err
	}
	if b.player != nil {
		if err := b.player.Err(); err != nil {
			b.err.TryStore(err)
			return err
		}
	}
	return nil
}

func (b *otoBackend) Close() error {
	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	return err
}

// renderReader adapts a Renderer to the io.Reader oto pulls from.
type renderReader struct {
	r   Renderer
	buf []float32
}

func (rr *renderReader) Read(p []byte) (int, error) {
	frames := len(p) / 8 // 2 channels x 4 bytes
	if frames == 0 {
		return 0, nil
	}
	samples := frames * 2
	if cap(rr.buf) < samples {
		rr.buf = make([]float32, samples)
	}
	buf := rr.buf[:samples]
	rr.r.Render(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(s))
	}
	return samples * 4, nil
}
