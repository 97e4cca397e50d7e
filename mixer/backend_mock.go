package mixer

import "sync"

// MockBackend is a Backend without a device: nothing renders until
// Process is called. Playback then advances deterministically, which
// engine tests and headless game logic rely on.
type MockBackend struct {
	mu       sync.Mutex
	renderer Renderer
	rate     int
	buf      []float32
	closed   bool
}

func (b *MockBackend) Start(sampleRate int, r Renderer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer = r
	b.rate = sampleRate
	return nil
}

func (b *MockBackend) Err() error { return nil }

func (b *MockBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// SampleRate returns the rate passed to Start.
func (b *MockBackend) SampleRate() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rate
}

// Process renders the given number of frames, as the device callback
// would, and returns the interleaved samples for inspection. The slice is
// reused by the next call.
func (b *MockBackend) Process(frames int) []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderer == nil || b.closed || frames <= 0 {
		return nil
	}
	if cap(b.buf) < frames*2 {
		b.buf = make([]float32, frames*2)
	}
	buf := b.buf[:frames*2]
	b.renderer.Render(buf)
	return buf
}
