package mixer

// Renderer produces interleaved stereo float32 frames on demand.
type Renderer interface {
	Render(buf []float32)
}

// Backend drives a Renderer. The default backend opens the system output
// device and pulls frames from it; MockBackend renders under test control
// instead.
type Backend interface {
	Start(sampleRate int, r Renderer) error
	Err() error
	Close() error
}
