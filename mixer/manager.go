package mixer

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aldermoor/audial/internal/log"
)

const (
	DefaultSampleRate      = 48000
	DefaultCommandCapacity = 128
	DefaultVoiceCapacity   = 128
)

// Settings configures a Manager. Zero fields fall back to the defaults
// above; a nil Backend opens the system output device.
type Settings struct {
	// SampleRate is the output rate in frames per second. Clips recorded
	// at other rates are resampled per voice during playback.
	SampleRate int

	// CommandCapacity bounds the queue between the control side and the
	// render side. When it is full, commands are rejected with
	// ErrCommandQueueFull instead of blocking.
	CommandCapacity int

	// VoiceCapacity bounds how many voices may play at once.
	VoiceCapacity int

	// BufferSize is the device buffer length. 0 uses the driver default.
	// Bigger buffers add latency, smaller ones risk underruns.
	BufferSize time.Duration

	// Backend produces the output stream. Tests use a MockBackend here.
	Backend Backend
}

func (s Settings) withDefaults() Settings {
	if s.SampleRate <= 0 {
		s.SampleRate = DefaultSampleRate
	}
	if s.CommandCapacity <= 0 {
		s.CommandCapacity = DefaultCommandCapacity
	}
	if s.VoiceCapacity <= 0 {
		s.VoiceCapacity = DefaultVoiceCapacity
	}
	return s
}

// Manager owns the output device and the voices playing on it.
//
// All exported methods are safe to call from any goroutine. The voices
// slice itself belongs to the render side and is only touched from Render.
type Manager struct {
	settings Settings
	commands chan command
	backend  Backend
	voices   []*Voice
	live     atomic.Int32
	closed   atomic.Bool
	err      atomicError
}

// NewManager opens the backend and returns a ready-to-play Manager.
// Errors from a missing or unusable output device wrap ErrNoDevice.
func NewManager(settings Settings) (*Manager, error) {
	settings = settings.withDefaults()
	m := &Manager{
		settings: settings,
		commands: make(chan command, settings.CommandCapacity),
	}
	backend := settings.Backend
	if backend == nil {
		backend = &otoBackend{bufferSize: settings.BufferSize}
	}
	if err := backend.Start(settings.SampleRate, m); err != nil {
		return nil, fmt.Errorf("mixer: starting backend: %w", err)
	}
	m.backend = backend
	log.Debug("mixer: backend ready",
		"sample_rate", settings.SampleRate,
		"voices", settings.VoiceCapacity,
		"commands", settings.CommandCapacity)
	return m, nil
}

// SampleRate returns the output rate the Manager renders at.
func (m *Manager) SampleRate() int { return m.settings.SampleRate }

// Play starts a new voice for the clip. It reserves one of the voice
// slots; the voice frees its slot once it reaches Stopped.
func (m *Manager) Play(sound *Sound, params VoiceParams) (*Voice, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}
	if sound == nil || sound.Frames() == 0 {
		return nil, errors.New("mixer: play: empty sound")
	}
	for {
		n := m.live.Load()
		if int(n) >= m.settings.VoiceCapacity {
			return nil, ErrVoiceLimitReached
		}
		if m.live.CompareAndSwap(n, n+1) {
			break
		}
	}
	v := newVoice(m, sound, params, m.settings.SampleRate)
	if err := m.push(command{op: opAddVoice, voice: v}); err != nil {
		m.live.Add(-1)
		return nil, err
	}
	return v, nil
}

// Err reports the first error the output device encountered, if any.
func (m *Manager) Err() error {
	if err := m.err.Load(); err != nil {
		return err
	}
	if m.backend != nil {
		return m.backend.Err()
	}
	return nil
}

// Close shuts the output device down. Voices stop advancing; their last
// published state remains readable.
func (m *Manager) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	return m.backend.Close()
}

func (m *Manager) push(cmd command) error {
	select {
	case m.commands <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Render produces one block of interleaved stereo frames. The backend
// calls it from the device thread; commands queued since the previous
// block are applied first.
func (m *Manager) Render(buf []float32) {
	for {
		select {
		case cmd := <-m.commands:
			m.apply(cmd)
		default:
			m.renderBlock(buf)
			return
		}
	}
}

func (m *Manager) apply(cmd command) {
	if cmd.op == opAddVoice {
		m.voices = append(m.voices, cmd.voice)
		return
	}
	cmd.voice.apply(cmd, m.settings.SampleRate)
}

func (m *Manager) renderBlock(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
	kept := m.voices[:0]
	for _, v := range m.voices {
		if v.render(buf, m.settings.SampleRate) {
			kept = append(kept, v)
		} else {
			m.live.Add(-1)
		}
	}
	for i := len(kept); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = kept
	for i, s := range buf {
		if s > 1 {
			buf[i] = 1
		} else if s < -1 {
			buf[i] = -1
		}
	}
}
