package mixer

import "errors"

var (
	// ErrNoDevice is returned by NewManager when no usable output device
	// could be opened.
	ErrNoDevice = errors.New("mixer: no output device")

	// ErrCommandQueueFull is returned when the bounded queue between the
	// control side and the render side has no room for another command.
	// The command is dropped; nothing about the voice changes.
	ErrCommandQueueFull = errors.New("mixer: command queue full")

	// ErrVoiceLimitReached is returned by Play when all voice slots are
	// taken.
	ErrVoiceLimitReached = errors.New("mixer: voice limit reached")

	// ErrManagerClosed is returned for operations on a closed Manager.
	ErrManagerClosed = errors.New("mixer: manager closed")
)
