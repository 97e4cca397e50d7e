package audial

import "errors"

var (
	// ErrNoSuchChannel marks lookups of dynamic channels that were never
	// created or have been removed.
	ErrNoSuchChannel = errors.New("audial: no such dynamic channel")

	// ErrUnsupportedChannels marks audio files with more channels than
	// stereo. Loaders wrap it so callers can test for it regardless of
	// the container format.
	ErrUnsupportedChannels = errors.New("audial: sources must be mono or stereo")
)
