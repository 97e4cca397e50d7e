package audial

import (
	"time"

	"github.com/aldermoor/audial/mixer"
)

// Phase is where a playing instance stands in its lifecycle.
type Phase int

const (
	// Queued means the play was submitted but has not been dispatched to
	// the mixer yet. It becomes Playing (or Paused) on the next Update
	// once its source has finished loading.
	Queued Phase = iota

	// Playing instances are audible and advancing.
	Playing

	// Pausing instances are fading out toward a pause.
	Pausing

	// Paused instances hold their position silently.
	Paused

	// Stopping instances are fading out toward removal.
	Stopping

	// Stopped is terminal. It is also what queries report for instance
	// ids the engine does not know about.
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Queued:
		return "queued"
	case Playing:
		return "playing"
	case Pausing:
		return "pausing"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// PlaybackState pairs a lifecycle phase with the playback position.
// Position is zero while the instance is still Queued.
type PlaybackState struct {
	Phase    Phase
	Position time.Duration
}

func phaseFromMixer(s mixer.State) Phase {
	switch s {
	case mixer.Playing:
		return Playing
	case mixer.Pausing:
		return Pausing
	case mixer.Paused:
		return Paused
	case mixer.Stopping:
		return Stopping
	default:
		return Stopped
	}
}
