package audial

import (
	"time"

	"github.com/aldermoor/audial/mixer"
)

// Instance controls one playing occurrence directly. Its calls go
// straight to the mixer's command queue instead of a channel buffer, so
// they take effect at the next render block rather than the next Update,
// and they are not ordered relative to buffered channel commands.
//
// Every method can return mixer.ErrCommandQueueFull when the realtime
// queue is saturated; the command is dropped and may simply be retried.
type Instance struct {
	id    InstanceID
	voice *mixer.Voice
}

// ID returns the instance id the play was submitted under.
func (i *Instance) ID() InstanceID { return i.id }

// Pause fades the instance out over the tween and freezes its position.
func (i *Instance) Pause(tw Tween) error { return i.voice.Pause(tw) }

// Resume fades a paused instance back in over the tween.
func (i *Instance) Resume(tw Tween) error { return i.voice.Resume(tw) }

// Stop fades the instance out over the tween and then removes it.
func (i *Instance) Stop(tw Tween) error { return i.voice.Stop(tw) }

// SetVolume ramps the instance volume to the value over the tween.
func (i *Instance) SetVolume(volume float64, tw Tween) error {
	return i.voice.SetVolume(volume, tw)
}

// SetPanning ramps the stereo position to the value over the tween. 0 is
// hard left, 1 hard right.
func (i *Instance) SetPanning(panning float64, tw Tween) error {
	return i.voice.SetPanning(panning, tw)
}

// SetPlaybackRate ramps the playback rate to the value over the tween.
func (i *Instance) SetPlaybackRate(rate float64, tw Tween) error {
	return i.voice.SetRate(rate, tw)
}

// SeekTo jumps playback to the given position.
func (i *Instance) SeekTo(pos time.Duration) error { return i.voice.SeekTo(pos) }

// SeekBy moves playback by the given offset, which may be negative.
func (i *Instance) SeekBy(offset time.Duration) error { return i.voice.SeekBy(offset) }

// State reads the instance's phase and position straight from the mixer,
// ahead of the per-frame read-back that channels report from.
func (i *Instance) State() PlaybackState {
	return PlaybackState{
		Phase:    phaseFromMixer(i.voice.State()),
		Position: i.voice.Position(),
	}
}

// Position reads the playback position straight from the mixer.
func (i *Instance) Position() time.Duration { return i.voice.Position() }
