package mixer

import (
	"math"
	"sync/atomic"
	"time"
)

// State is the playback state of a Voice as seen by the render side.
type State int32

const (
	Playing State = iota
	Pausing
	Paused
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
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
	default:
		return "unknown"
	}
}

// VoiceParams configures a new voice. DefaultVoiceParams is the intended
// starting point; a zero Rate is treated as 1.
type VoiceParams struct {
	Volume  float64 // linear amplitude, 1 leaves the clip unchanged
	Panning float64 // 0 hard left, 0.5 centered, 1 hard right
	Rate    float64 // playback rate multiplier

	Reverse   bool
	Loop      bool
	LoopStart time.Duration
	LoopEnd   time.Duration // 0 means the end of the clip

	StartPosition time.Duration
	FadeIn        Tween // zero duration starts at full volume
	StartPaused   bool
}

// DefaultVoiceParams returns params that play a clip unmodified.
func DefaultVoiceParams() VoiceParams {
	return VoiceParams{Volume: 1, Panning: 0.5, Rate: 1}
}

// Voice is a playing occurrence of a Sound. Control methods enqueue
// commands on the owning Manager and never touch render state directly.
// State and Position read atomics published by the render side, so they
// are safe from any goroutine and never block.
type Voice struct {
	m *Manager

	// render-side fields, only touched on the render thread
	sound     *Sound
	pos       float64 // frame position within the clip
	clock     float64 // output frames rendered since the voice was added
	reverse   bool
	loop      bool
	loopStart float64 // clip frames
	loopEnd   float64 // clip frames, 0 means the end of the clip
	volume    param
	panning   param
	rate      param
	fade      param // pause/resume/stop and fade-in ramp
	rstate    State

	state    atomic.Int32
	position atomic.Uint64 // float64 bits, seconds
}

func newVoice(m *Manager, sound *Sound, params VoiceParams, outRate int) *Voice {
	if params.Rate == 0 {
		params.Rate = 1
	}
	v := &Voice{
		m:       m,
		sound:   sound,
		reverse: params.Reverse,
		loop:    params.Loop,
	}
	srcRate := float64(sound.SampleRate)
	frames := float64(sound.Frames())
	v.loopStart = clampf(params.LoopStart.Seconds()*srcRate, 0, frames)
	if params.LoopEnd > 0 {
		v.loopEnd = clampf(params.LoopEnd.Seconds()*srcRate, 0, frames)
	}

	start := clampf(params.StartPosition.Seconds()*srcRate, 0, frames)
	if params.Reverse {
		v.pos = frames - start
	} else {
		v.pos = start
	}

	v.volume.value = params.Volume
	v.panning.value = clamp01(params.Panning)
	v.rate.value = params.Rate
	if params.FadeIn.Duration > 0 {
		v.fade.set(1, params.FadeIn, 0, outRate)
	} else {
		v.fade.value = 1
	}

	v.rstate = Playing
	if params.StartPaused {
		v.rstate = Paused
	}
	v.publish()
	return v
}

// Pause fades the voice out over the tween and parks it. A zero tween
// parks it within the same render block.
func (v *Voice) Pause(tw Tween) error {
	return v.m.push(command{op: opPause, voice: v, tween: tw})
}

// Resume fades a paused voice back in over the tween.
func (v *Voice) Resume(tw Tween) error {
	return v.m.push(command{op: opResume, voice: v, tween: tw})
}

// Stop fades the voice out over the tween and releases its slot.
func (v *Voice) Stop(tw Tween) error {
	return v.m.push(command{op: opStop, voice: v, tween: tw})
}

// SetVolume ramps the voice volume to the given linear amplitude.
func (v *Voice) SetVolume(volume float64, tw Tween) error {
	return v.m.push(command{op: opSetVolume, voice: v, value: volume, tween: tw})
}

// SetPanning ramps the stereo position, 0 hard left through 1 hard right.
func (v *Voice) SetPanning(panning float64, tw Tween) error {
	return v.m.push(command{op: opSetPanning, voice: v, value: panning, tween: tw})
}

// SetRate ramps the playback rate multiplier.
func (v *Voice) SetRate(rate float64, tw Tween) error {
	return v.m.push(command{op: opSetRate, voice: v, value: rate, tween: tw})
}

// SeekTo moves playback to an absolute position within the clip.
func (v *Voice) SeekTo(pos time.Duration) error {
	return v.m.push(command{op: opSeekTo, voice: v, value: pos.Seconds()})
}

// SeekBy moves playback relative to the current position.
func (v *Voice) SeekBy(offset time.Duration) error {
	return v.m.push(command{op: opSeekBy, voice: v, value: offset.Seconds()})
}

// State returns the playback state last published by the render side.
func (v *Voice) State() State {
	return State(v.state.Load())
}

// Position returns the playback position last published by the render
// side, in clip time.
func (v *Voice) Position() time.Duration {
	secs := math.Float64frombits(v.position.Load())
	return time.Duration(secs * float64(time.Second))
}

func (v *Voice) apply(cmd command, outRate int) {
	if v.rstate == Stopped {
		return
	}
	switch cmd.op {
	case opPause:
		if v.rstate != Playing && v.rstate != Pausing {
			return
		}
		if cmd.tween.Duration <= 0 {
			v.fade.set(0, Tween{}, v.clock, outRate)
			v.rstate = Paused
		} else {
			v.rstate = Pausing
			v.fade.set(0, cmd.tween, v.clock, outRate)
		}
	case opResume:
		if v.rstate != Paused && v.rstate != Pausing {
			return
		}
		v.rstate = Playing
		v.fade.set(1, cmd.tween, v.clock, outRate)
	case opStop:
		if cmd.tween.Duration <= 0 {
			v.fade.set(0, Tween{}, v.clock, outRate)
			v.rstate = Stopped
		} else {
			v.rstate = Stopping
			v.fade.set(0, cmd.tween, v.clock, outRate)
		}
	case opSetVolume:
		v.volume.set(cmd.value, cmd.tween, v.clock, outRate)
	case opSetPanning:
		v.panning.set(clamp01(cmd.value), cmd.tween, v.clock, outRate)
	case opSetRate:
		v.rate.set(cmd.value, cmd.tween, v.clock, outRate)
	case opSeekTo:
		v.seek(cmd.value)
	case opSeekBy:
		v.seek(v.pos/float64(v.sound.SampleRate) + cmd.value)
	}
	v.publish()
}

func (v *Voice) seek(seconds float64) {
	v.pos = clampf(seconds*float64(v.sound.SampleRate), 0, float64(v.sound.Frames()))
}

// render mixes one block into buf and reports whether the voice should be
// kept. Pausing and Stopping voices keep rendering so their fades advance,
// even if a fade happens to sit at zero.
func (v *Voice) render(buf []float32, outRate int) bool {
	if v.rstate == Stopped {
		v.publish()
		return false
	}
	if v.rstate == Paused {
		v.publish()
		return true
	}
	frames := len(buf) / 2
	for f := 0; f < frames; f++ {
		vol := v.volume.at(v.clock) * v.fade.at(v.clock)
		pan := v.panning.at(v.clock)
		rate := v.rate.at(v.clock)

		if v.fade.done() {
			if v.rstate == Pausing {
				v.rstate = Paused
				break
			}
			if v.rstate == Stopping {
				v.rstate = Stopped
				break
			}
		}

		l, r := v.sampleAt(v.pos)
		gl, gr := panGains(pan)
		buf[2*f] += l * float32(vol) * gl
		buf[2*f+1] += r * float32(vol) * gr

		step := rate * float64(v.sound.SampleRate) / float64(outRate)
		if v.reverse {
			step = -step
		}
		v.pos += step
		v.clock++
		if !v.advance() {
			v.rstate = Stopped
			break
		}
	}
	v.publish()
	return v.rstate != Stopped
}

// advance wraps the position for looping voices and reports whether
// playback continues.
func (v *Voice) advance() bool {
	n := float64(v.sound.Frames())
	if v.loop {
		start := v.loopStart
		end := n
		if v.loopEnd > 0 && v.loopEnd < n {
			end = v.loopEnd
		}
		if end <= start {
			return false
		}
		if v.reverse {
			for v.pos < start {
				v.pos += end - start
			}
		} else {
			for v.pos >= end {
				v.pos -= end - start
			}
		}
		return true
	}
	if v.reverse {
		return v.pos >= 0
	}
	return v.pos < n
}

func (v *Voice) sampleAt(pos float64) (float32, float32) {
	n := v.sound.Frames()
	if n == 0 {
		return 0, 0
	}
	i := int(pos)
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	j := i + 1
	if j >= n {
		j = i
	}
	frac := float32(pos - float64(i))
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	l := v.sound.Samples[2*i]*(1-frac) + v.sound.Samples[2*j]*frac
	r := v.sound.Samples[2*i+1]*(1-frac) + v.sound.Samples[2*j+1]*frac
	return l, r
}

func (v *Voice) publish() {
	v.state.Store(int32(v.rstate))
	secs := 0.0
	if v.sound.SampleRate > 0 {
		secs = v.pos / float64(v.sound.SampleRate)
	}
	v.position.Store(math.Float64bits(secs))
}

// panGains implements a stereo balance law: a channel stays at unity until
// the balance moves away from it.
func panGains(pan float64) (float32, float32) {
	pan = clamp01(pan)
	gl := 2 * (1 - pan)
	if gl > 1 {
		gl = 1
	}
	gr := 2 * pan
	if gr > 1 {
		gr = 1
	}
	return float32(gl), float32(gr)
}

func clamp01(x float64) float64 {
	return clampf(x, 0, 1)
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
