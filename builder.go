package audial

import (
	"time"

	"github.com/aldermoor/audial/mixer"
)

// PlayCommand accumulates the parameters of one play before it is
// submitted. Build and Submit it from a single goroutine.
type PlayCommand struct {
	ch     *Channel
	id     InstanceID
	handle *SourceHandle

	volume     float64
	volumeSet  bool
	panning    float64
	panningSet bool
	rate       float64
	rateSet    bool

	reverse bool
	paused  bool

	looped       bool
	loopFrom     time.Duration
	loopFromSet  bool
	loopUntil    time.Duration
	loopUntilSet bool

	startFrom    time.Duration
	startFromSet bool
	fadeIn       Tween
	fadeInSet    bool

	emitter *Emitter

	submitted bool
}

func newPlayCommand(ch *Channel, handle *SourceHandle) *PlayCommand {
	return &PlayCommand{ch: ch, id: newInstanceID(), handle: handle}
}

// Looped repeats the source until it is stopped.
func (pc *PlayCommand) Looped() *PlayCommand {
	pc.looped = true
	return pc
}

// LoopFrom repeats the source and restarts each pass at the given
// position instead of the beginning.
func (pc *PlayCommand) LoopFrom(pos time.Duration) *PlayCommand {
	pc.looped = true
	pc.loopFrom = pos
	pc.loopFromSet = true
	return pc
}

// LoopUntil repeats the source and ends each pass at the given position
// instead of the end.
func (pc *PlayCommand) LoopUntil(pos time.Duration) *PlayCommand {
	pc.looped = true
	pc.loopUntil = pos
	pc.loopUntilSet = true
	return pc
}

// StartFrom begins playback at the given position.
func (pc *PlayCommand) StartFrom(pos time.Duration) *PlayCommand {
	pc.startFrom = pos
	pc.startFromSet = true
	return pc
}

// Reverse plays the source backwards, from its end toward its start.
func (pc *PlayCommand) Reverse() *PlayCommand {
	pc.reverse = true
	return pc
}

// Paused starts the instance paused. Resume it through the channel or
// through its instance handle.
func (pc *PlayCommand) Paused() *PlayCommand {
	pc.paused = true
	return pc
}

// WithVolume overrides the source and channel volume for this instance.
func (pc *PlayCommand) WithVolume(volume float64) *PlayCommand {
	pc.volume = volume
	pc.volumeSet = true
	return pc
}

// WithPanning overrides the stereo position for this instance. 0 is hard
// left, 1 hard right.
func (pc *PlayCommand) WithPanning(panning float64) *PlayCommand {
	pc.panning = panning
	pc.panningSet = true
	return pc
}

// WithPlaybackRate overrides the playback rate for this instance.
func (pc *PlayCommand) WithPlaybackRate(rate float64) *PlayCommand {
	pc.rate = rate
	pc.rateSet = true
	return pc
}

// FadeIn ramps the instance in from silence over the tween.
func (pc *PlayCommand) FadeIn(tw Tween) *PlayCommand {
	pc.fadeIn = tw
	pc.fadeInSet = true
	return pc
}

// WithEmitter places the instance in the world. Its volume and panning
// then follow the emitter and receiver positions on every Update,
// overriding whatever was set here.
func (pc *PlayCommand) WithEmitter(em *Emitter) *PlayCommand {
	pc.emitter = em
	return pc
}

// Handle returns the instance id the play will use. It is valid before
// Submit, so it can be stored ahead of dispatch.
func (pc *PlayCommand) Handle() InstanceID { return pc.id }

// Submit queues the play for the next Update and returns the instance
// id. Submitting twice is a no-op.
func (pc *PlayCommand) Submit() InstanceID {
	if pc.submitted {
		return pc.id
	}
	pc.submitted = true
	pc.ch.buf.push(channelCommand{kind: cmdPlay, play: pc})
	return pc.id
}

// voiceParams folds source defaults, remembered channel state, and the
// builder's own settings into mixer parameters. Builder settings win,
// then channel state, then the source defaults.
func (pc *PlayCommand) voiceParams(def PlaySettings, chp channelParams) mixer.VoiceParams {
	p := mixer.VoiceParams{
		Volume:        def.Volume,
		Panning:       def.Panning,
		Rate:          def.PlaybackRate,
		Reverse:       def.Reverse,
		Loop:          def.Loop,
		LoopStart:     def.LoopStart,
		StartPosition: def.StartPosition,
	}
	if def.FadeIn > 0 {
		p.FadeIn = Tween{Duration: def.FadeIn, Easing: Linear}
	}
	if chp.touched {
		p.Volume = chp.volume
		p.Panning = chp.panning
		p.Rate = chp.rate
	}
	p.StartPaused = chp.paused
	if pc.volumeSet {
		p.Volume = pc.volume
	}
	if pc.panningSet {
		p.Panning = pc.panning
	}
	if pc.rateSet {
		p.Rate = pc.rate
	}
	if pc.reverse {
		p.Reverse = true
	}
	if pc.paused {
		p.StartPaused = true
	}
	if pc.looped {
		p.Loop = true
	}
	if pc.loopFromSet {
		p.LoopStart = pc.loopFrom
	}
	if pc.loopUntilSet {
		p.LoopEnd = pc.loopUntil
	}
	if pc.startFromSet {
		p.StartPosition = pc.startFrom
	}
	if pc.fadeInSet {
		p.FadeIn = pc.fadeIn
	}
	return p
}

// TweenCommand is a channel-scoped control command: a stop, pause, or
// resume, or a parameter change for everything live on the channel.
type TweenCommand struct {
	ch        *Channel
	kind      commandKind
	value     float64
	tween     Tween
	submitted bool
}

func newTweenCommand(ch *Channel, kind commandKind, value float64) *TweenCommand {
	return &TweenCommand{ch: ch, kind: kind, value: value, tween: DefaultTween()}
}

// WithTween replaces the default ramp. A zero tween applies the command
// instantly.
func (tc *TweenCommand) WithTween(tw Tween) *TweenCommand {
	tc.tween = tw
	return tc
}

// Submit queues the command for the next Update. Submitting twice is a
// no-op.
func (tc *TweenCommand) Submit() {
	if tc.submitted {
		return
	}
	tc.submitted = true
	tc.ch.buf.push(channelCommand{kind: tc.kind, value: tc.value, tween: tc.tween})
}
