package audial

import (
	"github.com/aldermoor/audial/assets"
	"github.com/aldermoor/audial/internal/log"
)

// Update advances the control layer by one frame: spatial parameters are
// refreshed, buffered commands dispatched in submit order, and mixer
// state read back into the channel maps. Call it once per game tick from
// a single goroutine; everything else may run concurrently with it.
func (e *Engine) Update() {
	e.updateSpatial()
	e.cleanupEmitters()
	e.dispatchChannels()
	e.readBack()
}

func (e *Engine) channelsSnapshot() []*Channel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	chs := make([]*Channel, len(e.order))
	copy(chs, e.order)
	return chs
}

func (e *Engine) dispatchChannels() {
	for _, ch := range e.channelsSnapshot() {
		e.drain(ch)
	}
}

// drain executes the channel's buffered commands oldest first. The count
// is captured up front so commands submitted mid-drain wait a frame. A
// play whose source is still loading stays at the front and ends the
// drain, so nothing submitted after it can overtake it.
func (e *Engine) drain(ch *Channel) {
	n := ch.buf.size()
	for i := 0; i < n; i++ {
		cmd, ok := ch.buf.peekOldest()
		if !ok {
			return
		}
		if cmd.kind == cmdPlay {
			if !e.startPlay(ch, cmd.play) {
				return
			}
		} else {
			e.applyChannelCommand(ch, cmd)
		}
		ch.buf.dropOldest()
	}
}

// startPlay reports false when the play must be retried next frame.
func (e *Engine) startPlay(ch *Channel, pc *PlayCommand) bool {
	switch pc.handle.Status() {
	case assets.Loading:
		return false
	case assets.Failed:
		log.Warn("audial: dropping play of failed source",
			"channel", ch.name, "path", pc.handle.Path(), "error", pc.handle.Err())
		return true
	}
	source, ok := pc.handle.Get()
	if !ok || source == nil {
		return false
	}
	voice, err := e.mixer.Play(source.sound(), pc.voiceParams(source.Defaults, ch.params))
	if err != nil {
		log.Warn("audial: play rejected by mixer",
			"channel", ch.name, "path", pc.handle.Path(), "error", err)
		return true
	}
	inst := &Instance{id: pc.id, voice: voice}
	e.registerInstance(inst)
	if pc.emitter != nil {
		pc.emitter.attach(inst)
	}
	ch.setState(pc.id, inst.State())
	return true
}

func (e *Engine) applyChannelCommand(ch *Channel, cmd channelCommand) {
	switch cmd.kind {
	case cmdStop:
		e.eachChannelInstance(ch, func(inst *Instance) error {
			return inst.Stop(cmd.tween)
		}, "stop")
	case cmdPause:
		ch.params.paused = true
		ch.params.touched = true
		e.eachChannelInstance(ch, func(inst *Instance) error {
			return inst.Pause(cmd.tween)
		}, "pause")
	case cmdResume:
		ch.params.paused = false
		ch.params.touched = true
		e.eachChannelInstance(ch, func(inst *Instance) error {
			return inst.Resume(cmd.tween)
		}, "resume")
	case cmdSetVolume:
		ch.params.volume = cmd.value
		ch.params.touched = true
		e.eachChannelInstance(ch, func(inst *Instance) error {
			return inst.SetVolume(cmd.value, cmd.tween)
		}, "set volume")
	case cmdSetPanning:
		ch.params.panning = cmd.value
		ch.params.touched = true
		e.eachChannelInstance(ch, func(inst *Instance) error {
			return inst.SetPanning(cmd.value, cmd.tween)
		}, "set panning")
	case cmdSetRate:
		ch.params.rate = cmd.value
		ch.params.touched = true
		e.eachChannelInstance(ch, func(inst *Instance) error {
			return inst.SetPlaybackRate(cmd.value, cmd.tween)
		}, "set playback rate")
	}
}

func (e *Engine) eachChannelInstance(ch *Channel, f func(*Instance) error, op string) {
	for _, id := range ch.stateIDs() {
		inst, ok := e.Instance(id)
		if !ok {
			continue
		}
		if err := f(inst); err != nil {
			log.Warn("audial: channel command dropped",
				"channel", ch.name, "op", op, "instance", id, "error", err)
		}
	}
}

// readBack copies mixer state into the channel maps, one entry per known
// instance. Entries that turn Stopped survive exactly one more frame so
// a poll that just missed the transition still observes it.
func (e *Engine) readBack() {
	for _, ch := range e.channelsSnapshot() {
		e.readBackChannel(ch)
	}
}

func (e *Engine) readBackChannel(ch *Channel) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for id, entry := range ch.states {
		inst, ok := e.Instance(id)
		if !ok {
			delete(ch.states, id)
			continue
		}
		st := inst.State()
		if st.Phase == Stopped {
			if entry.retiring {
				delete(ch.states, id)
				e.unregisterInstance(id)
				continue
			}
			entry.retiring = true
		}
		entry.state = st
		ch.states[id] = entry
	}
}
