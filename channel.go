package audial

import "sync"

// Channel is an independent group of playing instances. Commands issued
// through a channel are buffered and take effect on the next Update, in
// the order they were submitted; state flows back the other way and is
// queryable between frames.
//
// Typed channels come from AddChannel, dynamic ones from CreateChannel.
// Both behave identically once obtained.
type Channel struct {
	name string
	buf  commandBuffer

	mu     sync.RWMutex
	states map[InstanceID]stateEntry

	// Remembered channel parameters, inherited by new plays. Only the
	// dispatcher touches these.
	params channelParams
}

type stateEntry struct {
	state PlaybackState

	// retiring marks entries that were already reported Stopped once.
	// They survive exactly one more frame so a poll that just missed the
	// transition still observes it.
	retiring bool
}

type channelParams struct {
	volume  float64
	panning float64
	rate    float64
	paused  bool

	// touched flips once any channel-scoped pause, resume, or parameter
	// command has run. Until then new plays keep their source defaults.
	touched bool
}

func newChannel(name string) *Channel {
	return &Channel{
		name:   name,
		states: make(map[InstanceID]stateEntry),
		params: channelParams{volume: 1, panning: 0.5, rate: 1},
	}
}

// Play queues the source to start on this channel. Configure the returned
// command and call Submit; nothing reaches the mixer before the next
// Update.
func (c *Channel) Play(handle *SourceHandle) *PlayCommand {
	return newPlayCommand(c, handle)
}

// Stop queues a stop for every instance live on the channel.
func (c *Channel) Stop() *TweenCommand { return newTweenCommand(c, cmdStop, 0) }

// Pause queues a pause for every instance live on the channel. The
// channel remembers that it is paused, so later plays start paused too.
func (c *Channel) Pause() *TweenCommand { return newTweenCommand(c, cmdPause, 0) }

// Resume queues a resume for every instance live on the channel and
// clears the remembered paused flag.
func (c *Channel) Resume() *TweenCommand { return newTweenCommand(c, cmdResume, 0) }

// SetVolume queues a volume change for every instance live on the
// channel. The channel remembers the value and new plays inherit it.
func (c *Channel) SetVolume(volume float64) *TweenCommand {
	return newTweenCommand(c, cmdSetVolume, volume)
}

// SetPanning queues a panning change for every instance live on the
// channel. 0 is hard left, 1 hard right.
func (c *Channel) SetPanning(panning float64) *TweenCommand {
	return newTweenCommand(c, cmdSetPanning, panning)
}

// SetPlaybackRate queues a playback rate change for every instance live
// on the channel.
func (c *Channel) SetPlaybackRate(rate float64) *TweenCommand {
	return newTweenCommand(c, cmdSetRate, rate)
}

// State reports how the given instance currently stands on this channel.
// Precedence: the state last read back from the mixer, then Queued while
// the play is still buffered, then Stopped for everything unknown.
func (c *Channel) State(id InstanceID) PlaybackState {
	c.mu.RLock()
	entry, ok := c.states[id]
	c.mu.RUnlock()
	if ok {
		return entry.state
	}
	if c.buf.hasPlay(id) {
		return PlaybackState{Phase: Queued}
	}
	return PlaybackState{Phase: Stopped}
}

// IsPlayingSound reports whether anything on the channel is audibly
// active: playing, winding down to a pause, or fading out to a stop.
func (c *Channel) IsPlayingSound() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, entry := range c.states {
		switch entry.state.Phase {
		case Playing, Pausing, Stopping:
			return true
		}
	}
	return false
}

func (c *Channel) setState(id InstanceID, st PlaybackState) {
	c.mu.Lock()
	c.states[id] = stateEntry{state: st}
	c.mu.Unlock()
}

func (c *Channel) stateIDs() []InstanceID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]InstanceID, 0, len(c.states))
	for id := range c.states {
		ids = append(ids, id)
	}
	return ids
}

func (c *Channel) clear() {
	c.buf.clear()
	c.mu.Lock()
	c.states = make(map[InstanceID]stateEntry)
	c.mu.Unlock()
}
