package audial

import (
	"fmt"

	"github.com/aldermoor/audial/internal/log"
)

// CreateChannel registers a dynamic channel under the given key and
// returns it. Creating an existing key returns the channel already
// there.
func (e *Engine) CreateChannel(key string) *Channel {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ch, ok := e.dynamic[key]; ok {
		return ch
	}
	ch := newChannel(key)
	e.dynamic[key] = ch
	e.order = append(e.order, ch)
	return ch
}

// HasChannel reports whether a dynamic channel exists under the key.
func (e *Engine) HasChannel(key string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.dynamic[key]
	return ok
}

// Channel returns the dynamic channel under the key and panics when it
// does not exist. Use GetChannel when absence is an expected case.
func (e *Engine) Channel(key string) *Channel {
	ch, err := e.GetChannel(key)
	if err != nil {
		panic(err)
	}
	return ch
}

// GetChannel returns the dynamic channel under the key, or an error
// wrapping ErrNoSuchChannel.
func (e *Engine) GetChannel(key string) (*Channel, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ch, ok := e.dynamic[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchChannel, key)
	}
	return ch, nil
}

// EachChannel calls f for every dynamic channel. The set is snapshotted
// first, so f may create or remove channels.
func (e *Engine) EachChannel(f func(key string, ch *Channel)) {
	e.mu.RLock()
	keys := make([]string, 0, len(e.dynamic))
	for key := range e.dynamic {
		keys = append(keys, key)
	}
	e.mu.RUnlock()
	for _, key := range keys {
		e.mu.RLock()
		ch, ok := e.dynamic[key]
		e.mu.RUnlock()
		if ok {
			f(key, ch)
		}
	}
}

// RemoveChannel stops everything playing on the dynamic channel and
// forgets it. The stops go straight to the mixer with the default tween
// rather than through the frame buffer, so removal cannot strand fading
// instances; buffered commands die with the channel. Removing a missing
// key is a no-op.
func (e *Engine) RemoveChannel(key string) {
	e.mu.Lock()
	ch, ok := e.dynamic[key]
	if ok {
		delete(e.dynamic, key)
		for i, other := range e.order {
			if other == ch {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	for _, id := range ch.stateIDs() {
		if inst, found := e.Instance(id); found {
			if err := inst.Stop(DefaultTween()); err != nil {
				log.Warn("audial: stop on channel removal dropped",
					"channel", key, "instance", id, "error", err)
			}
		}
		e.unregisterInstance(id)
	}
	ch.clear()
}
