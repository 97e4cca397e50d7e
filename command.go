package audial

import (
	"sync"

	"github.com/google/uuid"
)

// InstanceID identifies one playing occurrence of a source. It is handed
// out when the play is submitted, before anything reaches the mixer, so
// game code can key its own bookkeeping off it immediately.
type InstanceID uuid.UUID

func newInstanceID() InstanceID { return InstanceID(uuid.New()) }

func (id InstanceID) String() string { return uuid.UUID(id).String() }

type commandKind int

const (
	cmdPlay commandKind = iota
	cmdStop
	cmdPause
	cmdResume
	cmdSetVolume
	cmdSetPanning
	cmdSetRate
)

type channelCommand struct {
	kind  commandKind
	play  *PlayCommand // cmdPlay only
	value float64
	tween Tween
}

// commandBuffer is the per-channel queue between game code and the frame
// dispatcher. Producers append concurrently from any goroutine; the
// dispatcher drains oldest first during Update and is the only consumer.
type commandBuffer struct {
	mu   sync.RWMutex
	cmds []channelCommand
}

func (b *commandBuffer) push(cmd channelCommand) {
	b.mu.Lock()
	b.cmds = append(b.cmds, cmd)
	b.mu.Unlock()
}

// size is read once at the start of a drain, so commands pushed while
// draining wait until the next frame.
func (b *commandBuffer) size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.cmds)
}

func (b *commandBuffer) peekOldest() (channelCommand, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.cmds) == 0 {
		return channelCommand{}, false
	}
	return b.cmds[0], true
}

func (b *commandBuffer) dropOldest() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.cmds) == 0 {
		return
	}
	b.cmds[0] = channelCommand{}
	b.cmds = b.cmds[1:]
}

// hasPlay reports whether a play for the given instance is still waiting
// to be dispatched.
func (b *commandBuffer) hasPlay(id InstanceID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, cmd := range b.cmds {
		if cmd.kind == cmdPlay && cmd.play.id == id {
			return true
		}
	}
	return false
}

func (b *commandBuffer) clear() {
	b.mu.Lock()
	b.cmds = nil
	b.mu.Unlock()
}
