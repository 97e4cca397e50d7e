// Package playlist sequences music tracks on an audial channel.
// Playlists are described in a JSON document; the active playlist
// advances to its next track when the current one ends and wraps around
// at the end, switching between playlists crossfades.
package playlist

import (
	"sync"
	"time"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/internal/log"
)

// DefaultCrossfade is the fade length used when switching playlists and
// when a single-track playlist wraps around.
const DefaultCrossfade = time.Second

// Id identifies a playlist from the registry document.
type Id string

// PlayList is one entry of the registry document.
type PlayList struct {
	Id     Id
	Tracks []*Track

	currentTrack int
}

// Track is one music file of a playlist. Name and Author are carried
// for the game's UI; omitted volumes mean full volume.
type Track struct {
	Path   string
	Name   string
	Author string
	Volume float64

	handle *audial.SourceHandle
}

// Manager owns the loaded playlists and the channel they play on.
type Manager struct {
	ch        *audial.Channel
	crossfade time.Duration

	mu      sync.Mutex
	lists   map[Id]*PlayList
	current *PlayList
	playing audial.InstanceID
	started bool
}

// SetCrossfade changes the fade used when switching playlists.
func (m *Manager) SetCrossfade(d time.Duration) {
	m.mu.Lock()
	m.crossfade = d
	m.mu.Unlock()
}

// Play switches to the playlist. Whatever is playing fades out over the
// crossfade and the new playlist's current track fades in. Playing the
// already active playlist only resumes the channel.
func (m *Manager) Play(id Id) {
	m.ch.Resume().Submit()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.Id == id {
		return
	}
	next, ok := m.lists[id]
	if !ok {
		log.Warn("playlist: not loaded", "id", id)
		return
	}
	if m.started {
		m.ch.Stop().WithTween(m.tween()).Submit()
	}
	m.current = next
	m.startTrack(m.tween())
}

// Pause pauses the music channel.
func (m *Manager) Pause() {
	m.ch.Pause().Submit()
}

// Resume resumes the music channel.
func (m *Manager) Resume() {
	m.ch.Resume().Submit()
}

// Stop fades the music out and forgets the active playlist.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ch.Stop().WithTween(m.tween()).Submit()
	m.current = nil
	m.started = false
}

// Current returns the id of the active playlist.
func (m *Manager) Current() (Id, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return "", false
	}
	return m.current.Id, true
}

// CurrentTrack returns the track the active playlist stands on.
func (m *Manager) CurrentTrack() (*Track, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, false
	}
	return m.current.Tracks[m.current.currentTrack], true
}

// Process advances the active playlist when its track has ended. Call
// it once per game tick, next to Engine.Update.
func (m *Manager) Process() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || !m.started {
		return
	}
	if m.ch.State(m.playing).Phase != audial.Stopped {
		return
	}
	m.current.currentTrack = (m.current.currentTrack + 1) % len(m.current.Tracks)
	m.startTrack(audial.Tween{})
}

// startTrack queues the current track. Single-track playlists loop in
// place instead of being resubmitted every wrap.
func (m *Manager) startTrack(fadeIn audial.Tween) {
	track := m.current.Tracks[m.current.currentTrack]
	pc := m.ch.Play(track.handle).WithVolume(track.Volume)
	if len(m.current.Tracks) == 1 {
		pc.Looped()
	}
	if fadeIn.Duration > 0 {
		pc.FadeIn(fadeIn)
	}
	m.playing = pc.Submit()
	m.started = true
}

func (m *Manager) tween() audial.Tween {
	return audial.Tween{Duration: m.crossfade, Easing: audial.Linear}
}
