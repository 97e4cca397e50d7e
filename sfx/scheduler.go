package sfx

import (
	"math/rand/v2"
	"time"
)

// Scheduler lets you register sounds that should play in the future.
//
// The time axis is whatever the game says it is. A simulation with
// virtual time passes its own clock; a realtime game can pass elapsed
// seconds. Sounds fire when Process is called with a time at or past
// their deadline, so effects can be lined up against timed animations
// without running code at exactly the right moment.
//
// Remember to call Process from your game loop.
type Scheduler struct {
	lib    *Library
	sounds []queuedSound
}

type queuedSound struct {
	id         Id
	whenToPlay float64
	fadeIn     time.Duration
}

// NewScheduler makes a scheduler playing from the given library.
func NewScheduler(lib *Library) *Scheduler {
	return &Scheduler{
		lib:    lib,
		sounds: make([]queuedSound, 0, 100),
	}
}

// PlaySoundEffectAt schedules the effect for the given time.
func (s *Scheduler) PlaySoundEffectAt(id Id, at float64) {
	s.PlaySoundEffectAtFadeIn(id, at, 0)
}

// PlaySoundEffectAtFadeIn schedules the effect with a fade-in.
func (s *Scheduler) PlaySoundEffectAtFadeIn(id Id, at float64, fadeIn time.Duration) {
	s.sounds = append(s.sounds, queuedSound{
		whenToPlay: at,
		fadeIn:     fadeIn,
		id:         id,
	})
}

// PlaySoundEffectAtRandomFadeIn schedules the effect with a random
// fade-in of up to maxFadeInMilliSeconds.
func (s *Scheduler) PlaySoundEffectAtRandomFadeIn(id Id, at float64, maxFadeInMilliSeconds int) {
	s.PlaySoundEffectAtFadeIn(id, at, time.Duration(rand.IntN(maxFadeInMilliSeconds))*time.Millisecond)
}

// Clear drops everything scheduled.
func (s *Scheduler) Clear() {
	s.sounds = s.sounds[:0]
}

// Process plays every sound whose time has come. Sounds more than three
// seconds overdue are dropped instead of played; a long hitch should not
// come back as a burst of stale effects.
func (s *Scheduler) Process(now float64) {
	i := 0
	for i < len(s.sounds) {
		if s.sounds[i].whenToPlay <= now {
			if s.sounds[i].whenToPlay >= now-3 {
				s.lib.PlayFadeIn(s.sounds[i].id, s.sounds[i].fadeIn)
			}
			// clean array by moving the last element to the now free position
			s.sounds[i] = s.sounds[len(s.sounds)-1]
			s.sounds = s.sounds[:len(s.sounds)-1]
			continue
		}
		i++
	}
}
