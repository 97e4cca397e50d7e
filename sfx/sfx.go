// Package sfx is an id-keyed sound effect registry on top of audial.
// Effects are described in a JSON document, may come in weighted
// variants, and can be throttled so rapid game events do not stack the
// same sample into a wall of noise.
package sfx

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/internal/log"
)

// Id identifies a sound effect from the registry document.
type Id string

// Sfx is one entry of the registry document. Omitted volumes mean full
// volume; omitted probabilities weigh variants equally.
type Sfx struct {
	Id           Id
	Volume       float64
	ThrottlingMs int
	Variations   []*SfxVariant

	lastPlayed time.Time
}

// SfxVariant is one interchangeable recording of an effect.
type SfxVariant struct {
	Path         string
	Probability  float64
	Volume       float64
	ThrottlingMs int

	handle     *audial.SourceHandle
	lastPlayed time.Time
}

// Library holds loaded sound effects and plays them on one channel.
type Library struct {
	ch *audial.Channel

	mu     sync.Mutex
	loaded map[Id]*Sfx
}

// Play plays the effect, returning false when the id is unknown or the
// effect was throttled.
func (l *Library) Play(id Id) bool {
	return l.PlayFadeIn(id, 0)
}

// PlayRandomFadeIn plays the effect with a random fade-in of up to
// maxFadeIn. Randomizing the attack keeps frequently repeated effects
// from sounding stamped out.
func (l *Library) PlayRandomFadeIn(id Id, maxFadeIn time.Duration) bool {
	return l.PlayFadeIn(id, time.Duration(rand.Int64N(int64(maxFadeIn))))
}

// PlayFadeIn plays the effect, ramping it in over fadeIn.
func (l *Library) PlayFadeIn(id Id, fadeIn time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.loaded[id]
	if !ok {
		log.Warn("sfx: not loaded", "id", id)
		return false
	}
	return l.play(e, fadeIn)
}

// Has reports whether the id is in the registry.
func (l *Library) Has(id Id) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.loaded[id]
	return ok
}

func (l *Library) play(e *Sfx, fadeIn time.Duration) bool {
	if len(e.Variations) == 0 {
		return false
	}
	if time.Since(e.lastPlayed) <= time.Duration(e.ThrottlingMs)*time.Millisecond {
		return false
	}
	unThrottled := make([]*SfxVariant, 0, len(e.Variations))
	probabilitySum := 0.0
	for _, v := range e.Variations {
		if time.Since(v.lastPlayed) > time.Duration(v.ThrottlingMs)*time.Millisecond {
			unThrottled = append(unThrottled, v)
			probabilitySum += v.Probability
		}
	}
	if len(unThrottled) == 0 {
		return false
	}
	random := rand.Float64() * probabilitySum
	for _, v := range unThrottled {
		if random <= v.Probability+0.001 {
			l.playVariant(e, v, fadeIn)
			e.lastPlayed = time.Now()
			return true
		}
		random -= v.Probability
	}
	return false
}

func (l *Library) playVariant(e *Sfx, v *SfxVariant, fadeIn time.Duration) {
	pc := l.ch.Play(v.handle).WithVolume(e.Volume * v.Volume)
	if fadeIn > 0 {
		pc.FadeIn(audial.Tween{Duration: fadeIn, Easing: audial.Linear})
	}
	pc.Submit()
	v.lastPlayed = time.Now()
}
