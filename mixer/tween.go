package mixer

import (
	"math"
	"time"
)

// Easing shapes the progress of a Tween. It maps elapsed progress in
// [0, 1] to eased progress in [0, 1].
type Easing func(t float64) float64

// Linear keeps progress unshaped.
func Linear(t float64) float64 { return t }

// EaseInPow starts slow and accelerates, following t^n.
func EaseInPow(n float64) Easing {
	return func(t float64) float64 { return math.Pow(t, n) }
}

// EaseOutPow starts fast and decelerates.
func EaseOutPow(n float64) Easing {
	return func(t float64) float64 { return 1 - math.Pow(1-t, n) }
}

// EaseInOutPow accelerates through the first half and decelerates through
// the second.
func EaseInOutPow(n float64) Easing {
	return func(t float64) float64 {
		if t < 0.5 {
			return 0.5 * math.Pow(2*t, n)
		}
		return 1 - 0.5*math.Pow(2*(1-t), n)
	}
}

// Tween describes how a parameter change is spread over time.
// The zero value applies the change instantly.
type Tween struct {
	Duration time.Duration
	Easing   Easing // nil means Linear
}

// DefaultTween is applied whenever a command does not carry its own tween:
// a short linear ramp that avoids clicks without being audible as a fade.
func DefaultTween() Tween {
	return Tween{Duration: 10 * time.Millisecond, Easing: Linear}
}

func (t Tween) ease(x float64) float64 {
	if t.Easing == nil {
		return x
	}
	return t.Easing(x)
}

// param is a render-side voice parameter that can ramp towards a target.
type param struct {
	value float64
	ramp  *ramp
}

type ramp struct {
	from, to   float64
	start, dur float64 // in output frames
	tween      Tween
}

// set retargets the parameter. A tween with zero duration applies
// immediately.
func (p *param) set(target float64, tw Tween, clock float64, outRate int) {
	if tw.Duration <= 0 {
		p.value = target
		p.ramp = nil
		return
	}
	p.ramp = &ramp{
		from:  p.value,
		to:    target,
		start: clock,
		dur:   tw.Duration.Seconds() * float64(outRate),
		tween: tw,
	}
}

// at evaluates the parameter at the given frame clock, retiring the ramp
// once it completes.
func (p *param) at(clock float64) float64 {
	if p.ramp == nil {
		return p.value
	}
	t := (clock - p.ramp.start) / p.ramp.dur
	if t >= 1 {
		p.value = p.ramp.to
		p.ramp = nil
		return p.value
	}
	if t < 0 {
		t = 0
	}
	p.value = p.ramp.from + (p.ramp.to-p.ramp.from)*p.ramp.tween.ease(t)
	return p.value
}

func (p *param) done() bool { return p.ramp == nil }
