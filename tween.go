package audial

import "github.com/aldermoor/audial/mixer"

// Tween shapes a parameter transition. The zero value applies the target
// immediately; DefaultTween gives the short ramp used when callers do not
// ask for one.
type Tween = mixer.Tween

// Easing maps normalized tween time to normalized progress.
type Easing = mixer.Easing

// Re-exported easings so most programs never import the mixer package.
var (
	Linear       = mixer.Linear
	EaseInPow    = mixer.EaseInPow
	EaseOutPow   = mixer.EaseOutPow
	EaseInOutPow = mixer.EaseInOutPow
)

// DefaultTween is the ramp applied when a command does not specify one.
func DefaultTween() Tween { return mixer.DefaultTween() }
