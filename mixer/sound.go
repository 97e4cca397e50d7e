package mixer

import "time"

// Sound is a fully decoded clip, ready for playback.
//
//	[Samples]   = [frame 1] [frame 2] [frame 3] ...
//	[frame *]   = [left float32] [right float32]
type Sound struct {
	Samples    []float32
	SampleRate int
}

// Frames returns the number of stereo frames in the clip.
func (s *Sound) Frames() int {
	if s == nil {
		return 0
	}
	return len(s.Samples) / 2
}

// Duration returns the playback time of the clip at its native rate.
func (s *Sound) Duration() time.Duration {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(s.Frames()) / float64(s.SampleRate) * float64(time.Second))
}
