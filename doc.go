// Package audial is a deferred, channel-oriented audio control layer for
// games. Game code submits plays and control commands to channels from
// any goroutine; once per frame, Engine.Update dispatches everything
// buffered since the last frame to a realtime mixer and reads playback
// state back, so queries in between are cheap and stable.
//
// A minimal session:
//
//	engine, err := audial.New(audial.Config{})
//	if err != nil {
//		// no output device
//	}
//	defer engine.Close()
//
//	shot := engine.Load("sfx/shot.ogg")
//	id := engine.Main().Play(shot).WithVolume(0.8).Submit()
//
//	for running {
//		engine.Update() // once per game tick
//		if engine.Main().State(id).Phase == audial.Stopped {
//			// finished
//		}
//	}
//
// Channels group instances that are controlled together: stopping,
// pausing, or fading a channel affects everything playing on it, and the
// channel remembers volume, panning, rate, and paused state for plays
// that come later. Typed channels are keyed by marker types through
// AddChannel; dynamic channels are keyed by strings through
// CreateChannel.
//
// Commands submitted to a channel never reach the mixer out of order. A
// play whose source file is still decoding holds the channel's queue
// until the decode settles; commands behind it wait rather than
// overtake. Instances obtained through Engine.Instance bypass the frame
// buffer entirely for latency-sensitive control.
//
// Decoding is pluggable. Blank-import the codec packages for the
// formats a game ships with:
//
//	import (
//		_ "github.com/aldermoor/audial/loaders/mp3"
//		_ "github.com/aldermoor/audial/loaders/vorbis"
//		_ "github.com/aldermoor/audial/loaders/wav"
//	)
//
// A settings document next to an audio file (shot.ogg.json next to
// shot.ogg) supplies per-source playback defaults without touching game
// code; see the loaders/settings package.
package audial
