package audial_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/tools/godoc/vfs/mapfs"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/assets"
	"github.com/aldermoor/audial/mixer"
)

// clipLoader yields one-second DC 1.0 stereo clips at 48kHz. A numeric
// file body overrides the frame count; the body "fail" refuses to
// decode.
type clipLoader struct{}

func (clipLoader) Load(ctx *assets.Context) (*audial.Source, error) {
	body := strings.TrimSpace(string(ctx.Data))
	if body == "fail" {
		return nil, errors.New("synthetic decode failure")
	}
	frames := 48000
	if n, err := strconv.Atoi(body); err == nil && n > 0 {
		frames = n
	}
	return dcSource(frames), nil
}

func dcSource(frames int) *audial.Source {
	samples := make([]float32, frames*2)
	for i := range samples {
		samples[i] = 1
	}
	return audial.NewSource(samples, 48000)
}

func init() {
	audial.RegisterLoader(clipLoader{}, "clip")
}

// gateLoader blocks every load until released, to hold assets in the
// Loading state for as long as a test needs.
type gateLoader struct {
	gate chan struct{}
	once sync.Once
}

func (g *gateLoader) release() { g.once.Do(func() { close(g.gate) }) }

func (g *gateLoader) Load(ctx *assets.Context) (*audial.Source, error) {
	<-g.gate
	return dcSource(4800), nil
}

var gateSeq atomic.Int64

// newGate registers a gated loader under an extension unique to the
// test. Tests must defer release so engine shutdown cannot hang on the
// pending load.
func newGate(t *testing.T) (ext string, release func()) {
	t.Helper()
	g := &gateLoader{gate: make(chan struct{})}
	ext = fmt.Sprintf("gate%d", gateSeq.Add(1))
	audial.RegisterLoader(g, ext)
	return ext, g.release
}

func newTestEngine(t *testing.T, files map[string]string, cfg audial.Config) (*audial.Engine, *mixer.MockBackend) {
	t.Helper()
	backend := &mixer.MockBackend{}
	cfg.Backend = backend
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	cfg.FS = mapfs.New(files)
	e, err := audial.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := e.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return e, backend
}

func loadReady(t *testing.T, e *audial.Engine, path string) *audial.SourceHandle {
	t.Helper()
	h := e.Load(path)
	e.WaitForLoads()
	if h.Status() != assets.Loaded {
		t.Fatalf("load %s: status %v, err %v", path, h.Status(), h.Err())
	}
	return h
}

func waitStatus(t *testing.T, h *audial.SourceHandle, want assets.Status) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.Status() != want {
		if time.Now().After(deadline) {
			t.Fatalf("asset %s stuck at %v, want %v (err %v)", h.Path(), h.Status(), want, h.Err())
		}
		time.Sleep(time.Millisecond)
	}
}

// lastFrame returns the final left/right pair of a rendered block.
func lastFrame(buf []float32) (l, r float32) {
	return buf[len(buf)-2], buf[len(buf)-1]
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 0.02 }

func TestPlayIsDeferredUntilUpdate(t *testing.T) {
	e, backend := newTestEngine(t, map[string]string{"a.clip": ""}, audial.Config{})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	id := ch.Play(h).Submit()
	if got := ch.State(id).Phase; got != audial.Queued {
		t.Fatalf("phase before Update = %v, want queued", got)
	}
	if _, ok := e.Instance(id); ok {
		t.Fatal("instance registered before Update")
	}
	if ch.IsPlayingSound() {
		t.Fatal("IsPlayingSound true before Update")
	}
	buf := backend.Process(480)
	if l, r := lastFrame(buf); l != 0 || r != 0 {
		t.Fatalf("mixer produced sound before Update: %v %v", l, r)
	}

	e.Update()
	if got := ch.State(id).Phase; got != audial.Playing {
		t.Fatalf("phase after Update = %v, want playing", got)
	}
	if _, ok := e.Instance(id); !ok {
		t.Fatal("instance missing after Update")
	}
	if !ch.IsPlayingSound() {
		t.Fatal("IsPlayingSound false after Update")
	}
	buf = backend.Process(480)
	if l, r := lastFrame(buf); !near(l, 1) || !near(r, 1) {
		t.Fatalf("rendered %v %v, want the clip", l, r)
	}
}

func TestLoadingPlayBlocksLaterCommands(t *testing.T) {
	ext, release := newGate(t)
	defer release()
	e, _ := newTestEngine(t, map[string]string{
		"slow." + ext: "",
		"fast.clip":   "",
	}, audial.Config{})
	ch := e.Main()
	slow := e.Load("slow." + ext)
	fast := e.Load("fast.clip")
	waitStatus(t, fast, assets.Loaded)

	slowID := ch.Play(slow).Submit()
	fastID := ch.Play(fast).Submit()
	e.Update()
	if got := ch.State(slowID).Phase; got != audial.Queued {
		t.Fatalf("loading play phase = %v, want queued", got)
	}
	if got := ch.State(fastID).Phase; got != audial.Queued {
		t.Fatalf("later play overtook a loading one: phase = %v", got)
	}

	release()
	waitStatus(t, slow, assets.Loaded)
	e.Update()
	if got := ch.State(slowID).Phase; got != audial.Playing {
		t.Fatalf("phase after load = %v, want playing", got)
	}
	if got := ch.State(fastID).Phase; got != audial.Playing {
		t.Fatalf("queued follower phase = %v, want playing", got)
	}
}

func TestFailedSourceDropsPlay(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"bad.clip": "fail",
		"ok.clip":  "",
	}, audial.Config{})
	ch := e.Main()
	bad := e.Load("bad.clip")
	waitStatus(t, bad, assets.Failed)
	ok := loadReady(t, e, "ok.clip")

	badID := ch.Play(bad).Submit()
	okID := ch.Play(ok).Submit()
	e.Update()
	if got := ch.State(badID).Phase; got != audial.Stopped {
		t.Fatalf("failed play phase = %v, want stopped", got)
	}
	if _, found := e.Instance(badID); found {
		t.Fatal("failed play left an instance behind")
	}
	if got := ch.State(okID).Phase; got != audial.Playing {
		t.Fatalf("play behind a dropped one did not dispatch: phase = %v", got)
	}
}

func TestStopFadesOut(t *testing.T) {
	e, backend := newTestEngine(t, map[string]string{"a.clip": ""}, audial.Config{})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	id := ch.Play(h).Submit()
	e.Update()
	backend.Process(100)

	ch.Stop().WithTween(audial.Tween{Duration: 10 * time.Millisecond}).Submit()
	e.Update()
	backend.Process(240)
	e.Update()
	if got := ch.State(id).Phase; got != audial.Stopping {
		t.Fatalf("phase mid-fade = %v, want stopping", got)
	}
	if !ch.IsPlayingSound() {
		t.Fatal("IsPlayingSound false while stopping")
	}

	backend.Process(480)
	e.Update()
	if got := ch.State(id).Phase; got != audial.Stopped {
		t.Fatalf("phase after fade = %v, want stopped", got)
	}
	if ch.IsPlayingSound() {
		t.Fatal("IsPlayingSound true after stop completed")
	}
}

func TestStoppedStateRetainedOneFrame(t *testing.T) {
	e, backend := newTestEngine(t, map[string]string{"a.clip": ""}, audial.Config{})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	id := ch.Play(h).Submit()
	e.Update()
	ch.Stop().WithTween(audial.Tween{}).Submit()
	e.Update()
	backend.Process(16)

	e.Update()
	if got := ch.State(id).Phase; got != audial.Stopped {
		t.Fatalf("phase = %v, want stopped", got)
	}
	if _, ok := e.Instance(id); !ok {
		t.Fatal("instance dropped before the retention frame")
	}

	e.Update()
	if _, ok := e.Instance(id); ok {
		t.Fatal("instance still registered after the retention frame")
	}
	if got := ch.State(id).Phase; got != audial.Stopped {
		t.Fatalf("phase after retention = %v, want stopped", got)
	}
}

func TestPauseFreezesAndResumeContinues(t *testing.T) {
	e, backend := newTestEngine(t, map[string]string{"a.clip": ""}, audial.Config{})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	id := ch.Play(h).Submit()
	e.Update()
	backend.Process(480)

	ch.Pause().WithTween(audial.Tween{}).Submit()
	e.Update()
	backend.Process(16)
	e.Update()
	st := ch.State(id)
	if st.Phase != audial.Paused {
		t.Fatalf("phase = %v, want paused", st.Phase)
	}
	frozen := st.Position
	backend.Process(1000)
	e.Update()
	if got := ch.State(id).Position; got != frozen {
		t.Fatalf("paused position moved from %v to %v", frozen, got)
	}

	ch.Resume().WithTween(audial.Tween{}).Submit()
	e.Update()
	backend.Process(480)
	e.Update()
	st = ch.State(id)
	if st.Phase != audial.Playing {
		t.Fatalf("phase after resume = %v, want playing", st.Phase)
	}
	if st.Position <= frozen {
		t.Fatalf("position did not advance after resume: %v", st.Position)
	}
}

func TestVoiceCapacityDropsPlay(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{"a.clip": ""}, audial.Config{VoiceCapacity: 1})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	first := ch.Play(h).Submit()
	second := ch.Play(h).Submit()
	e.Update()
	if got := ch.State(first).Phase; got != audial.Playing {
		t.Fatalf("first play phase = %v, want playing", got)
	}
	if got := ch.State(second).Phase; got != audial.Stopped {
		t.Fatalf("play beyond capacity phase = %v, want stopped", got)
	}
	if _, found := e.Instance(second); found {
		t.Fatal("dropped play left an instance behind")
	}
}

func TestManyPlaysOneFrame(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{"a.clip": "100"}, audial.Config{})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	ids := make([]audial.InstanceID, 100)
	for i := range ids {
		ids[i] = ch.Play(h).Submit()
	}
	e.Update()
	for i, id := range ids {
		if got := ch.State(id).Phase; got != audial.Playing {
			t.Fatalf("play %d phase = %v, want playing", i, got)
		}
	}
}

func TestPlaysBeyondCapacityAreAbsent(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{"a.clip": "100"}, audial.Config{VoiceCapacity: 64})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	ids := make([]audial.InstanceID, 100)
	for i := range ids {
		ids[i] = ch.Play(h).Submit()
	}
	e.Update()
	playing, dropped := 0, 0
	for _, id := range ids {
		switch got := ch.State(id).Phase; got {
		case audial.Playing:
			playing++
		case audial.Stopped:
			dropped++
		default:
			t.Fatalf("unexpected phase %v", got)
		}
	}
	if playing != 64 || dropped != 36 {
		t.Fatalf("playing = %d, dropped = %d; want exactly the capacity and the rest", playing, dropped)
	}
}

func TestConcurrentSubmission(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{"a.clip": "100"},
		audial.Config{VoiceCapacity: 256, CommandCapacity: 256})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	const producers, each = 8, 25
	ids := make(chan audial.InstanceID, producers*each)
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				ids <- ch.Play(h).Submit()
			}
		}()
	}
	wg.Wait()
	close(ids)
	e.Update()
	for id := range ids {
		if got := ch.State(id).Phase; got != audial.Playing {
			t.Fatalf("phase = %v, want playing", got)
		}
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	type gunfire struct{}
	type chatter struct{}
	e, backend := newTestEngine(t, map[string]string{"a.clip": ""}, audial.Config{})
	chA := audial.AddChannel[gunfire](e)
	chB := audial.AddChannel[chatter](e)
	h := loadReady(t, e, "a.clip")

	idA := chA.Play(h).Submit()
	idB := chB.Play(h).Submit()
	e.Update()

	chA.Stop().WithTween(audial.Tween{}).Submit()
	e.Update()
	backend.Process(16)
	e.Update()
	if got := chA.State(idA).Phase; got != audial.Stopped {
		t.Fatalf("stopped channel instance phase = %v, want stopped", got)
	}
	if got := chB.State(idB).Phase; got != audial.Playing {
		t.Fatalf("stop leaked across channels: phase = %v, want playing", got)
	}
}

func TestConfigLoggerReceivesWarnings(t *testing.T) {
	var buf bytes.Buffer
	e, _ := newTestEngine(t, map[string]string{"bad.clip": "fail"},
		audial.Config{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	ch := e.Main()
	bad := e.Load("bad.clip")
	e.WaitForLoads()

	ch.Play(bad).Submit()
	e.Update()
	if !strings.Contains(buf.String(), "failed source") {
		t.Fatalf("warning did not reach the configured logger, got %q", buf.String())
	}
}

func TestInstanceDirectControl(t *testing.T) {
	e, backend := newTestEngine(t, map[string]string{"a.clip": ""}, audial.Config{})
	ch := e.Main()
	h := loadReady(t, e, "a.clip")

	id := ch.Play(h).Submit()
	e.Update()
	inst, ok := e.Instance(id)
	if !ok {
		t.Fatal("instance missing after Update")
	}
	if err := inst.SetVolume(0.25, audial.Tween{}); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	buf := backend.Process(480)
	if l, r := lastFrame(buf); !near(l, 0.25) || !near(r, 0.25) {
		t.Fatalf("rendered %v %v, want 0.25", l, r)
	}

	if err := inst.SeekTo(500 * time.Millisecond); err != nil {
		t.Fatalf("SeekTo: %v", err)
	}
	backend.Process(16)
	got := inst.Position()
	if got < 500*time.Millisecond || got > 505*time.Millisecond {
		t.Fatalf("position after seek = %v, want about 500ms", got)
	}
}

func TestLoopedPlayKeepsPlaying(t *testing.T) {
	e, backend := newTestEngine(t, map[string]string{"short.clip": "100"}, audial.Config{})
	ch := e.Main()
	h := loadReady(t, e, "short.clip")

	id := ch.Play(h).Looped().Submit()
	e.Update()
	backend.Process(4800)
	e.Update()
	if got := ch.State(id).Phase; got != audial.Playing {
		t.Fatalf("looped play phase = %v, want playing", got)
	}

	plain := ch.Play(h).Submit()
	e.Update()
	backend.Process(4800)
	e.Update()
	if got := ch.State(plain).Phase; got != audial.Stopped {
		t.Fatalf("plain play phase = %v, want stopped", got)
	}
}

func TestAddChannelReturnsSameChannelPerMarker(t *testing.T) {
	type music struct{}
	type effects struct{}
	e, _ := newTestEngine(t, nil, audial.Config{})

	m1 := audial.AddChannel[music](e)
	m2 := audial.AddChannel[music](e)
	if m1 != m2 {
		t.Fatal("same marker produced different channels")
	}
	if m1 == audial.AddChannel[effects](e) {
		t.Fatal("different markers share a channel")
	}
	if m1 == e.Main() {
		t.Fatal("marker channel aliases the main channel")
	}
	if e.Main() != audial.AddChannel[audial.MainTrack](e) {
		t.Fatal("Main does not use the MainTrack marker")
	}
}
