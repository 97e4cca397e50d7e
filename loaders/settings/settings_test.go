package settings_test

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/tools/godoc/vfs/mapfs"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/assets"
	"github.com/aldermoor/audial/loaders/settings"
)

// rawLoader stands in for a codec: any file decodes to a short silent
// stereo source at 48kHz.
type rawLoader struct{}

func (rawLoader) Load(ctx *assets.Context) (*audial.Source, error) {
	return audial.NewSource(make([]float32, 2*480), 48000), nil
}

func init() {
	audial.RegisterLoader(rawLoader{}, "rawpcm")
}

// jsonLoader adapts the settings loader to a store of its own, the same
// wiring the engine does through the loader registry.
type jsonLoader struct{ settings.Loader }

func (jsonLoader) Extensions() []string { return []string{"json"} }

func load(t *testing.T, files map[string]string, path string) (*audial.Source, error) {
	t.Helper()
	store := assets.NewStore(mapfs.New(files), []assets.Loader[*audial.Source]{jsonLoader{}}, 1)
	defer store.Close()
	h := store.Load(path)
	store.Wait()
	if src, ok := h.Get(); ok {
		return src, nil
	}
	return nil, h.Err()
}

func TestAppliesDefaults(t *testing.T) {
	src, err := load(t, map[string]string{
		"a.rawpcm": "pcm",
		"a.rawpcm.json": `{
			"file": "a.rawpcm",
			"volume": 0.5,
			"panning": 0.25,
			"playback_rate": 1.5,
			"reverse": true,
			"start_position": 0.25,
			"loop_start": 1.5,
			"fade_in_us": 20000
		}`,
	}, "a.rawpcm.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := src.Defaults
	if def.Volume != 0.5 || def.Panning != 0.25 || def.PlaybackRate != 1.5 {
		t.Fatalf("levels = %+v", def)
	}
	if !def.Reverse {
		t.Fatal("reverse not applied")
	}
	if def.StartPosition != 250*time.Millisecond {
		t.Fatalf("start position = %v, want 250ms", def.StartPosition)
	}
	if !def.Loop || def.LoopStart != 1500*time.Millisecond {
		t.Fatalf("loop = %v from %v, want looping from 1.5s", def.Loop, def.LoopStart)
	}
	if def.FadeIn != 20*time.Millisecond {
		t.Fatalf("fade in = %v, want 20ms", def.FadeIn)
	}
}

func TestUntouchedFieldsKeepDefaults(t *testing.T) {
	src, err := load(t, map[string]string{
		"a.rawpcm":      "pcm",
		"a.rawpcm.json": `{"file": "a.rawpcm", "volume": 0.7}`,
	}, "a.rawpcm.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := src.Defaults
	if def.Volume != 0.7 {
		t.Fatalf("volume = %v, want 0.7", def.Volume)
	}
	if def.Panning != 0.5 || def.PlaybackRate != 1 || def.Loop || def.Reverse {
		t.Fatalf("untouched fields changed: %+v", def)
	}
}

func TestZeroVolumeIsRespected(t *testing.T) {
	src, err := load(t, map[string]string{
		"a.rawpcm":      "pcm",
		"a.rawpcm.json": `{"file": "a.rawpcm", "volume": 0}`,
	}, "a.rawpcm.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Defaults.Volume != 0 {
		t.Fatalf("volume = %v, want explicit 0", src.Defaults.Volume)
	}
}

func TestSiblingResolvedInSameDirectory(t *testing.T) {
	src, err := load(t, map[string]string{
		"music/a.rawpcm":      "pcm",
		"music/a.rawpcm.json": `{"file": "a.rawpcm"}`,
	}, "music/a.rawpcm.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src == nil {
		t.Fatal("no source")
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	_, err := load(t, map[string]string{
		"a.rawpcm":      "pcm",
		"a.rawpcm.json": `{"file": "a.rawpcm", "pitch": 2}`,
	}, "a.rawpcm.json")
	if err == nil {
		t.Fatal("unknown field accepted")
	}
}

func TestMissingFileField(t *testing.T) {
	_, err := load(t, map[string]string{"a.json": `{"volume": 1}`}, "a.json")
	if err == nil {
		t.Fatal("document without file accepted")
	}
}

func TestMissingSibling(t *testing.T) {
	_, err := load(t, map[string]string{"a.json": `{"file": "gone.rawpcm"}`}, "a.json")
	if err == nil {
		t.Fatal("missing referenced file accepted")
	}
}

func TestUnknownInnerExtension(t *testing.T) {
	_, err := load(t, map[string]string{
		"a.xyz":  "entirely mysterious",
		"a.json": `{"file": "a.xyz"}`,
	}, "a.json")
	if !errors.Is(err, assets.ErrUnknownExtension) {
		t.Fatalf("err = %v, want ErrUnknownExtension", err)
	}
}

func TestLoaderRegistered(t *testing.T) {
	if _, ok := audial.LoaderFor("json"); !ok {
		t.Fatal("json extension not registered")
	}
}
