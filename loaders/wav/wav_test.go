package wav_test

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/loaders/wav"
)

// wavBytes builds a minimal 16-bit PCM RIFF file in memory.
func wavBytes(rate, channels int, frames []int16) []byte {
	dataSize := len(frames) * 2
	var out []byte
	u32 := func(v int) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v))
		return b
	}
	u16 := func(v int) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v))
		return b
	}
	out = append(out, "RIFF"...)
	out = append(out, u32(36+dataSize)...)
	out = append(out, "WAVE"...)
	out = append(out, "fmt "...)
	out = append(out, u32(16)...)
	out = append(out, u16(1)...) // linear PCM
	out = append(out, u16(channels)...)
	out = append(out, u32(rate)...)
	out = append(out, u32(rate*channels*2)...)
	out = append(out, u16(channels*2)...)
	out = append(out, u16(16)...)
	out = append(out, "data"...)
	out = append(out, u32(dataSize)...)
	for _, s := range frames {
		out = append(out, u16(int(uint16(s)))...)
	}
	return out
}

func TestDecodeStereo(t *testing.T) {
	src, err := wav.Decode(wavBytes(44100, 2, []int16{16384, -16384, 0, 32767}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if src.SampleRate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", src.SampleRate)
	}
	if src.Frames() != 2 {
		t.Fatalf("frames = %d, want 2", src.Frames())
	}
	if math.Abs(float64(src.Samples[0])-0.5) > 0.001 {
		t.Fatalf("sample 0 = %v, want 0.5", src.Samples[0])
	}
	if math.Abs(float64(src.Samples[1])+0.5) > 0.001 {
		t.Fatalf("sample 1 = %v, want -0.5", src.Samples[1])
	}
}

func TestDecodeMonoWidensToStereo(t *testing.T) {
	src, err := wav.Decode(wavBytes(22050, 1, []int16{8192, -8192}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if src.SampleRate != 22050 {
		t.Fatalf("sample rate = %d, want 22050", src.SampleRate)
	}
	if src.Frames() != 2 {
		t.Fatalf("frames = %d, want 2", src.Frames())
	}
	for i := 0; i < src.Frames(); i++ {
		if src.Samples[2*i] != src.Samples[2*i+1] {
			t.Fatalf("frame %d not centered: %v %v", i, src.Samples[2*i], src.Samples[2*i+1])
		}
	}
}

func TestDecodeRejectsSurround(t *testing.T) {
	_, err := wav.Decode(wavBytes(44100, 3, []int16{0, 0, 0}))
	if !errors.Is(err, audial.ErrUnsupportedChannels) {
		t.Fatalf("err = %v, want ErrUnsupportedChannels", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := wav.Decode([]byte("definitely not a riff file")); err == nil {
		t.Fatal("garbage decoded without error")
	}
}

func TestLoaderRegistered(t *testing.T) {
	if _, ok := audial.LoaderFor("wav"); !ok {
		t.Fatal("wav extension not registered")
	}
	if _, ok := audial.LoaderFor(".WAV"); !ok {
		t.Fatal("extension lookup should ignore case and dots")
	}
}
