package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, path string, data []int, sampleRate, channels int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func TestLoadNormalizesPeak(t *testing.T) {
	tests := []struct {
		name     string
		data     []int
		wantPeak float64
	}{
		{"quiet tone", []int{0, 1000, -2000, 500, -100}, 1},
		{"negative peak", []int{10, -30000, 20}, 1},
		{"silent", []int{0, 0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "clip.wav")
			writeWAV(t, path, tt.data, 16000, 1)

			sig, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if sig.SampleRate != 16000 {
				t.Errorf("sample rate = %d, want 16000", sig.SampleRate)
			}
			if len(sig.Samples) != len(tt.data) {
				t.Fatalf("samples = %d, want %d", len(sig.Samples), len(tt.data))
			}
			if got := sig.Peak(); got != tt.wantPeak {
				t.Errorf("peak = %v, want %v", got, tt.wantPeak)
			}
		})
	}
}

func TestLoadDownmixesStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	// left/right interleaved
	writeWAV(t, path, []int{1000, 3000, -2000, -2000}, 8000, 2)

	sig, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sig.Samples) != 2 {
		t.Fatalf("frames = %d, want 2", len(sig.Samples))
	}
	// means are 2000 and -2000, so after normalization 1 and -1
	if math.Abs(sig.Samples[0]-1) > 1e-12 || math.Abs(sig.Samples[1]+1) > 1e-12 {
		t.Errorf("samples = %v, want [1 -1]", sig.Samples)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "notes.wav")
	if err := os.WriteFile(garbage, []byte("definitely not riff data"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.wav"), garbage} {
		_, err := Load(path)
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("Load(%s) error = %v, want *LoadError", path, err)
		}
		if loadErr.Path != path {
			t.Errorf("LoadError.Path = %q, want %q", loadErr.Path, path)
		}
	}
}

func TestDecodeFromReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeWAV(t, path, []int{0, 16000, -8000}, 22050, 1)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sig, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if sig.Peak() != 1 {
		t.Errorf("peak = %v, want 1", sig.Peak())
	}
}

func writeFloatWAV(t *testing.T, path string, samples []float32, sampleRate, bitDepth int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(int32(math.Float32bits(v)))
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 3)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func TestLoadFloatWAV(t *testing.T) {
	const sr = 16000
	in := make([]float32, sr/10)
	for i := range in {
		in[i] = float32(0.5 * math.Sin(2*math.Pi*200*float64(i)/sr))
	}
	var peak float64
	for _, v := range in {
		peak = math.Max(peak, math.Abs(float64(v)))
	}

	path := filepath.Join(t.TempDir(), "float.wav")
	writeFloatWAV(t, path, in, sr, 32)

	sig, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sig.Samples) != len(in) {
		t.Fatalf("samples = %d, want %d", len(sig.Samples), len(in))
	}
	for i, v := range in {
		want := float64(v) / peak
		if math.Abs(sig.Samples[i]-want) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v", i, sig.Samples[i], want)
		}
	}
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alaw.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	// format 6 is A-law
	enc := wav.NewEncoder(f, 8000, 8, 1, 6)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           []int{1, 2, 3, 4},
		SourceBitDepth: 8,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load error = %v, want *LoadError", err)
	}
}
