package acoustic

import (
	"math"
	"testing"
)

// tone synthesizes a phase-continuous sine whose frequency follows freqs,
// one entry per second.
func tone(sampleRate int, amp float64, freqs ...float64) []float64 {
	out := make([]float64, 0, sampleRate*len(freqs))
	var phase float64
	for _, f := range freqs {
		step := 2 * math.Pi * f / float64(sampleRate)
		for range sampleRate {
			out = append(out, amp*math.Sin(phase))
			phase += step
		}
	}
	return out
}

func TestExtractSilenceUsesFallback(t *testing.T) {
	fs := Extract(make([]float64, 3*16000), 16000)

	if fs.MeanRMS != 0 {
		t.Errorf("MeanRMS = %v, want 0", fs.MeanRMS)
	}
	if fs.PitchStd != 0 || fs.PitchMean != FallbackPitchMean {
		t.Errorf("pitch = (%v, %v), want (0, %v)", fs.PitchStd, fs.PitchMean, FallbackPitchMean)
	}
	if fs.Measured() {
		t.Error("silent clip reported as measured")
	}
}

func TestExtractShorterThanFrame(t *testing.T) {
	samples := tone(16000, 0.5, 200)[:FrameLength-1]

	fs := Extract(samples, 16000)
	if fs.PitchStd != 0 || fs.PitchMean != FallbackPitchMean || fs.VoicedFrames != 0 {
		t.Errorf("got %+v, want fallback pitch", fs)
	}
	if fs.MeanRMS <= 0 {
		t.Errorf("MeanRMS = %v, want > 0", fs.MeanRMS)
	}
}

func TestExtractEmpty(t *testing.T) {
	fs := Extract(nil, 16000)
	if fs.MeanRMS != 0 || fs.PitchStd != 0 || fs.PitchMean != FallbackPitchMean {
		t.Errorf("got %+v", fs)
	}
}

func TestExtractSteadyTone(t *testing.T) {
	for _, sr := range []int{16000, 22050, 44100} {
		fs := Extract(tone(sr, 0.5, 200, 200), sr)

		if !fs.Measured() {
			t.Fatalf("sr=%d: no voiced frames", sr)
		}
		if math.Abs(fs.PitchMean-200) > 2 {
			t.Errorf("sr=%d: PitchMean = %v, want ~200", sr, fs.PitchMean)
		}
		if fs.PitchStd > 2 {
			t.Errorf("sr=%d: PitchStd = %v, want ~0", sr, fs.PitchStd)
		}
	}
}

func TestExtractPitchVariation(t *testing.T) {
	fs := Extract(tone(16000, 0.5, 150, 250), 16000)

	if math.Abs(fs.PitchMean-200) > 15 {
		t.Errorf("PitchMean = %v, want ~200", fs.PitchMean)
	}
	if fs.PitchStd < 35 || fs.PitchStd > 70 {
		t.Errorf("PitchStd = %v, want ~50", fs.PitchStd)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	samples := tone(16000, 0.3, 180, 220, 140)
	a := Extract(samples, 16000)
	b := Extract(samples, 16000)
	if a != b {
		t.Errorf("Extract not deterministic: %+v vs %+v", a, b)
	}
}

func TestRMSFrames(t *testing.T) {
	samples := make([]float64, 4096)
	for i := range samples {
		samples[i] = 0.5
	}

	frames := RMSFrames(samples)
	if want := 1 + len(samples)/HopLength; len(frames) != want {
		t.Fatalf("frames = %d, want %d", len(frames), want)
	}
	// first frame is half padding
	if got, want := frames[0], math.Sqrt(0.125); math.Abs(got-want) > 1e-12 {
		t.Errorf("frames[0] = %v, want %v", got, want)
	}
	if got := frames[len(frames)/2]; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("middle frame = %v, want 0.5", got)
	}
}

func TestMeanRMSOfLongConstant(t *testing.T) {
	samples := make([]float64, 160000)
	for i := range samples {
		samples[i] = 0.5
	}
	if got := MeanRMS(samples); math.Abs(got-0.5) > 0.01 {
		t.Errorf("MeanRMS = %v, want ~0.5", got)
	}
}

func TestYINUnsupportedRate(t *testing.T) {
	if f0 := NewYIN(0).Track(make([]float64, 4*FrameLength)); f0 != nil {
		t.Errorf("Track with zero sample rate = %v, want nil", f0)
	}
}
