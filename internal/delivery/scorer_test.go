package delivery

import (
	"testing"

	"github.com/nikhilbhutani/emcoach/internal/acoustic"
)

func TestLabelVolumeBoundaries(t *testing.T) {
	tests := []struct {
		rms  float64
		want VolumeLabel
	}{
		{0, VolumeQuiet},
		{0.0299, VolumeQuiet},
		{0.03, VolumeModerate},
		{0.0699, VolumeModerate},
		{0.07, VolumeStrong},
		{0.5, VolumeStrong},
	}
	for _, tt := range tests {
		if got := LabelVolume(tt.rms); got != tt.want {
			t.Errorf("LabelVolume(%v) = %q, want %q", tt.rms, got, tt.want)
		}
	}
}

func TestJudgeIntonationTiers(t *testing.T) {
	tests := []struct {
		std  float64
		want Intonation
	}{
		{0, IntonationFlat},
		{19.99, IntonationFlat},
		{20, IntonationDecent},
		{34.9, IntonationDecent},
		{35, IntonationExpressive},
		{120, IntonationExpressive},
	}
	for _, tt := range tests {
		if got := JudgeIntonation(tt.std); got != tt.want {
			t.Errorf("JudgeIntonation(%v) = %v, want %v", tt.std, got, tt.want)
		}
	}
}

func TestScoreFormula(t *testing.T) {
	tests := []struct {
		name string
		fs   acoustic.FeatureSet
		want float64
	}{
		{"floor", acoustic.FeatureSet{PitchMean: acoustic.FallbackPitchMean}, 2.0},
		{"ceiling", acoustic.FeatureSet{MeanRMS: 0.5, PitchStd: 100}, 10.0},
		// volume 0.1*40=4, variation 42/7=6 -> 1.6+3.6
		{"mid", acoustic.FeatureSet{MeanRMS: 0.1, PitchStd: 42}, 5.2},
		// volume clipped to 2, variation 28/7=4 -> 0.8+2.4
		{"quiet but varied", acoustic.FeatureSet{MeanRMS: 0.01, PitchStd: 28}, 3.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.fs).OverallScore; got != tt.want {
				t.Errorf("OverallScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreIsMonotonic(t *testing.T) {
	var rmsSteps, stdSteps []float64
	for i := 0; i <= 60; i++ {
		rmsSteps = append(rmsSteps, float64(i)*0.005)
		stdSteps = append(stdSteps, float64(i)*1.5)
	}

	for _, std := range stdSteps {
		prev := -1.0
		for _, rms := range rmsSteps {
			got := Score(acoustic.FeatureSet{MeanRMS: rms, PitchStd: std}).OverallScore
			if got < prev {
				t.Fatalf("score decreased in rms at rms=%v std=%v: %v < %v", rms, std, got, prev)
			}
			prev = got
		}
	}
	for _, rms := range rmsSteps {
		prev := -1.0
		for _, std := range stdSteps {
			got := Score(acoustic.FeatureSet{MeanRMS: rms, PitchStd: std}).OverallScore
			if got < prev {
				t.Fatalf("score decreased in pitch std at rms=%v std=%v: %v < %v", rms, std, got, prev)
			}
			prev = got
		}
	}
}

func TestScoreDebugRounding(t *testing.T) {
	sc := Score(acoustic.FeatureSet{MeanRMS: 0.123456, PitchStd: 27.345, PitchMean: 181.26})
	if sc.DebugRMS != 0.1235 || sc.DebugPitchStd != 27.3 || sc.DebugPitchMean != 181.3 {
		t.Errorf("debug = (%v, %v, %v)", sc.DebugRMS, sc.DebugPitchStd, sc.DebugPitchMean)
	}
}

func TestIntonationMessagesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, i := range []Intonation{IntonationFlat, IntonationDecent, IntonationExpressive} {
		if seen[i.Message()] {
			t.Errorf("duplicate message for %v", i)
		}
		seen[i.Message()] = true
	}
}

func TestRoundToHalfEven(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{0.25, 1, 0.2},
		{0.75, 1, 0.8},
		{0.35, 1, 0.3},
		{0.45, 1, 0.5},
		{2.675, 2, 2.67},
		{-0.25, 1, -0.2},
		{118.05, 1, 118.0},
		{0.04255, 4, 0.0425},
		{7, 1, 7},
	}
	for _, tt := range tests {
		if got := roundTo(tt.v, tt.places); got != tt.want {
			t.Errorf("roundTo(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}
