// Package acoustic extracts short-time energy and pitch statistics from a
// mono waveform.
package acoustic

import "gonum.org/v1/gonum/stat"

const (
	// FrameLength is the analysis frame length in samples for energy and pitch.
	FrameLength = 2048
	// HopLength is the distance between consecutive frames in samples.
	HopLength = 512

	FMin = 50.0
	FMax = 400.0

	// FallbackPitchMean is reported when no frame is voiced. It is a
	// placeholder, not a measurement.
	FallbackPitchMean = 120.0
)

// FeatureSet summarizes one analyzed span.
type FeatureSet struct {
	MeanRMS      float64 `json:"mean_rms"`
	PitchStd     float64 `json:"pitch_std"`
	PitchMean    float64 `json:"pitch_mean"`
	VoicedFrames int     `json:"voiced_frames"`
}

// Measured reports whether the pitch statistics come from voiced frames
// rather than the fallback values.
func (f FeatureSet) Measured() bool { return f.VoicedFrames > 0 }

// Extract computes the FeatureSet of samples recorded at sampleRate. It never
// fails: spans too short or too quiet to track pitch report PitchStd 0 and
// PitchMean FallbackPitchMean.
func Extract(samples []float64, sampleRate int) FeatureSet {
	fs := FeatureSet{
		MeanRMS:   MeanRMS(samples),
		PitchMean: FallbackPitchMean,
	}

	voiced := voicedOnly(NewYIN(sampleRate).Track(samples))
	if len(voiced) == 0 {
		return fs
	}

	// population std, matching numpy's default
	fs.PitchMean, fs.PitchStd = stat.PopMeanStdDev(voiced, nil)
	fs.VoicedFrames = len(voiced)
	return fs
}

func voicedOnly(f0 []float64) []float64 {
	out := make([]float64, 0, len(f0))
	for _, v := range f0 {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}
