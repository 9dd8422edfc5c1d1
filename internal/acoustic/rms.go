package acoustic

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RMSFrames returns the root-mean-square energy of each centered frame.
// The signal is zero-padded by FrameLength/2 on both sides, so a signal of n
// samples yields 1 + n/HopLength frames.
func RMSFrames(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}

	pad := FrameLength / 2
	padded := make([]float64, len(samples)+2*pad)
	copy(padded[pad:], samples)

	n := 1 + (len(padded)-FrameLength)/HopLength
	out := make([]float64, n)
	for i := range n {
		frame := padded[i*HopLength : i*HopLength+FrameLength]
		out[i] = math.Sqrt(floats.Dot(frame, frame) / FrameLength)
	}
	return out
}

// MeanRMS averages RMSFrames. An empty signal has zero energy.
func MeanRMS(samples []float64) float64 {
	frames := RMSFrames(samples)
	if len(frames) == 0 {
		return 0
	}
	return floats.Sum(frames) / float64(len(frames))
}
