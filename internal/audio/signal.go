package audio

import "math"

// Signal is a mono waveform at its native sample rate.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the length of the signal in seconds.
func (s *Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Peak returns the maximum absolute sample value.
func (s *Signal) Peak() float64 {
	return peak(s.Samples)
}

// Normalize scales the samples in place so the peak absolute amplitude is 1.
// A fully silent signal is left unchanged.
func (s *Signal) Normalize() {
	p := peak(s.Samples)
	if p == 0 {
		return
	}
	for i := range s.Samples {
		s.Samples[i] /= p
	}
}

// Slice returns the samples between start and end seconds. Indices are
// rounded and clamped to the signal bounds; the result is empty when the
// clamped range is empty. The returned slice shares memory with the signal.
func (s *Signal) Slice(start, end float64) []float64 {
	n := len(s.Samples)
	i := clampIndex(math.Round(start*float64(s.SampleRate)), n)
	j := clampIndex(math.Round(end*float64(s.SampleRate)), n)
	if i >= j {
		return nil
	}
	return s.Samples[i:j]
}

func clampIndex(v float64, n int) int {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > float64(n):
		return n
	}
	return int(v)
}

func peak(samples []float64) float64 {
	var p float64
	for _, v := range samples {
		if a := math.Abs(v); a > p {
			p = a
		}
	}
	return p
}
