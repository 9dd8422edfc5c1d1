package acoustic

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	yinWindow    = FrameLength / 2
	yinThreshold = 0.1
	silenceFloor = 1e-10
)

// YIN is a fundamental-frequency tracker using the cumulative mean normalized
// difference function. A YIN value is cheap to build and must not be shared
// between goroutines.
type YIN struct {
	sampleRate int
	minPeriod  int
	maxPeriod  int
	fft        *fourier.FFT
}

// NewYIN returns a tracker restricted to FMin..FMax at the given sample rate.
func NewYIN(sampleRate int) *YIN {
	y := &YIN{sampleRate: sampleRate}
	if sampleRate <= 0 {
		return y
	}
	y.minPeriod = max(int(math.Floor(float64(sampleRate)/FMax)), 1)
	y.maxPeriod = min(int(math.Ceil(float64(sampleRate)/FMin)), FrameLength-yinWindow-1)
	return y
}

// Track estimates f0 in Hz for every full frame of samples. Unvoiced or
// silent frames report 0. Fewer than FrameLength samples yield no frames.
func (y *YIN) Track(samples []float64) []float64 {
	if len(samples) < FrameLength || y.maxPeriod <= y.minPeriod {
		return nil
	}
	if y.fft == nil {
		y.fft = fourier.NewFFT(FrameLength)
	}

	n := 1 + (len(samples)-FrameLength)/HopLength
	out := make([]float64, n)
	cmnd := make([]float64, y.maxPeriod+2)
	for i := range n {
		frame := samples[i*HopLength : i*HopLength+FrameLength]
		out[i] = y.frameF0(frame, cmnd)
	}
	return out
}

func (y *YIN) frameF0(frame, cmnd []float64) float64 {
	if !y.difference(frame, cmnd) {
		return 0
	}

	last := len(cmnd) - 2
	for tau := y.minPeriod; tau <= last; tau++ {
		if cmnd[tau] >= yinThreshold {
			continue
		}
		for tau < last && cmnd[tau+1] < cmnd[tau] {
			tau++
		}
		period := float64(tau) + parabolicShift(cmnd[tau-1], cmnd[tau], cmnd[tau+1])
		if period <= 0 {
			return 0
		}
		return math.Min(math.Max(float64(y.sampleRate)/period, FMin), FMax)
	}
	return 0
}

// difference fills cmnd with the cumulative mean normalized difference of
// frame for lags 0..len(cmnd)-1. It returns false for a silent frame.
func (y *YIN) difference(frame, cmnd []float64) bool {
	// energy of the sliding window starting at each lag
	prefix := make([]float64, len(frame)+1)
	for i, v := range frame {
		prefix[i+1] = prefix[i] + v*v
	}
	energy0 := prefix[yinWindow]
	if energy0 < silenceFloor {
		return false
	}

	acf := y.crossCorrelate(frame)

	cmnd[0] = 1
	var running float64
	for tau := 1; tau < len(cmnd); tau++ {
		d := energy0 + prefix[tau+yinWindow] - prefix[tau] - 2*acf[tau]
		if d < 0 {
			d = 0
		}
		running += d
		if running == 0 {
			cmnd[tau] = 1
			continue
		}
		cmnd[tau] = d * float64(tau) / running
	}
	return true
}

// crossCorrelate returns r[tau] = sum_{j<yinWindow} frame[j]*frame[j+tau]
// for tau up to FrameLength-yinWindow, computed in the frequency domain.
func (y *YIN) crossCorrelate(frame []float64) []float64 {
	head := make([]float64, FrameLength)
	copy(head, frame[:yinWindow])

	a := y.fft.Coefficients(nil, frame)
	b := y.fft.Coefficients(nil, head)
	for i := range a {
		a[i] *= complex(real(b[i]), -imag(b[i]))
	}

	r := y.fft.Sequence(nil, a)
	// gonum's inverse transform is unnormalized
	for i := range r {
		r[i] /= FrameLength
	}
	return r
}

func parabolicShift(left, center, right float64) float64 {
	a := left + right - 2*center
	b := (right - left) / 2
	if a == 0 || math.Abs(b) >= math.Abs(a) {
		return 0
	}
	return -b / a
}
