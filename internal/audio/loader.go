package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// LoadError reports an audio file that could not be turned into a Signal.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load audio: %v", e.Err)
	}
	return fmt.Sprintf("load audio %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var (
	errInvalidWAV = errors.New("invalid WAV file")
	errNoSamples  = errors.New("no decodable audio")
)

// fmt chunk audio format codes
const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// Load reads a WAV file into a peak-normalized mono Signal at the file's
// native sample rate.
func Load(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	sig, err := decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return sig, nil
}

// Decode is Load for an already opened stream, e.g. an HTTP upload.
func Decode(r io.ReadSeeker) (*Signal, error) {
	sig, err := decode(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return sig, nil
}

func decode(r io.ReadSeeker) (*Signal, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errInvalidWAV
	}

	isFloat := false
	switch decoder.WavAudioFormat {
	case formatPCM, formatExtensible:
	case formatIEEEFloat:
		if decoder.BitDepth != 32 {
			return nil, fmt.Errorf("unsupported %d-bit float WAV", decoder.BitDepth)
		}
		isFloat = true
	default:
		return nil, fmt.Errorf("unsupported WAV format %#x", decoder.WavAudioFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read PCM buffer: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return nil, errInvalidWAV
	}

	var samples []float64
	if isFloat {
		samples = floatToMono(buf)
	} else {
		samples = toMono(buf)
	}
	if len(samples) == 0 {
		return nil, errNoSamples
	}

	sig := &Signal{Samples: samples, SampleRate: buf.Format.SampleRate}
	sig.Normalize()
	return sig, nil
}

// toMono scales integer PCM to [-1, 1] and averages interleaved channels.
func toMono(buf *goaudio.IntBuffer) []float64 {
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels

	scale := 1.0
	offset := 0
	if buf.SourceBitDepth > 0 {
		scale = float64(int64(1) << (buf.SourceBitDepth - 1))
	}
	// 8-bit WAV is unsigned
	if buf.SourceBitDepth == 8 {
		offset = 128
	}

	out := make([]float64, frames)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += float64(buf.Data[i*channels+c] - offset)
		}
		out[i] = sum / float64(channels) / scale
	}
	return out
}

// floatToMono reinterprets 32-bit IEEE float samples, which the decoder
// returns as raw bit patterns, and averages interleaved channels.
func floatToMono(buf *goaudio.IntBuffer) []float64 {
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels

	out := make([]float64, frames)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += float64(math.Float32frombits(uint32(buf.Data[i*channels+c])))
		}
		out[i] = sum / float64(channels)
	}
	return out
}
