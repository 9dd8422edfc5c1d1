// Package delivery scores how an answer was spoken: loudness and intonation
// for the whole clip and per transcript segment.
package delivery

import (
	"math"
	"strconv"

	"github.com/nikhilbhutani/emcoach/internal/acoustic"
)

type VolumeLabel string

const (
	VolumeQuiet    VolumeLabel = "Quiet"
	VolumeModerate VolumeLabel = "Moderate"
	VolumeStrong   VolumeLabel = "Strong"
)

// Intonation is the pitch-variation verdict for a clip.
type Intonation int

const (
	IntonationFlat Intonation = iota
	IntonationDecent
	IntonationExpressive
)

func (i Intonation) String() string {
	switch i {
	case IntonationFlat:
		return "flat"
	case IntonationDecent:
		return "decent"
	default:
		return "expressive"
	}
}

// Message is the coaching line shown for the verdict.
func (i Intonation) Message() string {
	switch i {
	case IntonationFlat:
		return "⚠️ Very flat – sounds low energy. Vary your pitch more on key moments!"
	case IntonationDecent:
		return "ℹ️ Decent variation, but add more rise/fall for emphasis."
	default:
		return "✅ Excellent intonation – expressive and confident!"
	}
}

const (
	quietRMS    = 0.03
	moderateRMS = 0.07
	flatPitch   = 20.0
	decentPitch = 35.0

	volumeWeight    = 0.4
	variationWeight = 0.6
)

// Scorecard is the whole-clip delivery verdict.
type Scorecard struct {
	OverallScore   float64
	VolumeLabel    VolumeLabel
	Intonation     Intonation
	DebugRMS       float64
	DebugPitchStd  float64
	DebugPitchMean float64
}

// Score turns whole-clip features into a Scorecard. Intonation is weighted
// above loudness: a flat delivery reads as low energy even when loud.
func Score(fs acoustic.FeatureSet) Scorecard {
	volume := clip(fs.MeanRMS*40, 2, 10)
	variation := clip(fs.PitchStd/7, 2, 10)

	return Scorecard{
		OverallScore:   roundTo(volume*volumeWeight+variation*variationWeight, 1),
		VolumeLabel:    LabelVolume(fs.MeanRMS),
		Intonation:     JudgeIntonation(fs.PitchStd),
		DebugRMS:       roundTo(fs.MeanRMS, 4),
		DebugPitchStd:  roundTo(fs.PitchStd, 1),
		DebugPitchMean: roundTo(fs.PitchMean, 1),
	}
}

func LabelVolume(meanRMS float64) VolumeLabel {
	switch {
	case meanRMS < quietRMS:
		return VolumeQuiet
	case meanRMS < moderateRMS:
		return VolumeModerate
	default:
		return VolumeStrong
	}
}

func JudgeIntonation(pitchStd float64) Intonation {
	switch {
	case pitchStd < flatPitch:
		return IntonationFlat
	case pitchStd < decentPitch:
		return IntonationDecent
	default:
		return IntonationExpressive
	}
}

// clip also maps NaN to lo.
func clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundTo rounds the exact decimal value of v, ties to even, so 0.25 -> 0.2
// and 0.35 (stored as 0.34999...) -> 0.3.
func roundTo(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
