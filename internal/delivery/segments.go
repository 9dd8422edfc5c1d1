package delivery

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nikhilbhutani/emcoach/internal/acoustic"
	"github.com/nikhilbhutani/emcoach/internal/audio"
	"github.com/nikhilbhutani/emcoach/internal/transcript"
)

type EnergyLabel string

const (
	EnergyLow    EnergyLabel = "Low energy"
	EnergyGood   EnergyLabel = "Good energy"
	EnergyStrong EnergyLabel = "Strong energy"
)

const (
	minSegmentChars    = 5
	minSegmentDuration = 2.0
	strongSegmentRMS   = 0.08

	lowEnergySuggestion    = "⚠️ Dip here — in EM stories, this sounds hesitant on tough calls. Amp up ownership: 'I decided to...'"
	strongEnergySuggestion = "🔥 Peak moment — lean into this for leadership vibes!"
)

// SegmentFeedback is the delivery verdict for one transcript segment.
type SegmentFeedback struct {
	Time       string      `json:"time"`
	Text       string      `json:"text"`
	Energy     EnergyLabel `json:"energy"`
	Suggestion string      `json:"suggestion"`
}

// AnalyzeSegments labels every coachable segment of sig, in input order.
// Segments with under 5 characters of text or shorter than 2 seconds are
// dropped, as are segments that fall outside the signal.
func AnalyzeSegments(sig *audio.Signal, segments []transcript.Segment) []SegmentFeedback {
	out := make([]SegmentFeedback, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if utf8.RuneCountInString(text) < minSegmentChars || seg.Duration() < minSegmentDuration {
			continue
		}

		samples := sig.Slice(seg.Start, seg.End)
		if len(samples) == 0 {
			continue
		}

		label, suggestion := LabelSegment(acoustic.Extract(samples, sig.SampleRate))
		out = append(out, SegmentFeedback{
			Time:       FormatSpan(seg.Start, seg.End),
			Text:       text,
			Energy:     label,
			Suggestion: suggestion,
		})
	}
	return out
}

// LabelSegment classifies one segment. The low-energy check wins over the
// strong-energy check.
func LabelSegment(fs acoustic.FeatureSet) (EnergyLabel, string) {
	switch {
	case fs.MeanRMS < quietRMS || fs.PitchStd < flatPitch:
		return EnergyLow, lowEnergySuggestion
	case fs.MeanRMS > strongSegmentRMS:
		return EnergyStrong, strongEnergySuggestion
	default:
		return EnergyGood, ""
	}
}

func FormatSpan(start, end float64) string {
	return fmt.Sprintf("%.1fs–%.1fs", start, end)
}
