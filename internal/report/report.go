package report

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/nikhilbhutani/emcoach/internal/delivery"
)

const filenameLayout = "20060102_150405"

// Delivery is the serialized whole-clip scorecard.
type Delivery struct {
	OverallScore    float64 `json:"overall_score"`
	VolumeLabel     string  `json:"volume_label"`
	MonotoneWarning string  `json:"monotone_warning"`
	DebugRMS        float64 `json:"debug_rms"`
	DebugPitchStd   float64 `json:"debug_pitch_std"`
	DebugPitchMean  float64 `json:"debug_pitch_mean"`
}

// Report is the persisted and downloadable result of one analysis.
type Report struct {
	Timestamp                 string                     `json:"timestamp"`
	Question                  string                     `json:"question"`
	Transcript                string                     `json:"transcript"`
	Delivery                  Delivery                   `json:"delivery"`
	Segments                  []delivery.SegmentFeedback `json:"segments"`
	ContentFeedbackText       string                     `json:"content_feedback_text"`
	ContentFeedbackStructured json.RawMessage            `json:"content_feedback_structured"`
	LLMModel                  string                     `json:"llm_model"`
	LLMBaseURL                string                     `json:"llm_base_url"`
}

type Input struct {
	Time               time.Time
	Question           string
	Transcript         string
	Scorecard          delivery.Scorecard
	Segments           []delivery.SegmentFeedback
	FeedbackText       string
	FeedbackStructured json.RawMessage
	Model              string
	BaseURL            string
}

// Assemble builds a Report that always serializes: non-finite numbers
// become 0, a nil segment list becomes empty, and structured feedback that
// is not valid JSON is dropped.
func Assemble(in Input) *Report {
	ts := in.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	segments := in.Segments
	if segments == nil {
		segments = []delivery.SegmentFeedback{}
	}

	structured := in.FeedbackStructured
	if len(structured) == 0 || !json.Valid(structured) {
		structured = nil
	}

	sc := in.Scorecard
	return &Report{
		Timestamp:  ts.Format(time.RFC3339),
		Question:   in.Question,
		Transcript: in.Transcript,
		Delivery: Delivery{
			OverallScore:    finite(sc.OverallScore),
			VolumeLabel:     string(sc.VolumeLabel),
			MonotoneWarning: sc.Intonation.Message(),
			DebugRMS:        finite(sc.DebugRMS),
			DebugPitchStd:   finite(sc.DebugPitchStd),
			DebugPitchMean:  finite(sc.DebugPitchMean),
		},
		Segments:                  segments,
		ContentFeedbackText:       in.FeedbackText,
		ContentFeedbackStructured: structured,
		LLMModel:                  in.Model,
		LLMBaseURL:                in.BaseURL,
	}
}

// Filename returns report_YYYYMMDD_HHMMSS.json for t.
func Filename(t time.Time) string {
	return fmt.Sprintf("report_%s.json", t.Format(filenameLayout))
}

// Filename derives the download name from the report timestamp.
func (r *Report) Filename() string {
	t, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		t = time.Now()
	}
	return Filename(t)
}

// Marshal renders r as 2-space indented JSON.
func Marshal(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
