package report

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nikhilbhutani/emcoach/internal/delivery"
)

var fixedTime = time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)

func sampleInput() Input {
	return Input{
		Time:       fixedTime,
		Question:   "Tell me about a time you managed an underperforming engineer.",
		Transcript: "I led the migration",
		Scorecard: delivery.Scorecard{
			OverallScore:   2.0,
			VolumeLabel:    delivery.VolumeQuiet,
			Intonation:     delivery.IntonationFlat,
			DebugRMS:       0,
			DebugPitchStd:  0,
			DebugPitchMean: 120,
		},
		Segments: []delivery.SegmentFeedback{
			{Time: "0.0s–3.0s", Text: "I led the migration", Energy: delivery.EnergyLow, Suggestion: "x"},
		},
		FeedbackText:       `{"scores": {"overall_100": 55}}`,
		FeedbackStructured: json.RawMessage(`{"scores": {"overall_100": 55}}`),
		Model:              "gemma2:9b",
		BaseURL:            "http://localhost:11434/v1",
	}
}

func TestAssembleFieldNames(t *testing.T) {
	data, err := Marshal(Assemble(sampleInput()))
	if err != nil {
		t.Fatal(err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"timestamp", "question", "transcript", "delivery", "segments",
		"content_feedback_text", "content_feedback_structured", "llm_model", "llm_base_url",
	} {
		if _, ok := top[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if len(top) != 9 {
		t.Errorf("got %d top-level keys, want 9", len(top))
	}

	var d map[string]any
	if err := json.Unmarshal(top["delivery"], &d); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"overall_score", "volume_label", "monotone_warning", "debug_rms", "debug_pitch_std", "debug_pitch_mean"} {
		if _, ok := d[key]; !ok {
			t.Errorf("missing delivery key %q", key)
		}
	}
	if d["monotone_warning"] != delivery.IntonationFlat.Message() {
		t.Errorf("monotone_warning = %v", d["monotone_warning"])
	}
	if !bytes.Contains(data, []byte("\n  \"question\"")) {
		t.Error("report is not 2-space indented")
	}
}

func TestAssembleDegenerateValues(t *testing.T) {
	in := sampleInput()
	in.Segments = nil
	in.FeedbackStructured = nil
	in.Scorecard.OverallScore = math.NaN()
	in.Scorecard.DebugPitchStd = math.Inf(1)
	in.Scorecard.DebugPitchMean = math.Inf(-1)

	r := Assemble(in)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"segments":[]`) {
		t.Errorf("segments not an empty array: %s", s)
	}
	if !strings.Contains(s, `"content_feedback_structured":null`) {
		t.Errorf("structured not null: %s", s)
	}
	if r.Delivery.OverallScore != 0 || r.Delivery.DebugPitchStd != 0 || r.Delivery.DebugPitchMean != 0 {
		t.Errorf("non-finite values kept: %+v", r.Delivery)
	}
}

func TestAssembleDropsInvalidStructured(t *testing.T) {
	in := sampleInput()
	in.FeedbackStructured = json.RawMessage(`{"broken": `)
	if r := Assemble(in); r.ContentFeedbackStructured != nil {
		t.Errorf("invalid structured kept: %s", r.ContentFeedbackStructured)
	}
}

func TestReportRoundTrip(t *testing.T) {
	orig := Assemble(sampleInput())
	data, err := Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}

	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Delivery != orig.Delivery {
		t.Errorf("delivery = %+v, want %+v", back.Delivery, orig.Delivery)
	}
	if !reflect.DeepEqual(back.Segments, orig.Segments) {
		t.Errorf("segments = %+v", back.Segments)
	}
	var a, b any
	_ = json.Unmarshal(orig.ContentFeedbackStructured, &a)
	_ = json.Unmarshal(back.ContentFeedbackStructured, &b)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("structured = %s", back.ContentFeedbackStructured)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(fixedTime); got != "report_20250307_140509.json" {
		t.Errorf("Filename = %s", got)
	}
	r := Assemble(sampleInput())
	if got := r.Filename(); got != "report_20250307_140509.json" {
		t.Errorf("Report.Filename = %s", got)
	}
}
