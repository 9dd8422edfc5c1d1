package transcript

import "testing"

func TestNormalizeDefaultTerms(t *testing.T) {
	n := NewTermNormalizer(DefaultTerms)

	tests := []struct {
		in, want string
	}{
		{"I coached the entrepreneur on my team", "I coached the underperformer on my team"},
		{"Entrepreneur was struggling", "underperformer was struggling"},
		{"we set up a focus improvement plan", "we set up a performance improvement plan"},
		{"Focus Improvement Plan started", "performance improvement plan started"},
		{"weekly 111s and one one ones", "weekly 1:1s and 1:1s"},
		{"the entropy performer and the under sponsor", "the underperformer and the underperformer"},
		{"nothing to fix here", "nothing to fix here"},
	}

	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIsOrdered(t *testing.T) {
	n := NewTermNormalizer([]Replacement{{"a", "b"}, {"b", "c"}})
	if got := n.Normalize("a"); got != "c" {
		t.Errorf("Normalize = %q, want %q", got, "c")
	}
}

func TestApplyCopiesTranscript(t *testing.T) {
	n := NewTermNormalizer(DefaultTerms)
	in := &Transcript{
		Text:     "the entrepreneur",
		Segments: []Segment{{Start: 0, End: 2.5, Text: " the entrepreneur"}},
		Language: "en",
	}

	out := n.Apply(in)
	if out.Text != "the underperformer" || out.Segments[0].Text != " the underperformer" {
		t.Errorf("Apply = %+v", out)
	}
	if in.Segments[0].Text != " the entrepreneur" {
		t.Error("Apply mutated its input")
	}
	if out.Language != "en" || out.Segments[0].End != 2.5 {
		t.Errorf("Apply dropped fields: %+v", out)
	}
}
