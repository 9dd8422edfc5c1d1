package transcript

import "strings"

// Replacement is a literal find/replace pair.
type Replacement struct {
	From string
	To   string
}

// DefaultTerms fixes known mis-transcriptions of interview vocabulary.
// Title-case variants are listed explicitly.
var DefaultTerms = []Replacement{
	{"entrepreneur", "underperformer"},
	{"Entrepreneur", "underperformer"},
	{"entropy performer", "underperformer"},
	{"Entropy Performer", "underperformer"},
	{"under sponsor", "underperformer"},
	{"Under Sponsor", "underperformer"},
	{"focus improvement plan", "performance improvement plan"},
	{"Focus Improvement Plan", "performance improvement plan"},
	{"111s", "1:1s"},
	{"111S", "1:1s"},
	{"one one ones", "1:1s"},
	{"One One Ones", "1:1s"},
}

// TermNormalizer applies an ordered list of literal replacements.
type TermNormalizer struct {
	terms []Replacement
}

func NewTermNormalizer(terms []Replacement) *TermNormalizer {
	return &TermNormalizer{terms: terms}
}

// Normalize applies every replacement in order.
func (n *TermNormalizer) Normalize(text string) string {
	for _, r := range n.terms {
		if r.From == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.From, r.To)
	}
	return text
}

// Apply returns a copy of t with the text and every segment normalized.
func (n *TermNormalizer) Apply(t *Transcript) *Transcript {
	out := &Transcript{
		Text:     n.Normalize(t.Text),
		Segments: make([]Segment, len(t.Segments)),
		Language: t.Language,
		Duration: t.Duration,
	}
	for i, s := range t.Segments {
		s.Text = n.Normalize(s.Text)
		out.Segments[i] = s
	}
	return out
}
