// Package transcript holds transcription results and the boundary to the
// speech-to-text collaborator.
package transcript

import "context"

// DefaultDomainHint biases transcription toward engineering-manager vocabulary.
const DefaultDomainHint = "Engineering Manager interview. Terms may include: underperformer, " +
	"performance improvement plan, 1:1s, stakeholder, roadmap, retrospective, impact metrics."

// AnswerDomainHint is the hint used when analyzing a behavioral answer.
const AnswerDomainHint = "Engineering Manager behavioral interview answer. " +
	"Important terms: underperformer, performance improvement plan, one-on-one, " +
	"stakeholder, scope, impact, retrospective."

// Segment is a timed span of the transcript. Times are in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns End - Start, which may be negative for malformed input.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Transcript is the full transcription of one recording.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration,omitempty"`
}

// Transcriber turns an audio file into a Transcript. domainHint may be empty.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, domainHint string) (*Transcript, error)
}
