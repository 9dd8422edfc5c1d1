package coaching

import "fmt"

// SystemPrompt asks the model for a rubric-scored JSON object only.
const SystemPrompt = `You are an expert EM behavioral interview coach.
Return ONLY valid JSON with this schema:
{
  "scores": {
    "C1_decode_accuracy": 0-10,
    "C2_story_selection_quality": 0-10,
    "C3_evidence_specificity": 0-10,
    "C4_outcomes_impact": 0-10,
    "C5_communication_judgment_reflection": 0-10,
    "content_total_60": 0-60,
    "overall_100": 0-100
  },
  "top_improvements": ["...", "...", "..."],
  "rewrite_suggestions": ["...", "..."],
  "blame_or_defensive_flags": ["..."]
}
Scoring should follow Austen-style signal quality: relevance to prompt, story quality, specificity, impact, reflection.`

const (
	Temperature = 0.2
	MaxTokens   = 900
)

// UserPrompt pairs the interview question with the candidate's transcript.
func UserPrompt(question, transcript string) string {
	return fmt.Sprintf("Interview question: %s\n\nTranscript:\n%s", question, transcript)
}
