package queue

import (
	"encoding/json"
	"testing"
)

func TestNewTaskPayload(t *testing.T) {
	task, err := NewTask(TypeAnalysisRun, AnalysisRunPayload{
		ReportID:  "0f8fad5b-d9cb-469f-a165-70867728950e",
		AudioPath: "uploads/answer-1.wav",
		Question:  "Tell me about a time you managed an underperforming engineer.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.Type() != "analysis:run" {
		t.Errorf("type = %s", task.Type())
	}

	var raw map[string]any
	if err := json.Unmarshal(task.Payload(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"report_id", "audio_path", "question"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
	if _, ok := raw["model"]; ok {
		t.Error("empty model should be omitted")
	}
}
