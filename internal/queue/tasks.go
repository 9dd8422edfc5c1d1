package queue

const TypeAnalysisRun = "analysis:run"

type AnalysisRunPayload struct {
	ReportID  string `json:"report_id"`
	AudioPath string `json:"audio_path"`
	Question  string `json:"question"`
	Model     string `json:"model,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
}
