package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/emcoach/internal/analysis"
	"github.com/nikhilbhutani/emcoach/internal/queue"
	"github.com/nikhilbhutani/emcoach/internal/report"
)

type Runner interface {
	Run(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

type AnalysisWorker struct {
	pipeline Runner
	store    report.Store
	status   analysis.StatusStore
}

func NewAnalysisWorker(p Runner, store report.Store, status analysis.StatusStore) *AnalysisWorker {
	return &AnalysisWorker{pipeline: p, store: store, status: status}
}

func (w *AnalysisWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AnalysisRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	id := payload.ReportID
	slog.Info("running analysis", "report_id", id, "audio", payload.AudioPath)
	w.setStatus(ctx, analysis.JobState{ID: id, Status: analysis.StatusRunning})

	defer func() {
		if err := os.Remove(payload.AudioPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove upload", "path", payload.AudioPath, "error", err)
		}
	}()

	res, err := w.pipeline.Run(ctx, analysis.Request{
		AudioPath: payload.AudioPath,
		Question:  payload.Question,
		Model:     payload.Model,
		BaseURL:   payload.BaseURL,
	})
	if err != nil {
		w.setStatus(ctx, analysis.Failed(id, err))
		return fmt.Errorf("analysis %s: %v: %w", id, err, asynq.SkipRetry)
	}

	if err := w.store.Save(ctx, id, res.Report); err != nil {
		w.setStatus(ctx, analysis.Failed(id, err))
		return fmt.Errorf("save report %s: %w", id, err)
	}

	w.setStatus(ctx, analysis.JobState{ID: id, Status: analysis.StatusDone})
	slog.Info("analysis saved", "report_id", id, "overall_score", res.Report.Delivery.OverallScore)
	return nil
}

func (w *AnalysisWorker) setStatus(ctx context.Context, st analysis.JobState) {
	if err := w.status.SetStatus(ctx, st); err != nil {
		slog.Warn("failed to record job status", "report_id", st.ID, "status", st.Status, "error", err)
	}
}
