package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nikhilbhutani/emcoach/internal/analysis"
	"github.com/nikhilbhutani/emcoach/internal/audio"
	"github.com/nikhilbhutani/emcoach/internal/queue"
	"github.com/nikhilbhutani/emcoach/internal/questions"
	"github.com/nikhilbhutani/emcoach/internal/report"
)

type Runner interface {
	Run(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

type Enqueuer interface {
	EnqueueAnalysisRun(payload queue.AnalysisRunPayload) error
}

type AnalysisOptions struct {
	UploadsDir  string
	MaxUpload   int64
	SaveDefault bool
}

type AnalysisHandler struct {
	pipeline Runner
	store    report.Store
	status   analysis.StatusStore
	queue    Enqueuer // nil when Redis is unavailable
	bank     *questions.Bank
	opts     AnalysisOptions
}

func NewAnalysisHandler(p Runner, store report.Store, status analysis.StatusStore, q Enqueuer, bank *questions.Bank, opts AnalysisOptions) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline: p,
		store:    store,
		status:   status,
		queue:    q,
		bank:     bank,
		opts:     opts,
	}
}

type analysisForm struct {
	question string
	model    string
	baseURL  string
	save     bool
	async    bool
	download bool
}

// Create accepts a multipart upload of one .wav answer and either analyzes
// it inline (201) or queues it (202). download=true returns the inline
// report as a JSON attachment instead of the envelope.
func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".wav") {
		writeError(w, http.StatusBadRequest, "only .wav uploads are supported")
		return
	}

	form, err := h.parseForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if form.async && h.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "async analysis requires Redis")
		return
	}

	path, err := h.saveUpload(file)
	if err != nil {
		slog.Error("failed to store upload", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	id := report.NewID()
	if form.async {
		h.enqueue(w, r, id, path, form)
		return
	}
	defer os.Remove(path)

	res, err := h.pipeline.Run(r.Context(), analysis.Request{
		AudioPath: path,
		Question:  form.question,
		Model:     form.model,
		BaseURL:   form.baseURL,
	})
	if err != nil {
		status, msg := analysisErrorStatus(err)
		slog.Warn("analysis failed", "status", status, "error", err)
		writeError(w, status, msg)
		return
	}

	if form.save {
		if err := h.store.Save(r.Context(), id, res.Report); err != nil {
			slog.Error("failed to save report", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save report")
			return
		}
	}

	if form.download {
		w.Header().Set("X-Report-ID", id)
		writeAttachment(w, http.StatusCreated, res.Report)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     id,
		"saved":  form.save,
		"report": res.Report,
	})
}

// Status reports the progress of a queued analysis.
func (h *AnalysisHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := h.status.Status(r.Context(), id)
	if errors.Is(err, analysis.ErrUnknownJob) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *AnalysisHandler) enqueue(w http.ResponseWriter, r *http.Request, id, path string, form analysisForm) {
	err := h.queue.EnqueueAnalysisRun(queue.AnalysisRunPayload{
		ReportID:  id,
		AudioPath: path,
		Question:  form.question,
		Model:     form.model,
		BaseURL:   form.baseURL,
	})
	if err != nil {
		os.Remove(path)
		slog.Error("failed to enqueue analysis", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to enqueue analysis")
		return
	}

	if err := h.status.SetStatus(r.Context(), analysis.JobState{ID: id, Status: analysis.StatusQueued}); err != nil {
		slog.Warn("failed to record job status", "id", id, "error", err)
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": string(analysis.StatusQueued)})
}

func (h *AnalysisHandler) parseForm(r *http.Request) (analysisForm, error) {
	form := analysisForm{
		question: h.bank.Resolve(r.FormValue("question")),
		model:    strings.TrimSpace(r.FormValue("model")),
		baseURL:  strings.TrimSpace(r.FormValue("base_url")),
		save:     h.opts.SaveDefault,
	}

	var err error
	if form.save, err = formBool(r, "save", form.save); err != nil {
		return form, err
	}
	if form.async, err = formBool(r, "async", false); err != nil {
		return form, err
	}
	if form.download, err = formBool(r, "download", false); err != nil {
		return form, err
	}
	if form.async && form.download {
		return form, errors.New("download is only available for synchronous analyses")
	}
	return form, nil
}

func (h *AnalysisHandler) saveUpload(src io.Reader) (string, error) {
	if err := os.MkdirAll(h.opts.UploadsDir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	f, err := os.CreateTemp(h.opts.UploadsDir, "answer-*.wav")
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	return f.Name(), nil
}

func formBool(r *http.Request, key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}

// analysisErrorStatus maps a pipeline failure to an HTTP status.
func analysisErrorStatus(err error) (int, string) {
	var le *audio.LoadError
	if errors.As(err, &le) {
		return http.StatusUnprocessableEntity, "audio could not be decoded: " + le.Err.Error()
	}

	var se *analysis.StageError
	if errors.As(err, &se) {
		switch se.Stage {
		case analysis.StageTranscribe, analysis.StageCoach:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return http.StatusGatewayTimeout, se.Error()
			}
			return http.StatusBadGateway, se.Error()
		}
	}
	return http.StatusInternalServerError, err.Error()
}
