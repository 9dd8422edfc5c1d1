// Package analysis runs one recorded answer through transcription, delivery
// scoring and content coaching, and assembles the report.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikhilbhutani/emcoach/internal/acoustic"
	"github.com/nikhilbhutani/emcoach/internal/audio"
	"github.com/nikhilbhutani/emcoach/internal/coaching"
	"github.com/nikhilbhutani/emcoach/internal/delivery"
	"github.com/nikhilbhutani/emcoach/internal/report"
	"github.com/nikhilbhutani/emcoach/internal/transcript"
)

type Stage string

const (
	StageLoad       Stage = "load_audio"
	StageTranscribe Stage = "transcribe"
	StageDelivery   Stage = "delivery"
	StageSegments   Stage = "segments"
	StageCoach      Stage = "coach"
)

// StageError reports which stage of a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("analysis %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Coacher produces content feedback for a transcript.
type Coacher interface {
	Evaluate(ctx context.Context, req coaching.Request) (*coaching.Feedback, error)
}

type Request struct {
	AudioPath string
	Question  string
	Model     string
	BaseURL   string
}

// Result carries the report plus the intermediate values the CLI prints.
type Result struct {
	Report     *report.Report
	Transcript *transcript.Transcript
	Features   acoustic.FeatureSet
	Scorecard  delivery.Scorecard
	Feedback   *coaching.Feedback
}

type Options struct {
	DefaultModel   string
	DefaultBaseURL string
	DomainHint     string
	Terms          []transcript.Replacement
}

type Pipeline struct {
	stt        transcript.Transcriber
	coach      Coacher
	normalizer *transcript.TermNormalizer
	opts       Options
	now        func() time.Time
}

func New(stt transcript.Transcriber, coach Coacher, opts Options) *Pipeline {
	if opts.DomainHint == "" {
		opts.DomainHint = transcript.AnswerDomainHint
	}
	if opts.Terms == nil {
		opts.Terms = transcript.DefaultTerms
	}
	return &Pipeline{
		stt:        stt,
		coach:      coach,
		normalizer: transcript.NewTermNormalizer(opts.Terms),
		opts:       opts,
		now:        time.Now,
	}
}

// Run executes every stage in order. Cancellation is observed between
// stages only; a failed stage aborts the run with a *StageError.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	model := firstNonEmpty(req.Model, p.opts.DefaultModel)
	// An empty override leaves routing to the gateway's configured provider;
	// the default URL is only recorded in the report.
	override := strings.TrimSpace(req.BaseURL)
	baseURL := firstNonEmpty(override, p.opts.DefaultBaseURL)
	start := time.Now()

	sig, err := audio.Load(req.AudioPath)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}
	slog.Debug("audio loaded", "path", req.AudioPath, "sample_rate", sig.SampleRate, "seconds", sig.Duration())

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageTranscribe, Err: err}
	}
	raw, err := p.stt.Transcribe(ctx, req.AudioPath, p.opts.DomainHint)
	if err != nil {
		return nil, &StageError{Stage: StageTranscribe, Err: err}
	}
	tr := p.normalizer.Apply(raw)
	text := strings.TrimSpace(tr.Text)

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageDelivery, Err: err}
	}
	features := acoustic.Extract(sig.Samples, sig.SampleRate)
	scorecard := delivery.Score(features)

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageSegments, Err: err}
	}
	segments := delivery.AnalyzeSegments(sig, tr.Segments)

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageCoach, Err: err}
	}
	fb, err := p.coach.Evaluate(ctx, coaching.Request{
		Question:   req.Question,
		Transcript: text,
		Model:      model,
		BaseURL:    override,
	})
	if err != nil {
		return nil, &StageError{Stage: StageCoach, Err: err}
	}

	rep := report.Assemble(report.Input{
		Time:               p.now(),
		Question:           req.Question,
		Transcript:         text,
		Scorecard:          scorecard,
		Segments:           segments,
		FeedbackText:       fb.Text,
		FeedbackStructured: fb.Structured,
		Model:              model,
		BaseURL:            baseURL,
	})

	slog.Info("analysis complete",
		"overall_score", scorecard.OverallScore,
		"volume", scorecard.VolumeLabel,
		"intonation", scorecard.Intonation.String(),
		"segments", len(segments),
		"structured", fb.Structured != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Result{
		Report:     rep,
		Transcript: tr,
		Features:   features,
		Scorecard:  scorecard,
		Feedback:   fb,
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
