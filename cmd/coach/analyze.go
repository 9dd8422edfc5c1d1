package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikhilbhutani/emcoach/internal/app"
	"github.com/nikhilbhutani/emcoach/internal/audio"
	"github.com/nikhilbhutani/emcoach/internal/config"
	"github.com/nikhilbhutani/emcoach/internal/questions"
	"github.com/nikhilbhutani/emcoach/internal/report"
)

type analyzeOpts struct {
	question   string
	model      string
	baseURL    string
	save       bool
	reportsDir string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <answer.wav>",
		Short: "Transcribe a recorded answer and print delivery and content coaching",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.question, "question", "q", "", "interview question or bank label (default: first bank question)")
	f.StringVarP(&opts.model, "model", "m", "", "LLM model (default: LLM_DEFAULT_MODEL)")
	f.StringVar(&opts.baseURL, "base-url", "", "OpenAI-compatible endpoint, e.g. http://localhost:11434/v1")
	f.BoolVar(&opts.save, "save", false, "write the JSON report")
	f.StringVar(&opts.reportsDir, "reports-dir", "", "where --save writes reports (default: REPORTS_DIR)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, opts analyzeOpts) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s not found: record an answer first", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pipeline, sttProvider, err := app.NewPipeline(cfg, nil)
	if err != nil {
		return err
	}
	defer sttProvider.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bank := questions.Load(cfg.Questions.Path)
	question := bank.Resolve(opts.question)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Analyzing %s ...\n", path)

	res, err := pipeline.Run(ctx, analysisRequest(path, question, opts))
	if err != nil {
		var le *audio.LoadError
		if errors.As(err, &le) {
			return fmt.Errorf("could not read audio: %w", le)
		}
		return err
	}

	printResult(out, res)

	if !opts.save {
		return nil
	}
	dir := opts.reportsDir
	if dir == "" {
		dir = cfg.Reports.Dir
	}
	store, err := report.NewFileStore(dir)
	if err != nil {
		return err
	}
	id := report.NewID()
	if err := store.Save(ctx, id, res.Report); err != nil {
		return err
	}
	p, _ := store.Path(id)
	fmt.Fprintf(out, "\nSaved report to %s\n", p)
	return nil
}
