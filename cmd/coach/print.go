package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nikhilbhutani/emcoach/internal/analysis"
)

var rule = strings.Repeat("=", 60)

func analysisRequest(path, question string, opts analyzeOpts) analysis.Request {
	return analysis.Request{
		AudioPath: path,
		Question:  question,
		Model:     opts.model,
		BaseURL:   opts.baseURL,
	}
}

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
}

func printResult(w io.Writer, res *analysis.Result) {
	rep := res.Report

	fmt.Fprintf(w, "\nQuestion: %s\n", rep.Question)
	fmt.Fprintln(w, "\nTranscript:")
	fmt.Fprintln(w, rep.Transcript)

	d := rep.Delivery
	header(w, "DELIVERY COACHING (Voice Energy & Intonation)")
	fmt.Fprintf(w, "Overall Energy Score: %s/10\n", num(d.OverallScore))
	fmt.Fprintf(w, "Volume: %s\n", d.VolumeLabel)
	fmt.Fprintf(w, "Intonation: %s\n", d.MonotoneWarning)
	fmt.Fprintf(w, "(Debug: RMS=%s, Pitch variation=%s)\n", num(d.DebugRMS), num(d.DebugPitchStd))

	header(w, "SEGMENT-BY-SEGMENT DELIVERY FEEDBACK")
	if len(rep.Segments) == 0 {
		fmt.Fprintln(w, "No segments long enough to judge.")
	}
	for _, fb := range rep.Segments {
		fmt.Fprintf(w, "%s: %s\n", fb.Time, fb.Energy)
		fmt.Fprintf(w, "   \"%s\"\n", fb.Text)
		if fb.Suggestion != "" {
			fmt.Fprintf(w, "   %s\n", fb.Suggestion)
		}
		fmt.Fprintln(w)
	}

	header(w, "CONTENT COACHING (Behavioral Answer Analysis)")
	fmt.Fprintln(w, rep.ContentFeedbackText)

	fb := res.Feedback
	if fb == nil || fb.Scores == nil {
		fmt.Fprintln(w, "\n⚠️ Could not parse structured scorecard from model output. Raw text shown above.")
		return
	}
	fmt.Fprintf(w, "\nContent / 60: %s   Overall / 100: %s   Decode: %s\n",
		fb.Scores.Metric("content_total_60"),
		fb.Scores.Metric("overall_100"),
		fb.Scores.Metric("C1_decode_accuracy"),
	)
}

// num prints whole numbers with one decimal ("2.0") and others as-is.
func num(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
