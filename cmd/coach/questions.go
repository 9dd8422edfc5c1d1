package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikhilbhutani/emcoach/internal/config"
	"github.com/nikhilbhutani/emcoach/internal/questions"
)

func newQuestionsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the interview question bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				file = cfg.Questions.Path
			}

			bank := questions.Load(file)
			out := cmd.OutOrStdout()
			if bank.Empty() {
				fmt.Fprintf(out, "No questions in %s; default: %s\n", file, questions.DefaultQuestion)
				return nil
			}
			for _, label := range bank.Labels() {
				fmt.Fprintln(out, label)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "question bank (JSON or YAML, default: QUESTIONS_PATH)")
	return cmd
}
