package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"neuronexus/pkg/types"
)

func newEvaluateCmd(c *cli) *cobra.Command {
	var (
		exam   string
		title  string
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Grade an essay read from a file or stdin",
		Example: "  neuronexus evaluate --exam ENEM --title \"Mobilidade urbana\" --file redacao.txt\n" +
			"  cat redacao.txt | neuronexus evaluate --exam FUVEST --title Tema --file -",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readEssay(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			req := types.EvaluateRequest{
				Title:    title,
				Content:  content,
				ExamType: types.ExamType(strings.ToUpper(exam)),
			}
			if err := validator.New().Struct(req); err != nil {
				return err
			}
			a, err := c.openApp()
			if err != nil {
				return err
			}
			essay, err := a.Evaluate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(essay)
			}
			printEssay(c.out, essay)
			return nil
		},
	}
	cmd.Flags().StringVar(&exam, "exam", string(types.ExamEnem), "Exam type (ENEM, FUVEST, UNESP, ...)")
	cmd.Flags().StringVar(&title, "title", "", "Essay title, used as the theme")
	cmd.Flags().StringVar(&file, "file", "-", "Essay body file, - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the graded essay as JSON")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func readEssay(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "" || path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", errors.New("essay is empty")
	}
	return string(b), nil
}

func printEssay(w io.Writer, e types.Essay) {
	if e.Score != nil {
		fmt.Fprintf(w, "%s: %d/%d\n\n", e.ExamType.DisplayName(), *e.Score, e.MaxScore)
	}
	if e.RubricScores != nil {
		names := make([]string, 0, len(e.RubricScores.Scores))
		for n := range e.RubricScores.Scores {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "[%s] %d\n%s\n\n", n, e.RubricScores.Scores[n], e.RubricScores.DetailedFeedback[n])
		}
	}
	if e.Feedback != nil {
		fmt.Fprintln(w, *e.Feedback)
	}
	for _, c := range e.Corrections {
		fmt.Fprintf(w, "\n* %s (%s): %s\n", c.SuggestedText, c.RubricCriterion, c.Reason)
	}
}
