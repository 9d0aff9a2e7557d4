package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"neuronexus/internal/rubric"
	"neuronexus/pkg/types"
)

func newRubricsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "rubrics", Short: "List or show grading rubrics"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered rubrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.rubrics()
			if err != nil {
				return err
			}
			for _, rb := range reg.All() {
				fmt.Fprintf(c.out, "%-8s max %-5d %d criteria  %s\n", rb.ExamType, rb.MaxScore, len(rb.Criteria), rb.Description)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <exam>",
		Short: "Print one rubric as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.rubrics()
			if err != nil {
				return err
			}
			exam := types.ExamType(strings.ToUpper(args[0]))
			rb, ok := reg.Get(exam)
			if !ok {
				return fmt.Errorf("no rubric registered for %s", exam)
			}
			enc := json.NewEncoder(c.out)
			enc.SetIndent("", "  ")
			return enc.Encode(rb)
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

// rubrics builds the registry without touching the model cache or token store.
func (c *cli) rubrics() (*rubric.Registry, error) {
	if c.cfg.RubricsFile == "" {
		return rubric.Default(), nil
	}
	extra, err := rubric.LoadFile(c.cfg.RubricsFile)
	if err != nil {
		return nil, err
	}
	return rubric.WithDefaults(extra...)
}
