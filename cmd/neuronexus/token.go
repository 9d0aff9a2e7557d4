package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTokenCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "token", Short: "Manage the model registry access token"}

	setCmd := &cobra.Command{
		Use:   "set <token>",
		Short: "Store the access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			if err := a.SetToken(strings.TrimSpace(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Token saved to %s\n", a.Store().Path())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			if err := a.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Token removed")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether a token is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Token configured: %s\n", yesNo(a.TokenConfigured()))
			return nil
		},
	}

	cmd.AddCommand(setCmd, clearCmd, statusCmd)
	return cmd
}
