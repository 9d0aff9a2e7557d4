package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Inspect or clear the model cache"}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache location and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			info := a.CacheInfo()
			fmt.Fprintf(c.out, "Location: %s\nExists:   %s\nSize:     %s (%d bytes)\n",
				info.Location, yesNo(info.Exists), info.SizeHuman, info.SizeBytes)
			return nil
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached model artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			a, err := c.openApp()
			if err != nil {
				return err
			}
			info := a.CacheInfo()
			if err := a.ClearCache(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Removed %s (%s)\n", info.Location, info.SizeHuman)
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")

	cmd.AddCommand(infoCmd, clearCmd)
	return cmd
}
