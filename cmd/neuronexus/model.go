package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"neuronexus/internal/manager"
)

func newModelCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "model", Short: "Load, inspect or unload the text model"}

	var trace bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Download (if needed) and load the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec *manager.MemoryPublisher
			if trace {
				rec = manager.NewMemoryPublisher()
				c.events = rec
			}
			a, err := c.openApp()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("Initializing"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			start := time.Now()
			err = a.Initialize(ctx, manager.ProgressFunc(func(p float64, msg string) {
				bar.Describe(msg)
				_ = bar.Set(int(p * 100))
			}))
			if err != nil {
				_ = bar.Clear()
			} else {
				_ = bar.Finish()
			}
			if rec != nil {
				printTrace(c.out, rec.Events())
			}
			if err != nil {
				return err
			}
			snap := a.Manager().Snapshot()
			fmt.Fprintf(c.out, "Model %s@%s loaded in %s\n", snap.RepoID, snap.Revision, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	initCmd.Flags().BoolVar(&trace, "trace", false, "Print the manager's lifecycle events after loading")

	var asJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show model, cache and token status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			st := a.Status()
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			fmt.Fprintf(c.out, "Status:     %s\n", st.Status)
			fmt.Fprintf(c.out, "Repository: %s\n", st.Model.RepoID)
			fmt.Fprintf(c.out, "Token:      %s\n", yesNo(st.TokenConfigured))
			fmt.Fprintf(c.out, "Cached:     %s (%s)\n", yesNo(st.Cache.Exists), st.Cache.SizeHuman)
			fmt.Fprintf(c.out, "Location:   %s\n", st.Cache.Location)
			return nil
		},
	}
	statusCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	var server string
	unloadCmd := &cobra.Command{
		Use:   "unload",
		Short: "Unload the model from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, http.MethodDelete, strings.TrimRight(server, "/")+"/model", nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			var body struct {
				Unloaded bool   `json:"unloaded"`
				Error    string `json:"error"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server answered %d: %s", resp.StatusCode, body.Error)
			}
			if body.Unloaded {
				fmt.Fprintln(c.out, "Model unloaded")
			} else {
				fmt.Fprintln(c.out, "No model was loaded")
			}
			return nil
		},
	}
	unloadCmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8080", "Base URL of the running server")

	cmd.AddCommand(initCmd, statusCmd, unloadCmd)
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// printTrace writes one line per event: name, then fields sorted by key.
func printTrace(w io.Writer, events []manager.Event) {
	for _, e := range events {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(e.Name)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
		}
		fmt.Fprintln(w, b.String())
	}
}
