package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"neuronexus/internal/app"
	"neuronexus/internal/config"
	"neuronexus/internal/logging"
	"neuronexus/internal/manager"
)

// cli carries resolved settings from the root command to subcommands.
type cli struct {
	configFile string
	cfg        config.Config
	log        zerolog.Logger
	out        io.Writer
	app        *app.App
	events     manager.EventPublisher
}

// openApp builds the App once per invocation.
func (c *cli) openApp() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(c.cfg, app.Options{Logger: &c.log, Publisher: c.events})
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func newRootCmd() *cobra.Command {
	c := &cli{out: os.Stdout, cfg: config.Default()}
	root := &cobra.Command{
		Use:           "neuronexus",
		Short:         "Essay evaluation service and model tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "Service config file (.yaml, .json, .toml)")
	pf.String("ai-config", "", "AI configuration document (token, preferences)")
	pf.String("cache-dir", "", "Model cache root (defaults HF_HUB_CACHE or ~/.cache/huggingface/hub)")
	pf.String("repo", "", "Model repository id")
	pf.String("hub-endpoint", "", "Model registry base URL")
	pf.String("log-level", "", "Log level: trace|debug|info|warn|error|off")
	pf.String("log-format", "", "Log format: json|console")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve(c.configFile)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		override := map[string]*string{
			"ai-config":    &cfg.ConfigPath,
			"cache-dir":    &cfg.CacheDir,
			"repo":         &cfg.RepoID,
			"hub-endpoint": &cfg.HubEndpoint,
			"log-level":    &cfg.LogLevel,
			"log-format":   &cfg.LogFormat,
		}
		for name, dst := range override {
			if f := flags.Lookup(name); f != nil && f.Changed {
				*dst = f.Value.String()
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		c.cfg, c.log = cfg, log
		c.out = cmd.OutOrStdout()
		return nil
	}

	root.AddCommand(
		newServeCmd(c),
		newModelCmd(c),
		newCacheCmd(c),
		newTokenCmd(c),
		newEvaluateCmd(c),
		newRubricsCmd(c),
	)
	return root
}
