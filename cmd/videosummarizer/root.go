package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"VideoSummarizer/internal/app"
	"VideoSummarizer/internal/config"
	"VideoSummarizer/internal/logging"
)

// cli carries state shared by all subcommands.
type cli struct {
	configPath string
	logLevel   string
	baseURL    string

	cfg config.Config
	app *app.Application
}

// newRootCmd builds the command tree. The caller closes the returned cli
// after Execute; cobra skips post-run hooks when a command fails.
func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:   "videosummarizer",
		Short: "Summarize YouTube videos through the summarizer backend",
		Long: `videosummarizer scrapes a YouTube video, streams the AI analysis from the
summarizer backend and reports progress, quality and the final summary.

Configuration is read from .env/.env.local, the YAML file named by
VIDEOSUMMARIZER_CONFIG (or --config) and SUMMARIZER_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file (overrides VIDEOSUMMARIZER_CONFIG)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&c.baseURL, "api", "", "Summarizer backend base URL")

	root.AddCommand(
		newSummarizeCmd(c),
		newBatchCmd(c),
		newConfigCmd(c),
		newHealthCmd(c),
		newHistoryCmd(c),
	)
	return root, c
}

// Close releases the application opened by setup.
func (c *cli) Close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.configPath != "" {
		if err := os.Setenv("VIDEOSUMMARIZER_CONFIG", c.configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}

	c.cfg = config.Load()
	if c.logLevel != "" {
		c.cfg.Logging.Level = c.logLevel
	}
	if c.baseURL != "" {
		c.cfg.Backend.BaseURL = c.baseURL
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), c.cfg.Logging.Level, c.cfg.Logging.Format)

	application, err := app.New(cmd.Context(), c.cfg, logger)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}
	c.app = application
	return nil
}
