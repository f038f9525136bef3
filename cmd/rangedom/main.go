package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/rangedom/internal/config"
	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configDir string
	shrink    string
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "rangedom",
		Short: "Render and serve retained-mode component trees",
		Long: `rangedom mounts virtual node trees into an HTML document and keeps
them in sync as component state changes.

  • render    print the HTML of a demo tree
  • serve     run the live server (HTTP + WebSocket events)
  • snapshot  render a demo and store it in S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configDir, "config", "c", ".", "Directory containing rangedom.json or rangedom.yaml")
	rootCmd.PersistentFlags().StringVar(&flags.shrink, "shrink", "", "Shrink policy override: delete, retain or error")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override: debug, info, warn or error")

	rootCmd.AddCommand(
		renderCmd(flags),
		serveCmd(flags),
		snapshotCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// load reads the config, applies flag overrides and builds the logger.
func (f *globalFlags) load(logOut io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(f.configDir)
	if err != nil {
		return nil, nil, err
	}
	if f.shrink != "" {
		cfg.Engine.ShrinkPolicy = f.shrink
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger(logOut)
	return cfg, logger, nil
}

// engineOptions returns the renderer options for cfg with logger attached.
func engineOptions(cfg *config.Config, logger *slog.Logger, extra ...vdom.Option) []vdom.Option {
	opts := append(cfg.EngineOptions(), vdom.WithLogger(logger))
	return append(opts, extra...)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
