package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/rangedom/internal/demo"
	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/live"
	"github.com/vango-dev/rangedom/pkg/metrics"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve <demo>",
		Short: "Serve a demo over HTTP with live WebSocket events",
		Long: `Start the live server. Every page load opens a session with its own
document; clicks in the browser are sent over a WebSocket, dispatched to the
element's listeners, and answered with the reconciled HTML.

Examples:
  rangedom serve counter
  rangedom serve todo --port=8080 --shrink retain`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: demo.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			name := args[0]
			if _, ok := demo.Apps[name]; !ok {
				return errors.New("E001").
					WithComponent(name).
					WithSuggestion("Available demos: " + strings.Join(demo.Names(), ", "))
			}

			liveCfg := live.Config{
				App:         demo.Apps[name],
				IdleTimeout: cfg.IdleTimeout(),
				Logger:      logger,
			}
			var extra []vdom.Option
			if cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector())
				obs := metrics.NewObserver(
					metrics.WithRegistry(reg),
					metrics.WithNamespace(cfg.Metrics.Namespace),
				)
				extra = append(extra, vdom.WithObserver(obs))
				liveCfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
			}
			liveCfg.EngineOptions = engineOptions(cfg, logger, extra...)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.ErrOrStderr()
			success(out, "Serving %s", name)
			info(out, "URL:     http://%s/", cfg.Address())
			info(out, "Shrink:  %s", cfg.Engine.ShrinkPolicy)
			if cfg.Metrics.Enabled {
				info(out, "Metrics: http://%s/metrics", cfg.Address())
			}
			fmt.Fprintln(out)

			return live.New(liveCfg).ListenAndServe(ctx, cfg.Address())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}
