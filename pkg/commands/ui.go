package commands

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"tableflip.dev/listings/pkg/commands/options"
	"tableflip.dev/listings/pkg/listing"
	teaui "tableflip.dev/listings/pkg/tui/app"
)

func addUI(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	var debugLog, metrics string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
listings ui
listings ui --city berlin --metrics :9090
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("ui: stdout is not a terminal, try 'listings get'")
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())

			s, err := openSession(ctx, so, reg, listing.WithDateThreshold(0))
			if err != nil {
				return err
			}
			if debugLog != "" {
				s.Config.DebugLog = debugLog
			}
			if metrics != "" {
				s.Config.Metrics = metrics
			}
			if s.Config.Metrics != "" {
				stop := serveMetrics(s.Config.Metrics, reg)
				defer stop()
			}
			return teaui.Run(teaui.Options{
				Controller: s.Controller,
				Watcher:    s.Cart,
				DebugLog:   s.Config.DebugLog,
			})
		},
	}

	options.AddSourceArgs(cmd, so)
	cmd.Flags().StringVar(&debugLog, "debug-log", "", "Write debug logs to this file.")
	cmd.Flags().StringVar(&metrics, "metrics", "", "Serve Prometheus metrics on this address, e.g. :9090.")
	_ = cmd.RegisterFlagCompletionFunc("city", cityCompletions)

	topLevel.AddCommand(cmd)
}

// serveMetrics exposes reg on addr until the returned func is called.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics: %v", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
