package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoobzio/batchz"
	"github.com/zoobzio/batchz/internal/demo"
)

func NewDemoCommand() *cobra.Command {
	var configFile string
	v := viper.New()

	command := &cobra.Command{
		Use:   "demo [scenario...]",
		Short: "Replay batching scenarios on a live event stream",
		Long: "Replay batching scenarios on a live event stream.\n" +
			"Run with no arguments, or \"all\", to run every scenario concurrently.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				v.SetConfigFile(configFile)
			}
			config, err := demo.LoadConfig(v)
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 || (len(names) == 1 && names[0] == "all") {
				names = demo.Names()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := batchz.LoggerFromContext(ctx).Named("demo")
			defer func() { _ = log.Sync() }()

			env := demo.Env{
				Config: config,
				Clock:  batchz.RealClock,
				Logger: log,
			}
			if config.MetricsAddr != "" {
				reg := prometheus.NewRegistry()
				if env.Metrics, err = batchz.NewMetrics(reg); err != nil {
					return err
				}
				shutdown := serveMetrics(config.MetricsAddr, reg, log.Errorw)
				defer shutdown()
			}

			log.Infow("Running scenarios", "scenarios", names)
			if err := demo.RunAll(batchz.WithLogger(ctx, log), env, names...); err != nil {
				return fmt.Errorf("demo failed: %w", err)
			}
			return nil
		},
	}

	d := demo.DefaultConfig()
	flags := command.Flags()
	flags.StringVar(&configFile, "config", "", "path to a configuration file")
	flags.Duration("interval", d.Interval, "interval between events of the string stream")
	flags.Int("count", d.Count, "number of events taken from the string stream")
	flags.Int("max-count", d.MaxCount, "maximum events per batch for buffer-timeout")
	flags.Duration("max-duration", d.MaxDuration, "maximum batch latency for buffer-timeout")
	flags.Duration("window-period", d.WindowPeriod, "window length for window-time")
	flags.Duration("group-interval", d.GroupInterval, "interval between integers of group-parity")
	flags.Int("group-count", d.GroupCount, "number of integers for group-parity")
	flags.Duration("window", d.Window, "window length for group-parity")
	flags.String("metrics-addr", d.MetricsAddr, "serve Prometheus metrics on this address")
	_ = v.BindPFlags(flags)

	return command
}

func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range demo.Names() {
				s, _ := demo.Lookup(name)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", s.Name, s.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logError func(string, ...interface{})) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logError("Metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
