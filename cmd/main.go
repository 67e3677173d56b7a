package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/jobcore/internal/config"
	"github.com/ZanzyTHEbar/jobcore/internal/jobs"
	"github.com/ZanzyTHEbar/jobcore/internal/logger"
	"github.com/ZanzyTHEbar/jobcore/internal/metrics"
)

func main() {
	if err := buildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildCLI() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "jobcore",
		Short:         "Job execution core: scheduling, lifecycle events and cooperative blocking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.json", "config file path")

	rootCmd.AddCommand(buildDemoCommand(&configFile))
	rootCmd.AddCommand(buildConfigCommand(&configFile))
	return rootCmd
}

func buildDemoCommand(configFile *string) *cobra.Command {
	var (
		timeout  time.Duration
		workers  int
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the example jobs until interrupted or the timeout expires",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if workers > 0 {
				cfg.WorkerPool.CoreSize = workers
			}
			if logLevel != "" {
				cfg.System.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return runDemo(cmd.Context(), cfg, timeout)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "stop the demo after this long (0 waits for a signal)")
	cmd.Flags().IntVar(&workers, "workers", 0, "override the worker count (0 uses the config value)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "override the log level")
	return cmd
}

func buildConfigCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(*configFile); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", *configFile)
			}
			if err := config.DefaultConfig().SaveToFile(*configFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", *configFile)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (defaults, file, environment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", *cfg)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func runDemo(parent context.Context, cfg *config.Config, timeout time.Duration) error {
	log, err := logger.New(cfg.System, os.Stderr)
	if err != nil {
		return err
	}
	log.Info().Int("workers", cfg.WorkerPool.CoreSize).Int("queue", cfg.WorkerPool.QueueSize).Msg("Starting jobcore")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	manager := jobs.NewManager(
		jobs.WithLogger(log),
		jobs.WithPoolSize(cfg.WorkerPool.CoreSize, cfg.WorkerPool.QueueSize),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg, log)
	collector.Attach(manager)

	var server *http.Server
	if cfg.System.MetricsEnabled {
		server = serveMetrics(cfg.System.MetricsAddress, reg, log)
	}

	statsCtx, stopStats := context.WithCancel(ctx)
	var statsStopped <-chan struct{}
	if cfg.Jobs.StatsInterval > 0 {
		statsStopped = collector.StartStatsMonitor(statsCtx, cfg.Jobs.StatsInterval, manager)
	} else {
		closed := make(chan struct{})
		close(closed)
		statsStopped = closed
	}

	if err := runDemoExamples(ctx, manager, log); err != nil {
		log.Error().Err(err).Msg("Demo examples failed")
	}

	log.Info().Msg("System running, press Ctrl+C to stop")
	<-ctx.Done()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Info().Dur("timeout", timeout).Msg("Demo timeout reached")
	} else {
		log.Info().Msg("Shutdown signal received")
	}

	stopStats()
	<-statsStopped

	log.Info().Msg("Shutting down")
	manager.Shutdown()
	waitCtx, cancel := context.WithTimeout(context.Background(), cfg.Jobs.ShutdownTimeout)
	defer cancel()
	if err := manager.AwaitTermination(waitCtx); err != nil {
		log.Warn().Err(err).Msg("Workers did not terminate in time")
	}

	if server != nil {
		if err := server.Shutdown(waitCtx); err != nil {
			log.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}

	collector.PrintStats(manager)
	log.Info().Msg("jobcore shutdown complete")
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("Metrics server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return server
}
