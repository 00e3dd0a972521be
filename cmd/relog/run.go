package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"relog-hq/relog/pkg/cli"
	"relog-hq/relog/pkg/config"
	"relog-hq/relog/pkg/recorder"
	"relog-hq/relog/pkg/server"
	"relog-hq/relog/pkg/telemetry/logging"
	"relog-hq/relog/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relog server",
	Long: `Start the relog server with the specified configuration.

The server wraps its application routes in the request log recorder and
exposes /health and the metrics endpoint alongside them.

Examples:
  # Start with default config
  relog run

  # Start with custom config
  relog run --config /etc/relog/config.yaml

  # Override listen address
  relog run --listen 0.0.0.0:8080

  # Validate config without starting server
  relog run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(&cfg.Telemetry.Logging); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Relog v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	rec, err := recorder.New(buildOpener(cfg), recorderOptions(cfg, collector))
	if err != nil {
		return cli.NewConfigError("project.name", err.Error())
	}

	ctx := cli.SetupSignalHandler()

	// Hot reload of the runtime-tunable recorder options.
	if cfg.Recorder.Watch {
		watcher, err := config.NewWatcher(cfgFile)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		go func() {
			err := watcher.Watch(ctx, func(newCfg *config.Config) {
				var slow = config.DefaultSlowTime
				if newCfg.Recorder.SlowTime != nil {
					slow = *newCfg.Recorder.SlowTime
				}
				rec.SetRuntimeOptions(slow, ttlOverrides(&newCfg.Recorder.TTL), logTypes(newCfg.Recorder.LogTypes))
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "config watcher stopped: %v\n", err)
			}
		}()
		defer watcher.Stop()
		fmt.Println("✓ Config watcher started")
	}

	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, rec, collector, nil)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// recorderOptions maps the loaded configuration onto recorder options.
func recorderOptions(cfg *config.Config, collector *metrics.Collector) recorder.Options {
	opts := recorder.Options{
		Project:         cfg.Project.Name,
		Environment:     cfg.Project.Environment,
		PendingDelay:    cfg.Recorder.PendingDelay,
		TTL:             ttlOverrides(&cfg.Recorder.TTL),
		LogTypes:        logTypes(cfg.Recorder.LogTypes),
		BodyLimit:       cfg.Recorder.BodyLimit,
		BreakerCooldown: cfg.Store.Breaker.Cooldown,
		Metrics:         collector,
	}
	if cfg.Recorder.SlowTime != nil {
		opts.SlowTime = *cfg.Recorder.SlowTime
	}
	return opts
}

// ttlOverrides collects the configured per-type TTLs, leaving unset entries
// to the recorder's type defaults.
func ttlOverrides(ttl *config.TTLConfig) map[recorder.Type]time.Duration {
	out := make(map[recorder.Type]time.Duration)
	if ttl.Pending > 0 {
		out[recorder.TypePending] = ttl.Pending
	}
	if ttl.Completed > 0 {
		out[recorder.TypeCompleted] = ttl.Completed
	}
	if ttl.Slow > 0 {
		out[recorder.TypeSlow] = ttl.Slow
	}
	if ttl.Error > 0 {
		out[recorder.TypeError] = ttl.Error
	}
	return out
}

func logTypes(names []string) []recorder.Type {
	types := make([]recorder.Type, 0, len(names))
	for _, name := range names {
		types = append(types, recorder.Type(name))
	}
	return types
}
