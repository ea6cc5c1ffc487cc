package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/concurrency"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/convert"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/logger"
	"github.com/ajitpratap0/tablebridge/pkg/observability"
)

var version = "0.1.0"

// app holds the state shared by every command.
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	log        *zap.Logger
	sequential bool
	profile    profiler
	shutdown   func(context.Context) error
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	a := &app{v: viper.New()}
	root := newRootCommand(a)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "tablebridge",
		Short: "Convert between row-oriented datasets and columnar tables",
		Long: `tablebridge converts legacy row-oriented datasets (JSON) to Arrow columnar
tables (IPC streams or portable view bytes) and back, preserving value types,
roles and dictionaries.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, configFile)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file")
	flags.Bool("legacy-mode", false, "Round integer ties towards positive infinity")
	flags.Int("workers", runtime.NumCPU(), "Number of concurrent column tasks")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Bool("trace", false, "Print OpenTelemetry spans to stderr")
	flags.BoolVar(&a.sequential, "sequential", false, "Convert on a single goroutine")
	flags.StringVar(&a.profile.cpuFile, "cpuprofile", "", "Write a CPU profile to this file")
	flags.StringVar(&a.profile.memFile, "memprofile", "", "Write a heap profile to this file on exit")
	flags.BoolVar(&a.profile.resources, "resources", false, "Log process resource usage on exit")

	config.SetDefaults(a.v)
	_ = a.v.BindPFlag("conversion.legacy_mode", flags.Lookup("legacy-mode"))
	_ = a.v.BindPFlag("concurrency.workers", flags.Lookup("workers"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("observability.enable_tracing", flags.Lookup("trace"))
	a.v.SetEnvPrefix("TABLEBRIDGE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tablebridge v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(
		newToTableCommand(a),
		newToLegacyCommand(a),
		newHeaderCommand(a),
		newInspectCommand(a),
	)
	return root
}

// setup layers config file, environment and flags, then starts logging and
// tracing.
func (a *app) setup(cmd *cobra.Command, configFile string) error {
	if configFile != "" {
		a.v.SetConfigFile(configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	a.log = logger.Get().With(zap.String("component", "tablebridge-cli"), zap.String("command", cmd.Name()))

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig(version)
		tc.Writer = cmd.ErrOrStderr()
		shutdown, err := observability.InitTracing(tc)
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}
	return a.profile.start()
}

func (a *app) teardown() error {
	if err := a.profile.stop(a.log); err != nil {
		a.log.Warn("failed to finish profiling", zap.Error(err))
	}
	if a.shutdown != nil {
		if err := a.shutdown(context.Background()); err != nil {
			a.log.Warn("failed to flush traces", zap.Error(err))
		}
	}
	_ = logger.Sync()
	return nil
}

func (a *app) converter() *convert.Converter {
	return convert.FromConfig(a.cfg, a.log)
}

// execution returns the worker pool for a conversion and a release
// function, or a nil pool when --sequential is set. Interrupts stop it.
func (a *app) execution(ctx context.Context) (context.Context, *concurrency.Pool, func()) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	if a.sequential {
		return ctx, nil, stop
	}
	pool := concurrency.NewPool(concurrency.PoolConfig{
		Name:    "tablebridge",
		Workers: a.cfg.Concurrency.GetWorkers(),
	}, a.log)
	return ctx, pool, func() {
		pool.Stop()
		stop()
	}
}

func (a *app) toTable(ctx context.Context, ds *legacy.Dataset) (*columnar.Table, error) {
	ctx, pool, release := a.execution(ctx)
	defer release()
	if pool == nil {
		return a.converter().ToTableSequentially(ctx, ds)
	}
	return a.converter().ToTable(ctx, ds, pool)
}

func (a *app) toDataset(ctx context.Context, tbl *columnar.Table) (*legacy.Dataset, error) {
	ctx, pool, release := a.execution(ctx)
	defer release()
	if pool == nil {
		return a.converter().ToDatasetSequentially(ctx, tbl)
	}
	return a.converter().ToDataset(ctx, tbl, pool)
}
