package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/miteshsondhi/swagger-stats/internal/app"
	"github.com/miteshsondhi/swagger-stats/internal/cliconfig"
	"github.com/miteshsondhi/swagger-stats/internal/source"
	"github.com/miteshsondhi/swagger-stats/pkg/emitter"
	"github.com/miteshsondhi/swagger-stats/pkg/log"
)

const longHelp = `Ship swagger-stats API request/response records to Elasticsearch.

swsship tails a file of newline-delimited JSON records, buffers them and
writes them to daily api-YYYY.MM.DD indices through the _bulk endpoint.
A buffer is flushed once it holds 50 records, or on the next tick after it
has been idle for a second.

Configuration is read from $HOME/.swsship/config.toml, then SWS_* environment
variables, then flags. Without an Elasticsearch endpoint records are read and
discarded.`

var exampleUsage = strings.TrimSpace(`
  swsship --input /var/log/api.ndjson --elasticsearch http://localhost:9200
  swsship --input api.ndjson --from-start --once --elasticsearch https://search-x.eu-west-1.es.amazonaws.com --aws-region eu-west-1
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "swsship",
		Short:         "Ship API request/response records to Elasticsearch",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// SWS_* override the file but not explicit flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			zl := cliconfig.Logger(cfg.LogLevel)
			zl.Info().Interface("config", cfg.Masked()).Msg("configuration")
			return run(cfg, zl)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.swsship/config.toml)")
	root.Flags().StringVar(&cfg.Elasticsearch, "elasticsearch", cfg.Elasticsearch, "Elasticsearch endpoint URL; empty disables shipping")
	root.Flags().StringVar(&cfg.IndexPrefix, "index-prefix", cfg.IndexPrefix, "prefix for daily index names")

	root.Flags().StringVar(&cfg.AWSAccessKeyID, "aws-access-key-id", cfg.AWSAccessKeyID, "AWS access key id for signed requests")
	root.Flags().StringVar(&cfg.AWSSecretAccessKey, "aws-secret-access-key", cfg.AWSSecretAccessKey, "AWS secret access key for signed requests")
	root.Flags().StringVar(&cfg.AWSSessionToken, "aws-session-token", cfg.AWSSessionToken, "AWS session token")
	root.Flags().StringVar(&cfg.AWSRegion, "aws-region", cfg.AWSRegion, "AWS region of the domain")
	root.Flags().StringVar(&cfg.AWSService, "aws-service", cfg.AWSService, "SigV4 service name (default es)")
	if err := root.Flags().MarkHidden("aws-service"); err != nil {
		l := cliconfig.Logger("info")
		l.Info().Err(err).Msg("failed to hide aws-service flag")
	}

	root.Flags().StringVar(&cfg.Input, "input", cfg.Input, "NDJSON record file to tail")
	root.Flags().BoolVar(&cfg.FromStart, "from-start", cfg.FromStart, "read the input from the beginning instead of the end")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "ship what the input holds and exit")
	root.Flags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for the saved read position (resume disabled when empty)")

	root.Flags().DurationVar(&cfg.TickInterval, "tick-interval", cfg.TickInterval, "how often the flush timer is checked")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "how long shutdown waits for in-flight writes")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address to serve Prometheus metrics on (disabled when empty)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		l := cliconfig.Logger("info")
		l.Error().Err(err).Msg("swsship")
		os.Exit(1)
	}
}

func run(cfg cliconfig.Config, zl zerolog.Logger) error {
	logger := log.NewZerologAdapterWithLogger(zl)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := emitter.New(
		emitter.WithLogger(logger),
		emitter.WithRegisterer(reg),
	)
	if err := e.Initialize(cfg.EmitterConfig()); err != nil {
		return fmt.Errorf("initialize emitter: %w", err)
	}

	tailerCfg := source.TailerConfig{
		FromStart: cfg.FromStart,
		Once:      cfg.Once,
	}
	if cfg.StateDir != "" {
		tailerCfg.Positions = source.NewFilePositionStore(cfg.StateDir)
	}
	tailer := source.NewFileTailer(cfg.Input, tailerCfg, logger)

	shipper := app.NewShipper(app.ShipperConfig{
		TickInterval:    cfg.TickInterval,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, e, tailer, logger)

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zl.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server")
			}
		}()
		zl.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := shipper.Start(ctx); err != nil {
		return fmt.Errorf("start shipper: %w", err)
	}

	select {
	case <-ctx.Done():
		zl.Info().Msg("received signal, stopping...")
	case <-shipper.Done():
	}

	err := shipper.Stop()
	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(sctx)
		cancel()
	}
	if err != nil {
		return fmt.Errorf("stop shipper: %w", err)
	}
	return nil
}
