package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dirsrv/kdc/internal/logger"
	"github.com/dirsrv/kdc/internal/netkdc"
	"github.com/dirsrv/kdc/internal/telemetry"
	"github.com/dirsrv/kdc/pkg/config"
	"github.com/dirsrv/kdc/pkg/kdcmetrics"
	"github.com/dirsrv/kdc/pkg/krb5msg"
	"github.com/dirsrv/kdc/pkg/principalstore"
	"github.com/dirsrv/kdc/pkg/registry"
	"github.com/dirsrv/kdc/pkg/replaycache"
	"github.com/dirsrv/kdc/pkg/tgs"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the kdcd server",
	Long: `Start the kdcd TGS server with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/kdcd/config.yaml.

Examples:
  # Start with the default config location
  kdcd start

  # Start with a custom config file
  kdcd start --config /etc/kdcd/config.yaml

  # Start with environment variable overrides
  KDC_LOGGING_LEVEL=DEBUG kdcd start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "kdcd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "kdcd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("configuration loaded", "source", getConfigSource(GetConfigFile()))

	principals, err := principalstore.NewKeytabStore(cfg.Keytab.Path)
	if err != nil {
		return fmt.Errorf("failed to load keytab: %w", err)
	}
	defer principals.Close()

	replays := replaycache.New(cfg.ReplayCache.TTL)

	promReg := prometheus.NewRegistry()
	metrics := kdcmetrics.New(promReg)

	bootstrap, err := loadBootstrapSchema(cfg.Registry.BootstrapPath)
	if err != nil {
		return fmt.Errorf("failed to load schema bootstrap: %w", err)
	}
	schemaRegistry := registry.New(cfg.Registry.SchemaName, bootstrap)
	schemaRegistry.SetObserver(registryMetricsObserver{metrics: metrics})
	logger.Info("schema registry ready", "schema_name", cfg.Registry.SchemaName, "bootstrap_objects", len(bootstrap))

	core := &tgs.Core{
		Config:     cfg.KDC.ToTGSConfig(),
		Principals: principalStoreAdapter{store: principals},
		Replays:    replays,
		Cipher:     gokrb5Cipher{},
		Checksums:  gokrb5Cipher{},
		Keys:       gokrb5Cipher{},
		Codec:      krb5msg.GobCodec{},
		Metrics:    metrics,
	}

	netServer := &netkdc.Server{
		Addr:  cfg.Listen,
		Core:  core,
		Codec: krb5msg.GobCodec{},
	}

	httpAddr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	var httpReg *prometheus.Registry
	if cfg.Metrics.Enabled {
		httpReg = promReg
	}
	httpSrv := &http.Server{Addr: httpAddr, Handler: newHealthRouter(httpReg)}

	serverErr := make(chan error, 2)
	go func() { serverErr <- netServer.Serve(ctx) }()
	go func() {
		logger.Info("health/metrics endpoint listening", "addr", httpAddr, "metrics_enabled", cfg.Metrics.Enabled)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("kdcd is running", "realm", cfg.KDC.PrimaryRealm, "listen", cfg.Listen)

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		logger.Info("kdcd stopped gracefully")

	case err := <-serverErr:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		logger.Info("server stopped")
	}

	return nil
}
