package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ikigai-ua/formrelay/internal/api"
	"github.com/ikigai-ua/formrelay/internal/build"
	"github.com/ikigai-ua/formrelay/internal/config"
	"github.com/ikigai-ua/formrelay/internal/logger"
	"github.com/ikigai-ua/formrelay/internal/metrics"
	"github.com/ikigai-ua/formrelay/internal/notification"
	"github.com/ikigai-ua/formrelay/internal/server"
	"github.com/ikigai-ua/formrelay/internal/service"
	"github.com/ikigai-ua/formrelay/internal/telemetry"
)

// NewServeCmd returns the "serve" subcommand that starts the HTTP server.
func NewServeCmd(cfg *config.AppConfig) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:         "serve",
		Annotations: needsConfig,
		Short:       "Start the contact-form HTTP server",
		Long: `Start the HTTP server that accepts POST /submitForm, emails each submission
to RECEIVING_EMAIL and stores it in the configured store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides PORT env var, default 8080)")
	return cmd
}

func runServe(parent context.Context, cfg *config.AppConfig) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logDir := ""
	if cfg.LogFile {
		logDir = cfg.LogDir()
	}
	sysLogger, closeLog, err := logger.NewSystemLogger(logger.Options{Level: cfg.SlogLevel(), LogDir: logDir})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer closeLog.Close() //nolint:errcheck

	sysLogger.Info("formrelay starting",
		slog.Int("port", cfg.Port),
		slog.String("store", cfg.StoreDriver),
		slog.String("data_dir", cfg.DataDir),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "formrelay",
		Version:     build.Version,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			sysLogger.Warn("flushing traces", "error", err)
		}
	}()
	if cfg.OTLPEndpoint != "" {
		sysLogger.Info("exporting traces", "endpoint", cfg.OTLPEndpoint)
	}

	// Delivery settings are checked on every request; a gap here is only a warning.
	if missing := cfg.Mail.Missing(); len(missing) > 0 {
		sysLogger.Warn("mail configuration incomplete, submissions will fail until it is set",
			"missing", missing)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		sysLogger.Error("opening submission store", "error", err)
		return fmt.Errorf("opening submission store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			sysLogger.Warn("closing submission store", "error", err)
		}
	}()

	reg := metrics.NewRegistry()
	submissionSvc := service.NewSubmissionService(
		cfg.Mail,
		notification.NewSMTPProvider(cfg.Mail),
		store,
		sysLogger,
		service.WithLocation(cfg.Location()),
		service.WithMetrics(metrics.New(reg)),
	)

	srv := server.New(api.New(submissionSvc, sysLogger), store, server.Options{
		Port:          cfg.Port,
		AllowedOrigin: cfg.AllowedOrigin,
		Gatherer:      reg,
	}, sysLogger)

	logFile := ""
	if cfg.LogFile {
		logFile = filepath.Join(cfg.LogDir(), logger.SystemLogFile)
	}
	printBanner(os.Stdout, bannerInfo{
		Version:   build.Version,
		ServerURL: fmt.Sprintf("http://localhost:%d", cfg.Port),
		Origin:    cfg.AllowedOrigin,
		Store:     cfg.StoreDriver,
		LogFile:   logFile,
	})

	sysLogger.Info("server ready", "port", cfg.Port)
	return srv.Run(ctx)
}
