package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/api"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/config"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/download"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/models"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/orders"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/pacing"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/report"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/service"
)

// Convertir niveles de Zap a severidad de GCP Cloud Logging
func zapLevelToGCPSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString("DEBUG")
	case zapcore.InfoLevel:
		enc.AppendString("INFO")
	case zapcore.WarnLevel:
		enc.AppendString("WARNING")
	case zapcore.ErrorLevel:
		enc.AppendString("ERROR")
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		enc.AppendString("CRITICAL")
	case zapcore.FatalLevel:
		enc.AppendString("EMERGENCY")
	default:
		enc.AppendString("DEFAULT")
	}
}

func initLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeLevel = zapLevelToGCPSeverity
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// stdout queda libre para las tablas de resumen
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fotocheck: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath     string
		enableDownload bool
		ordersDir      string
		downloadsDir   string
	)

	cmd := &cobra.Command{
		Use:          "fotocheck",
		Short:        "Check Fotoparadies order statuses and optionally download photos",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := initLogger()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()
			zap.ReplaceGlobals(logger)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if ordersDir != "" {
				cfg.OrdersDir = ordersDir
			}
			if downloadsDir != "" {
				cfg.DownloadsDir = downloadsDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg, enableDownload)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Optional YAML config file")
	cmd.Flags().BoolVar(&enableDownload, "download", false, "Download photos for orders that are ready for pickup and have a secure_id")
	cmd.Flags().StringVar(&ordersDir, "orders-dir", "", "Folder containing CSV batch files (overrides config)")
	cmd.Flags().StringVar(&downloadsDir, "downloads-dir", "", "Folder for downloaded photos (overrides config)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, enableDownload bool) error {
	if _, err := os.Stat(cfg.OrdersDir); err != nil {
		return fmt.Errorf("orders folder %q not found", cfg.OrdersDir)
	}

	// Con descarga habilitada la raíz de descargas tiene que existir antes
	// de arrancar; si no se puede crear no tiene sentido seguir.
	if enableDownload {
		if err := os.MkdirAll(cfg.DownloadsDir, 0o755); err != nil {
			return fmt.Errorf("could not create download folder %q: %w", cfg.DownloadsDir, err)
		}
	}

	client := api.NewStatusClient(cfg)
	fetcher := download.NewFetcher(cfg)
	pacer := pacing.NewLimiterPacer(cfg.RequestDelay)
	svc := service.NewOrderService(client, fetcher, pacer, cfg.DownloadsDir)

	files, err := orders.ListBatchFiles(cfg.OrdersDir)
	if err != nil {
		return err
	}

	var processedFiles []string
	resultsByFile := make(map[string][]models.ResultRecord)

	for _, file := range files {
		name := filepath.Base(file)
		zap.L().Info("processing batch file", zap.String("file", name))

		batch, err := orders.ReadBatchFile(file)
		if err != nil {
			zap.L().Error("skipping unreadable batch file",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}

		resultsByFile[name] = svc.ProcessBatch(ctx, batch, enableDownload)
		processedFiles = append(processedFiles, name)
	}

	report.RenderSummary(os.Stdout, processedFiles, resultsByFile)
	return nil
}
