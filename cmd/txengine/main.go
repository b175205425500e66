package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/txengine/internal/adapter/audit"
	"github.com/iho/txengine/internal/adapter/csvio"
	httpAdapter "github.com/iho/txengine/internal/adapter/http"
	"github.com/iho/txengine/internal/adapter/http/handler"
	"github.com/iho/txengine/internal/domain"
	"github.com/iho/txengine/internal/infrastructure/config"
	"github.com/iho/txengine/internal/infrastructure/logger"
	"github.com/iho/txengine/internal/infrastructure/metrics"
	"github.com/iho/txengine/internal/repository/memory"
	"github.com/iho/txengine/internal/usecase"
)

var (
	logTransactions bool
	workers         int
	httpPort        string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "txengine",
		Short:        "Transaction ledger engine",
		Long:         `Processes a stream of transaction records (deposits, withdrawals, disputes, resolves, chargebacks) and maintains per-client account balances.`,
		SilenceUsage: true,
	}

	processCmd := &cobra.Command{
		Use:   "process <transactions.csv>",
		Short: "Process a transaction file and print the account snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args[0])
		},
	}
	processCmd.Flags().BoolVar(&logTransactions, "log-transactions", false, "append one audit line per transaction attempt")
	processCmd.Flags().IntVar(&workers, "workers", 0, "worker count (default WORKERS env or NumCPU)")

	serveCmd := &cobra.Command{
		Use:   "serve <transactions.csv>",
		Short: "Process a transaction file and serve the snapshot over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args[0])
		},
	}
	serveCmd.Flags().BoolVar(&logTransactions, "log-transactions", false, "append one audit line per transaction attempt")
	serveCmd.Flags().IntVar(&workers, "workers", 0, "worker count (default WORKERS env or NumCPU)")
	serveCmd.Flags().StringVar(&httpPort, "port", "", "HTTP port (default HTTP_PORT env)")

	rootCmd.AddCommand(processCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	sink     domain.AuditSink
	proc     *usecase.ProcessorUseCase
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if httpPort != "" {
		cfg.HTTPPort = httpPort
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	var sinks []domain.AuditSink
	if logTransactions {
		fileSink, err := audit.NewFileSink(cfg.AuditLogPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fileSink)
	}
	if len(cfg.KafkaBrokers) > 0 {
		sinks = append(sinks, audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, log))
	}

	var sink domain.AuditSink
	switch len(sinks) {
	case 0:
		sink = nil
	case 1:
		sink = sinks[0]
	default:
		sink = audit.NewMultiSink(sinks...)
	}

	proc := usecase.NewProcessorUseCase(
		memory.NewAccountStore(),
		memory.NewTxLedger(),
		sink,
		memory.NewULIDGenerator(),
		uuid.NewString(),
		log,
		m,
	)

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		metrics:  m,
		sink:     sink,
		proc:     proc,
	}, nil
}

// ingest streams the input file through the worker pool. A malformed row
// is fatal and aborts the run; business rejections are absorbed by the
// engine and audited.
func (a *app) ingest(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	dispatcher := usecase.NewDispatcher(a.proc, a.cfg.Workers)
	dispatcher.Start()

	records := 0
	readErr := csvio.NewReader(f).Each(func(rec domain.Record) error {
		dispatcher.Submit(rec)
		records++
		return nil
	})
	dispatcher.Wait()

	if readErr != nil {
		return fmt.Errorf("parse input: %w", readErr)
	}

	a.log.Info().
		Int("records", records).
		Int("workers", a.cfg.Workers).
		Msg("input stream processed")
	return nil
}

func runProcess(path string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	if a.sink != nil {
		defer a.sink.Close()
	}

	if err := a.ingest(path); err != nil {
		return err
	}

	report := a.proc.CheckConsistency()
	a.log.Debug().
		Bool("consistent", report.Consistent).
		Int("accounts", report.Accounts).
		Int("transactions", report.Transactions).
		Msg("final state checked")
	if !report.Consistent {
		a.log.Warn().Strs("violations", report.Violations).Msg("ledger state inconsistent")
	}

	return csvio.WriteSnapshots(os.Stdout, a.proc.Snapshots())
}

func runServe(path string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	if a.sink != nil {
		defer a.sink.Close()
	}

	if err := a.ingest(path); err != nil {
		return err
	}

	report := a.proc.CheckConsistency()
	if !report.Consistent {
		a.log.Warn().Strs("violations", report.Violations).Msg("ledger state inconsistent")
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SnapshotHandler: handler.NewSnapshotHandler(a.proc),
		HealthHandler:   handler.NewHealthHandler(),
		Metrics:         a.metrics,
		Registry:        a.registry,
	})

	server := &http.Server{
		Addr:         ":" + a.cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  a.cfg.HTTPReadTimeout,
		WriteTimeout: a.cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.HTTPPort).Msg("serving account snapshot")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	a.log.Info().Msg("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.log.Info().Msg("server stopped")
	return nil
}
