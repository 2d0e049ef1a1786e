// LeakGuard service entry point: HTTP safety API, Prometheus metrics and a
// one-shot scan command.
//
// Usage:
//
//	leakguard serve                       # start the service
//	leakguard serve --config config.yaml  # with a config file
//	leakguard scan --document brief.txt   # scan a document from the CLI
//	leakguard version                     # show version information
//	leakguard health                      # check a running server
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/leakguard"
	"github.com/BaSui01/leakguard/config"
	"github.com/BaSui01/leakguard/internal/metrics"
	"github.com/BaSui01/leakguard/internal/server"
	"github.com/BaSui01/leakguard/leak"
	"github.com/BaSui01/leakguard/record"
)

// Version information, injected at build time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "scan":
		runScan(os.Args[2:])
	case "version":
		printVersion()
	case "health":
		runHealthCheck(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg, err := config.NewLoader().WithConfigPath(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("starting leakguard",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	source, cleanup, err := buildSource(cfg, logger)
	if err != nil {
		logger.Fatal("record source unavailable", zap.Error(err))
	}
	defer cleanup()

	engine, err := leakguard.New(
		leakguard.WithSource(source),
		leakguard.WithLogger(logger),
		leakguard.WithMaxInputLength(cfg.Guard.MaxInputLength),
		leakguard.WithMaxOutputLength(cfg.Guard.MaxOutputLength),
		leakguard.WithCustomPatterns(cfg.Guard.CustomPatterns...),
		leakguard.WithScanConcurrency(cfg.Guard.ScanConcurrency),
	)
	if err != nil {
		logger.Fatal("engine init failed", zap.Error(err))
	}

	collector := metrics.NewCollector("leakguard", nil, logger)
	mgr := server.NewManager(cfg.Server, engine, collector, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mgr.Start(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("leakguard stopped")
}

func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	documentPath := fs.String("document", "", "Path to the document to scan")
	entity := fs.String("entity", "", "Restrict the scan to one entity")
	fs.Parse(args)

	if *documentPath == "" {
		fmt.Fprintln(os.Stderr, "scan: --document is required")
		os.Exit(1)
	}

	cfg, err := config.NewLoader().WithConfigPath(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	document, err := os.ReadFile(*documentPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read document: %v\n", err)
		os.Exit(1)
	}

	source, cleanup, err := buildSource(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Record source unavailable: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	scanner := leak.NewScanner(source, leak.WithLogger(logger))
	var entities []string
	if *entity != "" {
		entities = append(entities, *entity)
	}

	report, err := scanner.Scan(context.Background(), string(document), entities...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(leak.RenderText(report))
	if report.Severity == leak.SeverityHigh {
		os.Exit(2)
	}
}

// buildSource assembles the configured record backend, optionally wrapped in
// the redis read-through cache.
func buildSource(cfg *config.Config, logger *zap.Logger) (record.Source, func(), error) {
	var (
		source record.Source
		err    error
	)
	cleanup := func() {}

	switch cfg.Records.Backend {
	case "file":
		source, err = record.LoadFile(cfg.Records.Path)
	case "sqlite":
		source, err = record.OpenStore(record.DriverSQLite, cfg.Records.DSN, logger)
	case "postgres":
		source, err = record.OpenStore(record.DriverPostgres, cfg.Records.DSN, logger)
	default:
		return nil, nil, fmt.Errorf("unknown records backend %q", cfg.Records.Backend)
	}
	if err != nil {
		return nil, nil, err
	}

	if cfg.Redis.Enabled {
		cached, cacheErr := record.NewCachedSource(source, record.CacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, logger)
		if cacheErr != nil {
			logger.Warn("record cache unavailable, using backend directly", zap.Error(cacheErr))
		} else {
			source = cached
			cleanup = func() { _ = cached.Close() }
		}
	}
	return source, cleanup, nil
}

func runHealthCheck(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:8080", "Server address")
	fs.Parse(args)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*addr + "/healthz")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: status %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	level := zapcore.InfoLevel
	_ = level.Set(cfg.Level)

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func printVersion() {
	fmt.Printf("LeakGuard %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`LeakGuard - Leak Detection & Input/Output Safety Engine

Usage:
  leakguard <command> [options]

Commands:
  serve     Start the safety API server
  scan      Scan a document against the record database
  version   Show version information
  health    Check server health
  help      Show this help message

Options for 'serve':
  --config <path>     Path to configuration file (YAML)

Options for 'scan':
  --config <path>     Path to configuration file (YAML)
  --document <path>   Document to scan (required)
  --entity <name>     Restrict the scan to one entity`)
}
