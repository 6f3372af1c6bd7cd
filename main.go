package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/seo-optimizer/page-analyzer/analyzer"
	"github.com/seo-optimizer/page-analyzer/api"
	"github.com/seo-optimizer/page-analyzer/config"
	"github.com/seo-optimizer/page-analyzer/logging"
	"github.com/seo-optimizer/page-analyzer/middleware"
	"github.com/seo-optimizer/page-analyzer/nlp"
	"github.com/seo-optimizer/page-analyzer/report"
	"github.com/seo-optimizer/page-analyzer/stats"
)

const usage = `Usage:
  page-analyzer analyze <url> [--json] [flags]
  page-analyzer serve [flags]

Flags:
`

const (
	shutdownTimeout  = 5 * time.Second
	limiterSweep     = time.Minute
	limiterIdleLimit = 5 * time.Minute
	statsSweep       = time.Hour
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("page-analyzer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	jsonOutput := fs.Bool("json", false, "print the analysis record as JSON (analyze only)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	config.LoadEnv()
	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger, err := logging.New(cfg.LogLevel, cfg.DevMode)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer logging.Sync(logger)

	if _, err := nlp.Init(cfg.StopwordsFile); err != nil {
		logger.Error("failed to load language resources", zap.Error(err))
		return 1
	}
	logger.Debug("language resources ready", zap.String("stopwords", nlp.Source()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd := fs.Arg(0); cmd {
	case "analyze":
		if fs.NArg() != 2 {
			fs.Usage()
			return 2
		}
		return runAnalyze(ctx, cfg, logger, fs.Arg(1), *jsonOutput, stdout, stderr)
	case "serve":
		if err := runServe(ctx, cfg, logger); err != nil {
			logger.Error("server failed", zap.Error(err))
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
}

func runAnalyze(ctx context.Context, cfg *config.Config, logger *zap.Logger, url string, asJSON bool, stdout, stderr io.Writer) int {
	a := analyzer.New(analyzer.Options{
		FetchTimeout: cfg.FetchTimeout,
		Logger:       logger,
	})
	defer a.Shutdown()

	record, err := a.Analyze(ctx, url)
	if err != nil {
		if asJSON {
			_ = json.NewEncoder(stdout).Encode(map[string]string{"error": err.Error()})
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(record); err != nil {
			logger.Error("failed to encode record", zap.Error(err))
			return 1
		}
		return 0
	}

	if err := report.Write(stdout, record); err != nil {
		logger.Error("failed to write report", zap.Error(err))
		return 1
	}
	return 0
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	metrics := stats.NewMetrics(prometheus.DefaultRegisterer)
	statistics := stats.NewStatistics()
	go statistics.Run(ctx, statsSweep)

	a := analyzer.New(analyzer.Options{
		FetchTimeout: cfg.FetchTimeout,
		CacheTTL:     cfg.CacheTTL,
		Recorder:     stats.NewRecorder(metrics, statistics),
		Logger:       logger,
	})
	defer a.Shutdown()

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	go limiter.Run(ctx, limiterSweep, limiterIdleLimit)

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(api.Options{
			Analyzer:    a,
			Logger:      logger,
			RateLimiter: limiter,
			Metrics:     metrics,
			Statistics:  statistics,
			Gatherer:    prometheus.DefaultGatherer,
			DevMode:     cfg.DevMode,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
