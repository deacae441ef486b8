package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/medalboard/internal/probe"
	"github.com/okian/medalboard/pkg/logger"
)

const (
	defaultTopN     = 10
	defaultWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultTimeout  = 30 * time.Second
	defaultDeadline = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		topN      = flag.Int("top", defaultTopN, "Limit passed to bounded views")
		countries = flag.Int("countries", 0, "Countries to check the filter on (0 = all)")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent requests")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		format    = flag.String("log-format", "text", "Log format: text or json")
		report    = flag.String("report", "", "Write the JSON report to this file")
		verbose   = flag.Bool("verbose", false, "Log passing checks too")
	)
	flag.Parse()

	if err := logger.InitWith(os.Stderr, logger.Format(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultDeadline)
	defer cancel()

	res, err := probe.Run(ctx, probe.Config{
		BaseURL:   strings.TrimRight(*baseURL, "/"),
		TopN:      *topN,
		Countries: *countries,
		Workers:   *workers,
		Timeout:   *timeout,
		Verbose:   *verbose,
	})
	if res != nil && *report != "" {
		if werr := writeReport(*report, res); werr != nil {
			logger.Get().Error(ctx, "failed to write report", logger.String("path", *report), logger.Error(werr))
		}
	}
	if err != nil {
		logger.Get().Error(ctx, "probe failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}

func writeReport(path string, r *probe.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
