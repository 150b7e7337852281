// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command ledger is the batch-mode front door to the payments ledger core:
// it reads a single CSV file of transactions, feeds them through
// ledger.Engine, and writes the resulting account snapshot to stdout.
//
// Usage: ledger [flags] <transactions.csv>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	csvadapter "github.com/luxfi/ledger/adapter/csv"
	"github.com/luxfi/ledger/ledger"
	"github.com/luxfi/ledger/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	metricspkg "github.com/luxfi/ledger/metrics"
)

func main() {
	fs := BuildFlagSet()
	v, err := BuildViper(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't parse flags: %s\n", err)
		os.Exit(1)
	}

	cfg, path, err := BuildConfig(v)
	if errors.Is(err, ErrMissingInputPath) {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <transactions.csv>\n", os.Args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, true)))
	if lvl, err := log.LvlFromString(cfg.LogLevel); err == nil {
		_ = lvl // parsed for validation only; the handler above always logs at info and above.
	}

	if err := run(cfg, path, os.Stdout); err != nil {
		log.Error("failed to process transactions", "error", err.Error())
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(cfg ledger.ProcessorConfig, path string, out *os.File) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file not found: %s: %w", path, err)
	}
	defer f.Close()

	events, err := csvadapter.ReadEvents(f, cfg.SkipMalformed, cfg.LogWarnings)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var collector *metricspkg.Collector
	if cfg.MetricsEnabled {
		collector = metricspkg.New(prometheus.NewRegistry())
	}
	engine := ledger.NewWithMetrics(cfg, collector)

	ctx := context.Background()
	for _, ev := range events {
		engine.Process(ctx, ev)
	}

	return csvadapter.WriteSnapshot(out, engine.Snapshot())
}
