// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command ledger-server is the TCP front door to the payments ledger core:
// each connection sends a full CSV transaction stream and receives back
// the resulting account snapshot as CSV. Transactions submitted across
// different connections share one ledger.Engine, so balances persist for
// the life of the process.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	csvadapter "github.com/luxfi/ledger/adapter/csv"
	"github.com/luxfi/ledger/ledger"
	"github.com/luxfi/ledger/log"
	"github.com/luxfi/ledger/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	app := &cli.App{
		Name:  "ledger-server",
		Usage: "serve the payments ledger over TCP: one connection in, one CSV snapshot out",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "0.0.0.0:8080", Usage: "address to listen on"},
			&cli.IntFlag{Name: "max-tx-history", Value: 10_000_000, Usage: "transaction log capacity; 0 means unbounded"},
			&cli.BoolFlag{Name: "log-warnings", Value: true},
			&cli.BoolFlag{Name: "skip-malformed", Value: true},
			&cli.BoolFlag{Name: "metrics", Value: true},
			&cli.StringFlag{Name: "log-file", Usage: "when set, logs are written here with rotation instead of stderr"},
		},
		Action: serve,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	if logFile := c.String("log-file"); logFile != "" {
		writer := &lumberjack.Logger{Filename: logFile, MaxSize: 100, MaxBackups: 3, MaxAge: 28}
		log.SetDefault(log.NewLogger(log.NewTerminalHandler(writer, false)))
	} else {
		log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, true)))
	}

	cfg := ledger.NewConfig(
		ledger.WithSkipMalformed(c.Bool("skip-malformed")),
		ledger.WithLogWarnings(c.Bool("log-warnings")),
		ledger.WithMaxTxHistory(c.Int("max-tx-history")),
		ledger.WithMetrics(c.Bool("metrics")),
	)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New(prometheus.NewRegistry())
	}
	engine := ledger.NewWithMetrics(cfg, collector)

	addr := c.String("addr")
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", addr, err)
	}
	defer listener.Close()

	log.Info("payment ledger server listening", "addr", addr)
	log.Info("max transaction history", "value", cfg.MaxTxHistory)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	g, gctx := errgroup.WithContext(ctx)
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return g.Wait()
			default:
				log.Error("failed to accept connection", "error", err.Error())
				continue
			}
		}
		g.Go(func() error {
			handleConnection(gctx, engine, cfg, conn)
			return nil
		})
	}
}

func handleConnection(ctx context.Context, engine *ledger.Engine, cfg ledger.ProcessorConfig, conn net.Conn) {
	addr := conn.RemoteAddr().String()
	defer conn.Close()

	log.Info("connection accepted", "addr", addr)
	defer log.Info("connection closed", "addr", addr)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, conn); err != nil {
		log.Error("read failed", "addr", addr, "error", err.Error())
		return
	}

	events, err := csvadapter.ReadEvents(&buf, cfg.SkipMalformed, cfg.LogWarnings)
	if err != nil {
		log.Error("parse failed", "addr", addr, "error", err.Error())
		return
	}

	for _, ev := range events {
		engine.Process(ctx, ev)
	}
	log.Info("processed transactions", "addr", addr, "count", len(events))

	var out bytes.Buffer
	if err := csvadapter.WriteSnapshot(&out, engine.Snapshot()); err != nil {
		log.Error("failed to render snapshot", "addr", addr, "error", err.Error())
		return
	}
	if _, err := conn.Write(out.Bytes()); err != nil {
		log.Error("write failed", "addr", addr, "error", err.Error())
		return
	}
	log.Info("response sent", "addr", addr)
}
