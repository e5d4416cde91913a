// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The thermodecode command decodes hex encoded Bluetooth health
// thermometer measurements and writes them as JSON lines.
//
// Payloads are taken from the command line arguments or, if there are
// none, one per line from standard input. Bytes may be separated by
// spaces or colons. Measurements are published to the message queue
// selected in the configuration.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/kortschak/thermo/internal/config"
	"github.com/kortschak/thermo/internal/logging"
	"github.com/kortschak/thermo/internal/metrics"
	"github.com/kortschak/thermo/internal/publish"
	"github.com/kortschak/thermo/report"
)

func main() {
	cfgPath := flag.String("config", "", "path to configuration file")
	barcode := flag.String("barcode", "", "participant barcode (overrides configuration)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] [payload ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *barcode != "" {
		cfg.Barcode = *barcode
	}
	os.Exit(run(cfg, flag.Args()))
}

func run(cfg *config.Config, args []string) int {
	logger := logging.New(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		// Restore default handling so a second interrupt terminates.
		<-ctx.Done()
		stop()
	}()

	producer, err := publish.New(cfg.Publisher, logger)
	if err != nil {
		logger.Error("failed to initialize publisher", zap.String("type", cfg.Publisher.Type), zap.Error(err))
		return 1
	}
	defer producer.Close()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := m.Serve(cfg.Metrics.Addr, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	p := &processor{
		out:      bufio.NewWriter(os.Stdout),
		producer: producer,
		metrics:  m,
		logger:   logger,
		barcode:  cfg.Barcode,
		opts:     []report.Option{report.WithDevice(cfg.Device.Name, cfg.Device.Address)},
	}
	defer p.out.Flush()

	if len(args) != 0 {
		for _, a := range args {
			if err := p.process(ctx, a); err != nil {
				logger.Error("failed to write document", zap.Error(err))
				return 1
			}
		}
		return 0
	}

	err = readLines(ctx, os.Stdin, func(line string) error {
		err := p.process(ctx, line)
		if err != nil {
			return err
		}
		// Flush per line so output is visible to a downstream
		// reader as measurements arrive.
		return p.out.Flush()
	})
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted")
	default:
		logger.Error("failed to process input", zap.Error(err))
		return 1
	}
	return 0
}
