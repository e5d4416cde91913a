// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kortschak/thermo/internal/metrics"
	"github.com/kortschak/thermo/internal/publish"
	"github.com/kortschak/thermo/report"
	"github.com/kortschak/thermo/thermometer"
)

type processor struct {
	out      *bufio.Writer
	producer publish.Producer
	metrics  *metrics.Metrics
	logger   *zap.Logger

	// barcode is the participant barcode. If it is empty
	// bare measurements are written without a document key.
	barcode string
	opts    []report.Option
}

// process decodes a single hex payload and writes and publishes the
// result. Malformed payloads and publish failures are logged and
// counted but are not returned; only output write errors are.
func (p *processor) process(ctx context.Context, payload string) error {
	start := time.Now()
	defer p.metrics.Observe(start)

	data, err := parsePayload(payload)
	if err != nil {
		p.logger.Warn("invalid payload", zap.String("payload", payload), zap.Error(err))
		return nil
	}

	m, err := thermometer.Decode(data)
	p.metrics.Decoded(len(data), err)
	if err != nil {
		kind := metrics.Kind(err)
		if !errors.Is(err, thermometer.ErrInvalidTemperature) {
			p.logger.Warn("failed to decode measurement",
				zap.String("kind", kind),
				zap.Binary("payload", data),
				zap.Error(err),
			)
			return nil
		}
		p.logger.Info("measurement has no valid temperature",
			zap.String("kind", kind),
			zap.Stringer("value", m.Value()),
		)
	}

	var (
		key string
		doc any = m
	)
	if p.barcode != "" {
		d, err := report.New(m, append(p.opts[:len(p.opts):len(p.opts)], report.WithBarcode(p.barcode))...)
		if err != nil {
			p.logger.Error("failed to build document", zap.Error(err))
			return nil
		}
		key, doc = d.Key(), d
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	_, err = p.out.Write(append(b, '\n'))
	if err != nil {
		return err
	}

	err = p.producer.Produce(ctx, key, doc)
	p.metrics.Published(err)
	if err != nil {
		p.logger.Error("failed to publish document", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// parsePayload returns the bytes of a hex encoded payload. Bytes may
// be separated by white space or colons and may have a 0x prefix.
func parsePayload(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ':':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, errors.New("empty payload")
	}
	return hex.DecodeString(s)
}

// readLines calls fn with each line of r that is not empty or a #
// comment, until r is exhausted, fn returns an error or ctx is done.
// A read blocked on r does not delay return when ctx is done.
func readLines(ctx context.Context, r io.Reader, fn func(string) error) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case line := <-lines:
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			err := fn(line)
			if err != nil {
				return err
			}
		}
	}
}
