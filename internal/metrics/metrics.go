// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics provides Prometheus instrumentation for measurement
// decoding and publishing.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kortschak/thermo/thermometer"
)

// Decode outcome labels.
const (
	KindOK                 = "ok"
	KindTooShort           = "too_short"
	KindTruncatedTime      = "truncated_time"
	KindTruncatedType      = "truncated_type"
	KindInvalidTime        = "invalid_time"
	KindInvalidTemperature = "invalid_temperature"
	KindOther              = "other"
)

// Kind returns the decode outcome label for err.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, thermometer.ErrTooShort):
		return KindTooShort
	case errors.Is(err, thermometer.ErrTruncatedDateTime):
		return KindTruncatedTime
	case errors.Is(err, thermometer.ErrTruncatedType):
		return KindTruncatedType
	case errors.Is(err, thermometer.ErrInvalidDateTime):
		return KindInvalidTime
	case errors.Is(err, thermometer.ErrInvalidTemperature):
		return KindInvalidTemperature
	default:
		return KindOther
	}
}

// Metrics holds the collectors for a decoding pipeline.
type Metrics struct {
	reg *prometheus.Registry

	decoded   *prometheus.CounterVec
	published *prometheus.CounterVec
	duration  prometheus.Histogram
	bytes     prometheus.Counter
}

// New returns a Metrics registered with its own registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "thermo_measurements_decoded_total",
			Help: "Number of measurement payloads decoded by outcome.",
		}, []string{"kind"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "thermo_documents_published_total",
			Help: "Number of documents published by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "thermo_processing_duration_seconds",
			Help:    "Time taken to decode and publish a payload.",
			Buckets: prometheus.DefBuckets,
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "thermo_payload_bytes_total",
			Help: "Number of payload bytes received.",
		}),
	}
	m.reg.MustRegister(m.decoded, m.published, m.duration, m.bytes)
	return m
}

// Registry returns the registry holding m's collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Decoded records a decode of an n byte payload with the outcome err.
func (m *Metrics) Decoded(n int, err error) {
	m.bytes.Add(float64(n))
	m.decoded.WithLabelValues(Kind(err)).Inc()
}

// Published records the result of a publish.
func (m *Metrics) Published(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.published.WithLabelValues(result).Inc()
}

// Observe records the processing time since start.
func (m *Metrics) Observe(start time.Time) {
	m.duration.Observe(time.Since(start).Seconds())
}

// Handler returns an HTTP handler serving m's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve starts a metrics server listening on addr in a new goroutine.
// The returned server may be shut down by the caller.
func (m *Metrics) Serve(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	logger.Info("starting metrics server", zap.String("addr", addr))
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
