// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package exporter publishes the decoded processor as Prometheus metrics.
package exporter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cpuprobe/internal/cpuinfo"
	"cpuprobe/internal/simd"
)

const namespace = "cpuprobe"

// ReadFunc returns a freshly decoded descriptor.
type ReadFunc func() (cpuinfo.Descriptor, error)

// Collector decodes the processor on every scrape.
type Collector struct {
	read      ReadFunc
	info      *prometheus.Desc
	frequency *prometheus.Desc
	longMode  *prometheus.Desc
	feature   *prometheus.Desc
}

func NewCollector(read ReadFunc) *Collector {
	return &Collector{
		read: read,
		info: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "info"),
			"Processor identification, always 1.",
			[]string{"vendor", "microarchitecture", "brand"}, nil,
		),
		frequency: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "frequency_mhz"),
			"Processor frequency reported by CPUID leaf 0x16, 0 when not reported.",
			[]string{"kind"}, nil,
		),
		longMode: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "long_mode"),
			"1 if the processor supports 64-bit long mode.",
			nil, nil,
		),
		feature: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "feature_supported"),
			"1 if the SIMD feature is supported.",
			[]string{"feature", "group"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.info
	ch <- c.frequency
	ch <- c.longMode
	ch <- c.feature
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	d, err := c.read()
	if err != nil {
		slog.Error("failed to read processor", slog.String("error", err.Error()))
		ch <- prometheus.NewInvalidMetric(c.info, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1, d.Vendor.String(), d.Model.Uarch.String(), d.Brand())
	ch <- prometheus.MustNewConstMetric(c.frequency, prometheus.GaugeValue, float64(d.BaseMHz), "base")
	ch <- prometheus.MustNewConstMetric(c.frequency, prometheus.GaugeValue, float64(d.MaxMHz), "max")
	ch <- prometheus.MustNewConstMetric(c.longMode, prometheus.GaugeValue, boolValue(d.LongMode))
	for _, feature := range simd.Features() {
		ch <- prometheus.MustNewConstMetric(c.feature, prometheus.GaugeValue, boolValue(feature.In(d.Features)), feature.Name, string(feature.Group))
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// NewRegistry returns a registry holding the processor collector and the
// standard Go runtime and process collectors.
func NewRegistry(read ReadFunc) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		NewCollector(read),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// NewServer serves the registry on /metrics.
func NewServer(listenAddr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	return &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Serve runs the metrics server until ctx is done or the server fails. The
// shutdown goroutine has exited when Serve returns.
func Serve(ctx context.Context, listenAddr string, read ReadFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	server := NewServer(listenAddr, NewRegistry(read))
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Prometheus HTTP server shutdown error", slog.String("error", err.Error()))
		}
	}()
	slog.Info("Starting Prometheus metrics server", slog.String("address", listenAddr))
	err := server.ListenAndServe()
	cancel()
	<-done
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
