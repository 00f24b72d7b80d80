// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package lps wires the comparison engine into an HTTP service.
//
// The package owns lifecycle only: configuration, the Gin router, metrics
// registration, and OpenTelemetry trace export. The palindrome and
// measurement semantics live in services/lps/engine; the HTTP surface in
// services/lps/handlers and services/lps/routes.
//
// # Usage
//
//	cfg, _ := config.Load("palarena.yaml")
//	svc, err := lps.New(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc.Run()
package lps

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/palarena/palarena/services/lps/config"
	"github.com/palarena/palarena/services/lps/engine"
	"github.com/palarena/palarena/services/lps/observability"
	"github.com/palarena/palarena/services/lps/routes"
)

// =============================================================================
// Service
// =============================================================================

// Service is the comparison service lifecycle contract.
//
// Run blocks until the server stops; call it at most once per instance.
// Router exposes the configured engine for integration tests.
type Service interface {
	// Run starts the HTTP server and blocks until it stops.
	Run() error

	// Router returns the configured Gin engine for testing.
	Router() *gin.Engine
}

type service struct {
	cfg      config.Config
	router   *gin.Engine
	log      *slog.Logger
	shutdown func(context.Context)
}

// New builds a fully wired comparison service from cfg. A nil logger uses
// slog.Default.
func New(cfg config.Config, logger *slog.Logger) (Service, error) {
	cfg.Validate()
	if logger == nil {
		logger = slog.Default()
	}

	svc := &service{cfg: cfg, log: logger}
	if cfg.Server.OTelEndpoint != "" {
		shutdown, err := initTracer(cfg.Server.OTelEndpoint)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		svc.shutdown = shutdown
	}

	centerVariant, err := engine.ParseCenterVariant(cfg.Harness.CenterVariant)
	if err != nil {
		return nil, fmt.Errorf("harness config: %w", err)
	}
	manacherVariant, err := engine.ParseManacherVariant(cfg.Harness.ManacherVariant)
	if err != nil {
		return nil, fmt.Errorf("harness config: %w", err)
	}

	comparer := engine.NewComparer(&engine.ComparerOptions{
		Harness:         harnessOptions(cfg.Harness, logger),
		CenterVariant:   centerVariant,
		ManacherVariant: manacherVariant,
		Logger:          logger,
	})
	metrics := observability.NewMetrics(nil)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("palarena"))
	routes.SetupRoutes(router, comparer, metrics, cfg.Server)

	svc.router = router
	return svc, nil
}

// Run implements Service.
func (s *service) Run() error {
	defer func() {
		if s.shutdown != nil {
			s.shutdown(context.Background())
		}
	}()

	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.log.Info("starting palarena",
		"addr", addr,
		"max_concurrent_comparisons", s.cfg.Server.MaxConcurrentComparisons,
	)
	return s.router.Run(addr)
}

// Router implements Service.
func (s *service) Router() *gin.Engine {
	return s.router
}

// harnessOptions translates file configuration into engine options,
// leaving zero values for the engine defaults to fill.
func harnessOptions(cfg config.HarnessConfig, logger *slog.Logger) *engine.HarnessOptions {
	opts := &engine.HarnessOptions{
		WarmupRuns:   cfg.WarmupRuns,
		TrimFraction: cfg.TrimFraction,
		DisableGC:    cfg.DisableGC,
		Logger:       logger,
	}
	if cfg.BudgetSeconds > 0 {
		opts.Budget = time.Duration(cfg.BudgetSeconds) * time.Second
	}
	if cfg.SettleDelayMs > 0 {
		opts.SettleDelay = time.Duration(cfg.SettleDelayMs) * time.Millisecond
	}
	for _, tier := range cfg.Tiers {
		opts.Tiers = append(opts.Tiers, engine.IterationTier{
			MaxCanonicalLen: tier.MaxCanonicalLen,
			Iterations:      tier.Iterations,
		})
	}
	return opts
}

// initTracer wires OTLP trace export over gRPC and returns a shutdown
// hook for the exporter.
func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("palarena")))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(traceExporter)))
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown the OTLP exporter", "error", err)
		}
	}, nil
}
