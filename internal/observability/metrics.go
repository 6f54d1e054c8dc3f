package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"

	"ai-samples-api/internal/config"
)

type AppMetrics struct {
	authLoginCounter        metric.Int64Counter
	authReqDuration         metric.Float64Histogram
	tokenValidationCounter  metric.Int64Counter
	userMutationCounter     metric.Int64Counter
	roleAssignmentCounter   metric.Int64Counter
	listReqDuration         metric.Float64Histogram
	listPageSize            metric.Float64Histogram
	rateLimitCounter        metric.Int64Counter
	middlewareEventCounter  metric.Int64Counter
	agentToolCounter        metric.Int64Counter
	agentToolDuration       metric.Float64Histogram
	healthCheckCounter      metric.Int64Counter
	healthCheckDuration     metric.Float64Histogram
	loadgenRequestCounter   metric.Int64Counter
	seedCommandEventCounter metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "auth.request.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	m, err := newAppMetrics(mp.Meter("ai-samples-api"))
	if err != nil {
		return nil, err
	}
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	loginCounter, err := meter.Int64Counter("auth.login.attempts")
	if err != nil {
		return nil, err
	}
	authReqDuration, err := meter.Float64Histogram("auth.request.duration", metric.WithUnit("s"), metric.WithDescription("Duration of auth endpoint requests in seconds"))
	if err != nil {
		return nil, err
	}
	tokenValidationCounter, err := meter.Int64Counter("auth.token.validation.events")
	if err != nil {
		return nil, err
	}
	userMutationCounter, err := meter.Int64Counter("users.mutations")
	if err != nil {
		return nil, err
	}
	roleAssignmentCounter, err := meter.Int64Counter("roles.assignment.events")
	if err != nil {
		return nil, err
	}
	listReqDuration, err := meter.Float64Histogram(
		"users.list.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of user list requests in seconds"),
	)
	if err != nil {
		return nil, err
	}
	listPageSize, err := meter.Float64Histogram(
		"users.list.page_size",
		metric.WithDescription("Effective page size served to list requests"),
	)
	if err != nil {
		return nil, err
	}
	rateLimitCounter, err := meter.Int64Counter("http.rate_limit.decisions")
	if err != nil {
		return nil, err
	}
	middlewareEventCounter, err := meter.Int64Counter("http.middleware.validation.events")
	if err != nil {
		return nil, err
	}
	agentToolCounter, err := meter.Int64Counter("agent.tool.invocations")
	if err != nil {
		return nil, err
	}
	agentToolDuration, err := meter.Float64Histogram(
		"agent.tool.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of agent tool invocations in seconds"),
	)
	if err != nil {
		return nil, err
	}
	healthCheckCounter, err := meter.Int64Counter("health.check.results")
	if err != nil {
		return nil, err
	}
	healthCheckDuration, err := meter.Float64Histogram(
		"health.check.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of health dependency checks in seconds"),
	)
	if err != nil {
		return nil, err
	}
	loadgenRequestCounter, err := meter.Int64Counter("loadgen.requests")
	if err != nil {
		return nil, err
	}
	seedCommandEventCounter, err := meter.Int64Counter("tools.seed.events")
	if err != nil {
		return nil, err
	}

	return &AppMetrics{
		authLoginCounter:        loginCounter,
		authReqDuration:         authReqDuration,
		tokenValidationCounter:  tokenValidationCounter,
		userMutationCounter:     userMutationCounter,
		roleAssignmentCounter:   roleAssignmentCounter,
		listReqDuration:         listReqDuration,
		listPageSize:            listPageSize,
		rateLimitCounter:        rateLimitCounter,
		middlewareEventCounter:  middlewareEventCounter,
		agentToolCounter:        agentToolCounter,
		agentToolDuration:       agentToolDuration,
		healthCheckCounter:      healthCheckCounter,
		healthCheckDuration:     healthCheckDuration,
		loadgenRequestCounter:   loadgenRequestCounter,
		seedCommandEventCounter: seedCommandEventCounter,
	}, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	return m
}

func RecordAuthLogin(ctx context.Context, status string) {
	m := current()
	if m == nil {
		return
	}
	m.authLoginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func RecordAuthRequestDuration(ctx context.Context, endpoint, status string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.authReqDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	))
}

func RecordTokenValidation(ctx context.Context, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.tokenValidationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordUserMutation(ctx context.Context, action, status string) {
	m := current()
	if m == nil {
		return
	}
	m.userMutationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("status", status),
	))
}

func RecordRoleAssignment(ctx context.Context, action, status string) {
	m := current()
	if m == nil {
		return
	}
	m.roleAssignmentCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("status", status),
	))
}

func RecordListRequestDuration(ctx context.Context, status string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.listReqDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

func RecordListPageSize(ctx context.Context, pageSize int) {
	m := current()
	if m == nil {
		return
	}
	m.listPageSize.Record(ctx, float64(pageSize))
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.rateLimitCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("outcome", outcome),
	))
}

func RecordMiddlewareValidationEvent(ctx context.Context, middleware, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.middlewareEventCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("middleware", middleware),
		attribute.String("outcome", outcome),
	))
}

func RecordAgentToolInvocation(ctx context.Context, agent, tool, status string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("agent", agent),
		attribute.String("tool", tool),
		attribute.String("status", status),
	)
	m.agentToolCounter.Add(ctx, 1, attrs)
	m.agentToolDuration.Record(ctx, duration.Seconds(), attrs)
}

func RecordHealthCheckResult(ctx context.Context, check, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.healthCheckCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckDuration(ctx context.Context, check string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.healthCheckDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("check", check)))
}

func RecordLoadgenRequest(ctx context.Context, statusClass, scenario string) {
	m := current()
	if m == nil {
		return
	}
	m.loadgenRequestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status_class", statusClass),
		attribute.String("scenario", scenario),
	))
}

func RecordSeedEvent(ctx context.Context, entity, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.seedCommandEventCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("outcome", outcome),
	))
}
