package observability

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordHelpersNoPanicWhenUninitialized(t *testing.T) {
	ctx := context.Background()
	metricsMu.Lock()
	appMetrics = nil
	metricsMu.Unlock()

	// Every helper must no-op safely before InitMetrics runs.
	RecordAuthLogin(ctx, "success")
	RecordAuthRequestDuration(ctx, "login", "success", 10*time.Millisecond)
	RecordTokenValidation(ctx, "valid")
	RecordUserMutation(ctx, "create", "success")
	RecordRoleAssignment(ctx, "assign", "success")
	RecordListRequestDuration(ctx, "success", 20*time.Millisecond)
	RecordListPageSize(ctx, 25)
	RecordRateLimitDecision(ctx, "auth", "allow")
	RecordMiddlewareValidationEvent(ctx, "cors", "allow_origin")
	RecordAgentToolInvocation(ctx, "AgenticUIAgent", "create_plan", "success", time.Millisecond)
	RecordHealthCheckResult(ctx, "db", "ready")
	RecordHealthCheckDuration(ctx, "db", 5*time.Millisecond)
	RecordLoadgenRequest(ctx, "2xx", "baseline")
	RecordSeedEvent(ctx, "role", "created")
}

func TestRecordHelpersEmitDataPoints(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	m, err := newAppMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("create metrics: %v", err)
	}
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()
	defer func() {
		metricsMu.Lock()
		appMetrics = nil
		metricsMu.Unlock()
	}()

	RecordAuthLogin(ctx, "success")
	RecordUserMutation(ctx, "create", "success")
	RecordRoleAssignment(ctx, "assign", "conflict")
	RecordListRequestDuration(ctx, "success", 15*time.Millisecond)
	RecordAgentToolInvocation(ctx, "AgenticUIAgent", "get_weather", "success", time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metr := range sm.Metrics {
			found[metr.Name] = true
		}
	}
	for _, want := range []string{
		"auth.login.attempts",
		"users.mutations",
		"roles.assignment.events",
		"users.list.request.duration",
		"agent.tool.invocations",
		"agent.tool.duration",
	} {
		if !found[want] {
			t.Fatalf("expected metric %s to be recorded, got %v", want, found)
		}
	}
}
