package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/notiuneoffiicial/LibreChat-sub002/pkg/router"

// StartRouteSpan starts a span covering one routing decision. When no tracer
// provider is installed this is a no-op span with zero overhead on the hot path.
func StartRouteSpan(ctx context.Context) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "autorouter.route")
}

// SetDecisionAttributes annotates the span with the outcome of the decision.
func SetDecisionAttributes(span trace.Span, intent, spec string, intensity float64, switched bool) {
	span.SetAttributes(
		attribute.String("router.intent", intent),
		attribute.String("router.spec", spec),
		attribute.Float64("router.intensity", intensity),
		attribute.Bool("router.switched", switched),
	)
}
