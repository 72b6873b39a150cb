package persist

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer resolves against the current global provider on every call.
func tracer() trace.Tracer {
	return otel.Tracer("github.com/iliyamo/seating-chart/internal/persist")
}
