package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/reflow-ui/reflow/pkg/reflow"
)

// Default tracer name for reflow instrumentation.
const defaultTracerName = "reflow"

// OTelConfig configures transaction tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "reflow").
	TracerName string

	// AttributeExtractor returns extra attributes to attach to each
	// transaction span.
	AttributeExtractor func() []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures transaction tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func() []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracer builds a transaction tracer. The returned TxTracer wraps
// reflow transactions in OpenTelemetry spans.
func Tracer(opts ...OTelOption) *TxTracer {
	cfg := OTelConfig{
		TracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.tracer = otel.Tracer(cfg.TracerName)

	return &TxTracer{cfg: cfg}
}

// TxTracer runs reflow transactions inside OpenTelemetry spans.
type TxTracer struct {
	cfg OTelConfig
}

// Tx runs fn as a named reflow transaction wrapped in a span. Watcher
// and effect work triggered by the batched mutations is delivered
// before the span ends, so the span covers the whole notification pass.
// A panic escaping fn is recorded on the span and re-raised.
func (t *TxTracer) Tx(ctx context.Context, name string, fn func()) {
	_, span := t.cfg.tracer.Start(ctx, "reflow.tx",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("reflow.tx.name", name)),
	)
	defer span.End()

	if t.cfg.AttributeExtractor != nil {
		span.SetAttributes(t.cfg.AttributeExtractor()...)
	}

	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, fmt.Sprint(r))
			panic(r)
		}
		span.SetStatus(codes.Ok, "")
	}()

	reflow.TxNamed(name, fn)
}
