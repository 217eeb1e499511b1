package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/reflow-ui/reflow/pkg/reflow"
)

func TestTracerTxRunsTransaction(t *testing.T) {
	tracer := Tracer()

	a := reflow.NewBinding(0)
	b := reflow.NewBinding(0)

	fired := 0
	guard := a.Watch(func(int) { fired++ })
	defer guard.Cancel()

	tracer.Tx(context.Background(), "pair-update", func() {
		a.Set(1)
		b.Set(2)
	})

	if a.Get() != 1 || b.Get() != 2 {
		t.Errorf("transaction body must apply, got %d %d", a.Get(), b.Get())
	}
	if fired != 1 {
		t.Errorf("expected one batched delivery, got %d", fired)
	}
}

func TestTracerTxPanicPropagates(t *testing.T) {
	tracer := Tracer(WithTracerName("test"))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic to propagate through the span")
		}
	}()

	tracer.Tx(context.Background(), "boom", func() {
		panic("boom")
	})
}

func TestTracerOptions(t *testing.T) {
	cfg := OTelConfig{TracerName: defaultTracerName}

	WithTracerName("custom")(&cfg)
	WithAttributeExtractor(func() []attribute.KeyValue {
		return []attribute.KeyValue{attribute.Bool("x", true)}
	})(&cfg)

	if cfg.TracerName != "custom" {
		t.Errorf("tracer name not applied: %q", cfg.TracerName)
	}
	if cfg.AttributeExtractor == nil {
		t.Error("attribute extractor not applied")
	}
}
