package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestEnsure_保留已有trace_每次新span(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	a := Ensure(ctx)
	b := Ensure(ctx)
	if got, _ := TraceIDFrom(a); got != "t-1" {
		t.Fatalf("期望沿用上游 trace_id, got=%q", got)
	}
	sa, _ := SpanIDFrom(a)
	sb, _ := SpanIDFrom(b)
	if sa == "" || sa == sb {
		t.Fatalf("期望每次生成新的 span_id, a=%q b=%q", sa, sb)
	}
}

func TestEnsure_无trace时生成(t *testing.T) {
	ctx := Ensure(context.Background())
	if got, ok := TraceIDFrom(ctx); !ok || len(got) != 32 {
		t.Fatalf("期望生成 32 位 hex trace_id, got=%q ok=%v", got, ok)
	}
}
