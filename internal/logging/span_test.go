package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestStartSpanEnrichesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	ctx, span := StartSpan(ctx, "process_submission")

	if SpanIDFromContext(ctx) == "" {
		t.Fatal("expected span id on derived context")
	}

	span.End()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["msg"] != "span completed" {
		t.Fatalf("unexpected message %q", entry["msg"])
	}
	if entry["span_name"] != "process_submission" {
		t.Fatalf("unexpected span name %q", entry["span_name"])
	}
	if entry["span_id"] == "" {
		t.Fatal("expected span id in log entry")
	}
	if _, ok := entry["duration"]; !ok {
		t.Fatal("expected duration in log entry")
	}
}

func TestStartSpanLinksParentSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	ctx, outer := StartSpan(ctx, "outer")
	outerID := SpanIDFromContext(ctx)

	ctx, inner := StartSpan(ctx, "inner")
	if SpanIDFromContext(ctx) == outerID {
		t.Fatal("expected inner span to get its own id")
	}

	buf.Reset()
	inner.End()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["parent_span_id"] != outerID {
		t.Fatalf("expected parent span id %q got %q", outerID, entry["parent_span_id"])
	}

	outer.End()
}
