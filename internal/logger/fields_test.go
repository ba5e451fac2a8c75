package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNonEmpty(t *testing.T) {
	fields := NonEmpty(
		Pair{Key: "  provider  ", Value: "  Gemini  "},
		Pair{Key: "ignored", Value: "   "},
		Pair{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}

	if got := NonEmpty(); len(got) != 0 {
		t.Fatalf("expected no fields, got %d", len(got))
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	enriched := WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatal("expected a no-op logger")
	}
	enriched.Info("dropped")
}

func TestTaggingHelpers(t *testing.T) {
	tests := []struct {
		name   string
		tag    func(*zap.Logger) *zap.Logger
		expect map[string]any
		absent []string
	}{
		{
			name:   "ai",
			tag:    func(l *zap.Logger) *zap.Logger { return WithAI(l, "gemini", "model-x") },
			expect: map[string]any{FieldProvider: "gemini", FieldModel: "model-x"},
		},
		{
			name:   "ai without model",
			tag:    func(l *zap.Logger) *zap.Logger { return WithAI(l, "gemini", "") },
			expect: map[string]any{FieldProvider: "gemini"},
			absent: []string{FieldModel},
		},
		{
			name:   "analysis with blank source",
			tag:    func(l *zap.Logger) *zap.Logger { return WithAnalysis(l, "id-1", "  ") },
			expect: map[string]any{FieldAnalysisID: "id-1"},
			absent: []string{FieldSource},
		},
		{
			name:   "request",
			tag:    func(l *zap.Logger) *zap.Logger { return WithRequest(l, "req-7") },
			expect: map[string]any{FieldRequestID: "req-7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, observed := observer.New(zapcore.InfoLevel)
			tt.tag(zap.New(core)).Info("tagged")

			entries := observed.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}

			ctx := entries[0].ContextMap()
			for key, want := range tt.expect {
				if ctx[key] != want {
					t.Fatalf("field %s: expected %v, got %v", key, want, ctx[key])
				}
			}
			for _, key := range tt.absent {
				if _, ok := ctx[key]; ok {
					t.Fatalf("expected field %s to be omitted", key)
				}
			}
		})
	}
}
