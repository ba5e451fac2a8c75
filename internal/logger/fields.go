package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared across packages.
const (
	FieldProvider   = "ai_provider"
	FieldModel      = "ai_model"
	FieldAnalysisID = "analysis_id"
	FieldRequestID  = "request_id"
	// FieldSource is where a resume or job description was loaded from.
	FieldSource = "source"
)

// Pair is a string key/value candidate for a log field.
type Pair struct {
	Key   string
	Value string
}

// NonEmpty turns pairs into zap string fields. Keys and values are trimmed and
// pairs with a blank side are left out.
func NonEmpty(pairs ...Pair) []zap.Field {
	fields := make([]zap.Field, 0, len(pairs))
	for _, p := range pairs {
		key, value := strings.TrimSpace(p.Key), strings.TrimSpace(p.Value)
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// WithFields returns logger with fields attached. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithAI tags entries with the AI provider and model.
func WithAI(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, NonEmpty(
		Pair{Key: FieldProvider, Value: provider},
		Pair{Key: FieldModel, Value: model},
	)...)
}

// WithAnalysis tags entries with the analysis ID and the resume source.
func WithAnalysis(logger *zap.Logger, id, source string) *zap.Logger {
	return WithFields(logger, NonEmpty(
		Pair{Key: FieldAnalysisID, Value: id},
		Pair{Key: FieldSource, Value: source},
	)...)
}

// WithRequest tags entries with a queue request ID.
func WithRequest(logger *zap.Logger, id string) *zap.Logger {
	return WithFields(logger, NonEmpty(Pair{Key: FieldRequestID, Value: id})...)
}
