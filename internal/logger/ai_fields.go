package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/utils"
)

const (
	// FieldProvider is the structured log field key for the completion provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the model identifier.
	FieldModel = "ai_model"
	// FieldPrompt carries a truncated preview of the text sent to the model.
	FieldPrompt = "prompt_preview"
	// FieldReply carries a truncated preview of the model reply.
	FieldReply = "reply_preview"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a no-op
// logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the provider and model fields. Empty values are ignored.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider and model fields to the logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// Preview returns key with value truncated to limit runes. A non-positive limit
// yields an empty preview which StringFields then drops.
func Preview(key, value string, limit int) []zap.Field {
	return StringFields(StringField{Key: key, Value: utils.TruncateForLog(value, limit)})
}
