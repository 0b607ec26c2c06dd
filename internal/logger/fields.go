package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/jsearch"
)

const (
	// FieldJobID is the structured log field key for the job identifier.
	FieldJobID = "job_id"
	// FieldJobTitle is the structured log field key for the job title.
	FieldJobTitle = "job_title"
	// FieldCompany is the structured log field key for the company name.
	FieldCompany = "company"
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

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// JobFields returns the fields identifying a job. Empty values are skipped.
func JobFields(job *jsearch.Job) []zap.Field {
	if job == nil {
		return nil
	}
	return StringFields(
		StringField{Key: FieldJobID, Value: job.ID},
		StringField{Key: FieldJobTitle, Value: job.Title},
		StringField{Key: FieldCompany, Value: job.Company},
	)
}

// WithJob attaches the job fields to the provided logger.
func WithJob(logger *zap.Logger, job *jsearch.Job) *zap.Logger {
	return WithFields(logger, JobFields(job)...)
}
