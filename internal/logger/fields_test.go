package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/ats-matcher/internal/jsearch"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  company  ", Value: "  Acme  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "company" || fields[0].String != "Acme" {
		t.Fatalf("unexpected company field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestJobFields(t *testing.T) {
	fields := JobFields(&jsearch.Job{ID: "42", Title: " Data Analyst ", Company: ""})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldJobID || fields[0].String != "42" {
		t.Fatalf("unexpected id field: %+v", fields[0])
	}

	if fields[1].Key != FieldJobTitle || fields[1].String != "Data Analyst" {
		t.Fatalf("unexpected title field: %+v", fields[1])
	}

	if JobFields(nil) != nil {
		t.Fatalf("expected no fields for nil job")
	}
}

func TestWithJob(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithJob(logger, &jsearch.Job{ID: "1", Company: "Acme"}).Info("scored")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldJobID] != "1" || ctx[FieldCompany] != "Acme" {
		t.Fatalf("unexpected context: %v", ctx)
	}

	// Ensure logging with the fallback logger does not panic.
	WithJob(nil, nil).Info("another log")
}
