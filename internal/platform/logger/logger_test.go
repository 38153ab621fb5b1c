package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"":        Info,
		"WARNING": Warn,
		"error":   Error,
		"nope":    Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseFormat_DefaultsToText(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Fatalf("expected json format")
	}
	if ParseFormat("xml") != FormatText {
		t.Fatalf("expected text fallback")
	}
}

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With(map[string]any{"owner_id": "owner-1"})

	l.Warn("due date malformed", map[string]any{
		"record": "task-1",
		"err":    errors.New("boom"),
		"":       "ignored",
	})

	entries := logs.FilterMessage("due date malformed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["owner_id"] != "owner-1" || ctx["record"] != "task-1" {
		t.Fatalf("unexpected fields: %#v", ctx)
	}
	if ctx["err"] != "boom" {
		t.Fatalf("expected error field, got %#v", ctx["err"])
	}
	if _, ok := ctx[""]; ok {
		t.Fatalf("empty key must be dropped")
	}
}
