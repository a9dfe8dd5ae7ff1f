package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		min        LogLevel
		level      LogLevel
		expectLine bool
	}{
		{"debug passes at debug", DebugLevel, DebugLevel, true},
		{"debug filtered at info", InfoLevel, DebugLevel, false},
		{"warn passes at info", InfoLevel, WarnLevel, true},
		{"info filtered at error", ErrorLevel, InfoLevel, false},
		{"error always passes", ErrorLevel, ErrorLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(HumanFormat, tt.min, &buf)

			logger.write(tt.level, "message", nil)

			if got := buf.Len() > 0; got != tt.expectLine {
				t.Errorf("expectLine=%v, got output %q", tt.expectLine, buf.String())
			}
		})
	}
}

func TestJSONLineCarriesStamps(t *testing.T) {
	var buf bytes.Buffer
	logger := New(JSONFormat, DebugLevel, &buf).WithRun("run-1").WithScope("crawl")

	logger.Info("crawl finished", "types", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["msg"] != "crawl finished" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Errorf("unexpected level: %v", entry["level"])
	}
	if entry["run"] != "run-1" {
		t.Errorf("expected the run stamp, got: %v", entry["run"])
	}
	if entry["scope"] != "crawl" {
		t.Errorf("expected the scope stamp, got: %v", entry["scope"])
	}
	if entry["types"] != "3" {
		t.Errorf("expected pair types=3, got: %v", entry["types"])
	}
}

func TestJSONFieldOrderIsStable(t *testing.T) {
	render := func() string {
		var buf bytes.Buffer
		logger := New(JSONFormat, DebugLevel, &buf)
		logger.Warn("skipping", "symbol", "B.g", "reason", "no body", "depth", 2)
		line := buf.String()
		return line[strings.Index(line, `"msg"`):]
	}

	first := render()
	for i := 0; i < 5; i++ {
		if got := render(); got != first {
			t.Fatalf("field order must follow argument order: %q vs %q", got, first)
		}
	}
	if !strings.Contains(first, `"symbol":"B.g","reason":"no body","depth":"2"`) {
		t.Errorf("pairs not in argument order: %q", first)
	}
}

func TestHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(HumanFormat, DebugLevel, &buf).WithRun("run-9").WithScope("emit")

	logger.Warn("skipping symbol", "symbol", "B.g")

	out := buf.String()
	for _, want := range []string{"[warn]", "emit:", "run=run-9", "symbol=B.g"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestDerivedLoggersDoNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(HumanFormat, DebugLevel, &buf)
	_ = parent.WithRun("child-run").WithScope("child")

	parent.Info("plain")

	out := buf.String()
	if strings.Contains(out, "child") {
		t.Errorf("parent logger picked up child stamps: %q", out)
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	// Must not panic and must stay silent at every level.
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d", "k", "v")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %s, expected %s", tt.in, got, tt.expected)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != JSONFormat {
		t.Error("expected json format")
	}
	if ParseFormat("human") != HumanFormat || ParseFormat("") != HumanFormat {
		t.Error("expected human format fallback")
	}
}
