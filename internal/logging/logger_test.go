package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	t.Run("String creates field with key and string value", func(t *testing.T) {
		f := String("slot", "employeeList")
		if f.Key != "slot" || f.Value != "employeeList" {
			t.Errorf("String() = %+v", f)
		}
	})

	t.Run("Int64 creates field with key and int64 value", func(t *testing.T) {
		f := Int64("bytes", 4096)
		if f.Key != "bytes" || f.Value != int64(4096) {
			t.Errorf("Int64() = %+v", f)
		}
	})

	t.Run("Bool creates field with key and bool value", func(t *testing.T) {
		f := Bool("has_matches", true)
		if f.Key != "has_matches" || f.Value != true {
			t.Errorf("Bool() = %+v", f)
		}
	})

	t.Run("Err creates field with error key", func(t *testing.T) {
		testErr := errors.New("test error")
		f := Err(testErr)
		if f.Key != "error" {
			t.Errorf("Err().Key = %q, want %q", f.Key, "error")
		}
		if f.Value != testErr {
			t.Errorf("Err().Value = %v, want %v", f.Value, testErr)
		}
	})
}

func TestNewZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapter(zerolog.New(&buf))

	adapter.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("NewZerologAdapter logger not working, output: %s", buf.String())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "orchestrator")

	logger.Info("hello")
	output := buf.String()

	if !strings.Contains(output, "orchestrator") {
		t.Errorf("NewLogger should include component field, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("NewLogger should include message, got: %s", output)
	}
}

func TestNewLevelLogger(t *testing.T) {
	tests := []struct {
		level       string
		debugLogged bool
		infoLogged  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"error", false, false},
		{"", false, true},
		{"nonsense", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLevelLogger(&buf, "test", tt.level)
			logger.Debug("dbg-line")
			logger.Info("info-line")

			output := buf.String()
			if got := strings.Contains(output, "dbg-line"); got != tt.debugLogged {
				t.Errorf("debug logged = %v, want %v", got, tt.debugLogged)
			}
			if got := strings.Contains(output, "info-line"); got != tt.infoLogged {
				t.Errorf("info logged = %v, want %v", got, tt.infoLogged)
			}
		})
	}
}

func TestZerologAdapter_Info(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		fields   []Field
		contains []string
	}{
		{
			name:     "no fields",
			msg:      "submission started",
			contains: []string{"submission started", "info"},
		},
		{
			name:     "with string field",
			msg:      "file selected",
			fields:   []Field{String("slot", "lastYearList")},
			contains: []string{"file selected", "lastYearList"},
		},
		{
			name:     "with multiple fields",
			msg:      "response received",
			fields:   []Field{String("method", "POST"), Int("status", 200)},
			contains: []string{"response received", "POST", "200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info(tt.msg, tt.fields...)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestZerologAdapter_Error(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		err      error
		fields   []Field
		contains []string
	}{
		{
			name:     "with error",
			msg:      "request failed",
			err:      errors.New("connection refused"),
			contains: []string{"request failed", "connection refused", "error"},
		},
		{
			name:     "with nil error",
			msg:      "warning",
			contains: []string{"warning", "error"},
		},
		{
			name:     "with error and fields",
			msg:      "delivery failed",
			err:      errors.New("disk full"),
			fields:   []Field{String("path", "out.xlsx"), Int("attempt", 1)},
			contains: []string{"delivery failed", "disk full", "out.xlsx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Error(tt.msg, tt.err, tt.fields...)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Printf("formatted %s %d", "message", 42)
	logger.Println("hello", "world")

	output := buf.String()
	if !strings.Contains(output, "formatted message 42") {
		t.Errorf("Printf should format message, got: %s", output)
	}
	if !strings.Contains(output, "hello world") {
		t.Errorf("Println should join arguments, got: %s", output)
	}
}

func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string field", Field{Key: "str", Value: "hello"}, "hello"},
		{"int field", Field{Key: "num", Value: 42}, "42"},
		{"int64 field", Field{Key: "big", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64 field", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64 field", Field{Key: "secs", Value: 1.5}, "1.5"},
		{"error field", Field{Key: "err", Value: errors.New("oops")}, "oops"},
		{"bool field", Field{Key: "flag", Value: true}, "true"},
		{"interface field", Field{Key: "data", Value: struct{ X int }{X: 1}}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info("test", tt.field)

			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("applyFields should handle %s, output: %s", tt.name, buf.String())
			}
		})
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	tests := []struct {
		name     string
		log      func(l *StdLoggerAdapter)
		contains []string
	}{
		{
			name:     "info with fields",
			log:      func(l *StdLoggerAdapter) { l.Info("user action", String("slot", "employeeList")) },
			contains: []string{"[INFO]", "user action", "slot=employeeList"},
		},
		{
			name:     "debug",
			log:      func(l *StdLoggerAdapter) { l.Debug("trace", Int("line", 42)) },
			contains: []string{"[DEBUG]", "trace", "line=42"},
		},
		{
			name:     "error",
			log:      func(l *StdLoggerAdapter) { l.Error("failed", errors.New("boom")) },
			contains: []string{"[ERROR]", "failed", "boom"},
		},
		{
			name:     "printf",
			log:      func(l *StdLoggerAdapter) { l.Printf("value is %d", 123) },
			contains: []string{"value is 123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			adapter := NewStdLoggerAdapter(log.New(&buf, "", 0))
			tt.log(adapter)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestNop(t *testing.T) {
	// Should not panic and should satisfy Logger.
	var l Logger = Nop()
	l.Info("ignored")
	l.Error("ignored", errors.New("x"))
}

// TestLoggerInterface verifies both adapters implement the Logger interface.
func TestLoggerInterface(t *testing.T) {
	var buf bytes.Buffer
	var _ Logger = NewLogger(&buf, "test")
	var _ Logger = NewStdLoggerAdapter(log.New(&buf, "", 0))
}
