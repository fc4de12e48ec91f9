package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactingHandler_SensitiveKeys tests that contact keys are redacted.
func TestRedactingHandler_SensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "email key", key: "email", value: "x", wantMask: true},
		{name: "Phone key (uppercase)", key: "Phone", value: "x", wantMask: true},
		{name: "address key", key: "address", value: "123 Main St", wantMask: true},
		{name: "name key", key: "name", value: "Jane Doe", wantMask: true},
		{name: "keyword inside key", key: "president_email", value: "x", wantMask: true},
		{name: "mailing address keyword", key: "mailing_address", value: "PO Box 1", wantMask: true},
		{name: "cookie key", key: "cookie", value: "PHPSESSID=abc", wantMask: true},
		{name: "proxy key", key: "proxy", value: "socks5://127.0.0.1:9050", wantMask: true},
		{name: "entity key is kept", key: "entity", value: "1234", wantMask: false},
		{name: "url key is kept", key: "url", value: "https://services.commerce.utah.gov/hoa/", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, true)
			logger.Info("test", tt.key, tt.value)

			out := buf.String()
			masked := strings.Contains(out, MaskValue)
			if masked != tt.wantMask {
				t.Errorf("expected masked=%v, got output %q", tt.wantMask, out)
			}
			if tt.wantMask && strings.Contains(out, tt.value) {
				t.Errorf("expected value %q to be removed, got %q", tt.value, out)
			}
		})
	}
}

// TestRedactingHandler_SensitiveValues tests value pattern detection.
func TestRedactingHandler_SensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "email", value: "contact jane@example.com", want: true},
		{name: "phone", value: "(801) 555-1234", want: true},
		{name: "phone with non-breaking space", value: "(801)\u00a0555-1234", want: true},
		{name: "proxy credentials", value: "socks5://user:pw@127.0.0.1:1080", want: true},
		{name: "bearer token", value: "Bearer abc", want: true},
		{name: "plain text", value: "Oak Ridge HOA", want: false},
		{name: "registration number", value: "10023", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsSensitiveValue(tt.value); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestRedactingHandler_Groups tests redaction inside groups and WithAttrs.
func TestRedactingHandler_Groups(t *testing.T) {
	t.Parallel()

	t.Run("nested group", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewJSONLogger(&buf, true)
		logger.Info("parsed", slog.Group("president", slog.String("email", "jane@example.com"), slog.String("role", "President")))

		out := buf.String()
		if strings.Contains(out, "jane@example.com") {
			t.Errorf("expected email to be redacted, got %q", out)
		}
		if !strings.Contains(out, "President") {
			t.Errorf("expected role to be kept, got %q", out)
		}
	})

	t.Run("with attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true).With("phone", "801-555-1234")
		logger.Info("fetched")

		if strings.Contains(buf.String(), "801-555-1234") {
			t.Errorf("expected phone to be redacted, got %q", buf.String())
		}
	})

	t.Run("error values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		logger.Warn("failed", "error", errors.New("bad row for jane@example.com"))

		if strings.Contains(buf.String(), "jane@example.com") {
			t.Errorf("expected error text to be redacted, got %q", buf.String())
		}
	})
}

// TestNewLogger_Levels tests the verbose switch.
func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, false)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warning to be logged, got %q", out)
	}
}

// TestNewRedactingHandler_NilUsesDefault tests the nil fallback.
func TestNewRedactingHandler_NilUsesDefault(t *testing.T) {
	t.Parallel()

	h := NewRedactingHandler(nil)
	if h.handler == nil {
		t.Error("expected default handler")
	}
}
