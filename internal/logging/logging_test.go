// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/invowk/modgraph/internal/config"
)

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format config.LogFormat
		check  func(t *testing.T, out string)
	}{
		{config.LogFormatText, func(t *testing.T, out string) {
			if !strings.Contains(out, Prefix) || !strings.Contains(out, "module defined") {
				t.Errorf("unexpected text output %q", out)
			}
		}},
		{config.LogFormatJSON, func(t *testing.T, out string) {
			var rec map[string]any
			if err := json.Unmarshal([]byte(out), &rec); err != nil {
				t.Fatalf("output is not JSON: %v (%q)", err, out)
			}
			if rec["msg"] != "module defined" || rec["name"] != "app" {
				t.Errorf("unexpected record %v", rec)
			}
		}},
		{config.LogFormatLogfmt, func(t *testing.T, out string) {
			if !strings.Contains(out, `msg="module defined"`) || !strings.Contains(out, "name=app") {
				t.Errorf("unexpected logfmt output %q", out)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger, err := New(&buf, config.LogConfig{Level: config.LogLevelInfo, Format: tt.format})
			if err != nil {
				t.Fatal(err)
			}
			logger.Info("module defined", "name", "app")
			tt.check(t, strings.TrimSpace(buf.String()))
		})
	}
}

func TestNew_Level(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: config.LogLevelWarn, Format: config.LogFormatLogfmt})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("level filtering failed, got %q", out)
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()
	if _, err := New(&bytes.Buffer{}, config.LogConfig{Level: "loud", Format: config.LogFormatText}); err == nil {
		t.Error("expected invalid level error")
	}
	if _, err := New(&bytes.Buffer{}, config.LogConfig{Level: config.LogLevelInfo, Format: "xml"}); err == nil {
		t.Error("expected invalid format error")
	}
}
