package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/calvinalkan/pontos/internal/logger"
)

func TestNewFiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log, err := logger.New(logger.Config{Level: logger.WarnLevel, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("hidden message")
	log.Warn("visible message", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info logged at warn level:\n%s", out)
	}

	if !strings.Contains(out, "visible message") || !strings.Contains(out, "key=value") {
		t.Errorf("warn entry missing:\n%s", out)
	}
}

func TestNewJSONFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log, err := logger.New(logger.Config{Level: logger.DebugLevel, Output: &buf, JSON: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.With(log, "phase", "reading").Debug("import")

	out := buf.String()
	if !strings.Contains(out, `"msg":"import"`) || !strings.Contains(out, `"phase":"reading"`) {
		t.Errorf("unexpected JSON output:\n%s", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := logger.New(logger.Config{Level: "chatty"}); err == nil {
		t.Error("New(chatty) succeeded, want error")
	}
}
