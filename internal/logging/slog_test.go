package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tt := range tests {
		if !strings.Contains(out, "level="+tt.level) {
			t.Errorf("expected output to contain level %s, got: %s", tt.level, out)
		}
		if !strings.Contains(out, "msg="+tt.msg) {
			t.Errorf("expected output to contain msg %s, got: %s", tt.msg, out)
		}
		if !strings.Contains(out, tt.key+"="+tt.val) {
			t.Errorf("expected output to contain %s=%s, got: %s", tt.key, tt.val, out)
		}
	}
}

func TestSlogLogger_With_AddsPermanentAttrs(t *testing.T) {
	log, buf := newTestLogger(t)

	child := log.With("module", "ledger")
	child.Info(context.Background(), "hello")

	out := buf.String()
	if !strings.Contains(out, "module=ledger") {
		t.Errorf("expected output to contain module=ledger, got: %s", out)
	}
}
