package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"go.trai.ch/quick/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info", level: slog.LevelInfo, msg: "information message", goldenName: "handler_info"},
		{name: "warn", level: slog.LevelWarn, msg: "warning message", goldenName: "handler_warn"},
		{name: "error", level: slog.LevelError, msg: "error message", goldenName: "handler_error"},
		{name: "debug filtered", level: slog.LevelDebug, msg: "debug message", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandlerWithProfile(buf, &slog.HandlerOptions{Level: slog.LevelInfo}, termenv.Ascii)

			slog.New(handler).Log(t.Context(), tt.level, tt.msg)

			goldie.New(t).Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandlerWithProfile(buf, nil, termenv.Ascii).
		WithAttrs([]slog.Attr{slog.String("fingerprint", "serde-1.0.0-ab12")})

	slog.New(handler).Info("packed archive", "entries", 42)

	goldie.New(t).Assert(t, "handler_attrs", buf.Bytes())
}

func TestPrettyHandler_Group(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandlerWithProfile(buf, nil, termenv.Ascii).WithGroup("build")

	slog.New(handler).Info("compiled", "package", "serde")

	goldie.New(t).Assert(t, "handler_group", buf.Bytes())
}
