package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quick/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_InfoAndWarn(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	l.Info("building serde@1.0.0")
	l.Warn("retrying online")

	assert.Equal(t, "building serde@1.0.0\n! retrying online\n", buf.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	inner := zerr.With(zerr.New("compiler failure"), "exit_code", 101)
	outer := zerr.With(zerr.Wrap(inner, "build failed"), "package", "serde@1.0.0")
	l.Error(outer)

	want := "✗ Error: build failed\n" +
		"       package: serde@1.0.0\n\n" +
		"  Caused by:\n" +
		"    → compiler failure\n" +
		"      exit_code: 101\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_ErrorNil(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	l.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)
	l.SetJSON(true)

	l.Error(zerr.With(zerr.New("cache entry not found"), "fingerprint", "cc-1.0.0-ff"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "cc-1.0.0-ff", record["fingerprint"])
	assert.Contains(t, record["error"], "cache entry not found")
}

func TestLogger_SetJSONKeepsOutput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)
	l.SetJSON(true)
	l.SetJSON(false)

	l.Info("hello")

	assert.Equal(t, "hello\n", buf.String())
}

func TestLogger_Concurrent(t *testing.T) {
	l := logger.New()
	l.SetOutput(&bytes.Buffer{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			l.Info("message")
			l.SetJSON(true)
			l.Warn("warning")
		})
	}
	wg.Wait()
}

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
	}{
		{name: "standard error", err: errors.New("plain"), wantMessages: []string{"plain"}},
		{
			name:         "zerr chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle"), "outer"),
			wantMessages: []string{"outer", "middle", "root cause"},
		},
		{
			name:         "metadata merged on one level",
			err:          zerr.With(zerr.With(zerr.New("base"), "a", 1), "b", 2),
			wantMessages: []string{"base"},
		},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)
			require.Len(t, entries, len(tt.wantMessages))
			for i, want := range tt.wantMessages {
				assert.Equal(t, want, entries[i].Message)
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{name: "empty", entries: nil, want: ""},
		{
			name:    "single",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "causes",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name:    "multiline message",
			entries: []logger.ErrorEntry{{Message: "line1\nline2"}},
			want:    "Error: line1\n       line2",
		},
		{
			name: "sorted metadata",
			entries: []logger.ErrorEntry{{
				Message:  "error",
				Metadata: map[string]any{"zebra": "z", "alpha": "a"},
			}},
			want: "Error: error\n       alpha: a\n       zebra: z",
		},
		{
			name: "multiline metadata value",
			entries: []logger.ErrorEntry{{
				Message:  "build determinism anomaly",
				Metadata: map[string]any{"report": "lib.rs: changed\n-a\n+b\n"},
			}},
			want: "Error: build determinism anomaly\n       report: lib.rs: changed\n         -a\n         +b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
