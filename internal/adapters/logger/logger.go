// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/quick/internal/core/ports"
)

// messager describes an error that can report its own message without the chain.
type messager interface {
	Message() string
}

// metadataer describes an error carrying key/value context, as zerr.Error does.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

var _ ports.Logger = (*Logger)(nil)

// SetOutput updates the logger's output destination. A nil writer selects os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging, keeping the output destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with its cause chain and metadata.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		attrs := []any{"error", err.Error()}
		for _, entry := range collectErrorEntries(err) {
			for _, k := range slices.Sorted(maps.Keys(entry.Metadata)) {
				attrs = append(attrs, k, entry.Metadata[k])
			}
		}
		l.logger.Error("operation failed", attrs...)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the chain of zerr errors. The first error that does not report
// its own message ends the walk with its full text.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}
		entry := ErrorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		entries = append(entries, entry)
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders the headline, its metadata and a "Caused by" list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		var head, indent string
		switch i {
		case 0:
			head, indent = "Error: ", "       "
		case 1:
			lines = append(lines, "", "  Caused by:")
			fallthrough
		default:
			head, indent = "    → ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, k := range slices.Sorted(maps.Keys(entry.Metadata)) {
			valueLines := strings.Split(strings.TrimRight(fmt.Sprint(entry.Metadata[k]), "\n"), "\n")
			lines = append(lines, indent+k+": "+valueLines[0])
			for _, line := range valueLines[1:] {
				lines = append(lines, indent+"  "+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}
