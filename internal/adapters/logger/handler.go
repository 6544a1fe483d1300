package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette.
var (
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
)

// ColorProfile returns Ascii when NO_COLOR is set and the detected profile otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// PrettyHandler is a slog.Handler producing human-readable, coloured output.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	return NewPrettyHandlerWithProfile(w, opts, ColorProfile())
}

// NewPrettyHandlerWithProfile creates a PrettyHandler with a fixed colour profile.
func NewPrettyHandlerWithProfile(w io.Writer, opts *slog.HandlerOptions, profile termenv.Profile) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	levelVar := &slog.LevelVar{}
	if opts != nil && opts.Level != nil {
		levelVar.Set(opts.Level.Level())
	}

	return &PrettyHandler{
		out:   termenv.NewOutput(w, termenv.WithProfile(profile), termenv.WithTTY(true)),
		level: levelVar,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var msg string
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		msg = Cross + " " + r.Message
		color = termenv.RGBColor(string(Red))
	case r.Level >= slog.LevelWarn:
		msg = Warning + " " + r.Message
		color = termenv.RGBColor(string(Yellow))
	default:
		msg = r.Message
		color = termenv.RGBColor(string(Slate))
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})
	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	styled := h.out.String(msg).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)
	return &PrettyHandler{out: h.out, level: h.level, attrs: newAttrs, group: h.group}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{out: h.out, level: h.level, attrs: h.attrs, group: name}
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
