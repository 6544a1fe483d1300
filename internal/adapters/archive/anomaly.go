package archive

import (
	"bytes"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	diffIdentical = "contents identical"
	diffBinary    = "binary"
)

// describe builds the anomaly for path. cached is the previously recorded content; ok is false
// when it is not available.
func (c *Codec) describe(path string, recorded, found time.Time, cached []byte, ok bool, current []byte) domain.Anomaly {
	return domain.Anomaly{
		Path:     path,
		Recorded: recorded,
		Found:    found,
		Diff:     c.diff(path, cached, ok, current),
	}
}

func (c *Codec) diff(path string, cached []byte, ok bool, current []byte) string {
	if !ok {
		if isBinary(current) {
			return diffBinary
		}
		return unified(path, nil, current)
	}

	a, errA := c.hasher.ComputeHash(bytes.NewReader(cached))
	b, errB := c.hasher.ComputeHash(bytes.NewReader(current))
	if errA == nil && errB == nil && a == b && len(cached) == len(current) {
		return diffIdentical
	}
	if isBinary(cached) || isBinary(current) {
		return diffBinary
	}
	return unified(path, cached, current)
}

func unified(path string, cached, current []byte) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(cached)),
		B:        difflib.SplitLines(string(current)),
		FromFile: "cached/" + path,
		ToFile:   "built/" + path,
		Context:  3,
	})
	if err != nil {
		return diffBinary
	}
	return text
}

func isBinary(b []byte) bool {
	return bytes.IndexByte(b, 0) >= 0 || !utf8.Valid(b)
}

// anomalyError reports every anomaly of one pack or unpack as a single error.
func anomalyError(anomalies []domain.Anomaly) error {
	var report strings.Builder
	for i, a := range anomalies {
		if i > 0 {
			report.WriteString("\n")
		}
		report.WriteString(a.String())
	}
	err := zerr.With(domain.ErrDeterminismAnomaly, "count", len(anomalies))
	return zerr.With(err, "report", report.String())
}
