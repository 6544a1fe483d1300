// Package progrock records build vertices through a progrock recorder.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/quick/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry using progrock.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder that keeps vertex output only until the vertex completes. The
// output of failed vertices is passed on to logger.
func New(logger ports.Logger) *Recorder {
	return NewRecorder(NewFailureLog(logger))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a vertex identified by the digest of name. Names are fingerprints, so a
// vertex is recorded once per build configuration.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := &buildVertex{rec: r.rec.Vertex(VertexID(name), name)}
	return ports.ContextWithVertex(ctx, v), v
}

// VertexID returns the progrock vertex digest of a name.
func VertexID(name string) digest.Digest {
	return digest.FromString(name)
}

// Close closes the underlying writer.
func (r *Recorder) Close() error {
	return r.w.Close()
}
