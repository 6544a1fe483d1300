package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

// buildVertex records one package build on the tape.
// Only the first Complete is recorded, so a failure reported by a nested step is not
// overwritten by the caller's own completion.
type buildVertex struct {
	rec  *progrock.VertexRecorder
	done sync.Once
}

func (v *buildVertex) Stdout() io.Writer { return v.rec.Stdout() }

func (v *buildVertex) Stderr() io.Writer { return v.rec.Stderr() }

func (v *buildVertex) Complete(err error) {
	v.done.Do(func() { v.rec.Done(err) })
}

func (v *buildVertex) Cached() {
	v.rec.Cached()
}
