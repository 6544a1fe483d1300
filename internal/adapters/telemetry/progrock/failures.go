package progrock

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/quick/internal/core/ports"
)

var _ progrock.Writer = (*FailureLog)(nil)

// FailureLog is a progrock.Writer that buffers the output of every vertex and hands it to
// the logger when the vertex fails. Output of successful vertices is dropped.
type FailureLog struct {
	logger ports.Logger

	mu     sync.Mutex
	output map[string]*bytes.Buffer
}

// NewFailureLog creates a FailureLog reporting to logger.
func NewFailureLog(logger ports.Logger) *FailureLog {
	return &FailureLog{
		logger: logger,
		output: make(map[string]*bytes.Buffer),
	}
}

// WriteStatus buffers logs and reports vertices that completed with an error.
func (f *FailureLog) WriteStatus(update *progrock.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range update.Logs {
		buf, ok := f.output[l.Vertex]
		if !ok {
			buf = &bytes.Buffer{}
			f.output[l.Vertex] = buf
		}
		buf.Write(l.Data)
	}

	for _, v := range update.Vertexes {
		if v.Completed == nil {
			continue
		}
		if v.Error != nil {
			f.report(v)
		}
		delete(f.output, v.Id)
	}
	return nil
}

func (f *FailureLog) report(v *progrock.Vertex) {
	buf, ok := f.output[v.Id]
	if !ok || buf.Len() == 0 {
		return
	}
	f.logger.Warn(fmt.Sprintf("output of %s:\n%s", v.Name, strings.TrimRight(buf.String(), "\n")))
}

// Close drops buffered output.
func (f *FailureLog) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.output)
	return nil
}
