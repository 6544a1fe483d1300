// Package shell runs the cargo toolchain as a subprocess.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// waitDelay bounds how long a cancelled invocation may keep its output pipes open.
const waitDelay = 5 * time.Second

// Compiler implements ports.Compiler by invoking cargo.
type Compiler struct {
	logger  ports.Logger
	cargo   string
	timeout time.Duration
}

// NewCompiler creates a Compiler running the cargo executable. A zero timeout disables the
// limit on a single invocation.
func NewCompiler(logger ports.Logger, cargo string, timeout time.Duration) *Compiler {
	return &Compiler{
		logger:  logger,
		cargo:   cargo,
		timeout: timeout,
	}
}

// Compile runs `cargo build` in dir and, when requested, cleans the package's own artifacts
// afterwards so only dependency output remains.
func (c *Compiler) Compile(ctx context.Context, dir string, opts ports.CompileOptions) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, c.timeout, domain.ErrCompileTimeout)
		defer cancel()
	}

	if err := c.run(ctx, dir, BuildArgs(opts)); err != nil {
		return err
	}
	if opts.CleanPackage == "" {
		return nil
	}
	return c.run(ctx, dir, CleanArgs(opts.CleanPackage))
}

// BuildArgs returns the arguments of the build invocation.
func BuildArgs(opts ports.CompileOptions) []string {
	args := []string{"build"}
	if opts.Jobs > 0 {
		args = append(args, "--jobs="+strconv.Itoa(opts.Jobs))
	}
	if opts.Offline {
		args = append(args, "--offline")
	}
	return args
}

// CleanArgs returns the arguments removing one package's artifacts.
func CleanArgs(pkg string) []string {
	return []string{"clean", "--offline", "--package", pkg}
}

func (c *Compiler) run(ctx context.Context, dir string, args []string) error {
	cmd := exec.CommandContext(ctx, c.cargo, args...) //nolint:gosec // configured compiler
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	stdout, stderr, flush := c.outputs(ctx)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	flush()
	if err == nil {
		return nil
	}

	command := c.cargo + " " + strings.Join(args, " ")
	if errors.Is(context.Cause(ctx), domain.ErrCompileTimeout) {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCompileTimeout.Error()), "command", command), "timeout", c.timeout.String())
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	wrapped := zerr.Wrap(err, domain.ErrCompilerFailure.Error())
	wrapped = zerr.With(wrapped, "command", command)
	wrapped = zerr.With(wrapped, "dir", dir)
	return zerr.With(wrapped, "exit_code", exitCode)
}

// outputs sends subprocess output to the vertex recorded in ctx, or to the logger line by
// line when there is none.
func (c *Compiler) outputs(ctx context.Context) (stdout, stderr io.Writer, flush func()) {
	if v, ok := ports.VertexFromContext(ctx); ok {
		return v.Stdout(), v.Stderr(), func() {}
	}
	out := &logWriter{logger: c.logger}
	errOut := &logWriter{logger: c.logger}
	return out, errOut, func() {
		out.Flush()
		errOut.Flush()
	}
}

// logWriter forwards complete lines to the logger and buffers partial ones.
type logWriter struct {
	mu     sync.Mutex
	logger ports.Logger
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush logs a trailing line that did not end with a newline.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	w.logger.Info(line)
}
