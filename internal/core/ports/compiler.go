// Package ports defines the core interfaces for the application.
package ports

import "context"

// CompileOptions configures one compiler invocation.
type CompileOptions struct {
	// Offline forbids network access during the build.
	Offline bool

	// Jobs limits the compiler's parallelism. Zero leaves the compiler default.
	Jobs int

	// CleanPackage, when set, removes that package's own artifacts after a successful build
	// so only dependency output remains in the target directory.
	CleanPackage string
}

// Compiler runs the external compiler toolchain.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile builds the manifest found in dir. It returns an error wrapping
	// domain.ErrCompilerFailure when the toolchain exits unsuccessfully.
	Compile(ctx context.Context, dir string, opts CompileOptions) error
}
