package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quick/internal/core/domain"
)

func TestRun(t *testing.T) {
	graph, err := filepath.Abs(filepath.Join("testdata", "solo.yaml"))
	require.NoError(t, err)

	tests := []struct {
		name         string
		config       string
		args         []string
		expectedExit int
	}{
		{
			name:         "version",
			args:         []string{"quick", "version"},
			expectedExit: 0,
		},
		{
			name:         "build without dependencies",
			args:         []string{"quick", "build", "--graph", graph, "--no-final", "--json"},
			expectedExit: 0,
		},
		{
			name:         "unknown root",
			args:         []string{"quick", "build", "--graph", graph, "--root", "nope@1.0.0", "--json"},
			expectedExit: 1,
		},
		{
			name:         "unknown command",
			args:         []string{"quick", "frobnicate"},
			expectedExit: 1,
		},
		{
			name:         "invalid configuration",
			config:       "version: \"1\"\njobs: -1\n",
			args:         []string{"quick", "version"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graft.ResetDefaultCache()
			tmpDir := t.TempDir()
			t.Setenv(domain.CacheDirEnv, filepath.Join(tmpDir, "cache"))
			t.Chdir(tmpDir)

			if tt.config != "" {
				err := os.WriteFile(filepath.Join(tmpDir, domain.ConfigFileName), []byte(tt.config), 0o600)
				require.NoError(t, err)
			}

			originalArgs := os.Args
			t.Cleanup(func() { os.Args = originalArgs })
			os.Args = tt.args

			assert.Equal(t, tt.expectedExit, run())
		})
	}
}
