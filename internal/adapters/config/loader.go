// Package config loads quick settings from quick.yaml, .env and the environment, and reads
// package graphs written as YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the Loader.
const (
	EnvCargo       = "QUICK_CARGO"
	EnvJobs        = "QUICK_JOBS"
	EnvTimeout     = "QUICK_TIMEOUT"
	EnvOffline     = "QUICK_OFFLINE"
	EnvParallelism = "QUICK_PARALLELISM"
	EnvScratchRoot = "QUICK_SCRATCH_ROOT"
	EnvCompression = "QUICK_COMPRESSION"
)

var _ ports.SettingsLoader = (*Loader)(nil)

// Loader implements ports.SettingsLoader.
//
// Settings are layered: defaults, then the nearest quick.yaml found walking up from the
// working directory, then the process environment with .env as a fallback for unset
// variables.
type Loader struct {
	FS        FileSystem
	Logger    ports.Logger
	LookupEnv func(key string) (string, bool)
}

// NewLoader creates a new Loader reading the real file system and environment.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		FS:        NewOSFS(),
		Logger:    logger,
		LookupEnv: os.LookupEnv,
	}
}

// Load resolves the settings for cwd.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return domain.Settings{}, err
	}
	if configPath != "" {
		var quickfile Quickfile
		if err := l.readAndUnmarshalYAML(configPath, &quickfile); err != nil {
			return domain.Settings{}, err
		}
		if err := l.applyFile(&settings, &quickfile, filepath.Dir(configPath)); err != nil {
			return domain.Settings{}, zerr.With(err, "path", configPath)
		}
	}

	dotenv, err := l.readDotenv(filepath.Join(cwd, domain.EnvFileName))
	if err != nil {
		return domain.Settings{}, err
	}
	if err := l.applyEnv(&settings, dotenv); err != nil {
		return domain.Settings{}, err
	}

	if err := validate(settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// findConfiguration returns the nearest quick.yaml at or above cwd, or "" if there is none.
func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

func (l *Loader) readAndUnmarshalYAML(path string, v any) error {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	if err := unmarshalYAML(data, v); err != nil {
		return zerr.With(err, "path", path)
	}
	return nil
}

// unmarshalYAML decodes strictly so that misspelled keys are reported instead of ignored.
func unmarshalYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

func (l *Loader) applyFile(s *domain.Settings, q *Quickfile, baseDir string) error {
	if q.Version != "" && q.Version != "1" {
		l.Logger.Warn(fmt.Sprintf("unknown %s version %q, reading it as version 1", domain.ConfigFileName, q.Version))
	}

	if q.CacheDir != "" {
		s.CacheDir = resolvePath(baseDir, q.CacheDir)
	}
	if q.ScratchRoot != "" {
		s.ScratchRoot = resolvePath(baseDir, q.ScratchRoot)
	}
	if q.Cargo != "" {
		s.Cargo = q.Cargo
	}
	if q.Jobs != nil {
		s.Jobs = *q.Jobs
	}
	if q.Parallelism != nil {
		s.Parallelism = *q.Parallelism
	}
	if q.Offline != nil {
		s.Offline = *q.Offline
	}
	if q.JSONLogs != nil {
		s.JSONLogs = *q.JSONLogs
	}
	if q.Timeout != "" {
		timeout, err := time.ParseDuration(q.Timeout)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidSetting.Error()), "setting", "timeout")
		}
		s.CompileTimeout = timeout
	}
	if q.Compression != "" {
		c, ok := domain.ParseCompression(q.Compression)
		if !ok {
			return zerr.With(zerr.With(domain.ErrInvalidSetting, "setting", "compression"), "value", q.Compression)
		}
		s.Compression = c
	}
	return nil
}

// readDotenv parses path if it exists. Missing files yield an empty map.
func (l *Loader) readDotenv(path string) (map[string]string, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return env, nil
}

func (l *Loader) applyEnv(s *domain.Settings, dotenv map[string]string) error {
	lookup := func(key string) (string, bool) {
		if v, ok := l.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(domain.CacheDirEnv); ok {
		s.CacheDir = v
	} else if v, ok := lookup(domain.LegacyCacheDirEnv); ok {
		l.Logger.Warn(fmt.Sprintf("%s is deprecated, use %s", domain.LegacyCacheDirEnv, domain.CacheDirEnv))
		s.CacheDir = v
	}
	if v, ok := lookup(EnvCargo); ok {
		s.Cargo = v
	}
	if v, ok := lookup(EnvScratchRoot); ok {
		s.ScratchRoot = v
	}

	var err error
	if v, ok := lookup(EnvJobs); ok {
		if s.Jobs, err = parseInt(EnvJobs, v); err != nil {
			return err
		}
	}
	if v, ok := lookup(EnvParallelism); ok {
		if s.Parallelism, err = parseInt(EnvParallelism, v); err != nil {
			return err
		}
	}
	if v, ok := lookup(EnvOffline); ok {
		offline, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			return zerr.With(zerr.Wrap(parseErr, domain.ErrInvalidSetting.Error()), "setting", EnvOffline)
		}
		s.Offline = offline
	}
	if v, ok := lookup(EnvTimeout); ok {
		timeout, parseErr := time.ParseDuration(v)
		if parseErr != nil {
			return zerr.With(zerr.Wrap(parseErr, domain.ErrInvalidSetting.Error()), "setting", EnvTimeout)
		}
		s.CompileTimeout = timeout
	}
	if v, ok := lookup(EnvCompression); ok {
		c, valid := domain.ParseCompression(v)
		if !valid {
			return zerr.With(zerr.With(domain.ErrInvalidSetting, "setting", EnvCompression), "value", v)
		}
		s.Compression = c
	}
	return nil
}

func parseInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrInvalidSetting.Error()), "setting", key)
	}
	return n, nil
}

func validate(s domain.Settings) error {
	switch {
	case s.CacheDir == "":
		return zerr.With(domain.ErrInvalidSetting, "setting", "cacheDir")
	case s.Cargo == "":
		return zerr.With(domain.ErrInvalidSetting, "setting", "cargo")
	case s.Jobs < 0:
		return zerr.With(zerr.With(domain.ErrInvalidSetting, "setting", "jobs"), "value", s.Jobs)
	case s.Parallelism < 0:
		return zerr.With(zerr.With(domain.ErrInvalidSetting, "setting", "parallelism"), "value", s.Parallelism)
	case s.CompileTimeout < 0:
		return zerr.With(zerr.With(domain.ErrInvalidSetting, "setting", "timeout"), "value", s.CompileTimeout.String())
	}
	return nil
}

// resolvePath interprets p relative to the directory of the configuration file.
func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

// EffectiveParallelism maps a zero parallelism setting to the number of CPUs.
func EffectiveParallelism(s domain.Settings) int {
	if s.Parallelism > 0 {
		return s.Parallelism
	}
	return runtime.NumCPU()
}
