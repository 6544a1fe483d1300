package domain

import (
	"encoding/json"
	"time"
)

// BuildStats holds the phase durations of one package build.
// It is persisted next to the archive as {fingerprint}.stats.json.
type BuildStats struct {
	// Setup covers creating the scratch directory and writing the manifest.
	Setup time.Duration
	// Unpack covers extracting the archives of every dependency.
	Unpack time.Duration
	// Compile covers the compiler invocation, including a retry.
	Compile time.Duration
	// Pack covers writing the output tree into the archive.
	Pack time.Duration
}

// Total returns the sum of all phases.
func (s BuildStats) Total() time.Duration {
	return s.Setup + s.Unpack + s.Compile + s.Pack
}

type buildStatsJSON struct {
	InitDuration  float64 `json:"init_duration"`
	UntarDuration float64 `json:"untar_duration"`
	BuildDuration float64 `json:"build_duration"`
	TarDuration   float64 `json:"tar_duration"`
}

// MarshalJSON encodes every phase as float seconds.
func (s BuildStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(buildStatsJSON{
		InitDuration:  s.Setup.Seconds(),
		UntarDuration: s.Unpack.Seconds(),
		BuildDuration: s.Compile.Seconds(),
		TarDuration:   s.Pack.Seconds(),
	})
}

// UnmarshalJSON decodes float seconds into durations.
func (s *BuildStats) UnmarshalJSON(data []byte) error {
	var raw buildStatsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Setup = seconds(raw.InitDuration)
	s.Unpack = seconds(raw.UntarDuration)
	s.Compile = seconds(raw.BuildDuration)
	s.Pack = seconds(raw.TarDuration)
	return nil
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// StatsRecorder marks phase boundaries of a build as they happen.
type StatsRecorder struct {
	now   func() time.Time
	marks [5]time.Time
}

// NewStatsRecorder starts recording at the current time.
func NewStatsRecorder() *StatsRecorder {
	return NewStatsRecorderWithClock(time.Now)
}

// NewStatsRecorderWithClock starts recording using the given clock.
func NewStatsRecorderWithClock(now func() time.Time) *StatsRecorder {
	r := &StatsRecorder{now: now}
	r.marks[0] = now()
	return r
}

// SetupDone marks the end of the setup phase.
func (r *StatsRecorder) SetupDone() { r.marks[1] = r.now() }

// UnpackDone marks the end of the unpack phase.
func (r *StatsRecorder) UnpackDone() { r.marks[2] = r.now() }

// CompileDone marks the end of the compile phase.
func (r *StatsRecorder) CompileDone() { r.marks[3] = r.now() }

// PackDone marks the end of the pack phase.
func (r *StatsRecorder) PackDone() { r.marks[4] = r.now() }

// Stats returns the durations between consecutive marks.
// A phase that was never marked is reported as zero, and later phases are measured from the
// last mark that was set.
func (r *StatsRecorder) Stats() BuildStats {
	var d [4]time.Duration
	prev := r.marks[0]
	for i := 1; i < len(r.marks); i++ {
		if r.marks[i].IsZero() {
			continue
		}
		d[i-1] = r.marks[i].Sub(prev)
		prev = r.marks[i]
	}
	return BuildStats{Setup: d[0], Unpack: d[1], Compile: d[2], Pack: d[3]}
}
