// Package scheduler builds the closure of a root package bottom-up, in waves.
package scheduler

import (
	"context"
	"maps"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Report summarises a completed run.
type Report struct {
	// Built lists the fingerprints that were compiled, in completion order.
	Built []domain.Fingerprint
	// Cached lists the fingerprints found in the cache.
	Cached []domain.Fingerprint
	// Waves is the number of waves including the one in which the root became ready.
	Waves int
}

// Scheduler drives the per-entry state machine Pending -> Ready -> Building -> Built | Failed.
type Scheduler struct {
	repo      ports.CacheRepository
	builder   ports.PackageBuilder
	telemetry ports.Telemetry
	progress  ports.Progress

	mu     sync.RWMutex
	status map[domain.ClosureEntry]domain.BuildState
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	repo ports.CacheRepository,
	builder ports.PackageBuilder,
	telemetry ports.Telemetry,
	progress ports.Progress,
) *Scheduler {
	return &Scheduler{
		repo:      repo,
		builder:   builder,
		telemetry: telemetry,
		progress:  progress,
		status:    make(map[domain.ClosureEntry]domain.BuildState),
	}
}

// Status returns the state of an entry during or after the last run.
func (s *Scheduler) Status(entry domain.ClosureEntry) (domain.BuildState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.status[entry]
	return st, ok
}

func (s *Scheduler) transition(entry domain.ClosureEntry, next domain.BuildState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.status[entry]; !cur.CanTransition(next) {
		panic("scheduler: illegal transition of " + entry.String() + " from " + string(cur) + " to " + string(next))
	}
	s.status[entry] = next
}

func (s *Scheduler) state(entry domain.ClosureEntry) domain.BuildState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[entry]
}

// Run builds every entry needed by root, skipping entries already in the cache. The root
// itself is not built: it becoming ready completes the run. A parallelism of zero or less
// means one builder per CPU.
func (s *Scheduler) Run(ctx context.Context, plan ports.Planner, root domain.ClosureEntry, parallelism int) (Report, error) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	outstanding, err := universe(plan, root)
	if err != nil {
		return Report{}, err
	}

	s.mu.Lock()
	s.status = make(map[domain.ClosureEntry]domain.BuildState, len(outstanding))
	for entry := range outstanding {
		s.status[entry] = domain.StatePending
	}
	s.mu.Unlock()

	s.progress.Start(len(outstanding) - 1)
	defer s.progress.Finish()

	var report Report
	var reportMu sync.Mutex
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		wave := s.nextWave(outstanding)
		if len(wave) == 0 {
			return report, s.stuckError(outstanding)
		}
		report.Waves++

		if slices.Contains(wave, root) {
			s.transition(root, domain.StateBuilding)
			s.transition(root, domain.StateBuilt)
			return report, nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)
		for _, entry := range wave {
			g.Go(func() error {
				fp, cached, err := s.visit(gctx, plan, entry)
				if err != nil {
					return err
				}
				reportMu.Lock()
				if cached {
					report.Cached = append(report.Cached, fp)
				} else {
					report.Built = append(report.Built, fp)
				}
				reportMu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return report, err
		}
	}
}

// nextWave promotes every pending entry whose dependencies are all built and returns the
// ready entries in sorted order.
func (s *Scheduler) nextWave(outstanding map[domain.ClosureEntry][]domain.ClosureEntry) []domain.ClosureEntry {
	var wave []domain.ClosureEntry
	for entry, deps := range outstanding {
		if s.state(entry) != domain.StatePending {
			continue
		}
		if slices.ContainsFunc(deps, func(dep domain.ClosureEntry) bool { return s.state(dep) != domain.StateBuilt }) {
			continue
		}
		s.transition(entry, domain.StateReady)
		wave = append(wave, entry)
	}
	slices.SortFunc(wave, domain.ClosureEntry.Compare)
	return wave
}

// visit builds one ready entry unless the cache already holds it.
func (s *Scheduler) visit(ctx context.Context, plan ports.Planner, entry domain.ClosureEntry) (domain.Fingerprint, bool, error) {
	s.transition(entry, domain.StateBuilding)

	fp, err := plan.Fingerprint(entry)
	if err != nil {
		s.transition(entry, domain.StateFailed)
		return "", false, zerr.With(err, "package", entry.String())
	}

	vctx, vertex := s.telemetry.Record(ctx, fp.String())

	if s.repo.Has(fp) {
		vertex.Cached()
		vertex.Complete(nil)
		s.transition(entry, domain.StateBuilt)
		s.progress.Advance(entry.ID.String())
		return fp, true, nil
	}

	if err := s.builder.Build(vctx, plan, entry); err != nil {
		vertex.Complete(err)
		s.transition(entry, domain.StateFailed)
		wrapped := zerr.With(zerr.Wrap(err, "failed to build package"), "package", entry.String())
		return "", false, zerr.With(wrapped, "fingerprint", fp.String())
	}

	vertex.Complete(nil)
	s.transition(entry, domain.StateBuilt)
	s.progress.Advance(entry.ID.String())
	return fp, false, nil
}

// stuckError lists, for every entry that is still pending, the dependencies it waits for.
func (s *Scheduler) stuckError(outstanding map[domain.ClosureEntry][]domain.ClosureEntry) error {
	var lines []string
	for _, entry := range slices.SortedFunc(maps.Keys(outstanding), domain.ClosureEntry.Compare) {
		if s.state(entry) != domain.StatePending {
			continue
		}
		var waiting []string
		for _, dep := range outstanding[entry] {
			if s.state(dep) != domain.StateBuilt {
				waiting = append(waiting, dep.String())
			}
		}
		lines = append(lines, entry.String()+": "+strings.Join(waiting, ", "))
	}
	return zerr.With(domain.ErrSchedulingStuck, "stuck", strings.Join(lines, "\n"))
}

// universe collects every entry the run has to visit together with the entries it waits
// for. A dependency's own closure can classify a shared package differently from root's
// closure, so the universe is the union of the closures of everything reached.
func universe(plan ports.Planner, root domain.ClosureEntry) (map[domain.ClosureEntry][]domain.ClosureEntry, error) {
	outstanding := make(map[domain.ClosureEntry][]domain.ClosureEntry)
	queue := []domain.ClosureEntry{root}
	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]
		if _, seen := outstanding[entry]; seen {
			continue
		}

		closure, err := plan.Closure(entry)
		if err != nil {
			return nil, err
		}
		deps := slices.Collect(closure.Deps())
		outstanding[entry] = deps
		for _, dep := range deps {
			if _, seen := outstanding[dep]; !seen {
				queue = append(queue, dep)
			}
		}
	}
	return outstanding, nil
}
