// Package sweep runs the same trace under many simulator configurations in
// parallel.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/simulator"
	"github.com/sarchlab/vmsim/monitoring"
	"github.com/sarchlab/vmsim/sim"
)

// Options controls how a sweep is executed. The zero value runs on every CPU
// without recording or monitoring.
type Options struct {
	// Parallelism is the maximum number of runs in flight. Zero means
	// runtime.NumCPU().
	Parallelism int

	// Recorder, if set, receives a run row for every finished run.
	Recorder datarecording.DataRecorder

	// RecordFaults also records every page fault. It requires a Recorder.
	RecordFaults bool

	// Monitor, if set, shows the progress of the sweep and the finished runs.
	Monitor *monitoring.Monitor

	// Hooks are attached to every run. They must be safe for concurrent use.
	Hooks []sim.Hook

	// IDGenerator names the runs in the recorder. Defaults to unique IDs.
	IDGenerator sim.IDGenerator
}

// A Result is the outcome of one run of a sweep.
type Result struct {
	Name  string
	RunID string
	Spec  simulator.Spec
	Stats simulator.Stats
}

type job struct {
	index int
	spec  simulator.Spec
}

type sweeper struct {
	ctx         context.Context
	accesses    []vm.Access
	opts        Options
	runRecorder *simulator.RunRecorder
	bar         *monitoring.ProgressBar
	results     []Result

	wg         sync.WaitGroup
	errorOnce  sync.Once
	firstError error
}

// Run simulates accesses once per spec. Results are returned in the order of
// the specs. An invalid spec aborts the sweep before any run starts. If ctx is
// canceled, no new run is started and the context error is returned.
func Run(
	ctx context.Context,
	accesses []vm.Access,
	specs []simulator.Spec,
	opts Options,
) ([]Result, error) {
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("spec %d: %w", i, err)
		}
	}

	if opts.RecordFaults && opts.Recorder == nil {
		return nil, fmt.Errorf("recording faults requires a recorder")
	}

	s := newSweeper(ctx, accesses, len(specs), opts)

	jobs := make(chan job, len(specs))
	for i, spec := range specs {
		jobs <- job{index: i, spec: spec}
	}
	close(jobs)

	numWorkers := s.opts.Parallelism
	if numWorkers > len(specs) {
		numWorkers = len(specs)
	}

	for i := 0; i < numWorkers; i++ {
		s.wg.Add(1)
		go s.worker(jobs)
	}

	s.wg.Wait()

	if s.bar != nil {
		s.opts.Monitor.CompleteProgressBar(s.bar)
	}

	if s.opts.Recorder != nil {
		s.opts.Recorder.Flush()
	}

	if s.firstError != nil {
		return nil, s.firstError
	}

	return s.results, nil
}

func newSweeper(
	ctx context.Context,
	accesses []vm.Access,
	numSpecs int,
	opts Options,
) *sweeper {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}

	if opts.IDGenerator == nil {
		opts.IDGenerator = sim.NewUniqueIDGenerator()
	}

	s := &sweeper{
		ctx:      ctx,
		accesses: accesses,
		opts:     opts,
		results:  make([]Result, numSpecs),
	}

	if opts.Recorder != nil {
		s.runRecorder = simulator.NewRunRecorder(opts.Recorder)
	}

	if opts.Monitor != nil {
		s.bar = opts.Monitor.CreateProgressBar("Sweep", uint64(numSpecs))
	}

	return s
}

func (s *sweeper) worker(jobs <-chan job) {
	defer s.wg.Done()

	for j := range jobs {
		if err := s.ctx.Err(); err != nil {
			s.fail(err)
			return
		}

		s.results[j.index] = s.run(j)
	}
}

func (s *sweeper) fail(err error) {
	s.errorOnce.Do(func() {
		s.firstError = err
	})
}

func (s *sweeper) run(j job) Result {
	name := RunName(j.spec)
	runID := s.opts.IDGenerator.Generate()

	if s.bar != nil {
		s.bar.IncrementInProgress(1)
	}

	c := simulator.MakeBuilder().
		WithSpec(j.spec).
		WithAccesses(s.accesses).
		Build(name)

	for _, h := range s.opts.Hooks {
		c.AcceptHook(h)
	}

	if s.opts.RecordFaults {
		c.AcceptHook(trace.NewDBTracer(s.opts.Recorder, runID))
	}

	stats := c.Run()

	if s.runRecorder != nil {
		s.runRecorder.Record(runID, c)
	}

	if s.opts.Monitor != nil {
		s.opts.Monitor.RegisterRun(c)
	}

	if s.bar != nil {
		s.bar.MoveInProgressToFinished(1)
	}

	return Result{
		Name:  name,
		RunID: runID,
		Spec:  j.spec,
		Stats: stats,
	}
}

// RunName names a run after its algorithm and frame count, for example
// "AGING-8".
func RunName(spec simulator.Spec) string {
	return fmt.Sprintf("%s-%d", spec.Algorithm, spec.NumFrames)
}

// FrameRange returns the frame counts from min to max, doubling each time.
func FrameRange(minFrames, maxFrames int) []int {
	frames := []int{}

	for n := minFrames; n > 0 && n <= maxFrames; n *= 2 {
		frames = append(frames, n)
	}

	return frames
}

// Specs derives one spec per frame count from base.
func Specs(base simulator.Spec, frames []int) []simulator.Spec {
	specs := make([]simulator.Spec, 0, len(frames))

	for _, n := range frames {
		spec := base
		spec.NumFrames = n
		specs = append(specs, spec)
	}

	return specs
}
