// Package scan owns the scan lifecycle: the weighted phase sequence, the
// cancellation token, the shared counters and the two-pass file traversal.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/scanners"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
)

// ErrScanInProgress is returned when a scan is started while one is running.
var ErrScanInProgress = errors.New("scan already running")

// State names the orchestrator's position in a run.
type State string

const (
	StateIdle                      State = "idle"
	StateCounting                  State = "counting"
	StateScanningProcesses         State = "scanning_processes"
	StateScanningStartup           State = "scanning_startup"
	StateScanningBrowserExtensions State = "scanning_browser_extensions"
	StateScanningFileSystem        State = "scanning_file_system"
	StateScanningRegistry          State = "scanning_registry"
	StateScanningScheduledTasks    State = "scanning_scheduled_tasks"
	StateFinalizing                State = "finalizing"
	StateCompleted                 State = "completed"
	StateCancelled                 State = "cancelled"
	StateFailed                    State = "failed"
)

// Phase weights. They sum to 100; the file-system pass dominates because it
// dominates wall-clock time.
const (
	weightSetup      = 3
	weightProcesses  = 3
	weightStartup    = 3
	weightExtensions = 3
	weightFileSystem = 78
	weightRegistry   = 5
	weightTasks      = 3
	weightFinalize   = 2
)

// progressFloor is the in-phase fraction reported when the counting pass
// found nothing, so percentage math never divides by zero.
const progressFloor = 50

// Counter is the shared files-scanned counter. The scan runs on a single
// worker, so increments need no atomics; Value uses one only because the
// caller thread may read it while the worker runs.
type Counter struct {
	n atomic.Int64
}

// Inc adds one and returns the new value.
func (c *Counter) Inc() int64 { return c.n.Add(1) }

// Value returns the current count.
func (c *Counter) Value() int64 { return c.n.Load() }

// Orchestrator sequences the domain scanners and the traversal into weighted
// progress phases and assembles the final ScanResult. Exactly one scan may
// be in flight at a time.
type Orchestrator struct {
	probe platform.Probe
	sigs  *signatures.Store
	roots []string

	// domain overrides the default scanner set; used by tests and by callers
	// that restrict the surface.
	domain []scanners.DomainScanner

	scanning atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	state  State
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRoots overrides the volumes the traversal walks.
func WithRoots(roots ...string) Option {
	return func(o *Orchestrator) { o.roots = roots }
}

// WithDomainScanners replaces the default domain scanner set.
func WithDomainScanners(ds ...scanners.DomainScanner) Option {
	return func(o *Orchestrator) { o.domain = ds }
}

// New builds an orchestrator over the given probe and signature store.
func New(probe platform.Probe, sigs *signatures.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		probe: probe,
		sigs:  sigs,
		roots: DefaultRoots(),
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IsScanning reports whether a scan is in flight.
func (o *Orchestrator) IsScanning() bool { return o.scanning.Load() }

// State returns the current run state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// CancelScan signals cooperative cancellation. It is a no-op when no scan is
// running; the worker observes the signal at the next directory, file or
// phase boundary.
func (o *Orchestrator) CancelScan() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// Handle tracks one scan run.
type Handle struct {
	done   chan struct{}
	result *core.ScanResult
}

// Done is closed when the run reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Result blocks until the run finishes and returns the sealed result.
func (h *Handle) Result() *core.ScanResult {
	<-h.done
	return h.result
}

// StartScan begins a scan on a background worker. It fails fast with
// ErrScanInProgress while a run is in flight; it never queues.
func (o *Orchestrator) StartScan(sink *EventSink) (*Handle, error) {
	if !o.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()

	h := &Handle{done: make(chan struct{})}
	go o.run(ctx, sink, h)
	return h, nil
}

func (o *Orchestrator) run(ctx context.Context, sink *EventSink, h *Handle) {
	result := core.NewScanResult()
	counter := &Counter{}

	defer func() {
		// The scan boundary never lets a failure escape as a panic; whatever
		// happened, the caller gets a sealed result.
		if r := recover(); r != nil {
			result.Err = fmt.Sprintf("scan worker panic: %v", r)
			o.setState(StateFailed)
		}
		result.FilesScanned = counter.Value()
		result.Seal()

		o.mu.Lock()
		o.cancel = nil
		o.mu.Unlock()
		o.scanning.Store(false)

		h.result = result
		close(h.done)
	}()

	lastPercent := 0
	report := func(message string, percent int) {
		// Percentage is monotonically non-decreasing within a run.
		if percent < lastPercent {
			percent = lastPercent
		}
		if percent > 100 {
			percent = 100
		}
		lastPercent = percent
		sink.progress(message, percent)
	}

	addThreat := func(t core.Threat) {
		result.Threats = append(result.Threats, t)
		sink.threatFound(t)
	}

	visited := func() {
		sink.filesScanned(counter.Inc())
	}

	if len(o.roots) == 0 {
		result.Err = "no scan roots configured"
		o.setState(StateFailed)
		return
	}

	trav := &Traverser{Probe: o.probe, Sigs: o.sigs, Roots: o.roots, Sink: sink, Counter: counter}

	// Counting pass.
	o.setState(StateCounting)
	report("Counting files", 0)
	total, err := trav.Count(ctx)
	if o.finishEarly(ctx, err, result) {
		return
	}
	report("Counting complete", weightSetup)
	base := weightSetup

	// Domain phases before the long file pass, so quick wins surface early.
	domain := o.domain
	if domain == nil {
		domain = o.defaultDomainScanners(visited)
	}
	prePhases := []struct {
		state  State
		weight int
		match  core.Category
	}{
		{StateScanningProcesses, weightProcesses, core.CategoryProcess},
		{StateScanningStartup, weightStartup, core.CategoryStartup},
		{StateScanningBrowserExtensions, weightExtensions, core.CategoryBrowserExtension},
	}
	for _, phase := range prePhases {
		o.setState(phase.state)
		if o.runDomainPhase(ctx, domain, phase.match, addThreat, result) {
			return
		}
		base += phase.weight
		report(string(phase.state), base)
	}

	// File-system pass.
	o.setState(StateScanningFileSystem)
	fsBase := base
	percentOf := func(scanned, total int64) int {
		if total <= 0 {
			return fsBase + weightFileSystem*progressFloor/100
		}
		frac := int(scanned * int64(weightFileSystem) / total)
		if frac > weightFileSystem {
			frac = weightFileSystem
		}
		return fsBase + frac
	}
	// Route traversal progress through the monotonic clamp.
	fsSink := &EventSink{
		OnProgress:     func(msg string, pct int) { report(msg, pct) },
		OnThreatFound:  sink.OnThreatFound,
		OnFilesScanned: sink.OnFilesScanned,
		OnCurrentFile:  sink.OnCurrentFile,
	}
	trav.Sink = fsSink
	_, err = trav.Scan(ctx, total, percentOf, addThreat)
	if o.finishEarly(ctx, err, result) {
		return
	}
	base += weightFileSystem
	report("File system scan complete", base)

	// Remaining domain phases.
	postPhases := []struct {
		state  State
		weight int
		match  core.Category
	}{
		{StateScanningRegistry, weightRegistry, core.CategoryRegistry},
		{StateScanningScheduledTasks, weightTasks, core.CategoryScheduledTask},
	}
	for _, phase := range postPhases {
		o.setState(phase.state)
		if o.runDomainPhase(ctx, domain, phase.match, addThreat, result) {
			return
		}
		base += phase.weight
		report(string(phase.state), base)
	}

	o.setState(StateFinalizing)
	report("Finalizing", base)
	o.setState(StateCompleted)
	report("Scan complete", 100)
}

// runDomainPhase runs every domain scanner whose findings belong to the
// phase's category. A scanner failure other than cancellation is part of the
// skip-and-continue policy: an unsupported or unreadable surface never
// fails the run. Returns true when the run should stop.
func (o *Orchestrator) runDomainPhase(ctx context.Context, domain []scanners.DomainScanner, match core.Category, addThreat func(core.Threat), result *core.ScanResult) bool {
	for _, ds := range domain {
		if ds.Category() != match {
			continue
		}
		threats, err := ds.Run(ctx)
		for _, t := range threats {
			addThreat(t)
		}
		if errors.Is(err, context.Canceled) {
			return o.finishEarly(ctx, err, result)
		}
	}
	return o.finishEarly(ctx, nil, result)
}

// finishEarly handles cancellation and fatal errors; true means the run is
// over. Cancellation is terminal but not an error: accumulated counters and
// threats stay in the result.
func (o *Orchestrator) finishEarly(ctx context.Context, err error, result *core.ScanResult) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		result.Cancelled = true
		o.setState(StateCancelled)
		return true
	}
	if err != nil {
		result.Err = err.Error()
		o.setState(StateFailed)
		return true
	}
	return false
}

func (o *Orchestrator) defaultDomainScanners(visited func()) []scanners.DomainScanner {
	return []scanners.DomainScanner{
		&scanners.ProcessScanner{Probe: o.probe, Sigs: o.sigs},
		&scanners.StartupScanner{Probe: o.probe, Sigs: o.sigs},
		&scanners.BrowserScanner{Sigs: o.sigs, Visited: visited},
		&scanners.HijackScanner{Probe: o.probe, Sigs: o.sigs},
		&scanners.TaskScanner{Probe: o.probe, Sigs: o.sigs, Visited: visited},
	}
}
