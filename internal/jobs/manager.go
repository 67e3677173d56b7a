package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZanzyTHEbar/jobcore/internal/adapters/eventbus"
	"github.com/ZanzyTHEbar/jobcore/internal/adapters/workerpool"
	"github.com/ZanzyTHEbar/jobcore/internal/domain"
	"github.com/ZanzyTHEbar/jobcore/internal/ports"
)

// Validator checks a job descriptor before submission. Returning an error refuses the job.
type Validator func(input domain.Input) error

// Manager runs jobs on a worker pool, tracks the live ones in a Registry and reports their
// lifecycle through an event bus.
type Manager struct {
	executor  ports.TaskExecutor
	registry  *Registry
	bus       *eventbus.Bus[Event]
	chain     Chain
	validator Validator
	logger    zerolog.Logger

	coreSize  int
	queueSize int
	inner     []Interceptor
	outer     []Interceptor

	shutdown     atomic.Bool
	shutdownOnce sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager, its pool and its event bus.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithPoolSize sets the worker count and queue capacity of the default worker pool.
// Non-positive values keep the defaults.
func WithPoolSize(coreSize, queueSize int) Option {
	return func(m *Manager) {
		if coreSize > 0 {
			m.coreSize = coreSize
		}
		if queueSize >= 0 {
			m.queueSize = queueSize
		}
	}
}

// WithExecutor replaces the default worker pool.
func WithExecutor(executor ports.TaskExecutor) Option {
	return func(m *Manager) { m.executor = executor }
}

// WithValidator installs a job descriptor check run on every submission.
func WithValidator(v Validator) Option {
	return func(m *Manager) { m.validator = v }
}

// WithInnerInterceptors adds interceptors between the base chain and the job body.
func WithInnerInterceptors(interceptors ...Interceptor) Option {
	return func(m *Manager) { m.inner = append(m.inner, interceptors...) }
}

// WithOuterInterceptors adds interceptors around the base chain.
func WithOuterInterceptors(interceptors ...Interceptor) Option {
	return func(m *Manager) { m.outer = append(m.outer, interceptors...) }
}

// NewManager creates a Manager. Unless WithExecutor is given, it starts a worker pool of
// workerpool.DefaultCoreSize workers.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		registry:  NewRegistry(),
		logger:    zerolog.Nop(),
		coreSize:  workerpool.DefaultCoreSize,
		queueSize: -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("component", "jobs").Logger()
	if m.executor == nil {
		m.executor = workerpool.NewWorkerPool(m.coreSize, m.queueSize, m.logger)
	}
	m.bus = eventbus.New[Event](m.logger)
	m.chain = NewChain(m.logger, m.inner, m.outer)
	return m
}

// Registry returns the registry of live handles.
func (m *Manager) Registry() *Registry { return m.registry }

// AddListener registers a lifecycle listener; filter may be nil.
func (m *Manager) AddListener(listener Listener, filter Filter) ListenerID {
	return m.bus.Add(listener, filter)
}

// RemoveListener unregisters the listener added under id.
func (m *Manager) RemoveListener(id ListenerID) bool {
	return m.bus.Remove(id)
}

func (m *Manager) fire(t domain.EventType, mode domain.DeliveryMode, h *Handle) {
	e, err := NewEvent(t, mode, m, h)
	if err != nil {
		m.logger.Error().Err(err).Msg("Dropping invalid lifecycle event")
		return
	}
	m.bus.FireEvent(e)
}

// RunNow runs task on the calling goroutine and returns its result.
//
// Called from within a job (ctx carries the running job), the task runs in-line with no new
// handle. Otherwise a handle is registered for the duration of the call.
func (m *Manager) RunNow(ctx context.Context, task any, input domain.Input) (any, error) {
	callable, err := domain.Adapt(task)
	if err != nil {
		return nil, err
	}

	if exec := executionFromContext(ctx); exec != nil {
		var monitor *domain.ProgressMonitor
		if exec.handle != nil {
			monitor = exec.handle.Monitor()
		}
		composed := m.chain.Build(domain.BindCallable(callable, input), input, monitor)
		return composed.Call(ctx)
	}

	if err := m.validate(input); err != nil {
		return nil, err
	}

	h := newHandle(input, domain.OneTime)
	composed := m.chain.Build(domain.BindCallable(callable, input), input, h.Monitor())
	h.future = m.executor.NewFuture(func(ctx context.Context) (any, error) {
		return m.runManaged(ctx, h, composed, domain.DeliveryCaller)
	}, nil)

	if _, err := m.registry.Add(input.ID(), func() (*Handle, error) {
		if m.shutdown.Load() {
			return h, fmt.Errorf("%w: job manager is shut down", ports.ErrRejected)
		}
		return h, nil
	}); err != nil {
		h.future.Cancel(false)
		m.fire(domain.EventRejected, domain.DeliveryCaller, h)
		return nil, err
	}
	h.future.OnComplete(func(mode domain.DeliveryMode) { m.finish(h, mode) })
	h.markScheduled()

	h.future.Run(ctx)
	return h.result()
}

// Schedule submits task for immediate asynchronous execution.
func (m *Manager) Schedule(task any, input domain.Input) (*Handle, error) {
	return m.submit(task, input, 0, nil)
}

// ScheduleDelayed submits task for asynchronous execution after delay.
func (m *Manager) ScheduleDelayed(task any, delay time.Duration, input domain.Input) (*Handle, error) {
	return m.submit(task, input, delay, nil)
}

// ScheduleAtFixedRate runs task after initialDelay and then every period, measured from the
// time each run was due. The handle represents the whole series.
func (m *Manager) ScheduleAtFixedRate(task any, initialDelay, period time.Duration, input domain.Input) (*Handle, error) {
	if period <= 0 {
		return nil, domain.NewJobExecutionError(input.ID(), fmt.Errorf("period must be positive, got %s", period))
	}
	return m.submit(task, input, initialDelay, workerpool.FixedRateTrigger{Period: period})
}

// ScheduleWithFixedDelay runs task after initialDelay and then again delay after each run
// completed. The handle represents the whole series.
func (m *Manager) ScheduleWithFixedDelay(task any, initialDelay, delay time.Duration, input domain.Input) (*Handle, error) {
	if delay <= 0 {
		return nil, domain.NewJobExecutionError(input.ID(), fmt.Errorf("delay must be positive, got %s", delay))
	}
	return m.submit(task, input, initialDelay, workerpool.FixedDelayTrigger{Delay: delay})
}

// ScheduleCron runs task at every tick of the cron expression expr.
func (m *Manager) ScheduleCron(task any, expr string, input domain.Input) (*Handle, error) {
	trigger, err := workerpool.NewCronTrigger(expr)
	if err != nil {
		return nil, domain.NewJobExecutionError(input.ID(), err)
	}
	delay, err := trigger.FirstDelay(time.Now())
	if err != nil {
		return nil, domain.NewJobExecutionError(input.ID(), err)
	}
	return m.submit(task, input, delay, trigger)
}

func (m *Manager) validate(input domain.Input) error {
	if m.validator == nil {
		return nil
	}
	if err := m.validator(input); err != nil {
		return domain.NewJobExecutionError(input.ID(), err)
	}
	return nil
}

func (m *Manager) submit(task any, input domain.Input, delay time.Duration, trigger ports.Trigger) (*Handle, error) {
	callable, err := domain.Adapt(task)
	if err != nil {
		return nil, err
	}
	if err := m.validate(input); err != nil {
		return nil, err
	}

	kind := domain.OneTime
	if trigger != nil {
		kind = trigger.Type()
	}
	h := newHandle(input, kind)
	composed := m.chain.Build(domain.BindCallable(callable, input), input, h.Monitor())
	h.future = m.executor.NewFuture(func(ctx context.Context) (any, error) {
		select {
		case <-h.scheduled:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return m.runManaged(ctx, h, composed, domain.DeliveryWorker)
	}, trigger)

	if _, err := m.registry.Add(input.ID(), func() (*Handle, error) {
		if m.shutdown.Load() {
			return h, fmt.Errorf("%w: job manager is shut down", ports.ErrRejected)
		}
		return h, m.executor.Submit(h.future, delay)
	}); err != nil {
		h.future.Cancel(false)
		m.logger.Warn().Err(err).Str("job_id", input.ID()).Msg("Job rejected")
		m.fire(domain.EventRejected, domain.DeliveryCaller, h)
		return nil, err
	}

	m.logger.Debug().Str("job_id", input.ID()).Str("kind", kind.String()).Dur("delay", delay).Msg("Job scheduled")
	m.fire(domain.EventScheduled, domain.DeliveryCaller, h)
	h.markScheduled()
	h.future.OnComplete(func(mode domain.DeliveryMode) { m.finish(h, mode) })
	return h, nil
}

// runManaged runs one execution of a registered job.
func (m *Manager) runManaged(ctx context.Context, h *Handle, composed domain.Callable, mode domain.DeliveryMode) (any, error) {
	exec := &execution{manager: m, handle: h, mode: mode, mutex: h.input.Mutex()}
	if err := exec.acquire(ctx); err != nil {
		return nil, domain.NewInterruptedError(h.input.ID(), err)
	}
	defer exec.release()
	if h.future.IsCancelled() {
		return nil, domain.NewCancellationError(h.input.ID())
	}

	ctx = withExecution(ctx, exec)
	m.fire(domain.EventAboutToRun, mode, h)
	return composed.Call(ctx)
}

// finish runs once the native future of h is terminal, on the goroutine that completed it.
func (m *Manager) finish(h *Handle, mode domain.DeliveryMode) {
	removed := m.registry.Remove(h)
	h.markSettled()
	if !removed {
		return
	}
	if h.IsPeriodic() && !h.IsCancelled() {
		if _, err := h.future.Result(); err != nil {
			m.logger.Error().Err(err).Str("job_id", h.input.ID()).Msg("Periodic job failed, series ended")
		}
	}
	m.fire(domain.EventDone, mode, h)
}

// Visit calls visitor for each live handle until it returns false. The handles are a snapshot;
// jobs submitted or finished meanwhile do not affect the visit.
func (m *Manager) Visit(visitor func(h *Handle) bool) {
	for _, h := range m.registry.Values() {
		if !visitor(h) {
			return
		}
	}
}

// Shutdown cancels every live job, interrupting running ones, empties the registry and stops
// the worker pool. Later submissions fail with ErrJobExecution. Shutdown is idempotent.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.shutdown.Store(true)

		live := m.registry.Values()
		m.logger.Info().Int("live_jobs", len(live)).Msg("Shutting down job manager")
		for _, h := range live {
			h.Cancel(true)
		}
		m.registry.Clear()
		m.executor.Shutdown()

		m.fire(domain.EventShutdown, domain.DeliveryCaller, nil)
	})
}

// IsShutdown reports whether Shutdown was called.
func (m *Manager) IsShutdown() bool {
	return m.shutdown.Load()
}

// AwaitTermination waits for the worker pool to stop after Shutdown.
func (m *Manager) AwaitTermination(ctx context.Context) error {
	if !m.IsShutdown() {
		return errors.New("jobs: AwaitTermination called before Shutdown")
	}
	return m.executor.AwaitTermination(ctx)
}

// Stats is a snapshot of the manager's load.
type Stats struct {
	Live int              // Handles currently registered
	Pool workerpool.Stats // Zero unless the executor is a workerpool.WorkerPool
}

// Stats returns the current statistics.
func (m *Manager) Stats() Stats {
	s := Stats{Live: m.registry.Len()}
	if wp, ok := m.executor.(*workerpool.WorkerPool); ok {
		s.Pool = wp.Stats()
	}
	return s
}
