package render

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/depstate/internal/errors"
)

// DefaultMaxFlushPasses bounds how many times Flush re-renders instances that
// keep marking themselves dirty.
const DefaultMaxFlushPasses = 100

// Scheduler queues dirty instances and renders them on Flush.
// Instances marked dirty several times before a flush render once.
type Scheduler struct {
	mu    sync.Mutex
	queue []*Instance

	maxPasses int
	logger    *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithMaxFlushPasses sets the flush pass bound. Values below 1 are ignored.
func WithMaxFlushPasses(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxPasses = n
		}
	}
}

// WithSchedulerLogger sets the scheduler's logger.
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler creates an empty scheduler.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		maxPasses: DefaultMaxFlushPasses,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) enqueue(inst *Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, inst)
}

// Pending returns the number of queued instances.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Scheduler) drain() []*Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.queue
	s.queue = nil
	return queue
}

// requeue puts instances back at the front of the queue, ahead of anything
// marked dirty since they were drained.
func (s *Scheduler) requeue(insts []*Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(insts, s.queue...)
}

// renderQueue renders one drained pass. If a render panics, the instances
// after it that are still dirty go back on the queue before the panic
// continues, so a later Flush renders them.
func (s *Scheduler) renderQueue(queue []*Instance) (renders int) {
	next := 0
	defer func() {
		if r := recover(); r != nil {
			var rest []*Instance
			for _, inst := range queue[next:] {
				if !inst.IsDisposed() && inst.IsDirty() {
					rest = append(rest, inst)
				}
			}
			if len(rest) > 0 {
				s.requeue(rest)
			}
			panic(r)
		}
	}()

	for next < len(queue) {
		inst := queue[next]
		next++
		if inst.IsDisposed() || !inst.IsDirty() {
			continue
		}
		inst.Render()
		renders++
	}
	return renders
}

// Flush renders every queued instance, in the order they were marked dirty,
// until the queue stays empty. Instances marking themselves dirty while
// rendering are rendered again in the next pass. If the queue is still not
// empty after the pass bound, Flush drops it and returns E012.
//
// Flush returns the number of renders performed. A panicking render
// propagates out of Flush; the instances it had not reached stay queued.
func (s *Scheduler) Flush() (int, error) {
	renders := 0

	for pass := 0; pass < s.maxPasses; pass++ {
		queue := s.drain()
		if len(queue) == 0 {
			return renders, nil
		}

		renders += s.renderQueue(queue)
	}

	dropped := s.drain()
	for _, inst := range dropped {
		inst.dirty.Store(false)
	}
	if len(dropped) == 0 {
		return renders, nil
	}

	s.logger.Warn("flush pass bound exceeded",
		slog.Int("passes", s.maxPasses),
		slog.Int("dropped", len(dropped)),
	)
	return renders, errors.New("E012").WithDetailf(
		"%d instances still dirty after %d flush passes", len(dropped), s.maxPasses)
}
