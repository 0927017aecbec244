package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"

	"github.com/vango-dev/depstate/internal/errors"
	"github.com/vango-dev/depstate/pkg/depstate"
	"github.com/vango-dev/depstate/pkg/reactive"
	"github.com/vango-dev/depstate/pkg/render"
)

// Option configures Replay.
type Option func(*replayConfig)

type replayConfig struct {
	logger         *slog.Logger
	observer       depstate.Observer
	renderObserver render.RenderObserver
	maxFlushPasses int
}

// WithLogger sets the logger for replay and render events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *replayConfig) {
		c.logger = logger
	}
}

// WithObserver reports the hook's lifecycle events to o.
func WithObserver(o depstate.Observer) Option {
	return func(c *replayConfig) {
		c.observer = o
	}
}

// WithRenderObserver reports every render of the component to o.
func WithRenderObserver(o render.RenderObserver) Option {
	return func(c *replayConfig) {
		c.renderObserver = o
	}
}

// WithMaxFlushPasses bounds re-render passes after set and update steps.
func WithMaxFlushPasses(n int) Option {
	return func(c *replayConfig) {
		c.maxFlushPasses = n
	}
}

// Result is the outcome of one step.
type Result struct {
	Index   int    `json:"index"`
	Step    string `json:"step"`
	State   any    `json:"state"`
	Renders int    `json:"renders"`
	Error   string `json:"error,omitempty"`

	err error
}

// Passed reports whether the step met its expectation.
func (r Result) Passed() bool {
	return r.err == nil
}

// Err returns the E123 error of a failed expectation, or nil.
func (r Result) Err() error {
	return r.err
}

// Report is the outcome of a replay.
type Report struct {
	Name    string   `json:"name"`
	Results []Result `json:"results"`
}

// Failed returns the number of failed steps.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Passed reports whether every step met its expectation.
func (r *Report) Passed() bool {
	return r.Failed() == 0
}

// replayer is the component under replay. Render steps replace its props;
// the body reads them like a component reads props passed by its parent.
type replayer struct {
	value    any
	producer Producer
	deps     []any

	state  any
	setter *depstate.Setter[any]
}

func (r *replayer) body() {
	if r.producer != nil {
		r.state, r.setter = depstate.UseStateWithDepsFunc[any](r.producer, r.deps...)
		return
	}
	r.state, r.setter = depstate.UseStateWithDeps[any](r.value, r.deps...)
}

func (r *replayer) props(step Step) {
	r.value = step.Value
	r.deps = step.Deps
	r.producer = nil
	if step.Producer != "" {
		r.producer, _ = LookupProducer(step.Producer)
	}
}

// Replay runs the scenario against a fresh component. Failed expectations are
// reported per step and do not stop the replay. An error is returned when the
// context is cancelled or a flush exceeds its pass bound (E012); the report
// then holds the steps completed so far.
func Replay(ctx context.Context, s *Scenario, opts ...Option) (*Report, error) {
	cfg := replayConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.logger.With(slog.String("scenario", s.Name))
	sched := render.NewScheduler(
		render.WithMaxFlushPasses(cfg.maxFlushPasses),
		render.WithSchedulerLogger(logger),
	)

	renderOpts := []render.Option{
		render.WithName(s.Name),
		render.WithScheduler(sched),
		render.WithLogger(logger),
		render.WithContext(ctx),
	}
	if cfg.renderObserver != nil {
		renderOpts = append(renderOpts, render.WithRenderObserver(cfg.renderObserver))
	}
	if cfg.observer != nil {
		root := reactive.NewOwner(nil)
		defer root.Dispose()
		depstate.Observe(root, cfg.observer)
		renderOpts = append(renderOpts, render.WithParent(root))
	}

	report := &Report{Name: s.Name}
	comp := &replayer{}
	var inst *render.Instance
	defer func() {
		if inst != nil {
			inst.Dispose()
		}
	}()

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		logger.Debug("replaying step", slog.Int("step", i+1), slog.String("action", string(step.Action)))

		switch step.Action {
		case ActionRender:
			comp.props(step)
			if inst == nil {
				inst = render.Mount(comp.body, renderOpts...)
			} else {
				inst.Render()
			}
		case ActionSet:
			value := step.Value
			reactive.Batch(func() { comp.setter.Set(value) })
			if _, err := sched.Flush(); err != nil {
				return report, err
			}
		case ActionUpdate:
			p, err := LookupProducer(step.Producer)
			if err != nil {
				return report, err
			}
			reactive.Batch(func() {
				comp.setter.Update(func(prev any) any { return p(prev, true) })
			})
			if _, err := sched.Flush(); err != nil {
				return report, err
			}
		case ActionUnmount:
			inst.Dispose()
		}

		res := Result{
			Index:   i + 1,
			Step:    step.String(),
			State:   comp.state,
			Renders: inst.RenderCount(),
		}
		if err := check(step.Expect, res); err != nil {
			res.err = err
			res.Error = err.FormatCompact() + ": " + err.Detail
			logger.Warn("expectation failed", slog.Int("step", i+1), slog.String("error", res.Error))
		}
		report.Results = append(report.Results, res)
	}

	return report, nil
}

func check(exp *Expect, res Result) *errors.DepstateError {
	if exp == nil {
		return nil
	}
	var problems []string
	if exp.HasState && !valuesEqual(exp.State, res.State) {
		problems = append(problems, fmt.Sprintf("state = %s, want %s", formatValue(res.State), formatValue(exp.State)))
	}
	if exp.HasRenders && exp.Renders != res.Renders {
		problems = append(problems, fmt.Sprintf("renders = %d, want %d", res.Renders, exp.Renders))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("E123").WithDetail(strings.Join(problems, "; "))
}

// valuesEqual compares decoded values structurally. NaN equals NaN so a
// scenario can expect it.
func valuesEqual(want, got any) bool {
	a, aok := want.(float64)
	b, bok := got.(float64)
	if aok && bok {
		return a == b || (math.IsNaN(a) && math.IsNaN(b))
	}
	return reflect.DeepEqual(want, got)
}
