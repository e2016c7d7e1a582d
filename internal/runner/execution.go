package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacoelho/pathwatch/internal/clock"
	"github.com/jacoelho/pathwatch/internal/output"
	"github.com/jacoelho/pathwatch/internal/scenario"
	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/observer"
	"github.com/jacoelho/pathwatch/propertypath"
)

var (
	ErrExpectation = errors.New("expectation failed")
	ErrAbsentOwner = errors.New("owner object is absent")
)

var parseSelector = propertypath.For[*observable.Record]

// watchState records what one registration delivered during the current step.
type watchState struct {
	id     string
	reg    *observer.Registration
	events int
	total  int
	last   any
}

func (w *watchState) record(c observer.Change) {
	w.events++
	w.total++
	w.last = c.Value
}

func (w *watchState) reset() {
	w.events = 0
	w.last = nil
}

// sourceErr reports a resolution failure recorded by the watch's chain.
func (w *watchState) sourceErr() error {
	if c, ok := w.reg.Source().(*observer.Chain); ok {
		return c.Err()
	}
	return nil
}

func (r *Runner) executeScenario(ctx context.Context, sc scenario.Scenario) (result output.ScenarioResult) {
	result.Name = sc.Name

	start := clock.Now()
	defer func() { result.Duration = clock.Since(start) }()

	root := buildRecord(sc.Graph)
	if err := r.applyOverrides(root); err != nil {
		result.Error = err
		return result
	}

	o, err := observer.New(root)
	if err != nil {
		result.Error = err
		return result
	}
	defer o.Close()

	watches, err := r.registerWatches(o, sc.Watches)
	defer func() {
		for _, w := range watches {
			result.Events += w.total
		}
	}()
	if err != nil {
		result.Error = err
		return result
	}

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			result.Error = err
			return result
		}

		for _, w := range watches {
			w.reset()
		}

		if err := applyStep(root, step); err != nil {
			result.Error = fmt.Errorf("step %d: %w", i, err)
			return result
		}
		result.Steps++

		if err := r.checkStep(root, step, watches); err != nil {
			result.Error = fmt.Errorf("step %d: %w", i, err)
			return result
		}
	}

	return result
}

func (r *Runner) applyOverrides(root *observable.Record) error {
	for _, ov := range r.config.Overrides {
		p, err := parseSelector(ov.Path)
		if err != nil {
			return fmt.Errorf("override %s: %w", ov.Path, err)
		}
		if err := propertypath.Set(root, p, ov.Value); err != nil {
			return fmt.Errorf("override %s: %w", ov.Path, err)
		}
	}
	return nil
}

// registerWatches registers every watch in order. Reactions run in the order
// record, trace, write-back, so the recorded event precedes any cascade the
// write-back triggers.
func (r *Runner) registerWatches(o *observer.Observer[*observable.Record], defs []scenario.Watch) (map[string]*watchState, error) {
	watches := make(map[string]*watchState, len(defs))

	for _, def := range defs {
		reg, err := o.When(def.Path)
		if err != nil {
			return watches, fmt.Errorf("watch %q: %w", def.ID, err)
		}

		w := &watchState{id: def.ID, reg: reg}
		watches[def.ID] = w

		reg.Do(w.record)
		if r.config.Debug {
			reg.Do(r.traceChange(def.ID))
		}
		if def.WriteBack {
			reg.NotifySelf()
		}
		for _, selector := range def.Notify {
			if _, err := reg.Notify(selector); err != nil {
				return watches, fmt.Errorf("watch %q: notify: %w", def.ID, err)
			}
		}
	}

	return watches, nil
}

func (r *Runner) traceChange(id string) observer.ChangeFunc {
	return func(c observer.Change) {
		r.logf("watch %s: %s = %s\n", id, c.Name, describe(c.Value))
	}
}

func applyStep(root *observable.Record, step scenario.Step) error {
	if step.Announce != "" {
		p, err := parseSelector(step.Announce)
		if err != nil {
			return fmt.Errorf("announce: %w", err)
		}
		if owner, _, err := propertypath.Owner(root, p); err != nil || observable.IsNil(owner) {
			return fmt.Errorf("announce %s: %w", p, errors.Join(ErrAbsentOwner, err))
		}
		observer.WriteBack(root, p)(observer.Change{})
		return nil
	}

	p, err := parseSelector(step.Set)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	if err := propertypath.Set(root, p, graphValue(step.Value)); err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	return nil
}

func (r *Runner) checkStep(root *observable.Record, step scenario.Step, watches map[string]*watchState) error {
	for _, w := range watches {
		if err := w.sourceErr(); err != nil {
			return fmt.Errorf("watch %q: %w", w.id, err)
		}
	}

	for _, e := range step.Expect {
		w := watches[e.Watch]

		if e.Events != nil && w.events != *e.Events {
			return fmt.Errorf("%w: watch %q delivered %d event(s), want %d", ErrExpectation, w.id, w.events, *e.Events)
		}
		if !e.HasOp {
			continue
		}

		actual, err := currentValue(root, w)
		if err != nil {
			return fmt.Errorf("watch %q: %w", w.id, err)
		}

		ok, err := r.evaluator.Evaluate(e.Predicate, actual)
		if err != nil {
			return fmt.Errorf("watch %q: %w", w.id, err)
		}
		if !ok {
			return fmt.Errorf("%w: watch %q: %s %s, got %s", ErrExpectation, w.id,
				e.Predicate.Op, describe(e.Predicate.Value), describe(actual))
		}
	}

	return nil
}

// currentValue is the last value delivered during the step, or the path's
// present value when nothing was delivered.
func currentValue(root any, w *watchState) (any, error) {
	if w.events > 0 {
		return w.last, nil
	}

	v, _, err := propertypath.Value(root, w.reg.Path())
	return v, err
}
