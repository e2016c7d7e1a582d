package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacoelho/pathwatch/internal/predicate"
	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/propertypath"
)

// ErrValidation is the sentinel error for scenarios that decode but cannot run.
var ErrValidation = errors.New("validation error")

// parseSelector checks selectors against the record type; every graph
// object is a record, so only the selector shape is verified here.
var parseSelector = propertypath.For[*observable.Record]

// Validate checks every scenario and reports the first problem.
func Validate(scenarios []Scenario) error {
	for i, s := range scenarios {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("scenario %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks watch ids, selectors, step shapes and expectation references.
func (s Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	ids := make(map[string]struct{}, len(s.Watches))
	for i, w := range s.Watches {
		if strings.TrimSpace(w.ID) == "" {
			return fmt.Errorf("%w: watch %d: id is required", ErrValidation, i)
		}
		if _, dup := ids[w.ID]; dup {
			return fmt.Errorf("%w: watch %d: duplicate id %q", ErrValidation, i, w.ID)
		}
		ids[w.ID] = struct{}{}

		p, err := parseSelector(w.Path)
		if err != nil {
			return fmt.Errorf("%w: watch %q: %v", ErrValidation, w.ID, err)
		}
		if w.WriteBack && p.IsRoot() {
			return fmt.Errorf("%w: watch %q: write_back needs a property path", ErrValidation, w.ID)
		}
		for _, n := range w.Notify {
			if err := propertySelector(n); err != nil {
				return fmt.Errorf("%w: watch %q: notify: %v", ErrValidation, w.ID, err)
			}
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrValidation)
	}

	for i, step := range s.Steps {
		if err := step.validate(ids); err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrValidation, i, err)
		}
	}

	return nil
}

func (s Step) validate(ids map[string]struct{}) error {
	switch {
	case s.Set != "" && s.Announce != "":
		return errors.New("set and announce are mutually exclusive")
	case s.Set != "":
		if !s.HasValue {
			return errors.New("set requires a value")
		}
		if err := propertySelector(s.Set); err != nil {
			return fmt.Errorf("set: %v", err)
		}
	case s.Announce != "":
		if s.HasValue {
			return errors.New("announce does not accept a value")
		}
		if err := propertySelector(s.Announce); err != nil {
			return fmt.Errorf("announce: %v", err)
		}
	default:
		return errors.New("one of set or announce is required")
	}

	for j, e := range s.Expect {
		if err := e.validate(ids); err != nil {
			return fmt.Errorf("expect %d: %v", j, err)
		}
	}

	return nil
}

func (e Expect) validate(ids map[string]struct{}) error {
	if _, ok := ids[e.Watch]; !ok {
		return fmt.Errorf("unknown watch %q", e.Watch)
	}
	if e.Events == nil && !e.HasOp {
		return errors.New("one of events or op is required")
	}
	if e.Events != nil && *e.Events < 0 {
		return fmt.Errorf("events must not be negative, got %d", *e.Events)
	}
	if e.HasOp {
		if err := predicate.ValidateExpr(e.Predicate); err != nil {
			return err
		}
	} else if e.Predicate.HasValue {
		return errors.New("value requires op")
	}
	return nil
}

func propertySelector(selector string) error {
	p, err := parseSelector(selector)
	if err != nil {
		return err
	}
	if p.IsRoot() {
		return fmt.Errorf("%q selects no property", selector)
	}
	return nil
}
