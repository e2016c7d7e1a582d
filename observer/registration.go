package observer

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/google/uuid"
	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/propertypath"
)

// Registration binds a Source to an ordered list of reactions run, in order,
// every time the source raises a Change.
type Registration struct {
	id      uuid.UUID
	source  Source
	token   observable.Token
	actions []ChangeFunc
	closed  bool
}

// NewRegistration subscribes to src.
func NewRegistration(src Source) (*Registration, error) {
	if src == nil || observable.IsNil(src) {
		return nil, fmt.Errorf("%w: source", ErrArgumentRequired)
	}

	r := &Registration{id: uuid.New(), source: src}
	r.token = src.Subscribe(r.dispatch)
	return r, nil
}

func (r *Registration) dispatch(c Change) {
	for _, action := range slices.Clone(r.actions) {
		action(c)
	}
}

// ID identifies the registration within an Observer.
func (r *Registration) ID() uuid.UUID {
	return r.id
}

// Source returns the observed source.
func (r *Registration) Source() Source {
	return r.source
}

// ObservedObject returns the root the source observes.
func (r *Registration) ObservedObject() any {
	return r.source.Root()
}

// Path returns the observed path; empty for root watches.
func (r *Registration) Path() propertypath.Path {
	return r.source.Path()
}

// Do appends fn to the reactions.
func (r *Registration) Do(fn ChangeFunc) *Registration {
	if fn != nil && !r.closed {
		r.actions = append(r.actions, fn)
	}
	return r
}

// Actions returns a copy of the reactions in invocation order.
func (r *Registration) Actions() []ChangeFunc {
	return slices.Clone(r.actions)
}

// SetActions replaces the reactions.
func (r *Registration) SetActions(actions ...ChangeFunc) {
	if r.closed {
		return
	}
	r.actions = slices.DeleteFunc(slices.Clone(actions), func(fn ChangeFunc) bool { return fn == nil })
}

// ClearActions removes every reaction.
func (r *Registration) ClearActions() {
	r.actions = nil
}

// Notify adds a write-back reaction for selector, parsed against the observed
// object's type: on every change the object owning the selected property is
// told that property changed.
func (r *Registration) Notify(selector string) (*Registration, error) {
	p, err := propertypath.Parse(reflect.TypeOf(r.ObservedObject()), selector)
	if err != nil {
		return r, err
	}
	if p.IsRoot() {
		return r, fmt.Errorf("%w: %q selects no property to notify", ErrInvalidPathShape, selector)
	}

	return r.NotifyPath(p), nil
}

// NotifyPath adds a write-back reaction for p.
func (r *Registration) NotifyPath(p propertypath.Path) *Registration {
	return r.Do(WriteBack(r.ObservedObject(), p))
}

// NotifySelf adds a write-back reaction for the registration's own path, so
// the terminal property is re-announced on its owner. It does nothing for
// root watches.
func (r *Registration) NotifySelf() *Registration {
	if r.Path().IsRoot() {
		return r
	}
	return r.NotifyPath(r.Path())
}

// Close detaches from the source and clears the reactions. The source stays
// open. Close is safe to call more than once.
func (r *Registration) Close() {
	if r.closed {
		return
	}
	r.closed = true

	r.source.Unsubscribe(r.token)
	r.actions = nil
}

// WriteBack returns a reaction that resolves the owner of p's terminal
// property on root and, when the owner is an observable.Announcer, announces
// the terminal property name. Absent owners and resolution failures are
// skipped.
func WriteBack(root any, p propertypath.Path) ChangeFunc {
	terminal, ok := p.Terminal()
	if !ok {
		return func(Change) {}
	}

	return func(Change) {
		owner, found, err := propertypath.Owner(root, p)
		if err != nil || !found {
			return
		}
		if a, ok := observable.AnnouncerOf(owner); ok {
			a.NotifyPropertyChanged(terminal.Name)
		}
	}
}
