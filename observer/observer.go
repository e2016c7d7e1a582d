// Package observer watches nested property paths on object graphs and raises a
// single notification whenever the value at the end of a path changes.
//
// Each path segment is observed by a node that subscribes to its current
// object's observable.Notifier. When a segment's value changes, the next node
// is re-pointed at the new value, so replacing an intermediate object moves
// the whole remainder of the chain onto the new objects and releases the old
// subscriptions.
//
//	o, _ := observer.New(person)
//	reg, _ := o.When("$.Address.Building.Owner.Name")
//	reg.Do(func(c observer.Change) { fmt.Println(c.Name, c.Value) })
//	defer o.Close()
//
// Everything runs synchronously on the goroutine that raises the notification.
package observer

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/propertypath"
)

// Observer manages registrations on a single root object.
type Observer[T any] struct {
	root          T
	registrations []*Registration
}

// New creates an Observer for root.
func New[T any](root T) (*Observer[T], error) {
	if observable.IsNil(root) {
		return nil, fmt.Errorf("%w: root", ErrArgumentRequired)
	}

	return &Observer[T]{root: root}, nil
}

// Root returns the observed object.
func (o *Observer[T]) Root() T {
	return o.root
}

// When registers a watch on selector. "$" (or a bare parameter) watches the
// root object itself; any other selector builds a Chain.
func (o *Observer[T]) When(selector string) (*Registration, error) {
	p, err := propertypath.For[T](selector)
	if err != nil {
		return nil, err
	}

	return o.WhenPath(p)
}

// WhenPath registers a watch on an already extracted path.
func (o *Observer[T]) WhenPath(p propertypath.Path) (*Registration, error) {
	var (
		src Source
		err error
	)
	if p.IsRoot() {
		src, err = NewObjectWatch(o.root)
	} else {
		src, err = NewChain(o.root, p)
	}
	if err != nil {
		return nil, err
	}

	reg, err := NewRegistration(src)
	if err != nil {
		src.Close()
		return nil, err
	}

	o.registrations = append(o.registrations, reg)
	return reg, nil
}

// Registration returns the registration identified by id.
func (o *Observer[T]) Registration(id uuid.UUID) (*Registration, bool) {
	i := o.index(id)
	if i < 0 {
		return nil, false
	}
	return o.registrations[i], true
}

// Remove closes the registration identified by id together with its source.
func (o *Observer[T]) Remove(id uuid.UUID) bool {
	i := o.index(id)
	if i < 0 {
		return false
	}

	closeRegistration(o.registrations[i])
	o.registrations = slices.Delete(o.registrations, i, i+1)
	return true
}

// Len returns the number of live registrations.
func (o *Observer[T]) Len() int {
	return len(o.registrations)
}

// Close closes every registration and its source.
func (o *Observer[T]) Close() {
	for _, reg := range o.registrations {
		closeRegistration(reg)
	}
	o.registrations = nil
}

func (o *Observer[T]) index(id uuid.UUID) int {
	return slices.IndexFunc(o.registrations, func(r *Registration) bool {
		return r.ID() == id
	})
}

func closeRegistration(reg *Registration) {
	reg.Close()
	reg.Source().Close()
}
