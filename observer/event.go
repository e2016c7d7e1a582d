package observer

import (
	"errors"
	"slices"

	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/propertypath"
)

var (
	ErrEmptyPath = errors.New("path must have at least one segment")

	// Kinds raised by path extraction and resolution, re-exported so callers
	// can match every observer failure from this package.
	ErrArgumentRequired  = propertypath.ErrArgumentRequired
	ErrInvalidPathShape  = propertypath.ErrInvalidPathShape
	ErrNonPropertyMember = propertypath.ErrNonPropertyMember
)

// Change is delivered when an observed path changes. Name is the terminal
// property name and Value its new value.
type Change struct {
	Name  string
	Value any
}

// ChangeFunc reacts to a Change.
type ChangeFunc func(Change)

// Source is a single observable event surface rooted at an object.
type Source interface {
	Subscribe(fn ChangeFunc) observable.Token
	Unsubscribe(t observable.Token)
	Root() any
	Path() propertypath.Path
	Close()
}

type listener struct {
	token observable.Token
	fn    ChangeFunc
}

// emitter is the listener set behind a Source.
type emitter struct {
	listeners []listener
	last      observable.Token
}

func (e *emitter) add(fn ChangeFunc) observable.Token {
	if fn == nil {
		return 0
	}

	e.last++
	e.listeners = append(e.listeners, listener{token: e.last, fn: fn})
	return e.last
}

func (e *emitter) remove(t observable.Token) {
	e.listeners = slices.DeleteFunc(slices.Clone(e.listeners), func(l listener) bool {
		return l.token == t
	})
}

func (e *emitter) emit(c Change) {
	for _, l := range slices.Clone(e.listeners) {
		if !e.has(l.token) {
			continue
		}
		l.fn(c)
	}
}

func (e *emitter) has(t observable.Token) bool {
	return slices.ContainsFunc(e.listeners, func(l listener) bool {
		return l.token == t
	})
}

func (e *emitter) clear() {
	e.listeners = nil
}

func (e *emitter) len() int {
	return len(e.listeners)
}
