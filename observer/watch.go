package observer

import (
	"fmt"

	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/propertypath"
)

// ObjectWatch observes the root object itself, the "$" selector. Every
// notification from the root raises a Change carrying the announced property
// name and the root.
type ObjectWatch struct {
	root     any
	notifier observable.Notifier
	token    observable.Token
	events   emitter
	closed   bool
}

var _ Source = (*ObjectWatch)(nil)

// NewObjectWatch attaches to root. A root without change notifications is
// accepted and never raises a Change.
func NewObjectWatch(root any) (*ObjectWatch, error) {
	if observable.IsNil(root) {
		return nil, fmt.Errorf("%w: root", ErrArgumentRequired)
	}

	w := &ObjectWatch{root: root, notifier: observable.NotifierOf(root)}
	w.token = w.notifier.Subscribe(w.handle)
	return w, nil
}

func (w *ObjectWatch) handle(e observable.PropertyChanged) {
	if w.closed {
		return
	}
	w.events.emit(Change{Name: e.Name, Value: w.root})
}

func (w *ObjectWatch) Subscribe(fn ChangeFunc) observable.Token {
	if w.closed {
		return 0
	}
	return w.events.add(fn)
}

func (w *ObjectWatch) Unsubscribe(t observable.Token) {
	w.events.remove(t)
}

func (w *ObjectWatch) Root() any {
	return w.root
}

// Path returns the empty path.
func (w *ObjectWatch) Path() propertypath.Path {
	return propertypath.Path{}
}

func (w *ObjectWatch) Close() {
	if w.closed {
		return
	}
	w.closed = true

	w.notifier.Unsubscribe(w.token)
	w.events.clear()
}
