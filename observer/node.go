package observer

import (
	"strings"

	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/propertypath"
)

// node observes one path segment on its current object. It owns the next
// segment's node and re-points it whenever its own value changes.
type node struct {
	chain   *Chain
	segment propertypath.Segment

	observed any
	notifier observable.Notifier
	token    observable.Token
	value    any

	child *node
}

// setObserved moves the node to obj: detach from the old object, attach to
// the new one and recompute the value.
func (n *node) setObserved(obj any) {
	if observable.Same(n.observed, obj) {
		return
	}

	n.detach()
	n.observed = obj
	n.attach()

	if n.child == nil {
		n.chain.markDirty()
	}

	n.recompute()
}

// setValue stores v and re-wires the rest of the chain to originate from it.
func (n *node) setValue(v any) {
	if observable.Same(n.value, v) {
		return
	}

	n.value = v

	if n.child != nil {
		n.child.setObserved(v)
		return
	}
	n.chain.markDirty()
}

func (n *node) recompute() {
	v, err := n.segment.Read(n.observed)
	if err != nil {
		n.chain.fail(err)
		v = nil
	}
	n.setValue(v)
}

func (n *node) attach() {
	n.notifier = observable.NotifierOf(n.observed)
	n.token = n.notifier.Subscribe(n.handle)
}

func (n *node) detach() {
	if n.notifier == nil {
		return
	}

	n.notifier.Unsubscribe(n.token)
	n.notifier = nil
	n.token = 0
}

// handle accepts notifications for the segment's property and unaddressed
// ones. An unaddressed notification re-reads the property even when something
// unrelated changed, so objects that announce "" often cost a walk down the
// rest of the chain.
func (n *node) handle(e observable.PropertyChanged) {
	if n.chain.closed {
		return
	}
	if name := strings.TrimSpace(e.Name); name != "" && name != n.segment.Name {
		return
	}

	n.recompute()
	n.chain.flush()
}
