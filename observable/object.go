// Package observable provides the change-notification capability consumed by
// path observers: objects that announce "property X changed" and let callers
// subscribe to those announcements.
package observable

import "reflect"

// PropertyChanged is delivered to subscribers when a property changes.
// An empty Name means any property may have changed.
type PropertyChanged struct {
	Name string
}

// Handler receives property change notifications.
type Handler func(PropertyChanged)

// Token identifies a subscription. The zero Token is never issued.
type Token uint64

// Notifier is implemented by objects that publish property changes.
type Notifier interface {
	Subscribe(h Handler) Token
	Unsubscribe(t Token)
}

// Announcer is implemented by objects that can be told a property changed.
type Announcer interface {
	NotifyPropertyChanged(name string)
}

// Observable combines both capabilities.
type Observable interface {
	Notifier
	Announcer
}

type subscription struct {
	token   Token
	handler Handler
}

// Object is an embeddable Observable. The zero value is ready to use and is
// not safe for concurrent use.
type Object struct {
	subs []subscription
	last Token
}

var _ Observable = (*Object)(nil)

// Subscribe registers h and returns its token.
func (o *Object) Subscribe(h Handler) Token {
	if h == nil {
		return 0
	}

	o.last++
	o.subs = append(o.subs, subscription{token: o.last, handler: h})
	return o.last
}

// Unsubscribe removes the subscription identified by t. Unknown tokens are ignored.
func (o *Object) Unsubscribe(t Token) {
	for i, s := range o.subs {
		if s.token == t {
			o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
			return
		}
	}
}

// NotifyPropertyChanged delivers name to every subscriber in subscription order.
// Handlers removed while the notification is being delivered are skipped.
func (o *Object) NotifyPropertyChanged(name string) {
	if len(o.subs) == 0 {
		return
	}

	snapshot := make([]subscription, len(o.subs))
	copy(snapshot, o.subs)

	event := PropertyChanged{Name: name}
	for _, s := range snapshot {
		if !o.subscribed(s.token) {
			continue
		}
		s.handler(event)
	}
}

// Subscribers returns the number of active subscriptions.
func (o *Object) Subscribers() int {
	return len(o.subs)
}

func (o *Object) subscribed(t Token) bool {
	for _, s := range o.subs {
		if s.token == t {
			return true
		}
	}
	return false
}

type nopNotifier struct{}

func (nopNotifier) Subscribe(Handler) Token { return 0 }
func (nopNotifier) Unsubscribe(Token)       {}

// NopNotifier never delivers notifications. NotifierOf returns it for plain
// data holders.
var NopNotifier Notifier = nopNotifier{}

// NotifierOf returns v's Notifier, or NopNotifier when v is nil or does not
// publish changes.
func NotifierOf(v any) Notifier {
	if IsNil(v) {
		return NopNotifier
	}
	if n, ok := v.(Notifier); ok {
		return n
	}
	return NopNotifier
}

// AnnouncerOf reports whether v accepts property change announcements.
func AnnouncerOf(v any) (Announcer, bool) {
	if IsNil(v) {
		return nil, false
	}
	a, ok := v.(Announcer)
	return a, ok
}

// IsNil reports whether v is nil or a nil pointer, map, slice, func, chan or
// interface stored in a non-nil interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
