package observer

import (
	"errors"
	"testing"
)

func TestNewObjectWatch_NilRoot(t *testing.T) {
	if _, err := NewObjectWatch(nil); !errors.Is(err, ErrArgumentRequired) {
		t.Errorf("NewObjectWatch(nil) error = %v, want %v", err, ErrArgumentRequired)
	}
	if _, err := NewObjectWatch((*person)(nil)); !errors.Is(err, ErrArgumentRequired) {
		t.Errorf("NewObjectWatch(typed nil) error = %v, want %v", err, ErrArgumentRequired)
	}
}

func TestObjectWatch(t *testing.T) {
	p := newPerson("X")
	w, err := NewObjectWatch(p)
	if err != nil {
		t.Fatalf("NewObjectWatch() unexpected error: %v", err)
	}

	rec := &recorder{}
	w.Subscribe(rec.record)

	p.NotifyPropertyChanged("Phone")
	p.NotifyPropertyChanged("")

	assertChanges(t, rec, Change{Name: "Phone", Value: p}, Change{Name: "", Value: p})

	if !w.Path().IsRoot() {
		t.Errorf("Path() = %s, want root", w.Path())
	}
	if w.Root() != any(p) {
		t.Errorf("Root() = %v, want %v", w.Root(), p)
	}

	w.Close()
	w.Close()

	p.NotifyPropertyChanged("Phone")
	assertChanges(t, rec, Change{Name: "Phone", Value: p}, Change{Name: "", Value: p})

	if p.subscribes != 1 || p.unsubscribes != 1 {
		t.Errorf("subscribes = %d, unsubscribes = %d, want 1, 1", p.subscribes, p.unsubscribes)
	}
	if token := w.Subscribe(rec.record); token != 0 {
		t.Errorf("Subscribe() after Close = %d, want 0", token)
	}
}

func TestObjectWatch_PlainRoot(t *testing.T) {
	w, err := NewObjectWatch(&plainHolder{})
	if err != nil {
		t.Fatalf("NewObjectWatch() unexpected error: %v", err)
	}
	defer w.Close()

	rec := &recorder{}
	if token := w.Subscribe(rec.record); token == 0 {
		t.Error("Subscribe() = 0, want a token")
	}
	assertChanges(t, rec)
}
