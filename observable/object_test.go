package observable

import (
	"slices"
	"testing"
)

func TestObject_NotifyPropertyChanged(t *testing.T) {
	var o Object
	var got []string

	o.Subscribe(func(e PropertyChanged) { got = append(got, "a:"+e.Name) })
	o.Subscribe(func(e PropertyChanged) { got = append(got, "b:"+e.Name) })

	o.NotifyPropertyChanged("Name")
	o.NotifyPropertyChanged("")

	want := []string{"a:Name", "b:Name", "a:", "b:"}
	if !slices.Equal(got, want) {
		t.Fatalf("NotifyPropertyChanged() delivered %v, want %v", got, want)
	}
}

func TestObject_Unsubscribe(t *testing.T) {
	var o Object
	calls := 0

	token := o.Subscribe(func(PropertyChanged) { calls++ })
	if o.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", o.Subscribers())
	}

	o.Unsubscribe(token)
	o.Unsubscribe(token)
	o.NotifyPropertyChanged("Name")

	if calls != 0 {
		t.Errorf("handler called %d times after Unsubscribe, want 0", calls)
	}
	if o.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", o.Subscribers())
	}
}

func TestObject_UnsubscribeDuringDispatch(t *testing.T) {
	var o Object
	var second Token
	secondCalls := 0

	o.Subscribe(func(PropertyChanged) { o.Unsubscribe(second) })
	second = o.Subscribe(func(PropertyChanged) { secondCalls++ })

	o.NotifyPropertyChanged("Name")

	if secondCalls != 0 {
		t.Errorf("handler removed during dispatch was called %d times, want 0", secondCalls)
	}
}

func TestObject_SubscribeNil(t *testing.T) {
	var o Object
	if token := o.Subscribe(nil); token != 0 {
		t.Errorf("Subscribe(nil) = %d, want 0", token)
	}
	if o.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", o.Subscribers())
	}
}

type plain struct{ Name string }

func TestNotifierOf(t *testing.T) {
	var nilObject *Object

	tests := []struct {
		name  string
		value any
		nop   bool
	}{
		{name: "nil", value: nil, nop: true},
		{name: "typed_nil", value: nilObject, nop: true},
		{name: "plain", value: &plain{}, nop: true},
		{name: "string", value: "x", nop: true},
		{name: "object", value: &Object{}, nop: false},
		{name: "record", value: NewRecord(nil), nop: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NotifierOf(tt.value)
			if (got == NopNotifier) != tt.nop {
				t.Fatalf("NotifierOf(%T) nop = %v, want %v", tt.value, got == NopNotifier, tt.nop)
			}
		})
	}
}

func TestAnnouncerOf(t *testing.T) {
	if _, ok := AnnouncerOf(&plain{}); ok {
		t.Error("AnnouncerOf(plain) = true, want false")
	}
	if _, ok := AnnouncerOf(nil); ok {
		t.Error("AnnouncerOf(nil) = true, want false")
	}
	if _, ok := AnnouncerOf(&Object{}); !ok {
		t.Error("AnnouncerOf(Object) = false, want true")
	}
}

func TestSame(t *testing.T) {
	p1, p2 := &plain{Name: "a"}, &plain{Name: "a"}
	var nilPlain *plain

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "equal_strings", a: "x", b: "x", want: true},
		{name: "different_strings", a: "x", b: "y", want: false},
		{name: "same_pointer", a: p1, b: p1, want: true},
		{name: "distinct_pointers", a: p1, b: p2, want: false},
		{name: "nil_and_typed_nil", a: nil, b: nilPlain, want: true},
		{name: "nil_and_value", a: nil, b: "x", want: false},
		{name: "different_types", a: 1, b: int64(1), want: false},
		{name: "equal_slices", a: []int{1, 2}, b: []int{1, 2}, want: true},
		{name: "different_slices", a: []int{1}, b: []int{2}, want: false},
		{name: "struct_with_slice", a: struct{ V any }{[]int{1}}, b: struct{ V any }{[]int{1}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.a, tt.b); got != tt.want {
				t.Errorf("Same(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
