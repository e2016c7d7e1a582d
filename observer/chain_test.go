package observer

import (
	"errors"
	"testing"

	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/propertypath"
)

var ownerNamePath = propertypath.MustFor[*person]("$.Address.Building.Owner.Name")

func newRecordedChain(t *testing.T, root any, p propertypath.Path) (*Chain, *recorder) {
	t.Helper()

	c, err := NewChain(root, p)
	if err != nil {
		t.Fatalf("NewChain() unexpected error: %v", err)
	}
	rec := &recorder{}
	c.Subscribe(rec.record)
	return c, rec
}

func assertChanges(t *testing.T, rec *recorder, want ...Change) {
	t.Helper()

	if len(rec.changes) != len(want) {
		t.Fatalf("got %d changes %v, want %d %v", len(rec.changes), rec.changes, len(want), want)
	}
	for i := range want {
		if rec.changes[i].Name != want[i].Name || !observable.Same(rec.changes[i].Value, want[i].Value) {
			t.Errorf("change[%d] = %+v, want %+v", i, rec.changes[i], want[i])
		}
	}
}

func TestNewChain_Errors(t *testing.T) {
	dynamic, err := propertypath.Parse(nil, "$.Address.Street")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		root    any
		path    propertypath.Path
		wantErr error
	}{
		{name: "nil_root", root: nil, path: ownerNamePath, wantErr: ErrArgumentRequired},
		{name: "typed_nil_root", root: (*person)(nil), path: ownerNamePath, wantErr: ErrArgumentRequired},
		{name: "empty_path", root: newPerson("X"), path: propertypath.Path{}, wantErr: ErrEmptyPath},
		{name: "non_property_member", root: newPerson("X"), path: dynamic, wantErr: ErrNonPropertyMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChain(tt.root, tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewChain() error = %v, want %v", err, tt.wantErr)
			}
			if c != nil {
				t.Errorf("NewChain() = %v, want nil", c)
			}
		})
	}
}

func TestNewChain_FailureReleasesSubscriptions(t *testing.T) {
	p := newPerson("X")
	dynamic, _ := propertypath.Parse(nil, "$.Address.Street")

	if _, err := NewChain(p, dynamic); err == nil {
		t.Fatal("NewChain() error = nil, want failure")
	}
	if p.Subscribers() != 0 || p.Address.Subscribers() != 0 {
		t.Errorf("subscribers after failed build = %d/%d, want 0/0", p.Subscribers(), p.Address.Subscribers())
	}
}

func TestChain_AttachDetachSymmetric(t *testing.T) {
	p := newPerson("X")
	a, b, o := p.Address, p.Address.Building, p.Address.Building.Owner

	c, err := NewChain(p, ownerNamePath)
	if err != nil {
		t.Fatalf("NewChain() unexpected error: %v", err)
	}

	if c.Len() != ownerNamePath.Len() {
		t.Fatalf("Len() = %d, want %d", c.Len(), ownerNamePath.Len())
	}

	objects := []*counting{&p.counting, &a.counting, &b.counting, &o.counting}
	for i, obj := range objects {
		if obj.subscribes != 1 || obj.Subscribers() != 1 {
			t.Errorf("object %d: subscribes = %d, active = %d, want 1, 1", i, obj.subscribes, obj.Subscribers())
		}
	}

	c.Close()
	c.Close()

	for i, obj := range objects {
		if obj.unsubscribes != obj.subscribes || obj.Subscribers() != 0 {
			t.Errorf("object %d: unsubscribes = %d, subscribes = %d, active = %d", i, obj.unsubscribes, obj.subscribes, obj.Subscribers())
		}
	}
	if !c.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestChain_InitialValue(t *testing.T) {
	c, rec := newRecordedChain(t, newPerson("X"), ownerNamePath)

	v, found := c.Value()
	if !found || v != "X" {
		t.Errorf("Value() = %v, %v, want X, true", v, found)
	}
	assertChanges(t, rec)
}

func TestChain_LeafChange(t *testing.T) {
	p := newPerson("X")
	_, rec := newRecordedChain(t, p, ownerNamePath)

	p.Address.Building.Owner.SetName("Y")

	assertChanges(t, rec, Change{Name: "Name", Value: "Y"})
}

func TestChain_EqualLeafValueIsSuppressed(t *testing.T) {
	p := newPerson("X")
	_, rec := newRecordedChain(t, p, ownerNamePath)

	p.Address.Building.Owner.SetName("X")

	assertChanges(t, rec)
}

func TestChain_ReplaceIntermediate(t *testing.T) {
	p := newPerson("X")
	old := p.Address
	_, rec := newRecordedChain(t, p, ownerNamePath)

	p.SetAddress(newAddress("Z"))
	assertChanges(t, rec, Change{Name: "Name", Value: "Z"})

	for i, obj := range []*counting{&old.counting, &old.Building.counting, &old.Building.Owner.counting} {
		if obj.Subscribers() != 0 || obj.unsubscribes != 1 {
			t.Errorf("stale object %d: active = %d, unsubscribes = %d, want 0, 1", i, obj.Subscribers(), obj.unsubscribes)
		}
	}

	old.Building.Owner.SetName("stale")
	assertChanges(t, rec, Change{Name: "Name", Value: "Z"})

	p.Address.Building.Owner.SetName("W")
	assertChanges(t, rec, Change{Name: "Name", Value: "Z"}, Change{Name: "Name", Value: "W"})
}

func TestChain_ReplaceIntermediateSameShape(t *testing.T) {
	p := newPerson("X")
	_, rec := newRecordedChain(t, p, ownerNamePath)

	p.SetAddress(newAddress("X"))

	assertChanges(t, rec, Change{Name: "Name", Value: "X"})
}

func TestChain_ReplaceIntermediateSharingTail(t *testing.T) {
	p := newPerson("X")
	_, rec := newRecordedChain(t, p, ownerNamePath)

	p.SetAddress(&address{Building: p.Address.Building})

	assertChanges(t, rec)
}

func TestChain_AbsentIntermediate(t *testing.T) {
	p := &person{}
	c, rec := newRecordedChain(t, p, ownerNamePath)

	if v, found := c.Value(); found || v != nil {
		t.Fatalf("Value() = %v, %v, want nil, false", v, found)
	}

	p.SetAddress(&address{})
	assertChanges(t, rec)

	p.Address.SetBuilding(&building{Owner: &owner{name: "X"}})
	assertChanges(t, rec, Change{Name: "Name", Value: "X"})

	if v, found := c.Value(); !found || v != "X" {
		t.Errorf("Value() = %v, %v, want X, true", v, found)
	}
}

func TestChain_IntermediateRemoved(t *testing.T) {
	p := newPerson("X")
	c, rec := newRecordedChain(t, p, ownerNamePath)

	p.SetAddress(nil)

	assertChanges(t, rec, Change{Name: "Name", Value: nil})
	if _, found := c.Value(); found {
		t.Error("Value() found = true after removing intermediate")
	}
}

func TestChain_SilenceAfterClose(t *testing.T) {
	p := newPerson("X")
	c, rec := newRecordedChain(t, p, ownerNamePath)

	c.Close()
	p.Address.Building.Owner.SetName("Y")
	p.SetAddress(newAddress("Z"))

	assertChanges(t, rec)
	if token := c.Subscribe(rec.record); token != 0 {
		t.Errorf("Subscribe() after Close = %d, want 0", token)
	}
}

func TestChain_NotificationFilter(t *testing.T) {
	tests := []struct {
		name     string
		announce string
		want     int
	}{
		{name: "addressed", announce: "Address", want: 1},
		{name: "unaddressed", announce: "", want: 1},
		{name: "whitespace_is_unaddressed", announce: "  ", want: 1},
		{name: "other_property", announce: "Phone", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPerson("X")
			_, rec := newRecordedChain(t, p, ownerNamePath)

			p.Address = newAddress("Y")
			p.NotifyPropertyChanged(tt.announce)

			if len(rec.changes) != tt.want {
				t.Errorf("changes = %d, want %d", len(rec.changes), tt.want)
			}
		})
	}
}

type plainHolder struct {
	Owner *owner
}

func TestChain_PlainIntermediate(t *testing.T) {
	holder := &plainHolder{Owner: &owner{name: "X"}}
	p := propertypath.MustFor[*plainHolder]("$.Owner.Name")
	_, rec := newRecordedChain(t, holder, p)

	holder.Owner.SetName("Y")
	assertChanges(t, rec, Change{Name: "Name", Value: "Y"})

	// Replacing the owner goes unnoticed: the holder publishes nothing.
	holder.Owner = &owner{name: "Z"}
	assertChanges(t, rec, Change{Name: "Name", Value: "Y"})
}

func TestChain_SingleSegment(t *testing.T) {
	p := newPerson("X")
	c, rec := newRecordedChain(t, p, propertypath.MustFor[*person]("$.Address"))

	next := newAddress("Y")
	p.SetAddress(next)

	assertChanges(t, rec, Change{Name: "Address", Value: next})
	if v, found := c.Value(); !found || v != next {
		t.Errorf("Value() = %v, %v, want %v, true", v, found, next)
	}
}

func TestChain_Unsubscribe(t *testing.T) {
	p := newPerson("X")
	c, err := NewChain(p, ownerNamePath)
	if err != nil {
		t.Fatalf("NewChain() unexpected error: %v", err)
	}

	rec := &recorder{}
	token := c.Subscribe(rec.record)
	c.Unsubscribe(token)

	p.Address.Building.Owner.SetName("Y")
	assertChanges(t, rec)
}

func TestChain_DynamicSegmentFailure(t *testing.T) {
	o := observable.NewRecord(nil)
	root := observable.NewRecord(map[string]any{"Owner": o})
	p, err := propertypath.Parse(nil, "$.Owner.Name.Length")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	// Name is absent at build time, so the failing segment is never read.
	c, rec := newRecordedChain(t, root, p)
	if c.Err() != nil {
		t.Fatalf("Err() after build = %v, want nil", c.Err())
	}

	o.SetProperty("Name", "X")

	if !errors.Is(c.Err(), ErrNonPropertyMember) {
		t.Errorf("Err() = %v, want %v", c.Err(), ErrNonPropertyMember)
	}
	assertChanges(t, rec, Change{Name: "Length", Value: nil})
}

func TestChain_RecordGraph(t *testing.T) {
	o := observable.NewRecord(map[string]any{"Name": "X"})
	root := observable.NewRecord(map[string]any{
		"Address": observable.NewRecord(map[string]any{
			"Building": observable.NewRecord(map[string]any{"Owner": o}),
		}),
	})

	_, rec := newRecordedChain(t, root, propertypath.MustFor[*observable.Record]("$.Address.Building.Owner.Name"))

	o.SetProperty("Name", "Y")
	root.SetProperty("Address", observable.NewRecord(nil))

	assertChanges(t, rec, Change{Name: "Name", Value: "Y"}, Change{Name: "Name", Value: nil})
}
