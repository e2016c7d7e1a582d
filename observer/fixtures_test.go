package observer

import "github.com/jacoelho/pathwatch/observable"

// counting is an observable.Object that records subscription traffic.
type counting struct {
	observable.Object
	subscribes   int
	unsubscribes int
}

func (c *counting) Subscribe(h observable.Handler) observable.Token {
	c.subscribes++
	return c.Object.Subscribe(h)
}

func (c *counting) Unsubscribe(t observable.Token) {
	c.unsubscribes++
	c.Object.Unsubscribe(t)
}

type person struct {
	counting
	Address *address
}

func (p *person) SetAddress(a *address) {
	p.Address = a
	p.NotifyPropertyChanged("Address")
}

// Display is derived from the owner's name.
func (p *person) Display() string {
	if p.Address == nil || p.Address.Building == nil || p.Address.Building.Owner == nil {
		return ""
	}
	return "owned by " + p.Address.Building.Owner.Name()
}

type address struct {
	counting
	Building *building
}

func (a *address) SetBuilding(b *building) {
	a.Building = b
	a.NotifyPropertyChanged("Building")
}

type building struct {
	counting
	Owner *owner
}

type owner struct {
	counting
	name      string
	announced []string
}

func (o *owner) Name() string { return o.name }

func (o *owner) SetName(name string) {
	o.name = name
	o.Object.NotifyPropertyChanged("Name")
}

// NotifyPropertyChanged records announcements made from outside SetName.
func (o *owner) NotifyPropertyChanged(name string) {
	o.announced = append(o.announced, name)
	o.Object.NotifyPropertyChanged(name)
}

func newAddress(name string) *address {
	return &address{Building: &building{Owner: &owner{name: name}}}
}

func newPerson(name string) *person {
	return &person{Address: newAddress(name)}
}

type recorder struct {
	changes []Change
}

func (r *recorder) record(c Change) {
	r.changes = append(r.changes, c)
}
