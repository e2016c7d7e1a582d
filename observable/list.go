package observable

import "slices"

// ListAction describes the kind of aggregate collection change.
type ListAction int

const (
	ListAdd ListAction = iota + 1
	ListRemove
	ListReplace
	ListReset
)

func (a ListAction) String() string {
	switch a {
	case ListAdd:
		return "add"
	case ListRemove:
		return "remove"
	case ListReplace:
		return "replace"
	case ListReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ListItem is delivered when an item is added or removed.
type ListItem[T any] struct {
	Index int
	Item  T
}

// ListReplaced is delivered when the item at Index is replaced.
type ListReplaced[T any] struct {
	Index   int
	OldItem T
	NewItem T
}

// ListCleared is delivered with the items a Clear removed.
type ListCleared[T any] struct {
	Items []T
}

// CollectionChanged is the aggregate event raised before the item-level ones.
type CollectionChanged[T any] struct {
	Action   ListAction
	Index    int
	NewItems []T
	OldItems []T
}

// Property names announced by List.
const (
	CountProperty = "Count"
	ItemsProperty = "Items"
)

// List is an ordered collection that publishes item-level and aggregate change
// events, and announces Count and Items as property changes so a path such as
// "$.Tags.Count" can be observed.
type List[T comparable] struct {
	Object
	items []T

	onCollection []func(CollectionChanged[T])
	onAdded      []func(ListItem[T])
	onRemoved    []func(ListItem[T])
	onReplaced   []func(ListReplaced[T])
	onCleared    []func(ListCleared[T])
}

// NewList creates a List holding a copy of items.
func NewList[T comparable](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// OnCollectionChanged registers fn for aggregate change events.
func (l *List[T]) OnCollectionChanged(fn func(CollectionChanged[T])) {
	l.onCollection = append(l.onCollection, fn)
}

// OnItemAdded registers fn for insertions.
func (l *List[T]) OnItemAdded(fn func(ListItem[T])) {
	l.onAdded = append(l.onAdded, fn)
}

// OnItemRemoved registers fn for removals.
func (l *List[T]) OnItemRemoved(fn func(ListItem[T])) {
	l.onRemoved = append(l.onRemoved, fn)
}

// OnItemReplaced registers fn for replacements.
func (l *List[T]) OnItemReplaced(fn func(ListReplaced[T])) {
	l.onReplaced = append(l.onReplaced, fn)
}

// OnItemsCleared registers fn for Clear.
func (l *List[T]) OnItemsCleared(fn func(ListCleared[T])) {
	l.onCleared = append(l.onCleared, fn)
}

// Count returns the number of items.
func (l *List[T]) Count() int {
	return len(l.items)
}

// Items returns a copy of the items.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// At returns the item at index. It panics when index is out of range.
func (l *List[T]) At(index int) T {
	return l.items[index]
}

// IndexOf returns the index of the first item equal to item, or -1.
func (l *List[T]) IndexOf(item T) int {
	return slices.Index(l.items, item)
}

// Contains reports whether item is in the list.
func (l *List[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// Add appends item.
func (l *List[T]) Add(item T) {
	l.Insert(len(l.items), item)
}

// Insert places item at index. It panics when index is out of range.
func (l *List[T]) Insert(index int, item T) {
	l.items = slices.Insert(l.items, index, item)

	l.emitCollection(CollectionChanged[T]{Action: ListAdd, Index: index, NewItems: []T{item}})
	l.NotifyPropertyChanged(CountProperty)
	l.NotifyPropertyChanged(ItemsProperty)
	for _, fn := range slices.Clone(l.onAdded) {
		fn(ListItem[T]{Index: index, Item: item})
	}
}

// Remove deletes the first item equal to item and reports whether one was found.
func (l *List[T]) Remove(item T) bool {
	index := l.IndexOf(item)
	if index < 0 {
		return false
	}

	l.RemoveAt(index)
	return true
}

// RemoveAt deletes the item at index. It panics when index is out of range.
func (l *List[T]) RemoveAt(index int) {
	item := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)

	l.emitCollection(CollectionChanged[T]{Action: ListRemove, Index: index, OldItems: []T{item}})
	l.NotifyPropertyChanged(CountProperty)
	l.NotifyPropertyChanged(ItemsProperty)
	for _, fn := range slices.Clone(l.onRemoved) {
		fn(ListItem[T]{Index: index, Item: item})
	}
}

// Set replaces the item at index. It panics when index is out of range.
func (l *List[T]) Set(index int, item T) {
	old := l.items[index]
	l.items[index] = item

	l.emitCollection(CollectionChanged[T]{Action: ListReplace, Index: index, NewItems: []T{item}, OldItems: []T{old}})
	l.NotifyPropertyChanged(ItemsProperty)
	for _, fn := range slices.Clone(l.onReplaced) {
		fn(ListReplaced[T]{Index: index, OldItem: old, NewItem: item})
	}
}

// Clear removes every item.
func (l *List[T]) Clear() {
	removed := l.items
	l.items = nil

	l.emitCollection(CollectionChanged[T]{Action: ListReset, Index: -1, OldItems: removed})
	l.NotifyPropertyChanged(CountProperty)
	l.NotifyPropertyChanged(ItemsProperty)
	for _, fn := range slices.Clone(l.onCleared) {
		fn(ListCleared[T]{Items: slices.Clone(removed)})
	}
}

func (l *List[T]) emitCollection(e CollectionChanged[T]) {
	for _, fn := range slices.Clone(l.onCollection) {
		fn(e)
	}
}
