package envdep

import (
	"sort"
	"sync"
)

// AttributeStore is a host-owned map of named values shared by everything running in a
// web context.
type AttributeStore interface {
	Attribute(name string) (any, bool)
	// SetAttribute stores value under name. A nil value removes the attribute.
	SetAttribute(name string, value any)
	RemoveAttribute(name string)
	AttributeNames() []string
}

// Attributes is the default AttributeStore. It is safe for concurrent use.
type Attributes struct {
	values sync.Map // map[string]any
}

func NewAttributes() *Attributes {
	return &Attributes{}
}

func (a *Attributes) Attribute(name string) (any, bool) {
	return a.values.Load(name)
}

func (a *Attributes) SetAttribute(name string, value any) {
	if value == nil {
		a.values.Delete(name)
		return
	}
	a.values.Store(name, value)
}

func (a *Attributes) RemoveAttribute(name string) {
	a.values.Delete(name)
}

// AttributeNames returns the names of all attributes, sorted.
func (a *Attributes) AttributeNames() []string {
	var names []string
	a.values.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}
