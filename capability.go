package envdep

import (
	"sort"
	"sync"
)

// Capability identifies an optional feature set of the hosting environment. A capability
// is available when the package providing it has been linked into the binary and has
// registered it, which is how the packages under capability/ work:
//
//	//go:build gwtdev
//
//	package main
//
//	import _ "github.com/gburgyan/go-envdep/capability/gwtdev"
type Capability string

const (
	// CapabilityGwtDevHostedMode is registered by capability/gwtdev. It is only linked
	// into development builds that run the GWT hosted-mode tooling.
	CapabilityGwtDevHostedMode Capability = "com.google.gwt.dev/hosted-mode"

	// CapabilityJetty is registered by capability/jetty.
	CapabilityJetty Capability = "org.eclipse.jetty/server"
)

// Prober answers whether a capability is available. A negative answer is a normal
// result, never an error.
type Prober interface {
	Has(c Capability) bool
}

// Registry is a concurrent set of available capabilities.
type Registry struct {
	mu    sync.RWMutex
	known map[Capability]struct{}
}

// DefaultRegistry is the registry capability packages register into.
var DefaultRegistry = NewRegistry()

func NewRegistry(caps ...Capability) *Registry {
	r := &Registry{known: map[Capability]struct{}{}}
	for _, c := range caps {
		r.known[c] = struct{}{}
	}
	return r
}

// RegisterCapability marks c as available in DefaultRegistry. It is meant to be called
// from init functions.
func RegisterCapability(c Capability) {
	DefaultRegistry.Register(c)
}

// Register marks c as available. Registering twice is harmless.
func (r *Registry) Register(c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.known[c] = struct{}{}
}

func (r *Registry) Unregister(c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.known, c)
}

func (r *Registry) Has(c Capability) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.known[c]
	return ok
}

// List returns the available capabilities, sorted.
func (r *Registry) List() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	caps := make([]Capability, 0, len(r.known))
	for c := range r.known {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// Overlay adjusts what a base Prober reports without changing it. Disabled wins over
// Enabled.
type Overlay struct {
	Base     Prober
	Enabled  []Capability
	Disabled []Capability
}

func (o *Overlay) Has(c Capability) bool {
	for _, d := range o.Disabled {
		if d == c {
			return false
		}
	}
	for _, e := range o.Enabled {
		if e == c {
			return true
		}
	}
	return o.Base != nil && o.Base.Has(c)
}
