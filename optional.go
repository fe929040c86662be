package envdep

import (
	"fmt"
	"reflect"
)

// optionalWrapper is an internal wrapper to signal that a nil pointer
// should be silently skipped instead of panicking.
type optionalWrapper struct {
	dependency any
}

// Optional wraps a dependency to allow typed nil pointers to be silently skipped.
// If the dependency is nil, it is not added to the Manager.
// If the dependency is non-nil, it is added as a normal direct dependency.
//
// Constraints:
//   - Only pointer and interface types are allowed
//   - Generators (functions) cannot be optional
//   - Cannot be combined with Immediate() or Validate()
//
// This is handy when the Manager is assembled from configuration where some
// collaborators are only present in certain environments:
//
//	var devTools *DevTools // only set in hosted mode
//	m := NewManager(db, Optional(devTools))
func Optional(dep any) *optionalWrapper {
	return &optionalWrapper{
		dependency: dep,
	}
}

// processOptionalDependency handles optional dependencies.
// If nil, silently skipped. If non-nil, added as normal dependency.
func (m *Manager) processOptionalDependency(ow *optionalWrapper) {
	dep := ow.dependency

	switch dep.(type) {
	case *immediateDependencies:
		panic("Optional() cannot wrap Immediate()")
	case *optionalWrapper:
		panic("Optional() cannot wrap another Optional()")
	case *validatorWrapper:
		panic("Optional() cannot wrap Validate()")
	}

	depType := reflect.TypeOf(dep)
	if depType == nil {
		return // untyped nil - skip silently
	}

	if depType.Kind() == reflect.Func {
		panic("Optional() cannot wrap a generator function")
	}

	kind := depType.Kind()
	if kind != reflect.Pointer && kind != reflect.Interface {
		panic(fmt.Sprintf("Optional() requires a pointer or interface type, got: %s", depType.String()))
	}

	if reflect.ValueOf(dep).IsNil() {
		return // typed nil - skip silently
	}

	m.addValue(depType, dep)
}
