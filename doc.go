// Package envdep wires dependency injection into a web application when, and only when,
// the hosting environment supports it.
//
// The pieces:
//
//   - A Manager holds the application's dependencies: values and generator functions
//     keyed by the type they provide.
//   - An Injector fills `inject`-tagged struct fields from a Manager.
//   - A WebContext is the application's shared attribute store plus its registered
//     handlers.
//   - A Container knows how to integrate with one hosting environment. Integration is the
//     shared implementation: if its marker Capability is available it registers an
//     Injector under InjectorAttributeName and runs a setup Hook. Absence is silent and
//     failure is logged, never fatal.
//   - Bootstrap picks the container for the running environment.
//
// Capabilities are registered at link time by importing a package under capability/ for
// its side effects, usually from a build-tagged file.
package envdep
