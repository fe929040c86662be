package envdep

import (
	"context"
)

type injectorKey int

const injectorContextKey injectorKey = 0

// WithInjector returns a context carrying the Injector. The handler middleware installed
// by HandlerInjectionHook does this for every request.
func WithInjector(ctx context.Context, inj *Injector) context.Context {
	return context.WithValue(ctx, injectorContextKey, inj)
}

// FromContext returns the Injector carried by ctx, if any.
func FromContext(ctx context.Context) (*Injector, bool) {
	inj, ok := ctx.Value(injectorContextKey).(*Injector)
	return inj, ok && inj != nil
}

// Inject fills the tagged fields of target using the Injector carried by ctx. It returns
// ErrNoInjector when the context has none, which is the case when no integration took
// place.
func Inject(ctx context.Context, target any) error {
	inj, ok := FromContext(ctx)
	if !ok {
		return ErrNoInjector
	}
	return inj.Inject(ctx, target)
}

// Get returns the value of type T from the Manager behind the context's Injector. It
// panics if there is no Injector or the dependency cannot be resolved; use GetWithError
// or GetOptional in code that has to cope with a missing integration.
func Get[T any](ctx context.Context) T {
	target, err := GetWithError[T](ctx)
	if err != nil {
		panic(err)
	}
	return target
}

// GetWithError returns the value of type T from the Manager behind the context's
// Injector, or an error.
func GetWithError[T any](ctx context.Context) (T, error) {
	var target T
	inj, ok := FromContext(ctx)
	if !ok {
		return target, ErrNoInjector
	}
	err := inj.manager.Resolve(ctx, &target)
	return target, err
}

// GetOptional returns the value of type T along with a boolean indicating whether it was
// found. Unlike Get, this function does not panic.
func GetOptional[T any](ctx context.Context) (T, bool) {
	target, err := GetWithError[T](ctx)
	return target, err == nil
}
