package envdep

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// InjectorAttributeName is the attribute under which an integration stores the Injector
// in the web context.
const InjectorAttributeName = "github.com/gburgyan/go-envdep.injector"

// InjectorFactory builds the Injector an integration registers.
type InjectorFactory func(ctx context.Context, m *Manager) (*Injector, error)

// Injector fills the tagged fields of handlers and other web components from a Manager.
//
// A field is injected when it carries the `inject` tag:
//
//	type OrdersHandler struct {
//	    Repo   OrderRepository `inject:""`
//	    Tracer *Tracer         `inject:"optional"`
//	}
//
// Optional fields are left untouched when the Manager has no matching dependency.
type Injector struct {
	manager *Manager
}

// NewInjector returns an Injector backed by m.
func NewInjector(m *Manager) (*Injector, error) {
	if m == nil {
		return nil, errors.New("injector requires a dependency manager")
	}
	return &Injector{manager: m}, nil
}

// CheckedInjector is the default InjectorFactory. It runs the Manager's validators
// before building the Injector.
func CheckedInjector(ctx context.Context, m *Manager) (*Injector, error) {
	inj, err := NewInjector(m)
	if err != nil {
		return nil, err
	}
	if err := m.Check(ctx); err != nil {
		return nil, fmt.Errorf("dependency validation: %w", err)
	}
	return inj, nil
}

// Manager returns the Manager the Injector resolves from.
func (i *Injector) Manager() *Manager {
	return i.manager
}

// Injectable reports whether target is something Inject accepts: a non-nil pointer to a
// struct.
func Injectable(target any) bool {
	v := reflect.ValueOf(target)
	return v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Struct
}

// Inject fills the tagged fields of target, which must be a non-nil pointer to a struct.
// Either every required field is filled or target is left unchanged.
func (i *Injector) Inject(ctx context.Context, target any) error {
	p, err := i.resolve(ctx, target)
	if err != nil {
		return err
	}
	p.apply()
	return nil
}

// pendingInjection holds the resolved field values of one target until they are written.
type pendingInjection struct {
	target reflect.Value
	plan   *injectionPlan
	values []reflect.Value
}

// resolve looks up every tagged field of target without writing any of them.
func (i *Injector) resolve(ctx context.Context, target any) (*pendingInjection, error) {
	if !Injectable(target) {
		return nil, fmt.Errorf("inject target must be a non-nil pointer to a struct, got %T", target)
	}
	structVal := reflect.ValueOf(target).Elem()
	plan := getInjectionPlan(structVal.Type())
	if plan.err != nil {
		return nil, plan.err
	}

	resolved := make([]reflect.Value, len(plan.fields))
	for n, f := range plan.fields {
		ptr := reflect.New(f.fieldTyp)
		err := i.manager.Resolve(ctx, ptr.Interface())
		switch {
		case err == nil:
			resolved[n] = ptr.Elem()
		case f.optional && !i.manager.Has(f.fieldTyp):
			// leave the field as it is
		default:
			return nil, fmt.Errorf("inject %v.%s: %w", structVal.Type(), f.name, err)
		}
	}
	return &pendingInjection{target: structVal, plan: plan, values: resolved}, nil
}

func (p *pendingInjection) apply() {
	for n, f := range p.plan.fields {
		if p.values[n].IsValid() {
			p.target.Field(f.index).Set(p.values[n])
		}
	}
}

// InjectorFrom returns the Injector registered in the store.
func InjectorFrom(store AttributeStore) (*Injector, error) {
	v, ok := store.Attribute(InjectorAttributeName)
	if !ok {
		return nil, ErrNoInjector
	}
	inj, ok := v.(*Injector)
	if !ok {
		return nil, fmt.Errorf("attribute %s holds %T, not an injector", InjectorAttributeName, v)
	}
	return inj, nil
}
