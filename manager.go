package envdep

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

type slotStatus int

const (
	statusDirect slotStatus = iota
	statusGenerator
)

// slot holds either a value that was handed to the Manager directly or the generator
// that is able to make one. Slots created by a multi-result generator share the same
// generatorCall so the generator runs at most once.
type slot struct {
	value     any
	slotType  reflect.Type
	status    slotStatus
	immediate bool
	gen       *generatorCall
	resolved  atomic.Bool
}

// ManagerOption is a functional option for configuring a Manager.
type ManagerOption func(*Manager)

// WithOverrides allows dependencies to override existing ones. When this option is used,
// if there are multiple dependencies that can fill a slot, the last concrete slot value
// will be used. In case there is no concrete value, the last generator will win.
func WithOverrides() ManagerOption {
	return func(m *Manager) {
		m.loose = true
	}
}

// WithManagerLogger sets the logger used for failures that cannot be returned to a
// caller, such as an Immediate generator failing in the background.
func WithManagerLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager is the dependency provider an Injector is built from. It holds values and
// generator functions keyed by the type they provide.
//
// A request for a type is answered by the slot registered for exactly that type. If the
// request is for an interface and there is no exact match, the first slot whose type
// implements the interface is used and the match is remembered.
//
// Generators are functions that return one or more values and at most one error. Their
// parameters are themselves resolved from the Manager; a context.Context parameter
// receives the context of the request. A generator runs at most once; if it fails the
// error is returned and the next request tries again.
type Manager struct {
	slots      sync.Map // map[reflect.Type]*slot
	loose      bool
	validators []*validatorWrapper
	logger     zerolog.Logger
	started    atomic.Bool
}

// NewManager creates a Manager holding the given dependencies. Options and dependencies
// can be mixed in any order; options are applied first.
//
// By default, this applies strict evaluation and will not allow multiple dependencies
// to fill a slot. If there are multiple concrete types or generators that can fill a
// slot, this function will `panic`. Use WithOverrides() to allow overriding.
func NewManager(args ...any) *Manager {
	m := &Manager{
		logger: log.Logger,
	}

	var dependencies []any
	for _, arg := range args {
		if opt, ok := arg.(ManagerOption); ok {
			opt(m)
		} else {
			dependencies = append(dependencies, arg)
		}
	}

	m.addDependencies(dependencies...)
	return m
}

func (m *Manager) addDependencies(deps ...any) {
	for _, dep := range deps {
		switch d := dep.(type) {
		case nil:
			panic("nil dependency; use Optional() for dependencies that may be absent")
		case *optionalWrapper:
			m.processOptionalDependency(d)
		case *immediateDependencies:
			for _, gen := range d.dependencies {
				if reflect.TypeOf(gen).Kind() != reflect.Func {
					panic(fmt.Sprintf("Immediate() accepts only generator functions, got %T", gen))
				}
				m.addGenerator(gen, true)
			}
		case *validatorWrapper:
			m.validators = append(m.validators, d)
		default:
			depType := reflect.TypeOf(dep)
			if depType.Kind() == reflect.Func {
				m.addGenerator(dep, false)
			} else {
				m.addValue(depType, dep)
			}
		}
	}
}

// addValue stores a direct value under its own type.
func (m *Manager) addValue(t reflect.Type, value any) {
	if existing, ok := m.slots.Load(t); ok && !m.loose {
		panic(fmt.Sprintf("multiple dependencies for type %v: existing %s", t, describeSlot(existing.(*slot))))
	}
	s := &slot{
		value:    value,
		slotType: t,
		status:   statusDirect,
	}
	s.resolved.Store(true)
	m.slots.Store(t, s)
}

// Resolve fills target, which must be a non-nil pointer, with the dependency of the
// pointed-to type. It returns a *DependencyError if the dependency cannot be supplied.
func (m *Manager) Resolve(ctx context.Context, target any) error {
	targetVal := reflect.ValueOf(target)
	if targetVal.Kind() != reflect.Pointer || targetVal.IsNil() {
		panic(fmt.Sprintf("resolve target must be a non-nil pointer, got %T", target))
	}
	targetType := targetVal.Type().Elem()

	s := m.findApplicableSlot(targetType)
	if s == nil {
		return &DependencyError{
			Message:        "unable to resolve dependency",
			ReferencedType: targetType,
			Status:         m.Status(),
			SourceError:    ErrDependencyNotFound,
		}
	}

	value, err := m.getValue(ctx, s)
	if err != nil {
		return err
	}
	targetVal.Elem().Set(reflect.ValueOf(value))
	return nil
}

// Has reports whether a request for t could be answered, without running any generator.
func (m *Manager) Has(t reflect.Type) bool {
	return m.findApplicableSlot(t) != nil
}

// findApplicableSlot looks for the slot that can fill the requested type. Interface
// requests fall back to the first slot whose type implements the interface.
func (m *Manager) findApplicableSlot(targetType reflect.Type) *slot {
	if s, ok := m.slots.Load(targetType); ok {
		return s.(*slot)
	}
	if targetType.Kind() != reflect.Interface {
		return nil
	}

	var found *slot
	m.slots.Range(func(key, value any) bool {
		s := value.(*slot)
		if key.(reflect.Type) != s.slotType {
			// memoised entry, the original is visited on its own
			return true
		}
		if canAssign(s.slotType, targetType) {
			found = s
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	actual, _ := m.slots.LoadOrStore(targetType, found)
	return actual.(*slot)
}

// getValue returns the slot's value, running its generator first if needed.
func (m *Manager) getValue(ctx context.Context, s *slot) (any, error) {
	if s.status == statusDirect {
		return s.value, nil
	}

	if s.resolved.Load() {
		return s.value, nil
	}

	// The cycle check has to come before the lock: a generator that needs itself would
	// otherwise wait on its own lock.
	checkCtx, unlock, err := m.enterGenerator(ctx, s)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s.gen.lock.Lock()
	defer s.gen.lock.Unlock()

	if s.resolved.Load() {
		return s.value, nil
	}

	results, err := m.invokeGenerator(checkCtx, s.gen)
	if err != nil {
		return nil, &DependencyError{
			Message:        "unable to resolve generator parameter",
			ReferencedType: s.slotType,
			SourceError:    err,
		}
	}
	if genErr := generatorError(results); genErr != nil {
		return nil, &DependencyError{
			Message:        "error running generator",
			ReferencedType: s.slotType,
			SourceError:    genErr,
		}
	}
	if err := m.mapGeneratorResults(s.gen, results); err != nil {
		return nil, err
	}
	return s.value, nil
}

func describeSlot(s *slot) string {
	if s.status == statusDirect {
		return fmt.Sprintf("value %v", s.slotType)
	}
	return fmt.Sprintf("generator %s", formatGeneratorDebug(s.gen.fn))
}
