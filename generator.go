package envdep

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// generatorCall is shared by every slot a generator can fill. The lock serializes runs of
// the generator so that a multi-result generator is only called once.
type generatorCall struct {
	fn    any
	lock  sync.Mutex
	slots []*slot
}

// addGenerator validates the generator function and adds it to the Manager
// assuming it's valid. If it's not valid this function panics.
func (m *Manager) addGenerator(generatorFunction any, immediate bool) {
	funcType := reflect.TypeOf(generatorFunction)

	if funcType.Kind() != reflect.Func {
		// double-checking this because it's cheap. There should be no
		// public way to get here.
		panic("generator must be a function")
	}

	info := getTypeInfo(funcType)
	if len(info.funcReturns) == 0 {
		panic("generator must have at least one result value")
	}

	call := &generatorCall{fn: generatorFunction}
	for _, resultType := range info.funcReturns {
		if existing, ok := m.slots.Load(resultType); ok {
			es := existing.(*slot)
			if !m.loose {
				panic(fmt.Sprintf("multiple dependencies for type %v: existing %s", resultType, describeSlot(es)))
			}
			if es.status == statusDirect {
				// a concrete value always wins over a generator
				continue
			}
		}
		s := &slot{
			slotType:  resultType,
			status:    statusGenerator,
			immediate: immediate,
			gen:       call,
		}
		call.slots = append(call.slots, s)
		m.slots.Store(resultType, s)
	}
}

// generatorError finds the error result from a generator, if it exists. If no error is present
// or it doesn't have an error, this returns nil.
func generatorError(results []reflect.Value) error {
	for _, result := range results {
		if result.Type().AssignableTo(errorType) && !result.IsNil() {
			return result.Interface().(error)
		}
	}
	return nil
}

// invokeGenerator calls the generator function and returns the results of the call.
func (m *Manager) invokeGenerator(ctx context.Context, call *generatorCall) ([]reflect.Value, error) {
	info := getTypeInfo(reflect.TypeOf(call.fn))
	params := make([]reflect.Value, len(info.funcParams))
	for i, inType := range info.funcParams {
		if inType == contextType {
			params[i] = reflect.ValueOf(&ctx).Elem()
			continue
		}
		paramPointerValue := reflect.New(inType)
		if err := m.Resolve(ctx, paramPointerValue.Interface()); err != nil {
			return nil, err
		}
		params[i] = paramPointerValue.Elem()
	}

	return reflect.ValueOf(call.fn).Call(params), nil
}

// mapGeneratorResults stores the non-error results into the generator's slots.
// REQUIRES: call.lock is held.
func (m *Manager) mapGeneratorResults(call *generatorCall, results []reflect.Value) error {
	byType := map[reflect.Type]reflect.Value{}
	for _, result := range results {
		if result.Type().AssignableTo(errorType) {
			continue
		}
		if isNilValue(result) {
			return &DependencyError{
				Message:        "generator returned nil",
				ReferencedType: result.Type(),
			}
		}
		byType[result.Type()] = result
	}

	for _, s := range call.slots {
		if result, ok := byType[s.slotType]; ok {
			s.value = result.Interface()
			s.resolved.Store(true)
		}
	}
	return nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
