package envdep

import (
	"context"
	"fmt"
	"reflect"
)

// Validate creates a validator that can be passed to NewManager. The validator function
// can take any number of parameters that will be resolved from the Manager, and must
// return an error. Validators are run by Check, which the default injector factory
// calls before an Injector is handed out, so a failing validator fails the integration.
//
// Example:
//
//	func validateDB(ctx context.Context, db *Database) error {
//	    return db.Ping(ctx)
//	}
//
//	m := NewManager(db, Validate(validateDB))
func Validate(validator any) any {
	vType := reflect.TypeOf(validator)
	if vType == nil || vType.Kind() != reflect.Func {
		panic(fmt.Sprintf("Validate argument must be a function, got %v", vType))
	}

	if vType.NumOut() != 1 {
		panic(fmt.Sprintf("validator must return exactly one value (error), got %d", vType.NumOut()))
	}
	if vType.Out(0) != errorType {
		panic(fmt.Sprintf("validator must return error, got %v", vType.Out(0)))
	}

	if vType.NumIn() == 0 {
		panic("validator must have at least one parameter")
	}

	return &validatorWrapper{
		fn: validator,
	}
}

// validatorWrapper wraps a validator function
type validatorWrapper struct {
	fn any
}

// Check runs every registered validator in registration order and returns the first
// error.
func (m *Manager) Check(ctx context.Context) error {
	for _, vw := range m.validators {
		if err := m.runValidator(ctx, vw); err != nil {
			return err
		}
	}
	return nil
}

// runValidator executes a single validator function
func (m *Manager) runValidator(ctx context.Context, vw *validatorWrapper) error {
	fnType := reflect.TypeOf(vw.fn)
	fnValue := reflect.ValueOf(vw.fn)

	params := make([]reflect.Value, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		paramType := fnType.In(i)

		if paramType == contextType {
			params[i] = reflect.ValueOf(&ctx).Elem()
			continue
		}

		paramPtr := reflect.New(paramType)
		if err := m.Resolve(ctx, paramPtr.Interface()); err != nil {
			return fmt.Errorf("validator dependency resolution failed for type %v: %w", paramType, err)
		}
		params[i] = paramPtr.Elem()
	}

	results := fnValue.Call(params)
	if !results[0].IsNil() {
		return results[0].Interface().(error)
	}

	return nil
}
