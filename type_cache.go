package envdep

import (
	"fmt"
	"reflect"
	"sync"
)

// typeInfo caches expensive reflection operations for a generator type
type typeInfo struct {
	funcParams  []reflect.Type
	funcReturns []reflect.Type
	hasError    bool
}

var globalTypeCache sync.Map // map[reflect.Type]*typeInfo

// getTypeInfo returns cached type information, computing it if necessary
func getTypeInfo(t reflect.Type) *typeInfo {
	if cached, ok := globalTypeCache.Load(t); ok {
		return cached.(*typeInfo)
	}

	info := &typeInfo{}
	if t.Kind() == reflect.Func {
		info.funcParams = make([]reflect.Type, t.NumIn())
		for i := 0; i < t.NumIn(); i++ {
			info.funcParams[i] = t.In(i)
		}

		info.funcReturns = make([]reflect.Type, 0, t.NumOut())
		for i := 0; i < t.NumOut(); i++ {
			returnType := t.Out(i)
			if returnType.AssignableTo(errorType) {
				if info.hasError {
					panic("multiple error results on a generator function not permitted")
				}
				info.hasError = true
			} else {
				info.funcReturns = append(info.funcReturns, returnType)
			}
		}
	}

	actual, _ := globalTypeCache.LoadOrStore(t, info)
	return actual.(*typeInfo)
}

// injectTag is the struct tag that marks a field for injection. The value is either
// empty or "optional".
const injectTag = "inject"

type injectField struct {
	index    int
	name     string
	fieldTyp reflect.Type
	optional bool
}

// injectionPlan is the list of fields of a struct type an Injector fills. A malformed
// tag makes the whole type uninjectable; err records why.
type injectionPlan struct {
	fields []injectField
	err    error
}

var globalPlanCache sync.Map // map[reflect.Type]*injectionPlan

// getInjectionPlan returns the cached plan for a struct type.
func getInjectionPlan(t reflect.Type) *injectionPlan {
	if cached, ok := globalPlanCache.Load(t); ok {
		return cached.(*injectionPlan)
	}

	plan := &injectionPlan{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup(injectTag)
		if !ok {
			continue
		}
		if !f.IsExported() {
			plan.err = fmt.Errorf("field %s.%s is tagged for injection but is not exported", t, f.Name)
			break
		}
		var optional bool
		switch tag {
		case "":
		case "optional":
			optional = true
		default:
			plan.err = fmt.Errorf("field %s.%s has invalid inject tag %q", t, f.Name, tag)
		}
		if plan.err != nil {
			break
		}
		plan.fields = append(plan.fields, injectField{
			index:    i,
			name:     f.Name,
			fieldTyp: f.Type,
			optional: optional,
		})
	}

	actual, _ := globalPlanCache.LoadOrStore(t, plan)
	return actual.(*injectionPlan)
}

// interfaceCache caches which concrete types implement which interfaces
type interfaceCache struct {
	mu    sync.RWMutex
	cache map[interfaceCacheKey]bool
}

type interfaceCacheKey struct {
	concrete reflect.Type
	iface    reflect.Type
}

var globalInterfaceCache = &interfaceCache{
	cache: make(map[interfaceCacheKey]bool),
}

// canAssign checks if concrete type can be assigned to interface type, with caching
func canAssign(concrete, iface reflect.Type) bool {
	if iface.Kind() != reflect.Interface {
		return concrete == iface
	}

	key := interfaceCacheKey{concrete: concrete, iface: iface}

	globalInterfaceCache.mu.RLock()
	if result, ok := globalInterfaceCache.cache[key]; ok {
		globalInterfaceCache.mu.RUnlock()
		return result
	}
	globalInterfaceCache.mu.RUnlock()

	result := concrete.AssignableTo(iface)

	globalInterfaceCache.mu.Lock()
	globalInterfaceCache.cache[key] = result
	globalInterfaceCache.mu.Unlock()

	return result
}
