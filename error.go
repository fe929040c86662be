package envdep

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrDependencyNotFound is the source error of a DependencyError returned when no slot
	// in the Manager can supply the requested type.
	ErrDependencyNotFound = errors.New("dependency not found")

	// ErrNoInjector is returned when a web context has no Injector registered under
	// InjectorAttributeName.
	ErrNoInjector = errors.New("no injector registered")

	// ErrNoHook is returned when an Integration has no setup hook to run.
	ErrNoHook = errors.New("integration has no setup hook")

	// ErrUnknownContainer is returned by Bootstrap.Start when the configured container
	// name does not match any known container.
	ErrUnknownContainer = errors.New("unknown container")

	// ErrAlreadyStarted is returned by Bootstrap.Start when called more than once.
	ErrAlreadyStarted = errors.New("bootstrap already started")
)

type DependencyError struct {
	Message        string
	ReferencedType reflect.Type
	Status         string
	SourceError    error
}

func (e *DependencyError) Error() string {
	if e.SourceError == nil {
		return fmt.Sprintf("%s: %v", e.Message, e.ReferencedType)
	} else {
		return fmt.Sprintf("%s: %v (%v)", e.Message, e.ReferencedType, e.Unwrap().Error())
	}
}

func (e *DependencyError) Unwrap() error {
	return e.SourceError
}

// IntegrationStep names the part of an integration that failed.
type IntegrationStep string

const (
	StepConstruct IntegrationStep = "construct"
	StepRegister  IntegrationStep = "register"
	StepHook      IntegrationStep = "hook"
)

// IntegrationError is the single failure category of an Integration. Whatever goes wrong
// after the capability is detected (injector construction, registration, the setup hook
// or a panic in any of them) is reported as one of these.
type IntegrationError struct {
	Container string
	Step      IntegrationStep
	Err       error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%s integration failed during %s: %v", e.Container, e.Step, e.Err)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}
