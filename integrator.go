package envdep

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Integration is a Container that installs an Injector into the web context when its
// marker capability is available. Variants differ only in their configuration; they all
// share the control flow in Initialize.
type Integration struct {
	// ID names the container in logs, metrics and configuration.
	ID string
	// Marker is the capability whose presence enables the integration.
	Marker Capability
	// Hook runs after the Injector is registered. It is required.
	Hook Hook
	// NewInjector builds the Injector. CheckedInjector is used when nil.
	NewInjector InjectorFactory
	// Detected is logged at info level after a successful integration.
	Detected string
}

var (
	// GwtDevHostedMode integrates with the GWT development-mode tooling. The tooling is
	// never part of a production build, only of hosted-mode development builds that link
	// capability/gwtdev.
	GwtDevHostedMode = &Integration{
		ID:       "gwt-dev",
		Marker:   CapabilityGwtDevHostedMode,
		Hook:     HandlerInjectionHook{},
		Detected: "GWT hosted mode detected, injection will be available in handlers and middleware. Injection into listeners is not supported.",
	}

	// Jetty integrates with an embedded Jetty-style server.
	Jetty = &Integration{
		ID:       "jetty",
		Marker:   CapabilityJetty,
		Hook:     HandlerInjectionHook{},
		Detected: "Jetty detected, injection will be available in handlers and middleware.",
	}
)

func (i *Integration) Name() string {
	return i.ID
}

// Touch reports whether the marker capability is available.
func (i *Integration) Touch(cc *ContainerContext) bool {
	return cc.Capabilities().Has(i.Marker)
}

// Initialize installs the Injector if the marker capability is available.
//
// Without the capability nothing happens and nothing is logged; most environments do not
// have it. With it, the Injector is built from cc.Manager, stored under
// InjectorAttributeName (replacing any earlier entry) and the hook is run. Any failure is
// logged as a single error and the web context is put back the way it was. Initialize
// never fails or panics.
func (i *Integration) Initialize(ctx context.Context, cc *ContainerContext) {
	integrated, err := i.TryIntegrate(ctx, cc)
	logger := cc.Logger().With().Str("container", i.ID).Logger()
	switch {
	case err != nil:
		logger.Error().
			Err(err).
			Str("step", string(stepOf(err))).
			Msgf("Unable to create %s injector. Injection will not be available in handlers, middleware or listeners", i.ID)
	case integrated:
		logger.Info().Msg(i.detectedMessage())
	}
}

// TryIntegrate is Initialize without the logging: it reports whether the integration
// took place and returns the *IntegrationError if it failed. An absent capability is
// (false, nil).
func (i *Integration) TryIntegrate(ctx context.Context, cc *ContainerContext) (bool, error) {
	if !i.Touch(cc) {
		integrationsTotal.WithLabelValues(i.ID, outcomeAbsent).Inc()
		return false, nil
	}
	if err := i.integrate(ctx, cc); err != nil {
		integrationsTotal.WithLabelValues(i.ID, outcomeFailed).Inc()
		return false, err
	}
	integrationsTotal.WithLabelValues(i.ID, outcomeIntegrated).Inc()
	return true, nil
}

// Destroy removes the Injector this integration registered and the handler wrappers
// that put it on request contexts. Fields already injected into handlers keep their
// values.
func (i *Integration) Destroy(_ context.Context, cc *ContainerContext) {
	if cc.Web == nil {
		return
	}
	if v, ok := cc.Web.Attribute(InjectorAttributeName); ok {
		if inj, isInjector := v.(*Injector); isInjector {
			cc.Web.RemoveAttribute(InjectorAttributeName)
			unwrapInjectingHandlers(cc.Web, inj)
		}
	}
}

func (i *Integration) integrate(ctx context.Context, cc *ContainerContext) (err error) {
	step := StepConstruct
	var (
		previous    any
		hadPrevious bool
		registered  bool
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err == nil {
			return
		}
		if registered {
			if hadPrevious {
				cc.Web.SetAttribute(InjectorAttributeName, previous)
			} else {
				cc.Web.RemoveAttribute(InjectorAttributeName)
			}
		}
		err = &IntegrationError{Container: i.ID, Step: step, Err: err}
	}()

	var inj *Injector
	err = timeStep(ctx, i.ID+":construct", func(ctx context.Context) error {
		factory := i.NewInjector
		if factory == nil {
			factory = CheckedInjector
		}
		var ferr error
		inj, ferr = factory(ctx, cc.Manager)
		if ferr == nil && inj == nil {
			ferr = errors.New("injector factory returned nil")
		}
		return ferr
	})
	if err != nil {
		return err
	}

	step = StepRegister
	if cc.Web == nil {
		return errors.New("container context has no web context")
	}
	previous, hadPrevious = cc.Web.Attribute(InjectorAttributeName)
	cc.Web.SetAttribute(InjectorAttributeName, inj)
	registered = true

	step = StepHook
	if i.Hook == nil {
		return ErrNoHook
	}
	return timeStep(ctx, i.ID+":hook", func(ctx context.Context) error {
		timer := prometheus.NewTimer(hookDuration.WithLabelValues(i.ID))
		defer timer.ObserveDuration()
		return i.Hook.Process(ctx, cc.Web)
	})
}

func (i *Integration) detectedMessage() string {
	if i.Detected != "" {
		return i.Detected
	}
	return fmt.Sprintf("%s detected, injection will be available in handlers and middleware.", i.ID)
}

func stepOf(err error) IntegrationStep {
	var ie *IntegrationError
	if errors.As(err, &ie) {
		return ie.Step
	}
	return ""
}
