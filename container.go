package envdep

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Container is one way of hooking dependency injection into a hosting environment.
// Bootstrap asks each known container whether it applies (Touch) and initializes the
// first one that does.
type Container interface {
	Name() string
	// Touch reports whether the environment this container integrates with is present.
	Touch(cc *ContainerContext) bool
	// Initialize performs the integration. It never fails; problems are logged and the
	// application carries on without the integration.
	Initialize(ctx context.Context, cc *ContainerContext)
	// Destroy removes the Injector Initialize registered along with the handler
	// wrappers that carry it.
	Destroy(ctx context.Context, cc *ContainerContext)
}

// ContainerContext is what a Container gets to work with: the web context to integrate
// into, the dependency Manager to build the Injector from, and the capabilities of the
// environment.
type ContainerContext struct {
	// ID correlates the log lines of one bootstrap.
	ID      uuid.UUID
	Web     *WebContext
	Manager *Manager

	capabilities Prober
	logger       zerolog.Logger
}

// ContainerOption is a functional option for configuring a ContainerContext.
type ContainerOption func(*ContainerContext)

// WithCapabilities sets the Prober consulted for capabilities. The default is
// DefaultRegistry.
func WithCapabilities(p Prober) ContainerOption {
	return func(cc *ContainerContext) {
		cc.capabilities = p
	}
}

// WithLogger sets the logger integrations report to. The default is the global zerolog
// logger.
func WithLogger(logger zerolog.Logger) ContainerOption {
	return func(cc *ContainerContext) {
		cc.logger = logger
	}
}

func NewContainerContext(web *WebContext, m *Manager, opts ...ContainerOption) *ContainerContext {
	cc := &ContainerContext{
		ID:           uuid.New(),
		Web:          web,
		Manager:      m,
		capabilities: DefaultRegistry,
		logger:       log.Logger,
	}
	for _, opt := range opts {
		opt(cc)
	}
	return cc
}

// Capabilities returns the Prober for this context.
func (cc *ContainerContext) Capabilities() Prober {
	if cc.capabilities == nil {
		return DefaultRegistry
	}
	return cc.capabilities
}

// Logger returns the context's logger with the context ID attached.
func (cc *ContainerContext) Logger() *zerolog.Logger {
	l := cc.logger.With().Str("context_id", cc.ID.String()).Logger()
	return &l
}
