package envdep

import (
	"context"
	"fmt"
	"sync"
)

// DefaultContainers is the detection order used when Bootstrap is given no containers.
// More specific environments come first.
var DefaultContainers = []Container{GwtDevHostedMode, Jetty}

// BootstrapOption is a functional option for configuring a Bootstrap.
type BootstrapOption func(*Bootstrap)

// WithContainers replaces the list of containers to detect, in order.
func WithContainers(containers ...Container) BootstrapOption {
	return func(b *Bootstrap) {
		b.containers = containers
	}
}

// WithContainer selects the container by name instead of detecting it.
func WithContainer(name string) BootstrapOption {
	return func(b *Bootstrap) {
		b.preferred = name
	}
}

// Bootstrap selects the container for the running environment and drives its
// lifecycle.
type Bootstrap struct {
	containers []Container
	preferred  string

	mu       sync.Mutex
	started  bool
	selected Container
	cc       *ContainerContext
}

func NewBootstrap(opts ...BootstrapOption) *Bootstrap {
	b := &Bootstrap{containers: DefaultContainers}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start picks a container and initializes it, then starts the Manager's immediate
// dependencies. With a configured container name that container is used, and an unknown
// name is an error. Otherwise the first container whose Touch succeeds is used. Finding
// no container is not an error: Start returns nil and the application runs without
// injection.
func (b *Bootstrap) Start(ctx context.Context, cc *ContainerContext) (Container, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil, ErrAlreadyStarted
	}

	container, err := b.findContainer(cc)
	if err != nil {
		return nil, err
	}
	b.started = true
	b.cc = cc

	logger := cc.Logger()
	if container == nil {
		logger.Debug().Msg("no container detected, injection disabled")
	} else {
		logger.Debug().Str("container", container.Name()).Msg("container selected")
		container.Initialize(ctx, cc)
		b.selected = container
	}

	if cc.Manager != nil {
		cc.Manager.Start(ctx)
	}
	return container, nil
}

func (b *Bootstrap) findContainer(cc *ContainerContext) (Container, error) {
	if b.preferred != "" {
		for _, c := range b.containers {
			if c.Name() == b.preferred {
				return c, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownContainer, b.preferred)
	}
	for _, c := range b.containers {
		if c.Touch(cc) {
			return c, nil
		}
	}
	return nil, nil
}

// Selected returns the container chosen by Start, or nil.
func (b *Bootstrap) Selected() Container {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// Stop destroys the selected container. It is safe to call when nothing was selected.
func (b *Bootstrap) Stop(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected != nil {
		b.selected.Destroy(ctx, b.cc)
		b.selected = nil
	}
}
