package envdep

import (
	"context"
	"reflect"
)

// immediateDependencies is an internal wrapper to signal to the Manager
// that these generators should be run as soon as the Manager is started.
type immediateDependencies struct {
	dependencies []any
}

// Immediate marks generators to be run eagerly, each in its own goroutine, when the
// Manager is started by Bootstrap.Start (or a direct call to Start). This is useful
// for expensive collaborators such as connection pools that every request will need.
func Immediate(deps ...any) *immediateDependencies {
	return &immediateDependencies{
		dependencies: deps,
	}
}

// Start runs the Immediate generators. Calling it more than once has no further effect.
func (m *Manager) Start(ctx context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	m.resolveImmediateDependencies(ctx)
}

// resolveImmediateDependencies goes through all the slots and forces the generator
// to get run for each of the immediate slots.
func (m *Manager) resolveImmediateDependencies(ctx context.Context) {
	// Several slots may share a generator. Whichever goroutine gets there first runs it,
	// the others block on the generator's lock and then find the value already set.
	m.slots.Range(func(key, value any) bool {
		s := value.(*slot)
		if !s.immediate || key.(reflect.Type) != s.slotType {
			return true
		}
		go func() {
			defer func() {
				if r := recover(); r != nil {
					// The slot stays unresolved, so the next request retries the
					// generator and gets to report the failure properly.
					m.logger.Error().
						Str("type", s.slotType.String()).
						Interface("panic", r).
						Msg("panic resolving immediate dependency")
				}
			}()
			if _, err := m.getValue(ctx, s); err != nil {
				m.logger.Error().
					Err(err).
					Str("type", s.slotType.String()).
					Msg("error resolving immediate dependency")
			}
		}()
		return true
	})
}
