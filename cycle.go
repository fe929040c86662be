package envdep

import (
	"context"
	"sync"
)

type cycle int

const cycleKey cycle = 0

type unlocker func()

type cycleChecker struct {
	inProcess map[*generatorCall]bool
	lock      sync.Mutex
}

// enterGenerator records that the slot's generator is running on this resolution path.
// Reaching the same generator again before it finishes is a cycle; without this check the
// second visit would block forever on the generator's lock.
func (m *Manager) enterGenerator(ctx context.Context, s *slot) (context.Context, unlocker, error) {
	var checker *cycleChecker
	checkerCtx := ctx
	if c := ctx.Value(cycleKey); c != nil {
		checker = c.(*cycleChecker)
	} else {
		checker = &cycleChecker{
			inProcess: map[*generatorCall]bool{},
		}
		checkerCtx = context.WithValue(ctx, cycleKey, checker)
	}

	checker.lock.Lock()
	defer checker.lock.Unlock()

	if checker.inProcess[s.gen] {
		return nil, func() {}, &DependencyError{
			Message:        "cyclic dependency error getting slot",
			ReferencedType: s.slotType,
			Status:         m.Status(),
		}
	}
	checker.inProcess[s.gen] = true

	return checkerCtx, func() {
		checker.lock.Lock()
		delete(checker.inProcess, s.gen)
		checker.lock.Unlock()
	}, nil
}
