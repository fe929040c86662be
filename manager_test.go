package envdep

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWidget struct {
	val int
}

type testDoodad struct {
	val string
}

type tempInterface interface {
	getVal() int
}

type tempImpl struct {
}

func (t tempImpl) getVal() int {
	return 105
}

func TestManager_GeneratorAndObject(t *testing.T) {
	m := NewManager(func() *testWidget {
		return &testWidget{val: 42}
	}, &tempImpl{})

	var widget *testWidget
	require.NoError(t, m.Resolve(context.Background(), &widget))
	assert.Equal(t, 42, widget.val)

	var iface tempInterface
	require.NoError(t, m.Resolve(context.Background(), &iface))
	assert.Equal(t, 105, iface.getVal())
}

func TestManager_Generator_MultiOutput(t *testing.T) {
	calls := 0
	creator := func(ctx context.Context) (*testWidget, *testDoodad) {
		calls++
		return &testWidget{val: 42}, &testDoodad{val: "new doodad"}
	}

	m := NewManager(creator)

	var doodad *testDoodad
	require.NoError(t, m.Resolve(context.Background(), &doodad))
	assert.Equal(t, "new doodad", doodad.val)

	var widget *testWidget
	require.NoError(t, m.Resolve(context.Background(), &widget))
	assert.Equal(t, 42, widget.val)

	assert.Equal(t, 1, calls)
}

func TestManager_Generator_Invalid(t *testing.T) {
	// No valid return types
	assert.Panics(t, func() {
		NewManager(func(ctx context.Context) error {
			return fmt.Errorf("expected error")
		})
	})

	// Multiple errors
	assert.Panics(t, func() {
		NewManager(func() (*testWidget, error, error) {
			return nil, nil, nil
		})
	})

	assert.Panics(t, func() {
		NewManager(nil)
	})
}

func TestManager_Generator_Dependencies(t *testing.T) {
	m := NewManager(
		&testDoodad{val: "7"},
		func(ctx context.Context, d *testDoodad) (*testWidget, error) {
			if ctx == nil {
				return nil, errors.New("no context")
			}
			return &testWidget{val: len(d.val)}, nil
		},
	)

	var widget *testWidget
	require.NoError(t, m.Resolve(context.Background(), &widget))
	assert.Equal(t, 1, widget.val)
}

func TestManager_Generator_ErrorNotCached(t *testing.T) {
	calls := 0
	m := NewManager(func() (*testWidget, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("first call fails")
		}
		return &testWidget{val: calls}, nil
	})

	var widget *testWidget
	err := m.Resolve(context.Background(), &widget)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first call fails")
	assert.Nil(t, widget)

	require.NoError(t, m.Resolve(context.Background(), &widget))
	assert.Equal(t, 2, widget.val)
	require.NoError(t, m.Resolve(context.Background(), &widget))
	assert.Equal(t, 2, calls)
}

func TestManager_Generator_NilResult(t *testing.T) {
	m := NewManager(func() *testWidget { return nil })

	var widget *testWidget
	err := m.Resolve(context.Background(), &widget)

	var de *DependencyError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "generator returned nil", de.Message)
}

func TestManager_NotFound(t *testing.T) {
	m := NewManager(&testWidget{val: 1})

	var doodad *testDoodad
	err := m.Resolve(context.Background(), &doodad)

	assert.ErrorIs(t, err, ErrDependencyNotFound)
	var de *DependencyError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, reflect.TypeOf(doodad), de.ReferencedType)
	assert.Contains(t, de.Status, "*envdep.testWidget - direct value set")
	assert.False(t, m.Has(reflect.TypeOf(doodad)))
}

func TestManager_ResolveTargetMustBePointer(t *testing.T) {
	m := NewManager()
	assert.Panics(t, func() {
		_ = m.Resolve(context.Background(), testWidget{})
	})
	assert.Panics(t, func() {
		_ = m.Resolve(context.Background(), nil)
	})
}

func TestManager_Strict(t *testing.T) {
	assert.Panics(t, func() {
		NewManager(&testWidget{val: 1}, &testWidget{val: 2})
	})
	assert.Panics(t, func() {
		NewManager(&testWidget{val: 1}, func() *testWidget { return &testWidget{val: 2} })
	})
}

func TestManager_WithOverrides(t *testing.T) {
	t.Run("last value wins", func(t *testing.T) {
		m := NewManager(WithOverrides(), &testWidget{val: 1}, &testWidget{val: 2})
		var widget *testWidget
		require.NoError(t, m.Resolve(context.Background(), &widget))
		assert.Equal(t, 2, widget.val)
	})

	t.Run("value beats generator", func(t *testing.T) {
		m := NewManager(&testWidget{val: 1}, WithOverrides(), func() *testWidget { return &testWidget{val: 2} })
		var widget *testWidget
		require.NoError(t, m.Resolve(context.Background(), &widget))
		assert.Equal(t, 1, widget.val)
	})

	t.Run("last generator wins", func(t *testing.T) {
		m := NewManager(WithOverrides(),
			func() *testWidget { return &testWidget{val: 1} },
			func() *testWidget { return &testWidget{val: 2} },
		)
		var widget *testWidget
		require.NoError(t, m.Resolve(context.Background(), &widget))
		assert.Equal(t, 2, widget.val)
	})
}

func TestManager_Cycle(t *testing.T) {
	m := NewManager(
		func(d *testDoodad) *testWidget { return &testWidget{val: len(d.val)} },
		func(w *testWidget) *testDoodad { return &testDoodad{val: fmt.Sprint(w.val)} },
	)

	var widget *testWidget
	err := m.Resolve(context.Background(), &widget)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic dependency")
}

func TestManager_ConcurrentResolveRunsGeneratorOnce(t *testing.T) {
	var calls int64
	m := NewManager(func() *testWidget {
		atomic.AddInt64(&calls, 1)
		return &testWidget{val: 42}
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var widget *testWidget
			assert.NoError(t, m.Resolve(context.Background(), &widget))
			assert.Equal(t, 42, widget.val)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestManager_Status(t *testing.T) {
	m := NewManager(
		&tempImpl{},
		func(ctx context.Context) (*testWidget, error) { return &testWidget{val: 1}, nil },
	)

	assert.Equal(t, "*envdep.tempImpl - direct value set\n"+
		"*envdep.testWidget - uninitialized - generator: (context.Context) *envdep.testWidget, error",
		m.Status())

	var iface tempInterface
	require.NoError(t, m.Resolve(context.Background(), &iface))
	var widget *testWidget
	require.NoError(t, m.Resolve(context.Background(), &widget))

	assert.Equal(t, "*envdep.tempImpl - direct value set\n"+
		"*envdep.testWidget - created from generator: (context.Context) *envdep.testWidget, error\n"+
		"envdep.tempInterface - assigned from *envdep.tempImpl",
		m.Status())
}
