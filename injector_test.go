package envdep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type injectTarget struct {
	Widget   *testWidget   `inject:""`
	Iface    tempInterface `inject:""`
	Doodad   *testDoodad   `inject:"optional"`
	Untagged *testWidget
}

func TestInjector_Inject(t *testing.T) {
	inj, err := NewInjector(NewManager(&testWidget{val: 42}, &tempImpl{}))
	require.NoError(t, err)

	target := &injectTarget{}
	require.NoError(t, inj.Inject(context.Background(), target))

	assert.Equal(t, 42, target.Widget.val)
	assert.Equal(t, 105, target.Iface.getVal())
	assert.Nil(t, target.Doodad, "missing optional dependency is skipped")
	assert.Nil(t, target.Untagged)
}

func TestInjector_Inject_OptionalPresent(t *testing.T) {
	inj, err := NewInjector(NewManager(&testWidget{val: 1}, &tempImpl{}, &testDoodad{val: "d"}))
	require.NoError(t, err)

	target := &injectTarget{}
	require.NoError(t, inj.Inject(context.Background(), target))
	assert.Equal(t, "d", target.Doodad.val)
}

func TestInjector_Inject_OptionalGeneratorFailureIsReported(t *testing.T) {
	inj, err := NewInjector(NewManager(&testWidget{val: 1}, &tempImpl{}, func() (*testDoodad, error) {
		return nil, errors.New("doodad factory down")
	}))
	require.NoError(t, err)

	err = inj.Inject(context.Background(), &injectTarget{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doodad factory down")
}

func TestInjector_Inject_AllOrNothing(t *testing.T) {
	inj, err := NewInjector(NewManager(&testWidget{val: 42}))
	require.NoError(t, err)

	target := &injectTarget{}
	err = inj.Inject(context.Background(), target)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDependencyNotFound)
	assert.Contains(t, err.Error(), "injectTarget.Iface")
	assert.Nil(t, target.Widget, "no field is set when any required field fails")
}

func TestInjector_Inject_InvalidTargets(t *testing.T) {
	inj, err := NewInjector(NewManager(&testWidget{val: 42}))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, inj.Inject(ctx, injectTarget{}))
	assert.Error(t, inj.Inject(ctx, (*injectTarget)(nil)))
	assert.Error(t, inj.Inject(ctx, &[]int{}))

	type unexported struct {
		widget *testWidget `inject:""`
	}
	err = inj.Inject(ctx, &unexported{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not exported")

	type badTag struct {
		Widget *testWidget `inject:"sometimes"`
	}
	err = inj.Inject(ctx, &badTag{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid inject tag")
}

func TestInjector_RequiresManager(t *testing.T) {
	inj, err := NewInjector(nil)
	assert.Error(t, err)
	assert.Nil(t, inj)
}

func TestInjectorFrom(t *testing.T) {
	store := NewAttributes()

	_, err := InjectorFrom(store)
	assert.ErrorIs(t, err, ErrNoInjector)

	store.SetAttribute(InjectorAttributeName, "not an injector")
	_, err = InjectorFrom(store)
	assert.Error(t, err)

	inj, _ := NewInjector(NewManager())
	store.SetAttribute(InjectorAttributeName, inj)
	got, err := InjectorFrom(store)
	require.NoError(t, err)
	assert.Same(t, inj, got)
}

func TestInject_FromContext(t *testing.T) {
	target := &struct {
		Widget *testWidget `inject:""`
	}{}

	assert.ErrorIs(t, Inject(context.Background(), target), ErrNoInjector)

	ctx := contextWithManager(t, &testWidget{val: 7})
	require.NoError(t, Inject(ctx, target))
	assert.Equal(t, 7, target.Widget.val)
}

func TestInjectable(t *testing.T) {
	assert.True(t, Injectable(&injectTarget{}))
	assert.False(t, Injectable(injectTarget{}))
	assert.False(t, Injectable((*injectTarget)(nil)))
	assert.False(t, Injectable(nil))
	assert.False(t, Injectable(func() {}))
}
