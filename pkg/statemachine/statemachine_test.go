package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/senzor/pkg/statemachine"
)

const (
	uninitialized = statemachine.State("uninitialized")
	initializing  = statemachine.State("initializing")
	active        = statemachine.State("active")

	begin    = statemachine.Event("begin")
	activate = statemachine.Event("activate")
)

func TestMachine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("basic transitions", func(t *testing.T) {
		t.Parallel()
		sm := statemachine.MustNew(uninitialized,
			statemachine.WithTransition(uninitialized, initializing, begin),
			statemachine.WithTransition(initializing, active, activate),
		)

		assert.True(t, sm.Is(uninitialized))
		assert.True(t, statemachine.IsNoTransitionAvailableError(sm.Fire(ctx, activate, nil)))

		require.NoError(t, sm.Fire(ctx, begin, nil))
		require.NoError(t, sm.Fire(ctx, activate, nil))
		assert.Equal(t, active, sm.Current())

		sm.Reset()
		assert.Equal(t, uninitialized, sm.Current())
	})

	t.Run("terminal state rejects events", func(t *testing.T) {
		t.Parallel()
		sm := statemachine.MustNew(active)
		err := sm.Fire(ctx, begin, nil)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
		assert.Equal(t, active, sm.Current())
	})

	t.Run("guards select transition", func(t *testing.T) {
		t.Parallel()
		hasID := func(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
			id, _ := data.(string)
			return id != ""
		}
		sm := statemachine.MustNew(uninitialized,
			statemachine.WithTransition(uninitialized, initializing, begin, statemachine.WithGuard(hasID)),
		)

		err := sm.Fire(ctx, begin, "")
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.Equal(t, uninitialized, sm.Current())

		require.NoError(t, sm.Fire(ctx, begin, "w1"))
		assert.Equal(t, initializing, sm.Current())
	})

	t.Run("actions run in order and failures abort", func(t *testing.T) {
		t.Parallel()
		var calls []string
		first := func(context.Context, statemachine.State, statemachine.State, any) error {
			calls = append(calls, "first")
			return nil
		}
		failing := func(context.Context, statemachine.State, statemachine.State, any) error {
			calls = append(calls, "failing")
			return errors.New("nope")
		}
		sm := statemachine.MustNew(uninitialized,
			statemachine.WithTransition(uninitialized, initializing, begin,
				statemachine.WithAction(first),
				statemachine.WithAction(failing),
			),
		)

		err := sm.Fire(ctx, begin, nil)
		require.Error(t, err)
		assert.Equal(t, []string{"first", "failing"}, calls)
		assert.Equal(t, uninitialized, sm.Current())
	})

	t.Run("invalid definitions", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.New("")
		assert.Error(t, err)

		_, err = statemachine.New(uninitialized, statemachine.WithTransition(uninitialized, "", begin))
		assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

		sm := statemachine.MustNew(uninitialized)
		assert.ErrorIs(t, sm.Fire(ctx, "", nil), statemachine.ErrInvalidEvent)
	})
}
