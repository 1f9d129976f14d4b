package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/senzor/pkg/session"
)

func TestMemoryScope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing key returns empty", func(t *testing.T) {
		t.Parallel()
		s := session.NewMemoryScope()
		v, err := s.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()
		s := session.NewMemoryScope()
		require.NoError(t, s.Set(ctx, "k", "v"))

		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)

		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()
		s := session.NewMemoryScope()
		assert.ErrorIs(t, s.Set(ctx, "", "v"), session.ErrInvalidKey)
	})

	t.Run("clear drops everything", func(t *testing.T) {
		t.Parallel()
		s := session.NewMemoryScope()
		require.NoError(t, s.Set(ctx, "a", "1"))
		require.NoError(t, s.Set(ctx, "b", "2"))
		s.Clear()
		assert.Equal(t, 0, s.Len())
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()
		s := session.NewMemoryScope()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.Set(ctx, "k", "v")
				_, _ = s.Get(ctx, "k")
				if i%2 == 0 {
					_ = s.Delete(ctx, "k")
				}
			}(i)
		}
		wg.Wait()
	})
}
