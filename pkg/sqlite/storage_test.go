package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/sqlite"
)

func openDB(t *testing.T) (*sqlite.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "senzor.db")
	db, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestScope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, _ := openDB(t)
	s := db.Scope("laptop")

	v, err := s.Get(ctx, "senzor_vid")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, "senzor_vid", "v1"))
	require.NoError(t, s.Set(ctx, "senzor_vid", "v2"))
	v, err = s.Get(ctx, "senzor_vid")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Delete(ctx, "senzor_vid"))
	require.NoError(t, s.Delete(ctx, "senzor_vid"))
	v, err = s.Get(ctx, "senzor_vid")
	require.NoError(t, err)
	assert.Empty(t, v)

	assert.ErrorIs(t, s.Set(ctx, "", "x"), session.ErrInvalidKey)
}

func TestScope_NamespacesAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, _ := openDB(t)

	require.NoError(t, db.Scope("a").Set(ctx, "k", "1"))
	require.NoError(t, db.Scope("b").Set(ctx, "k", "2"))

	v, _ := db.Scope("a").Get(ctx, "k")
	assert.Equal(t, "1", v)

	ns, err := db.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ns)

	require.NoError(t, db.Scope("a").Clear(ctx))
	ns, err = db.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ns)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "senzor.db")

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Scope("device").Set(ctx, "senzor_vid", "v1"))
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err = db.Scope("device").Get(ctx, "senzor_vid")
	assert.ErrorIs(t, err, sqlite.ErrClosed)

	db, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v, err := db.Scope("device").Get(ctx, "senzor_vid")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
}

func TestScope_BacksSessionManager(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, _ := openDB(t)
	visit := session.Visit{Host: "site.example"}

	first := session.New(session.WithScopes(db.Scope("device"), nil)).Ensure(ctx, visit)
	second := session.New(session.WithScopes(db.Scope("device"), nil)).Ensure(ctx, visit)

	assert.Equal(t, first.VisitorID, second.VisitorID)
	assert.NotEqual(t, first.SessionID, second.SessionID, "a fresh ephemeral scope starts a new session")
}
