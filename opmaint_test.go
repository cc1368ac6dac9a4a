package users

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyvit/users/passwd"
)

func TestReindex(t *testing.T) {
	eachBackend(t, Options{}, func(t *testing.T, db *DB) {
		ctx := context.Background()
		id1 := mustCreate(t, db, &Record{Username: "one", Fields: Fields{{"email", String("one@tap.com")}}})
		id2 := mustCreate(t, db, &Record{Username: "two", Fields: Fields{{"email", String("two@tap.com")}}})
		mustCreate(t, db, &Record{Username: "three"})

		_, err := db.AddIndexes(ctx, "email")
		require.NoError(t, err)
		_, err = db.Get(ctx, By("email", "one@tap.com"))
		require.ErrorIs(t, err, ErrNotFound)

		n, err := db.Reindex(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		f, err := db.Get(ctx, By("email", "one@tap.com"))
		require.NoError(t, err)
		assert.Equal(t, id1, f.ID)
		f, err = db.Get(ctx, By("email", "two@tap.com"))
		require.NoError(t, err)
		assert.Equal(t, id2, f.ID)

		n, err = db.Reindex(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestReindex_RestoresMissingUsernameEntry(t *testing.T) {
	db := setupMem(t)
	ctx := context.Background()
	id := mustCreate(t, db, &Record{Username: "test"})
	require.NoError(t, db.Storage().Batch(ctx, []Op{delOp(db.keys.indexKey("username", "test"))}))

	_, err := db.Get(ctx, ByUsername("test"))
	require.ErrorIs(t, err, ErrNotFound)

	n, err := db.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := db.Get(ctx, ByUsername("test"))
	require.NoError(t, err)
	assert.Equal(t, id, f.ID)
}

func TestNestedPrefixes(t *testing.T) {
	eachBackend(t, Options{Prefix: "a"}, func(t *testing.T, a *DB) {
		ctx := context.Background()
		ab := New(a.Storage(), Options{Prefix: "ab", Cost: passwd.MinCost})
		abID, err := ab.Create(ctx, &Record{Username: "alice"})
		require.NoError(t, err)

		st, err := a.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, st.Records)
		assert.Equal(t, 0, st.IndexEntries)

		out, err := a.Dump(ctx)
		require.NoError(t, err)
		assert.NotContains(t, out, "alice")

		n, err := a.Reindex(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		aID := mustCreate(t, a, &Record{Username: "alice"})
		assert.NotEqual(t, abID, aID)

		st, err = ab.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, st.Records)
		f, err := ab.Get(ctx, ByUsername("alice"))
		require.NoError(t, err)
		assert.Equal(t, abID, f.ID)
	})
}

func TestCustomIDs_IsID(t *testing.T) {
	store := NewMemStorage()
	var seq int
	newID := func() string {
		seq++
		return fmt.Sprintf("u%d", seq)
	}
	isID := func(id string) bool { return strings.HasPrefix(id, "u") }
	a := setup(t, store, Options{Prefix: "a", NewID: newID, IsID: isID})
	ab := setup(t, store, Options{Prefix: "ab", NewID: newID, IsID: isID})
	ctx := context.Background()

	mustCreate(t, ab, &Record{Username: "alice"})
	st, err := a.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Records)
}
