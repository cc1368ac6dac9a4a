package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIndexes_FirstCallBootstraps(t *testing.T) {
	eachBackend(t, Options{}, func(t *testing.T, db *DB) {
		ctx := context.Background()

		names, err := db.AddIndexes(ctx, "email")
		require.NoError(t, err)
		deepEqual(t, names, []string{"username"})

		names, err = db.AddIndexes(ctx, "email", "age")
		require.NoError(t, err)
		deepEqual(t, names, []string{"username", "email", "age"})

		names, err = db.AddIndexes(ctx, "age", "email")
		require.NoError(t, err)
		deepEqual(t, names, []string{"username", "email", "age"})

		names, err = db.Indexes(ctx)
		require.NoError(t, err)
		deepEqual(t, names, []string{"username", "email", "age"})
	})
}

func TestEnsureIndexes(t *testing.T) {
	db := setupMem(t)
	ctx := context.Background()

	names, err := db.EnsureIndexes(ctx)
	require.NoError(t, err)
	deepEqual(t, names, []string{"username"})

	_, err = db.AddIndexes(ctx, "email")
	require.NoError(t, err)

	names, err = db.EnsureIndexes(ctx)
	require.NoError(t, err)
	deepEqual(t, names, []string{"username", "email"})
}

func TestAddIndexes_Validation(t *testing.T) {
	db := setupMem(t)
	ctx := context.Background()
	_, err := db.EnsureIndexes(ctx)
	require.NoError(t, err)

	for _, name := range []string{"", "password", "a\xffb"} {
		_, err := db.AddIndexes(ctx, "email", name)
		assert.ErrorIs(t, err, ErrValidation, "%q", name)
	}

	names, err := db.Indexes(ctx)
	require.NoError(t, err)
	deepEqual(t, names, []string{"username"})
}

func TestRemoveIndexes(t *testing.T) {
	eachBackend(t, Options{}, func(t *testing.T, db *DB) {
		ctx := context.Background()
		_, err := db.RemoveIndexes(ctx, "email")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = db.EnsureIndexes(ctx)
		require.NoError(t, err)
		_, err = db.AddIndexes(ctx, "email", "age", "city")
		require.NoError(t, err)

		names, err := db.RemoveIndexes(ctx, "age", "nope")
		require.NoError(t, err)
		deepEqual(t, names, []string{"username", "email", "city"})

		_, err = db.RemoveIndexes(ctx, "email", "username")
		assert.ErrorIs(t, err, ErrValidation)

		names, err = db.Indexes(ctx)
		require.NoError(t, err)
		deepEqual(t, names, []string{"username", "email", "city"})
	})
}

func TestIndexLookup(t *testing.T) {
	eachBackend(t, Options{}, func(t *testing.T, db *DB) {
		ctx := context.Background()
		_, err := db.EnsureIndexes(ctx)
		require.NoError(t, err)
		_, err = db.AddIndexes(ctx, "email", "age", "admin", "tags")
		require.NoError(t, err)

		id := mustCreate(t, db, &Record{
			Username: "test",
			Fields: Fields{
				{"email", String("test@tap.com")},
				{"age", Number(42)},
				{"admin", Bool(true)},
				{"tags", Strings("a", "b")},
			},
		})

		for _, lookup := range []Lookup{By("email", "test@tap.com"), By("age", "42"), By("admin", "true")} {
			f, err := db.Get(ctx, lookup)
			require.NoError(t, err, "%v", lookup)
			assert.Equal(t, id, f.ID)
		}

		st, err := db.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, st.IndexesByField["tags"], "lists are not indexed")
		assert.Equal(t, 4, st.IndexEntries)
	})
}

func TestIndexes_RegistryEncoding(t *testing.T) {
	db := setup(t, NewMemStorage(), Options{Encoding: JSON, Prefix: "t:"})
	ctx := context.Background()
	_, err := db.EnsureIndexes(ctx)
	require.NoError(t, err)
	_, err = db.AddIndexes(ctx, "email")
	require.NoError(t, err)

	raw, err := db.Storage().Get(ctx, []byte("t:\xffINDEXES\xff"))
	require.NoError(t, err)
	assert.Equal(t, `["username","email"]`, string(raw))
}
