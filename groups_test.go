package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroups(t *testing.T) {
	eachBackend(t, Options{}, func(t *testing.T, db *DB) {
		ctx := context.Background()
		id := mustCreate(t, db, &Record{Username: "test"})

		f, err := db.AddGroups(ctx, ByID(id), "super", "rooty")
		require.NoError(t, err)
		deepEqual(t, f.Record.Groups, []string{"super", "rooty"})

		// not persisted until saved
		g, err := db.Get(ctx, ByID(id))
		require.NoError(t, err)
		deepEqual(t, g.Record.Groups, []string{})

		require.NoError(t, f.Save(ctx))
		g, err = db.Get(ctx, ByUsername("test"))
		require.NoError(t, err)
		deepEqual(t, g.Record.Groups, []string{"super", "rooty"})
		assert.True(t, g.Record.HasGroup("super"))

		f, err = db.AddGroups(ctx, ByID(id), "super")
		require.NoError(t, err)
		deepEqual(t, f.Record.Groups, []string{"super", "rooty"})

		f, err = db.RemoveGroups(ctx, ByID(id), "rooty", "absent")
		require.NoError(t, err)
		require.NoError(t, f.Save(ctx))

		g, err = db.Get(ctx, ByID(id))
		require.NoError(t, err)
		deepEqual(t, g.Record.Groups, []string{"super"})
		assert.False(t, g.Record.HasGroup("rooty"))
	})
}

func TestRemoveGroups_FirstOccurrenceOnly(t *testing.T) {
	db := setupMem(t)
	ctx := context.Background()
	id := mustCreate(t, db, &Record{Username: "test", Groups: []string{"a", "b", "a"}})

	f, err := db.RemoveGroups(ctx, ByID(id), "a")
	require.NoError(t, err)
	deepEqual(t, f.Record.Groups, []string{"b", "a"})
}

func TestGroups_NotFound(t *testing.T) {
	db := setupMem(t)
	ctx := context.Background()

	_, err := db.AddGroups(ctx, ByUsername("nope"), "a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.RemoveGroups(ctx, ByID("nope"), "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
