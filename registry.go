package users

import (
	"context"
	"slices"
	"strings"
)

// defaultIndexes is what the registry bootstraps to.
var defaultIndexes = []string{FieldUsername}

// loadIndexes reads the registry. found is false if it has never been written.
func (db *DB) loadIndexes(ctx context.Context) (names []string, found bool, err error) {
	key := db.keys.registryKey()
	raw, err := db.getRaw(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}
	names, err = db.enc.decodeIndexes(raw)
	if err != nil {
		return nil, false, storageErr("decode registry", key, err)
	}
	return names, true, nil
}

// currentIndexes returns the registry, falling back to the bootstrap default
// (without writing it) when it is absent.
func (db *DB) currentIndexes(ctx context.Context) ([]string, error) {
	names, found, err := db.loadIndexes(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return slices.Clone(defaultIndexes), nil
	}
	return names, nil
}

func (db *DB) putIndexesOp(names []string) (Op, error) {
	raw, err := db.enc.encodeIndexes(names)
	if err != nil {
		return Op{}, err
	}
	return putOp(db.keys.registryKey(), raw), nil
}

func (db *DB) writeIndexes(ctx context.Context, op string, names []string) error {
	o, err := db.putIndexesOp(names)
	if err != nil {
		return recordErrf(op, Lookup{}, err, "")
	}
	if err := db.store.Put(ctx, o.Key, o.Value); err != nil {
		return storageErr(op, o.Key, err)
	}
	db.logf(ctx, "users: INDEXES", "op", op, "names", names)
	return nil
}

// Indexes returns the registered index field names in registration order.
// Fails with ErrNotFound if the registry has not been initialized yet.
func (db *DB) Indexes(ctx context.Context) ([]string, error) {
	names, found, err := db.loadIndexes(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, recordErrf("indexes", Lookup{}, ErrNotFound, "registry not initialized")
	}
	return names, nil
}

// EnsureIndexes initializes the registry to [username] if it is absent and
// returns its current contents.
func (db *DB) EnsureIndexes(ctx context.Context) ([]string, error) {
	names, found, err := db.loadIndexes(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		return names, nil
	}
	names = slices.Clone(defaultIndexes)
	if err := db.writeIndexes(ctx, "ensure indexes", names); err != nil {
		return nil, err
	}
	return names, nil
}

// AddIndexes appends names that aren't registered yet, preserving order.
//
// If the registry does not exist yet, the very first call initializes it to
// [username] and ignores names; call it again (or call EnsureIndexes first)
// to register additional fields. Concurrent callers race; the last write wins.
func (db *DB) AddIndexes(ctx context.Context, names ...string) ([]string, error) {
	for _, name := range names {
		if err := validateIndexName("add indexes", name); err != nil {
			return nil, err
		}
	}
	current, found, err := db.loadIndexes(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		current = slices.Clone(defaultIndexes)
		if err := db.writeIndexes(ctx, "add indexes", current); err != nil {
			return nil, err
		}
		return current, nil
	}

	updated := slices.Clone(current)
	for _, name := range names {
		if !slices.Contains(updated, name) {
			updated = append(updated, name)
		}
	}
	if len(updated) == len(current) {
		return current, nil
	}
	if err := db.writeIndexes(ctx, "add indexes", updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveIndexes unregisters names. Existing index entries for them are left
// in the store; username cannot be removed.
func (db *DB) RemoveIndexes(ctx context.Context, names ...string) ([]string, error) {
	for _, name := range names {
		if name == FieldUsername {
			return nil, recordErrf("remove indexes", By(name, ""), ErrValidation, "the natural key index cannot be removed")
		}
	}
	current, err := db.Indexes(ctx)
	if err != nil {
		return nil, err
	}
	updated := slices.DeleteFunc(slices.Clone(current), func(name string) bool {
		return slices.Contains(names, name)
	})
	if len(updated) == len(current) {
		return current, nil
	}
	if err := db.writeIndexes(ctx, "remove indexes", updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func validateIndexName(op, name string) error {
	switch {
	case name == "":
		return recordErrf(op, Lookup{}, ErrValidation, "empty index name")
	case name == FieldPassword:
		return recordErrf(op, By(name, ""), ErrValidation, "password cannot be indexed")
	case strings.IndexByte(name, Sep) >= 0:
		return recordErrf(op, By(name, ""), ErrValidation, "index name contains the key separator")
	}
	return nil
}
