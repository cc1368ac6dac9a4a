package users

import (
	"bytes"
	"context"
)

// Remove deletes a record and its index entries in one atomic batch.
//
// Index entries are derived from the record's stored values and the current
// registry. Entries for fields unregistered since creation are left behind,
// and an entry that has since been taken over by another record is kept.
func (db *DB) Remove(ctx context.Context, id string) error {
	if id == "" {
		return recordErrf("remove", ByID(id), ErrValidation, "id required")
	}
	rec, err := db.load(ctx, "remove", ByID(id), id)
	if err != nil {
		return err
	}

	ops := []Op{delOp(db.keys.recordKey(id))}

	indexes, err := db.currentIndexes(ctx)
	if err != nil {
		return err
	}
	for _, field := range indexes {
		text, ok := rec.indexText(field)
		if !ok {
			continue
		}
		key := db.keys.indexKey(field, text)
		owner, err := db.getRaw(ctx, key)
		if err != nil {
			return err
		}
		if owner != nil && !bytes.Equal(owner, []byte(id)) {
			db.logf(ctx, "users: DELETE.SKIPINDEX", "field", field, "owner", string(owner))
			continue
		}
		ops = append(ops, delOp(key))
	}

	if err := db.batch(ctx, "remove", ops); err != nil {
		return err
	}
	db.logf(ctx, "users: DELETE", "id", id)
	db.notify(Change{ChangeRemove, id})
	return nil
}
