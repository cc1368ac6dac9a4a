package users

import "context"

// Save writes rec to the primary key of id, creating or replacing it.
//
// Save is the persistence half of a Get/AddGroups/RemoveGroups round trip. It
// does not touch index entries, so edits to indexed fields leave the old
// entries in place. Known names in rec.Fields are moved into the typed fields
// and a non-empty Password is hashed into Salt first. There is
// no version check: concurrent editors of one record lose updates.
func (db *DB) Save(ctx context.Context, id string, rec *Record) error {
	if id == "" || rec == nil {
		return recordErrf("save", ByID(id), ErrValidation, "id and record required")
	}
	if err := rec.absorbKnownFields(); err != nil {
		return recordErrf("save", ByID(id), ErrValidation, "%v", err)
	}
	if err := db.sealPassword(ctx, "save", id, rec); err != nil {
		return err
	}
	value, err := db.enc.encodeRecord(rec)
	if err != nil {
		return recordErrf("save", ByID(id), err, "")
	}
	key := db.keys.recordKey(id)
	if err := db.store.Put(ctx, key, value); err != nil {
		return storageErr("save", key, err)
	}
	db.logf(ctx, "users: PUT", "id", id, "username", rec.Username)
	db.notify(Change{ChangeSave, id})
	return nil
}
