package users

import (
	"context"
	"errors"
)

// Create stores a new record and its index entries in one atomic batch and
// returns the generated id.
//
// The caller's rec is not modified. Known names found in rec.Fields (username,
// password, groups) are treated like the typed fields. A plaintext Password
// is hashed into Salt before anything is written. Username uniqueness is checked up front and
// enforced again at commit time by inserting the username index entry with
// OpInsert, so concurrent creates of one username cannot both succeed.
func (db *DB) Create(ctx context.Context, rec *Record) (string, error) {
	if rec == nil {
		return "", recordErrf("create", Lookup{}, ErrValidation, "record required")
	}
	rec = rec.Clone()
	if err := rec.absorbKnownFields(); err != nil {
		return "", recordErrf("create", Lookup{}, ErrValidation, "%v", err)
	}
	if rec.Username == "" {
		return "", recordErrf("create", Lookup{}, ErrValidation, "`username` required")
	}
	lookup := ByUsername(rec.Username)
	if rec.Groups == nil {
		rec.Groups = []string{}
	}

	var ops []Op
	indexes, found, err := db.loadIndexes(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		indexes = defaultIndexes
		o, err := db.putIndexesOp(indexes)
		if err != nil {
			return "", recordErrf("create", lookup, err, "")
		}
		ops = append(ops, o)
	}

	orphan, err := db.checkUnique(ctx, lookup)
	if err != nil {
		return "", err
	}

	id := db.newID()
	for _, field := range indexes {
		text, ok := rec.indexText(field)
		if !ok {
			continue
		}
		key := db.keys.indexKey(field, text)
		if field == FieldUsername && !orphan {
			ops = append(ops, insertOp(key, []byte(id)))
		} else {
			ops = append(ops, putOp(key, []byte(id)))
		}
	}

	if err := db.sealPassword(ctx, "create", id, rec); err != nil {
		return "", err
	}

	value, err := db.enc.encodeRecord(rec)
	if err != nil {
		return "", recordErrf("create", lookup, err, "")
	}
	ops = append(ops, insertOp(db.keys.recordKey(id), value))

	err = db.batch(ctx, "create", ops)
	if errors.Is(err, ErrKeyExists) {
		return "", recordErrf("create", lookup, ErrDuplicate, "lost a concurrent create")
	} else if err != nil {
		return "", err
	}

	db.logf(ctx, "users: CREATE", "id", id, "username", rec.Username)
	db.notify(Change{ChangeCreate, id})
	return id, nil
}

// checkUnique fails with ErrDuplicate if lookup resolves to a stored record.
// orphan reports an index entry whose record is gone; such an entry may be
// overwritten.
func (db *DB) checkUnique(ctx context.Context, lookup Lookup) (orphan bool, err error) {
	id, err := db.resolve(ctx, "create", lookup)
	if isNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	raw, err := db.getRaw(ctx, db.keys.recordKey(id))
	if err != nil {
		return false, err
	}
	if raw != nil {
		return false, recordErrf("create", lookup, ErrDuplicate, "user already exists")
	}
	db.logger.WarnContext(ctx, "users: orphaned index entry", "field", lookup.Field, "id", id)
	return true, nil
}
