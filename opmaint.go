package users

import (
	"bytes"
	"context"
)

type storedRecord struct {
	id  string
	raw []byte
}

// scanRecords collects every primary record under the prefix. Values are
// copied so callers may write to the store afterwards.
func (db *DB) scanRecords(ctx context.Context) ([]storedRecord, error) {
	var out []storedRecord
	prefix := []byte(db.keys.prefix)
	err := db.store.Scan(ctx, prefix, func(k, v []byte) error {
		if id, ok := db.recordID(k); ok {
			out = append(out, storedRecord{id, bytes.Clone(v)})
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("scan", prefix, err)
	}
	return out, nil
}

// Reindex writes every index entry that the current registry calls for but
// the store lacks, one atomic batch per record, and returns the number of
// entries written. Existing and stale entries are left alone.
func (db *DB) Reindex(ctx context.Context) (int, error) {
	indexes, err := db.currentIndexes(ctx)
	if err != nil {
		return 0, err
	}
	recs, err := db.scanRecords(ctx)
	if err != nil {
		return 0, err
	}

	var written int
	for _, sr := range recs {
		rec, err := db.enc.decodeRecord(sr.raw)
		if err != nil {
			return written, recordErrf("reindex", ByID(sr.id), err, "")
		}
		var ops []Op
		for _, field := range indexes {
			text, ok := rec.indexText(field)
			if !ok {
				continue
			}
			key := db.keys.indexKey(field, text)
			existing, err := db.getRaw(ctx, key)
			if err != nil {
				return written, err
			}
			if existing == nil {
				ops = append(ops, insertOp(key, []byte(sr.id)))
			}
		}
		if len(ops) == 0 {
			continue
		}
		if err := db.batch(ctx, "reindex", ops); err != nil {
			return written, err
		}
		written += len(ops)
		db.logf(ctx, "users: REINDEX", "id", sr.id, "entries", len(ops))
	}
	return written, nil
}
