package users

import (
	"context"
	"fmt"
	"strings"
)

var dumpSep = strings.Repeat("-", 60)

// Dump renders the registry, index entries and records of this engine, one
// per line, with Sep shown as '/'. Records are decoded; password hashes are
// suppressed.
func (db *DB) Dump(ctx context.Context) (string, error) {
	var buf strings.Builder
	registryKey := string(db.keys.registryKey())
	prefix := []byte(db.keys.prefix)

	fmt.Fprintf(&buf, "prefix %q\n%s\n", db.keys.prefix, dumpSep)
	err := db.store.Scan(ctx, prefix, func(k, v []byte) error {
		key := loggableKey(k[len(prefix):])
		switch {
		case string(k) == registryKey:
			names, err := db.enc.decodeIndexes(v)
			if err != nil {
				fmt.Fprintf(&buf, "%s = ** ERROR: %v\n", key, err)
			} else {
				fmt.Fprintf(&buf, "%s = %s\n", key, strings.Join(names, ", "))
			}
		case db.keys.isIndexKey(k):
			fmt.Fprintf(&buf, "%s => %s\n", key, v)
		default:
			if _, ok := db.recordID(k); !ok {
				// another tenant's key nested under our prefix
				return nil
			}
			rec, err := db.enc.decodeRecord(v)
			if err != nil {
				fmt.Fprintf(&buf, "%s = ** ERROR: %v\n", key, err)
				return nil
			}
			fmt.Fprintf(&buf, "%s = %s\n", key, loggableRecord(rec))
		}
		return nil
	})
	if err != nil {
		return "", storageErr("scan", prefix, err)
	}
	return buf.String(), nil
}

// loggableRecord renders rec as JSON with the password hash suppressed.
func loggableRecord(rec *Record) string {
	c := rec.Clone()
	c.Password = ""
	if c.Salt != "" {
		c.Salt = "***"
	}
	return string(must(c.MarshalJSON()))
}
