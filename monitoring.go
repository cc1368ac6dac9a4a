package users

import (
	"bytes"
	"context"
)

type Stats struct {
	Records        int
	IndexEntries   int
	IndexesByField map[string]int
	HasRegistry    bool

	DataSize  int
	IndexSize int
}

func (s *Stats) TotalSize() int {
	return s.DataSize + s.IndexSize
}

// Stats counts the keys stored under the prefix.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	s := Stats{IndexesByField: make(map[string]int)}
	registryKey := string(db.keys.registryKey())
	indexPrefixLen := len(db.keys.indexPrefix())
	prefix := []byte(db.keys.prefix)

	err := db.store.Scan(ctx, prefix, func(k, v []byte) error {
		switch {
		case string(k) == registryKey:
			s.HasRegistry = true
		case db.keys.isIndexKey(k):
			s.IndexEntries++
			s.IndexSize += len(k) + len(v)
			field, _, _ := bytes.Cut(k[indexPrefixLen:], []byte{Sep})
			s.IndexesByField[string(field)]++
		default:
			if _, ok := db.recordID(k); ok {
				s.Records++
				s.DataSize += len(k) + len(v)
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, storageErr("scan", prefix, err)
	}
	return s, nil
}
