package users

import (
	"context"
	"slices"
)

// AddGroups loads a record and appends each group it doesn't have yet. The
// change is not persisted until the returned Fetched is saved.
func (db *DB) AddGroups(ctx context.Context, lookup Lookup, groups ...string) (*Fetched, error) {
	f, err := db.Get(ctx, lookup)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if !slices.Contains(f.Record.Groups, g) {
			f.Record.Groups = append(f.Record.Groups, g)
		}
	}
	return f, nil
}

// RemoveGroups loads a record and drops the first occurrence of each group.
// Absent groups are ignored. The change is not persisted until the returned
// Fetched is saved.
func (db *DB) RemoveGroups(ctx context.Context, lookup Lookup, groups ...string) (*Fetched, error) {
	f, err := db.Get(ctx, lookup)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if i := slices.Index(f.Record.Groups, g); i >= 0 {
			f.Record.Groups = slices.Delete(f.Record.Groups, i, i+1)
		}
	}
	return f, nil
}
