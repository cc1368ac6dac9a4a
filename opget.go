package users

import "context"

// Lookup addresses a record either by id or by the value of one indexed field.
type Lookup struct {
	ID    string
	Field string
	Value string
}

func ByID(id string) Lookup {
	return Lookup{ID: id}
}

// By looks a record up through the index of field.
func By(field, value string) Lookup {
	return Lookup{Field: field, Value: value}
}

func ByUsername(username string) Lookup {
	return By(FieldUsername, username)
}

// IsZero reports a lookup that names neither an id nor a field.
func (l Lookup) IsZero() bool {
	return l.ID == "" && l.Field == ""
}

func (l Lookup) String() string {
	if l.ID != "" {
		return l.ID
	}
	return l.Field + "=" + l.Value
}

// Fetched is a record loaded from the store together with the id it was
// loaded from. Save writes the (possibly mutated) record back to that id.
type Fetched struct {
	ID     string
	Record *Record

	db *DB
}

// Save persists f.Record under f.ID. See DB.Save.
func (f *Fetched) Save(ctx context.Context) error {
	return f.db.Save(ctx, f.ID, f.Record)
}

// Get loads a record by id, or by resolving an index entry to an id first.
// Fails with ErrNotFound if either the index entry or the record is missing;
// an empty field value never has an index entry. A zero Lookup fails with
// ErrValidation.
func (db *DB) Get(ctx context.Context, lookup Lookup) (*Fetched, error) {
	id, err := db.resolve(ctx, "get", lookup)
	if err != nil {
		return nil, err
	}
	rec, err := db.load(ctx, "get", lookup, id)
	if err != nil {
		return nil, err
	}
	return &Fetched{ID: id, Record: rec, db: db}, nil
}

// Exists reports whether the lookup resolves to a stored record.
func (db *DB) Exists(ctx context.Context, lookup Lookup) (bool, error) {
	id, err := db.resolve(ctx, "exists", lookup)
	if isNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	raw, err := db.getRaw(ctx, db.keys.recordKey(id))
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

// resolve turns lookup into a record id, reading the index entry if needed.
func (db *DB) resolve(ctx context.Context, op string, lookup Lookup) (string, error) {
	if lookup.ID != "" {
		return lookup.ID, nil
	}
	if lookup.IsZero() {
		return "", recordErrf(op, lookup, ErrValidation, "id or indexed field required")
	}
	if lookup.Value == "" {
		return "", recordErrf(op, lookup, ErrNotFound, "empty values are not indexed")
	}
	key := db.keys.indexKey(lookup.Field, lookup.Value)
	raw, err := db.getRaw(ctx, key)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", recordErrf(op, lookup, ErrNotFound, "")
	}
	id := string(raw)
	db.logf(ctx, "users: RESOLVE", "field", lookup.Field, "id", id)
	return id, nil
}

func (db *DB) load(ctx context.Context, op string, lookup Lookup, id string) (*Record, error) {
	raw, err := db.getRaw(ctx, db.keys.recordKey(id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, recordErrf(op, lookup, ErrNotFound, "")
	}
	rec, err := db.enc.decodeRecord(raw)
	if err != nil {
		return nil, recordErrf(op, ByID(id), err, "")
	}
	db.logf(ctx, "users: GET", "id", id, "username", rec.Username)
	return rec, nil
}
