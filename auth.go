package users

import "context"

// Auth loads the record and checks password against its stored hash.
//
// A wrong password yields (nil, nil). A record without a stored hash never
// authenticates. Lookup failures are returned as is, so a missing record is
// reported with the same ErrNotFound as any other Get.
func (db *DB) Auth(ctx context.Context, lookup Lookup, password string) (*Fetched, error) {
	if lookup.IsZero() || password == "" {
		return nil, recordErrf("auth", lookup, ErrValidation, "requires id and password")
	}
	f, err := db.Get(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if f.Record.Salt == "" {
		db.logf(ctx, "users: AUTH.NOHASH", "id", f.ID)
		return nil, nil
	}
	ok, err := db.verifyPassword(ctx, password, f.Record.Salt)
	if err != nil {
		return nil, recordErrf("auth", ByID(f.ID), err, "")
	}
	if !ok {
		db.logf(ctx, "users: AUTH.MISMATCH", "id", f.ID)
		return nil, nil
	}
	db.logf(ctx, "users: AUTH", "id", f.ID)
	return f, nil
}

type hashResult struct {
	hash string
	ok   bool
	err  error
}

// hashPassword runs bcrypt on its own goroutine so that a canceled ctx
// returns immediately instead of waiting out the work factor.
func (db *DB) hashPassword(ctx context.Context, plaintext string) (string, error) {
	ch := make(chan hashResult, 1)
	go func() {
		hash, err := db.hasher.Hash(plaintext)
		ch <- hashResult{hash: hash, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.hash, r.err
	}
}

func (db *DB) verifyPassword(ctx context.Context, plaintext, hash string) (bool, error) {
	ch := make(chan hashResult, 1)
	go func() {
		ok, err := db.hasher.Verify(plaintext, hash)
		ch <- hashResult{ok: ok, err: err}
	}()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-ch:
		return r.ok, r.err
	}
}

// sealPassword replaces a plaintext password on rec with its hash.
func (db *DB) sealPassword(ctx context.Context, op string, id string, rec *Record) error {
	if rec.Password == "" {
		return nil
	}
	hash, err := db.hashPassword(ctx, rec.Password)
	if err != nil {
		return recordErrf(op, ByID(id), err, "")
	}
	rec.Salt = hash
	rec.Password = ""
	return nil
}
