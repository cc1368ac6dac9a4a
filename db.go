package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/andreyvit/users/passwd"
	"github.com/google/uuid"
)

// DB is a user record engine bound to one Storage and one key prefix.
// A DB holds no mutable state of its own and is safe for concurrent use;
// see the package docs for the races this permits.
type DB struct {
	store    Storage
	keys     keyspace
	enc      Encoding
	hasher   passwd.Hasher
	logger   *slog.Logger
	verbose  bool
	newID    func() string
	isID     func(string) bool
	onChange func(Change)
}

type Options struct {
	// Prefix namespaces every key, allowing several tenants to share a store.
	Prefix string
	// PrefixFunc, if set, is called once by New to compute Prefix.
	PrefixFunc func() string

	Encoding Encoding
	// Cost is the bcrypt work factor; zero means passwd.DefaultCost.
	Cost int

	Logger  *slog.Logger
	Verbose bool

	// OnChange is called after every successfully committed mutation.
	OnChange func(Change)

	// NewID generates record ids. Defaults to random UUIDs.
	NewID func() string

	// IsID reports whether a key found by Reindex, Stats or Dump holds an id
	// of this engine. It tells this tenant's records apart from those of a
	// tenant whose prefix extends ours. Defaults to accepting canonical
	// UUIDs when NewID is the default, and everything otherwise.
	IsID func(id string) bool
}

func New(store Storage, opt Options) *DB {
	if store == nil {
		panic("users: nil storage")
	}
	prefix := opt.Prefix
	if opt.PrefixFunc != nil {
		prefix = opt.PrefixFunc()
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newID, isID := opt.NewID, opt.IsID
	if newID == nil {
		newID = uuid.NewString
		if isID == nil {
			isID = isUUID
		}
	}
	return &DB{
		store:    store,
		keys:     keyspace{prefix},
		enc:      opt.Encoding,
		hasher:   passwd.New(opt.Cost),
		logger:   logger.With("component", "users"),
		verbose:  opt.Verbose,
		newID:    newID,
		isID:     isID,
		onChange: opt.OnChange,
	}
}

func (db *DB) Storage() Storage {
	return db.store
}

func (db *DB) Prefix() string {
	return db.keys.prefix
}

// Close closes the underlying storage.
func (db *DB) Close() error {
	return db.store.Close()
}

// recordID returns the id stored in k if k is a primary key of this engine.
func (db *DB) recordID(k []byte) (string, bool) {
	id, ok := db.keys.primaryID(k)
	if !ok || (db.isID != nil && !db.isID(id)) {
		return "", false
	}
	return id, true
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func (db *DB) logf(ctx context.Context, msg string, args ...any) {
	if db.verbose {
		db.logger.DebugContext(ctx, msg, args...)
	}
}

// getRaw wraps Storage.Get, returning (nil, nil) on a miss.
func (db *DB) getRaw(ctx context.Context, key []byte) ([]byte, error) {
	value, err := db.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		db.logf(ctx, "users: GET.NOTFOUND", "key", loggableKey(key))
		return nil, nil
	} else if err != nil {
		return nil, storageErr("get", key, err)
	}
	return value, nil
}

func (db *DB) batch(ctx context.Context, op string, ops []Op) error {
	err := db.store.Batch(ctx, ops)
	if err != nil {
		return storageErr(op, nil, err)
	}
	if db.verbose {
		for _, o := range ops {
			db.logger.DebugContext(ctx, "users: BATCH", "op", op, "type", o.Type.String(), "key", loggableKey(o.Key))
		}
	}
	return nil
}

func (db *DB) notify(chg Change) {
	if db.onChange != nil {
		db.onChange(chg)
	}
}
