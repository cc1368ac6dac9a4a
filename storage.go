package users

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by Storage.Get when the key doesn't exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists is returned by Storage.Batch when an OpInsert targets a key
	// that is already present. No operation of the batch is applied.
	ErrKeyExists = errors.New("key already exists")

	errStorageClosed = errors.New("storage closed")
)

// Storage represents an ordered key-value backend (Bolt, Badger, in-memory).
//
// The engine needs point lookups and atomic batches; Scan is only used by
// maintenance and debugging helpers.
type Storage interface {
	// Get retrieves a value by key. Returns ErrKeyNotFound if not found.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Put stores a single key-value pair.
	Put(ctx context.Context, key, value []byte) error

	// Batch applies all operations atomically: either all become visible or none.
	Batch(ctx context.Context, ops []Op) error

	// Scan calls f for every key starting with prefix, in key order.
	// The slices passed to f are only valid for the duration of the call.
	Scan(ctx context.Context, prefix []byte, f func(k, v []byte) error) error

	// Close closes the storage.
	Close() error
}

type OpType int

const (
	OpPut OpType = iota
	OpDelete
	// OpInsert puts the value only if the key is absent, failing the whole
	// batch with ErrKeyExists otherwise.
	OpInsert
)

func (t OpType) String() string {
	switch t {
	case OpPut:
		return "put"
	case OpDelete:
		return "del"
	case OpInsert:
		return "insert"
	default:
		return fmt.Sprintf("invalid op %d", int(t))
	}
}

// Op is a single operation of an atomic batch.
type Op struct {
	Type  OpType
	Key   []byte
	Value []byte
}

func putOp(key, value []byte) Op { return Op{Type: OpPut, Key: key, Value: value} }
func insertOp(key, value []byte) Op { return Op{Type: OpInsert, Key: key, Value: value} }
func delOp(key []byte) Op { return Op{Type: OpDelete, Key: key} }
