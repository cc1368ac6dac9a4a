package users

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

type BadgerOptions struct {
	// InMemory keeps everything in RAM; Dir must be empty then.
	InMemory   bool
	SyncWrites bool
	Logger     *slog.Logger
}

// BadgerStorage stores keys in a Badger database. Each Batch is one
// read-write Badger transaction, which gives OpInsert serializable semantics.
type BadgerStorage struct {
	kv    *badger.DB
	owned bool
}

func OpenBadger(dir string, opt BadgerOptions) (*BadgerStorage, error) {
	bopt := badger.DefaultOptions(dir).
		WithInMemory(opt.InMemory).
		WithSyncWrites(opt.SyncWrites)
	if opt.Logger != nil {
		bopt = bopt.WithLogger(badgerLogger{opt.Logger})
	} else {
		bopt = bopt.WithLogger(nil)
	}
	kv, err := badger.Open(bopt)
	if err != nil {
		return nil, fmt.Errorf("users: badger: %w", err)
	}
	return &BadgerStorage{kv: kv, owned: true}, nil
}

// NewBadgerStorage wraps an already open Badger database. Close will not close it.
func NewBadgerStorage(kv *badger.DB) *BadgerStorage {
	return &BadgerStorage{kv: kv}
}

func (s *BadgerStorage) Badger() *badger.DB {
	return s.kv
}

func (s *BadgerStorage) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var value []byte
	err := s.kv.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		} else if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func (s *BadgerStorage) Put(ctx context.Context, key, value []byte) error {
	return s.Batch(ctx, []Op{putOp(key, value)})
}

// maxConflictRetries bounds how often a batch is replayed after losing an
// optimistic concurrency conflict to another transaction.
const maxConflictRetries = 16

func (s *BadgerStorage) Batch(ctx context.Context, ops []Op) error {
	var err error
	for range maxConflictRetries {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = s.batch(ops)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func (s *BadgerStorage) batch(ops []Op) error {
	return s.kv.Update(func(txn *badger.Txn) error {
		for _, op := range ops {
			switch op.Type {
			case OpPut:
				if err := txn.Set(op.Key, op.Value); err != nil {
					return err
				}
			case OpInsert:
				_, err := txn.Get(op.Key)
				if err == nil {
					return ErrKeyExists
				} else if !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
				if err := txn.Set(op.Key, op.Value); err != nil {
					return err
				}
			case OpDelete:
				if err := txn.Delete(op.Key); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported batch op %v", op.Type)
			}
		}
		return nil
	})
}

func (s *BadgerStorage) Scan(ctx context.Context, prefix []byte, f func(k, v []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.kv.View(func(txn *badger.Txn) error {
		iopt := badger.DefaultIteratorOptions
		iopt.Prefix = prefix
		it := txn.NewIterator(iopt)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			k := item.Key()
			if !bytes.HasPrefix(k, prefix) {
				break
			}
			err := item.Value(func(v []byte) error {
				return f(k, v)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStorage) Close() error {
	if !s.owned {
		return nil
	}
	return s.kv.Close()
}

type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(format string, args ...any) {
	b.l.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (b badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (b badgerLogger) Infof(format string, args ...any) {
	b.l.Info(fmt.Sprintf(format, args...), "component", "badger")
}

func (b badgerLogger) Debugf(format string, args ...any) {
	b.l.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
