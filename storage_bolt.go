package users

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const DefaultBoltBucket = "users"

type BoltOptions struct {
	// Bucket holds every key of the engine. Defaults to DefaultBoltBucket.
	Bucket    string
	Timeout   time.Duration
	IsTesting bool
	MmapSize  int
}

// BoltStorage keeps all keys in a single flat Bolt bucket. Each Batch is one
// read-write Bolt transaction.
type BoltStorage struct {
	bdb    *bbolt.DB
	bucket []byte
	owned  bool
}

// OpenBolt opens (creating if needed) a Bolt file at path.
func OpenBolt(path string, opt BoltOptions) (*BoltStorage, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.Timeout != 0 {
		bopt.Timeout = opt.Timeout
	}
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("users: bolt: %w", err)
	}
	s, err := NewBoltStorage(bdb, opt.Bucket)
	if err != nil {
		bdb.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewBoltStorage wraps an already open Bolt database. Close will not close bdb.
func NewBoltStorage(bdb *bbolt.DB, bucket string) (*BoltStorage, error) {
	if bucket == "" {
		bucket = DefaultBoltBucket
	}
	s := &BoltStorage{bdb: bdb, bucket: []byte(bucket)}
	err := bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("users: bolt: creating bucket %q: %w", bucket, err)
	}
	return s, nil
}

func (s *BoltStorage) Bolt() *bbolt.DB {
	return s.bdb
}

func (s *BoltStorage) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var value []byte
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		v := nonNil(btx.Bucket(s.bucket)).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		value = bytes.Clone(v)
		return nil
	})
	return value, err
}

func (s *BoltStorage) Put(ctx context.Context, key, value []byte) error {
	return s.Batch(ctx, []Op{putOp(key, value)})
}

func (s *BoltStorage) Batch(ctx context.Context, ops []Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		b := nonNil(btx.Bucket(s.bucket))
		for _, op := range ops {
			switch op.Type {
			case OpPut:
				if err := b.Put(op.Key, op.Value); err != nil {
					return err
				}
			case OpInsert:
				if b.Get(op.Key) != nil {
					return ErrKeyExists
				}
				if err := b.Put(op.Key, op.Value); err != nil {
					return err
				}
			case OpDelete:
				if err := b.Delete(op.Key); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported batch op %v", op.Type)
			}
		}
		return nil
	})
}

func (s *BoltStorage) Scan(ctx context.Context, prefix []byte, f func(k, v []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bdb.View(func(btx *bbolt.Tx) error {
		c := nonNil(btx.Bucket(s.bucket)).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := f(k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStorage) Close() error {
	if !s.owned {
		return nil
	}
	return s.bdb.Close()
}
