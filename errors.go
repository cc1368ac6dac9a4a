package users

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by errors reporting a missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate is matched by errors reporting a natural key collision.
	ErrDuplicate = errors.New("already exists")

	// ErrNotFound is matched by errors reporting a lookup that resolved to nothing.
	ErrNotFound = errors.New("not found")
)

// RecordError describes a failed operation on a record. It unwraps to one of
// the sentinels above or to a lower-level error.
type RecordError struct {
	Op    string
	ID    string
	Field string
	Value string
	Msg   string
	Err   error
}

func recordErrf(op string, lookup Lookup, err error, format string, args ...any) error {
	e := &RecordError{Op: op, ID: lookup.ID, Field: lookup.Field, Value: lookup.Value, Err: err}
	if format != "" {
		e.Msg = fmt.Sprintf(format, args...)
	}
	return e
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (e *RecordError) Error() string {
	var buf strings.Builder
	buf.WriteString("users: ")
	buf.WriteString(e.Op)
	if e.ID != "" {
		buf.WriteByte(' ')
		buf.WriteString(e.ID)
	} else if e.Field != "" {
		buf.WriteByte(' ')
		buf.WriteString(e.Field)
		buf.WriteByte('=')
		buf.WriteString(e.Value)
	}
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

// StorageError wraps a failure of the underlying Storage. Storage errors are
// never retried by the engine.
type StorageError struct {
	Op  string
	Key []byte
	Err error
}

func storageErr(op string, key []byte, err error) error {
	return &StorageError{op, key, err}
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("users: storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("users: storage %s %q: %v", e.Op, loggableKey(e.Key), e.Err)
}

// DataError reports stored bytes that cannot be decoded.
type DataError struct {
	Data []byte
	Err  error
	Msg  string
}

func dataErrf(data []byte, err error, format string, args ...any) error {
	return &DataError{data, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// maxDataShown bounds how much of an undecodable value Error renders.
const maxDataShown = 48

func (e *DataError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Msg)
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	shown := e.Data
	if len(shown) > maxDataShown {
		shown = shown[:maxDataShown]
	}
	fmt.Fprintf(&buf, ": (%d) %x", len(e.Data), shown)
	if len(shown) < len(e.Data) {
		buf.WriteString("...")
	}
	return buf.String()
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
