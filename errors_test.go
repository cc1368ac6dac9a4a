package users

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordError(t *testing.T) {
	err := recordErrf("get", By("email", "a@b"), ErrNotFound, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "users: get email=a@b: not found", err.Error())

	err = recordErrf("auth", ByID("u1"), errors.New("inner"), "oops %d", 1)
	assert.Equal(t, "users: auth u1: oops 1: inner", err.Error())

	err = recordErrf("create", Lookup{}, ErrValidation, "`username` required")
	assert.Equal(t, "users: create: `username` required: validation failed", err.Error())
}

func TestStorageError(t *testing.T) {
	inner := errors.New("disk full")
	err := storageErr("get", []byte("p\xffINDEX\xffemail\xffa@b"), inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, `users: storage get "p/INDEX/email/a@b": disk full`, err.Error())

	err = storageErr("create", nil, inner)
	assert.Equal(t, "users: storage create: disk full", err.Error())
}

func TestDataError_ErrorAndUnwrap(t *testing.T) {
	t.Run("small data", func(t *testing.T) {
		inner := errors.New("inner")
		err := dataErrf([]byte{0xAA, 0xBB}, inner, "oops")
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("err = %T, wanted *DataError", err)
		}
		if !errors.Is(err, inner) {
			t.Fatalf("errors.Is(err, inner) = false, wanted true")
		}
		s := err.Error()
		if !strings.Contains(s, "oops") || !strings.Contains(s, "inner") || !strings.Contains(s, "(2)") {
			t.Fatalf("err.Error() = %q, wanted message with oops/inner/(2)", s)
		}
	})

	t.Run("large data includes prefix+suffix", func(t *testing.T) {
		data := make([]byte, 200)
		for i := range data {
			data[i] = byte(i)
		}
		err := dataErrf(data, nil, "oops")
		s := err.Error()
		if !strings.Contains(s, "(200)") || !strings.Contains(s, "...") {
			t.Fatalf("err.Error() = %q, wanted message with (200) and ...", s)
		}
	})
}
