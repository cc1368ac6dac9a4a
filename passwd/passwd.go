// Package passwd hashes and verifies user passwords with bcrypt.
//
// Plaintext passwords are never logged or returned in errors.
package passwd

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
// Note that bcrypt.DefaultCost is 10.
const DefaultCost = 5

const (
	MinCost = bcrypt.MinCost
	MaxCost = bcrypt.MaxCost
)

// HashError reports an unexpected failure to hash a password.
type HashError struct {
	Cost int
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("passwd: hashing with cost %d: %v", e.Cost, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// VerifyError reports a stored hash that cannot be used for verification.
type VerifyError struct {
	Err error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("passwd: malformed hash: %v", e.Err)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// Hasher hashes passwords with a fixed work factor.
type Hasher struct {
	Cost int
}

func New(cost int) Hasher {
	if cost == 0 {
		cost = DefaultCost
	}
	return Hasher{Cost: cost}
}

// Hash returns a salted one-way hash of plaintext.
func (h Hasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", &HashError{cost, err}
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A mismatch is not an error;
// only a malformed hash is.
func (h Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	} else if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, &VerifyError{err}
}

// Hash hashes plaintext with DefaultCost.
func Hash(plaintext string) (string, error) {
	return Hasher{Cost: DefaultCost}.Hash(plaintext)
}

// Verify checks plaintext against a hash produced by any Hasher.
func Verify(plaintext, hash string) (bool, error) {
	return Hasher{}.Verify(plaintext, hash)
}

// Cost returns the work factor a hash was created with.
func Cost(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, &VerifyError{err}
	}
	return cost, nil
}
