package store

import "fmt"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Factory is a function type that creates a new store instance.
// This is used to abstract the creation of the store from its consumers
// (the server, the shared test suite, ...).
type Factory func() IStore

// IStore is the generic interface for interacting with a key-value store.
// All implementations must be safe for concurrent use: any number of readers
// may observe the store at the same time, but never concurrently with a
// writer, and a mutation is never observed half-applied.
//
// A key holds either a string value or an ordered list of strings. Calling a
// list operation on a string-typed key (or a string operation on a list-typed
// key) returns an *Error with code RetCWrongType instead of mutating.
type IStore interface {
	// Set inserts or updates a string value for a key.
	Set(key, value string) (err error)
	// Get returns the string value for a key. The boolean return value
	// indicates whether a value for the key was found.
	Get(key string) (value string, loaded bool, err error)
	// Delete removes each of the given keys if present and returns the
	// number of keys actually removed. Deleting an absent key is not an
	// error. No cross-key atomicity is guaranteed.
	Delete(keys ...string) (removed int, err error)
	// Keys returns a snapshot of all keys in unspecified order.
	Keys() (keys []string, err error)
	// LPush prepends the given values to the list stored at key, creating
	// the list if the key is absent. The values keep their left-to-right
	// order, i.e. LPush("k", "a", "b") yields ["a" "b" ...old]. Returns the
	// new list length.
	LPush(key string, values ...string) (length int, err error)
	// LRange returns the inclusive range [start, stop] of the list stored
	// at key. Negative indices count from the end of the list. An absent
	// key yields an empty result, not an error.
	LRange(key string, start, stop int) (values []string, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// IsWrongType reports whether err is a store Error with code RetCWrongType.
func IsWrongType(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == RetCWrongType
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                   // 1: Operation failed due to an internal error.
	RetCWrongType                       // 2: Operation does not match the type of the stored value.
	RetCInvalidOperation                // 3: Invalid operation.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCWrongType:
		return "WrongType"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}
