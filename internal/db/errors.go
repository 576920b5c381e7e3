package db

import "errors"

// ErrKeyNotFound is returned by Get for a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants name the redis command in error context.
const (
	OpDel     = "DEL"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpScan    = "SCAN"
	OpGet     = "GET"
	OpMGet    = "MGET"
	OpSet     = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// KeyError reports a failed operation on a specific key.
func KeyError(op, key string, err error) *Error {
	return &Error{Op: op, Err: keyErr{key: key, err: err}}
}

type keyErr struct {
	key string
	err error
}

func (e keyErr) Error() string { return "key " + e.key + ": " + e.err.Error() }
func (e keyErr) Unwrap() error { return e.err }
