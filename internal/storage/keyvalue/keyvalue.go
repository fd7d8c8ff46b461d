// Package keyvalue defines the key-value store the daemon persists engine
// snapshots through, with a pebble-backed implementation and an in-memory
// one for tests.
package keyvalue

import (
	"context"
	"errors"
)

var (
	// ErrDBClosed is returned when operating on a closed store.
	ErrDBClosed = errors.New("keyvalue store is closed")

	// ErrKeyNotFound is returned when a key does not exist.
	ErrKeyNotFound = errors.New("key not found")
)

// DB is the basic contract any key-value backend must support.
type DB interface {
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	Batch(ctx context.Context, ops []BatchOperation) error
	Close() error
}

// BatchOperation is a single operation in an atomic batch.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

// BatchOpType discriminates batch operations.
type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
