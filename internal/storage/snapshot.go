// Package storage persists engine state between daemon runs.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ugorji/go/codec"

	"github.com/optionforge/optiond/internal/core/settle"
	"github.com/optionforge/optiond/internal/storage/keyvalue"
)

var snapshotKey = []byte("settle/state")

var cborHandle = &codec.CborHandle{}

// SnapshotStore persists the settlement engine's exported state as a single
// CBOR record. One record per series is enough: the engine state is a few
// keyed maps, and the store is rewritten after every committed operation.
type SnapshotStore struct {
	db keyvalue.DB
}

// NewSnapshotStore creates a SnapshotStore over db.
func NewSnapshotStore(db keyvalue.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save encodes and writes the engine state.
func (s *SnapshotStore) Save(ctx context.Context, state *settle.State) error {
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, cborHandle).Encode(state); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.db.Write(ctx, snapshotKey, buf); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads and decodes the engine state. Returns (nil, nil) when no
// snapshot has been written yet.
func (s *SnapshotStore) Load(ctx context.Context) (*settle.State, error) {
	data, err := s.db.Read(ctx, snapshotKey)
	if err != nil {
		if errors.Is(err, keyvalue.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var state settle.State
	if err := codec.NewDecoderBytes(data, cborHandle).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &state, nil
}
