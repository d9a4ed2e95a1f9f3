// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

var (
	isInitializedKey = []byte{0x00}
	sequenceKey      = []byte{0x01}

	_ SingletonState = (*singletonState)(nil)
)

// SingletonState is a thin wrapper around a database providing the
// initialization marker and the monotonic record sequence used for
// deterministic identity derivation.
type SingletonState interface {
	IsInitialized() (bool, error)
	SetInitialized() error

	NextSequence() (uint64, error)
}

type singletonState struct {
	singletonDB database.Database
}

func NewSingletonState(db database.Database) SingletonState {
	return &singletonState{
		singletonDB: db,
	}
}

func (s *singletonState) IsInitialized() (bool, error) {
	return s.singletonDB.Has(isInitializedKey)
}

func (s *singletonState) SetInitialized() error {
	return s.singletonDB.Put(isInitializedKey, nil)
}

// NextSequence returns the current sequence number and persists its
// successor. The write stays pending with the rest of the instruction, so
// an aborted instruction does not consume a number.
func (s *singletonState) NextSequence() (uint64, error) {
	var seq uint64
	seqBytes, err := s.singletonDB.Get(sequenceKey)
	switch {
	case err == nil:
		if len(seqBytes) != wrappers.LongLen {
			return 0, errors.New("invalid sequence counter format")
		}
		seq = binary.BigEndian.Uint64(seqBytes)
	case errors.Is(err, database.ErrNotFound):
	default:
		return 0, err
	}

	next := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(next, seq+1)
	if err := s.singletonDB.Put(sequenceKey, next); err != nil {
		return 0, err
	}
	return seq, nil
}
