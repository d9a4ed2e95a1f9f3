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
	eventHeadKey = []byte("head")

	errEventWrongVersion = errors.New("wrong transfer event version")

	_ EventState = (*eventState)(nil)
)

// EventState is the append-only transfer event log, keyed by a dense
// sequence number so callers can page through committed history.
type EventState interface {
	// AddEvent assigns the next sequence number to [event] and appends it.
	AddEvent(event *TransferEvent) error

	// GetEvents returns up to [limit] events starting at sequence [start].
	GetEvents(start uint64, limit int) ([]*TransferEvent, error)

	// EventCount returns the number of appended events.
	EventCount() (uint64, error)
}

type eventState struct {
	eventDB database.Database
}

func NewEventState(db database.Database) EventState {
	return &eventState{
		eventDB: db,
	}
}

func (s *eventState) AddEvent(event *TransferEvent) error {
	head, err := s.EventCount()
	if err != nil {
		return err
	}
	event.Seq = head

	bytes, err := Codec.Marshal(CodecVersion, event)
	if err != nil {
		return err
	}
	if err := s.eventDB.Put(eventKey(head), bytes); err != nil {
		return err
	}

	next := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(next, head+1)
	return s.eventDB.Put(eventHeadKey, next)
}

func (s *eventState) GetEvents(start uint64, limit int) ([]*TransferEvent, error) {
	head, err := s.EventCount()
	if err != nil {
		return nil, err
	}

	events := make([]*TransferEvent, 0, limit)
	for seq := start; seq < head && len(events) < limit; seq++ {
		eventBytes, err := s.eventDB.Get(eventKey(seq))
		if err != nil {
			return nil, err
		}

		event := &TransferEvent{}
		parsedVersion, err := Codec.Unmarshal(eventBytes, event)
		if err != nil {
			return nil, err
		}
		if parsedVersion != CodecVersion {
			return nil, errEventWrongVersion
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *eventState) EventCount() (uint64, error) {
	headBytes, err := s.eventDB.Get(eventHeadKey)
	switch {
	case err == nil:
		if len(headBytes) != wrappers.LongLen {
			return 0, errors.New("invalid event log head format")
		}
		return binary.BigEndian.Uint64(headBytes), nil
	case errors.Is(err, database.ErrNotFound):
		return 0, nil
	default:
		return 0, err
	}
}

func eventKey(seq uint64) []byte {
	key := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
