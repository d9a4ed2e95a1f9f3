// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	errBalanceWrongVersion = errors.New("wrong balance account version")

	_ BalanceState = (*balanceState)(nil)
)

// BalanceState persists associated balance accounts keyed by their
// derived address.
type BalanceState interface {
	GetBalance(address ids.ID) (*Balance, error)
	PutBalance(balance *Balance) error
}

type balanceState struct {
	balanceDB database.Database
}

func NewBalanceState(db database.Database) BalanceState {
	return &balanceState{
		balanceDB: db,
	}
}

func (s *balanceState) GetBalance(address ids.ID) (*Balance, error) {
	balanceBytes, err := s.balanceDB.Get(address[:])
	if err != nil {
		return nil, err
	}

	balance := &Balance{}
	parsedVersion, err := Codec.Unmarshal(balanceBytes, balance)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errBalanceWrongVersion
	}

	balance.address = address
	return balance, nil
}

func (s *balanceState) PutBalance(balance *Balance) error {
	bytes, err := Codec.Marshal(CodecVersion, balance)
	if err != nil {
		return err
	}
	address := balance.Address()
	return s.balanceDB.Put(address[:], bytes)
}
