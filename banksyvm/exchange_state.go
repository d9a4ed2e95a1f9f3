// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	errExchangeWrongVersion = errors.New("wrong exchange record version")

	_ ExchangeState = (*exchangeState)(nil)
)

type ExchangeState interface {
	GetExchange(exchangeID ids.ID) (*Exchange, error)
	PutExchange(exchange *Exchange) error
}

type exchangeState struct {
	exchangeDB database.Database
}

func NewExchangeState(db database.Database) ExchangeState {
	return &exchangeState{
		exchangeDB: db,
	}
}

func (s *exchangeState) GetExchange(exchangeID ids.ID) (*Exchange, error) {
	exchangeBytes, err := s.exchangeDB.Get(exchangeID[:])
	if err != nil {
		return nil, err
	}

	exchange := &Exchange{}
	parsedVersion, err := Codec.Unmarshal(exchangeBytes, exchange)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errExchangeWrongVersion
	}

	exchange.id = exchangeID
	return exchange, nil
}

func (s *exchangeState) PutExchange(exchange *Exchange) error {
	bytes, err := Codec.Marshal(CodecVersion, exchange)
	if err != nil {
		return err
	}
	return s.exchangeDB.Put(exchange.id[:], bytes)
}
