// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

// These are prefixes for db keys.
// It's important to set different prefixes for each separate database
// object.
var (
	singletonStatePrefix = []byte("singleton")
	assetStatePrefix     = []byte("asset")
	balanceStatePrefix   = []byte("balance")
	auctionStatePrefix   = []byte("auction")
	exchangeStatePrefix  = []byte("exchange")
	eventStatePrefix     = []byte("event")

	_ State = (*state)(nil)
)

// State bundles the persistent record stores behind one transactional
// boundary: every instruction's mutations stay pending until Commit and
// disappear on Abort.
type State interface {
	SingletonState
	AssetState
	BalanceState
	AuctionState
	ExchangeState
	EventState

	Commit() error
	Abort()
	Close() error
}

type state struct {
	SingletonState
	AssetState
	BalanceState
	AuctionState
	ExchangeState
	EventState

	baseDB *versiondb.Database
}

func NewState(db database.Database) State {
	baseDB := versiondb.New(db)

	return &state{
		SingletonState: NewSingletonState(prefixdb.New(singletonStatePrefix, baseDB)),
		AssetState:     NewAssetState(prefixdb.New(assetStatePrefix, baseDB)),
		BalanceState:   NewBalanceState(prefixdb.New(balanceStatePrefix, baseDB)),
		AuctionState:   NewAuctionState(prefixdb.New(auctionStatePrefix, baseDB)),
		ExchangeState:  NewExchangeState(prefixdb.New(exchangeStatePrefix, baseDB)),
		EventState:     NewEventState(prefixdb.New(eventStatePrefix, baseDB)),
		baseDB:         baseDB,
	}
}

// Commit flushes pending operations to baseDB.
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort discards pending operations. A no-op when nothing is pending.
func (s *state) Abort() {
	s.baseDB.Abort()
}

// Close closes the underlying base database.
func (s *state) Close() error {
	return s.baseDB.Close()
}
