// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	errAuctionWrongVersion = errors.New("wrong auction record version")

	_ AuctionState = (*auctionState)(nil)
)

type AuctionState interface {
	GetAuction(auctionID ids.ID) (*Auction, error)
	PutAuction(auction *Auction) error
}

type auctionState struct {
	auctionDB database.Database
}

func NewAuctionState(db database.Database) AuctionState {
	return &auctionState{
		auctionDB: db,
	}
}

func (s *auctionState) GetAuction(auctionID ids.ID) (*Auction, error) {
	auctionBytes, err := s.auctionDB.Get(auctionID[:])
	if err != nil {
		return nil, err
	}

	auction := &Auction{}
	parsedVersion, err := Codec.Unmarshal(auctionBytes, auction)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errAuctionWrongVersion
	}

	auction.id = auctionID
	return auction, nil
}

func (s *auctionState) PutAuction(auction *Auction) error {
	bytes, err := Codec.Marshal(CodecVersion, auction)
	if err != nil {
		return err
	}
	return s.auctionDB.Put(auction.id[:], bytes)
}
