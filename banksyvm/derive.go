// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// Derivation seeds. Each record family hashes under its own tag so that
// addresses from different families can never collide.
var (
	assetSeed       = []byte("banksy/asset")
	balanceSeed     = []byte("banksy/balance")
	auctionSeed     = []byte("auction/record")
	auctionAuthSeed = []byte("auction/escrow")
	exchangeSeed    = []byte("exchange/record")
	exchAuthSeed    = []byte("exchange/escrow")
)

func deriveID(tag []byte, parts ...[]byte) ids.ID {
	seed := make([]byte, 0, 64)
	seed = append(seed, tag...)
	for _, part := range parts {
		seed = append(seed, part...)
	}
	return hashing.ComputeHash256Array(seed)
}

// deriveAuthority computes a program-derived authority: a deterministic
// identity with no corresponding key, used as the owner of escrow-held
// balance accounts.
func deriveAuthority(tag []byte, parts ...[]byte) ids.ShortID {
	seed := make([]byte, 0, 64)
	seed = append(seed, tag...)
	for _, part := range parts {
		seed = append(seed, part...)
	}
	return hashing.ComputeHash160Array(hashing.ComputeHash256(seed))
}

func sequenceBytes(seq uint64) []byte {
	b := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

// AssetID derives the identity of an asset created by [authority] with
// metadata [uri] as the [seq]'th record on this ledger.
func AssetID(authority ids.ShortID, uri string, seq uint64) ids.ID {
	return deriveID(assetSeed, authority.Bytes(), []byte(uri), sequenceBytes(seq))
}

// BalanceAddress derives the associated balance account address for
// (owner, asset). Same inputs always yield the same address, which is what
// lets callers locate accounts without a side index.
func BalanceAddress(owner ids.ShortID, asset ids.ID) ids.ID {
	return deriveID(balanceSeed, owner.Bytes(), asset[:])
}

// AuctionID derives the identity of the [seq]'th auction record.
func AuctionID(seller ids.ShortID, seq uint64) ids.ID {
	return deriveID(auctionSeed, seller.Bytes(), sequenceBytes(seq))
}

// AuctionEscrowAuthority derives the authority controlling one auction's
// escrow holders. Keyed by the auction record itself so that concurrent
// auctions by the same seller never share a holder account.
func AuctionEscrowAuthority(auction ids.ID) ids.ShortID {
	return deriveAuthority(auctionAuthSeed, auction[:])
}

// ExchangeID derives the identity of the [seq]'th exchange record.
func ExchangeID(seller ids.ShortID, item ids.ID, seq uint64) ids.ID {
	return deriveID(exchangeSeed, seller.Bytes(), item[:], sequenceBytes(seq))
}

// ExchangeEscrowAuthority derives the authority controlling the escrow
// holder for (item, seller). Keying on both lets one seller run concurrent
// exchanges for different items.
func ExchangeEscrowAuthority(item ids.ID, seller ids.ShortID) ids.ShortID {
	return deriveAuthority(exchAuthSeed, item[:], seller.Bytes())
}
