// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"github.com/ava-labs/avalanchego/ids"
)

// MaxURILen bounds the metadata location stored on an asset record.
const MaxURILen = 128

// Asset is a supply-capped asset record. [Supply] and [URI] are immutable
// after creation; [Remaining] is decremented by distributions and never
// goes below zero.
type Asset struct {
	Authority ids.ShortID `serialize:"true" json:"authority"`
	Supply    uint64      `serialize:"true" json:"supply"`
	Remaining uint64      `serialize:"true" json:"remaining"`
	URI       string      `serialize:"true" json:"uri"`

	id ids.ID // hold this record's derived identity
}

// ID returns the derived identity of this asset.
func (a *Asset) ID() ids.ID { return a.id }

// Balance is an associated balance account: one per (authority, asset)
// pair, addressed by BalanceAddress. Escrow accounts are owned by a
// program-derived authority and cannot be debited by the public transfer
// instruction.
type Balance struct {
	Asset     ids.ID      `serialize:"true" json:"asset"`
	Authority ids.ShortID `serialize:"true" json:"authority"`
	Amount    uint64      `serialize:"true" json:"amount"`
	Escrow    bool        `serialize:"true" json:"escrow"`

	address ids.ID
}

// Address returns the derived address of this balance account.
func (b *Balance) Address() ids.ID { return b.address }
