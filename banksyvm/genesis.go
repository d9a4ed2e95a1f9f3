// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// GenesisAsset declares an asset minted on first boot.
type GenesisAsset struct {
	Authority ids.ShortID `json:"authority"`
	URI       string      `json:"uri"`
	Supply    uint64      `json:"supply"`
}

// Genesis is the operator-authored initial state document.
type Genesis struct {
	Assets []GenesisAsset `json:"assets"`
}

// ParseGenesis decodes [genesisBytes]. Empty bytes yield an empty
// genesis: a ledger with no pre-minted assets is valid.
func ParseGenesis(genesisBytes []byte) (*Genesis, error) {
	genesis := &Genesis{}
	if len(genesisBytes) == 0 {
		return genesis, nil
	}
	if err := json.Unmarshal(genesisBytes, genesis); err != nil {
		return nil, fmt.Errorf("invalid genesis document: %w", err)
	}
	for i, alloc := range genesis.Assets {
		if alloc.Supply == 0 {
			return nil, fmt.Errorf("genesis asset %d: %w", i, ErrZeroSupply)
		}
		if len(alloc.URI) > MaxURILen {
			return nil, fmt.Errorf("genesis asset %d: %w", i, ErrURITooLong)
		}
	}
	return genesis, nil
}
