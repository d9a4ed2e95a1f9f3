// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	errAssetWrongVersion = errors.New("wrong asset record version")

	_ AssetState = (*assetState)(nil)
)

type AssetState interface {
	GetAsset(assetID ids.ID) (*Asset, error)
	PutAsset(asset *Asset) error
}

type assetState struct {
	assetDB database.Database
}

func NewAssetState(db database.Database) AssetState {
	return &assetState{
		assetDB: db,
	}
}

func (s *assetState) GetAsset(assetID ids.ID) (*Asset, error) {
	assetBytes, err := s.assetDB.Get(assetID[:])
	if err != nil {
		return nil, err
	}

	asset := &Asset{}
	parsedVersion, err := Codec.Unmarshal(assetBytes, asset)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errAssetWrongVersion
	}

	asset.id = assetID
	return asset, nil
}

func (s *assetState) PutAsset(asset *Asset) error {
	bytes, err := Codec.Marshal(CodecVersion, asset)
	if err != nil {
		return err
	}
	return s.assetDB.Put(asset.id[:], bytes)
}
