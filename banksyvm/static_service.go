// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/formatting"
)

// StaticService defines the stateless helpers for the banksy vm
type StaticService struct{}

// CreateStaticService ...
func CreateStaticService() *StaticService {
	return &StaticService{}
}

// BuildGenesisArgs are arguments for BuildGenesis
type BuildGenesisArgs struct {
	Assets   []GenesisAsset      `json:"assets"`
	Encoding formatting.Encoding `json:"encoding"`
}

// BuildGenesisReply is the reply from BuildGenesis
type BuildGenesisReply struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// BuildGenesis encodes a genesis document for the given allocations
func (ss *StaticService) BuildGenesis(_ *http.Request, args *BuildGenesisArgs, reply *BuildGenesisReply) error {
	genesisBytes, err := json.Marshal(&Genesis{Assets: args.Assets})
	if err != nil {
		return fmt.Errorf("couldn't marshal genesis: %w", err)
	}
	if _, err := ParseGenesis(genesisBytes); err != nil {
		return err
	}
	encoded, err := formatting.Encode(args.Encoding, genesisBytes)
	if err != nil {
		return fmt.Errorf("couldn't encode genesis as string: %w", err)
	}
	reply.Bytes = encoded
	reply.Encoding = args.Encoding
	return nil
}

// DecodeGenesisArgs are arguments for DecodeGenesis
type DecodeGenesisArgs struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// DecodeGenesisReply is the reply from DecodeGenesis
type DecodeGenesisReply struct {
	Genesis  *Genesis            `json:"genesis"`
	Encoding formatting.Encoding `json:"encoding"`
}

// DecodeGenesis returns the decoded genesis document
func (ss *StaticService) DecodeGenesis(_ *http.Request, args *DecodeGenesisArgs, reply *DecodeGenesisReply) error {
	genesisBytes, err := formatting.Decode(args.Encoding, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode genesis as string: %w", err)
	}
	genesis, err := ParseGenesis(genesisBytes)
	if err != nil {
		return err
	}
	reply.Genesis = genesis
	reply.Encoding = args.Encoding
	return nil
}
