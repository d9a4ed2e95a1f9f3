// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/ids"
	avajson "github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/banksy-labs/banksyvm/banksyvm"
)

// Client defines banksyvm client operations.
type Client interface {
	// CreateAsset mints a new supply-capped asset
	CreateAsset(ctx context.Context, authority ids.ShortID, uri string, supply uint64) (ids.ID, error)

	// CreateBalanceAccount opens (or fetches) the associated account for
	// [owner] and [asset]
	CreateBalanceAccount(ctx context.Context, owner ids.ShortID, asset ids.ID) (ids.ID, uint64, error)

	// Distribute moves remaining supply of [asset] into [to]'s account
	Distribute(ctx context.Context, asset ids.ID, to ids.ShortID, amount uint64, authority ids.ShortID) error

	// Transfer moves [amount] of [asset] between associated accounts
	Transfer(ctx context.Context, asset ids.ID, from, to ids.ShortID, amount uint64, authority ids.ShortID) error

	// GetAsset fetches an asset record
	GetAsset(ctx context.Context, asset ids.ID) (*banksyvm.GetAssetReply, error)

	// GetBalance fetches the associated account for [owner] and [asset]
	GetBalance(ctx context.Context, owner ids.ShortID, asset ids.ID) (*banksyvm.GetBalanceReply, error)

	// GetEvents pages through the committed transfer event log
	GetEvents(ctx context.Context, start uint64, limit int) ([]*banksyvm.TransferEvent, error)

	// CreateAuction opens an auction for [itemAmount] of [item]
	CreateAuction(ctx context.Context, seller ids.ShortID, item ids.ID, itemAmount, price uint64, currency ids.ID) (ids.ID, error)

	// Bid submits a bid; a false reply means the bid was rejected by a
	// business rule and the auction is unchanged
	Bid(ctx context.Context, auction ids.ID, bidder ids.ShortID, amount uint64, currency ids.ID) (bool, string, error)

	// CloseAuction settles and terminates an auction
	CloseAuction(ctx context.Context, auction ids.ID, seller ids.ShortID) error

	// GetAuction fetches an auction record
	GetAuction(ctx context.Context, auction ids.ID) (*banksyvm.GetAuctionReply, error)

	// CreateExchange opens a fixed-price exchange for [itemAmount] of [item]
	CreateExchange(ctx context.Context, seller ids.ShortID, item ids.ID, itemAmount uint64, currency ids.ID, price uint64) (ids.ID, error)

	// ProcessExchange executes the trade exactly once
	ProcessExchange(ctx context.Context, exchange ids.ID, buyer ids.ShortID, currency ids.ID) error

	// GetExchange fetches an exchange record
	GetExchange(ctx context.Context, exchange ids.ID) (*banksyvm.GetExchangeReply, error)
}

// New creates a new client object.
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) CreateAsset(ctx context.Context, authority ids.ShortID, uri string, supply uint64) (ids.ID, error) {
	resp := new(banksyvm.CreateAssetReply)
	err := cli.req.SendRequest(ctx,
		"banksy.createAsset",
		&banksyvm.CreateAssetArgs{
			Authority: authority,
			URI:       uri,
			Supply:    avajson.Uint64(supply),
		},
		resp,
	)
	if err != nil {
		return ids.Empty, err
	}
	return resp.AssetID, nil
}

func (cli *client) CreateBalanceAccount(ctx context.Context, owner ids.ShortID, asset ids.ID) (ids.ID, uint64, error) {
	resp := new(banksyvm.CreateUserReply)
	err := cli.req.SendRequest(ctx,
		"banksy.createUser",
		&banksyvm.CreateUserArgs{Owner: owner, Asset: asset},
		resp,
	)
	if err != nil {
		return ids.Empty, 0, err
	}
	return resp.Address, uint64(resp.Amount), nil
}

func (cli *client) Distribute(ctx context.Context, asset ids.ID, to ids.ShortID, amount uint64, authority ids.ShortID) error {
	return cli.req.SendRequest(ctx,
		"banksy.distTo",
		&banksyvm.DistToArgs{
			Asset:     asset,
			To:        to,
			Amount:    avajson.Uint64(amount),
			Authority: authority,
		},
		&api.EmptyReply{},
	)
}

func (cli *client) Transfer(ctx context.Context, asset ids.ID, from, to ids.ShortID, amount uint64, authority ids.ShortID) error {
	return cli.req.SendRequest(ctx,
		"banksy.transfer",
		&banksyvm.TransferArgs{
			Asset:     asset,
			From:      from,
			To:        to,
			Amount:    avajson.Uint64(amount),
			Authority: authority,
		},
		&api.EmptyReply{},
	)
}

func (cli *client) GetAsset(ctx context.Context, asset ids.ID) (*banksyvm.GetAssetReply, error) {
	resp := new(banksyvm.GetAssetReply)
	err := cli.req.SendRequest(ctx,
		"banksy.getAsset",
		&banksyvm.GetAssetArgs{Asset: asset},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetBalance(ctx context.Context, owner ids.ShortID, asset ids.ID) (*banksyvm.GetBalanceReply, error) {
	resp := new(banksyvm.GetBalanceReply)
	err := cli.req.SendRequest(ctx,
		"banksy.getBalance",
		&banksyvm.GetBalanceArgs{Owner: owner, Asset: asset},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetEvents(ctx context.Context, start uint64, limit int) ([]*banksyvm.TransferEvent, error) {
	resp := new(banksyvm.GetEventsReply)
	err := cli.req.SendRequest(ctx,
		"banksy.getEvents",
		&banksyvm.GetEventsArgs{
			Start: avajson.Uint64(start),
			Limit: avajson.Uint64(limit),
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp.Events, nil
}

func (cli *client) CreateAuction(ctx context.Context, seller ids.ShortID, item ids.ID, itemAmount, price uint64, currency ids.ID) (ids.ID, error) {
	resp := new(banksyvm.CreateAuctionReply)
	err := cli.req.SendRequest(ctx,
		"auction.create",
		&banksyvm.CreateAuctionArgs{
			Seller:     seller,
			Item:       item,
			ItemAmount: avajson.Uint64(itemAmount),
			Price:      avajson.Uint64(price),
			Currency:   currency,
		},
		resp,
	)
	if err != nil {
		return ids.Empty, err
	}
	return resp.AuctionID, nil
}

func (cli *client) Bid(ctx context.Context, auction ids.ID, bidder ids.ShortID, amount uint64, currency ids.ID) (bool, string, error) {
	resp := new(banksyvm.BidReply)
	err := cli.req.SendRequest(ctx,
		"auction.bid",
		&banksyvm.BidArgs{
			Auction:  auction,
			Bidder:   bidder,
			Amount:   avajson.Uint64(amount),
			Currency: currency,
		},
		resp,
	)
	if err != nil {
		return false, "", err
	}
	return resp.Accepted, resp.Reason, nil
}

func (cli *client) CloseAuction(ctx context.Context, auction ids.ID, seller ids.ShortID) error {
	return cli.req.SendRequest(ctx,
		"auction.close",
		&banksyvm.CloseAuctionArgs{Auction: auction, Seller: seller},
		&api.EmptyReply{},
	)
}

func (cli *client) GetAuction(ctx context.Context, auction ids.ID) (*banksyvm.GetAuctionReply, error) {
	resp := new(banksyvm.GetAuctionReply)
	err := cli.req.SendRequest(ctx,
		"auction.get",
		&banksyvm.GetAuctionArgs{Auction: auction},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) CreateExchange(ctx context.Context, seller ids.ShortID, item ids.ID, itemAmount uint64, currency ids.ID, price uint64) (ids.ID, error) {
	resp := new(banksyvm.CreateExchangeReply)
	err := cli.req.SendRequest(ctx,
		"exchange.create",
		&banksyvm.CreateExchangeArgs{
			Seller:     seller,
			Item:       item,
			ItemAmount: avajson.Uint64(itemAmount),
			Currency:   currency,
			Price:      avajson.Uint64(price),
		},
		resp,
	)
	if err != nil {
		return ids.Empty, err
	}
	return resp.ExchangeID, nil
}

func (cli *client) ProcessExchange(ctx context.Context, exchange ids.ID, buyer ids.ShortID, currency ids.ID) error {
	return cli.req.SendRequest(ctx,
		"exchange.process",
		&banksyvm.ProcessExchangeArgs{
			Exchange: exchange,
			Buyer:    buyer,
			Currency: currency,
		},
		&api.EmptyReply{},
	)
}

func (cli *client) GetExchange(ctx context.Context, exchange ids.ID) (*banksyvm.GetExchangeReply, error) {
	resp := new(banksyvm.GetExchangeReply)
	err := cli.req.SendRequest(ctx,
		"exchange.get",
		&banksyvm.GetExchangeArgs{Exchange: exchange},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
