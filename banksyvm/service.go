// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"net/http"

	"github.com/gorilla/rpc/v2"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/ids"
	avajson "github.com/ava-labs/avalanchego/utils/json"
)

// CreateHandler returns the HTTP handler exposing the instruction
// surface. The ledger, auction, and exchange programs register as
// separate services so callers address them the way the original
// programs were addressed: banksy.*, auction.*, exchange.*.
func (vm *VM) CreateHandler() (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(avajson.NewCodec(), "application/json")
	server.RegisterCodec(avajson.NewCodec(), "application/json;charset=UTF-8")

	if err := server.RegisterService(&LedgerService{vm: vm}, "banksy"); err != nil {
		return nil, err
	}
	if err := server.RegisterService(&AuctionService{vm: vm}, "auction"); err != nil {
		return nil, err
	}
	if err := server.RegisterService(&ExchangeService{vm: vm}, "exchange"); err != nil {
		return nil, err
	}
	return server, nil
}

// LedgerService is the API service for the asset ledger program.
type LedgerService struct{ vm *VM }

type CreateAssetArgs struct {
	Authority ids.ShortID    `json:"authority"`
	URI       string         `json:"uri"`
	Supply    avajson.Uint64 `json:"supply"`
}

type CreateAssetReply struct {
	AssetID ids.ID `json:"assetID"`
}

// CreateAsset mints a new asset record.
func (s *LedgerService) CreateAsset(_ *http.Request, args *CreateAssetArgs, reply *CreateAssetReply) error {
	asset, err := s.vm.CreateAsset(args.Authority, args.URI, uint64(args.Supply))
	if err != nil {
		return err
	}
	reply.AssetID = asset.ID()
	return nil
}

type CreateUserArgs struct {
	Owner ids.ShortID `json:"owner"`
	Asset ids.ID      `json:"asset"`
}

type CreateUserReply struct {
	Address ids.ID         `json:"address"`
	Amount  avajson.Uint64 `json:"amount"`
}

// CreateUser returns the associated balance account for (owner, asset),
// creating it on first use.
func (s *LedgerService) CreateUser(_ *http.Request, args *CreateUserArgs, reply *CreateUserReply) error {
	balance, err := s.vm.CreateBalanceAccount(args.Owner, args.Asset)
	if err != nil {
		return err
	}
	reply.Address = balance.Address()
	reply.Amount = avajson.Uint64(balance.Amount)
	return nil
}

type DistToArgs struct {
	Asset     ids.ID         `json:"asset"`
	To        ids.ShortID    `json:"to"`
	Amount    avajson.Uint64 `json:"amount"`
	Authority ids.ShortID    `json:"authority"`
}

// DistTo distributes remaining supply to an owner's associated account.
func (s *LedgerService) DistTo(_ *http.Request, args *DistToArgs, reply *api.EmptyReply) error {
	return s.vm.Distribute(args.Asset, args.To, uint64(args.Amount), args.Authority)
}

type TransferArgs struct {
	Asset     ids.ID         `json:"asset"`
	From      ids.ShortID    `json:"from"`
	To        ids.ShortID    `json:"to"`
	Amount    avajson.Uint64 `json:"amount"`
	Authority ids.ShortID    `json:"authority"`
}

// Transfer moves balance between associated accounts.
func (s *LedgerService) Transfer(_ *http.Request, args *TransferArgs, reply *api.EmptyReply) error {
	return s.vm.Transfer(args.Asset, args.From, args.To, uint64(args.Amount), args.Authority)
}

type GetAssetArgs struct {
	Asset ids.ID `json:"asset"`
}

type GetAssetReply struct {
	Authority ids.ShortID    `json:"authority"`
	Supply    avajson.Uint64 `json:"supply"`
	Remaining avajson.Uint64 `json:"remaining"`
	URI       string         `json:"uri"`
}

// GetAsset fetches an asset record.
func (s *LedgerService) GetAsset(_ *http.Request, args *GetAssetArgs, reply *GetAssetReply) error {
	asset, err := s.vm.GetAsset(args.Asset)
	if err != nil {
		return err
	}
	reply.Authority = asset.Authority
	reply.Supply = avajson.Uint64(asset.Supply)
	reply.Remaining = avajson.Uint64(asset.Remaining)
	reply.URI = asset.URI
	return nil
}

type GetBalanceArgs struct {
	Owner ids.ShortID `json:"owner"`
	Asset ids.ID      `json:"asset"`
}

type GetBalanceReply struct {
	Address ids.ID         `json:"address"`
	Amount  avajson.Uint64 `json:"amount"`
	Escrow  bool           `json:"escrow"`
}

// GetBalance fetches the associated balance account for (owner, asset).
func (s *LedgerService) GetBalance(_ *http.Request, args *GetBalanceArgs, reply *GetBalanceReply) error {
	balance, err := s.vm.GetBalance(args.Owner, args.Asset)
	if err != nil {
		return err
	}
	reply.Address = balance.Address()
	reply.Amount = avajson.Uint64(balance.Amount)
	reply.Escrow = balance.Escrow
	return nil
}

type GetEventsArgs struct {
	Start avajson.Uint64 `json:"start"`
	Limit avajson.Uint64 `json:"limit"`
}

type GetEventsReply struct {
	Events []*TransferEvent `json:"events"`
}

// GetEvents pages through the committed transfer event log.
func (s *LedgerService) GetEvents(_ *http.Request, args *GetEventsArgs, reply *GetEventsReply) error {
	events, err := s.vm.GetEvents(uint64(args.Start), int(args.Limit))
	if err != nil {
		return err
	}
	reply.Events = events
	return nil
}

// AuctionService is the API service for the auction program.
type AuctionService struct{ vm *VM }

type CreateAuctionArgs struct {
	Seller     ids.ShortID    `json:"seller"`
	Item       ids.ID         `json:"item"`
	ItemAmount avajson.Uint64 `json:"itemAmount"`
	Price      avajson.Uint64 `json:"price"`
	// Currency optionally pins the payment asset; omit to accept the
	// currency of the first bid.
	Currency ids.ID `json:"currency"`
}

type CreateAuctionReply struct {
	AuctionID  ids.ID `json:"auctionID"`
	ItemHolder ids.ID `json:"itemHolder"`
}

// Create opens an auction, depositing the item into escrow.
func (s *AuctionService) Create(_ *http.Request, args *CreateAuctionArgs, reply *CreateAuctionReply) error {
	auction, err := s.vm.CreateAuction(args.Seller, args.Item, uint64(args.ItemAmount), uint64(args.Price), args.Currency)
	if err != nil {
		return err
	}
	reply.AuctionID = auction.ID()
	reply.ItemHolder = auction.ItemHolder
	return nil
}

type BidArgs struct {
	Auction  ids.ID         `json:"auction"`
	Bidder   ids.ShortID    `json:"bidder"`
	Amount   avajson.Uint64 `json:"amount"`
	Currency ids.ID         `json:"currency"`
}

type BidReply struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// Bid submits a bid. A losing bid (too low, or the wrong currency for a
// pinned auction) is reported as not accepted rather than as an error,
// matching the business-rule/fatal split callers expect: only hard
// failures surface as RPC errors.
func (s *AuctionService) Bid(_ *http.Request, args *BidArgs, reply *BidReply) error {
	_, err := s.vm.ProcessBid(args.Auction, args.Bidder, uint64(args.Amount), args.Currency)
	switch {
	case err == nil:
		reply.Accepted = true
		return nil
	case Rejected(err):
		reply.Reason = err.Error()
		return nil
	default:
		return err
	}
}

type CloseAuctionArgs struct {
	Auction ids.ID      `json:"auction"`
	Seller  ids.ShortID `json:"seller"`
}

// Close settles and terminates an auction.
func (s *AuctionService) Close(_ *http.Request, args *CloseAuctionArgs, reply *api.EmptyReply) error {
	_, err := s.vm.CloseAuction(args.Auction, args.Seller)
	return err
}

type GetAuctionArgs struct {
	Auction ids.ID `json:"auction"`
}

type GetAuctionReply struct {
	Seller      ids.ShortID    `json:"seller"`
	Bidder      ids.ShortID    `json:"bidder"`
	Item        ids.ID         `json:"item"`
	ItemHolder  ids.ID         `json:"itemHolder"`
	ItemAmount  avajson.Uint64 `json:"itemAmount"`
	Currency    ids.ID         `json:"currency"`
	MoneyHolder ids.ID         `json:"moneyHolder"`
	MoneyRefund ids.ID         `json:"moneyRefund"`
	Price       avajson.Uint64 `json:"price"`
	Amount      avajson.Uint64 `json:"amount"`
	Ongoing     bool           `json:"ongoing"`
	NoBid       bool           `json:"noBid"`
}

// Get fetches an auction record.
func (s *AuctionService) Get(_ *http.Request, args *GetAuctionArgs, reply *GetAuctionReply) error {
	auction, err := s.vm.GetAuction(args.Auction)
	if err != nil {
		return err
	}
	reply.Seller = auction.Seller
	reply.Bidder = auction.Bidder
	reply.Item = auction.Item
	reply.ItemHolder = auction.ItemHolder
	reply.ItemAmount = avajson.Uint64(auction.ItemAmount)
	reply.Currency = auction.Currency
	reply.MoneyHolder = auction.MoneyHolder
	reply.MoneyRefund = auction.MoneyRefund
	reply.Price = avajson.Uint64(auction.Price)
	reply.Amount = avajson.Uint64(auction.Amount)
	reply.Ongoing = auction.Ongoing
	reply.NoBid = auction.NoBid
	return nil
}

// ExchangeService is the API service for the exchange program.
type ExchangeService struct{ vm *VM }

type CreateExchangeArgs struct {
	Seller     ids.ShortID    `json:"seller"`
	Item       ids.ID         `json:"item"`
	ItemAmount avajson.Uint64 `json:"itemAmount"`
	Currency   ids.ID         `json:"currency"`
	Price      avajson.Uint64 `json:"price"`
}

type CreateExchangeReply struct {
	ExchangeID ids.ID `json:"exchangeID"`
	ItemHolder ids.ID `json:"itemHolder"`
}

// Create opens a fixed-price exchange, depositing the item into escrow.
func (s *ExchangeService) Create(_ *http.Request, args *CreateExchangeArgs, reply *CreateExchangeReply) error {
	exchange, err := s.vm.CreateExchange(args.Seller, args.Item, uint64(args.ItemAmount), args.Currency, uint64(args.Price))
	if err != nil {
		return err
	}
	reply.ExchangeID = exchange.ID()
	reply.ItemHolder = exchange.ItemHolder
	return nil
}

type ProcessExchangeArgs struct {
	Exchange ids.ID      `json:"exchange"`
	Buyer    ids.ShortID `json:"buyer"`
	Currency ids.ID      `json:"currency"`
}

// Process executes the trade exactly once.
func (s *ExchangeService) Process(_ *http.Request, args *ProcessExchangeArgs, reply *api.EmptyReply) error {
	_, err := s.vm.ProcessExchange(args.Exchange, args.Buyer, args.Currency)
	return err
}

type GetExchangeArgs struct {
	Exchange ids.ID `json:"exchange"`
}

type GetExchangeReply struct {
	Seller           ids.ShortID    `json:"seller"`
	Buyer            ids.ShortID    `json:"buyer"`
	Item             ids.ID         `json:"item"`
	Currency         ids.ID         `json:"currency"`
	ItemHolder       ids.ID         `json:"itemHolder"`
	CurrencyReceiver ids.ID         `json:"currencyReceiver"`
	Price            avajson.Uint64 `json:"price"`
	Ongoing          bool           `json:"ongoing"`
}

// Get fetches an exchange record.
func (s *ExchangeService) Get(_ *http.Request, args *GetExchangeArgs, reply *GetExchangeReply) error {
	exchange, err := s.vm.GetExchange(args.Exchange)
	if err != nil {
		return err
	}
	reply.Seller = exchange.Seller
	reply.Buyer = exchange.Buyer
	reply.Item = exchange.Item
	reply.Currency = exchange.Currency
	reply.ItemHolder = exchange.ItemHolder
	reply.CurrencyReceiver = exchange.CurrencyReceiver
	reply.Price = avajson.Uint64(exchange.Price)
	reply.Ongoing = exchange.Ongoing
	return nil
}
