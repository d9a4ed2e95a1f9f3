// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// Auction is a sealed escrow sale that accepts strictly increasing bids
// and refunds the displaced bidder atomically on each acceptance.
//
// Lifecycle: created with the item deposited into a seller-derived escrow
// holder, bid on while [Ongoing], and closed exactly once. [Bidder] starts
// as the seller and [Amount] as zero until the first accepted bid clears
// [NoBid].
type Auction struct {
	Seller      ids.ShortID `serialize:"true" json:"seller"`
	Bidder      ids.ShortID `serialize:"true" json:"bidder"`
	Item        ids.ID      `serialize:"true" json:"item"`
	ItemHolder  ids.ID      `serialize:"true" json:"itemHolder"`
	ItemAmount  uint64      `serialize:"true" json:"itemAmount"`
	Currency    ids.ID      `serialize:"true" json:"currency"`
	MoneyHolder ids.ID      `serialize:"true" json:"moneyHolder"`
	MoneyRefund ids.ID      `serialize:"true" json:"moneyRefund"`
	Price       uint64      `serialize:"true" json:"price"`
	Amount      uint64      `serialize:"true" json:"amount"`
	Ongoing     bool        `serialize:"true" json:"ongoing"`
	NoBid       bool        `serialize:"true" json:"noBid"`

	id ids.ID
}

// ID returns the derived identity of this auction record.
func (a *Auction) ID() ids.ID { return a.id }

// CreateAuction deposits [itemAmount] of [item] from [seller] into a
// seller-derived escrow holder and opens an auction with reserve [price].
// A zero [currency] leaves the payment asset unpinned until the first
// accepted bid.
func (vm *VM) CreateAuction(
	seller ids.ShortID,
	item ids.ID,
	itemAmount uint64,
	price uint64,
	currency ids.ID,
) (*Auction, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	if _, err := vm.getAsset(item); err != nil {
		return nil, err
	}
	if currency != ids.Empty {
		if _, err := vm.getAsset(currency); err != nil {
			return nil, err
		}
	}

	source, err := vm.getBalance(BalanceAddress(seller, item))
	if err != nil {
		return nil, err
	}
	if source.Authority != seller {
		return nil, ErrUnauthorized
	}

	seq, err := vm.state.NextSequence()
	if err != nil {
		return nil, err
	}
	auctionID := AuctionID(seller, seq)

	escrowAuth := AuctionEscrowAuthority(auctionID)
	holder, err := vm.getOrCreateBalance(escrowAuth, item, true)
	if err != nil {
		return nil, err
	}

	deposit, err := vm.recordTransfer(source, holder, itemAmount)
	if err != nil {
		return nil, err
	}

	auction := &Auction{
		Seller:     seller,
		Bidder:     seller, // bidder's initial value is the seller
		Item:       item,
		ItemHolder: holder.Address(),
		ItemAmount: itemAmount,
		Currency:   currency,
		Price:      price,
		Ongoing:    true,
		NoBid:      true,

		id: auctionID,
	}
	if currency != ids.Empty {
		money, err := vm.getOrCreateBalance(escrowAuth, currency, true)
		if err != nil {
			return nil, err
		}
		auction.MoneyHolder = money.Address()
	}
	if err := vm.state.PutAuction(auction); err != nil {
		return nil, fmt.Errorf("failed to put auction %s: %w", auction.id, err)
	}

	if err := vm.commit("auction.create", deposit); err != nil {
		return nil, err
	}
	vm.log.Info("created auction",
		"auction", auction.id,
		"seller", seller,
		"item", item,
		"amount", itemAmount,
		"price", price,
	)
	return auction, nil
}

// ProcessBid attempts a bid of [amount] in [currency] by [bidder], paid
// from the bidder's associated (bidder, currency) account. An accepted bid
// debits the bidder, credits the escrow money holder, and refunds the
// displaced bidder in full. Rejections (ErrBidTooLow, ErrWrongCurrency)
// leave every record untouched; callers may treat them as non-fatal.
func (vm *VM) ProcessBid(
	auctionID ids.ID,
	bidder ids.ShortID,
	amount uint64,
	currency ids.ID,
) (*Auction, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	auction, err := vm.getAuction(auctionID)
	if err != nil {
		return nil, err
	}
	if !auction.Ongoing {
		return nil, ErrAlreadyClosed
	}
	if auction.Currency != ids.Empty && currency != auction.Currency {
		return nil, ErrWrongCurrency
	}
	// A bid must meet the reserve and strictly beat the standing bid.
	// Ties lose.
	if amount < auction.Price || amount <= auction.Amount {
		return nil, ErrBidTooLow
	}

	source, err := vm.getBalance(BalanceAddress(bidder, currency))
	if err != nil {
		return nil, err
	}
	if source.Authority != bidder {
		return nil, ErrUnauthorized
	}
	if source.Amount < amount {
		return nil, ErrInsufficientFunds
	}

	escrowAuth := AuctionEscrowAuthority(auction.id)
	holder, err := vm.getOrCreateBalance(escrowAuth, currency, true)
	if err != nil {
		return nil, err
	}

	events := make([]*TransferEvent, 0, 2)
	deposit, err := vm.recordTransfer(source, holder, amount)
	if err != nil {
		return nil, err
	}
	events = append(events, deposit)

	if !auction.NoBid {
		refundTo, err := vm.getBalance(auction.MoneyRefund)
		if err != nil {
			return nil, err
		}
		refund, err := vm.recordTransfer(holder, refundTo, auction.Amount)
		if err != nil {
			return nil, err
		}
		events = append(events, refund)
	}

	auction.Bidder = bidder
	auction.Amount = amount
	auction.NoBid = false
	auction.Currency = currency // first accepted bid pins an open currency
	auction.MoneyHolder = holder.Address()
	auction.MoneyRefund = source.Address()
	if err := vm.state.PutAuction(auction); err != nil {
		return nil, fmt.Errorf("failed to put auction %s: %w", auction.id, err)
	}

	if err := vm.commit("auction.bid", events...); err != nil {
		return nil, err
	}
	vm.log.Info("accepted bid",
		"auction", auction.id,
		"bidder", bidder,
		"amount", amount,
	)
	return auction, nil
}

// CloseAuction settles and irreversibly terminates an auction. With no
// accepted bid the escrowed item returns to the seller; otherwise the
// deposited item amount goes to the winning bidder and the winning bid to
// the seller. Settlement moves the recorded amounts, never whole holder
// balances: when item and currency are the same asset the two holders are
// one account. A second close fails with ErrAlreadyClosed and moves
// nothing.
func (vm *VM) CloseAuction(auctionID ids.ID, seller ids.ShortID) (*Auction, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	auction, err := vm.getAuction(auctionID)
	if err != nil {
		return nil, err
	}
	if !auction.Ongoing {
		return nil, ErrAlreadyClosed
	}
	if seller != auction.Seller {
		return nil, ErrUnauthorized
	}

	holder, err := vm.getBalance(auction.ItemHolder)
	if err != nil {
		return nil, err
	}

	var events []*TransferEvent
	if auction.NoBid {
		back, err := vm.getOrCreateBalance(auction.Seller, auction.Item, false)
		if err != nil {
			return nil, err
		}
		returned, err := vm.recordTransfer(holder, back, auction.ItemAmount)
		if err != nil {
			return nil, err
		}
		events = append(events, returned)
	} else {
		won, err := vm.getOrCreateBalance(auction.Bidder, auction.Item, false)
		if err != nil {
			return nil, err
		}
		item, err := vm.recordTransfer(holder, won, auction.ItemAmount)
		if err != nil {
			return nil, err
		}
		events = append(events, item)

		money, err := vm.getBalance(auction.MoneyHolder)
		if err != nil {
			return nil, err
		}
		proceeds, err := vm.getOrCreateBalance(auction.Seller, auction.Currency, false)
		if err != nil {
			return nil, err
		}
		payout, err := vm.recordTransfer(money, proceeds, auction.Amount)
		if err != nil {
			return nil, err
		}
		events = append(events, payout)
	}

	auction.Ongoing = false
	if err := vm.state.PutAuction(auction); err != nil {
		return nil, fmt.Errorf("failed to put auction %s: %w", auction.id, err)
	}

	if err := vm.commit("auction.close", events...); err != nil {
		return nil, err
	}
	vm.log.Info("closed auction",
		"auction", auction.id,
		"winner", auction.Bidder,
		"noBid", auction.NoBid,
	)
	return auction, nil
}

// GetAuction returns the auction record for [auctionID].
func (vm *VM) GetAuction(auctionID ids.ID) (*Auction, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.getAuction(auctionID)
}

func (vm *VM) getAuction(auctionID ids.ID) (*Auction, error) {
	auction, err := vm.state.GetAuction(auctionID)
	if err != nil {
		return nil, ErrAuctionNotFound
	}
	return auction, nil
}
