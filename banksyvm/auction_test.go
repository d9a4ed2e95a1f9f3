// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/assert"
)

func TestCreateAuction(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)
	assert.Equal(seller, auction.Seller)
	assert.Equal(seller, auction.Bidder)
	assert.Equal(uint64(10), auction.ItemAmount)
	assert.Equal(uint64(10), auction.Price)
	assert.Zero(auction.Amount)
	assert.True(auction.Ongoing)
	assert.True(auction.NoBid)

	// The item moved out of the seller's account into escrow
	assert.Zero(balanceOf(t, vm, seller, item))
	holder, err := vm.getBalance(auction.ItemHolder)
	assert.NoError(err)
	assert.Equal(uint64(10), holder.Amount)
	assert.True(holder.Escrow)
}

func TestCreateAuctionFailures(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	_, err := vm.CreateAuction(seller, ids.ID{9, 9}, 1, 1, currency)
	assert.ErrorIs(err, ErrAssetNotFound)

	_, err = vm.CreateAuction(seller, item, 1, 1, ids.ID{9, 9})
	assert.ErrorIs(err, ErrAssetNotFound)

	// The bidders hold no item, so they have no account to deposit from
	_, err = vm.CreateAuction(bidder1, item, 1, 1, currency)
	assert.ErrorIs(err, ErrAccountNotFound)

	// And the seller cannot escrow more than it holds
	_, err = vm.CreateAuction(seller, item, 11, 1, currency)
	assert.ErrorIs(err, ErrInsufficientFunds)
}

func TestProcessBid(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)

	// First bid above the reserve is accepted
	updated, err := vm.ProcessBid(auction.ID(), bidder1, 11, currency)
	assert.NoError(err)
	assert.Equal(bidder1, updated.Bidder)
	assert.Equal(uint64(11), updated.Amount)
	assert.False(updated.NoBid)

	assert.Equal(uint64(89), balanceOf(t, vm, bidder1, currency))
	money, err := vm.getBalance(updated.MoneyHolder)
	assert.NoError(err)
	assert.Equal(uint64(11), money.Amount)

	// A tie loses and moves nothing
	_, err = vm.ProcessBid(auction.ID(), bidder2, 11, currency)
	assert.ErrorIs(err, ErrBidTooLow)
	assert.True(Rejected(err))
	assert.Equal(uint64(100), balanceOf(t, vm, bidder2, currency))

	// A higher bid displaces and refunds the standing bidder in full
	updated, err = vm.ProcessBid(auction.ID(), bidder2, 15, currency)
	assert.NoError(err)
	assert.Equal(bidder2, updated.Bidder)
	assert.Equal(uint64(15), updated.Amount)

	assert.Equal(uint64(100), balanceOf(t, vm, bidder1, currency))
	assert.Equal(uint64(85), balanceOf(t, vm, bidder2, currency))
	money, err = vm.getBalance(updated.MoneyHolder)
	assert.NoError(err)
	assert.Equal(uint64(15), money.Amount)
}

func TestProcessBidReserve(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)

	// Below the reserve is rejected
	_, err = vm.ProcessBid(auction.ID(), bidder1, 9, currency)
	assert.ErrorIs(err, ErrBidTooLow)
	assert.Equal(uint64(100), balanceOf(t, vm, bidder1, currency))

	// Exactly the reserve is the lowest acceptable first bid
	updated, err := vm.ProcessBid(auction.ID(), bidder1, 10, currency)
	assert.NoError(err)
	assert.Equal(uint64(10), updated.Amount)
	assert.Equal(uint64(90), balanceOf(t, vm, bidder1, currency))
}

func TestProcessBidWrongCurrency(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	other, err := vm.CreateAsset(creator, "ipfs://othermoney", 1000)
	assert.NoError(err)
	assert.NoError(vm.Distribute(other.ID(), bidder1, 100, creator))

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)

	// A bid in the wrong currency is rejected before any account is read
	_, err = vm.ProcessBid(auction.ID(), bidder1, 50, other.ID())
	assert.ErrorIs(err, ErrWrongCurrency)
	assert.True(Rejected(err))
	assert.Equal(uint64(100), balanceOf(t, vm, bidder1, other.ID()))

	stored, err := vm.GetAuction(auction.ID())
	assert.NoError(err)
	assert.True(stored.NoBid)
	assert.Zero(stored.Amount)
}

func TestProcessBidOpenCurrency(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	other, err := vm.CreateAsset(creator, "ipfs://othermoney", 1000)
	assert.NoError(err)
	assert.NoError(vm.Distribute(other.ID(), bidder2, 100, creator))

	// No pinned currency: the first accepted bid decides
	auction, err := vm.CreateAuction(seller, item, 10, 10, ids.Empty)
	assert.NoError(err)
	assert.Equal(ids.Empty, auction.Currency)

	updated, err := vm.ProcessBid(auction.ID(), bidder1, 11, currency)
	assert.NoError(err)
	assert.Equal(currency, updated.Currency)

	// From then on every other currency is rejected
	_, err = vm.ProcessBid(auction.ID(), bidder2, 50, other.ID())
	assert.ErrorIs(err, ErrWrongCurrency)
	assert.Equal(uint64(100), balanceOf(t, vm, bidder2, other.ID()))
}

func TestProcessBidHardFailures(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)

	_, err = vm.ProcessBid(ids.ID{9, 9}, bidder1, 11, currency)
	assert.ErrorIs(err, ErrAuctionNotFound)
	assert.False(Rejected(err))

	// Insufficient funds is a hard failure, not a polite rejection
	_, err = vm.ProcessBid(auction.ID(), bidder1, 101, currency)
	assert.ErrorIs(err, ErrInsufficientFunds)
	assert.False(Rejected(err))

	// So is bidding from an account that does not exist
	_, err = vm.ProcessBid(auction.ID(), ids.ShortID{9, 9}, 11, currency)
	assert.ErrorIs(err, ErrAccountNotFound)
}

func TestCloseAuction(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)
	_, err = vm.ProcessBid(auction.ID(), bidder1, 11, currency)
	assert.NoError(err)

	// Only the seller may close
	_, err = vm.CloseAuction(auction.ID(), bidder1)
	assert.ErrorIs(err, ErrUnauthorized)

	closed, err := vm.CloseAuction(auction.ID(), seller)
	assert.NoError(err)
	assert.False(closed.Ongoing)
	assert.Equal(bidder1, closed.Bidder)

	// The winner holds the item, the seller holds the winning bid
	assert.Equal(uint64(10), balanceOf(t, vm, bidder1, item))
	assert.Equal(uint64(11), balanceOf(t, vm, seller, currency))

	// Closing twice fails and moves nothing
	_, err = vm.CloseAuction(auction.ID(), seller)
	assert.ErrorIs(err, ErrAlreadyClosed)
	assert.Equal(uint64(10), balanceOf(t, vm, bidder1, item))

	// Bidding after close fails too
	_, err = vm.ProcessBid(auction.ID(), bidder2, 50, currency)
	assert.ErrorIs(err, ErrAlreadyClosed)
	assert.Equal(uint64(100), balanceOf(t, vm, bidder2, currency))
}

func TestCloseAuctionNoBid(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)
	assert.Zero(balanceOf(t, vm, seller, item))

	closed, err := vm.CloseAuction(auction.ID(), seller)
	assert.NoError(err)
	assert.False(closed.Ongoing)
	assert.True(closed.NoBid)

	// The escrowed item went back to the seller
	assert.Equal(uint64(10), balanceOf(t, vm, seller, item))
	holder, err := vm.getBalance(auction.ItemHolder)
	assert.NoError(err)
	assert.Zero(holder.Amount)
}

func TestAuctionSameAssetCurrency(t *testing.T) {
	assert := assert.New(t)
	vm := newTestVM(t)

	asset, err := vm.CreateAsset(creator, "ipfs://coin", 1000)
	assert.NoError(err)
	coin := asset.ID()
	assert.NoError(vm.Distribute(coin, seller, 10, creator))
	assert.NoError(vm.Distribute(coin, bidder1, 100, creator))

	// Item and currency are the same asset, so the item holder and money
	// holder are one escrow account
	auction, err := vm.CreateAuction(seller, coin, 10, 10, coin)
	assert.NoError(err)
	assert.Equal(auction.ItemHolder, auction.MoneyHolder)
	assert.Zero(balanceOf(t, vm, seller, coin))

	_, err = vm.ProcessBid(auction.ID(), bidder1, 11, coin)
	assert.NoError(err)
	assert.Equal(uint64(89), balanceOf(t, vm, bidder1, coin))

	holder, err := vm.getBalance(auction.ItemHolder)
	assert.NoError(err)
	assert.Equal(uint64(21), holder.Amount)

	_, err = vm.CloseAuction(auction.ID(), seller)
	assert.NoError(err)

	// The winner takes exactly the deposited items and the seller exactly
	// the winning bid out of the commingled balance
	assert.Equal(uint64(99), balanceOf(t, vm, bidder1, coin))
	assert.Equal(uint64(11), balanceOf(t, vm, seller, coin))

	holder, err = vm.getBalance(auction.ItemHolder)
	assert.NoError(err)
	assert.Zero(holder.Amount)
}

func TestConcurrentAuctionsPerSeller(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	first, err := vm.CreateAuction(seller, item, 5, 10, currency)
	assert.NoError(err)
	second, err := vm.CreateAuction(seller, item, 5, 10, currency)
	assert.NoError(err)

	// Escrow authorities are per auction, so the two deposits never share
	// an account
	assert.NotEqual(first.ItemHolder, second.ItemHolder)

	_, err = vm.ProcessBid(first.ID(), bidder1, 11, currency)
	assert.NoError(err)
	closed, err := vm.CloseAuction(first.ID(), seller)
	assert.NoError(err)
	assert.False(closed.NoBid)

	// The first winner takes only the first auction's deposit
	assert.Equal(uint64(5), balanceOf(t, vm, bidder1, item))
	assert.Equal(uint64(11), balanceOf(t, vm, seller, currency))

	// And the second auction can still return its own escrow in full
	_, err = vm.CloseAuction(second.ID(), seller)
	assert.NoError(err)
	assert.Equal(uint64(5), balanceOf(t, vm, seller, item))
}

func TestGetAuction(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)

	stored, err := vm.GetAuction(auction.ID())
	assert.NoError(err)
	assert.Equal(auction.ID(), stored.ID())
	assert.Equal(auction.ItemHolder, stored.ItemHolder)

	_, err = vm.GetAuction(ids.ID{9, 9})
	assert.ErrorIs(err, ErrAuctionNotFound)
}
