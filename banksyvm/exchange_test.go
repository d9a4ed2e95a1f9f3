// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/assert"
)

func TestCreateExchange(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	exchange, err := vm.CreateExchange(seller, item, 10, currency, 40)
	assert.NoError(err)
	assert.Equal(seller, exchange.Seller)
	assert.Equal(uint64(40), exchange.Price)
	assert.True(exchange.Ongoing)
	assert.Equal(BalanceAddress(seller, currency), exchange.CurrencyReceiver)

	// The item moved out of the seller's account into escrow
	assert.Zero(balanceOf(t, vm, seller, item))
	holder, err := vm.getBalance(exchange.ItemHolder)
	assert.NoError(err)
	assert.Equal(uint64(10), holder.Amount)
	assert.True(holder.Escrow)
}

func TestCreateExchangeFailures(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	_, err := vm.CreateExchange(seller, ids.ID{9, 9}, 1, currency, 1)
	assert.ErrorIs(err, ErrAssetNotFound)

	_, err = vm.CreateExchange(seller, item, 1, ids.ID{9, 9}, 1)
	assert.ErrorIs(err, ErrAssetNotFound)

	_, err = vm.CreateExchange(seller, item, 11, currency, 1)
	assert.ErrorIs(err, ErrInsufficientFunds)
}

func TestProcessExchange(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	exchange, err := vm.CreateExchange(seller, item, 10, currency, 40)
	assert.NoError(err)

	done, err := vm.ProcessExchange(exchange.ID(), bidder1, currency)
	assert.NoError(err)
	assert.Equal(bidder1, done.Buyer)
	assert.False(done.Ongoing)

	// The buyer paid the price and took the whole escrowed amount
	assert.Equal(uint64(60), balanceOf(t, vm, bidder1, currency))
	assert.Equal(uint64(10), balanceOf(t, vm, bidder1, item))
	assert.Equal(uint64(40), balanceOf(t, vm, seller, currency))

	holder, err := vm.getBalance(exchange.ItemHolder)
	assert.NoError(err)
	assert.Zero(holder.Amount)
}

func TestProcessExchangeOnce(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	exchange, err := vm.CreateExchange(seller, item, 10, currency, 40)
	assert.NoError(err)

	_, err = vm.ProcessExchange(exchange.ID(), bidder1, currency)
	assert.NoError(err)

	// The second buyer finds a closed record and pays nothing
	_, err = vm.ProcessExchange(exchange.ID(), bidder2, currency)
	assert.ErrorIs(err, ErrAlreadyClosed)
	assert.Equal(uint64(100), balanceOf(t, vm, bidder2, currency))
	assert.Equal(uint64(40), balanceOf(t, vm, seller, currency))
}

func TestProcessExchangeFailures(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	other, err := vm.CreateAsset(creator, "ipfs://othermoney", 1000)
	assert.NoError(err)
	assert.NoError(vm.Distribute(other.ID(), bidder1, 100, creator))

	exchange, err := vm.CreateExchange(seller, item, 10, currency, 40)
	assert.NoError(err)

	_, err = vm.ProcessExchange(ids.ID{9, 9}, bidder1, currency)
	assert.ErrorIs(err, ErrExchangeNotFound)

	// Unlike an auction bid, paying in the wrong currency here is a hard
	// failure: the price is quoted in exactly one asset
	_, err = vm.ProcessExchange(exchange.ID(), bidder1, other.ID())
	assert.ErrorIs(err, ErrWrongCurrency)

	// A buyer with no currency account at all
	_, err = vm.ProcessExchange(exchange.ID(), ids.ShortID{9, 9}, currency)
	assert.ErrorIs(err, ErrAccountNotFound)

	// And a buyer who cannot cover the price
	assert.NoError(vm.Distribute(other.ID(), creator, 100, creator))
	expensive, err := vm.CreateExchange(creator, other.ID(), 100, currency, 500)
	assert.NoError(err)
	_, err = vm.ProcessExchange(expensive.ID(), bidder1, currency)
	assert.ErrorIs(err, ErrInsufficientFunds)

	// None of that moved anything
	assert.Equal(uint64(100), balanceOf(t, vm, bidder1, currency))
	stored, err := vm.GetExchange(exchange.ID())
	assert.NoError(err)
	assert.True(stored.Ongoing)
}

func TestCreateExchangeWhileOpen(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	first, err := vm.CreateExchange(seller, item, 5, currency, 40)
	assert.NoError(err)

	// The (item, seller) escrow still holds the first deposit
	_, err = vm.CreateExchange(seller, item, 5, currency, 40)
	assert.ErrorIs(err, ErrExchangeOpen)
	assert.Equal(uint64(5), balanceOf(t, vm, seller, item))

	// Settling the first frees the pair for a new exchange
	_, err = vm.ProcessExchange(first.ID(), bidder1, currency)
	assert.NoError(err)
	second, err := vm.CreateExchange(seller, item, 5, currency, 40)
	assert.NoError(err)
	assert.True(second.Ongoing)
}

func TestConcurrentExchangesPerSeller(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	other, err := vm.CreateAsset(seller, "ipfs://otheritem", 5)
	assert.NoError(err)
	assert.NoError(vm.Distribute(other.ID(), seller, 5, seller))

	// Escrow authorities are keyed by (item, seller), so one seller can
	// run both sales side by side
	first, err := vm.CreateExchange(seller, item, 10, currency, 40)
	assert.NoError(err)
	second, err := vm.CreateExchange(seller, other.ID(), 5, currency, 20)
	assert.NoError(err)
	assert.NotEqual(first.ItemHolder, second.ItemHolder)

	_, err = vm.ProcessExchange(first.ID(), bidder1, currency)
	assert.NoError(err)
	_, err = vm.ProcessExchange(second.ID(), bidder2, currency)
	assert.NoError(err)

	assert.Equal(uint64(10), balanceOf(t, vm, bidder1, item))
	assert.Equal(uint64(5), balanceOf(t, vm, bidder2, other.ID()))
	assert.Equal(uint64(60), balanceOf(t, vm, seller, currency))
}
