// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLogPaging(t *testing.T) {
	assert := assert.New(t)
	vm := newTestVM(t)

	asset, err := vm.CreateAsset(creator, "ipfs://banksy", 100)
	assert.NoError(err)
	for i := 0; i < 5; i++ {
		assert.NoError(vm.Distribute(asset.ID(), bidder1, 1, creator))
	}

	events, err := vm.GetEvents(0, 3)
	assert.NoError(err)
	assert.Len(events, 3)
	assert.Equal(uint64(0), events[0].Seq)
	assert.Equal(uint64(2), events[2].Seq)

	events, err = vm.GetEvents(3, 10)
	assert.NoError(err)
	assert.Len(events, 2)
	assert.Equal(uint64(3), events[0].Seq)
	assert.Equal(uint64(4), events[1].Seq)

	events, err = vm.GetEvents(5, 10)
	assert.NoError(err)
	assert.Empty(events)

	count, err := vm.state.EventCount()
	assert.NoError(err)
	assert.Equal(uint64(5), count)
}

func TestSubscribe(t *testing.T) {
	assert := assert.New(t)
	vm := newTestVM(t)

	asset, err := vm.CreateAsset(creator, "ipfs://banksy", 100)
	assert.NoError(err)

	ch, cancel := vm.Subscribe()
	defer cancel()

	assert.NoError(vm.Distribute(asset.ID(), bidder1, 25, creator))

	select {
	case event := <-ch:
		assert.True(event.Mint())
		assert.Equal(uint64(25), event.Amount)
	default:
		assert.FailNow("should have received the distribution event")
	}

	// A failed instruction publishes nothing
	err = vm.Distribute(asset.ID(), bidder1, 1000, creator)
	assert.ErrorIs(err, ErrSupplyExceeded)
	select {
	case <-ch:
		assert.FailNow("aborted instruction must not publish")
	default:
	}
}

func TestSubscribeCancel(t *testing.T) {
	assert := assert.New(t)
	vm := newTestVM(t)

	asset, err := vm.CreateAsset(creator, "ipfs://banksy", 100)
	assert.NoError(err)

	ch, cancel := vm.Subscribe()
	cancel()
	// Cancelling twice is safe
	cancel()

	assert.NoError(vm.Distribute(asset.ID(), bidder1, 25, creator))

	// The channel is closed and receives nothing further
	_, open := <-ch
	assert.False(open)
}

func TestBidEventsRefundAtomically(t *testing.T) {
	assert := assert.New(t)
	vm, item, currency := newMarketVM(t)

	auction, err := vm.CreateAuction(seller, item, 10, 10, currency)
	assert.NoError(err)
	_, err = vm.ProcessBid(auction.ID(), bidder1, 11, currency)
	assert.NoError(err)

	ch, cancel := vm.Subscribe()
	defer cancel()

	// A displacing bid publishes the deposit and the refund together
	_, err = vm.ProcessBid(auction.ID(), bidder2, 15, currency)
	assert.NoError(err)

	deposit := <-ch
	assert.Equal(uint64(15), deposit.Amount)
	assert.Equal(bidder2, deposit.FromAuthority)

	refund := <-ch
	assert.Equal(uint64(11), refund.Amount)
	assert.Equal(bidder1, refund.ToAuthority)
}
