// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"sync"

	"github.com/ava-labs/avalanchego/ids"
)

const defaultSubscriptionBuffer = 64

// TransferEvent records a single balance movement. Distributions from an
// asset's remaining supply carry the zero account and zero authority as
// their origin.
type TransferEvent struct {
	Seq           uint64      `serialize:"true" json:"seq"`
	Asset         ids.ID      `serialize:"true" json:"asset"`
	From          ids.ID      `serialize:"true" json:"from"`
	To            ids.ID      `serialize:"true" json:"to"`
	FromAuthority ids.ShortID `serialize:"true" json:"fromAuthority"`
	ToAuthority   ids.ShortID `serialize:"true" json:"toAuthority"`
	Amount        uint64      `serialize:"true" json:"amount"`
	Timestamp     int64       `serialize:"true" json:"timestamp"`
}

// Mint reports whether this event originated from a distribution rather
// than an account-to-account transfer.
func (e *TransferEvent) Mint() bool { return e.From == ids.Empty }

// eventBus fans committed transfer events out to in-process subscribers.
// Delivery is best effort: a subscriber that falls behind misses events
// rather than blocking the ledger.
type eventBus struct {
	lock sync.Mutex
	subs map[chan *TransferEvent]struct{}
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[chan *TransferEvent]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called when the subscriber is done.
func (b *eventBus) Subscribe() (<-chan *TransferEvent, func()) {
	ch := make(chan *TransferEvent, defaultSubscriptionBuffer)

	b.lock.Lock()
	b.subs[ch] = struct{}{}
	b.lock.Unlock()

	cancel := func() {
		b.lock.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.lock.Unlock()
	}
	return ch, cancel
}

// Publish delivers [events] to every subscriber. Called only after the
// owning instruction has committed.
func (b *eventBus) Publish(events []*TransferEvent) {
	b.lock.Lock()
	defer b.lock.Unlock()

	for _, evt := range events {
		for ch := range b.subs {
			select {
			case ch <- evt:
			default:
			}
		}
	}
}
