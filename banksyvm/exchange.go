// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// Exchange is a fixed-price, single-shot escrow sale: the seller deposits
// the item up front, any buyer may execute the trade once, and the record
// is permanently closed afterwards.
type Exchange struct {
	Seller           ids.ShortID `serialize:"true" json:"seller"`
	Buyer            ids.ShortID `serialize:"true" json:"buyer"`
	Item             ids.ID      `serialize:"true" json:"item"`
	Currency         ids.ID      `serialize:"true" json:"currency"`
	ItemHolder       ids.ID      `serialize:"true" json:"itemHolder"`
	CurrencyReceiver ids.ID      `serialize:"true" json:"currencyReceiver"`
	Price            uint64      `serialize:"true" json:"price"`
	Ongoing          bool        `serialize:"true" json:"ongoing"`

	id ids.ID
}

// ID returns the derived identity of this exchange record.
func (e *Exchange) ID() ids.ID { return e.id }

// CreateExchange deposits [itemAmount] of [item] into an escrow holder
// derived from (item, seller) and opens a sale at [price] units of
// [currency]. Deriving the escrow from both item and seller lets one
// seller run concurrent exchanges for different items.
func (vm *VM) CreateExchange(
	seller ids.ShortID,
	item ids.ID,
	itemAmount uint64,
	currency ids.ID,
	price uint64,
) (*Exchange, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	if _, err := vm.getAsset(item); err != nil {
		return nil, err
	}
	if _, err := vm.getAsset(currency); err != nil {
		return nil, err
	}

	source, err := vm.getBalance(BalanceAddress(seller, item))
	if err != nil {
		return nil, err
	}
	if source.Authority != seller {
		return nil, ErrUnauthorized
	}

	escrowAuth := ExchangeEscrowAuthority(item, seller)
	holder, err := vm.getOrCreateBalance(escrowAuth, item, true)
	if err != nil {
		return nil, err
	}
	// The holder is shared by (item, seller), and settlement delivers its
	// full balance. A leftover amount means another exchange for this pair
	// is still open.
	if holder.Amount != 0 {
		return nil, ErrExchangeOpen
	}
	deposit, err := vm.recordTransfer(source, holder, itemAmount)
	if err != nil {
		return nil, err
	}

	receiver, err := vm.getOrCreateBalance(seller, currency, false)
	if err != nil {
		return nil, err
	}

	seq, err := vm.state.NextSequence()
	if err != nil {
		return nil, err
	}
	exchange := &Exchange{
		Seller:           seller,
		Item:             item,
		Currency:         currency,
		ItemHolder:       holder.Address(),
		CurrencyReceiver: receiver.Address(),
		Price:            price,
		Ongoing:          true,

		id: ExchangeID(seller, item, seq),
	}
	if err := vm.state.PutExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to put exchange %s: %w", exchange.id, err)
	}

	if err := vm.commit("exchange.create", deposit); err != nil {
		return nil, err
	}
	vm.log.Info("created exchange",
		"exchange", exchange.id,
		"seller", seller,
		"item", item,
		"amount", itemAmount,
		"price", price,
	)
	return exchange, nil
}

// ProcessExchange executes the trade exactly once: it debits the buyer's
// (buyer, currency) account by the price, credits the seller's recorded
// currency receiver, hands the full escrowed item amount to the buyer, and
// closes the record. Any later call fails with ErrAlreadyClosed.
func (vm *VM) ProcessExchange(
	exchangeID ids.ID,
	buyer ids.ShortID,
	currency ids.ID,
) (*Exchange, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	exchange, err := vm.getExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if !exchange.Ongoing {
		return nil, ErrAlreadyClosed
	}
	if currency != exchange.Currency {
		return nil, ErrWrongCurrency
	}

	payment, err := vm.getBalance(BalanceAddress(buyer, exchange.Currency))
	if err != nil {
		return nil, err
	}
	if payment.Authority != buyer {
		return nil, ErrUnauthorized
	}
	if payment.Amount < exchange.Price {
		return nil, ErrInsufficientFunds
	}

	receiver, err := vm.getBalance(exchange.CurrencyReceiver)
	if err != nil {
		return nil, err
	}
	paid, err := vm.recordTransfer(payment, receiver, exchange.Price)
	if err != nil {
		return nil, err
	}

	holder, err := vm.getBalance(exchange.ItemHolder)
	if err != nil {
		return nil, err
	}
	won, err := vm.getOrCreateBalance(buyer, exchange.Item, false)
	if err != nil {
		return nil, err
	}
	delivered, err := vm.recordTransfer(holder, won, holder.Amount)
	if err != nil {
		return nil, err
	}

	exchange.Buyer = buyer
	exchange.Ongoing = false
	if err := vm.state.PutExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to put exchange %s: %w", exchange.id, err)
	}

	if err := vm.commit("exchange.process", paid, delivered); err != nil {
		return nil, err
	}
	vm.log.Info("processed exchange",
		"exchange", exchange.id,
		"buyer", buyer,
		"price", exchange.Price,
	)
	return exchange, nil
}

// GetExchange returns the exchange record for [exchangeID].
func (vm *VM) GetExchange(exchangeID ids.ID) (*Exchange, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.getExchange(exchangeID)
}

func (vm *VM) getExchange(exchangeID ids.ID) (*Exchange, error) {
	exchange, err := vm.state.GetExchange(exchangeID)
	if err != nil {
		return nil, ErrExchangeNotFound
	}
	return exchange, nil
}
