// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// CreateAsset mints a new supply-capped asset record owned by
// [authority]. The full supply starts as undistributed remaining supply.
// The authority's associated balance account is created alongside so the
// creator is immediately addressable.
func (vm *VM) CreateAsset(authority ids.ShortID, uri string, supply uint64) (*Asset, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	asset, err := vm.createAsset(authority, uri, supply)
	if err != nil {
		return nil, err
	}
	if err := vm.commit("banksy.createAsset"); err != nil {
		return nil, err
	}
	vm.log.Info("created asset",
		"asset", asset.id,
		"authority", authority,
		"supply", supply,
	)
	return asset, nil
}

// createAsset holds the uncommitted creation logic shared with genesis
// initialization.
func (vm *VM) createAsset(authority ids.ShortID, uri string, supply uint64) (*Asset, error) {
	if supply == 0 {
		return nil, ErrZeroSupply
	}
	if len(uri) > MaxURILen {
		return nil, ErrURITooLong
	}

	seq, err := vm.state.NextSequence()
	if err != nil {
		return nil, err
	}
	asset := &Asset{
		Authority: authority,
		Supply:    supply,
		Remaining: supply,
		URI:       uri,

		id: AssetID(authority, uri, seq),
	}
	if err := vm.state.PutAsset(asset); err != nil {
		return nil, fmt.Errorf("failed to put asset %s: %w", asset.id, err)
	}
	if _, err := vm.getOrCreateBalance(authority, asset.id, false); err != nil {
		return nil, err
	}
	return asset, nil
}

// CreateBalanceAccount returns the associated balance account for
// (owner, asset), creating it with a zero amount on first use. Calling it
// again for the same pair returns the existing account unchanged.
func (vm *VM) CreateBalanceAccount(owner ids.ShortID, asset ids.ID) (*Balance, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	if _, err := vm.getAsset(asset); err != nil {
		return nil, err
	}
	balance, err := vm.getOrCreateBalance(owner, asset, false)
	if err != nil {
		return nil, err
	}
	if err := vm.commit("banksy.createUser"); err != nil {
		return nil, err
	}
	return balance, nil
}

// Distribute moves [amount] from [asset]'s remaining supply to the
// destination owner's associated account. Only the asset's creating
// authority may distribute, and the remaining supply bounds the amount.
// The emitted event carries the zero account as its origin.
func (vm *VM) Distribute(
	asset ids.ID,
	destination ids.ShortID,
	amount uint64,
	authority ids.ShortID,
) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	record, err := vm.getAsset(asset)
	if err != nil {
		return err
	}
	if authority != record.Authority {
		return ErrUnauthorized
	}
	if amount > record.Remaining {
		return ErrSupplyExceeded
	}

	dest, err := vm.getOrCreateBalance(destination, asset, false)
	if err != nil {
		return err
	}
	event, err := vm.recordTransfer(nil, dest, amount)
	if err != nil {
		return err
	}

	record.Remaining -= amount
	if err := vm.state.PutAsset(record); err != nil {
		return fmt.Errorf("failed to put asset %s: %w", record.id, err)
	}

	if err := vm.commit("banksy.distTo", event); err != nil {
		return err
	}
	vm.log.Info("distributed asset",
		"asset", asset,
		"to", destination,
		"amount", amount,
		"remaining", record.Remaining,
	)
	return nil
}

// Transfer moves [amount] of [asset] between the associated accounts of
// [from] and [to]. [authority] must be the controlling authority of the
// source account, and escrow-held accounts cannot be debited here at all;
// only the owning program's settlement paths may move them.
func (vm *VM) Transfer(
	asset ids.ID,
	from ids.ShortID,
	to ids.ShortID,
	amount uint64,
	authority ids.ShortID,
) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	source, err := vm.getBalance(BalanceAddress(from, asset))
	if err != nil {
		return err
	}
	if source.Escrow {
		return ErrEscrowAccount
	}
	if authority != source.Authority {
		return ErrUnauthorized
	}

	dest, err := vm.getOrCreateBalance(to, asset, false)
	if err != nil {
		return err
	}
	event, err := vm.recordTransfer(source, dest, amount)
	if err != nil {
		return err
	}

	return vm.commit("banksy.transfer", event)
}

// GetAsset returns the asset record for [assetID].
func (vm *VM) GetAsset(assetID ids.ID) (*Asset, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.getAsset(assetID)
}

// GetBalance returns the associated balance account for (owner, asset).
func (vm *VM) GetBalance(owner ids.ShortID, asset ids.ID) (*Balance, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.getBalance(BalanceAddress(owner, asset))
}

// GetEvents returns up to [limit] committed transfer events starting at
// sequence number [start].
func (vm *VM) GetEvents(start uint64, limit int) ([]*TransferEvent, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.state.GetEvents(start, limit)
}

// Subscribe registers an in-process subscriber for committed transfer
// events. The cancel func must be called when done.
func (vm *VM) Subscribe() (<-chan *TransferEvent, func()) {
	return vm.bus.Subscribe()
}

func (vm *VM) getAsset(assetID ids.ID) (*Asset, error) {
	asset, err := vm.state.GetAsset(assetID)
	if err != nil {
		return nil, ErrAssetNotFound
	}
	return asset, nil
}

func (vm *VM) getBalance(address ids.ID) (*Balance, error) {
	balance, err := vm.state.GetBalance(address)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	return balance, nil
}

// getOrCreateBalance implements the associated-account pattern: the
// address is a pure function of (owner, asset), so repeated calls are
// idempotent and the account is created lazily on first use.
func (vm *VM) getOrCreateBalance(owner ids.ShortID, asset ids.ID, escrow bool) (*Balance, error) {
	address := BalanceAddress(owner, asset)
	balance, err := vm.state.GetBalance(address)
	if err == nil {
		return balance, nil
	}

	balance = &Balance{
		Asset:     asset,
		Authority: owner,
		Escrow:    escrow,

		address: address,
	}
	if err := vm.state.PutBalance(balance); err != nil {
		return nil, fmt.Errorf("failed to put balance account %s: %w", address, err)
	}
	return balance, nil
}

// recordTransfer debits [from], credits [to], persists both accounts, and
// appends a transfer event to the log, all within the open transaction,
// so a failure anywhere leaves no partial movement behind. A nil [from]
// records a distribution from remaining supply.
func (vm *VM) recordTransfer(from, to *Balance, amount uint64) (*TransferEvent, error) {
	event := &TransferEvent{
		Asset:       to.Asset,
		To:          to.Address(),
		ToAuthority: to.Authority,
		Amount:      amount,
		Timestamp:   vm.clock.Time().Unix(),
	}

	if from != nil {
		if from.Amount < amount {
			return nil, ErrInsufficientFunds
		}
		// A self-transfer nets to zero; recording the event without
		// touching the amount avoids double-applying to one account.
		if from.Address() == to.Address() {
			event.From = from.Address()
			event.FromAuthority = from.Authority
			if err := vm.state.AddEvent(event); err != nil {
				return nil, fmt.Errorf("failed to append transfer event: %w", err)
			}
			return event, nil
		}
		from.Amount -= amount
		if err := vm.state.PutBalance(from); err != nil {
			return nil, fmt.Errorf("failed to put balance account %s: %w", from.Address(), err)
		}
		event.From = from.Address()
		event.FromAuthority = from.Authority
	}

	if to.Amount+amount < to.Amount {
		return nil, ErrAmountOverflow
	}
	to.Amount += amount
	if err := vm.state.PutBalance(to); err != nil {
		return nil, fmt.Errorf("failed to put balance account %s: %w", to.Address(), err)
	}

	if err := vm.state.AddEvent(event); err != nil {
		return nil, fmt.Errorf("failed to append transfer event: %w", err)
	}
	return event, nil
}
