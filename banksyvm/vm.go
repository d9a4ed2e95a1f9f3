// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import (
	"fmt"
	"sync"

	log "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
)

const Name = "banksyvm"

// Version of the banksy ledger programs.
var Version = "v0.1.0"

// VM executes the banksy ledger, auction, and exchange programs over a
// persistent account store. Each exported instruction is a single
// synchronous state transition: it runs under the VM lock, stages its
// mutations in a version database, and either commits them all or aborts
// them all. Transfer events reach subscribers only after commit.
type VM struct {
	lock  sync.RWMutex
	clock mockable.Clock
	log   log.Logger

	state   State
	metrics *metrics
	bus     *eventBus
}

// Initialize the vm.
// [db] is this vm's database.
// [genesisBytes] optionally declares assets to mint on first boot; it is
// applied once, guarded by the initialized marker.
func (vm *VM) Initialize(db database.Database, genesisBytes []byte, registerer prometheus.Registerer) error {
	vm.log = log.New("module", Name)
	vm.log.Info("initializing banksy VM", "version", Version)

	vm.state = NewState(db)
	vm.bus = newEventBus()

	m, err := newMetrics(registerer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	vm.metrics = m

	return vm.initGenesis(genesisBytes)
}

func (vm *VM) initGenesis(genesisBytes []byte) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()
	defer vm.state.Abort()

	initialized, err := vm.state.IsInitialized()
	if err != nil {
		return fmt.Errorf("failed to read initialized state: %w", err)
	}
	if initialized {
		return nil
	}

	genesis, err := ParseGenesis(genesisBytes)
	if err != nil {
		return fmt.Errorf("failed to parse genesis: %w", err)
	}

	for _, alloc := range genesis.Assets {
		asset, err := vm.createAsset(alloc.Authority, alloc.URI, alloc.Supply)
		if err != nil {
			return fmt.Errorf("failed to create genesis asset %q: %w", alloc.URI, err)
		}
		vm.log.Info("created genesis asset",
			"asset", asset.ID(),
			"authority", alloc.Authority,
			"supply", alloc.Supply,
		)
	}

	if err := vm.state.SetInitialized(); err != nil {
		return fmt.Errorf("failed to set initialized state: %w", err)
	}
	return vm.state.Commit()
}

// Shutdown flushes nothing (committed state is already durable) and
// closes the underlying database.
func (vm *VM) Shutdown() error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.state.Close()
}

// commit flushes the pending instruction to the database and, only then,
// publishes its transfer events. Failed instructions never reach this
// point, so subscribers never observe an aborted mutation.
func (vm *VM) commit(op string, events ...*TransferEvent) error {
	if err := vm.state.Commit(); err != nil {
		vm.metrics.instructionFailed(op)
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}
	vm.metrics.instructionAccepted(op, len(events))
	vm.bus.Publish(events)
	return nil
}
