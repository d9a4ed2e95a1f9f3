// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/leveldb"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/banksy-labs/banksyvm/banksyvm"
)

func main() {
	cfg, err := getConfig()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if cfg.version {
		fmt.Printf("%s@%s\n", banksyvm.Name, banksyvm.Version)
		os.Exit(0)
	}

	if err := run(cfg); err != nil {
		fmt.Printf("daemon returned an error: %s\n", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	lvl, err := log.LvlFromString(cfg.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.logLevel, err)
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	registry := prometheus.NewRegistry()

	var db database.Database
	if cfg.dataDir == "" {
		log.Warn("no data directory given, running in memory")
		db = memdb.New()
	} else {
		db, err = leveldb.New(cfg.dataDir, nil, logging.NoLog{}, banksyvm.Name, registry)
		if err != nil {
			return fmt.Errorf("couldn't open database at %q: %w", cfg.dataDir, err)
		}
	}

	var genesisBytes []byte
	if cfg.genesis != "" {
		genesisBytes, err = os.ReadFile(cfg.genesis)
		if err != nil {
			return fmt.Errorf("couldn't read genesis at %q: %w", cfg.genesis, err)
		}
	}

	vm := &banksyvm.VM{}
	if err := vm.Initialize(db, genesisBytes, registry); err != nil {
		return fmt.Errorf("couldn't initialize vm: %w", err)
	}

	handler, err := vm.CreateHandler()
	if err != nil {
		return fmt.Errorf("couldn't create handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              cfg.httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving", "addr", cfg.httpAddr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		_ = vm.Shutdown()
		return err
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	return vm.Shutdown()
}
