// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/banksy-labs/banksyvm/banksyvm"
)

const (
	versionKey  = "version"
	dataDirKey  = "data-dir"
	httpAddrKey = "http-addr"
	genesisKey  = "genesis"
	logLevelKey = "log-level"
)

type config struct {
	version  bool
	dataDir  string
	httpAddr string
	genesis  string
	logLevel string
}

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(banksyvm.Name, flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and quits")
	fs.String(dataDirKey, "", "Directory for the account database; empty runs in memory")
	fs.String(httpAddrKey, ":9650", "Address the JSON-RPC server listens on")
	fs.String(genesisKey, "", "Path to a genesis document applied on first boot")
	fs.String(logLevelKey, "info", "Log level (debug, info, warn, error)")

	return fs
}

// getViper returns the viper environment for the daemon binary
func getViper() (*viper.Viper, error) {
	v := viper.New()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	return v, nil
}

func getConfig() (config, error) {
	v, err := getViper()
	if err != nil {
		return config{}, err
	}

	return config{
		version:  v.GetBool(versionKey),
		dataDir:  v.GetString(dataDirKey),
		httpAddr: v.GetString(httpAddrKey),
		genesis:  v.GetString(genesisKey),
		logLevel: v.GetString(logLevelKey),
	}, nil
}
