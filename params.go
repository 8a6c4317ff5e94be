// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/btcsuite/btcprobe/wire"
)

// params is used to group parameters for the various networks the prober can
// speak on.
type params struct {
	name        string
	net         wire.BitcoinNet
	defaultPort uint16
	dnsSeeds    []string
}

// mainNetParams contains parameters specific to the main network.
var mainNetParams = params{
	name:        "mainnet",
	net:         wire.MainNet,
	defaultPort: 8333,
	dnsSeeds: []string{
		"seed.bitcoin.sipa.be",
		"dnsseed.bluematt.me",
		"seed.bitcoinstats.com",
		"seed.bitcoin.jonasschnelli.ch",
	},
}

// testNet3Params contains parameters specific to the test network (version 3).
var testNet3Params = params{
	name:        "testnet3",
	net:         wire.TestNet3,
	defaultPort: 18333,
	dnsSeeds: []string{
		"testnet-seed.bitcoin.jonasschnelli.ch",
		"seed.tbtc.petertodd.org",
	},
}

// simNetParams contains parameters specific to the simulation test network.
// There are no DNS seeds for simnet since it is not routable.
var simNetParams = params{
	name:        "simnet",
	net:         wire.SimNet,
	defaultPort: 18555,
}

// activeNetParams is a pointer to the parameters specific to the currently
// active bitcoin network.
var activeNetParams = &mainNetParams
