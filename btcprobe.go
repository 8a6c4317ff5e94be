// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"net"
	"os"

	"github.com/btcsuite/btcprobe/probe"
	"github.com/btcsuite/btcprobe/wire"
)

// btcprobeMain is the real main function for btcprobe.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func btcprobeMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging.
	cfg, remainingArgs, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	btcpLog.Infof("Version %s", version())

	// Any remaining command line arguments are the DNS seeds to resolve.
	// Fall back to the builtin seeds for the active network.
	seeds := remainingArgs
	if len(seeds) == 0 {
		seeds = activeNetParams.dnsSeeds
	}
	if len(seeds) == 0 {
		err := errors.New("no DNS seeds for the active network -- " +
			"provide a seed host as an argument")
		btcpLog.Errorf("%v", err)
		return err
	}

	// A single resolution pass up front.  Individual seed failures are
	// reported but don't abort the run as long as something resolved.
	var targets []*net.TCPAddr
	for _, seed := range seeds {
		addrs, err := probe.SeedAddrs(seed, cfg.Port, cfg.lookup)
		if err != nil {
			btcpLog.Errorf("Unable to resolve seed %s: %v", seed, err)
			continue
		}
		targets = append(targets, addrs...)
	}
	if len(targets) == 0 {
		err := errors.New("no target addresses to probe")
		btcpLog.Errorf("%v", err)
		return err
	}

	btcpLog.Infof("Starting handshakes with %d addresses on %s",
		len(targets), activeNetParams.name)

	prober := probe.New(&probe.Config{
		Net:              activeNetParams.net,
		Services:         wire.SFNodeNetwork,
		UserAgentName:    "btcprobe",
		UserAgentVersion: version(),
		Timeout:          cfg.Timeout,
		Dial:             cfg.dial,
	})
	results := prober.Run(targets)

	// Report each connection individually so a batch of N targets always
	// produces a definite outcome for all N.
	for _, r := range results {
		switch r.Outcome {
		case probe.OutcomeSuccess:
			btcpLog.Debugf("%s: handshake succeeded", r.Addr)
		case probe.OutcomePartial:
			btcpLog.Warnf("%s: handshake partially succeeded", r.Addr)
		default:
			btcpLog.Errorf("%s: handshake failed: %v", r.Addr, r.Err)
		}
	}

	btcpLog.Infof("Finished: %v", probe.Summarize(results))
	return nil
}

func main() {
	if err := btcprobeMain(); err != nil {
		os.Exit(1)
	}
}
