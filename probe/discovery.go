// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package probe

import (
	"fmt"
	"net"
)

// LookupFunc is the signature of the DNS lookup function.
type LookupFunc func(host string) ([]net.IP, error)

// SeedAddrs resolves a DNS seed to the concrete TCP addresses to probe, all
// on the given port.  A seed that is already a literal IP address is returned
// directly without consulting the lookup function.
func SeedAddrs(seed string, port uint16, lookupFn LookupFunc) ([]*net.TCPAddr, error) {
	if ip := net.ParseIP(seed); ip != nil {
		return []*net.TCPAddr{{IP: ip, Port: int(port)}}, nil
	}

	ips, err := lookupFn(seed)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no addresses found for seed %s", seed)
	}

	addrs := make([]*net.TCPAddr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, &net.TCPAddr{IP: ip, Port: int(port)})
	}
	log.Infof("%d addresses found from DNS seed %s", len(addrs), seed)

	return addrs, nil
}
