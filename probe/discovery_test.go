// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package probe

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSeedAddrs ensures DNS seeds resolve to one TCP address per returned IP,
// all on the requested port.
func TestSeedAddrs(t *testing.T) {
	ips := []net.IP{
		net.ParseIP("10.0.0.1"),
		net.ParseIP("2001:db8::1"),
	}
	lookup := func(host string) ([]net.IP, error) {
		require.Equal(t, "seed.example.com", host)
		return ips, nil
	}

	addrs, err := SeedAddrs("seed.example.com", 8333, lookup)
	require.NoError(t, err)
	require.Len(t, addrs, len(ips))
	for i, addr := range addrs {
		require.True(t, addr.IP.Equal(ips[i]))
		require.Equal(t, 8333, addr.Port)
	}
}

// TestSeedAddrsLiteralIP ensures a seed which is already an IP address is
// returned directly without consulting the resolver.
func TestSeedAddrsLiteralIP(t *testing.T) {
	called := false
	lookup := func(host string) ([]net.IP, error) {
		called = true
		return nil, nil
	}

	addrs, err := SeedAddrs("127.0.0.1", 18333, lookup)
	require.NoError(t, err)
	require.False(t, called)
	require.Len(t, addrs, 1)
	require.True(t, addrs[0].IP.Equal(net.ParseIP("127.0.0.1")))
	require.Equal(t, 18333, addrs[0].Port)
}

// TestSeedAddrsLookupError ensures resolver failures propagate to the caller.
func TestSeedAddrsLookupError(t *testing.T) {
	wantErr := errors.New("no such host")
	lookup := func(host string) ([]net.IP, error) {
		return nil, wantErr
	}

	_, err := SeedAddrs("seed.example.com", 8333, lookup)
	require.ErrorIs(t, err, wantErr)
}

// TestSeedAddrsNoResults ensures a seed which resolves to nothing is reported
// as an error instead of silently producing zero targets.
func TestSeedAddrsNoResults(t *testing.T) {
	lookup := func(host string) ([]net.IP, error) {
		return nil, nil
	}

	_, err := SeedAddrs("seed.example.com", 8333, lookup)
	require.Error(t, err)
}
