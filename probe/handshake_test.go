// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package probe

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcprobe/wire"
	"github.com/stretchr/testify/require"
)

// testCommandMsg is a minimal wire message with an arbitrary command and an
// empty payload.  It is used to simulate peers which reply with messages
// outside the supported command set.
type testCommandMsg struct {
	cmd string
}

func (m *testCommandMsg) BtcDecode(r io.Reader) error { return nil }
func (m *testCommandMsg) BtcEncode(w io.Writer) error { return nil }
func (m *testCommandMsg) Command() string             { return m.cmd }
func (m *testCommandMsg) MaxPayloadLength() uint32    { return 0 }

// testConfig returns a prober configuration suitable for in-memory and
// loopback connections.
func testConfig() *Config {
	return &Config{
		Net:              wire.SimNet,
		Services:         wire.SFNodeNetwork,
		UserAgentName:    "probetest",
		UserAgentVersion: "0.0.1",
		Timeout:          5 * time.Second,
	}
}

// remoteVersionMsg returns the version message a well-behaved remote peer
// would send in response to a probe.
func remoteVersionMsg(nonce uint64) *wire.MsgVersion {
	na := wire.NewNetAddressIPPort(net.ParseIP("127.0.0.1"), 18555,
		wire.SFNodeNetwork)
	return wire.NewMsgVersion(na, na, nonce, 0)
}

// runResponder consumes one message per script entry from conn and replies
// with whatever the entry returns.  A nil reply ends the script early.
func runResponder(t *testing.T, conn net.Conn,
	script []func(wire.Message) wire.Message) {

	t.Helper()
	go func() {
		defer conn.Close()
		r := bufio.NewReader(conn)
		for _, respond := range script {
			msg, _, err := wire.ReadMessage(r, wire.SimNet)
			if err != nil {
				return
			}
			reply := respond(msg)
			if reply == nil {
				return
			}
			err = wire.WriteMessage(conn, reply, wire.SimNet)
			if err != nil {
				return
			}
		}
	}()
}

// TestHandshakeSuccess ensures a compliant peer yields a success outcome.
func TestHandshakeSuccess(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	local.SetDeadline(time.Now().Add(5 * time.Second))

	runResponder(t, remote, []func(wire.Message) wire.Message{
		func(wire.Message) wire.Message {
			return remoteVersionMsg(42)
		},
		func(wire.Message) wire.Message {
			return wire.NewMsgVerAck()
		},
	})

	p := New(testConfig())
	outcome, err := p.Handshake(local)
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, outcome)
}

// TestHandshakeSelfConnection ensures a peer which echoes back a nonce this
// prober generated is classified as a connection to self.
func TestHandshakeSelfConnection(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	local.SetDeadline(time.Now().Add(5 * time.Second))

	runResponder(t, remote, []func(wire.Message) wire.Message{
		func(msg wire.Message) wire.Message {
			ver := msg.(*wire.MsgVersion)
			return remoteVersionMsg(ver.Nonce)
		},
	})

	p := New(testConfig())
	outcome, err := p.Handshake(local)
	require.ErrorIs(t, err, ErrSelfConnection)
	require.Equal(t, OutcomeFailed, outcome)
}

// TestHandshakeUnknownAck ensures an unrecognized command in place of the
// verack is tolerated as a partial success since the peer already proved it
// speaks the protocol via its version message.
func TestHandshakeUnknownAck(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	local.SetDeadline(time.Now().Add(5 * time.Second))

	runResponder(t, remote, []func(wire.Message) wire.Message{
		func(wire.Message) wire.Message {
			return remoteVersionMsg(42)
		},
		func(wire.Message) wire.Message {
			return &testCommandMsg{cmd: "bogus"}
		},
	})

	p := New(testConfig())
	outcome, err := p.Handshake(local)
	require.NoError(t, err)
	require.Equal(t, OutcomePartial, outcome)
}

// TestHandshakeUnknownVersion ensures an unrecognized command in place of the
// version announcement fails the handshake outright.
func TestHandshakeUnknownVersion(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	local.SetDeadline(time.Now().Add(5 * time.Second))

	runResponder(t, remote, []func(wire.Message) wire.Message{
		func(wire.Message) wire.Message {
			return &testCommandMsg{cmd: "bogus"}
		},
	})

	p := New(testConfig())
	outcome, err := p.Handshake(local)
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, outcome)
}

// TestHandshakeWrongVersionReply ensures a well-formed but mismatched reply to
// the version message fails the handshake since there is nothing to negotiate
// with.
func TestHandshakeWrongVersionReply(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	local.SetDeadline(time.Now().Add(5 * time.Second))

	runResponder(t, remote, []func(wire.Message) wire.Message{
		func(wire.Message) wire.Message {
			return wire.NewMsgVerAck()
		},
	})

	p := New(testConfig())
	outcome, err := p.Handshake(local)
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, outcome)
}

// TestHandshakeWrongAckReply ensures a well-formed but mismatched reply to the
// verack is tolerated as a partial success.
func TestHandshakeWrongAckReply(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	local.SetDeadline(time.Now().Add(5 * time.Second))

	runResponder(t, remote, []func(wire.Message) wire.Message{
		func(wire.Message) wire.Message {
			return remoteVersionMsg(42)
		},
		func(wire.Message) wire.Message {
			return remoteVersionMsg(43)
		},
	})

	p := New(testConfig())
	outcome, err := p.Handshake(local)
	require.NoError(t, err)
	require.Equal(t, OutcomePartial, outcome)
}

// TestHandshakeTruncatedReply ensures a peer which disconnects mid-message
// fails the handshake with an i/o error.
func TestHandshakeTruncatedReply(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	local.SetDeadline(time.Now().Add(5 * time.Second))

	go func() {
		defer remote.Close()
		r := bufio.NewReader(remote)
		_, _, err := wire.ReadMessage(r, wire.SimNet)
		if err != nil {
			return
		}
		remote.Write([]byte{0x16})
	}()

	p := New(testConfig())
	outcome, err := p.Handshake(local)
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, outcome)
}

// TestHandshakeUserAgentTooLong ensures an oversized configured user agent is
// rejected before anything is written to the connection.
func TestHandshakeUserAgentTooLong(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()

	cfg := testConfig()
	cfg.UserAgentName = strings.Repeat("a", wire.MaxUserAgentLen+1)
	p := New(cfg)
	outcome, err := p.Handshake(local)
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, outcome)
}
