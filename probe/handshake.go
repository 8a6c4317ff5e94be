// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package probe

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/btcsuite/btcprobe/wire"
	"github.com/decred/dcrd/lru"
)

const (
	// maxKnownNonces is the maximum number of recently sent version nonces
	// to retain for self connection detection.
	maxKnownNonces = 50

	// defaultHandshakeTimeout is the duration an entire handshake attempt
	// (dial included) may take before it is abandoned.
	defaultHandshakeTimeout = 10 * time.Second
)

// ErrSelfConnection is returned when the remote peer echoes a version nonce
// this prober generated, which means the connection terminates at the local
// process.
var ErrSelfConnection = errors.New("disconnecting peer connected to self")

// errVersionMismatch is returned when the reply to the version message is
// well formed but is not a usable version announcement.  Unlike the verack
// exchange, this cannot be tolerated since there is nothing to acknowledge.
var errVersionMismatch = errors.New("no usable version reply from peer")

// Outcome classifies a completed handshake exchange or attempt.
type Outcome int

const (
	// OutcomeFailed means the attempt ended with a transport, decode, or
	// protocol error.
	OutcomeFailed Outcome = iota

	// OutcomePartial means the peer answered with a well-formed but
	// unexpected message.
	OutcomePartial

	// OutcomeSuccess means the peer answered with the expected message.
	OutcomeSuccess
)

// String returns the Outcome in human-readable form.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePartial:
		return "partial success"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Config is the configuration shared by every handshake a Prober performs.
// All fields are read-only once the Prober is created.
type Config struct {
	// Net identifies the bitcoin network the prober speaks on.  Every
	// message sent and received must carry this magic.
	Net wire.BitcoinNet

	// Services advertises the services the prober claims to support in
	// its version message.
	Services wire.ServiceFlag

	// UserAgentName and UserAgentVersion identify the prober in the user
	// agent field of the version message.
	UserAgentName    string
	UserAgentVersion string

	// LastBlock advertises the last block seen by the prober.
	LastBlock int32

	// DisableRelayTx asks peers not to announce transactions.
	DisableRelayTx bool

	// Timeout bounds each handshake attempt including the dial.  The
	// default is used when zero.
	Timeout time.Duration

	// Dial connects to the given TCP address.  A nil value uses
	// net.DialTimeout.  This is the injection point for proxied
	// connections.
	Dial func(network, address string, timeout time.Duration) (net.Conn, error)
}

// Prober performs version/verack handshakes against remote peers.  It is
// safe for concurrent use: the configuration is read-only and the sent nonce
// cache is concurrency safe.
type Prober struct {
	cfg        Config
	sentNonces lru.Cache
}

// New returns a Prober for the given configuration.
func New(cfg *Config) *Prober {
	p := &Prober{
		cfg:        *cfg,
		sentNonces: lru.NewCache(maxKnownNonces),
	}
	if p.cfg.Timeout <= 0 {
		p.cfg.Timeout = defaultHandshakeTimeout
	}
	return p
}

// localVersionMsg creates a version message to advertise on the given
// connection.  The nonce is generated fresh per call and retained for self
// connection detection.
func (p *Prober) localVersionMsg(conn net.Conn) (*wire.MsgVersion, error) {
	nonce, err := wire.RandomUint64()
	if err != nil {
		return nil, err
	}

	msg, err := wire.NewMsgVersionFromConn(conn, nonce, p.cfg.LastBlock)
	if err != nil {
		// Proxied and in-memory connections do not expose TCP
		// addresses, so advertise an unroutable zero address instead.
		me := wire.NewNetAddressIPPort(net.IPv4zero, 0, p.cfg.Services)
		you := wire.NewNetAddressIPPort(net.IPv4zero, 0, p.cfg.Services)
		msg = wire.NewMsgVersion(me, you, nonce, p.cfg.LastBlock)
	}
	msg.Services = p.cfg.Services
	msg.AddrMe.Services = p.cfg.Services
	msg.AddrYou.Services = p.cfg.Services
	msg.DisableRelayTx = p.cfg.DisableRelayTx
	err = msg.AddUserAgent(p.cfg.UserAgentName, p.cfg.UserAgentVersion)
	if err != nil {
		return nil, err
	}

	p.sentNonces.Add(nonce)
	return msg, nil
}

// Handshake performs the outbound protocol negotiation on the provided
// connection: a version exchange followed by a verack exchange.  The returned
// outcome is OutcomeFailed exactly when the error is non-nil.
//
// A partial result on the version exchange is escalated to a failure since
// the handshake cannot proceed without a valid peer announcement.  All errors
// are fatal to this connection only and are never retried.
func (p *Prober) Handshake(conn net.Conn) (Outcome, error) {
	localVer, err := p.localVersionMsg(conn)
	if err != nil {
		return OutcomeFailed, err
	}

	// The reader is shared by both exchanges so that a pipelined second
	// message is not lost between them.
	r := bufio.NewReader(conn)

	outcome, err := p.exchange(r, conn, localVer)
	if err != nil {
		return OutcomeFailed, err
	}
	if outcome != OutcomeSuccess {
		return OutcomeFailed, errVersionMismatch
	}

	return p.exchange(r, conn, wire.NewMsgVerAck())
}

// exchange sends msg and classifies the reply.  Exactly one message is
// consumed from r regardless of the classification.
func (p *Prober) exchange(r io.Reader, w io.Writer, msg wire.Message) (Outcome, error) {
	if err := wire.WriteMessage(w, msg, p.cfg.Net); err != nil {
		return OutcomeFailed, err
	}
	log.Debugf("Sent %s message", msg.Command())

	reply, _, err := wire.ReadMessage(r, p.cfg.Net)
	if err != nil {
		var cmdErr *wire.UnknownCommandError
		if errors.As(err, &cmdErr) {
			log.Warnf("Expected %s reply, got unknown command %q",
				msg.Command(), cmdErr.Command)
			return OutcomePartial, nil
		}
		return OutcomeFailed, err
	}
	log.Debugf("Received %s message", reply.Command())

	// A peer replying with a nonce this prober sent is the local process
	// reaching itself, possibly over a sibling connection.
	if verMsg, ok := reply.(*wire.MsgVersion); ok {
		if p.sentNonces.Contains(verMsg.Nonce) {
			return OutcomeFailed, ErrSelfConnection
		}
	}

	if reply.Command() != msg.Command() {
		log.Warnf("Expected %s reply, got %s", msg.Command(),
			reply.Command())
		return OutcomePartial, nil
	}

	return OutcomeSuccess, nil
}
