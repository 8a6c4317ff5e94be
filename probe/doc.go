// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package probe drives the bitcoin version/verack handshake against remote
peers and classifies how each peer behaved.

A Prober performs the outbound side of the protocol negotiation on an
already-connected duplex stream: it sends a version message advertising
the configured services, reads the peer's reply, sends a verack, and
reads the reply to that.  Each exchange is classified as a success (the
expected message came back), a partial success (a well-formed but
unexpected message came back), or a failure.  A partial result on the
version exchange is escalated to a failure since there is nothing valid
to acknowledge.  Peers that echo a nonce this prober recently sent are
reported as self connections and fail.

Run fans the handshake out over a list of target addresses, one
goroutine per target with an independent deadline covering the dial and
the entire exchange.  Every target runs to completion or deadline
regardless of its siblings and Summarize folds the per-target results
into success/partial/failure counts.
*/
package probe
