// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the subset of the bitcoin wire protocol needed
to perform the initial version/verack handshake with a peer.

# Bitcoin Messages

At a high level, this package provides support for marshalling and
unmarshalling supported bitcoin messages to and from the wire.  The
supported messages are the version message, which announces the local
node's capabilities, and the verack message, which acknowledges a
remote version message.  This package does not deal with the specifics
of message handling such as what to do when a message is received.
This provides the caller with a high level of flexibility.

# Bitcoin Message Overview

Every message has a header consisting of the network, the command, the
payload length, and a checksum over the payload.  The network is a
magic 4-byte value used to identify the network (and consequently
detect messages from the wrong network), the command is a NUL-padded
12-byte ASCII name identifying the payload type, and the checksum is
the first four bytes of the double sha256 of the payload.

Integers on the wire are little endian with the notable exception of
IP addresses and ports, which are big endian.  The mixed endianness is
a property of the protocol itself and is faithfully preserved here.

# Determining Message Type

The ReadMessage function returns the decoded message as a generic
Message interface, so a type switch (or assertion) is used to
determine the concrete type:

	// Reads and validates the next bitcoin message from conn using the
	// protocol version pver and the bitcoin network btcnet.
	msg, rawPayload, err := wire.ReadMessage(conn, btcnet)
	if err != nil {
		// Log and handle the error
	}

	switch msg := msg.(type) {
	case *wire.MsgVersion:
		// The message is a pointer to a MsgVersion struct.
		fmt.Printf("Protocol version: %d", msg.ProtocolVersion)
	case *wire.MsgVerAck:
		// The message is a pointer to a MsgVerAck struct.
	}

A message whose header carries a command name outside the supported
set decodes to a *UnknownCommandError which retains the raw name.  The
declared payload is still consumed from the reader so the stream
remains usable for the next message.

# Errors

Errors returned by this package are either the raw errors provided by
underlying calls to read/write from streams such as io.EOF,
io.ErrUnexpectedEOF, and io.ErrShortWrite, or of type
wire.MessageError.  This allows the caller to differentiate between
general io errors and malformed messages through type assertions.
*/
package wire
