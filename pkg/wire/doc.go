// Package wire implements the Android TV Remote v2 binary wire format used
// on both the pairing channel (tcp/6467) and the command channel (tcp/6466).
//
// Framing is a varint-encoded length prefix followed by a tag-encoded
// message body. Every message is an explicit Go struct with an explicit
// encode/decode pair rather than a generically-interpreted schema: the
// protocol only defines a handful of shapes, and the field numbers in
// PairingMessage and RemoteMessage are part of the wire contract, not an
// implementation detail a generic decoder should hide.
package wire
