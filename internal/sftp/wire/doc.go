// Package wire provides binary encoding and decoding utilities for the SFTP
// wire protocol.
//
// The package uses an error-accumulation pattern inspired by bufio.Scanner:
// callers perform multiple read/write operations and check for errors once at
// the end, rather than after every individual operation.
//
// Reader wraps a packet payload with a position cursor and accumulates the
// first error. Once an error occurs, all subsequent reads become no-ops
// returning zero values:
//
//	r := wire.NewReader(payload)
//	flags := r.ReadUint32()
//	size := r.ReadUint64()
//	name := r.ReadString()
//	if r.Err() != nil {
//	    return r.Err()
//	}
//
// Strings and opaque data are length-prefixed with a uint32. ReadBlock returns
// a Reader bounded to one such length-prefixed region, so a decoder for a
// nested record can never over-read into the fields that follow it.
//
// All integer operations use big-endian byte order as required by the SSH
// wire encoding (RFC 4251 section 5).
package wire
