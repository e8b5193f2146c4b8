// Package endian provides the little-endian byte order engine the wire
// format is built on, plus host byte-order detection used to select a fast,
// unsafe-pointer decode path on little-endian hosts.
//
// The on-disk format is little-endian only (no cross-endianness portability
// is a stated non-goal of this engine), but the codec still needs to know
// the *host's* native order: on a little-endian host, object fields can be
// read directly via an unsafe.Pointer cast over the mapped bytes (as the
// reference journal reader does); on a big-endian host, every field must go
// through explicit byte-order conversion instead.
//
//	engine := endian.LittleEndian
//	buf = engine.AppendUint64(buf, value)
//
// All functions in this package are stateless and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface, matching binary.LittleEndian's method set.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LittleEndian is the engine used for every on-disk integer field.
var LittleEndian Engine = binary.LittleEndian

// hostOrder reports the native byte order of the running process.
func hostOrder() binary.ByteOrder {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// NativeIsLittleEndian reports whether the host CPU is little-endian. The
// object codec uses this to decide whether direct unsafe-pointer field
// access over a mapped window is safe, or whether it must fall back to
// LittleEndian.Uint64 et al.
func NativeIsLittleEndian() bool {
	return hostOrder() == binary.LittleEndian
}
