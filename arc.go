package fsa

import "encoding/binary"

const (
	// Byte layout of a single arc. Every arc occupies exactly ARC_SIZE bytes:
	// one flags byte, one label byte and a big-endian target address.
	FLAGS_OFFSET        = 0
	LABEL_OFFSET        = 1
	ADDRESS_OFFSET      = 2
	TARGET_ADDRESS_SIZE = 4
	ARC_SIZE            = ADDRESS_OFFSET + TARGET_ADDRESS_SIZE

	// BIT_ARC_LAST marks the last arc of a state's arc list.
	BIT_ARC_LAST = 0x01

	// BIT_ARC_FINAL marks an arc whose traversal accepts the sequence.
	BIT_ARC_FINAL = 0x02

	// TERMINAL_STATE is the reserved sink address. Arcs targeting it accept
	// and stop. Address 0 doubles as the "empty slot" sentinel in the state
	// register, which is why the serialization buffer starts at offset 1.
	TERMINAL_STATE = 0

	// MAX_LABELS is the maximum fan-out of a single state (byte alphabet).
	MAX_LABELS = 256
)

func isArcLast(buf []byte, arc int) bool {
	return buf[arc+FLAGS_OFFSET]&BIT_ARC_LAST != 0
}

func isArcFinal(buf []byte, arc int) bool {
	return buf[arc+FLAGS_OFFSET]&BIT_ARC_FINAL != 0
}

func markArcLast(buf []byte, arc int) {
	buf[arc+FLAGS_OFFSET] |= BIT_ARC_LAST
}

func markArcFinal(buf []byte, arc int) {
	buf[arc+FLAGS_OFFSET] |= BIT_ARC_FINAL
}

func arcLabel(buf []byte, arc int) byte {
	return buf[arc+LABEL_OFFSET]
}

// arcTarget reads the arc's target address. Targets are stored big-endian so
// that bytewise equality of two serialized regions implies state equivalence
// regardless of the host byte order.
func arcTarget(buf []byte, arc int) int {
	return int(binary.BigEndian.Uint32(buf[arc+ADDRESS_OFFSET:]))
}

func setArcTarget(buf []byte, arc int, state int) {
	binary.BigEndian.PutUint32(buf[arc+ADDRESS_OFFSET:], uint32(state))
}
