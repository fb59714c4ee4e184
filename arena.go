package fsa

const (
	// MB A megabyte.
	MB = 1024 * 1024

	// DEFAULT_BUFFER_GROWTH_SIZE Serialization buffer expansion quantum.
	DEFAULT_BUFFER_GROWTH_SIZE = 5 * MB
)

// arena is a bump-allocated byte buffer holding serialized arcs. Offset 0 is
// reserved so that 0 can act both as the terminal state address and as the
// empty-slot sentinel of the register. The buffer grows by a fixed quantum and
// is never compacted while building.
type arena struct {
	// Serialized and mutable states. Each state is a sequential run of arcs,
	// the last arc marked with BIT_ARC_LAST.
	buf []byte

	// Number of bytes already taken in buf. Starts from 1.
	size int

	// Growth quantum, at least ARC_SIZE*MAX_LABELS (one worst-case state).
	growthSize int

	// Number of buffer reallocations so far.
	reallocations int
}

func newArena(growthSize int) *arena {
	if growthSize < ARC_SIZE*MAX_LABELS {
		growthSize = ARC_SIZE * MAX_LABELS
	}
	return &arena{
		size:       1,
		growthSize: growthSize,
	}
}

// ensureRoom grows buf by one quantum when less than one worst-case state is
// free above size. Keeping full-state headroom means callers never check for
// space per arc. With the minimum quantum, the first growth of an empty buffer
// leaves one byte less than a worst-case state above size, since offset 0 is
// already taken.
func (a *arena) ensureRoom() {
	if len(a.buf) < a.size+ARC_SIZE*MAX_LABELS {
		a.buf = grow(a.buf, len(a.buf)+a.growthSize)
		a.reallocations++
	}
}

// allocateState reserves zero-filled space for a state with the given number
// of outgoing labels and returns its offset.
func (a *arena) allocateState(labels int) int {
	a.ensureRoom()
	state := a.size
	a.size += labels * ARC_SIZE
	return state
}

// serialize copies length bytes starting at start into a fresh allocation and
// returns the new state offset.
func (a *arena) serialize(start, length int) int {
	a.ensureRoom()
	state := a.size
	copy(a.buf[state:state+length], a.buf[start:start+length])
	a.size += length
	return state
}

// image returns a right-sized copy of the live portion of the buffer.
func (a *arena) image() []byte {
	out := make([]byte, a.size)
	copy(out, a.buf[:a.size])
	return out
}
