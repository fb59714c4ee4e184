package fsa

import "bytes"

// register is a hash-consing set of frozen state addresses, keyed by bytewise
// identity of their arc runs in the arena. Slot value 0 means "empty", which
// is safe because no state can ever live at offset 0. The set never deletes,
// so probing needs no tombstones.
type register struct {
	arena *arena

	// Open-addressed slot array, length always a power of two.
	slots []int

	// Number of occupied slots.
	size int
}

func newRegister(arena *arena) *register {
	return &register{
		arena: arena,
		slots: make([]int, 2),
	}
}

// intern returns the canonical address of the state whose arcs occupy
// [start, start+length) in the arena. If no equivalent state has been seen
// yet, the region is copied into a fresh allocation and recorded. The bytes
// at start are abandoned either way; they belong to a reusable active path
// slot.
func (r *register) intern(start, length int) int {
	mask := len(r.slots) - 1
	slot := r.hash(start, length) & mask
	for i := 0; ; {
		state := r.slots[slot]
		if state == 0 {
			state = r.arena.serialize(start, length)
			r.slots[slot] = state
			r.size++
			if r.size > len(r.slots)/2 {
				r.expandAndRehash()
			}
			return state
		}
		if r.equivalent(state, start, length) {
			return state
		}

		// Quadratic probing with triangular increments.
		i++
		slot = (slot + i) & mask
	}
}

// hash folds every equivalence-relevant byte of the region: label, target and
// the final bit of each arc. The LAST bit is excluded on purpose: it is a
// layout artifact of the region's last arc, not a semantic property.
func (r *register) hash(start, length int) int {
	buf := r.arena.buf
	h := 0
	for arcs := length / ARC_SIZE; arcs > 0; arcs-- {
		h = 17*h + int(arcLabel(buf, start))
		h = 17*h + arcTarget(buf, start)
		if isArcFinal(buf, start) {
			h += 17
		}
		start += ARC_SIZE
	}
	return h
}

// equivalent reports whether the frozen state at state has arcs identical to
// the length bytes at start. Regions reaching past the arena's high-water
// mark cannot be frozen states.
func (r *register) equivalent(state, start, length int) bool {
	buf, size := r.arena.buf, r.arena.size
	if state+length > size || start+length > size {
		return false
	}
	return bytes.Equal(buf[state:state+length], buf[start:start+length])
}

func (r *register) expandAndRehash() {
	newSlots := make([]int, len(r.slots)*2)
	mask := len(newSlots) - 1

	for _, state := range r.slots {
		if state == 0 {
			continue
		}
		slot := r.hash(state, r.stateLength(state)) & mask
		for i := 0; newSlots[slot] != 0; {
			i++
			slot = (slot + i) & mask
		}
		newSlots[slot] = state
	}
	r.slots = newSlots
}

// stateLength scans the state's arcs up to the one with BIT_ARC_LAST and
// returns the total byte length of the run.
func (r *register) stateLength(state int) int {
	arc := state
	for !isArcLast(r.arena.buf, arc) {
		arc += ARC_SIZE
	}
	return arc - state + ARC_SIZE
}
