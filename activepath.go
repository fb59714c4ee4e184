package fsa

// activePath holds the chain of still-mutable states spelling the most
// recently added sequence. Each depth owns a MAX_LABELS-wide slot in the
// arena so arcs can be appended by bumping a cursor, never reallocating.
// Slots are reserved once and recycled across inputs by resetting the cursor.
type activePath struct {
	// First-arc address of each state on the path.
	states []int

	// Next offset at which an arc will be written for each state.
	cursors []int

	// Length of the last added sequence.
	length int
}

// expandTo makes sure depths 0..size-1 exist, allocating a full-width state
// region for every newly created depth.
func (p *activePath) expandTo(a *arena, size int) {
	if len(p.states) >= size {
		return
	}
	from := len(p.states)
	p.states = grow(p.states, size)
	p.cursors = grow(p.cursors, size)

	for i := from; i < size; i++ {
		p.states[i] = a.allocateState(MAX_LABELS)
		p.cursors[i] = p.states[i]
	}
}

// lastArc returns the address of the most recently written arc at the given
// depth. Callers must ensure at least one arc has been written there.
func (p *activePath) lastArc(depth int) int {
	return p.cursors[depth] - ARC_SIZE
}

// reopen recycles the slot at the given depth for the next input. The old
// bytes stay in place but are ignored until overwritten.
func (p *activePath) reopen(depth int) {
	p.cursors[depth] = p.states[depth]
}

// emptyAt reports whether the state at the given depth has no arcs yet.
func (p *activePath) emptyAt(depth int) bool {
	return p.cursors[depth] == p.states[depth]
}
