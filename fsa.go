package fsa

import (
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// FSA An immutable automaton produced by a Builder. States are contiguous
// runs of constant-size arcs inside a single byte image; a state's address is
// the offset of its first arc. The image is safe to share across goroutines
// for read-only traversal.
type FSA struct {
	// The serialized image. Byte 0 is a reserved sentinel; the epsilon state
	// follows at offset 1.
	arcs []byte

	// Address of the epsilon state, the automaton's entry point.
	epsilon int
}

// NewFSA wraps a serialized automaton image and its entry offset, as produced
// by Builder.Complete.
func NewFSA(image []byte, entry int) *FSA {
	return &FSA{arcs: image, epsilon: entry}
}

// Bytes returns the raw serialized image.
func (f *FSA) Bytes() []byte {
	return f.arcs
}

// Entry returns the address of the epsilon state.
func (f *FSA) Entry() int {
	return f.epsilon
}

// Root returns the address of the root state, or TERMINAL_STATE if the
// automaton accepts no non-empty sequence.
func (f *FSA) Root() int {
	return arcTarget(f.arcs, f.epsilon)
}

// FirstArc returns the address of the first arc leaving the given state.
func (f *FSA) FirstArc(node int) int {
	return node
}

// NextArc returns the address of the arc following the given one within its
// state, or 0 if the given arc is the state's last.
func (f *FSA) NextArc(arc int) int {
	if isArcLast(f.arcs, arc) {
		return 0
	}
	return arc + ARC_SIZE
}

// ArcLabel returns the arc's label byte.
func (f *FSA) ArcLabel(arc int) byte {
	return arcLabel(f.arcs, arc)
}

// IsArcFinal reports whether traversing the arc accepts the sequence read so
// far.
func (f *FSA) IsArcFinal(arc int) bool {
	return isArcFinal(f.arcs, arc)
}

// IsArcTerminal reports whether the arc leads to the terminal sink, i.e. has
// no continuation.
func (f *FSA) IsArcTerminal(arc int) bool {
	return arcTarget(f.arcs, arc) == TERMINAL_STATE
}

// EndNode returns the address of the state the arc points to.
func (f *FSA) EndNode(arc int) int {
	return arcTarget(f.arcs, arc)
}

// findArc scans the state's arcs for the given label. Labels are sorted in
// ascending order, so the scan stops early. Returns 0 when absent.
func (f *FSA) findArc(node int, label byte) int {
	for arc := node; ; arc += ARC_SIZE {
		l := arcLabel(f.arcs, arc)
		if l == label {
			return arc
		}
		if l > label || isArcLast(f.arcs, arc) {
			return 0
		}
	}
}

// Accepts reports whether the sequence belongs to the automaton's language.
func (f *FSA) Accepts(sequence []byte) bool {
	if len(sequence) == 0 {
		return isArcFinal(f.arcs, f.epsilon)
	}
	node := f.Root()
	if node == TERMINAL_STATE {
		return false
	}
	for i, label := range sequence {
		arc := f.findArc(node, label)
		if arc == 0 {
			return false
		}
		if i == len(sequence)-1 {
			return isArcFinal(f.arcs, arc)
		}
		if f.IsArcTerminal(arc) {
			return false
		}
		node = arcTarget(f.arcs, arc)
	}
	return false
}

// Sequences iterates over every sequence of the language in lexicographic
// order. The yielded slices are fresh copies.
func (f *FSA) Sequences() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		if isArcFinal(f.arcs, f.epsilon) {
			if !yield([]byte{}) {
				return
			}
		}
		if root := f.Root(); root != TERMINAL_STATE {
			f.walk(root, nil, yield)
		}
	}
}

func (f *FSA) walk(node int, prefix []byte, yield func([]byte) bool) bool {
	for arc := node; ; arc += ARC_SIZE {
		prefix = append(prefix, arcLabel(f.arcs, arc))
		if isArcFinal(f.arcs, arc) {
			out := make([]byte, len(prefix))
			copy(out, prefix)
			if !yield(out) {
				return false
			}
		}
		if target := arcTarget(f.arcs, arc); target != TERMINAL_STATE {
			if !f.walk(target, prefix, yield) {
				return false
			}
		}
		prefix = prefix[:len(prefix)-1]
		if isArcLast(f.arcs, arc) {
			return true
		}
	}
}

// StateCount returns the number of distinct states reachable from the root,
// excluding the epsilon state and the terminal sink.
func (f *FSA) StateCount() int {
	nodes, _ := f.census()
	return nodes
}

// ArcCount returns the total number of arcs over all reachable states.
func (f *FSA) ArcCount() int {
	_, arcs := f.census()
	return arcs
}

// census walks the automaton once, deduplicating shared states. State
// addresses are distinct multiples of ARC_SIZE shifted by the reserved byte,
// so addr/ARC_SIZE indexes a visited bitset densely.
func (f *FSA) census() (nodes, arcs int) {
	root := f.Root()
	if root == TERMINAL_STATE {
		return 0, 0
	}
	visited := bitset.New(uint(len(f.arcs)/ARC_SIZE + 1))
	return f.visit(root, visited)
}

func (f *FSA) visit(node int, visited *bitset.BitSet) (nodes, arcs int) {
	idx := uint(node / ARC_SIZE)
	if visited.Test(idx) {
		return 0, 0
	}
	visited.Set(idx)

	nodes = 1
	for arc := node; ; arc += ARC_SIZE {
		arcs++
		if target := arcTarget(f.arcs, arc); target != TERMINAL_STATE {
			n, a := f.visit(target, visited)
			nodes += n
			arcs += a
		}
		if isArcLast(f.arcs, arc) {
			return nodes, arcs
		}
	}
}
