package fsa

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrOutOfOrder is returned when an added sequence sorts below the
	// previously added one.
	ErrOutOfOrder = errors.New("input must be added in lexicographic order")

	// ErrCompleted is returned when a builder is used after Complete.
	ErrCompleted = errors.New("automaton already built")
)

// Builder Fast, memory-conservative incremental builder of a minimal,
// deterministic, acyclic automaton over byte sequences. Inputs must arrive in
// lexicographic order (unsigned byte value, then length); equivalent
// sub-automata are shared on the fly, so peak memory tracks the minimal
// automaton plus the longest active prefix, not the input size.
//
// The result is a byte-serialized automaton in which every arc occupies
// ARC_SIZE bytes, a tradeoff between construction speed and memory
// consumption.
type Builder struct {
	arena    *arena
	register *register
	path     *activePath

	// The epsilon state. Its first and only arc points either to the root or
	// to the terminal state for an empty automaton.
	epsilon int

	// Previous sequence passed to Add, kept for the ordering check.
	previous []byte
	hasPrev  bool

	completed bool
	info      *Info
}

type builderOptions struct {
	bufferGrowthSize int
}

type BuilderOption func(*builderOptions)

// WithBufferGrowthSize sets the serialization buffer expansion quantum in
// bytes. Values below ARC_SIZE*MAX_LABELS are raised to that floor.
func WithBufferGrowthSize(size int) BuilderOption {
	return func(o *builderOptions) {
		o.bufferGrowthSize = size
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	options := &builderOptions{
		bufferGrowthSize: DEFAULT_BUFFER_GROWTH_SIZE,
	}
	for _, opt := range opts {
		opt(options)
	}

	b := &Builder{
		arena: newArena(options.bufferGrowthSize),
		path:  &activePath{},
	}
	b.register = newRegister(b.arena)

	// The epsilon state is allocated first, at offset 1. Its target is fixed
	// up at Complete.
	b.epsilon = b.arena.allocateState(1)
	markArcLast(b.arena.buf, b.epsilon)

	// Root slot, with an initially empty set of arcs.
	b.path.expandTo(b.arena, 1)
	return b
}

// Add appends a single sequence to the automaton. The sequence must compare
// greater than or equal to any previously added one; duplicates are no-ops.
// An empty sequence is accepted only while nothing non-empty has been added.
func (b *Builder) Add(sequence []byte) error {
	if b.completed {
		return ErrCompleted
	}
	if b.hasPrev && bytes.Compare(b.previous, sequence) > 0 {
		return fmt.Errorf("%w: %q after %q", ErrOutOfOrder, sequence, b.previous)
	}

	if len(sequence) == 0 {
		// Membership of the empty sequence is carried by the epsilon arc.
		markArcFinal(b.arena.buf, b.epsilon)
	} else {
		b.insert(sequence)
	}

	b.previous = append(b.previous[:0], sequence...)
	b.hasPrev = true
	return nil
}

// insert runs one step of the incremental construction: freeze the part of
// the active path diverging from the previous input, then extend the path
// with the new suffix.
func (b *Builder) insert(sequence []byte) {
	prefix := b.commonPrefixLen(sequence)

	// Make room for extra states on the active path, if needed.
	b.path.expandTo(b.arena, len(sequence))

	// Freeze all states after the common prefix, right to left, patching
	// each parent's last arc to the canonical address.
	for i := b.path.length - 1; i > prefix; i-- {
		frozen := b.freezeState(i)
		setArcTarget(b.arena.buf, b.path.lastArc(i-1), frozen)
		b.path.reopen(i)
	}

	// Append arcs spelling the new suffix.
	for i := prefix + 1; i <= len(sequence); i++ {
		p := b.path.cursors[i-1]
		buf := b.arena.buf

		last := i == len(sequence)
		if last {
			buf[p+FLAGS_OFFSET] = BIT_ARC_FINAL
		} else {
			buf[p+FLAGS_OFFSET] = 0
		}
		buf[p+LABEL_OFFSET] = sequence[i-1]
		if last {
			setArcTarget(buf, p, TERMINAL_STATE)
		} else {
			setArcTarget(buf, p, b.path.states[i])
		}

		b.path.cursors[i-1] = p + ARC_SIZE
	}

	b.path.length = len(sequence)
}

// commonPrefixLen compares successive bytes of the sequence against the label
// of the last written arc at each depth. That arc is the one whose target is
// the next state on the active path.
func (b *Builder) commonPrefixLen(sequence []byte) int {
	limit := min(len(sequence), b.path.length)
	for i := 0; i < limit; i++ {
		if sequence[i] != arcLabel(b.arena.buf, b.path.lastArc(i)) {
			return i
		}
	}
	return limit
}

// freezeState canonicalizes the mutable state at the given active path depth:
// an equivalent state already interned wins, otherwise the state is
// serialized into the arena and recorded.
func (b *Builder) freezeState(depth int) int {
	start := b.path.states[depth]
	end := b.path.cursors[depth]
	markArcLast(b.arena.buf, end-ARC_SIZE)
	return b.register.intern(start, end-start)
}

// Complete finishes the automaton and returns it. The builder cannot be used
// afterwards; further calls to Add or Complete return ErrCompleted.
func (b *Builder) Complete() (*FSA, error) {
	if b.completed {
		return nil, ErrCompleted
	}

	// Flush the active path down to the root slot.
	b.insert(nil)

	if b.path.emptyAt(0) {
		// No arcs from the root: the language is empty, or holds just the
		// empty sequence already carried by the epsilon arc.
		setArcTarget(b.arena.buf, b.epsilon, TERMINAL_STATE)
	} else {
		root := b.freezeState(0)
		setArcTarget(b.arena.buf, b.epsilon, root)
	}

	b.info = &Info{
		SerializationBufferSize: len(b.arena.buf),
		BufferReallocations:     b.arena.reallocations,
		AutomatonSize:           b.arena.size,
		MaxActivePathLength:     len(b.path.states),
		RegisterSlots:           len(b.register.slots),
		RegisterEntries:         b.register.size,
		EstimatedMemoryBytes:    len(b.arena.buf) + 4*len(b.register.slots),
	}

	result := &FSA{
		arcs:    b.arena.image(),
		epsilon: b.epsilon,
	}

	b.completed = true
	b.arena = nil
	b.register = nil
	b.path = nil
	return result, nil
}

// Info returns statistics about the automaton and its compilation. Valid
// after Complete; nil before.
func (b *Builder) Info() *Info {
	return b.info
}

// Build constructs a minimal, deterministic automaton from a sorted list of
// byte sequences.
func Build(input [][]byte) (*FSA, error) {
	builder := NewBuilder()
	for _, sequence := range input {
		if err := builder.Add(sequence); err != nil {
			return nil, err
		}
	}
	return builder.Complete()
}
