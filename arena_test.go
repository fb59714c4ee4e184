package fsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArena_AllocateState(t *testing.T) {
	a := newArena(0)
	assert.Equal(t, ARC_SIZE*MAX_LABELS, a.growthSize)

	// Offset 0 stays reserved.
	first := a.allocateState(1)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, a.reallocations)

	second := a.allocateState(2)
	assert.Equal(t, first+ARC_SIZE, second)
	assert.Equal(t, second+2*ARC_SIZE, a.size)
}

func TestArena_GrowthPreservesContent(t *testing.T) {
	a := newArena(0)
	state := a.allocateState(1)
	a.buf[state+LABEL_OFFSET] = 'z'
	setArcTarget(a.buf, state, 42)

	for a.reallocations < 3 {
		a.allocateState(MAX_LABELS)
	}

	assert.Equal(t, byte('z'), arcLabel(a.buf, state))
	assert.Equal(t, 42, arcTarget(a.buf, state))
}

func TestArena_Image(t *testing.T) {
	a := newArena(0)
	state := a.allocateState(1)
	a.buf[state+LABEL_OFFSET] = 'q'
	markArcLast(a.buf, state)

	image := a.image()
	assert.Len(t, image, a.size)
	assert.Equal(t, byte('q'), arcLabel(image, state))

	// The image is an independent copy.
	a.buf[state+LABEL_OFFSET] = 'r'
	assert.Equal(t, byte('q'), arcLabel(image, state))
}

// writeState fills a fresh full-width slot with the given labeled arcs, all
// targeting the terminal state, and returns the region bounds.
func writeState(a *arena, labels string, final bool) (start, length int) {
	start = a.allocateState(MAX_LABELS)
	p := start
	for i := 0; i < len(labels); i++ {
		a.buf[p+FLAGS_OFFSET] = 0
		if final {
			a.buf[p+FLAGS_OFFSET] = BIT_ARC_FINAL
		}
		a.buf[p+LABEL_OFFSET] = labels[i]
		setArcTarget(a.buf, p, TERMINAL_STATE)
		p += ARC_SIZE
	}
	markArcLast(a.buf, p-ARC_SIZE)
	return start, p - start
}

func TestRegister_Intern(t *testing.T) {
	a := newArena(0)
	r := newRegister(a)

	s1, l1 := writeState(a, "ab", true)
	frozen := r.intern(s1, l1)
	assert.Equal(t, 1, r.size)
	assert.NotEqual(t, s1, frozen)

	// An identical region interns to the same address.
	s2, l2 := writeState(a, "ab", true)
	assert.Equal(t, frozen, r.intern(s2, l2))
	assert.Equal(t, 1, r.size)

	// A differing final bit is a different state.
	s3, l3 := writeState(a, "ab", false)
	other := r.intern(s3, l3)
	assert.NotEqual(t, frozen, other)
	assert.Equal(t, 2, r.size)
}

func TestRegister_ExpandAndRehash(t *testing.T) {
	a := newArena(0)
	r := newRegister(a)

	frozen := make(map[string]int, 64)
	for label := byte('a'); label <= 'z'; label++ {
		s, l := writeState(a, string(label), true)
		frozen[string(label)] = r.intern(s, l)
	}
	assert.Equal(t, 26, r.size)
	assert.GreaterOrEqual(t, len(r.slots), 2*r.size)

	// Interning after growth still finds the canonical addresses.
	for label := byte('a'); label <= 'z'; label++ {
		s, l := writeState(a, string(label), true)
		assert.Equal(t, frozen[string(label)], r.intern(s, l))
	}
	assert.Equal(t, 26, r.size)
}
