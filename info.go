package fsa

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Info Statistics about a built automaton and its compilation.
type Info struct {
	// Capacity of the serialization buffer at completion.
	SerializationBufferSize int

	// Number of times the serialization buffer was reallocated.
	BufferReallocations int

	// Live bytes of the constant-arc automaton, including recycled active
	// path slots.
	AutomatonSize int

	// Number of active path slots allocated: the length of the longest input,
	// or 1 (the root slot) when no input is longer than that.
	MaxActivePathLength int

	// Slot count of the state register, always a power of two.
	RegisterSlots int

	// Number of distinct states interned in the register.
	RegisterEntries int

	// Estimated working memory: serialization buffer plus four bytes per
	// register slot.
	EstimatedMemoryBytes int
}

func (i *Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Serialization buffer size: %s\n", humanize.IBytes(uint64(i.SerializationBufferSize)))
	fmt.Fprintf(&sb, "Serialization buffer reallocs: %d\n", i.BufferReallocations)
	fmt.Fprintf(&sb, "Constant arc FSA size: %s\n", humanize.IBytes(uint64(i.AutomatonSize)))
	fmt.Fprintf(&sb, "Max active path: %d\n", i.MaxActivePathLength)
	fmt.Fprintf(&sb, "Registry hash slots: %d\n", i.RegisterSlots)
	fmt.Fprintf(&sb, "Registry hash entries: %d\n", i.RegisterEntries)
	fmt.Fprintf(&sb, "Estimated mem consumption: %s", humanize.IBytes(uint64(i.EstimatedMemoryBytes)))
	return sb.String()
}
