package pattern

import "fmt"

// Pattern is a compiled, reusable match plan. Build one with New and
// Compile, then match it against productions repeatedly (directly via
// Match, or through a generator.Generator for lazy iteration).
type Pattern struct {
	lhs   lhsSpec
	slots []rawSlot

	// minSuffix[i] is the minimum number of symbols slots[i:] can consume.
	// Precomputed so the matcher can bound how much a slice slot is allowed
	// to greedily take without starving what comes after it.
	minSuffix []int
}

// Compile finalizes the builder into an immutable Pattern. It fails only if
// a nil target was passed to a hole method.
func (b *Builder) Compile() (*Pattern, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("pattern: %w", b.errs[0])
	}

	slots := make([]rawSlot, len(b.rhs))
	copy(slots, b.rhs)

	minSuffix := make([]int, len(slots)+1)
	for i := len(slots) - 1; i >= 0; i-- {
		if slots[i].kind.isSlice() {
			minSuffix[i] = minSuffix[i+1]
		} else {
			minSuffix[i] = minSuffix[i+1] + 1
		}
	}

	return &Pattern{lhs: b.lhs, slots: slots, minSuffix: minSuffix}, nil
}

// NumSlots returns the number of RHS slots compiled into the pattern.
func (p *Pattern) NumSlots() int {
	return len(p.slots)
}
