package arena

import "math/bits"

// slotGroupSize is how many arena indices share one availability bit.
const slotGroupSize = 16

// slotAllocator remembers which groups of slots may hold a freed index and,
// per group, the lowest index known to be free. A set bit in groups means the
// group is not full.
type slotAllocator struct {
	groups  []uint64
	cursors []uint16
}

func groupOf(idx int) (group, offset int) {
	return idx / slotGroupSize, idx % slotGroupSize
}

func (a *slotAllocator) markFree(idx int) {
	group, offset := groupOf(idx)
	word, bit := group/64, uint(group%64)
	for len(a.groups) <= word {
		a.groups = append(a.groups, 0)
	}
	for len(a.cursors) <= group {
		a.cursors = append(a.cursors, 0)
	}

	if a.groups[word]&(1<<bit) == 0 {
		a.groups[word] |= 1 << bit
		a.cursors[group] = uint16(offset)
		return
	}
	if uint16(offset) < a.cursors[group] {
		a.cursors[group] = uint16(offset)
	}
}

// takeFree hands out the lowest free index. isUsed is the ground truth: an
// index the bookkeeping believes free but isUsed reports as taken is skipped.
func (a *slotAllocator) takeFree(isUsed func(idx int) bool) (int, bool) {
	for word, bitsSet := range a.groups {
		for bitsSet != 0 {
			bit := bits.TrailingZeros64(bitsSet)
			group := word*64 + bit
			if idx, ok := a.takeFromGroup(group, isUsed); ok {
				return idx, true
			}
			bitsSet &^= 1 << uint(bit)
		}
	}
	return 0, false
}

func (a *slotAllocator) takeFromGroup(group int, isUsed func(idx int) bool) (int, bool) {
	start := group * slotGroupSize
	end := start + slotGroupSize

	found := -1
	for i := start + int(a.cursors[group]); i < end; i++ {
		if !isUsed(i) {
			found = i
			break
		}
	}
	if found < 0 {
		a.markFull(group)
		return 0, false
	}

	for i := found + 1; i < end; i++ {
		if !isUsed(i) {
			a.cursors[group] = uint16(i - start)
			return found, true
		}
	}
	a.markFull(group)
	return found, true
}

func (a *slotAllocator) markFull(group int) {
	a.groups[group/64] &^= 1 << uint(group%64)
	a.cursors[group] = 0
}

func (a *slotAllocator) reset() {
	a.groups = a.groups[:0]
	a.cursors = a.cursors[:0]
}
