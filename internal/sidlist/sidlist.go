// Package sidlist provides the two interchangeable sequence-id set
// representations used by the preprocessor and the expansion engine: a
// bitset and a sorted-array. Both satisfy the SidList interface and an
// engine run picks exactly one representation and keeps it throughout; the
// two are never mixed within a single run.
package sidlist

import (
	"math/bits"
	"sort"
)

// SidList is a set of sequence ids supporting incremental construction,
// size queries, and intersection.
type SidList interface {
	Add(sid int)
	Size() int
	Ids() []int
	Intersection(other SidList) SidList
}

// New returns an empty SidList using the requested representation.
func New(useBitset bool) SidList {
	if useBitset {
		return NewBitsetSidList()
	}
	return NewArraySidList()
}

// BitsetSidList stores sequence ids as set bits in a growable word array.
type BitsetSidList struct {
	words []uint64
}

// NewBitsetSidList returns an empty bitset sid list.
func NewBitsetSidList() *BitsetSidList {
	return &BitsetSidList{}
}

// Add sets the bit for sid, growing the backing array if needed.
func (b *BitsetSidList) Add(sid int) {
	word, bit := sid/64, uint(sid%64)
	for word >= len(b.words) {
		b.words = append(b.words, 0)
	}
	b.words[word] |= 1 << bit
}

// Size returns the number of set bits.
func (b *BitsetSidList) Size() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Ids returns the set sids in ascending order.
func (b *BitsetSidList) Ids() []int {
	ids := make([]int, 0, b.Size())
	for i, w := range b.words {
		for w != 0 {
			t := bits.TrailingZeros64(w)
			ids = append(ids, i*64+t)
			w &= w - 1
		}
	}
	return ids
}

// Intersection returns a new BitsetSidList holding the bitwise AND of the
// two lists. If other is not a *BitsetSidList, falls back to a generic
// id-set intersection (defensive; the engine's no-mixing contract means
// this path should not be exercised in practice).
func (b *BitsetSidList) Intersection(other SidList) SidList {
	o, ok := other.(*BitsetSidList)
	if !ok {
		return genericIntersection(b, other, true)
	}
	n := len(b.words)
	if len(o.words) < n {
		n = len(o.words)
	}
	res := &BitsetSidList{words: make([]uint64, n)}
	for i := 0; i < n; i++ {
		res.words[i] = b.words[i] & o.words[i]
	}
	return res
}

// ArraySidList stores sequence ids as a sorted, deduplicated slice.
type ArraySidList struct {
	ids []int
}

// NewArraySidList returns an empty array sid list.
func NewArraySidList() *ArraySidList {
	return &ArraySidList{}
}

// Add appends sid, which must be greater than or equal to the last added
// sid (the preprocessor builds these lists while scanning sequences in
// ascending id order). Consecutive duplicates are collapsed.
func (a *ArraySidList) Add(sid int) {
	if len(a.ids) > 0 && a.ids[len(a.ids)-1] == sid {
		return
	}
	a.ids = append(a.ids, sid)
}

// Size returns the number of sids.
func (a *ArraySidList) Size() int {
	return len(a.ids)
}

// Ids returns the sids in ascending order.
func (a *ArraySidList) Ids() []int {
	return a.ids
}

// Intersection returns a new ArraySidList holding the sids common to both
// lists, found by binary-searching the smaller list against the larger.
func (a *ArraySidList) Intersection(other SidList) SidList {
	o, ok := other.(*ArraySidList)
	if !ok {
		return genericIntersection(a, other, false)
	}
	small, large := a.ids, o.ids
	if len(small) > len(large) {
		small, large = large, small
	}
	res := &ArraySidList{}
	for _, id := range small {
		idx := sort.SearchInts(large, id)
		if idx < len(large) && large[idx] == id {
			res.ids = append(res.ids, id)
		}
	}
	return res
}

func genericIntersection(a, b SidList, bitset bool) SidList {
	bids := make(map[int]bool, b.Size())
	for _, id := range b.Ids() {
		bids[id] = true
	}
	res := New(bitset)
	for _, id := range a.Ids() {
		if bids[id] {
			res.Add(id)
		}
	}
	return res
}
