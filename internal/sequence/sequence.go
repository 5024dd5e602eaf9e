// Package sequence implements the in-memory utility-annotated sequence
// database that the mining engine reads from.
package sequence

import "fmt"

// Item is a positive integer item identifier.
type Item int

// Itemset is a non-empty ordered collection of distinct items, each paired
// with a positive per-item utility. Items are kept sorted ascending by
// value; several scans in the mining engine rely on that ordering.
type Itemset struct {
	Items     []Item
	Utilities []float64
}

// Sequence is an ordered list of itemsets together with the sequence's
// exact utility, the sum of every per-item utility it contains.
type Sequence struct {
	Itemsets     []Itemset
	ExactUtility float64
}

// NewSequence returns an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// AppendItemset adds an itemset to the end of the sequence. items and
// utilities must have identical length. Items are sorted ascending
// in-place (with utilities kept parallel) to satisfy the ordering
// invariant regardless of input order.
func (s *Sequence) AppendItemset(items []Item, utilities []float64) error {
	if len(items) != len(utilities) {
		return fmt.Errorf("sequence: itemset has %d items but %d utilities", len(items), len(utilities))
	}
	if len(items) == 0 {
		return fmt.Errorf("sequence: empty itemset")
	}
	sortItemsetAscending(items, utilities)
	s.Itemsets = append(s.Itemsets, Itemset{Items: items, Utilities: utilities})
	for _, u := range utilities {
		s.ExactUtility += u
	}
	return nil
}

// SetExactUtility overrides the computed exact utility, used when the input
// format carries an explicit SUtility override for the sequence.
func (s *Sequence) SetExactUtility(u float64) {
	s.ExactUtility = u
}

// Size returns the number of itemsets remaining in the sequence.
func (s *Sequence) Size() int {
	return len(s.Itemsets)
}

func sortItemsetAscending(items []Item, utilities []float64) {
	// insertion sort: itemsets are small, and this keeps items/utilities
	// moving together without an extra index slice.
	for i := 1; i < len(items); i++ {
		it, u := items[i], utilities[i]
		j := i - 1
		for j >= 0 && items[j] > it {
			items[j+1] = items[j]
			utilities[j+1] = utilities[j]
			j--
		}
		items[j+1] = it
		utilities[j+1] = u
	}
}
