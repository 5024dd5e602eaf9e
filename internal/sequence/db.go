package sequence

// SequenceDB is the in-memory sequence-id -> Sequence mapping. Ids are
// insertion-order indices while sequences are still being loaded. During
// preprocessing, sequences that become empty are dropped and the remaining
// sequences are compacted, so ids may shift while preprocessing runs; once
// preprocessing ends, ids are frozen and every other component treats them
// as stable.
type SequenceDB struct {
	sequences []*Sequence
}

// NewSequenceDB returns an empty database.
func NewSequenceDB() *SequenceDB {
	return &SequenceDB{}
}

// Add appends seq and returns its (current) sequence id.
func (db *SequenceDB) Add(seq *Sequence) int {
	db.sequences = append(db.sequences, seq)
	return len(db.sequences) - 1
}

// Size returns the number of sequences currently in the database.
func (db *SequenceDB) Size() int {
	return len(db.sequences)
}

// Get returns the sequence for id. Panics on an out-of-range id, matching
// the rest of the package's assumption that callers only use ids handed
// back by Add or obtained by iterating the database.
func (db *SequenceDB) Get(id int) *Sequence {
	return db.sequences[id]
}

// ExactUtility returns the exact utility of the sequence with the given id.
func (db *SequenceDB) ExactUtility(id int) float64 {
	return db.sequences[id].ExactUtility
}

// Sequences returns the underlying sequence slice for read-only iteration.
// The index of each element is its current sequence id.
func (db *SequenceDB) Sequences() []*Sequence {
	return db.sequences
}

// Stats summarizes the database, used for end-of-preprocessing logging.
type Stats struct {
	SequenceCount  int
	DistinctItems  int
	MaxSequenceLen int
	TotalUtility   float64
}

// Stats computes summary statistics over the current contents.
func (db *SequenceDB) Stats() Stats {
	var s Stats
	s.SequenceCount = len(db.sequences)
	items := make(map[Item]bool)
	for _, seq := range db.sequences {
		if seq.Size() > s.MaxSequenceLen {
			s.MaxSequenceLen = seq.Size()
		}
		s.TotalUtility += seq.ExactUtility
		for _, itemset := range seq.Itemsets {
			for _, it := range itemset.Items {
				items[it] = true
			}
		}
	}
	s.DistinctItems = len(items)
	return s
}

// PruneItems removes every item for which unpromising reports true from
// every itemset of every sequence, cascades the removal to drop any itemset
// left empty, and drops any sequence left with no itemsets at all. The
// database is compacted in place so that the surviving sequences occupy
// consecutive ids starting at 0, in their original relative order. It
// returns, for each surviving sequence (in its new id order), the total
// utility removed from it by this call.
func (db *SequenceDB) PruneItems(unpromising func(Item) bool) []float64 {
	survivors := db.sequences[:0]
	removedUtils := make([]float64, 0, len(db.sequences))
	for _, seq := range db.sequences {
		removed := seq.removeItems(unpromising)
		seq.removeEmptyItemsets()
		if seq.Size() == 0 {
			continue
		}
		survivors = append(survivors, seq)
		removedUtils = append(removedUtils, removed)
	}
	db.sequences = survivors
	return removedUtils
}

// removeItems deletes every item matching unpromising from every itemset of
// the sequence, decrements the sequence's exact utility accordingly, and
// returns the total utility removed.
func (s *Sequence) removeItems(unpromising func(Item) bool) float64 {
	var removed float64
	for idx := range s.Itemsets {
		itemset := &s.Itemsets[idx]
		keepItems := itemset.Items[:0]
		keepUtils := itemset.Utilities[:0]
		for k, it := range itemset.Items {
			if unpromising(it) {
				removed += itemset.Utilities[k]
				continue
			}
			keepItems = append(keepItems, it)
			keepUtils = append(keepUtils, itemset.Utilities[k])
		}
		itemset.Items = keepItems
		itemset.Utilities = keepUtils
	}
	s.ExactUtility -= removed
	return removed
}

// removeEmptyItemsets drops every itemset left with no items.
func (s *Sequence) removeEmptyItemsets() {
	kept := s.Itemsets[:0]
	for _, itemset := range s.Itemsets {
		if len(itemset.Items) > 0 {
			kept = append(kept, itemset)
		}
	}
	s.Itemsets = kept
}
