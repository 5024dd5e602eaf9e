package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildDB(t *testing.T) *SequenceDB {
	t.Helper()
	db := NewSequenceDB()

	s1 := NewSequence()
	assert.NoError(t, s1.AppendItemset([]Item{1, 2}, []float64{5, 10}))
	assert.NoError(t, s1.AppendItemset([]Item{3}, []float64{7}))
	db.Add(s1)

	s2 := NewSequence()
	assert.NoError(t, s2.AppendItemset([]Item{2}, []float64{2}))
	db.Add(s2)

	s3 := NewSequence()
	assert.NoError(t, s3.AppendItemset([]Item{1, 3}, []float64{1, 1}))
	db.Add(s3)

	return db
}

func TestSequenceDBStats(t *testing.T) {
	db := buildDB(t)
	stats := db.Stats()
	assert.Equal(t, 3, stats.SequenceCount)
	assert.Equal(t, 3, stats.DistinctItems)
	assert.Equal(t, 2, stats.MaxSequenceLen)
	assert.Equal(t, float64(5+10+7+2+1+1), stats.TotalUtility)
}

func TestPruneItemsCascadesToEmptySequence(t *testing.T) {
	db := buildDB(t)
	// Removing item 2 empties sequence 1 (the old id 1, "2" alone).
	removed := db.PruneItems(func(it Item) bool { return it == 2 })

	assert.Equal(t, 2, db.Size(), "sequence containing only item 2 should be dropped")
	// Surviving sequences, in original relative order: old seq0 (lost item 2's
	// utility=10) then old seq2 (unaffected).
	assert.Equal(t, []float64{10, 0}, removed)
	assert.Equal(t, []Item{1}, db.Get(0).Itemsets[0].Items)
	assert.Equal(t, float64(5+7), db.Get(0).ExactUtility)
	assert.Equal(t, []Item{1, 3}, db.Get(1).Itemsets[0].Items)
}

func TestPruneItemsNoOp(t *testing.T) {
	db := buildDB(t)
	removed := db.PruneItems(func(Item) bool { return false })
	assert.Equal(t, 3, db.Size())
	assert.Equal(t, []float64{0, 0, 0}, removed)
}
