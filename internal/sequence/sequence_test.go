package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendItemsetSortsAscending(t *testing.T) {
	s := NewSequence()
	err := s.AppendItemset([]Item{3, 1, 2}, []float64{30, 10, 20})
	assert.NoError(t, err)
	assert.Equal(t, []Item{1, 2, 3}, s.Itemsets[0].Items)
	assert.Equal(t, []float64{10, 20, 30}, s.Itemsets[0].Utilities)
	assert.Equal(t, float64(60), s.ExactUtility)
}

func TestAppendItemsetRejectsMismatchedLengths(t *testing.T) {
	s := NewSequence()
	err := s.AppendItemset([]Item{1, 2}, []float64{10})
	assert.Error(t, err)
}

func TestAppendItemsetRejectsEmpty(t *testing.T) {
	s := NewSequence()
	err := s.AppendItemset(nil, nil)
	assert.Error(t, err)
}

func TestSetExactUtilityOverride(t *testing.T) {
	s := NewSequence()
	_ = s.AppendItemset([]Item{1}, []float64{5})
	s.SetExactUtility(99)
	assert.Equal(t, float64(99), s.ExactUtility)
}
