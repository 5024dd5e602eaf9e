package sidlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArraySidListAddDedupesConsecutive(t *testing.T) {
	a := NewArraySidList()
	a.Add(1)
	a.Add(1)
	a.Add(3)
	a.Add(3)
	a.Add(5)
	assert.Equal(t, []int{1, 3, 5}, a.Ids())
	assert.Equal(t, 3, a.Size())
}

func TestBitsetSidListAddAndSize(t *testing.T) {
	b := NewBitsetSidList()
	b.Add(0)
	b.Add(64)
	b.Add(130)
	assert.Equal(t, 3, b.Size())
	assert.Equal(t, []int{0, 64, 130}, b.Ids())
}

func TestArraySidListIntersection(t *testing.T) {
	a := NewArraySidList()
	for _, id := range []int{1, 2, 3, 5, 8} {
		a.Add(id)
	}
	b := NewArraySidList()
	for _, id := range []int{2, 3, 4, 8, 9} {
		b.Add(id)
	}
	got := a.Intersection(b)
	assert.Equal(t, []int{2, 3, 8}, got.Ids())
}

func TestBitsetSidListIntersection(t *testing.T) {
	a := NewBitsetSidList()
	for _, id := range []int{0, 64, 65, 200} {
		a.Add(id)
	}
	b := NewBitsetSidList()
	for _, id := range []int{64, 65, 300} {
		b.Add(id)
	}
	got := a.Intersection(b)
	assert.Equal(t, []int{64, 65}, got.Ids())
}

func TestNewFactory(t *testing.T) {
	assert.IsType(t, &BitsetSidList{}, New(true))
	assert.IsType(t, &ArraySidList{}, New(false))
}
