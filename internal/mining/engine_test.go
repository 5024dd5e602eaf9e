package mining

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DSI-Lab1/USRule/internal/rule"
	"github.com/DSI-Lab1/USRule/internal/sequence"
	"github.com/DSI-Lab1/USRule/internal/sidlist"
)

// buildFixture returns a two-sequence database:
//
//	sid0: {1:1} {2:2} {3:3}
//	sid1: {1:1} {2:2}
//
// together with the item-id index and a REUCM entry letting 1=>2 grow its
// consequent to include item 3.
func buildFixture(t *testing.T) (*sequence.SequenceDB, map[sequence.Item]sidlist.SidList, map[sequence.Item]map[sequence.Item]float64) {
	t.Helper()
	db := sequence.NewSequenceDB()

	s0 := sequence.NewSequence()
	assert.NoError(t, s0.AppendItemset([]sequence.Item{1}, []float64{1}))
	assert.NoError(t, s0.AppendItemset([]sequence.Item{2}, []float64{2}))
	assert.NoError(t, s0.AppendItemset([]sequence.Item{3}, []float64{3}))
	db.Add(s0)

	s1 := sequence.NewSequence()
	assert.NoError(t, s1.AppendItemset([]sequence.Item{1}, []float64{1}))
	assert.NoError(t, s1.AppendItemset([]sequence.Item{2}, []float64{2}))
	db.Add(s1)

	itemOne := sidlist.NewArraySidList()
	itemOne.Add(0)
	itemOne.Add(1)

	itemSIDs := map[sequence.Item]sidlist.SidList{1: itemOne}
	reucm := map[sequence.Item]map[sequence.Item]float64{
		1: {3: 1}, // presence is all that matters for REUCP; value is unused.
	}
	return db, itemSIDs, reucm
}

func TestMineSeedEmitsSeedAndGrowsConsequent(t *testing.T) {
	db, itemSIDs, reucm := buildFixture(t)
	seedSids := itemSIDs[1] // 1 precedes 2 in both sequences containing 1.

	sink := &rule.SliceSink{}
	e := &Engine{
		DB:                db,
		REUCM:             reucm,
		ItemSIDs:          itemSIDs,
		MinUtil:           1,
		MinConfidence:     0.5,
		MaxAntecedentSize: 1,
		MaxConsequentSize: 2,
		Sink:              sink,
		Stats:             &Stats{},
	}

	err := e.MineSeed(1, 2, seedSids)
	assert.NoError(t, err)

	assert.Len(t, sink.Rules, 2)

	byConsLen := map[int]rule.Rule{}
	for _, r := range sink.Rules {
		byConsLen[len(r.Consequent)] = r
	}

	seed := byConsLen[1]
	assert.Equal(t, []sequence.Item{1}, seed.Antecedent)
	assert.Equal(t, []sequence.Item{2}, seed.Consequent)
	assert.Equal(t, float64(6), seed.Utility)
	assert.Equal(t, float64(2), seed.Support)
	assert.Equal(t, float64(1), seed.Confidence)

	grown := byConsLen[2]
	assert.Equal(t, []sequence.Item{1}, grown.Antecedent)
	assert.Equal(t, []sequence.Item{2, 3}, grown.Consequent)
	assert.Equal(t, float64(6), grown.Utility)
	assert.Equal(t, float64(1), grown.Support)
	assert.Equal(t, float64(0.5), grown.Confidence)
}

func TestMineSeedRespectsMaxSizeOneBoundary(t *testing.T) {
	db, itemSIDs, reucm := buildFixture(t)
	seedSids := itemSIDs[1]

	sink := &rule.SliceSink{}
	e := &Engine{
		DB:                db,
		REUCM:             reucm,
		ItemSIDs:          itemSIDs,
		MinUtil:           1,
		MinConfidence:     0.5,
		MaxAntecedentSize: 1,
		MaxConsequentSize: 1,
		Sink:              sink,
		Stats:             &Stats{},
	}

	err := e.MineSeed(1, 2, seedSids)
	assert.NoError(t, err)
	assert.Len(t, sink.Rules, 1, "no recursion should happen once both sizes are capped at 1")
	assert.Equal(t, []sequence.Item{2}, sink.Rules[0].Consequent)
}

func TestMineSeedRejectsLowConfidenceSeed(t *testing.T) {
	db, itemSIDs, reucm := buildFixture(t)
	seedSids := itemSIDs[1]

	sink := &rule.SliceSink{}
	e := &Engine{
		DB:                db,
		REUCM:             reucm,
		ItemSIDs:          itemSIDs,
		MinUtil:           1,
		MinConfidence:     1.1, // unreachable, proves the confidence gate is enforced.
		MaxAntecedentSize: 1,
		MaxConsequentSize: 1,
		Sink:              sink,
		Stats:             &Stats{},
	}

	err := e.MineSeed(1, 2, seedSids)
	assert.NoError(t, err)
	assert.Empty(t, sink.Rules)
}

// buildLeftExpansionFixture returns a two-sequence database:
//
//	sid0, sid1: {1:5, 2:5, 4:5} {3:5}
//
// wide enough for the antecedent 1 to grow left twice, first to {1,2} (via
// expandFirstLeft) and then to {1,2,4} (via expandSecondLeft), or to stop
// after one expansion at {1,4}.
func buildLeftExpansionFixture(t *testing.T) (*sequence.SequenceDB, map[sequence.Item]sidlist.SidList, map[sequence.Item]map[sequence.Item]float64) {
	t.Helper()
	db := sequence.NewSequenceDB()
	for i := 0; i < 2; i++ {
		s := sequence.NewSequence()
		assert.NoError(t, s.AppendItemset([]sequence.Item{1, 2, 4}, []float64{5, 5, 5}))
		assert.NoError(t, s.AppendItemset([]sequence.Item{3}, []float64{5}))
		db.Add(s)
	}

	itemSIDs := make(map[sequence.Item]sidlist.SidList)
	for _, it := range []sequence.Item{1, 2, 3, 4} {
		list := sidlist.NewArraySidList()
		list.Add(0)
		list.Add(1)
		itemSIDs[it] = list
	}

	reucm := map[sequence.Item]map[sequence.Item]float64{
		2: {3: 1},
		4: {3: 1},
	}
	return db, itemSIDs, reucm
}

func TestMineSeedGrowsAntecedentThroughFirstAndSecondLeftExpansion(t *testing.T) {
	db, itemSIDs, reucm := buildLeftExpansionFixture(t)

	sink := &rule.SliceSink{}
	e := &Engine{
		DB:                db,
		REUCM:             reucm,
		ItemSIDs:          itemSIDs,
		MinUtil:           15,
		MinConfidence:     1.0,
		MaxAntecedentSize: 3,
		MaxConsequentSize: 1,
		Sink:              sink,
		Stats:             &Stats{},
	}

	err := e.MineSeed(1, 3, itemSIDs[1])
	assert.NoError(t, err)

	byAntecedent := map[string]rule.Rule{}
	key := func(items []sequence.Item) string {
		s := ""
		for _, it := range items {
			s += fmt.Sprintf("%d,", it)
		}
		return s
	}
	for _, r := range sink.Rules {
		byAntecedent[key(r.Antecedent)] = r
	}

	seed := byAntecedent[key([]sequence.Item{1})]
	assert.Equal(t, []sequence.Item{3}, seed.Consequent)
	assert.Equal(t, float64(20), seed.Utility)
	assert.Equal(t, float64(1), seed.Confidence)

	firstLeft := byAntecedent[key([]sequence.Item{1, 2})]
	assert.Equal(t, float64(30), firstLeft.Utility)
	assert.Equal(t, float64(2), firstLeft.Support)
	assert.Equal(t, float64(1), firstLeft.Confidence)

	firstLeftOther := byAntecedent[key([]sequence.Item{1, 4})]
	assert.Equal(t, float64(30), firstLeftOther.Utility)

	secondLeft := byAntecedent[key([]sequence.Item{1, 2, 4})]
	assert.Equal(t, []sequence.Item{3}, secondLeft.Consequent)
	assert.Equal(t, float64(40), secondLeft.Utility)
	assert.Equal(t, float64(2), secondLeft.Support)
	assert.Equal(t, float64(1), secondLeft.Confidence)
}
