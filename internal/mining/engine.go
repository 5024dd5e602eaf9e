package mining

import (
	"github.com/DSI-Lab1/USRule/internal/rule"
	"github.com/DSI-Lab1/USRule/internal/sequence"
	"github.com/DSI-Lab1/USRule/internal/sidlist"
)

// Stats accumulates counters the driver reports once a run finishes.
type Stats struct {
	RuleCount   int
	ExpandCount int
}

// Engine runs the pruning-and-expansion search over a preprocessed
// database, the REUCM, and the item-id index, emitting every qualifying
// rule to Sink.
//
// Bound-check convention: everywhere a side (antecedent or consequent) is
// about to grow from size L to L+1, the gate is "the relevant upper bound
// is still >= MinUtil, and L < the configured max for that side" — applied
// uniformly whether L is 1 (the seed phase) or the result of a prior
// expansion. AlgoUSRule.java applies this gate inconsistently (sometimes
// "max > 1", sometimes "L+1 < max"); this engine normalizes to the single
// rule above so maxAntecedentSize/maxConsequentSize behave as inclusive
// caps rather than off-by-one traps.
type Engine struct {
	DB       *sequence.SequenceDB
	REUCM    map[sequence.Item]map[sequence.Item]float64
	ItemSIDs map[sequence.Item]sidlist.SidList

	MinUtil           float64
	MinConfidence     float64
	MaxAntecedentSize int
	MaxConsequentSize int

	Sink  rule.Sink
	Stats *Stats

	// OnEmit, if set, is called with every accepted rule's utility and
	// confidence before Sink.Emit runs, letting the driver feed a
	// statistics histogram without this package depending on one.
	OnEmit func(utility, confidence float64)
}

func (e *Engine) reucm(a, b sequence.Item) (float64, bool) {
	row, ok := e.REUCM[a]
	if !ok {
		return 0, false
	}
	v, ok := row[b]
	return v, ok
}

func (e *Engine) emit(antecedent, consequent []sequence.Item, utility, support, confidence float64) error {
	e.Stats.RuleCount++
	if e.OnEmit != nil {
		e.OnEmit(utility, confidence)
	}
	r := rule.Rule{
		Antecedent: append([]sequence.Item{}, antecedent...),
		Consequent: append([]sequence.Item{}, consequent...),
		Utility:    utility,
		Support:    support,
		Confidence: confidence,
	}
	return e.Sink.Emit(r)
}

// MineSeed builds the RE-table for the 1x1 rule x=>y over the sequences in
// sids, emits it if it qualifies, and recurses on either side when the
// corresponding upper bound and size cap allow it.
func (e *Engine) MineSeed(x, y sequence.Item, sids sidlist.SidList) error {
	table := e.buildSeedTable(x, y, sids)
	if len(table.Rows) == 0 {
		return nil
	}
	antecedent := []sequence.Item{x}
	consequent := []sequence.Item{y}

	supportX := float64(e.ItemSIDs[x].Size())
	supportXY := float64(len(table.Rows))
	confidence := supportXY / supportX

	if table.TotalUtility >= e.MinUtil && confidence >= e.MinConfidence {
		if err := e.emit(antecedent, consequent, table.TotalUtility, supportXY, confidence); err != nil {
			return err
		}
	}

	expandRightOK := table.REEU >= e.MinUtil && 1 < e.MaxConsequentSize
	expandLeftOK := table.LEEU >= e.MinUtil && 1 < e.MaxAntecedentSize

	if expandRightOK {
		if err := e.expandRight(table, antecedent, consequent, e.ItemSIDs[x]); err != nil {
			return err
		}
	}
	if expandLeftOK {
		if err := e.expandFirstLeft(table, antecedent, consequent, e.ItemSIDs[x]); err != nil {
			return err
		}
	}
	return nil
}

// buildSeedTable scans every sequence containing both x and y (as given by
// sids) and builds one RE-table row per sequence where x is followed,
// later in the sequence, by y.
func (e *Engine) buildSeedTable(x, y sequence.Item, sids sidlist.SidList) *RETable {
	table := &RETable{}
	for _, sid := range sids.Ids() {
		seq := e.DB.Get(sid)
		row := RERow{Sid: sid, Alpha: -1, Beta: -1}

		posAlphaItem := -1
	findAlpha:
		for i, itemset := range seq.Itemsets {
			for j, it := range itemset.Items {
				if it == x {
					row.Util += itemset.Utilities[j]
					row.Alpha = i
					posAlphaItem = j
					break findAlpha
				}
				if it > x {
					row.ULeft += itemset.Utilities[j]
				}
			}
		}
		if row.Alpha == -1 {
			continue
		}

		posBetaItem := -1
	findBeta:
		for i := len(seq.Itemsets) - 1; i > row.Alpha; i-- {
			itemset := seq.Itemsets[i]
			for j := len(itemset.Items) - 1; j >= 0; j-- {
				it := itemset.Items[j]
				if it == y {
					row.Util += itemset.Utilities[j]
					row.Beta = i
					posBetaItem = j
					break findBeta
				}
				if it > y {
					row.URight += itemset.Utilities[j]
				}
			}
		}
		if row.Beta == -1 {
			continue
		}

		alphaItemset := seq.Itemsets[row.Alpha]
		for j := posAlphaItem + 1; j < len(alphaItemset.Items); j++ {
			row.ULeft += alphaItemset.Utilities[j]
		}

		for i := row.Alpha + 1; i < row.Beta; i++ {
			itemset := seq.Itemsets[i]
			for j, it := range itemset.Items {
				switch {
				case it > x && it > y:
					row.ULeftRight += itemset.Utilities[j]
				case it > x:
					row.ULeft += itemset.Utilities[j]
				case it > y:
					row.URight += itemset.Utilities[j]
				}
			}
		}

		betaItemset := seq.Itemsets[row.Beta]
		for j := 0; j < posBetaItem; j++ {
			it := betaItemset.Items[j]
			if it > y {
				row.URight += betaItemset.Utilities[j]
			}
		}

		row.computeBounds()
		table.Add(row)
	}
	return table
}

func (e *Engine) childRETable(m map[sequence.Item]*RETable, item sequence.Item) *RETable {
	t, ok := m[item]
	if !ok {
		t = &RETable{}
		m[item] = t
	}
	return t
}

func (e *Engine) childLETable(m map[sequence.Item]*LETable, item sequence.Item) *LETable {
	t, ok := m[item]
	if !ok {
		t = &LETable{}
		m[item] = t
	}
	return t
}

func cloneAppend(items []sequence.Item, item sequence.Item) []sequence.Item {
	out := make([]sequence.Item, len(items)+1)
	copy(out, items)
	out[len(items)] = item
	return out
}
