// Package preprocess computes the sequence-estimated-utility pruning pass
// (REURP), the item-to-sequence-id index, the rule estimated-utility
// co-occurrence map (REUCM), and the 1x1 seed pairs that the expansion
// engine grows from. Grounded on AlgoUSRule.java's runAlgorithm
// preprocessing block, translated into a standalone collaborator that
// mutates a sequence.SequenceDB in place rather than inlining everything
// into one monolithic method the way the original does.
package preprocess

import (
	log "github.com/sirupsen/logrus"

	"github.com/DSI-Lab1/USRule/internal/sequence"
	"github.com/DSI-Lab1/USRule/internal/sidlist"
)

// Preprocessor holds the tunables that the REURP pruning loop and the
// REUCP seed-filtering step need.
type Preprocessor struct {
	MinUtil             float64
	MaxRemoveTimes      int
	DeactivateStrategy1 bool // disables REURP item pruning when true
	DeactivateStrategy2 bool // keeps seed pairs below MinUtil when true; REUCM pruning still applies
	UseBitset           bool
}

// Seed is a candidate 1x1 rule (x => y) surviving REUCP, with its estimated
// utility and the sequence ids in which x occurs before y.
type Seed struct {
	X, Y     sequence.Item
	EstUtil  float64
	SidList  sidlist.SidList
}

// Result bundles everything downstream components need: the item-id index
// built after REURP settles, the REUCM used for co-occurrence pruning
// during expansion, and the surviving 1x1 seeds.
type Result struct {
	ItemSIDs map[sequence.Item]sidlist.SidList
	REUCM    map[sequence.Item]map[sequence.Item]float64
	Seeds    []Seed
}

// Run mutates db in place (removing unpromising items, then the itemsets
// and sequences that removal leaves empty) and returns the index, REUCM and
// seed set built from what remains.
func (p *Preprocessor) Run(db *sequence.SequenceDB) (*Result, error) {
	itemSEU := p.computeItemSEU(db)
	removeRounds := p.pruneByREURP(db, itemSEU)
	log.WithFields(log.Fields{
		"rounds":            removeRounds,
		"survivingItems":    len(itemSEU),
		"survivingSequences": db.Size(),
	}).Debug("preprocess: REURP settled")

	itemSIDs := p.buildItemIndex(db)
	reucm, seeds := p.buildCoOccurrence(db)

	log.WithFields(log.Fields{
		"reucmPairs": countPairs(reucm),
		"seeds":      len(seeds),
	}).Debug("preprocess: REUCM and seeds built")

	return &Result{ItemSIDs: itemSIDs, REUCM: reucm, Seeds: seeds}, nil
}

// computeItemSEU sums, for every item, the exact utility of every sequence
// it occurs in. Under the assumption that no item repeats within a
// sequence, each sequence contributes its exact utility to an item at most
// once.
func (p *Preprocessor) computeItemSEU(db *sequence.SequenceDB) map[sequence.Item]float64 {
	seu := make(map[sequence.Item]float64)
	for _, seq := range db.Sequences() {
		for _, itemset := range seq.Itemsets {
			for _, it := range itemset.Items {
				seu[it] += seq.ExactUtility
			}
		}
	}
	return seu
}

// pruneByREURP repeatedly removes items whose running SEU estimate falls
// below MinUtil, re-subtracting the utility carried away by each removal
// round from the SEU of the items that survive in the same sequences, until
// a round removes nothing or MaxRemoveTimes rounds have run. Returns the
// number of rounds it took.
func (p *Preprocessor) pruneByREURP(db *sequence.SequenceDB, itemSEU map[sequence.Item]float64) int {
	if p.DeactivateStrategy1 {
		return 0
	}
	removedInitially := false
	for it, seu := range itemSEU {
		if seu < p.MinUtil {
			delete(itemSEU, it)
			removedInitially = true
		}
	}
	if !removedInitially {
		return 0
	}

	unpromising := func(it sequence.Item) bool {
		_, ok := itemSEU[it]
		return !ok
	}

	rounds := 0
	for rounds < p.MaxRemoveTimes {
		removedAnyItem := false
		removedUtils := db.PruneItems(unpromising)
		for i, seq := range db.Sequences() {
			removed := removedUtils[i]
			if removed == 0 {
				continue
			}
			for _, itemset := range seq.Itemsets {
				for _, it := range itemset.Items {
					if _, ok := itemSEU[it]; !ok {
						continue
					}
					itemSEU[it] -= removed
					if itemSEU[it] < p.MinUtil {
						delete(itemSEU, it)
						removedAnyItem = true
					}
				}
			}
		}
		rounds++
		if !removedAnyItem {
			break
		}
	}
	return rounds
}

// buildItemIndex scans the (now-pruned, id-frozen) database once and
// records, for every item, the sids of every sequence containing it.
func (p *Preprocessor) buildItemIndex(db *sequence.SequenceDB) map[sequence.Item]sidlist.SidList {
	index := make(map[sequence.Item]sidlist.SidList)
	for sid, seq := range db.Sequences() {
		for _, itemset := range seq.Itemsets {
			for _, it := range itemset.Items {
				list, ok := index[it]
				if !ok {
					list = sidlist.New(p.UseBitset)
					index[it] = list
				}
				list.Add(sid)
			}
		}
	}
	return index
}

type seedAccum struct {
	estUtil float64
	sids    []int
}

// buildCoOccurrence makes a single pass over the database building both the
// REUCM (every ordered pair a,b with a before-or-alongside b, summed across
// sequences) and the 1x1 seed estimated-utility map (the same pairs, but
// only where a strictly precedes b in a later itemset), then applies REUCP:
// REUCM entries below MinUtil are always dropped, and seeds below MinUtil
// are dropped unless DeactivateStrategy2 is set.
func (p *Preprocessor) buildCoOccurrence(db *sequence.SequenceDB) (map[sequence.Item]map[sequence.Item]float64, []Seed) {
	reucm := make(map[sequence.Item]map[sequence.Item]float64)
	seedAccums := make(map[sequence.Item]map[sequence.Item]*seedAccum)

	addReucm := func(a, b sequence.Item, u float64) {
		row, ok := reucm[a]
		if !ok {
			row = make(map[sequence.Item]float64)
			reucm[a] = row
		}
		row[b] += u
	}
	addSeed := func(a, b sequence.Item, sid int, u float64) {
		row, ok := seedAccums[a]
		if !ok {
			row = make(map[sequence.Item]*seedAccum)
			seedAccums[a] = row
		}
		acc, ok := row[b]
		if !ok {
			acc = &seedAccum{}
			row[b] = acc
		}
		acc.estUtil += u
		acc.sids = append(acc.sids, sid)
	}

	for sid, seq := range db.Sequences() {
		for i, itemset := range seq.Itemsets {
			for j, x := range itemset.Items {
				for t := j + 1; t < len(itemset.Items); t++ {
					addReucm(x, itemset.Items[t], seq.ExactUtility)
				}
				for k := i + 1; k < len(seq.Itemsets); k++ {
					for _, y := range seq.Itemsets[k].Items {
						addReucm(x, y, seq.ExactUtility)
						addSeed(x, y, sid, seq.ExactUtility)
					}
				}
			}
		}
	}

	for a, row := range reucm {
		for b, u := range row {
			if u < p.MinUtil {
				delete(row, b)
			}
		}
		if len(row) == 0 {
			delete(reucm, a)
		}
	}

	var seeds []Seed
	for a, row := range seedAccums {
		for b, acc := range row {
			if !p.DeactivateStrategy2 && acc.estUtil < p.MinUtil {
				continue
			}
			list := sidlist.New(p.UseBitset)
			for _, sid := range acc.sids {
				list.Add(sid)
			}
			seeds = append(seeds, Seed{X: a, Y: b, EstUtil: acc.estUtil, SidList: list})
		}
	}

	return reucm, seeds
}

func countPairs(m map[sequence.Item]map[sequence.Item]float64) int {
	n := 0
	for _, row := range m {
		n += len(row)
	}
	return n
}
