package mining

import (
	"github.com/DSI-Lab1/USRule/internal/sequence"
	"github.com/DSI-Lab1/USRule/internal/sidlist"
)

// expandFirstLeft grows the antecedent of antecedent=>consequent by one
// item, starting from an RE-table (the seed table, or a table handed down
// from expandRight). It also records, per sequence id, the itemset index
// beta that bounds later left-only expansions (expandSecondLeft), since an
// RE-table's rows don't carry beta once the table itself is consumed here.
func (e *Engine) expandFirstLeft(table *RETable, antecedent, consequent []sequence.Item, sidsAntecedent sidlist.SidList) error {
	e.Stats.ExpandCount++
	largestAnt := antecedent[len(antecedent)-1]
	largestCons := consequent[len(consequent)-1]

	childTables := make(map[sequence.Item]*LETable)
	rsu := make(map[sequence.Item]float64)
	tableBeta := make(map[int]int, len(table.Rows))

	for i := range table.Rows {
		row := &table.Rows[i]
		table.LEEU -= row.LEEU
		tableBeta[row.Sid] = row.Beta
		if row.ULeft+row.ULeftRight == 0 {
			continue
		}
		seq := e.DB.Get(row.Sid)
		for i2 := 0; i2 < row.Beta; i2++ {
			itemset := seq.Itemsets[i2]
			for j, itemJ := range itemset.Items {
				if itemJ <= largestAnt {
					continue
				}
				if _, ok := e.reucm(itemJ, largestCons); !ok {
					continue
				}
				rsu[itemJ] += row.LEEU
				if rsu[itemJ]+table.LEEU < e.MinUtil {
					continue
				}
				profit := itemset.Utilities[j]
				newRow := LERow{
					Sid:   row.Sid,
					Util:  row.Util + profit,
					ULeft: row.ULeft + row.ULeftRight - profit,
				}
				for z := 0; z < row.Beta; z++ {
					itemsetZ := seq.Itemsets[z]
					for w := len(itemsetZ.Items) - 1; w >= 0; w-- {
						itemW := itemsetZ.Items[w]
						if itemW <= largestAnt {
							break
						}
						if itemW < itemJ {
							newRow.ULeft -= itemsetZ.Utilities[w]
						}
					}
				}
				newRow.computeBound()
				e.childLETable(childTables, itemJ).Add(newRow)
			}
		}
	}

	for item, childTable := range childTables {
		newAntSize := len(antecedent) + 1
		shouldExpandLeft := childTable.LEEU >= e.MinUtil && newAntSize < e.MaxAntecedentSize
		isHighUtility := childTable.Utility >= e.MinUtil

		var sidsNewAnt sidlist.SidList
		var confidence float64
		if shouldExpandLeft || isHighUtility {
			sidsNewAnt = sidsAntecedent.Intersection(e.ItemSIDs[item])
			confidence = float64(len(childTable.Rows)) / float64(sidsNewAnt.Size())
		}

		newAntecedent := cloneAppend(antecedent, item)
		if isHighUtility && confidence >= e.MinConfidence {
			if err := e.emit(newAntecedent, consequent, childTable.Utility, float64(len(childTable.Rows)), confidence); err != nil {
				return err
			}
		}
		if shouldExpandLeft {
			if err := e.expandSecondLeft(childTable, newAntecedent, consequent, sidsNewAnt, tableBeta); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandSecondLeft continues growing the antecedent of antecedent=>
// consequent by one item at a time, using an LE-table and the beta map
// expandFirstLeft built from the originating RE-table.
func (e *Engine) expandSecondLeft(table *LETable, antecedent, consequent []sequence.Item, sidsAntecedent sidlist.SidList, tableBeta map[int]int) error {
	e.Stats.ExpandCount++
	largestAnt := antecedent[len(antecedent)-1]
	largestCons := consequent[len(consequent)-1]

	childTables := make(map[sequence.Item]*LETable)
	rsu := make(map[sequence.Item]float64)

	for i := range table.Rows {
		row := &table.Rows[i]
		table.LEEU -= row.LEEU
		if row.ULeft == 0 {
			continue
		}
		seq := e.DB.Get(row.Sid)
		beta := tableBeta[row.Sid]
		for i2 := 0; i2 < beta; i2++ {
			itemset := seq.Itemsets[i2]
			for j, itemJ := range itemset.Items {
				if itemJ <= largestAnt {
					continue
				}
				if _, ok := e.reucm(itemJ, largestCons); !ok {
					continue
				}
				rsu[itemJ] += row.LEEU
				if rsu[itemJ]+table.LEEU < e.MinUtil {
					continue
				}
				profit := itemset.Utilities[j]
				newRow := LERow{
					Sid:   row.Sid,
					Util:  row.Util + profit,
					ULeft: row.ULeft - profit,
				}
				for z := 0; z < beta; z++ {
					itemsetZ := seq.Itemsets[z]
					for w := len(itemsetZ.Items) - 1; w >= 0; w-- {
						itemW := itemsetZ.Items[w]
						if itemW <= largestAnt {
							break
						}
						if itemW < itemJ {
							newRow.ULeft -= itemsetZ.Utilities[w]
						}
					}
				}
				newRow.computeBound()
				e.childLETable(childTables, itemJ).Add(newRow)
			}
		}
	}

	for item, childTable := range childTables {
		newAntSize := len(antecedent) + 1
		shouldExpandLeft := childTable.LEEU >= e.MinUtil && newAntSize < e.MaxAntecedentSize
		isHighUtility := childTable.Utility >= e.MinUtil

		var sidsNewAnt sidlist.SidList
		var confidence float64
		if shouldExpandLeft || isHighUtility {
			sidsNewAnt = sidsAntecedent.Intersection(e.ItemSIDs[item])
			confidence = float64(len(childTable.Rows)) / float64(sidsNewAnt.Size())
		}

		newAntecedent := cloneAppend(antecedent, item)
		if isHighUtility && confidence >= e.MinConfidence {
			if err := e.emit(newAntecedent, consequent, childTable.Utility, float64(len(childTable.Rows)), confidence); err != nil {
				return err
			}
		}
		if shouldExpandLeft {
			if err := e.expandSecondLeft(childTable, newAntecedent, consequent, sidsNewAnt, tableBeta); err != nil {
				return err
			}
		}
	}
	return nil
}
