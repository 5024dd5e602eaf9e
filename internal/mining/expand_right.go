package mining

import (
	"github.com/DSI-Lab1/USRule/internal/sequence"
	"github.com/DSI-Lab1/USRule/internal/sidlist"
)

// expandRight grows the consequent of the rule antecedent=>consequent by
// one item, scanning every row of table for candidate items after beta
// (Region A, same-or-later itemsets than beta) and between alpha and beta
// (Region B, where a candidate might currently be counted in ULeft,
// ULeftRight or URight depending on its relationship to the largest
// antecedent/consequent items already fixed).
func (e *Engine) expandRight(table *RETable, antecedent, consequent []sequence.Item, sidsAntecedent sidlist.SidList) error {
	e.Stats.ExpandCount++
	largestAnt := antecedent[len(antecedent)-1]
	largestCons := consequent[len(consequent)-1]

	childTables := make(map[sequence.Item]*RETable)
	rsu := make(map[sequence.Item]float64)

	for i := range table.Rows {
		row := &table.Rows[i]
		table.REEU -= row.REEU
		if row.ULeft+row.URight+row.ULeftRight == 0 {
			continue
		}
		seq := e.DB.Get(row.Sid)

		// Region A: itemsets from beta onward.
		for i2 := row.Beta; i2 < len(seq.Itemsets); i2++ {
			itemset := seq.Itemsets[i2]
			for j, itemJ := range itemset.Items {
				if itemJ <= largestCons {
					continue
				}
				if _, ok := e.reucm(largestAnt, itemJ); !ok {
					continue
				}
				rsu[itemJ] += row.REEU
				if rsu[itemJ]+table.REEU < e.MinUtil {
					continue
				}
				profit := itemset.Utilities[j]
				newRow := RERow{
					Sid:        row.Sid,
					Util:       row.Util + profit,
					ULeft:      row.ULeft,
					ULeftRight: row.ULeftRight,
					URight:     row.URight - profit,
					Alpha:      row.Alpha,
					Beta:       row.Beta,
				}
				for z := row.Beta; z < len(seq.Itemsets); z++ {
					itemsetZ := seq.Itemsets[z]
					for w := len(itemsetZ.Items) - 1; w >= 0; w-- {
						itemW := itemsetZ.Items[w]
						if itemW <= largestCons {
							break
						}
						if itemW < itemJ {
							newRow.URight -= itemsetZ.Utilities[w]
						}
					}
				}
				newRow.computeBounds()
				e.childRETable(childTables, itemJ).Add(newRow)
			}
		}

		// Region B: itemsets strictly between alpha and beta.
		var sumULeftSoFar, sumULeftRightSoFar float64
		for i2 := row.Beta - 1; i2 > row.Alpha; i2-- {
			itemset := seq.Itemsets[i2]
			for j, itemJ := range itemset.Items {
				profit := itemset.Utilities[j]
				switch {
				case itemJ > largestAnt && itemJ < largestCons:
					sumULeftSoFar += profit
				case itemJ > largestCons && itemJ < largestAnt:
					e.expandRightRegionBRight(table, row, seq, itemJ, profit, i2, largestAnt, largestCons, sumULeftSoFar, sumULeftRightSoFar, rsu, childTables)
				case itemJ > largestAnt && itemJ > largestCons:
					e.expandRightRegionBLeftRight(table, row, seq, itemJ, profit, i2, largestAnt, largestCons, sumULeftSoFar, sumULeftRightSoFar, rsu, childTables)
					sumULeftRightSoFar += profit
				}
			}
		}
	}

	for item, childTable := range childTables {
		newConsSize := len(consequent) + 1
		shouldExpandLeft := childTable.LEEU >= e.MinUtil && len(antecedent) < e.MaxAntecedentSize
		shouldExpandRight := childTable.REEU >= e.MinUtil && newConsSize < e.MaxConsequentSize
		isHighUtility := childTable.TotalUtility >= e.MinUtil

		newConsequent := cloneAppend(consequent, item)
		confidence := float64(len(childTable.Rows)) / float64(sidsAntecedent.Size())

		if isHighUtility && confidence >= e.MinConfidence {
			if err := e.emit(antecedent, newConsequent, childTable.TotalUtility, float64(len(childTable.Rows)), confidence); err != nil {
				return err
			}
		}
		if shouldExpandLeft {
			if err := e.expandFirstLeft(childTable, antecedent, newConsequent, sidsAntecedent); err != nil {
				return err
			}
		}
		if shouldExpandRight {
			if err := e.expandRight(childTable, antecedent, newConsequent, sidsAntecedent); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandRightRegionBRight handles a Region B item that can only extend the
// consequent (it is greater than largestCons but less than largestAnt).
func (e *Engine) expandRightRegionBRight(
	table *RETable, row *RERow, seq *sequence.Sequence,
	itemJ sequence.Item, profit float64, i2 int,
	largestAnt, largestCons sequence.Item,
	sumULeftSoFar, sumULeftRightSoFar float64,
	rsu map[sequence.Item]float64, childTables map[sequence.Item]*RETable,
) {
	if _, ok := e.reucm(largestAnt, itemJ); !ok {
		return
	}
	rsu[itemJ] += row.REEU
	if rsu[itemJ]+table.REEU < e.MinUtil {
		return
	}
	newRow := RERow{
		Sid:        row.Sid,
		Util:       row.Util + profit,
		ULeft:      row.ULeft - sumULeftSoFar,
		ULeftRight: row.ULeftRight - sumULeftRightSoFar,
		Alpha:      row.Alpha,
		Beta:       i2,
	}
	var sumRightSmaller, sumLeftRightSmaller float64
	for z := i2; z < row.Beta; z++ {
		itemsetZ := seq.Itemsets[z]
		for w, itemW := range itemsetZ.Items {
			isRight := itemW > largestCons && itemW < largestAnt
			isLeftRight := itemW > largestAnt && itemW > largestCons
			if isRight && itemW < itemJ {
				sumRightSmaller += itemsetZ.Utilities[w]
			} else if isLeftRight && itemW > itemJ {
				sumLeftRightSmaller += itemsetZ.Utilities[w]
			}
		}
	}
	newRow.URight = row.URight - profit + sumLeftRightSmaller - sumRightSmaller
	newRow.computeBounds()
	e.childRETable(childTables, itemJ).Add(newRow)
}

// expandRightRegionBLeftRight handles a Region B item that could extend
// either side (greater than both largestAnt and largestCons). The item's
// profit is folded into the running ULeftRight total by the caller
// regardless of whether a child table ends up built for it.
func (e *Engine) expandRightRegionBLeftRight(
	table *RETable, row *RERow, seq *sequence.Sequence,
	itemJ sequence.Item, profit float64, i2 int,
	largestAnt, largestCons sequence.Item,
	sumULeftSoFar, sumULeftRightSoFar float64,
	rsu map[sequence.Item]float64, childTables map[sequence.Item]*RETable,
) {
	if _, ok := e.reucm(largestAnt, itemJ); !ok {
		return
	}
	rsu[itemJ] += row.REEU
	if rsu[itemJ]+table.REEU < e.MinUtil {
		return
	}
	newRow := RERow{
		Sid:        row.Sid,
		Util:       row.Util + profit,
		ULeft:      row.ULeft - sumULeftSoFar,
		ULeftRight: row.ULeftRight - profit - sumULeftRightSoFar,
		Alpha:      row.Alpha,
		Beta:       i2,
	}
	var sumRightSmaller float64
	for z := i2; z < row.Beta; z++ {
		itemsetZ := seq.Itemsets[z]
		for w, itemW := range itemsetZ.Items {
			if itemW > itemJ {
				break
			}
			if itemW > largestCons && itemW < largestAnt {
				sumRightSmaller += itemsetZ.Utilities[w]
			}
		}
	}
	newRow.URight = row.URight - sumRightSmaller
	newRow.computeBounds()
	e.childRETable(childTables, itemJ).Add(newRow)
}
