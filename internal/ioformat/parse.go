// Package ioformat is the SequenceDB's load collaborator and the file-based
// RuleSink: it knows the text grammar for utility-annotated sequence
// databases on the way in, and the tab-separated rule format on the way
// out. Grounded on run_pattern_mine.go's bufio.Scanner-based line parsing.
package ioformat

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/DSI-Lab1/USRule/internal/sequence"
)

const suffixPrefix = "SUtility:"

// Load reads a sequence database from r. Each non-empty line is one
// sequence: whitespace-separated tokens where "-1" ends the current
// itemset, "-2" ends the sequence (any tokens after it on the same line are
// still parsed, to allow a trailing SUtility override), "item" or
// "item:utility" is an item (default utility 1 when omitted), and
// "SUtility:<real>" overrides the sequence's computed exact utility.
//
// maxSequences caps how many sequences are read; 0 means unlimited.
func Load(r io.Reader, maxSequences int) (*sequence.SequenceDB, error) {
	db := sequence.NewSequenceDB()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if maxSequences > 0 && db.Size() >= maxSequences {
			break
		}
		seq, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "ioformat: line %d", lineNum)
		}
		db.Add(seq)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ioformat: reading sequence database")
	}
	return db, nil
}

func parseLine(line string) (*sequence.Sequence, error) {
	tokens := strings.Fields(line)
	seq := sequence.NewSequence()

	var items []sequence.Item
	var utils []float64
	var explicitUtil *float64

	flush := func() error {
		if len(items) == 0 {
			return nil
		}
		if err := seq.AppendItemset(items, utils); err != nil {
			return err
		}
		items, utils = nil, nil
		return nil
	}

	for _, tok := range tokens {
		switch {
		case tok == "-1":
			if err := flush(); err != nil {
				return nil, err
			}
		case tok == "-2":
			if err := flush(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(tok, suffixPrefix):
			v, err := strconv.ParseFloat(strings.TrimPrefix(tok, suffixPrefix), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid SUtility value %q", tok)
			}
			explicitUtil = &v
		default:
			item, util, err := parseItemToken(tok)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			utils = append(utils, util)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if seq.Size() == 0 {
		return nil, errors.New("no itemsets in line")
	}
	if explicitUtil != nil {
		seq.SetExactUtility(*explicitUtil)
	}
	return seq, nil
}

func parseItemToken(tok string) (sequence.Item, float64, error) {
	parts := strings.SplitN(tok, ":", 2)
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid item %q", tok)
	}
	if id <= 0 {
		return 0, 0, errors.Errorf("item %q must be a positive integer", tok)
	}
	if len(parts) == 1 {
		return sequence.Item(id), 1, nil
	}
	util, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid utility in %q", tok)
	}
	if util <= 0 {
		return 0, 0, errors.Errorf("utility in %q must be positive", tok)
	}
	return sequence.Item(id), util, nil
}
