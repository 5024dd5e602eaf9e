// Command usrule runs the high-utility sequential rule miner over a
// sequence database text file and writes every accepted rule to an output
// file.
//
// Sample usage:
//
//	go run ./cmd/usrule --input=db.txt --output=rules.txt --min_utility=40 \
//	    --min_confidence=0.5 --max_antecedent_size=2 --max_consequent_size=2
package main

import (
	"flag"
	"os"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/DSI-Lab1/USRule/internal/driver"
)

var (
	inputFlag             = flag.String("input", "", "Path to the sequence database text file.")
	outputFlag            = flag.String("output", "", "Path to write the discovered rules to.")
	minUtilFlag           = flag.Float64("min_utility", 0, "Minimum rule utility threshold.")
	minConfidenceFlag     = flag.Float64("min_confidence", 0.5, "Minimum rule confidence threshold, in [0,1].")
	maxAntecedentSizeFlag = flag.Int("max_antecedent_size", 0, "Maximum antecedent size; 0 means unbounded.")
	maxConsequentSizeFlag = flag.Int("max_consequent_size", 0, "Maximum consequent size; 0 means unbounded.")
	maxSequenceCountFlag  = flag.Int("max_sequence_count", 0, "Maximum number of sequences to read; 0 means unlimited.")
	useBitsetFlag         = flag.Bool("use_bitset", false, "Use bitset sequence-id sets instead of sorted arrays.")
)

// envDefaults holds deployment-overridable defaults, read from USRULE_*
// environment variables before flags are parsed.
type envDefaults struct {
	MaxRemoveTimes int `envconfig:"MAX_REMOVE_TIMES" default:"1000"`
}

func main() {
	var env envDefaults
	if err := envconfig.Process("USRULE", &env); err != nil {
		log.WithError(err).Error("failed to load environment configuration")
		os.Exit(1)
	}

	flag.Parse()

	if *inputFlag == "" || *outputFlag == "" {
		log.Error("--input and --output are required")
		os.Exit(1)
	}

	in, err := os.Open(*inputFlag)
	if err != nil {
		log.WithError(err).Error("failed to open input file")
		os.Exit(1)
	}
	defer in.Close()

	out, err := os.Create(*outputFlag)
	if err != nil {
		log.WithError(err).Error("failed to create output file")
		os.Exit(1)
	}
	defer out.Close()

	maxAnt := *maxAntecedentSizeFlag
	if maxAnt <= 0 {
		maxAnt = int(^uint(0) >> 1)
	}
	maxCons := *maxConsequentSizeFlag
	if maxCons <= 0 {
		maxCons = int(^uint(0) >> 1)
	}

	cfg := driver.Config{
		Input:             in,
		Output:            out,
		MinUtil:           *minUtilFlag,
		MinConfidence:     *minConfidenceFlag,
		MaxAntecedentSize: maxAnt,
		MaxConsequentSize: maxCons,
		MaxSequenceCount:  *maxSequenceCountFlag,
		UseBitset:         *useBitsetFlag,
		MaxRemoveTimes:    env.MaxRemoveTimes,
	}

	stats, err := driver.Run(cfg)
	if err != nil {
		log.WithError(err).Error("mining run failed")
		os.Exit(1)
	}

	log.WithFields(log.Fields{
		"runID":       stats.RunID,
		"rules":       stats.RuleCount,
		"expansions":  stats.ExpandCount,
		"elapsed":     stats.Elapsed,
		"maxMemoryMB": stats.MaxMemoryMB,
	}).Info("done")
}
