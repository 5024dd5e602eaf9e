// Package driver orchestrates a full mining run: validating the
// configuration, loading and preprocessing the database, running the
// expansion engine, and collecting run statistics. Grounded on
// AlgoUSRule.java's runAlgorithm and on cmd/pattern-app.go's outer
// validate-then-run structure.
package driver

import (
	"io"
	"runtime"
	"time"

	"github.com/VividCortex/gohistogram"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/DSI-Lab1/USRule/internal/ioformat"
	"github.com/DSI-Lab1/USRule/internal/mining"
	"github.com/DSI-Lab1/USRule/internal/preprocess"
	"github.com/DSI-Lab1/USRule/internal/rule"
)

// Sentinel contract-validation errors. Validate and Run return them
// unwrapped, so library callers can match on them with errors.Is;
// cmd/usrule logs them and exits non-zero.
var (
	ErrInvalidConfidence = errors.New("driver: minConfidence must be within [0,1]")
	ErrInvalidSize       = errors.New("driver: maxAntecedentSize and maxConsequentSize must each be >= 1")
	ErrMissingInput      = errors.New("driver: input reader is required")
	ErrMissingOutput     = errors.New("driver: output writer is required")
)

// minUtilFloor is substituted for a configured MinUtil <= 0: a utility
// threshold of exactly zero would accept every rule with non-negative
// utility, including the vacuous zero-utility ones, which defeats the
// purpose of the threshold.
const minUtilFloor = 0.001

// histogramBinCount bounds the number of bins the utility/confidence
// histograms merge down to.
const histogramBinCount = 64

// Config holds everything one mining run needs.
type Config struct {
	Input  io.Reader
	Output io.Writer

	MinUtil           float64
	MinConfidence     float64
	MaxAntecedentSize int
	MaxConsequentSize int
	MaxSequenceCount  int // 0 = unlimited

	UseBitset           bool
	MaxRemoveTimes      int
	DeactivateStrategy1 bool
	DeactivateStrategy2 bool
}

// Validate checks the configuration's contract before any I/O happens.
func (c Config) Validate() error {
	if c.Input == nil {
		return ErrMissingInput
	}
	if c.Output == nil {
		return ErrMissingOutput
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return ErrInvalidConfidence
	}
	if c.MaxAntecedentSize < 1 || c.MaxConsequentSize < 1 {
		return ErrInvalidSize
	}
	return nil
}

// Stats summarizes a completed run.
type Stats struct {
	RunID          string
	RuleCount      int
	ExpandCount    int
	Elapsed        time.Duration
	MaxMemoryMB    float64
	UtilityMean    float64
	ConfidenceMean float64
}

// Run validates cfg, loads and preprocesses the database, mines it, and
// writes every accepted rule to cfg.Output.
func Run(cfg Config) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}

	runID := uuid.New().String()
	start := time.Now()
	logger := log.WithFields(log.Fields{"runID": runID})

	minUtil := cfg.MinUtil
	if minUtil <= 0 {
		minUtil = minUtilFloor
	}

	db, err := ioformat.Load(cfg.Input, cfg.MaxSequenceCount)
	if err != nil {
		return Stats{}, errors.Wrap(err, "driver: loading sequence database")
	}
	logger.WithFields(log.Fields{"sequences": db.Size()}).Info("loaded sequence database")

	pp := &preprocess.Preprocessor{
		MinUtil:             minUtil,
		MaxRemoveTimes:      cfg.MaxRemoveTimes,
		DeactivateStrategy1: cfg.DeactivateStrategy1,
		DeactivateStrategy2: cfg.DeactivateStrategy2,
		UseBitset:           cfg.UseBitset,
	}
	result, err := pp.Run(db)
	if err != nil {
		return Stats{}, errors.Wrap(err, "driver: preprocessing")
	}
	dbStats := db.Stats()
	logger.WithFields(log.Fields{
		"survivingSequences": dbStats.SequenceCount,
		"survivingItems":     dbStats.DistinctItems,
		"seeds":              len(result.Seeds),
	}).Info("preprocessing complete")

	sink := ioformat.NewFileSink(cfg.Output)
	utilHist := gohistogram.NewHistogram(histogramBinCount)
	confHist := gohistogram.NewHistogram(histogramBinCount)

	stats := &mining.Stats{}
	engine := &mining.Engine{
		DB:                db,
		REUCM:             result.REUCM,
		ItemSIDs:          result.ItemSIDs,
		MinUtil:           minUtil,
		MinConfidence:     cfg.MinConfidence,
		MaxAntecedentSize: cfg.MaxAntecedentSize,
		MaxConsequentSize: cfg.MaxConsequentSize,
		Sink:              sink,
		Stats:             stats,
		OnEmit: func(utility, confidence float64) {
			utilHist.Add(utility)
			confHist.Add(confidence)
		},
	}

	for _, seed := range result.Seeds {
		if err := engine.MineSeed(seed.X, seed.Y, seed.SidList); err != nil {
			return Stats{}, errors.Wrap(err, "driver: mining")
		}
	}

	if err := sink.Close(); err != nil {
		return Stats{}, errors.Wrap(err, "driver: flushing rule output")
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	out := Stats{
		RunID:       runID,
		RuleCount:   stats.RuleCount,
		ExpandCount: stats.ExpandCount,
		Elapsed:     time.Since(start),
		MaxMemoryMB: float64(mem.TotalAlloc) / (1024 * 1024),
	}
	if stats.RuleCount > 0 {
		out.UtilityMean = utilHist.Mean()
		out.ConfidenceMean = confHist.Mean()
	}

	logger.WithFields(log.Fields{
		"rules":      out.RuleCount,
		"expansions": out.ExpandCount,
		"elapsed":    out.Elapsed,
		"maxMemMB":   out.MaxMemoryMB,
	}).Info("mining run complete")

	return out, nil
}

var _ rule.Sink = (*ioformat.FileSink)(nil)
