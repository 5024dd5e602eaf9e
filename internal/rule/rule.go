// Package rule defines the accepted-rule record produced by the mining
// engine and the Sink interface through which rules are emitted.
package rule

import (
	"fmt"
	"strings"

	"github.com/DSI-Lab1/USRule/internal/sequence"
)

// Rule is a high-utility sequential rule X => Y together with the
// measurements that qualified it.
type Rule struct {
	Antecedent []sequence.Item
	Consequent []sequence.Item
	Utility    float64
	Support    float64
	Confidence float64
}

// String renders the rule as a log-line summary: comma-separated
// antecedent, "==>", comma-separated consequent.
func (r Rule) String() string {
	return fmt.Sprintf("%s ==> %s (util=%.4f, sup=%.0f, conf=%.4f)",
		joinItems(r.Antecedent), joinItems(r.Consequent), r.Utility, r.Support, r.Confidence)
}

func joinItems(items []sequence.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%d", it)
	}
	return strings.Join(parts, ",")
}

// Sink receives every rule the expansion engine accepts. Implementations
// must be safe to call repeatedly from a single goroutine; the engine never
// calls a Sink concurrently.
type Sink interface {
	Emit(r Rule) error
}

// SliceSink is a Sink that collects rules into memory, used by tests and by
// any caller that wants the full result set in hand rather than streamed.
type SliceSink struct {
	Rules []Rule
}

// Emit appends r.
func (s *SliceSink) Emit(r Rule) error {
	s.Rules = append(s.Rules, r)
	return nil
}
