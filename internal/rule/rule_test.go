package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DSI-Lab1/USRule/internal/sequence"
)

func TestRuleString(t *testing.T) {
	r := Rule{
		Antecedent: []sequence.Item{1, 2},
		Consequent: []sequence.Item{3},
		Utility:    10,
		Support:    4,
		Confidence: 0.75,
	}
	assert.Equal(t, "1,2 ==> 3 (util=10.0000, sup=4, conf=0.7500)", r.String())
}

func TestSliceSinkCollects(t *testing.T) {
	s := &SliceSink{}
	assert.NoError(t, s.Emit(Rule{Antecedent: []sequence.Item{1}, Consequent: []sequence.Item{2}}))
	assert.NoError(t, s.Emit(Rule{Antecedent: []sequence.Item{2}, Consequent: []sequence.Item{3}}))
	assert.Len(t, s.Rules, 2)
}
