package tmrank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termaid/termaid/tmlayouts/tmrank"
)

func TestLinearChain(t *testing.T) {
	ranks := tmrank.Assign(
		[]string{"A", "B", "C"},
		map[string][]string{"B": {"A"}, "C": {"B"}},
	)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2}, ranks)
}

func TestFanOut(t *testing.T) {
	ranks := tmrank.Assign(
		[]string{"A", "B", "C"},
		map[string][]string{"B": {"A"}, "C": {"A"}},
	)
	assert.Equal(t, 0, ranks["A"])
	assert.Equal(t, 1, ranks["B"])
	assert.Equal(t, 1, ranks["C"])
}

func TestFanIn(t *testing.T) {
	ranks := tmrank.Assign(
		[]string{"A", "B", "C"},
		map[string][]string{"C": {"A", "B"}},
	)
	assert.Equal(t, 0, ranks["A"])
	assert.Equal(t, 0, ranks["B"])
	assert.Equal(t, 1, ranks["C"])
}

// The longest predecessor chain wins, not the shortest.
func TestLongestPath(t *testing.T) {
	ranks := tmrank.Assign(
		[]string{"A", "B", "D"},
		map[string][]string{"B": {"A"}, "D": {"A", "B"}},
	)
	assert.Equal(t, 2, ranks["D"])
}

func TestEdgeRanksIncrease(t *testing.T) {
	preds := map[string][]string{"B": {"A"}, "C": {"B", "A"}, "D": {"C"}}
	ranks := tmrank.Assign([]string{"A", "B", "C", "D"}, preds)
	for to, from := range map[string]string{"B": "A", "C": "B", "D": "C"} {
		assert.Greater(t, ranks[to], ranks[from])
	}
}

// A cycle terminates instead of recursing forever; the in-progress node
// counts as rank 0.
func TestCycleTerminates(t *testing.T) {
	ranks := tmrank.Assign(
		[]string{"A", "B"},
		map[string][]string{"A": {"B"}, "B": {"A"}},
	)
	assert.Len(t, ranks, 2)
}

func TestGrouped(t *testing.T) {
	ranks := map[string]int{"A": 0, "B": 1, "C": 1}
	groups := tmrank.Grouped([]string{"A", "B", "C"}, ranks)
	assert.Equal(t, [][]string{{"A"}, {"B", "C"}}, groups)
}
