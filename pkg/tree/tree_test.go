package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
)

func riverBoard() ranges.Board {
	// Kc 7h 2d 9s 4c, encoded rank*4+suit with suit order c,d,h,s
	return ranges.Board{11*4 + 0, 5*4 + 2, 0*4 + 1, 7*4 + 3, 2*4 + 0}
}

func buildRandomTraversal(t *testing.T, board ranges.Board) *traversal.Traversal {
	tv, err := traversal.BuildFromRanges(board, "random", "random")
	assert.NoError(t, err)
	return tv
}

func TestShowdownUtilityIsZeroSum(t *testing.T) {
	board := riverBoard()
	tv := buildRandomTraversal(t, board)
	hands := tv.OopRM.Range(board)

	reach := make([]float32, len(hands))
	for i, h := range hands {
		reach[i] = h.Combos
	}

	util := showdownUtility(hands, reach, 50.0)

	var total float32
	for i, u := range util {
		total += reach[i] * u
	}
	assert.InDelta(t, 0.0, total, 1e-2)
}

func TestTerminalUtilityFormula(t *testing.T) {
	board := riverBoard()
	tv := buildRandomTraversal(t, board)
	hands := tv.OopRM.Range(board)

	reach := make([]float32, len(hands))
	for i := range reach {
		reach[i] = 1.0
	}

	util := terminalUtility(10.0, reach, hands)
	assert.Len(t, util, len(hands))
	for _, u := range util {
		assert.GreaterOrEqual(t, u, float32(0))
	}
}

func TestActionNodeStrategySumsToOne(t *testing.T) {
	board := riverBoard()
	numHands := 5
	node := NewActionNode(oopPlayer, numHands, 100, 200, 200)
	node.AddChild(NewShowdownNode(100))
	node.AddChild(NewShowdownNode(100))
	node.AddChild(NewShowdownNode(100))
	node.InitVectors()

	// seed some asymmetric regret so the non-uniform branch is exercised
	for h := 0; h < numHands; h++ {
		node.regretAccumulator[h] = float32(h)
		node.regretAccumulator[numHands+h] = float32(numHands - h)
	}

	strategy := node.getStrategy()
	for h := 0; h < numHands; h++ {
		var sum float32
		for a := 0; a < node.numActions; a++ {
			v := strategy[a*numHands+h]
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}

	_ = board
}

func TestAverageStrategySumsToOne(t *testing.T) {
	numHands := 3
	node := NewActionNode(oopPlayer, numHands, 100, 200, 200)
	node.AddChild(NewShowdownNode(100))
	node.AddChild(NewShowdownNode(100))
	node.InitVectors()

	// leave strategy_accumulator all-zero: exercises the uniform fallback
	avg := node.GetAverageStrategy()
	for h := 0; h < numHands; h++ {
		var sum float32
		for a := 0; a < node.numActions; a++ {
			sum += avg[a*numHands+h]
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}
}

func TestIsomorphicMergeCanonicalUtilitiesIdempotent(t *testing.T) {
	board := ranges.Board{11*4 + 0, 7*4 + 0, 3*4 + 0, 52, 52} // Kc 9c 5c: monotone flop
	tv := buildRandomTraversal(t, board)

	hands := tv.OopRM.Range(board)
	util := make([]float32, len(hands))
	for i, h := range hands {
		util[i] = float32(h.RawIndex % 7)
	}

	tv.OopRM.MergeCanonicalUtilities(board, util)
	snapshot := append([]float32{}, util...)
	tv.OopRM.MergeCanonicalUtilities(board, util)

	assert.Equal(t, snapshot, util)

	for i, h := range hands {
		if h.Weight == 0 {
			canonPos := -1
			for j, other := range hands {
				if other.RawIndex == h.CanonIndex && other.Weight != 0 {
					canonPos = j
					break
				}
			}
			if canonPos >= 0 {
				assert.Equal(t, util[canonPos], util[i])
			}
		}
	}
}
