package tree

import (
	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
)

// showdownUtility is the O(N) river showdown evaluator (spec §4.3): exact
// per-hand EV against a reach-probability vector using inclusion-exclusion
// on single-card blockers, swept over rank-sorted contiguous equal-rank
// runs. hands must be sorted ascending by Rank (as the range manager
// guarantees on the river) and reach must be aligned to hands.
//
// Grounded on original_source/src/nodes/showdown_node.rs's showdown().
func showdownUtility(hands ranges.Range, reach []float32, winUtility float32) []float32 {
	n := len(hands)
	utility := make([]float32, n)
	var cardRemoval [52]float32
	var sum float32

	for i, h := range hands {
		p := reach[i]
		if p > 0 {
			cardRemoval[h.Hand[0]] -= p
			cardRemoval[h.Hand[1]] -= p
			sum -= p
		}
	}

	i := 0
	for i < n {
		j := i + 1
		for j < n && hands[j].Rank == hands[i].Rank {
			j++
		}

		for k := i; k < j; k++ {
			p := reach[k]
			cardRemoval[hands[k].Hand[0]] += p
			cardRemoval[hands[k].Hand[1]] += p
			sum += p
		}

		for k := i; k < j; k++ {
			h := hands[k]
			utility[k] = winUtility * (sum - cardRemoval[h.Hand[0]] - cardRemoval[h.Hand[1]])
		}

		for k := i; k < j; k++ {
			p := reach[k]
			cardRemoval[hands[k].Hand[0]] += p
			cardRemoval[hands[k].Hand[1]] += p
			sum += p
		}

		i = j
	}

	return utility
}

// ShowdownNode is a river node where both players check/call to showdown:
// pot is split by hand rank. Grounded on
// original_source/src/nodes/showdown_node.rs.
type ShowdownNode struct {
	winUtility float32
}

// NewShowdownNode builds a ShowdownNode for the given final pot size.
func NewShowdownNode(potSize float32) *ShowdownNode {
	return &ShowdownNode{winUtility: potSize / 2.0}
}

func (n *ShowdownNode) CFRTraversal(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	return n.utility(t, oppReach, board)
}

func (n *ShowdownNode) BestResponse(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	return n.utility(t, oppReach, board)
}

func (n *ShowdownNode) OutputResult() *NodeResult { return nil }

func (n *ShowdownNode) utility(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	oppHands := t.GetRangeForOpponent(board)
	return showdownUtility(oppHands, oppReach, n.winUtility)
}
