package tree

import (
	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
)

// TerminalNode is reached when a player folds: the other player takes the
// pot uncontested. Grounded on original_source/src/nodes/terminal_node.rs.
type TerminalNode struct {
	winUtility float32
	playerNode uint8 // the player who did NOT fold (the winner)
}

// NewTerminalNode builds a fold-terminal awarding potSize to playerNode.
func NewTerminalNode(potSize float32, playerNode uint8) *TerminalNode {
	return &TerminalNode{winUtility: potSize / 2.0, playerNode: playerNode}
}

func (n *TerminalNode) CFRTraversal(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	return n.utility(t, oppReach, board)
}

func (n *TerminalNode) BestResponse(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	return n.utility(t, oppReach, board)
}

func (n *TerminalNode) OutputResult() *NodeResult { return nil }

func (n *TerminalNode) utility(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	oppHands := t.GetRangeForOpponent(board)

	util := n.winUtility
	if t.Traverser != n.playerNode {
		util = -n.winUtility
	}

	return terminalUtility(util, oppReach, oppHands)
}

// terminalUtility computes the fold-EV against a single range/reach pair
// (spec §4.3's inclusion-exclusion pattern specialized to a fold: there is
// no rank comparison, every live opponent combo simply loses winUtility to
// the folder). Grounded on terminal_utility in
// original_source/src/nodes/terminal_node.rs.
func terminalUtility(winUtility float32, oppReach []float32, hands ranges.Range) []float32 {
	n := len(hands)
	utility := make([]float32, n)
	var cardRemoval [52]float32
	var probabilitySum float32

	for i, h := range hands {
		p := oppReach[i]
		if p > 0 {
			probabilitySum += p
			cardRemoval[h.Hand[0]] += p
			cardRemoval[h.Hand[1]] += p
		}
	}

	for i, h := range hands {
		utility[i] = (probabilitySum - cardRemoval[h.Hand[0]] - cardRemoval[h.Hand[1]] + oppReach[i]) * winUtility
	}

	return utility
}
