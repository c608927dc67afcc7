package tree

import (
	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
)

// AllInShowdownNode is reached when both players are already all-in before
// the river: there is no more betting, only runouts to enumerate and
// average. Grounded on
// original_source/src/nodes/all_in_showdown_node.rs.
type AllInShowdownNode struct {
	winUtility float32
	street     uint8 // 1 = flop-to-river (enumerate turn x river), 2 = turn-to-river
}

// NewAllInShowdownNode builds an AllInShowdownNode for the given pot and
// the street action stopped on.
func NewAllInShowdownNode(potSize float32, street uint8) *AllInShowdownNode {
	return &AllInShowdownNode{winUtility: potSize / 2.0, street: street}
}

func (n *AllInShowdownNode) CFRTraversal(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	return n.utility(t, oppReach, board)
}

func (n *AllInShowdownNode) BestResponse(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	return n.utility(t, oppReach, board)
}

func (n *AllInShowdownNode) OutputResult() *NodeResult { return nil }

// utility enumerates every remaining runout and averages the showdown
// utility (spec §4.4). Street 1 enumerates ordered (turn, river>turn) pairs
// and divides by 990 = 45*44/2; street 2 enumerates 48 rivers and divides
// by 44.
func (n *AllInShowdownNode) utility(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	hands := t.GetRangeForActivePlayer(board)
	utility := make([]float32, t.GetNumHandsForTraverser(board))

	if n.street == 1 {
		for turn := uint8(0); turn < 52; turn++ {
			if overlapsBoardCard(turn, board) {
				continue
			}
			turnBoard := board
			turnBoard[3] = turn

			turnReach := t.GetNextReachProbs(turnBoard, oppReach)
			turnUtility := make([]float32, len(turnReach))

			for river := turn + 1; river < 52; river++ {
				if overlapsBoardCard(river, turnBoard) {
					continue
				}
				riverBoard := turnBoard
				riverBoard[4] = river

				riverReach := t.GetNextReachProbs(riverBoard, turnReach)
				riverHands := t.GetRangeForActivePlayer(riverBoard)
				riverUtility := showdownUtility(riverHands, riverReach, n.winUtility)
				t.MapUtilityBackwards(riverBoard, riverUtility, turnUtility)
			}

			turnBoard[4] = 52
			turnHands := t.GetRangeForActivePlayer(turnBoard)
			for i, h := range turnHands {
				if h.Weight != 0 {
					turnUtility[i] /= float32(h.Weight)
				}
			}
			t.MergeCanonicalUtilities(turnBoard, turnUtility)
			t.MapUtilityBackwards(turnBoard, turnUtility, utility)
		}

		for i, h := range hands {
			utility[i] /= 990.0 * float32(h.Weight)
		}
	} else {
		for river := uint8(0); river < 52; river++ {
			if overlapsBoardCard(river, board) {
				continue
			}
			riverBoard := board
			riverBoard[4] = river

			riverReach := t.GetNextReachProbs(riverBoard, oppReach)
			riverHands := t.GetRangeForOpponent(riverBoard)
			riverUtility := showdownUtility(riverHands, riverReach, n.winUtility)
			t.MapUtilityBackwards(riverBoard, riverUtility, utility)
		}

		for i, h := range hands {
			utility[i] /= 44.0 * float32(h.Weight)
		}
	}

	t.MergeCanonicalUtilities(board, utility)
	return utility
}

func overlapsBoardCard(card uint8, board ranges.Board) bool {
	for _, c := range board {
		if c == card {
			return true
		}
	}
	return false
}
