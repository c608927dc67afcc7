package tree

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
)

// ChanceNode deals one more board card. Its children are one subgame per
// canonical next card, weighted by suit-isomorphism multiplicity.
// Grounded on original_source/src/nodes/chance_node.rs.
type ChanceNode struct {
	street    uint8 // 1 = dealing the turn, 2 = dealing the river
	nextNodes []Node
	NextCards []uint8
	weights   []int8
	parallel  bool
}

// NewChanceNode builds a ChanceNode rooted at board, dealing the turn
// (street 1) or river (street 2). Children are added with AddChild in the
// same order as NextCards.
func NewChanceNode(rm ranges.Manager, board ranges.Board, street uint8, parallel bool) *ChanceNode {
	nextCards, weights := rm.NextCards(board, street)
	return &ChanceNode{street: street, NextCards: nextCards, weights: weights, parallel: parallel}
}

// AddChild appends the subgame for NextCards[len(nextNodes)].
func (n *ChanceNode) AddChild(child Node) {
	n.nextNodes = append(n.nextNodes, child)
}

func (n *ChanceNode) childBoard(board ranges.Board, card uint8) ranges.Board {
	b := board
	if n.street == 1 {
		b[3] = card
	} else {
		b[4] = card
	}
	return b
}

func (n *ChanceNode) CFRTraversal(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	result := make([]float32, t.GetNumHandsForTraverser(board))

	subResults, err := n.evalChildren(t, oppReach, board, func(node Node, nextBoard ranges.Board, nextReach []float32) []float32 {
		return node.CFRTraversal(t, nextReach, nextBoard)
	})
	if err != nil {
		panic(err) // evalChildren's thunks never return error; defensive only
	}

	mergeSubgameResults(result, n.weights, subResults)
	n.normalize(t, board, result)
	return result
}

func (n *ChanceNode) BestResponse(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	result := make([]float32, t.GetNumHandsForTraverser(board))

	subResults, err := n.evalChildren(t, oppReach, board, func(node Node, nextBoard ranges.Board, nextReach []float32) []float32 {
		return node.BestResponse(t, nextReach, nextBoard)
	})
	if err != nil {
		panic(err)
	}

	mergeSubgameResults(result, n.weights, subResults)
	n.normalize(t, board, result)
	return result
}

// evalChildren projects oppReach into each child's board, evaluates the
// child (serially or, when n.parallel, across a worker pool since sibling
// subgames are disjoint Action-node subtrees), and maps each child's
// utility back into parent order. Grounded on spec §5's concurrency model.
func (n *ChanceNode) evalChildren(t *traversal.Traversal, oppReach []float32, board ranges.Board, eval func(Node, ranges.Board, []float32) []float32) ([][]float32, error) {
	numHands := t.GetNumHandsForTraverser(board)
	subResults := make([][]float32, len(n.nextNodes))

	work := func(i int) {
		nextBoard := n.childBoard(board, n.NextCards[i])
		nextReach := t.GetNextReachProbs(nextBoard, oppReach)
		childUtil := eval(n.nextNodes[i], nextBoard, nextReach)
		mapped := make([]float32, numHands)
		t.MapUtilityBackwards(nextBoard, childUtil, mapped)
		subResults[i] = mapped
	}

	if !n.parallel {
		for i := range n.nextNodes {
			work(i)
		}
		return subResults, nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range n.nextNodes {
		i := i
		g.Go(func() error {
			work(i)
			return nil
		})
	}
	return subResults, g.Wait()
}

func mergeSubgameResults(result []float32, weights []int8, subResults [][]float32) {
	for i, sub := range subResults {
		w := float32(weights[i])
		for h, v := range sub {
			result[h] += w * v
		}
	}
}

func (n *ChanceNode) normalize(t *traversal.Traversal, board ranges.Board, result []float32) {
	divisor := float32(45.0)
	if n.street == 2 {
		divisor = 44.0
	}

	hands := t.GetRangeForActivePlayer(board)
	for i, h := range hands {
		if h.Weight != 0 {
			result[i] /= divisor * float32(h.Weight)
		}
	}

	t.MergeCanonicalUtilities(board, result)
}

func (n *ChanceNode) OutputResult() *NodeResult {
	nextCards := n.NextCards
	var children []*NodeResult
	if n.street != 2 {
		// river chance nodes omit their child list to bound output size (spec §6)
		children = collectChildResults(n.nextNodes)
	}
	return &NodeResult{
		NodeType:  NodeResultChance,
		NextCards: nextCards,
		NextNodes: children,
	}
}
