package tree

import (
	"math"

	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
)

// ActionNode is a betting decision: one of numActions children, each
// carrying per-hand regret and (average) strategy accumulators laid out
// action-major (length numHands*numActions). Grounded on
// original_source/src/nodes/action_node.rs, stripped of its
// architecture-specific SIMD fast paths -- the fallback strategy/regret/
// strategy-sum math below is the algorithm spec §4.6 names as the
// reference implementation for any width.
type ActionNode struct {
	PlayerNode uint8
	numHands   int
	numActions int
	PotSize    float32
	IPStack    float32
	OOPStack   float32

	nextNodes []Node

	regretAccumulator   []float32
	strategyAccumulator []float32

	nodeEv []float32 // set only after a persist_evs best-response pass
}

// NewActionNode builds an ActionNode with no children yet; call AddChild
// for each action in order, then InitVectors once all children are added.
func NewActionNode(playerNode uint8, numHands int, potSize, ipStack, oopStack float32) *ActionNode {
	return &ActionNode{
		PlayerNode: playerNode,
		numHands:   numHands,
		PotSize:    potSize,
		IPStack:    ipStack,
		OOPStack:   oopStack,
	}
}

// AddChild appends an action (bet size, call, check, or fold branch).
func (n *ActionNode) AddChild(child Node) {
	n.numActions++
	n.nextNodes = append(n.nextNodes, child)
}

// InitVectors allocates the regret/strategy accumulators once numActions is
// final. Must be called after every AddChild for this node.
func (n *ActionNode) InitVectors() {
	size := n.numHands * n.numActions
	n.regretAccumulator = make([]float32, size)
	n.strategyAccumulator = make([]float32, size)
}

func (n *ActionNode) CFRTraversal(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	nodeUtility := make([]float32, t.GetNumHandsForTraverser(board))
	if t.Traverser == n.PlayerNode {
		n.traverserCFR(t, oppReach, nodeUtility, board)
	} else {
		n.opponentCFR(t, oppReach, nodeUtility, board)
	}
	return nodeUtility
}

func (n *ActionNode) traverserCFR(t *traversal.Traversal, oppReach []float32, nodeUtility []float32, board ranges.Board) {
	actionUtility := make([][]float32, n.numActions)
	strategies := n.getStrategy()

	for a := 0; a < n.numActions; a++ {
		offset := a * n.numHands
		result := n.nextNodes[a].CFRTraversal(t, oppReach, board)
		strategySlice := strategies[offset : offset+n.numHands]

		for h := range nodeUtility {
			nodeUtility[h] += strategySlice[h] * result[h]
		}
		actionUtility[a] = result
	}

	n.regretSumUpdate(t, actionUtility, nodeUtility)
}

func (n *ActionNode) opponentCFR(t *traversal.Traversal, oppReach []float32, nodeUtility []float32, board ranges.Board) {
	strategies := n.getStrategy()

	for a := 0; a < n.numActions; a++ {
		offset := a * n.numHands
		strategySlice := strategies[offset : offset+n.numHands]
		nextReach := make([]float32, len(oppReach))
		for h := range nextReach {
			nextReach[h] = strategySlice[h] * oppReach[h]
		}

		result := n.nextNodes[a].CFRTraversal(t, nextReach, board)
		for h := range nodeUtility {
			nodeUtility[h] += result[h]
		}
	}

	n.strategySumUpdate(t, oppReach, strategies)
}

func (n *ActionNode) BestResponse(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	if n.PlayerNode == t.Traverser {
		return n.bestResponseMaximize(t, oppReach, board)
	}
	return n.bestResponseFixStrategy(t, oppReach, board)
}

func (n *ActionNode) bestResponseMaximize(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	bestEV := make([]float32, n.numHands)
	var nodeEVs []float32

	for a := 0; a < n.numActions; a++ {
		nextEV := n.nextNodes[a].BestResponse(t, oppReach, board)
		if t.PersistEvs {
			nodeEVs = append(nodeEVs, nextEV...)
		}
		for h, v := range nextEV {
			if a == 0 || v > bestEV[h] {
				bestEV[h] = v
			}
		}
	}

	if t.PersistEvs {
		n.persistEVs(t, oppReach, board, nodeEVs)
	}

	return bestEV
}

// persistEVs normalizes the recorded per-action EVs by the opponent's
// effective reach at each hand and adds the pot (spec §4.7), so the final
// dump reports chips won including the pot already committed.
func (n *ActionNode) persistEVs(t *traversal.Traversal, oppReach []float32, board ranges.Board, nodeEVs []float32) {
	oppHands := t.GetRangeForOpponent(board)
	var cardRemoval [52]float32
	var probabilitySum float32

	for i, p := range oppReach {
		if p > 0 {
			probabilitySum += p
			h := oppHands[i]
			cardRemoval[h.Hand[0]] += p
			cardRemoval[h.Hand[1]] += p
		}
	}

	for i := range nodeEVs {
		h := oppHands[i%len(oppHands)]
		denom := probabilitySum - cardRemoval[h.Hand[0]] - cardRemoval[h.Hand[1]] + oppReach[i%len(oppHands)]
		nodeEVs[i] = nodeEVs[i]/denom + n.PotSize
	}

	n.nodeEv = nodeEVs
}

func (n *ActionNode) bestResponseFixStrategy(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32 {
	nodeEV := make([]float32, t.GetNumHandsForTraverser(board))
	averageStrategy := n.GetAverageStrategy()

	for a := 0; a < n.numActions; a++ {
		offset := a * n.numHands
		strategySlice := averageStrategy[offset : offset+n.numHands]
		nextReach := make([]float32, len(oppReach))
		for h := range nextReach {
			nextReach[h] = strategySlice[h] * oppReach[h]
		}

		actionEV := n.nextNodes[a].BestResponse(t, nextReach, board)
		for h, v := range actionEV {
			nodeEV[h] += v
		}
	}

	return nodeEV
}

func (n *ActionNode) OutputResult() *NodeResult {
	return &NodeResult{
		NodeType:     NodeResultAction,
		NodeStrategy: n.GetAverageStrategy(),
		NodeEv:       n.nodeEv,
		NextNodes:    collectChildResults(n.nextNodes),
	}
}

// getStrategy computes the regret-matching strategy (spec §4.6): for each
// hand, proportional to positive regret, uniform when all regrets are
// non-positive. Specialized for 1-3 actions (the common cases), falling
// back to a general loop above that.
func (n *ActionNode) getStrategy() []float32 {
	nums := n.numActions * n.numHands
	if n.numActions == 1 {
		strategy := make([]float32, nums)
		for i := range strategy {
			strategy[i] = 1.0
		}
		return strategy
	}

	strategy := make([]float32, nums)

	switch n.numActions {
	case 2:
		r0 := n.regretAccumulator[0:n.numHands]
		r1 := n.regretAccumulator[n.numHands : 2*n.numHands]
		for h := 0; h < n.numHands; h++ {
			switch {
			case r0[h] > 0 && r1[h] > 0:
				sum := r0[h] + r1[h]
				strategy[h] = r0[h] / sum
				strategy[n.numHands+h] = r1[h] / sum
			case r0[h] > 0:
				strategy[h] = 1.0
			case r1[h] > 0:
				strategy[n.numHands+h] = 1.0
			default:
				strategy[h] = 0.5
				strategy[n.numHands+h] = 0.5
			}
		}
	case 3:
		r0 := n.regretAccumulator[0:n.numHands]
		r1 := n.regretAccumulator[n.numHands : 2*n.numHands]
		r2 := n.regretAccumulator[2*n.numHands : 3*n.numHands]
		for h := 0; h < n.numHands; h++ {
			switch {
			case r0[h] > 0 && r1[h] > 0 && r2[h] > 0:
				sum := r0[h] + r1[h] + r2[h]
				strategy[h] = r0[h] / sum
				strategy[n.numHands+h] = r1[h] / sum
				strategy[2*n.numHands+h] = r2[h] / sum
			case r0[h] > 0 && r1[h] > 0:
				sum := r0[h] + r1[h]
				strategy[h] = r0[h] / sum
				strategy[n.numHands+h] = r1[h] / sum
			case r0[h] > 0 && r2[h] > 0:
				sum := r0[h] + r2[h]
				strategy[h] = r0[h] / sum
				strategy[2*n.numHands+h] = r2[h] / sum
			case r1[h] > 0 && r2[h] > 0:
				sum := r1[h] + r2[h]
				strategy[n.numHands+h] = r1[h] / sum
				strategy[2*n.numHands+h] = r2[h] / sum
			case r0[h] > 0:
				strategy[h] = 1.0
			case r1[h] > 0:
				strategy[n.numHands+h] = 1.0
			case r2[h] > 0:
				strategy[2*n.numHands+h] = 1.0
			default:
				strategy[h] = 1.0 / 3.0
				strategy[n.numHands+h] = 1.0 / 3.0
				strategy[2*n.numHands+h] = 1.0 / 3.0
			}
		}
	default:
		probability := float32(1.0 / float64(n.numActions))
		for h := 0; h < n.numHands; h++ {
			var normalizing float32
			for a := 0; a < n.numActions; a++ {
				if r := n.regretAccumulator[h+a*n.numHands]; r > 0 {
					normalizing += r
				}
			}
			if normalizing > 0 {
				for a := 0; a < n.numActions; a++ {
					if r := n.regretAccumulator[h+a*n.numHands]; r > 0 {
						strategy[h+a*n.numHands] = r / normalizing
					}
				}
			} else {
				for a := 0; a < n.numActions; a++ {
					strategy[h+a*n.numHands] = probability
				}
			}
		}
	}

	return strategy
}

// GetAverageStrategy normalizes the strategy accumulator per hand (spec
// §4.7): the object reported to users as the trained strategy.
func (n *ActionNode) GetAverageStrategy() []float32 {
	nums := n.numActions * n.numHands
	avg := make([]float32, nums)

	for h := 0; h < n.numHands; h++ {
		var normalizing float32
		for a := 0; a < n.numActions; a++ {
			normalizing += n.strategyAccumulator[h+a*n.numHands]
		}

		if normalizing > 0 {
			for a := 0; a < n.numActions; a++ {
				avg[h+a*n.numHands] = n.strategyAccumulator[h+a*n.numHands] / normalizing
			}
		} else {
			probability := float32(1.0 / float64(n.numActions))
			for a := 0; a < n.numActions; a++ {
				avg[h+a*n.numHands] = probability
			}
		}
	}

	return avg
}

// regretSumUpdate applies discounted CFR+ (spec §4.6/§9): positive regret
// is scaled by alpha/(alpha+1) with alpha = iteration^1.45; negative
// regret is halved.
func (n *ActionNode) regretSumUpdate(t *traversal.Traversal, actionUtility [][]float32, nodeUtility []float32) {
	alpha := math.Pow(float64(t.Iteration), 1.45)
	positiveMultiplier := float32(alpha / (alpha + 1.0))
	const negativeMultiplier = 0.5

	for a, util := range actionUtility {
		offset := a * n.numHands
		for h := 0; h < n.numHands; h++ {
			regret := n.regretAccumulator[offset+h] + (util[h] - nodeUtility[h])
			if regret > 0 {
				regret *= positiveMultiplier
			} else {
				regret *= negativeMultiplier
			}
			n.regretAccumulator[offset+h] = regret
		}
	}
}

// strategySumUpdate accumulates this iteration's strategy into the
// running average, applying the round-shrink (0.98) and the (t/(t+1))^2
// discount (spec §4.6/§9).
func (n *ActionNode) strategySumUpdate(t *traversal.Traversal, oppReach []float32, strategies []float32) {
	it := float64(t.Iteration)
	strategyMultiplier := float32(math.Pow(it/(it+1.0), 2))
	const roundMultiplier = 0.98

	for a := 0; a < n.numActions; a++ {
		offset := a * n.numHands
		for h := 0; h < n.numHands; h++ {
			sum := n.strategyAccumulator[offset+h]
			sum = (sum*roundMultiplier + strategies[offset+h]*oppReach[h]) * strategyMultiplier
			n.strategyAccumulator[offset+h] = sum
		}
	}
}
