package ranges

import "github.com/behrlich/poker-solver/pkg/cards"

// Manager is the range manager's public contract (spec §4.2): per-board
// range storage, forward reach-probability projection, backward utility
// mapping, canonical-alias merging, and the per-street next-card menu a
// chance node deals from.
type Manager interface {
	// Range returns the filtered, (on the river) rank-sorted combinations
	// reachable at board.
	Range(board Board) Range

	// NextReach projects a parent-street reach vector into child-board
	// order: childReach[i] = parentReach[mapping[i]].
	NextReach(childBoard Board, parentReach []float32) []float32

	// MapUtilityBackwards accumulates a child-board utility vector into a
	// pre-sized parent-order accumulator: parentAccum[mapping[i]] += childUtil[i].
	MapUtilityBackwards(childBoard Board, childUtil []float32, parentAccum []float32)

	// MergeCanonicalUtilities overwrites every alias hand's utility with its
	// canonical representative's, so subsequent backward-mapping sees the
	// same value at every physical-hand slot. A no-op for the Default
	// manager, which has no aliases.
	MergeCanonicalUtilities(board Board, util []float32)

	// NextCards returns the canonical next-card menu and multiplicities for
	// a chance node rooted at board (street 1 deals the turn, street 2 the
	// river).
	NextCards(board Board, street uint8) (nextCards []uint8, weights []int8)

	// StartingCombinations returns the seed range, for output serialization.
	StartingCombinations() Range
}

// core holds the projection machinery shared by DefaultManager and
// IsomorphicManager: both precompute one Range and one forward-mapping
// table per reachable board, and differ only in how the flop/turn range is
// built (isomorphic bucketing or not) and in NextCards.
type core struct {
	startingCombinations Range
	rangesByBoard        map[uint64]Range
	mapping              map[uint64][]int
}

func newCore(starting Range) *core {
	return &core{
		startingCombinations: starting,
		rangesByBoard:        make(map[uint64]Range),
		mapping:              make(map[uint64][]int),
	}
}

func (c *core) Range(board Board) Range {
	r, ok := c.rangesByBoard[board.key()]
	if !ok {
		panic("ranges: no range precomputed for board")
	}
	return r
}

func (c *core) StartingCombinations() Range {
	return c.startingCombinations
}

func (c *core) NextReach(childBoard Board, parentReach []float32) []float32 {
	mapping := c.mapping[childBoard.key()]
	childReach := make([]float32, len(mapping))
	for i, parentIdx := range mapping {
		childReach[i] = parentReach[parentIdx]
	}
	return childReach
}

func (c *core) MapUtilityBackwards(childBoard Board, childUtil []float32, parentAccum []float32) {
	mapping := c.mapping[childBoard.key()]
	for i, parentIdx := range mapping {
		parentAccum[parentIdx] += childUtil[i]
	}
}

// evaluateRiverHands scores every combination against a complete board and
// returns a copy sorted ascending by rank, plus the permutation applied
// (needed so a caller-held mapping table can be permuted in lockstep).
func evaluateRiverHands(combos Range, board Board) (Range, []int) {
	var boardCards [5]cards.Card
	for i, c := range board {
		boardCards[i] = cards.FromIndex(c)
	}

	hands := make(Range, len(combos))
	for i, combo := range combos {
		hole := [2]cards.Card{cards.FromIndex(combo.Hand[0]), cards.FromIndex(combo.Hand[1])}
		hands[i] = combo
		hands[i].Rank = cards.EvaluateRank(hole, boardCards)
	}

	order := make([]int, len(hands))
	for i := range order {
		order[i] = i
	}
	// stable insertion sort by rank: ranges here are small enough (<=1326)
	// that an allocation-light sort keeps the hot path simple.
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && hands[order[j-1]].Rank > hands[order[j]].Rank {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}

	sorted := make(Range, len(hands))
	for i, idx := range order {
		sorted[i] = hands[idx]
	}
	return sorted, order
}
