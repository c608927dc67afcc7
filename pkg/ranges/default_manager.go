package ranges

// DefaultManager is the non-isomorphic range manager: it precomputes one
// filtered Range and one forward reach-probability mapping for every board
// reachable from the initial board, without collapsing suit-equivalent
// hands. Grounded on original_source/src/ranges/range_manager.rs's
// RangeManager (init_ranges_from_flop/turn/river).
type DefaultManager struct {
	*core
}

// NewDefaultManager builds a DefaultManager rooted at initialBoard,
// precomputing every descendant board's range eagerly (flop roots precompute
// every turn and river; turn roots precompute every river; river roots need
// nothing further).
func NewDefaultManager(starting Range, initialBoard Board) *DefaultManager {
	m := &DefaultManager{core: newCore(starting)}
	m.rangesByBoard[initialBoard.key()] = starting
	m.initialize(initialBoard)
	return m
}

func (m *DefaultManager) initialize(board Board) {
	switch {
	case !board.HasTurn():
		m.initFromFlop(board)
	case !board.HasRiver():
		m.initFromTurn(board)
	default:
		m.initFromRiver(board)
	}
}

func (m *DefaultManager) initFromFlop(board Board) {
	for turn := uint8(0); turn < 52; turn++ {
		if overlapsCard(turn, board) {
			continue
		}
		turnBoard := board
		turnBoard[3] = turn

		var turnHands Range
		mapping := make([]int, 0, len(m.startingCombinations))
		for parentIdx, combo := range m.startingCombinations {
			if overlapsHand(combo.Hand, turnBoard) {
				continue
			}
			turnHands = append(turnHands, NewCombination(combo.Hand, 0, combo.Combos))
			mapping = append(mapping, parentIdx)
		}
		m.mapping[turnBoard.key()] = mapping
		m.rangesByBoard[turnBoard.key()] = turnHands

		for river := uint8(0); river < 52; river++ {
			if overlapsCard(river, turnBoard) {
				continue
			}
			riverBoard := turnBoard
			riverBoard[4] = river

			var riverHands Range
			riverMapping := make([]int, 0, len(turnHands))
			for turnIdx, combo := range turnHands {
				if overlapsHand(combo.Hand, riverBoard) {
					continue
				}
				riverHands = append(riverHands, combo)
				riverMapping = append(riverMapping, turnIdx)
			}

			sorted, order := evaluateRiverHands(riverHands, riverBoard)
			permutedMapping := make([]int, len(order))
			for i, idx := range order {
				permutedMapping[i] = riverMapping[idx]
			}

			m.mapping[riverBoard.key()] = permutedMapping
			m.rangesByBoard[riverBoard.key()] = sorted
		}
	}
}

func (m *DefaultManager) initFromTurn(board Board) {
	for river := uint8(0); river < 52; river++ {
		if overlapsCard(river, board) {
			continue
		}
		riverBoard := board
		riverBoard[4] = river

		var riverHands Range
		mapping := make([]int, 0, len(m.startingCombinations))
		for parentIdx, combo := range m.startingCombinations {
			if overlapsHand(combo.Hand, riverBoard) {
				continue
			}
			riverHands = append(riverHands, combo)
			mapping = append(mapping, parentIdx)
		}

		sorted, order := evaluateRiverHands(riverHands, riverBoard)
		permutedMapping := make([]int, len(order))
		for i, idx := range order {
			permutedMapping[i] = mapping[idx]
		}

		m.mapping[riverBoard.key()] = permutedMapping
		m.rangesByBoard[riverBoard.key()] = sorted
	}
}

func (m *DefaultManager) initFromRiver(board Board) {
	var riverHands Range
	for _, combo := range m.startingCombinations {
		if overlapsHand(combo.Hand, board) {
			continue
		}
		riverHands = append(riverHands, combo)
	}
	sorted, _ := evaluateRiverHands(riverHands, board)
	m.rangesByBoard[board.key()] = sorted
}

// MergeCanonicalUtilities is a no-op: the Default manager has no aliases.
func (m *DefaultManager) MergeCanonicalUtilities(board Board, util []float32) {}

// NextCards returns every physically distinct next card at weight 1: the
// Default manager performs no suit-isomorphism collapsing.
func (m *DefaultManager) NextCards(board Board, street uint8) ([]uint8, []int8) {
	var nextCards []uint8
	var weights []int8
	for c := uint8(0); c < 52; c++ {
		if overlapsCard(c, board) {
			continue
		}
		nextCards = append(nextCards, c)
		weights = append(weights, 1)
	}
	return nextCards, weights
}
