package ranges

// IsomorphicManager shares work across suit-equivalent runouts: combinations
// that are interchangeable under a board-rank-preserving suit permutation
// are represented as one canonical entry (weight = bucket size) plus zero or
// more weight-0 aliases pointing at it. Grounded on spec.md §4.2 and
// §9's isomorphism-bookkeeping design note; the concrete bucketing key
// (canonical hand-indexer) is this module's own construction — the upstream
// Rust IsomorphicRangeManager source was not present in the retrieved
// corpus (see DESIGN.md).
type IsomorphicManager struct {
	*core
	canonPos map[uint64][]int // per-board: position of each hand's canonical, or -1 if canonical itself
}

// NewIsomorphicManager builds an IsomorphicManager rooted at initialBoard.
// Suit groups are computed once from initialBoard and used to bucket the
// seed range into canonical/alias combinations before the per-board
// projection tables are built.
func NewIsomorphicManager(starting Range, initialBoard Board) *IsomorphicManager {
	groups := computeSuitGroups(initialBoard)
	bucketed := bucketByCanonicalKey(starting, groups)

	m := &IsomorphicManager{core: newCore(bucketed), canonPos: make(map[uint64][]int)}
	m.rangesByBoard[initialBoard.key()] = bucketed
	m.canonPos[initialBoard.key()] = canonPositions(bucketed)
	m.initialize(initialBoard)
	return m
}

// bucketByCanonicalKey groups combinations by their canonical hand key,
// marking the first member of each bucket as canonical (weight = bucket
// size) and the rest as weight-0 aliases pointing at it.
func bucketByCanonicalKey(combos Range, groups [4]uint8) Range {
	canonicalOf := make(map[uint16]int) // key -> raw_index of canonical
	bucketSize := make(map[uint16]int8)
	keys := make([]uint16, len(combos))

	for i, combo := range combos {
		key := canonicalHandKey(combo.Hand, groups)
		keys[i] = key
		if _, ok := canonicalOf[key]; !ok {
			canonicalOf[key] = combo.RawIndex
		}
		bucketSize[key]++
	}

	index := newCanonIndex(canonicalOf)

	out := make(Range, len(combos))
	for i, combo := range combos {
		key := keys[i]
		canonRaw, _ := index.get(key)
		out[i] = combo
		if combo.RawIndex == canonRaw {
			out[i].Weight = bucketSize[key]
			out[i].CanonIndex = canonRaw
		} else {
			out[i].Weight = 0
			out[i].CanonIndex = canonRaw
		}
	}
	return out
}

// canonPositions maps each hand's position to the position of its
// canonical representative within the same range (or -1 if it is itself
// canonical).
func canonPositions(r Range) []int {
	posByRaw := make(map[int]int, len(r))
	for i, c := range r {
		if c.Weight != 0 {
			posByRaw[c.RawIndex] = i
		}
	}
	out := make([]int, len(r))
	for i, c := range r {
		if c.Weight != 0 {
			out[i] = -1
			continue
		}
		pos, ok := posByRaw[c.CanonIndex]
		if !ok {
			out[i] = -1
			continue
		}
		out[i] = pos
	}
	return out
}

func (m *IsomorphicManager) initialize(board Board) {
	switch {
	case !board.HasTurn():
		m.initFromFlop(board)
	case !board.HasRiver():
		m.initFromTurn(board)
	default:
		m.initFromRiver(board)
	}
}

func (m *IsomorphicManager) initFromFlop(board Board) {
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
			c := combo
			c.Rank = 0
			turnHands = append(turnHands, c)
			mapping = append(mapping, parentIdx)
		}
		m.mapping[turnBoard.key()] = mapping
		m.rangesByBoard[turnBoard.key()] = turnHands
		m.canonPos[turnBoard.key()] = canonPositions(turnHands)

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
			m.canonPos[riverBoard.key()] = canonPositions(sorted)
		}
	}
}

func (m *IsomorphicManager) initFromTurn(board Board) {
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
		m.canonPos[riverBoard.key()] = canonPositions(sorted)
	}
}

func (m *IsomorphicManager) initFromRiver(board Board) {
	var riverHands Range
	for _, combo := range m.startingCombinations {
		if overlapsHand(combo.Hand, board) {
			continue
		}
		riverHands = append(riverHands, combo)
	}
	sorted, _ := evaluateRiverHands(riverHands, board)
	m.rangesByBoard[board.key()] = sorted
	m.canonPos[board.key()] = canonPositions(sorted)
}

// MergeCanonicalUtilities overwrites every alias hand's utility with its
// canonical representative's (spec §4.2, §9). Idempotent: running it twice
// is equal to running it once, since the canonical's own slot is untouched.
func (m *IsomorphicManager) MergeCanonicalUtilities(board Board, util []float32) {
	positions := m.canonPos[board.key()]
	for i, canonPos := range positions {
		if canonPos >= 0 {
			util[i] = util[canonPos]
		}
	}
}

// NextCards returns one canonical card per suit-equivalence class, weighted
// by class size, per spec §4.5/§9 ("next_weights mirror the suit-group
// multiplicity"). Groups are recomputed from board at call time so a
// turn-rooted chance node reflects the extra card already dealt.
func (m *IsomorphicManager) NextCards(board Board, street uint8) ([]uint8, []int8) {
	groups := computeSuitGroups(board)

	var nextCards []uint8
	var weights []int8
	for c := uint8(0); c < 52; c++ {
		if overlapsCard(c, board) {
			continue
		}
		suit := c % 4
		w := groupSize(suit, groups)
		if w == 0 {
			continue
		}
		nextCards = append(nextCards, c)
		weights = append(weights, w)
	}
	return nextCards, weights
}
