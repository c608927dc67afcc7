// Package ranges implements the per-board range projections described in
// the range-manager component: per-street filtering of blocked hands,
// forward reach-probability mapping, backward utility mapping, river
// rank-sorting, and suit-isomorphism bucketing.
package ranges

// Board is the ordered five card slots (flop, flop, flop, turn, river).
// Unset turn/river slots hold cards.Absent (52).
type Board [5]uint8

// HasTurn reports whether the board's turn slot is dealt.
func (b Board) HasTurn() bool { return b[3] != 52 }

// HasRiver reports whether the board's river slot is dealt.
func (b Board) HasRiver() bool { return b[4] != 52 }

// Street returns 1 (flop, turn to come), 2 (turn, river to come), or 3
// (river, action closed) for the given board.
func (b Board) Street() uint8 {
	switch {
	case !b.HasTurn():
		return 1
	case !b.HasRiver():
		return 2
	default:
		return 3
	}
}

// key returns the mixed-radix board key used to index per-board range
// storage: each dealt slot contributes card+1 at a fixed decimal place, so
// boards of different shapes never collide.
func (b Board) key() uint64 {
	k := 100000000*uint64(b[0]+1) + 1000000*uint64(b[1]+1) + 10000*uint64(b[2]+1)
	if b[3] == 52 {
		return k
	}
	k += 100 * uint64(b[3]+1)
	if b[4] == 52 {
		return k
	}
	return k + uint64(b[4]+1)
}

// Hand is an unordered pair of distinct card indices, canonically stored
// with Cards[0] < Cards[1].
type Hand [2]uint8

// Combination is one weighted hole-card combination within a range, carried
// through every street's projection.
type Combination struct {
	Hand Hand

	// Rank is the 7-card evaluator score once the board is complete, else 0.
	// Higher is better.
	Rank uint16

	// Combos is the base weight in [0,1] contributed by range parsing
	// (e.g. a weighted combo like A2s@50 contributes 0.5).
	Combos float32

	// Weight is the multiplicity under suit isomorphism: 1 for a canonical
	// representative, 0 for a non-representative alias, and >=1 for
	// canonicals that absorb aliases. Always 1 in the Default manager.
	Weight int8

	// RawIndex is a stable identity, 52*Hand[0]+Hand[1].
	RawIndex int

	// CanonIndex is RawIndex for canonical hands, or the canonical alias's
	// RawIndex otherwise.
	CanonIndex int
}

// NewCombination builds a Combination with weight 1 and canon_index
// defaulted to its own raw_index.
func NewCombination(hand Hand, rank uint16, combos float32) Combination {
	raw := int(hand[0])*52 + int(hand[1])
	return Combination{
		Hand:       hand,
		Rank:       rank,
		Combos:     combos,
		Weight:     1,
		RawIndex:   raw,
		CanonIndex: raw,
	}
}

// Range is an ordered sequence of Combinations. On the river it is sorted
// ascending by Rank; on earlier streets it preserves parent-street order
// after filtering board-blocked hands.
type Range []Combination

func overlapsCard(card uint8, board Board) bool {
	for _, c := range board {
		if c == card {
			return true
		}
	}
	return false
}

func overlapsHand(h Hand, board Board) bool {
	for _, c := range board {
		if c == h[0] || c == h[1] {
			return true
		}
	}
	return false
}

func handsOverlap(a, b Hand) bool {
	return a[0] == b[0] || a[0] == b[1] || a[1] == b[0] || a[1] == b[1]
}
