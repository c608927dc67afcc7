package ranges

import "github.com/behrlich/poker-solver/pkg/notation"

// FromCombos converts parsed notation combos into a seed Range: the full
// board-filtered universe of hole-card combinations, each carrying the
// weight the player's range string assigned it (0 for combos the string
// didn't select). Grounded on
// original_source/src/ranges/utility.rs's construct_starting_range_from_string,
// generalized so both players' Ranges share one raw-hand index space per
// board (needed for the single-range showdown/terminal formulas in
// pkg/tree to type-check across two independently-parsed ranges -- see
// DESIGN.md).
func FromCombos(combos []notation.Combo, board Board) Range {
	weights := make(map[Hand]float64, len(combos))
	for _, combo := range combos {
		hand := Hand{combo.Card1.Index(), combo.Card2.Index()}
		if hand[0] > hand[1] {
			hand[0], hand[1] = hand[1], hand[0]
		}
		weights[hand] += combo.Weight
	}
	return universeWithWeights(board, weights)
}

// universeWithWeights returns one Combination for every hole-card pair not
// blocked by board, with Combos (weight) taken from weights (0 if absent).
func universeWithWeights(board Board, weights map[Hand]float64) Range {
	var out Range
	for c0 := uint8(0); c0 < 52; c0++ {
		if overlapsCard(c0, board) {
			continue
		}
		for c1 := c0 + 1; c1 < 52; c1++ {
			if overlapsCard(c1, board) {
				continue
			}
			hand := Hand{c0, c1}
			out = append(out, NewCombination(hand, 0, float32(weights[hand])))
		}
	}
	return out
}

// IsIsomorphic reports whether board has exploitable suit symmetry at the
// flop, which decides whether a game uses the Isomorphic or Default
// manager (spec §9, mirroring build_traversal_from_ranges in
// original_source/src/cfr/traversal.rs).
func IsIsomorphic(board Board) bool {
	return isIsomorphic(computeSuitGroups(board))
}

// RelativeProbabilities normalizes rng's combo weights against opp's,
// discounting blocked combinations, so the result sums to 1. Used both for
// exploitability normalization and for weighting best-response EVs (spec
// §4.7/§4.8). Grounded on range_relative_probabilities in
// original_source/src/ranges/utility.rs.
func RelativeProbabilities(rng, opp Range) []float64 {
	relatives := make([]float64, len(rng))
	var total float64
	for i, hand := range rng {
		var probability float64
		for _, oppHand := range opp {
			if !handsOverlap(hand.Hand, oppHand.Hand) {
				probability += float64(oppHand.Combos)
			}
		}
		relatives[i] = probability * float64(hand.Combos)
		total += relatives[i]
	}
	if total == 0 {
		return relatives
	}
	for i := range relatives {
		relatives[i] /= total
	}
	return relatives
}

// UnblockedHands counts, for each hand in rng, the opponent combo weight
// not conflicting with it. Grounded on unblocked_hands in
// original_source/src/ranges/utility.rs.
func UnblockedHands(rng, opp Range) []float64 {
	counts := make([]float64, len(rng))
	for i, hand := range rng {
		var c float64
		for _, oppHand := range opp {
			if !handsOverlap(hand.Hand, oppHand.Hand) {
				c += float64(oppHand.Combos)
			}
		}
		counts[i] = c
	}
	return counts
}
