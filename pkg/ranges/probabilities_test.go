package ranges

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromCombosWeighsSelectedHandsOnly(t *testing.T) {
	board := rainbowFlop(t)
	r := seedRange(t, "AA", board)

	var weighted, unweighted int
	for _, c := range r {
		if c.Combos > 0 {
			weighted++
		} else {
			unweighted++
		}
	}
	require.Equal(t, 6, weighted) // 6 combos of AA unblocked by a rainbow flop with no aces
	require.Positive(t, unweighted)
}

func TestFromCombosExcludesBoardBlockedHands(t *testing.T) {
	board := rainbowFlop(t) // 2s7hTd
	r := seedRange(t, "22+", board)

	for _, c := range r {
		hand := [2]uint8{c.Hand[0], c.Hand[1]}
		require.False(t, overlapsHand(Hand(hand), board))
	}
}

func TestRelativeProbabilitiesSumToOne(t *testing.T) {
	board := rainbowFlop(t)
	hero := seedRange(t, "AA,KK", board)
	villain := seedRange(t, "QQ,JJ", board)

	probs := RelativeProbabilities(hero, villain)
	var total float64
	for _, p := range probs {
		total += p
	}
	require.InDelta(t, 1.0, total, 1e-9)
}

func TestRelativeProbabilitiesZeroWhenOpponentRangeEmpty(t *testing.T) {
	board := rainbowFlop(t)
	hero := seedRange(t, "AA", board)
	empty := Range{}

	probs := RelativeProbabilities(hero, empty)
	for _, p := range probs {
		require.Zero(t, p)
	}
}

func TestUnblockedHandsPositiveWhenVillainComboDoesNotConflict(t *testing.T) {
	// Ah=50, Ac=48 (rank Ace=12, suits h=2,c=0 => 12*4+2=50, 12*4+0=48).
	hero := Range{NewCombination(Hand{48, 50}, 0, 1.0)}
	// Ad=49, Kd=45: shares no card with hero's AhAc.
	villain := Range{NewCombination(Hand{45, 49}, 0, 1.0)}

	unblocked := UnblockedHands(hero, villain)
	require.Positive(t, unblocked[0])
}

func TestUnblockedHandsZeroWhenHandSharesACard(t *testing.T) {
	// Ah=50, Ac=48.
	hero := Range{NewCombination(Hand{48, 50}, 0, 1.0)}
	// Ah=50, Kd=45: shares Ah with hero's only combo.
	villain := Range{NewCombination(Hand{45, 50}, 0, 1.0)}

	unblocked := UnblockedHands(hero, villain)
	require.Zero(t, unblocked[0])
}
