package ranges

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/behrlich/poker-solver/pkg/cards"
)

func TestComputeSuitGroupsRainbowFlopIsAllDistinct(t *testing.T) {
	board, err := ParseBoard("2s7hTd")
	require.NoError(t, err)
	groups := computeSuitGroups(board)
	require.False(t, isIsomorphic(groups))
	for s := uint8(0); s < 4; s++ {
		require.Equal(t, s, groups[s])
	}
}

func TestComputeSuitGroupsTwoToneFlopGroupsUnseenSuits(t *testing.T) {
	// 2h7h9c: hearts hold two board ranks and clubs one, spades and
	// diamonds hold none -- so spades and diamonds collapse into one group.
	board, err := ParseBoard("2h7h9c")
	require.NoError(t, err)
	groups := computeSuitGroups(board)
	require.True(t, isIsomorphic(groups))

	var suitsAbsent []uint8
	for s := uint8(0); s < 4; s++ {
		if boardHoldsSuit(board, s) {
			continue
		}
		suitsAbsent = append(suitsAbsent, s)
	}
	require.Len(t, suitsAbsent, 2)
	require.Equal(t, groups[suitsAbsent[0]], groups[suitsAbsent[1]])
}

func TestComputeSuitGroupsMonotoneFlopGroupsAllUnseenSuits(t *testing.T) {
	board, err := ParseBoard("2h7hTh")
	require.NoError(t, err)
	groups := computeSuitGroups(board)
	require.True(t, isIsomorphic(groups))
	// 3 suits (spades, diamonds, clubs) hold no board cards and collapse
	// into a single group; hearts remains its own.
	seen := map[uint8]bool{}
	for s := uint8(0); s < 4; s++ {
		seen[groups[s]] = true
	}
	require.Len(t, seen, 2)
}

func TestCanonicalHandKeySymmetricUnderSwap(t *testing.T) {
	board, err := ParseBoard("2h7hTh")
	require.NoError(t, err)
	groups := computeSuitGroups(board)

	h1 := Hand{cardIdx(t, "As"), cardIdx(t, "Kd")}
	h2 := Hand{cardIdx(t, "Kd"), cardIdx(t, "As")}
	require.Equal(t, canonicalHandKey(h1, groups), canonicalHandKey(h2, groups))
}

func TestGroupSizeZeroForNonRepresentative(t *testing.T) {
	board, err := ParseBoard("2h7hTh")
	require.NoError(t, err)
	groups := computeSuitGroups(board)

	var total int8
	var sawZero bool
	for s := uint8(0); s < 4; s++ {
		size := groupSize(s, groups)
		if size == 0 {
			sawZero = true
		}
		if groups[s] == s {
			total += size
		}
	}
	require.True(t, sawZero, "a monotone board must have at least one non-representative suit")
	require.Equal(t, int8(4), total)
}

// boardHoldsSuit reports whether any board card is of suit s (c%4 == s).
func boardHoldsSuit(b Board, s uint8) bool {
	for _, c := range b {
		if c == 52 {
			continue
		}
		if c%4 == s {
			return true
		}
	}
	return false
}

func cardIdx(t *testing.T, s string) uint8 {
	t.Helper()
	c, err := cards.ParseCard(s)
	require.NoError(t, err)
	return c.Index()
}
