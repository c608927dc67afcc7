package traversal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/behrlich/poker-solver/pkg/notation"
	"github.com/behrlich/poker-solver/pkg/ranges"
)

func mustBoard(t *testing.T, s string) ranges.Board {
	t.Helper()
	b, err := ranges.ParseBoard(s)
	require.NoError(t, err)
	return b
}

func TestBuildFromRangesRejectsBadRangeString(t *testing.T) {
	board := mustBoard(t, "2h7dTs")
	_, err := BuildFromRanges(board, "not-a-range!!", "AA")
	require.Error(t, err)
}

func TestBuildFromRangesPicksIsomorphicManagerOnTwoToneBoard(t *testing.T) {
	board := mustBoard(t, "2h7h9c") // spades/diamonds collapse
	tv, err := BuildFromRanges(board, "AA", "KK")
	require.NoError(t, err)

	_, ok := tv.OopRM.(*ranges.IsomorphicManager)
	require.True(t, ok)
}

func TestBuildFromRangesPicksDefaultManagerOnRainbowBoard(t *testing.T) {
	board := mustBoard(t, "2s7hTd")
	tv, err := BuildFromRanges(board, "AA", "KK")
	require.NoError(t, err)

	_, ok := tv.OopRM.(*ranges.DefaultManager)
	require.True(t, ok)
}

func TestBuildFromCombosMatchesBuildFromRanges(t *testing.T) {
	board := mustBoard(t, "2s7hTd")
	combos, err := notation.ParseRange("AA")
	require.NoError(t, err)

	tv := BuildFromCombos(board, combos, combos)
	require.NotNil(t, tv.OopRM)
	require.NotNil(t, tv.IpRM)
	require.Equal(t, len(tv.OopRM.Range(board)), len(tv.IpRM.Range(board)))
}

func TestActiveAndOpponentRMSwapWithTraverser(t *testing.T) {
	board := mustBoard(t, "2s7hTd")
	tv, err := BuildFromRanges(board, "AA", "KK")
	require.NoError(t, err)

	tv.Traverser = OOP
	require.Same(t, tv.OopRM, interfaceAsDefaultManager(t, tv.ActiveRM()))
	require.Same(t, tv.IpRM, interfaceAsDefaultManager(t, tv.OpponentRM()))

	tv.Traverser = IP
	require.Same(t, tv.IpRM, interfaceAsDefaultManager(t, tv.ActiveRM()))
	require.Same(t, tv.OopRM, interfaceAsDefaultManager(t, tv.OpponentRM()))
}

func interfaceAsDefaultManager(t *testing.T, m ranges.Manager) *ranges.DefaultManager {
	t.Helper()
	dm, ok := m.(*ranges.DefaultManager)
	require.True(t, ok)
	return dm
}

func TestGetNumHandsForPlayerIndependentOfTraverser(t *testing.T) {
	board := mustBoard(t, "2s7hTd")
	tv, err := BuildFromRanges(board, "AA", "KK,QQ")
	require.NoError(t, err)

	tv.Traverser = OOP
	oopCount := tv.GetNumHandsForPlayer(OOP, board)
	ipCount := tv.GetNumHandsForPlayer(IP, board)

	tv.Traverser = IP
	require.Equal(t, oopCount, tv.GetNumHandsForPlayer(OOP, board))
	require.Equal(t, ipCount, tv.GetNumHandsForPlayer(IP, board))
	require.NotEqual(t, oopCount, ipCount) // AA (6 combos) vs KK,QQ (12 combos)
}

func TestGetNextReachProbsUsesOpponentManager(t *testing.T) {
	flop := mustBoard(t, "2s7hTd")
	tv, err := BuildFromRanges(flop, "AA", "KK")
	require.NoError(t, err)

	tv.Traverser = OOP // opponent is IP
	ipRangeAtFlop := tv.IpRM.Range(flop)
	reach := make([]float32, len(ipRangeAtFlop))
	for i := range reach {
		reach[i] = 1.0
	}

	turnBoard := flop
	turnBoard[3] = nextUnblockedCard(flop)
	projected := tv.GetNextReachProbs(turnBoard, reach)
	require.Equal(t, len(tv.IpRM.Range(turnBoard)), len(projected))
}

// nextUnblockedCard returns any card index not already on board, for
// building a valid one-card-deeper board in tests.
func nextUnblockedCard(board ranges.Board) uint8 {
	blocked := make(map[uint8]bool, 5)
	for _, c := range board {
		blocked[c] = true
	}
	for c := uint8(0); c < 52; c++ {
		if !blocked[c] {
			return c
		}
	}
	panic("no unblocked card")
}
