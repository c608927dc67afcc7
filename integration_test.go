package poker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/behrlich/poker-solver/pkg/abstraction"
	"github.com/behrlich/poker-solver/pkg/cards"
	"github.com/behrlich/poker-solver/pkg/config"
	"github.com/behrlich/poker-solver/pkg/notation"
	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/solver"
	"github.com/behrlich/poker-solver/pkg/tree"
)

func smallBetMenu() tree.GameParams {
	params := config.Default().ToGameParams()
	params.StartingPot = 10
	params.StartingStack = 100
	params.AllInCutOff = 0.9
	params.DefaultBets = [][]float32{{0.75}}
	return params
}

// TestIntegration_RiverEndToEnd solves a single-combo river spot end to end
// and checks the solved result is a well-formed, zero-sum strategy tree.
func TestIntegration_RiverEndToEnd(t *testing.T) {
	board, err := ranges.ParseBoard("Kh9s4c7d2s")
	require.NoError(t, err)

	trainer, err := solver.NewTrainer(board, "AdAc", "QdQh", smallBetMenu(), nil)
	require.NoError(t, err)

	start := time.Now()
	trainer.Train(5.0)
	elapsed := time.Since(start)
	require.Less(t, elapsed, 5*time.Second, "solve took too long: %v", elapsed)

	result := trainer.Result()
	require.Len(t, result.OopRange, 1)
	require.Len(t, result.IpRange, 1)
	require.NotNil(t, result.NodeResults)
	require.Equal(t, tree.NodeResultAction, result.NodeResults.NodeType)
	require.NotEmpty(t, result.NodeResults.NodeStrategy)
}

// TestIntegration_FlopRangeVsRange solves a range-vs-range flop spot, which
// exercises chance nodes (turn/river dealing) on top of the action tree.
func TestIntegration_FlopRangeVsRange(t *testing.T) {
	board, err := ranges.ParseBoard("Th9h2c")
	require.NoError(t, err)

	params := smallBetMenu()
	params.StartingStack = 20 // keep the tree small for the test

	trainer, err := solver.NewTrainer(board, "AA,KK", "QQ,JJ", params, nil)
	require.NoError(t, err)

	trainer.Train(20.0)

	result := trainer.Result()
	require.NotEmpty(t, result.OopRange)
	require.NotEmpty(t, result.IpRange)
	require.NotNil(t, result.NodeResults)
}

// TestIntegration_RangeExpansion checks the range grammar expands pair
// ranges into the expected combo count.
func TestIntegration_RangeExpansion(t *testing.T) {
	combos, err := notation.ParseRange("AA,KK-JJ")
	require.NoError(t, err)
	require.Len(t, combos, 24) // AA, KK, QQ, JJ, 6 combos each

	pairCounts := make(map[cards.Rank]int)
	for _, combo := range combos {
		require.Equal(t, combo.Card1.Rank, combo.Card2.Rank)
		pairCounts[combo.Card1.Rank]++
	}
	require.Len(t, pairCounts, 4)
	for _, count := range pairCounts {
		require.Equal(t, 6, count)
	}
}

// TestIntegration_BucketedSummary exercises the card-abstraction bucketer
// against a flop range, the same path the CLI's --buckets flag drives.
func TestIntegration_BucketedSummary(t *testing.T) {
	board, err := cards.ParseCards("Th9h2c")
	require.NoError(t, err)

	oppRange, err := notation.ParseRange("QQ,JJ")
	require.NoError(t, err)

	bucketer := abstraction.NewBucketer(board, oppRange, 100)

	heroRange, err := notation.ParseRange("AA,KK")
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, combo := range heroRange {
		bucket := bucketer.BucketHand([]cards.Card{combo.Card1, combo.Card2})
		require.GreaterOrEqual(t, bucket, 0)
		require.Less(t, bucket, bucketer.NumBuckets())
		seen[bucket] = true
	}
	require.NotEmpty(t, seen)
}
