package solver

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/tree"
)

func riverBoard() ranges.Board {
	// Kc 7h 2d 9s 4c, encoded rank*4+suit with suit order c,d,h,s
	return ranges.Board{11*4 + 0, 5*4 + 2, 0*4 + 1, 7*4 + 3, 2*4 + 0}
}

func TestTrainerConvergesImmediatelyWithLooseTarget(t *testing.T) {
	params := tree.GameParams{StartingPot: 10, StartingStack: 100, AllInCutOff: 0.9}
	trainer, err := NewTrainer(riverBoard(), "AA", "KK", params, nil)
	require.NoError(t, err)
	trainer.Clock = quartz.NewMock(t)

	// A huge target means the very first exploitability checkpoint passes,
	// so this exercises the full Train/persist path without iterating.
	trainer.Train(1000.0)

	result := trainer.Result()
	require.NotNil(t, result.NodeResults)
	require.NotEmpty(t, result.OopRange)
	require.NotEmpty(t, result.IpRange)
}

func TestTrainerResultRoundTripsThroughJSON(t *testing.T) {
	params := tree.GameParams{StartingPot: 10, StartingStack: 100, AllInCutOff: 0.9}
	trainer, err := NewTrainer(riverBoard(), "AA", "KK", params, nil)
	require.NoError(t, err)
	trainer.Clock = quartz.NewMock(t)
	trainer.Train(1000.0)

	body, err := trainer.Result().MarshalJSON()
	require.NoError(t, err)
	require.Contains(t, string(body), "oopRange")
	require.Contains(t, string(body), "nodeResults")
}
