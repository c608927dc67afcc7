package ranges

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/behrlich/poker-solver/pkg/cards"
)

func TestParseBoardFlop(t *testing.T) {
	b, err := ParseBoard("2h7dTs")
	require.NoError(t, err)
	require.Equal(t, uint8(1), b.Street())
	require.False(t, b.HasTurn())
	require.False(t, b.HasRiver())
}

func TestParseBoardTurnAndRiver(t *testing.T) {
	turn, err := ParseBoard("2h7dTsKc")
	require.NoError(t, err)
	require.Equal(t, uint8(2), turn.Street())
	require.True(t, turn.HasTurn())
	require.False(t, turn.HasRiver())

	river, err := ParseBoard("2h7dTsKc4d")
	require.NoError(t, err)
	require.Equal(t, uint8(3), river.Street())
	require.True(t, river.HasRiver())
}

func TestParseBoardRejectsWrongLength(t *testing.T) {
	_, err := ParseBoard("2h7d")
	require.Error(t, err)

	_, err = ParseBoard("2h7dTsKc4d9s")
	require.Error(t, err)
}

func TestParseBoardRejectsDuplicateCard(t *testing.T) {
	_, err := ParseBoard("2h7d2h")
	require.Error(t, err)
}

func TestParseBoardPadsAbsentSlots(t *testing.T) {
	b, err := ParseBoard("2h7dTs")
	require.NoError(t, err)
	require.Equal(t, cards.Absent, b[3])
	require.Equal(t, cards.Absent, b[4])
}
