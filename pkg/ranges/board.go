package ranges

import (
	"fmt"

	"github.com/behrlich/poker-solver/pkg/cards"
)

// ParseBoard parses a 3, 4, or 5-card string (e.g. "2h7d9s", "2h7d9sKc") into
// a Board, padding unset turn/river slots with cards.Absent.
func ParseBoard(s string) (Board, error) {
	parsed, err := cards.ParseCards(s)
	if err != nil {
		return Board{}, fmt.Errorf("parsing board %q: %w", s, err)
	}
	if len(parsed) < 3 || len(parsed) > 5 {
		return Board{}, fmt.Errorf("board %q must have 3, 4, or 5 cards, got %d", s, len(parsed))
	}

	var b Board
	for i := range b {
		b[i] = cards.Absent
	}
	seen := make(map[uint8]bool, len(parsed))
	for i, c := range parsed {
		idx := c.Index()
		if seen[idx] {
			return Board{}, fmt.Errorf("board %q has duplicate card %s", s, c.String())
		}
		seen[idx] = true
		b[i] = idx
	}
	return b, nil
}
