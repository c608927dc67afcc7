package solver

import (
	"encoding/json"

	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/tree"
)

// RangeEntry is one hand+combo-weight entry in the output artifact's
// oopRange/ipRange arrays (spec §6).
type RangeEntry struct {
	Cards  [2]uint8 `json:"cards"`
	Combos float32  `json:"combos"`
}

// GameResult is the JSON output artifact: both starting ranges, the game
// parameters, the starting board, and the recursive node-result tree.
// Grounded on GameResult in original_source/src/cfr/game.rs.
type GameResult struct {
	OopRange      []RangeEntry    `json:"oopRange"`
	IpRange       []RangeEntry    `json:"ipRange"`
	GameParams    tree.GameParams `json:"gameParams"`
	StartingBoard ranges.Board    `json:"startingBoard"`
	NodeResults   *tree.NodeResult `json:"nodeResults"`
}

// Result builds the serializable GameResult for this trainer's solved
// tree. Train must have already run (with EV persistence) for NodeEv
// fields to be populated.
func (tr *Trainer) Result() GameResult {
	return GameResult{
		OopRange:      toRangeEntries(tr.Traversal.OopRM.StartingCombinations()),
		IpRange:       toRangeEntries(tr.Traversal.IpRM.StartingCombinations()),
		GameParams:    tr.Params,
		StartingBoard: tr.StartingBoard,
		NodeResults:   tr.Root.OutputResult(),
	}
}

func toRangeEntries(r ranges.Range) []RangeEntry {
	out := make([]RangeEntry, len(r))
	for i, c := range r {
		out[i] = RangeEntry{Cards: [2]uint8{c.Hand[0], c.Hand[1]}, Combos: c.Combos}
	}
	return out
}

// MarshalJSON serializes the result per spec §6's output artifact shape.
func (r GameResult) MarshalJSON() ([]byte, error) {
	type alias GameResult
	return json.Marshal(alias(r))
}
