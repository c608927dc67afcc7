// Package tree implements the betting-tree node kinds and the builder that
// wires them together from game parameters and bet-size menus. Grounded on
// original_source/src/nodes/*.rs and original_source/src/cfr/game.rs.
package tree

import (
	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
)

// Node is the common contract of all five node kinds: Action, Chance,
// Terminal (fold), Showdown, and AllInShowdown.
type Node interface {
	// CFRTraversal walks this subgame for one regret/strategy-update pass,
	// returning the traverser's per-hand utility vector.
	CFRTraversal(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32

	// BestResponse computes the responder-optimal per-hand EV vector,
	// fixing the opponent to its (average) strategy.
	BestResponse(t *traversal.Traversal, oppReach []float32, board ranges.Board) []float32

	// OutputResult returns this node's serializable form, or nil for node
	// kinds that carry no strategy (Terminal, Showdown, AllInShowdown).
	OutputResult() *NodeResult
}

// NodeResultType discriminates the two serialized node kinds (spec §6).
type NodeResultType string

const (
	NodeResultAction NodeResultType = "Action"
	NodeResultChance NodeResultType = "Chance"
)

// NodeResult is the JSON-serializable projection of a subtree, matching
// spec §6's output artifact. Showdown/Terminal/AllInShowdown nodes have no
// NodeResult (OutputResult returns nil for them, and their parent's
// next_nodes list omits them) -- mirroring the Rust side's
// filter_map(|node| node.output_results()).
type NodeResult struct {
	NodeType     NodeResultType `json:"nodeType"`
	NodeStrategy []float32      `json:"nodeStrategy,omitempty"`
	NodeEv       []float32      `json:"nodeEv,omitempty"`
	NextCards    []uint8        `json:"nextCards,omitempty"`
	NextNodes    []*NodeResult  `json:"nextNodes,omitempty"`
}

// collectChildResults filters a child-node slice down to the ones that
// serialize, matching the Rust side's filter_map.
func collectChildResults(children []Node) []*NodeResult {
	var out []*NodeResult
	for _, c := range children {
		if r := c.OutputResult(); r != nil {
			out = append(out, r)
		}
	}
	return out
}
