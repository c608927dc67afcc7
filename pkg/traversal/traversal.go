// Package traversal holds the per-iteration CFR traversal context: which
// player is traversing, which iteration this is, whether best-response EVs
// should be persisted to the output tree, and the two players' range
// managers. It is split out from pkg/tree and pkg/solver so neither package
// needs to import the other: tree.Node methods take a *Traversal to resolve
// ranges, and solver.Trainer owns the Traversal across iterations.
//
// Grounded on original_source/src/cfr/traversal.rs.
package traversal

import (
	"fmt"

	"github.com/behrlich/poker-solver/pkg/notation"
	"github.com/behrlich/poker-solver/pkg/ranges"
)

// OOP and IP name the two traverser/player slots used throughout the solver
// (out-of-position acts first post-flop, in-position acts last).
const (
	OOP uint8 = 0
	IP  uint8 = 1
)

// Traversal carries the two players' range managers plus the mutable
// per-iteration traversal state (which player is traversing, which
// iteration, whether to persist EVs into node results).
type Traversal struct {
	OopRM ranges.Manager
	IpRM  ranges.Manager

	Traverser  uint8
	Iteration  uint32
	PersistEvs bool
}

// New builds a Traversal from already-constructed range managers.
func New(oopRM, ipRM ranges.Manager) *Traversal {
	return &Traversal{OopRM: oopRM, IpRM: ipRM}
}

// BuildFromRanges parses oopRange/ipRange per spec §6's grammar, filters
// both against board, and picks the Default or Isomorphic manager per
// whether board has exploitable suit symmetry. Grounded on
// build_traversal_from_ranges in original_source/src/cfr/traversal.rs.
func BuildFromRanges(board ranges.Board, oopRange, ipRange string) (*Traversal, error) {
	oopCombos, err := parsePlayerRange(oopRange)
	if err != nil {
		return nil, fmt.Errorf("traversal: parsing oop range: %w", err)
	}
	ipCombos, err := parsePlayerRange(ipRange)
	if err != nil {
		return nil, fmt.Errorf("traversal: parsing ip range: %w", err)
	}
	return BuildFromCombos(board, oopCombos, ipCombos), nil
}

// BuildFromCombos is BuildFromRanges for callers that already hold parsed
// combos (e.g. a caller driving its own notation.ParsePosition, rather than
// a fresh range string), so they don't have to round-trip through a range
// string just to reach the same manager-selection logic.
func BuildFromCombos(board ranges.Board, oopCombos, ipCombos []notation.Combo) *Traversal {
	oopSeed := ranges.FromCombos(oopCombos, board)
	ipSeed := ranges.FromCombos(ipCombos, board)

	iso := ranges.IsIsomorphic(board)

	var oopRM, ipRM ranges.Manager
	if iso {
		oopRM = ranges.NewIsomorphicManager(oopSeed, board)
		ipRM = ranges.NewIsomorphicManager(ipSeed, board)
	} else {
		oopRM = ranges.NewDefaultManager(oopSeed, board)
		ipRM = ranges.NewDefaultManager(ipSeed, board)
	}

	return New(oopRM, ipRM)
}

func parsePlayerRange(rangeStr string) ([]notation.Combo, error) {
	return notation.ParseRange(rangeStr)
}

// ActiveRM returns the traversing player's range manager.
func (t *Traversal) ActiveRM() ranges.Manager {
	if t.Traverser == IP {
		return t.IpRM
	}
	return t.OopRM
}

// OpponentRM returns the non-traversing player's range manager.
func (t *Traversal) OpponentRM() ranges.Manager {
	if t.Traverser == IP {
		return t.OopRM
	}
	return t.IpRM
}

// GetRangeForActivePlayer returns the traversing player's range at board.
func (t *Traversal) GetRangeForActivePlayer(board ranges.Board) ranges.Range {
	return t.ActiveRM().Range(board)
}

// GetRangeForOpponent returns the non-traversing player's range at board.
func (t *Traversal) GetRangeForOpponent(board ranges.Board) ranges.Range {
	return t.OpponentRM().Range(board)
}

// GetNumHandsForTraverser returns len(GetRangeForActivePlayer(board)).
func (t *Traversal) GetNumHandsForTraverser(board ranges.Board) int {
	return len(t.ActiveRM().Range(board))
}

// GetNumHandsForPlayer returns the hand count for an explicit player slot
// (OOP or IP), independent of which one is currently traversing.
func (t *Traversal) GetNumHandsForPlayer(player uint8, board ranges.Board) int {
	if player == IP {
		return len(t.IpRM.Range(board))
	}
	return len(t.OopRM.Range(board))
}

// GetNextReachProbs projects the opponent's reach-probability vector from
// its parent board into newBoard's order, using the OPPONENT's range
// manager (reach probabilities belong to the opponent's hand structure, not
// the traverser's).
func (t *Traversal) GetNextReachProbs(newBoard ranges.Board, oppReachProbs []float32) []float32 {
	return t.OpponentRM().NextReach(newBoard, oppReachProbs)
}

// MapUtilityBackwards accumulates a child-board utility vector (indexed in
// the opponent's child-board order) into mappedUtility, indexed in the
// opponent's parent-board order. Uses the opponent's range manager, mirroring
// GetNextReachProbs.
func (t *Traversal) MapUtilityBackwards(newBoard ranges.Board, utility []float32, mappedUtility []float32) {
	t.OpponentRM().MapUtilityBackwards(newBoard, utility, mappedUtility)
}

// MergeCanonicalUtilities overwrites every alias hand's utility with its
// canonical representative's, using the opponent's range manager (a no-op
// under the Default manager).
func (t *Traversal) MergeCanonicalUtilities(board ranges.Board, utility []float32) {
	t.OpponentRM().MergeCanonicalUtilities(board, utility)
}
