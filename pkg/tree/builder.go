package tree

import (
	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
)

// player slots, named for readability at call sites (mirrors
// pkg/traversal's OOP/IP constants).
const (
	oopPlayer = traversal.OOP
	ipPlayer  = traversal.IP
)

// Builder recursively materializes a betting tree from GameParams, a
// starting board, and a Traversal already holding both players' range
// managers. Grounded on construct_tree/add_successor_nodes and siblings in
// original_source/src/cfr/game.rs.
type Builder struct {
	Traversal *traversal.Traversal
	Params    GameParams
}

// NewBuilder constructs a Builder over an already-built Traversal.
func NewBuilder(t *traversal.Traversal, params GameParams) *Builder {
	return &Builder{Traversal: t, Params: params}
}

// Construct builds the root ActionNode (OOP to act first) rooted at board.
func (b *Builder) Construct(board ranges.Board) *ActionNode {
	root := NewActionNode(
		oopPlayer,
		b.Traversal.GetNumHandsForTraverser(board),
		b.Params.StartingPot,
		b.Params.StartingStack,
		b.Params.StartingStack,
	)
	b.addSuccessorNodes(root, 0, board)
	return root
}

func streetOf(board ranges.Board) uint8 {
	switch {
	case !board.HasTurn():
		return 1
	case !board.HasRiver():
		return 2
	default:
		return 3
	}
}

func (b *Builder) addSuccessorNodes(root *ActionNode, betNumber int, board ranges.Board) {
	street := streetOf(board)

	if root.PlayerNode == ipPlayer || betNumber > 0 {
		b.createNextCallCheckAndFoldNodes(root, betNumber, street, board)
	} else {
		b.createCheckToIPNode(root, board)
	}

	if root.OOPStack > 0 && root.IPStack > 0 {
		b.createNextBetNodes(root, betNumber, street, board)
	}

	root.InitVectors()
}

func (b *Builder) createNextCallCheckAndFoldNodes(root *ActionNode, betNumber int, street uint8, board ranges.Board) {
	lastBetSize := abs32(root.IPStack - root.OOPStack)
	callStacks := minf32(root.IPStack, root.OOPStack)

	switch {
	case street == 3:
		root.AddChild(NewShowdownNode(root.PotSize + lastBetSize))
	case callStacks == 0:
		root.AddChild(NewAllInShowdownNode(root.PotSize+lastBetSize, street))
	default:
		parallel := b.Params.ParallelStreet == street
		rm := b.rmFor(root.PlayerNode)
		chance := NewChanceNode(rm, board, street, parallel)

		for _, card := range chance.NextCards {
			newBoard := board
			if street == 1 {
				newBoard[3] = card
			} else {
				newBoard[4] = card
			}

			nextActionNode := NewActionNode(
				oopPlayer,
				b.Traversal.GetNumHandsForPlayer(oopPlayer, newBoard),
				root.PotSize+lastBetSize,
				callStacks,
				callStacks,
			)
			b.addSuccessorNodes(nextActionNode, 0, newBoard)
			chance.AddChild(nextActionNode)
		}

		root.AddChild(chance)
	}

	if betNumber > 0 {
		root.AddChild(NewTerminalNode(root.PotSize-lastBetSize, root.PlayerNode^1))
	}
}

// rmFor returns the range manager whose NextCards menu governs the chance
// node dealt after playerNode's action (either player's manager works
// identically here since both share the same per-board raw-hand universe;
// the active player's manager is used by convention, matching
// get_range_for_active_player's role elsewhere).
func (b *Builder) rmFor(playerNode uint8) ranges.Manager {
	if playerNode == ipPlayer {
		return b.Traversal.IpRM
	}
	return b.Traversal.OopRM
}

func (b *Builder) createCheckToIPNode(root *ActionNode, board ranges.Board) {
	next := NewActionNode(
		ipPlayer,
		b.Traversal.GetNumHandsForPlayer(ipPlayer, board),
		root.PotSize,
		root.IPStack,
		root.OOPStack,
	)
	b.addSuccessorNodes(next, 0, board)
	root.AddChild(next)
}

func (b *Builder) createNextBetNodes(root *ActionNode, betNumber int, street uint8, board ranges.Board) {
	currentBets := b.getCurrentBets(street, root.PlayerNode, betNumber)
	if root.PotSize*b.Params.AllInCutOff >= maxf32(root.IPStack, root.OOPStack) {
		currentBets = append(append([]float32{}, currentBets...), b.Params.AllInCutOff)
	}

	for _, betSize := range currentBets {
		lastBet := abs32(root.OOPStack - root.IPStack)
		sizing := betSize*(root.PotSize+lastBet) + lastBet

		if root.PlayerNode == ipPlayer {
			finalBetSize := minf32(minf32(root.IPStack, sizing), root.OOPStack+lastBet)
			next := NewActionNode(
				oopPlayer,
				b.Traversal.GetNumHandsForPlayer(oopPlayer, board),
				root.PotSize+finalBetSize,
				root.IPStack-finalBetSize,
				root.OOPStack,
			)
			b.addSuccessorNodes(next, betNumber+1, board)
			root.AddChild(next)
			if finalBetSize < sizing {
				break
			}
		} else {
			finalBetSize := minf32(minf32(root.OOPStack, sizing), root.IPStack+lastBet)
			next := NewActionNode(
				ipPlayer,
				b.Traversal.GetNumHandsForPlayer(ipPlayer, board),
				root.PotSize+finalBetSize,
				root.IPStack,
				root.OOPStack-finalBetSize,
			)
			b.addSuccessorNodes(next, betNumber+1, board)
			root.AddChild(next)
			if finalBetSize < sizing {
				break
			}
		}
	}
}

func (b *Builder) getCurrentBets(street uint8, player uint8, betNumber int) []float32 {
	switch street {
	case 1:
		if player == oopPlayer && betNumber < len(b.Params.OOPFlopBets) {
			return b.Params.OOPFlopBets[betNumber]
		}
		if betNumber < len(b.Params.IPFlopBets) {
			return b.Params.IPFlopBets[betNumber]
		}
	case 2:
		if player == oopPlayer && betNumber < len(b.Params.OOPTurnBets) {
			return b.Params.OOPTurnBets[betNumber]
		}
		if betNumber < len(b.Params.IPTurnBets) {
			return b.Params.IPTurnBets[betNumber]
		}
	case 3:
		if player == oopPlayer && betNumber < len(b.Params.OOPRiverBets) {
			return b.Params.OOPRiverBets[betNumber]
		}
		if betNumber < len(b.Params.IPRiverBets) {
			return b.Params.IPRiverBets[betNumber]
		}
	}
	if len(b.Params.DefaultBets) > 0 {
		return b.Params.DefaultBets[0]
	}
	return nil
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
