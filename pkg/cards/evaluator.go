package cards

import (
	"github.com/cardrank/cardrank"
)

// maxEvalRank is one past cardrank's worst possible 7-card eval rank (high
// card, 7-5-4-3-2). cardrank's EvalRank is ascending-is-worse (1 is the
// royal flush); the solver's wire format wants an ascending-is-better u16,
// so EvaluateRank inverts it and the worst hand still scores 1.
const maxEvalRank = uint16(cardrank.HighCard) + 1

// EvaluateRank scores a 7-card hand (2 hole cards + 5 board cards) using
// cardrank's Holdem evaluator and returns an ordinal rank where higher is
// better, matching the "7-card hand evaluator" contract consumed by the
// range manager.
func EvaluateRank(hole [2]Card, board [5]Card) uint16 {
	return EvaluateRankPartial(hole, board[:])
}

// EvaluateRankPartial scores a hole-card pair against a partial board (3, 4,
// or 5 community cards, as during equity/abstraction work pre-river) using
// cardrank's Holdem evaluator, higher-is-better.
func EvaluateRankPartial(hole [2]Card, board []Card) uint16 {
	pocket := []cardrank.Card{toCardrank(hole[0]), toCardrank(hole[1])}
	boardCards := make([]cardrank.Card, 0, len(board))
	for _, c := range board {
		if c.Index() == Absent {
			continue
		}
		boardCards = append(boardCards, toCardrank(c))
	}
	hand := cardrank.Holdem.New(pocket, boardCards)
	return maxEvalRank - uint16(hand.Rank())
}

func toCardrank(c Card) cardrank.Card {
	return cardrank.New(c.String())
}
