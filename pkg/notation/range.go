package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/behrlich/poker-solver/pkg/cards"
)

// Combo represents a specific 2-card combination (hole cards) plus the
// weight in [0,1] range parsing assigned it (1.0 unless an "@W" suffix said
// otherwise; dash ranges always produce 1.0).
type Combo struct {
	Card1  cards.Card
	Card2  cards.Card
	Weight float64
}

// String returns the combo in standard notation (e.g., "AsKh")
func (c Combo) String() string {
	return fmt.Sprintf("%s%s", c.Card1, c.Card2)
}

// ParseRange parses a range string per spec §6's grammar: comma-separated
// items, each one of
//
//	XY        a pair or suited/offsuit combo, e.g. "AKs", "77", "AKo"
//	XY+       that combo and every stronger combo of the same
//	          suitedness/pair class, e.g. "77+", "A2s+"
//	XYs@W     a suited/offsuit combo at percentage weight W in [0,100]
//	random    every combo at weight 1 (board-blocker filtering happens
//	          downstream, in pkg/ranges.FromCombos)
//
// Unrecognized items do not halt parsing of the rest of the string: they
// are skipped. An error naming them is returned only when no item in the
// string parses; when at least one item parses, the skipped items are not
// reported.
func ParseRange(rangeStr string) ([]Combo, error) {
	rangeStr = strings.TrimSpace(rangeStr)
	if rangeStr == "" {
		return nil, fmt.Errorf("empty range string")
	}

	parts := strings.Split(rangeStr, ",")

	var allCombos []Combo
	var errs []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		combos, err := parseItem(part)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", part, err))
			continue
		}
		allCombos = append(allCombos, combos...)
	}

	if len(allCombos) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("no valid range items: %s", strings.Join(errs, "; "))
	}
	return allCombos, nil
}

// parseItem parses one comma-separated range token.
func parseItem(item string) ([]Combo, error) {
	if strings.EqualFold(item, "random") {
		return allCombos(1.0), nil
	}

	if strings.Contains(item, "-") {
		return parseRangeWithDash(item)
	}

	weight := 100.0
	s := item
	if idx := strings.Index(s, "@"); idx >= 0 {
		w, err := strconv.ParseFloat(s[idx+1:], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight: %w", err)
		}
		if w < 0 || w > 100 {
			return nil, fmt.Errorf("weight %v out of range [0,100]", w)
		}
		weight = w
		s = s[:idx]
	}

	plus := strings.HasSuffix(s, "+")
	if plus {
		s = s[:len(s)-1]
	}

	rank1, rank2, suited, err := parseHandComponents(s)
	if err != nil {
		return nil, err
	}

	w := weight / 100.0
	if w == 0 {
		return nil, nil
	}

	if !plus {
		return weighted(generateCombos(rank1, rank2, suited), w), nil
	}

	if rank1 == rank2 {
		var out []Combo
		for r := int(rank1); r <= int(cards.Ace); r++ {
			out = append(out, weighted(generateCombos(cards.Rank(r), cards.Rank(r), suited), w)...)
		}
		return out, nil
	}

	hi, lo := rank1, rank2
	if hi < lo {
		hi, lo = lo, hi
	}
	var out []Combo
	for r := int(lo); r < int(hi); r++ {
		out = append(out, weighted(generateCombos(hi, cards.Rank(r), suited), w)...)
	}
	return out, nil
}

func weighted(combos []Combo, w float64) []Combo {
	for i := range combos {
		combos[i].Weight = w
	}
	return combos
}

// allCombos returns every one of the 1326 starting hole-card combinations.
func allCombos(w float64) []Combo {
	suits := []cards.Suit{cards.Spades, cards.Hearts, cards.Diamonds, cards.Clubs}
	var out []Combo
	for r1 := cards.Two; r1 <= cards.Ace; r1++ {
		for r2 := r1; r2 <= cards.Ace; r2++ {
			for _, s1 := range suits {
				for _, s2 := range suits {
					if r1 == r2 && s1 >= s2 {
						continue
					}
					if r1 != r2 && r2 == r1 {
						continue
					}
					out = append(out, Combo{Card1: cards.NewCard(r1, s1), Card2: cards.NewCard(r2, s2), Weight: w})
				}
			}
		}
	}
	return out
}

// parseRangeWithDash parses a range with a dash (e.g., "KK-JJ", "AKs-ATs").
// Not part of spec §6's grammar but a harmless, common extension already
// present in the teacher's parser.
func parseRangeWithDash(rangeStr string) ([]Combo, error) {
	parts := strings.Split(rangeStr, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range format: %q (expected format: AA-KK)", rangeStr)
	}

	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])

	startRank1, startRank2, startSuited, err := parseHandComponents(start)
	if err != nil {
		return nil, fmt.Errorf("invalid start hand %q: %w", start, err)
	}
	endRank1, endRank2, endSuited, err := parseHandComponents(end)
	if err != nil {
		return nil, fmt.Errorf("invalid end hand %q: %w", end, err)
	}
	if startSuited != endSuited {
		return nil, fmt.Errorf("mismatched suited/offsuit in range %q", rangeStr)
	}

	var allCombos []Combo
	if startRank1 == startRank2 && endRank1 == endRank2 {
		for r := int(startRank1); r >= int(endRank1); r-- {
			rank := cards.Rank(r)
			allCombos = append(allCombos, weighted(generateCombos(rank, rank, startSuited), 1.0)...)
		}
		return allCombos, nil
	}

	if startRank1 != endRank1 {
		return nil, fmt.Errorf("invalid range %q (first rank must match)", rangeStr)
	}
	for r := int(startRank2); r >= int(endRank2); r-- {
		allCombos = append(allCombos, weighted(generateCombos(startRank1, cards.Rank(r), startSuited), 1.0)...)
	}
	return allCombos, nil
}

// parseHandComponents parses hand notation and returns (rank1, rank2, suited, error)
func parseHandComponents(hand string) (cards.Rank, cards.Rank, bool, error) {
	hand = strings.TrimSpace(hand)

	if len(hand) < 2 || len(hand) > 3 {
		return 0, 0, false, fmt.Errorf("invalid hand notation: %q", hand)
	}

	rank1, err := parseRankChar(hand[0])
	if err != nil {
		return 0, 0, false, err
	}
	rank2, err := parseRankChar(hand[1])
	if err != nil {
		return 0, 0, false, err
	}

	var suited bool
	if len(hand) == 3 {
		if rank1 == rank2 {
			return 0, 0, false, fmt.Errorf("pair %q cannot have suited/offsuit indicator", hand)
		}
		switch hand[2] {
		case 's', 'S':
			suited = true
		case 'o', 'O':
			suited = false
		default:
			return 0, 0, false, fmt.Errorf("invalid suited/offsuit indicator: %c", hand[2])
		}
	} else if rank1 != rank2 {
		return 0, 0, false, fmt.Errorf("ambiguous hand %q (use 's' for suited or 'o' for offsuit)", hand)
	}

	return rank1, rank2, suited, nil
}

// parseRankChar converts a character to a Rank
func parseRankChar(b byte) (cards.Rank, error) {
	switch b {
	case 'A', 'a':
		return cards.Ace, nil
	case 'K', 'k':
		return cards.King, nil
	case 'Q', 'q':
		return cards.Queen, nil
	case 'J', 'j':
		return cards.Jack, nil
	case 'T', 't':
		return cards.Ten, nil
	case '9':
		return cards.Nine, nil
	case '8':
		return cards.Eight, nil
	case '7':
		return cards.Seven, nil
	case '6':
		return cards.Six, nil
	case '5':
		return cards.Five, nil
	case '4':
		return cards.Four, nil
	case '3':
		return cards.Three, nil
	case '2':
		return cards.Two, nil
	default:
		return 0, fmt.Errorf("invalid rank: %c", b)
	}
}

// generateCombos generates all possible card combinations for a given hand,
// at default weight 1.0 (callers that need a different weight use weighted).
func generateCombos(rank1, rank2 cards.Rank, suited bool) []Combo {
	var combos []Combo

	suits := []cards.Suit{cards.Spades, cards.Hearts, cards.Diamonds, cards.Clubs}

	if rank1 == rank2 {
		for i := 0; i < len(suits); i++ {
			for j := i + 1; j < len(suits); j++ {
				combos = append(combos, Combo{
					Card1:  cards.NewCard(rank1, suits[i]),
					Card2:  cards.NewCard(rank2, suits[j]),
					Weight: 1.0,
				})
			}
		}
	} else if suited {
		for _, suit := range suits {
			combos = append(combos, Combo{
				Card1:  cards.NewCard(rank1, suit),
				Card2:  cards.NewCard(rank2, suit),
				Weight: 1.0,
			})
		}
	} else {
		for _, suit1 := range suits {
			for _, suit2 := range suits {
				if suit1 != suit2 {
					combos = append(combos, Combo{
						Card1:  cards.NewCard(rank1, suit1),
						Card2:  cards.NewCard(rank2, suit2),
						Weight: 1.0,
					})
				}
			}
		}
	}

	return combos
}
