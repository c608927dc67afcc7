package equity

import (
	lru "github.com/opencoff/golang-lru"

	"github.com/behrlich/poker-solver/pkg/cards"
	"github.com/behrlich/poker-solver/pkg/notation"
)

// EquityResult represents the outcome of an equity calculation
type EquityResult struct {
	WinPct float64 // Percentage of times hero wins
	TiePct float64 // Percentage of times hero ties
	Equity float64 // Overall equity (win% + tie%/2)
}

// PotentialResult represents hand improvement potential
type PotentialResult struct {
	PositivePot float64 // Probability of improving when currently behind
	NegativePot float64 // Probability of losing equity when currently ahead
	ImprovePct  float64 // Overall probability hand strength improves
}

// Calculator computes hand equity vs opponent ranges. CalculateEquity results
// (flop, turn and river alike) are memoized in an LRU cache keyed by the
// hero cards, board cards and every opponent combo, since the same
// hero/board pair recurs across bucketing's many opponent-combo scans.
type Calculator struct {
	cache *lru.Cache[string, EquityResult]
}

// NewCalculator creates a new equity calculator.
func NewCalculator() *Calculator {
	cache, err := lru.New[string, EquityResult](4096)
	if err != nil {
		panic(err)
	}
	return &Calculator{cache: cache}
}

// CalculateEquity computes hero's equity against opponent's range
// hero: 2 cards
// board: 3-5 cards (flop, turn, or river)
// opponentRange: list of opponent combos
func (c *Calculator) CalculateEquity(hero []cards.Card, board []cards.Card, opponentRange []notation.Combo) EquityResult {
	key := equityCacheKey(hero, board, opponentRange)
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}

	var result EquityResult
	switch len(board) {
	case 5:
		result = c.calculateRiverEquity(hero, board, opponentRange)
	case 4:
		result = c.calculateTurnEquity(hero, board, opponentRange)
	default:
		result = c.calculateFlopEquity(hero, board, opponentRange)
	}

	c.cache.Add(key, result)
	return result
}

func equityCacheKey(hero, board []cards.Card, opponentRange []notation.Combo) string {
	key := make([]byte, 0, 4+4*len(board)+4*len(opponentRange))
	for _, c := range hero {
		key = append(key, c.String()...)
	}
	for _, c := range board {
		key = append(key, c.String()...)
	}
	for _, combo := range opponentRange {
		key = append(key, combo.String()...)
	}
	return string(key)
}

// calculateRiverEquity handles completed board (5 cards)
func (c *Calculator) calculateRiverEquity(hero []cards.Card, board []cards.Card, opponentRange []notation.Combo) EquityResult {
	heroRank := cards.EvaluateRankPartial([2]cards.Card{hero[0], hero[1]}, board)

	wins := 0.0
	ties := 0.0
	total := 0.0

	for _, oppCombo := range opponentRange {
		oppRank := cards.EvaluateRankPartial([2]cards.Card{oppCombo.Card1, oppCombo.Card2}, board)

		switch {
		case heroRank > oppRank:
			wins++
		case heroRank == oppRank:
			ties++
		}
		total++
	}

	if total == 0 {
		return EquityResult{Equity: 0.5} // No valid opponent combos
	}

	winPct := wins / total
	tiePct := ties / total
	equity := winPct + tiePct/2.0

	return EquityResult{
		WinPct: winPct,
		TiePct: tiePct,
		Equity: equity,
	}
}

// calculateTurnEquity handles turn (4 cards, need 1 river)
func (c *Calculator) calculateTurnEquity(hero []cards.Card, board []cards.Card, opponentRange []notation.Combo) EquityResult {
	usedCards := makeCardSet(append(hero, board...))

	wins := 0.0
	ties := 0.0
	total := 0.0

	// Enumerate all possible river cards
	for rank := cards.Two; rank <= cards.Ace; rank++ {
		for suit := cards.Spades; suit <= cards.Clubs; suit++ {
			river := cards.Card{Rank: rank, Suit: suit}
			if usedCards[river] {
				continue
			}

			fullBoard := append(append([]cards.Card{}, board...), river)
			heroRank := cards.EvaluateRankPartial([2]cards.Card{hero[0], hero[1]}, fullBoard)

			// Evaluate against each opponent combo
			for _, oppCombo := range opponentRange {
				// Skip if opponent has the river card
				if oppCombo.Card1 == river || oppCombo.Card2 == river {
					continue
				}

				oppRank := cards.EvaluateRankPartial([2]cards.Card{oppCombo.Card1, oppCombo.Card2}, fullBoard)

				switch {
				case heroRank > oppRank:
					wins++
				case heroRank == oppRank:
					ties++
				}
				total++
			}
		}
	}

	if total == 0 {
		return EquityResult{Equity: 0.5}
	}

	winPct := wins / total
	tiePct := ties / total
	equity := winPct + tiePct/2.0

	return EquityResult{
		WinPct: winPct,
		TiePct: tiePct,
		Equity: equity,
	}
}

// calculateFlopEquity handles flop (3 cards, need turn + river)
func (c *Calculator) calculateFlopEquity(hero []cards.Card, board []cards.Card, opponentRange []notation.Combo) EquityResult {
	usedCards := makeCardSet(append(hero, board...))

	wins := 0.0
	ties := 0.0
	total := 0.0

	// Enumerate all possible turn cards
	for turnRank := cards.Two; turnRank <= cards.Ace; turnRank++ {
		for turnSuit := cards.Spades; turnSuit <= cards.Clubs; turnSuit++ {
			turn := cards.Card{Rank: turnRank, Suit: turnSuit}
			if usedCards[turn] {
				continue
			}

			turnBoard := append(append([]cards.Card{}, board...), turn)
			turnUsed := makeCardSet(append(append([]cards.Card{}, hero...), turnBoard...))

			// Enumerate all possible river cards
			for riverRank := cards.Two; riverRank <= cards.Ace; riverRank++ {
				for riverSuit := cards.Spades; riverSuit <= cards.Clubs; riverSuit++ {
					river := cards.Card{Rank: riverRank, Suit: riverSuit}
					if turnUsed[river] {
						continue
					}

					fullBoard := append(append([]cards.Card{}, turnBoard...), river)
					heroRank := cards.EvaluateRankPartial([2]cards.Card{hero[0], hero[1]}, fullBoard)

					// Evaluate against each opponent combo
					for _, oppCombo := range opponentRange {
						// Skip if opponent has turn or river
						if oppCombo.Card1 == turn || oppCombo.Card2 == turn ||
							oppCombo.Card1 == river || oppCombo.Card2 == river {
							continue
						}

						oppRank := cards.EvaluateRankPartial([2]cards.Card{oppCombo.Card1, oppCombo.Card2}, fullBoard)

						switch {
						case heroRank > oppRank:
							wins++
						case heroRank == oppRank:
							ties++
						}
						total++
					}
				}
			}
		}
	}

	if total == 0 {
		return EquityResult{Equity: 0.5}
	}

	winPct := wins / total
	tiePct := ties / total
	equity := winPct + tiePct/2.0

	return EquityResult{
		WinPct: winPct,
		TiePct: tiePct,
		Equity: equity,
	}
}

// CalculatePotential computes hand improvement potential
// Only works for flop (3 cards) - returns zero for turn/river
// Simplified version: measures equity variance across runouts as a proxy for potential
// High variance = drawing hand (high potential), low variance = made hand (low potential)
func (c *Calculator) CalculatePotential(hero []cards.Card, board []cards.Card, opponentRange []notation.Combo) PotentialResult {
	// Only calculate potential for flop
	if len(board) != 3 {
		return PotentialResult{}
	}

	usedCards := makeCardSet(append(hero, board...))

	// Sample different turn cards and calculate equity on each
	var equities []float64
	sampleTurns := 0
	maxSamples := 10 // Sample 10 turn cards for efficiency

	for turnRank := cards.Two; turnRank <= cards.Ace && sampleTurns < maxSamples; turnRank++ {
		for turnSuit := cards.Spades; turnSuit <= cards.Clubs && sampleTurns < maxSamples; turnSuit++ {
			turn := cards.Card{Rank: turnRank, Suit: turnSuit}
			if usedCards[turn] {
				continue
			}

			// Calculate equity on this turn
			turnBoard := append(board, turn)
			result := c.calculateTurnEquity(hero, turnBoard, opponentRange)
			equities = append(equities, result.Equity)
			sampleTurns++
		}
	}

	if len(equities) == 0 {
		return PotentialResult{}
	}

	// Calculate mean equity
	mean := 0.0
	for _, eq := range equities {
		mean += eq
	}
	mean /= float64(len(equities))

	// Calculate variance
	variance := 0.0
	for _, eq := range equities {
		diff := eq - mean
		variance += diff * diff
	}
	variance /= float64(len(equities))

	// Variance (not its square root) is the potential metric
	stdDev := 0.0
	if variance > 0 {
		stdDev = variance // For simplicity, use variance directly (already small)
	}

	// Map variance to potential metrics:
	// Variance ranges from 0 (no change across runouts) to ~0.25 (max variance at 50/50)
	// - High variance (>0.05) = drawing hand with high potential
	// - Low variance (<0.01) = made hand with low potential

	// Normalize variance to 0-1 range for potential
	// Max theoretical variance is 0.25 (at 50/50 split)
	normalizedVar := stdDev / 0.25
	if normalizedVar > 1.0 {
		normalizedVar = 1.0
	}

	// Positive potential: If currently behind, potential to improve
	positivePot := 0.0
	if mean < 0.5 {
		// Behind with high variance = high positive potential
		positivePot = normalizedVar
	}

	// Negative potential: If currently ahead, risk of getting outdrawn
	negativePot := 0.0
	if mean > 0.5 {
		// Ahead with high variance = high negative potential (vulnerable)
		negativePot = normalizedVar
	}

	// Improvement percentage: overall volatility
	improvePct := normalizedVar

	return PotentialResult{
		PositivePot: positivePot,
		NegativePot: negativePot,
		ImprovePct:  improvePct,
	}
}

// makeCardSet creates a set of cards for fast lookup
func makeCardSet(cardList []cards.Card) map[cards.Card]bool {
	set := make(map[cards.Card]bool)
	for _, c := range cardList {
		set[c] = true
	}
	return set
}
