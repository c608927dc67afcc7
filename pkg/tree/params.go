package tree

// GameParams bundles the game-wide constants the tree builder consumes:
// stack/pot sizing, the all-in cutoff, and per-street per-player bet-size
// menus (each entry is a multiple of pot, applied in Builder.createNextBetNodes).
// Grounded on original_source/src/cfr/game_params.rs.
type GameParams struct {
	ParallelStreet uint8 // 0 disables parallel chance-node evaluation

	StartingPot   float32
	StartingStack float32
	AllInCutOff   float32

	DefaultBet  float32
	DefaultBets [][]float32

	IPFlopBets  [][]float32
	OOPFlopBets [][]float32
	IPTurnBets  [][]float32
	OOPTurnBets [][]float32
	IPRiverBets [][]float32
	OOPRiverBets [][]float32
}
