// Package config loads the trainer's optional HCL config file: game-wide
// constants and per-street/per-player bet-size menus, so a solve can be
// expressed outside of a wall of flag strings. Grounded on
// lox-pokerforbots/internal/server/config.go's LoadServerConfig shape
// (hclparse + gohcl.DecodeBody, stat-for-missing-file, default-then-decode).
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/behrlich/poker-solver/pkg/tree"
)

// Error distinguishes a malformed config file or an invalid game parameter
// from the plain I/O errors the CLI already surfaces, so the driver can
// report the two differently.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Path: path, Err: err}
}

// GameSettings mirrors the scalar fields of tree.GameParams for HCL decoding.
type GameSettings struct {
	ParallelStreet int     `hcl:"parallel_street,optional"`
	StartingPot    float64 `hcl:"starting_pot,optional"`
	StartingStack  float64 `hcl:"starting_stack,optional"`
	AllInCutOff    float64 `hcl:"allin_cutoff,optional"`
	DefaultBet     float64 `hcl:"default_bet,optional"`
}

// BetMenu is one "bets" block: a pot-multiple menu per raise depth, labeled
// by street and player (oop/ip/default).
type BetMenu struct {
	Street string      `hcl:"street,label"`
	Player string      `hcl:"player,label"`
	Sizes  [][]float64 `hcl:"sizes"`
}

// Config is the decoded shape of an optional --config file, the local-file
// analogue of the original's SolutionConfig envelope (spec §6), minus the
// queue-ingestion fields that stay out of scope.
type Config struct {
	Game GameSettings `hcl:"game,block"`
	Bets []BetMenu    `hcl:"bets,block"`
}

// Default returns the game parameters used when no --config file is given.
func Default() Config {
	return Config{
		Game: GameSettings{
			StartingPot:   100,
			StartingStack: 1000,
			AllInCutOff:   0.9,
			DefaultBet:    1.0,
		},
	}
}

// Load reads and decodes an HCL config file at path. A missing file is not
// an error: the caller gets Default() back, matching LoadServerConfig's
// fallback behavior.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Config{}, wrapErr(path, diags)
	}

	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return Config{}, wrapErr(path, diags)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, wrapErr(path, err)
	}
	return cfg, nil
}

// Validate checks the decoded config for values the tree builder can't
// recover from, rather than letting them surface as a later panic.
func (c Config) Validate() error {
	if c.Game.StartingPot <= 0 {
		return &Error{Err: fmt.Errorf("starting_pot must be positive")}
	}
	if c.Game.StartingStack <= 0 {
		return &Error{Err: fmt.Errorf("starting_stack must be positive")}
	}
	if c.Game.AllInCutOff <= 0 || c.Game.AllInCutOff > 1 {
		return &Error{Err: fmt.Errorf("allin_cutoff must be in (0, 1]")}
	}
	for _, b := range c.Bets {
		switch b.Street {
		case "flop", "turn", "river":
		default:
			return &Error{Err: fmt.Errorf("bets block: unknown street %q", b.Street)}
		}
		switch b.Player {
		case "ip", "oop", "default":
		default:
			return &Error{Err: fmt.Errorf("bets block: unknown player %q", b.Player)}
		}
	}
	return nil
}

// ToGameParams converts the decoded config into tree.GameParams, the shape
// the builder actually consumes.
func (c Config) ToGameParams() tree.GameParams {
	params := tree.GameParams{
		ParallelStreet: uint8(c.Game.ParallelStreet),
		StartingPot:    float32(c.Game.StartingPot),
		StartingStack:  float32(c.Game.StartingStack),
		AllInCutOff:    float32(c.Game.AllInCutOff),
		DefaultBet:     float32(c.Game.DefaultBet),
	}

	for _, b := range c.Bets {
		sizes := toFloat32Menu(b.Sizes)
		switch {
		case b.Street == "flop" && b.Player == "oop":
			params.OOPFlopBets = sizes
		case b.Street == "flop" && b.Player == "ip":
			params.IPFlopBets = sizes
		case b.Street == "turn" && b.Player == "oop":
			params.OOPTurnBets = sizes
		case b.Street == "turn" && b.Player == "ip":
			params.IPTurnBets = sizes
		case b.Street == "river" && b.Player == "oop":
			params.OOPRiverBets = sizes
		case b.Street == "river" && b.Player == "ip":
			params.IPRiverBets = sizes
		case b.Player == "default":
			params.DefaultBets = sizes
		}
	}
	return params
}

func toFloat32Menu(menu [][]float64) [][]float32 {
	out := make([][]float32, len(menu))
	for i, level := range menu {
		out[i] = make([]float32, len(level))
		for j, v := range level {
			out[i][j] = float32(v)
		}
	}
	return out
}
