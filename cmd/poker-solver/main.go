package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/behrlich/poker-solver/pkg/abstraction"
	"github.com/behrlich/poker-solver/pkg/cards"
	configpkg "github.com/behrlich/poker-solver/pkg/config"
	"github.com/behrlich/poker-solver/pkg/notation"
	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/solver"
)

// CLI is the poker-solver trainer's flag set, parsed by kong. A solve always
// starts OOP-to-act at Board with the two ranges given and runs discounted
// CFR+ until exploitability falls below TargetNash percent of the pot.
var CLI struct {
	Board    string `arg:"" help:"board cards (3, 4, or 5 cards), e.g. 2h7d9s"`
	OopRange string `help:"out-of-position range string, e.g. AA,KK,AKs" required:""`
	IpRange  string `help:"in-position range string, e.g. QQ,JJ,AQo" required:""`

	Config      string  `help:"optional HCL file with game params and bet menus"`
	Pot         float64 `help:"starting pot size (overrides config)" default:"0"`
	Stack       float64 `help:"starting effective stack size (overrides config)" default:"0"`
	AllInCutOff float64 `help:"bet-to-pot fraction beyond which a bet is treated as all-in (overrides config)" default:"0"`
	TargetNash  float64 `help:"stop once exploitability falls below this percent of the starting pot" default:"1.0"`

	Out     string `help:"write the solved result as JSON to this path (default: stdout)"`
	Buckets int    `help:"card-abstraction buckets for the human-readable summary (0 disables)" default:"0"`

	LogLevel string `help:"log level" enum:"debug,info,warn,error" default:"info"`
	LogFile  string `help:"log file path ('-' for stderr)" default:"-"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("poker-solver"),
		kong.Description("Discounted CFR+ solver for heads-up no-limit hold'em subgames"),
		kong.UsageOnError(),
	)

	logger, err := newLogger(CLI.LogFile, CLI.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "poker-solver: %v\n", err)
		os.Exit(1)
	}

	cfg, err := configpkg.Load(CLI.Config)
	if err != nil {
		var cfgErr *configpkg.Error
		if errors.As(err, &cfgErr) {
			logger.Fatal("invalid configuration", "error", cfgErr)
		}
		logger.Fatal("failed to load config", "error", err)
	}
	applyOverrides(&cfg)

	board, err := ranges.ParseBoard(CLI.Board)
	if err != nil {
		logger.Fatal("invalid board", "error", err)
	}

	trainer, err := solver.NewTrainer(board, CLI.OopRange, CLI.IpRange, cfg.ToGameParams(), logger)
	if err != nil {
		logger.Fatal("failed to build trainer", "error", err)
	}

	logger.Info("starting solve",
		"board", CLI.Board,
		"oopRange", CLI.OopRange,
		"ipRange", CLI.IpRange,
		"targetNashDistance", CLI.TargetNash,
	)
	trainer.Train(float32(CLI.TargetNash))

	result := trainer.Result()
	if err := writeResult(result, CLI.Out); err != nil {
		logger.Fatal("failed to write result", "error", err)
	}

	if CLI.Buckets > 0 {
		printBucketSummary(trainer, CLI.Buckets)
	}
}

// applyOverrides lets non-zero CLI flags win over whatever the config file
// (or its defaults) set, since kong has no clean "was this flag passed"
// signal for plain float64 fields here.
func applyOverrides(cfg *configpkg.Config) {
	if CLI.Pot != 0 {
		cfg.Game.StartingPot = CLI.Pot
	}
	if CLI.Stack != 0 {
		cfg.Game.StartingStack = CLI.Stack
	}
	if CLI.AllInCutOff != 0 {
		cfg.Game.AllInCutOff = CLI.AllInCutOff
	}
}

func newLogger(path, level string) (*log.Logger, error) {
	parsedLevel, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	out := os.Stderr
	if path != "" && path != "-" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %q: %w", path, err)
		}
		out = f
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "poker-solver",
		TimeFormat:      "15:04:05",
		Level:           parsedLevel,
	})
	return logger, nil
}

func writeResult(result solver.GameResult, path string) error {
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if path == "" {
		fmt.Println(string(body))
		return nil
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("writing result to %q: %w", path, err)
	}
	return nil
}

// printBucketSummary prints each OOP range hand alongside the card-
// abstraction bucket it falls into on the starting board, against the IP
// range. This is purely a display aid: the CFR traversal above never
// consults the bucketer.
func printBucketSummary(trainer *solver.Trainer, numBuckets int) {
	board := boardCards(trainer.StartingBoard)

	ipCombos, err := notation.ParseRange(CLI.IpRange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "poker-solver: bucket summary unavailable: %v\n", err)
		return
	}

	bucketer := abstraction.NewBucketer(board, ipCombos, numBuckets)

	fmt.Println("\nBucket summary (OOP range vs IP range):")
	for _, combo := range trainer.Traversal.OopRM.StartingCombinations() {
		if combo.Weight == 0 {
			continue
		}
		hero := []cards.Card{cards.FromIndex(combo.Hand[0]), cards.FromIndex(combo.Hand[1])}
		bucket := bucketer.BucketHand(hero)
		fmt.Printf("  %s%s  bucket=%d  %s\n", hero[0], hero[1], bucket, bucketer.GetBucketInfo(bucket))
	}
}

func boardCards(b ranges.Board) []cards.Card {
	out := make([]cards.Card, 0, 5)
	for _, idx := range b {
		if idx == cards.Absent {
			continue
		}
		out = append(out, cards.FromIndex(idx))
	}
	return out
}
