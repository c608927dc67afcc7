// Package solver owns the discounted CFR+ trainer loop: it builds the
// betting tree, drives self-play iterations until measured exploitability
// falls below target, then runs a final best-response pass to stamp
// per-hand EVs on every action node. Grounded on
// original_source/src/cfr/game.rs's Game::train.
package solver

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/traversal"
	"github.com/behrlich/poker-solver/pkg/tree"
)

// Trainer owns one solve: a traversal context, the game's static
// parameters, the starting board, and the tree built from them.
type Trainer struct {
	Traversal     *traversal.Traversal
	Params        tree.GameParams
	StartingBoard ranges.Board

	Root *tree.ActionNode

	Logger *log.Logger

	// Clock times the elapsed duration logged at every 25-iteration
	// checkpoint. Real by default; tests substitute quartz.NewMock so a
	// run does not read wall time.
	Clock quartz.Clock
}

// NewTrainer parses oopRange/ipRange, builds the range managers, and
// constructs the betting tree rooted at startingBoard.
func NewTrainer(startingBoard ranges.Board, oopRange, ipRange string, params tree.GameParams, logger *log.Logger) (*Trainer, error) {
	tv, err := traversal.BuildFromRanges(startingBoard, oopRange, ipRange)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	builder := tree.NewBuilder(tv, params)
	root := builder.Construct(startingBoard)

	return &Trainer{
		Traversal:     tv,
		Params:        params,
		StartingBoard: startingBoard,
		Root:          root,
		Logger:        logger,
		Clock:         quartz.NewReal(),
	}, nil
}

// Train runs the CFR+ self-play loop, checking exploitability every 25
// iterations, until it falls below targetNashDistance (percent of the
// starting pot). It then runs a final best-response pass with EV
// persistence enabled. Grounded on Game::train in
// original_source/src/cfr/game.rs and spec §4.8.
func (tr *Trainer) Train(targetNashDistance float32) {
	if tr.Clock == nil {
		tr.Clock = quartz.NewReal()
	}
	start := tr.Clock.Now()

	tv := tr.Traversal
	board := tr.StartingBoard

	tv.Traverser = traversal.OOP
	ipRange := tv.GetRangeForOpponent(board)
	oopRange := tv.GetRangeForActivePlayer(board)

	ip := make([]float32, len(ipRange))
	for i, c := range ipRange {
		ip[i] = c.Combos
	}
	oop := make([]float32, len(oopRange))
	for i, c := range oopRange {
		oop[i] = c.Combos
	}

	ipRelativeProbs := ranges.RelativeProbabilities(ipRange, oopRange)
	oopRelativeProbs := ranges.RelativeProbabilities(oopRange, ipRange)

	var iterations uint32
	for {
		if iterations%25 == 0 {
			tv.Traverser = traversal.OOP
			oopBR := tr.overallBestResponse(oopRelativeProbs, ip)
			tv.Traverser = traversal.IP
			ipBR := tr.overallBestResponse(ipRelativeProbs, oop)
			exploitability := (ipBR + oopBR) / 2.0 / tr.Params.StartingPot * 100.0

			tr.Logger.Info("training iteration",
				"iteration", iterations,
				"oopBestResponse", oopBR,
				"ipBestResponse", ipBR,
				"exploitabilityPercentOfPot", exploitability,
				"elapsed", tr.Clock.Now().Sub(start).Round(time.Millisecond),
			)

			if exploitability < targetNashDistance {
				break
			}
		}

		tv.Iteration = iterations
		tv.Traverser = traversal.OOP
		tr.Root.CFRTraversal(tv, ip, board)
		tv.Traverser = traversal.IP
		tr.Root.CFRTraversal(tv, oop, board)
		iterations++
	}

	tr.Logger.Info("target exploitability reached, persisting node EVs")
	tv.PersistEvs = true
	tv.Traverser = traversal.OOP
	tr.overallBestResponse(oopRelativeProbs, ip)
	tv.Traverser = traversal.IP
	tr.overallBestResponse(ipRelativeProbs, oop)
	tr.Logger.Info("done persisting node EVs")
}

func (tr *Trainer) overallBestResponse(responderRelativeProbs []float64, oppReachProbs []float32) float32 {
	tv := tr.Traversal
	board := tr.StartingBoard

	responderHands := tv.GetRangeForActivePlayer(board)
	opponentHands := tv.GetRangeForOpponent(board)
	unblocked := ranges.UnblockedHands(responderHands, opponentHands)

	evs := tr.Root.BestResponse(tv, oppReachProbs, board)

	var sum float64
	for i, ev := range evs {
		if unblocked[i] == 0 {
			continue
		}
		sum += float64(ev) * responderRelativeProbs[i] / unblocked[i]
	}
	return float32(sum)
}
