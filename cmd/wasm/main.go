//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/charmbracelet/log"

	"github.com/behrlich/poker-solver/pkg/cards"
	"github.com/behrlich/poker-solver/pkg/config"
	"github.com/behrlich/poker-solver/pkg/notation"
	"github.com/behrlich/poker-solver/pkg/ranges"
	"github.com/behrlich/poker-solver/pkg/solver"
	"github.com/behrlich/poker-solver/pkg/traversal"
	"github.com/behrlich/poker-solver/pkg/tree"
)

func main() {
	js.Global().Set("pokerSolver", makePokerSolverAPI())
	select {}
}

// makePokerSolverAPI creates the JavaScript API object
func makePokerSolverAPI() js.Value {
	api := make(map[string]interface{})

	api["solve"] = js.FuncOf(solveWrapper)
	api["parsePosition"] = js.FuncOf(parsePositionWrapper)
	api["version"] = "0.4.0"

	return js.ValueOf(api)
}

// solveWrapper wraps the solve function for JavaScript.
// Arguments: positionStr (string), targetNashDistance (number, percent of
// pot), progressCallback (function, optional).
// Returns: Promise that resolves to the solved result as JSON.
func solveWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{
			"error": "Usage: solve(positionStr, targetNashDistance, progressCallback?)",
		})
	}

	positionStr := args[0].String()
	targetNashDistance := args[1].Float()

	var progressCallback js.Value
	if len(args) >= 3 && !args[2].IsNull() && !args[2].IsUndefined() {
		progressCallback = args[2]
	}

	promiseConstructor := js.Global().Get("Promise")
	handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) interface{} {
		resolve := promiseArgs[0]
		reject := promiseArgs[1]

		go func() {
			defer func() {
				if r := recover(); r != nil {
					reject.Invoke(js.ValueOf(fmt.Sprintf("Solver panicked: %v", r)))
				}
			}()

			if !progressCallback.IsUndefined() && !progressCallback.IsNull() {
				progressCallback.Invoke(js.ValueOf(map[string]interface{}{"status": "started"}))
			}

			resultJSON, err := runSolver(positionStr, targetNashDistance)
			if err != nil {
				reject.Invoke(js.ValueOf(err.Error()))
				return
			}

			if !progressCallback.IsUndefined() && !progressCallback.IsNull() {
				progressCallback.Invoke(js.ValueOf(map[string]interface{}{"status": "done"}))
			}

			resolve.Invoke(js.ValueOf(resultJSON))
		}()

		return nil
	})

	return promiseConstructor.New(handler)
}

// runSolver parses a FEN-style position, trains discounted CFR+ to
// targetNashDistance, and returns the solved result as a JSON string. The
// betting tree always uses the default bet-size menu -- a wasm caller that
// needs custom sizing should ship an HCL config via the CLI instead.
func runSolver(positionStr string, targetNashDistance float64) (string, error) {
	gs, err := notation.ParsePosition(positionStr)
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	board, err := boardFromCards(gs.Board)
	if err != nil {
		return "", fmt.Errorf("board error: %w", err)
	}

	params := config.Default().ToGameParams()
	params.StartingPot = float32(gs.Pot)
	if len(gs.Players) == 2 {
		params.StartingStack = float32(gs.Players[0].Stack)
	}

	oopCombos := gs.Players[0].Range
	ipCombos := gs.Players[1].Range

	tv := traversal.BuildFromCombos(board, oopCombos, ipCombos)
	builder := tree.NewBuilder(tv, params)
	root := builder.Construct(board)

	trainer := &solver.Trainer{
		Traversal:     tv,
		Params:        params,
		StartingBoard: board,
		Root:          root,
		Logger:        log.Default(),
	}
	trainer.Train(float32(targetNashDistance))

	body, err := json.Marshal(trainer.Result())
	if err != nil {
		return "", fmt.Errorf("JSON conversion error: %w", err)
	}
	return string(body), nil
}

func boardFromCards(cs []cards.Card) (ranges.Board, error) {
	var sb []byte
	for _, c := range cs {
		sb = append(sb, c.String()...)
	}
	return ranges.ParseBoard(string(sb))
}

// parsePositionWrapper wraps the position parser for JavaScript
func parsePositionWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{
			"error": "Usage: parsePosition(positionStr)",
		})
	}

	positionStr := args[0].String()

	gs, err := notation.ParsePosition(positionStr)
	if err != nil {
		return js.ValueOf(map[string]interface{}{
			"error": err.Error(),
		})
	}

	result := map[string]interface{}{
		"pot":    gs.Pot,
		"street": gs.Street.String(),
		"toAct":  gs.ToAct,
		"players": []map[string]interface{}{
			{
				"position": string(gs.Players[0].Position),
				"stack":    gs.Players[0].Stack,
				"combos":   len(gs.Players[0].Range),
			},
			{
				"position": string(gs.Players[1].Position),
				"stack":    gs.Players[1].Stack,
				"combos":   len(gs.Players[1].Range),
			},
		},
	}

	return js.ValueOf(result)
}
