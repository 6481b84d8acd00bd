package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fatih/color"

	"github.com/eremzeit/skeleton/board"
	"github.com/eremzeit/skeleton/engine"
)

// search plays the engine against a random mover from fen.
func search(ctx context.Context, fen string, steps, maxDepth int, movetime time.Duration) error {
	r := rand.New(rand.NewSource(time.Now().Unix()))
	b, err := board.NewBoard(board.WithFEN(fen))
	if err != nil {
		return err
	}
	e := engine.NewEngine(&engine.EngineConfig{
		HashTableSize: engine.DefaultHashTableSizeMB,
	})
	cfg := &engine.SearchConfig{
		ClockConfig: engine.ClockConfig{
			Movetime: movetime,
			Depth:    uint8(min(max(maxDepth, 0), int(engine.MaxDepth))),
		},
		Debug: true,
	}
	if maxDepth > 0 {
		cfg.ClockConfig.Movetime = 0
	}
	fmt.Println(b.Draw())
	fmt.Println(b.FEN())

	playingSide := b.Turn()
	engineLabel := color.New(color.FgGreen, color.Bold).SprintFunc()
	randomLabel := color.New(color.FgYellow).SprintFunc()

	var history []board.Move
	for step := 1; step <= steps*2; step++ {
		if err := ctx.Err(); err != nil {
			break
		}
		var mv board.Move
		label := randomLabel("random")
		if b.Turn() == playingSide {
			mv, err = e.Search(ctx, b, cfg)
			if err != nil {
				return err
			}
			hits, misses, writes := e.TranspositionTable().Stats()
			fmt.Printf("tt: hits=%d misses=%d writes=%d\n", hits, misses, writes)
			label = engineLabel("engine")
		} else {
			mvs := b.GenerateMoves()
			mv = mvs[r.Intn(len(mvs))]
		}
		b.Apply(mv)
		history = append(history, mv)

		fmt.Printf("\n>>> %s %s: %s\n", label, mv.Side(), mv)
		fmt.Println(b.FEN())
		fmt.Println(b.Draw())
		if !b.State().IsRunning() {
			break
		}
	}
	log.Println("=============== game ended:", b.State())
	fmt.Println(b.FEN())

	start := b.Clone()
	for i := len(history) - 1; i >= 0; i-- {
		start.Revert(history[i])
	}
	fmt.Println(engine.DumpHistory(start, history))
	return nil
}
