package main

import (
	"context"
	"log"

	"github.com/eremzeit/skeleton/bench"
)

func perft(ctx context.Context, depth int, fen string, parallel bool) error {
	mode := "dfs"
	if parallel {
		mode = "parallel dfs"
	}
	log.Printf("============ perft(%d): %s\n", depth, mode)

	out := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			log.Println(s)
		}
	}()
	err := bench.Perft(ctx, depth, fen, parallel, true, out)
	close(out)
	<-done
	return err
}
