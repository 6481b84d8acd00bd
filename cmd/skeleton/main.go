package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"time"

	"github.com/eremzeit/skeleton/board"
	"github.com/eremzeit/skeleton/uci"
)

const (
	exitOK = iota
	exitErr
)

var (
	profile = flag.Bool("profile", false, "serve pprof endpoint")
	fen     = flag.String("fen", board.DefaultStartingPositionFEN, "starting position for non-UCI modes")

	perftDepth  = flag.Int("perft", 0, "run perft to the given depth")
	perftSerial = flag.Bool("perft.serial", false, "walk root moves sequentially in perft mode")

	movegenRun  = flag.Bool("movegen", false, "run movegen mode")
	movegenDraw = flag.Bool("movegen.draw", false, "draw applied moves in movegen mode")

	stepRun   = flag.Bool("step", false, "run step mode")
	stepCount = flag.Int("step.count", 500, "random moves to play in step mode")

	searchRun      = flag.Bool("search", false, "run search mode")
	searchSteps    = flag.Int("search.steps", 50, "full moves to play in search mode")
	searchMaxDepth = flag.Int("search.maxdepth", 0, "search max depth in search mode")
	searchMovetime = flag.Duration("search.movetime", 2*time.Second, "search time per move in search mode")
)

func main() {
	flag.Parse()

	if *profile {
		runProfiler()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := realMain(ctx)
	stop()
	if err != nil {
		log.Println(err)
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func runProfiler() {
	go func() {
		addr := "localhost:6060"
		log.Printf("starting pprof endpoint: http://%s/debug/pprof\n", addr)
		_ = http.ListenAndServe(addr, nil)
	}()
}

func realMain(ctx context.Context) error {
	switch {
	case *perftDepth > 0:
		return perft(ctx, *perftDepth, *fen, !*perftSerial)
	case *movegenRun:
		return movegen(*fen, *movegenDraw)
	case *stepRun:
		return step(*fen, *stepCount)
	case *searchRun:
		return search(ctx, *fen, *searchSteps, *searchMaxDepth, *searchMovetime)
	}

	return uci.NewInterface().Run(ctx)
}
