package bench

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eremzeit/skeleton/board"
)

// Counters tallies the leaf moves of a perft walk.
type Counters struct {
	Nodes      uint64
	Captures   uint64
	EnPassants uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
}

func (c *Counters) Add(other Counters) {
	c.Nodes += other.Nodes
	c.Captures += other.Captures
	c.EnPassants += other.EnPassants
	c.Castles += other.Castles
	c.Promotions += other.Promotions
	c.Checks += other.Checks
}

// DivideEntry is the node count below one root move.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// Count walks every legal line of depth plies from b. b is restored
// before Count returns.
func Count(b *board.Board, depth int) Counters {
	var c Counters
	count(b, depth, &c)
	return c
}

func count(b *board.Board, d int, c *Counters) {
	if d == 0 {
		c.Nodes++
		return
	}

	mvs := b.GenerateMoves()
	if d == 1 {
		for _, mv := range mvs {
			tally(b, mv, c)
		}
		return
	}
	for _, mv := range mvs {
		b.Apply(mv)
		count(b, d-1, c)
		b.Revert(mv)
	}
}

func tally(b *board.Board, mv board.Move, c *Counters) {
	c.Nodes++
	if mv.IsCapture() {
		c.Captures++
	}
	if mv.IsEnPassant() {
		c.EnPassants++
	}
	if mv.IsCastle() {
		c.Castles++
	}
	if mv.IsPromote() {
		c.Promotions++
	}
	b.Apply(mv)
	if b.IsInCheck(b.Turn()) {
		c.Checks++
	}
	b.Revert(mv)
}

// Divide counts each root move of b separately, in move generation order.
// With parallel set, root moves are walked concurrently on clones of b.
func Divide(ctx context.Context, b *board.Board, depth int, parallel bool) ([]DivideEntry, Counters, error) {
	if depth < 1 {
		return nil, Count(b, depth), nil
	}

	mvs := b.GenerateMoves()
	entries := make([]DivideEntry, len(mvs))
	perMove := make([]Counters, len(mvs))

	if !parallel {
		for i, mv := range mvs {
			if err := ctx.Err(); err != nil {
				return nil, Counters{}, err
			}
			b.Apply(mv)
			perMove[i] = Count(b, depth-1)
			b.Revert(mv)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for i, mv := range mvs {
			bb := b.Clone()
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				bb.Apply(mv)
				perMove[i] = Count(bb, depth-1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, Counters{}, err
		}
	}

	var total Counters
	for i, mv := range mvs {
		if depth == 1 {
			// the root move itself is the leaf
			perMove[i] = Counters{}
			tally(b, mv, &perMove[i])
		}
		entries[i] = DivideEntry{Move: mv, Nodes: perMove[i].Nodes}
		total.Add(perMove[i])
	}
	return entries, total, nil
}

// Perft runs a perft of depth plies on fen and writes the per-move divide
// (when verbose) followed by a summary line to out.
func Perft(ctx context.Context, depth int, fen string, parallel, verbose bool, out chan<- string) error {
	b, err := board.NewBoard(
		board.WithFEN(fen),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	entries, c, err := Divide(ctx, b, depth, parallel)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if verbose {
		for _, e := range entries {
			out <- fmt.Sprintf("%s: %d", e.Move.UCI(), e.Nodes)
		}
	}
	out <- message.NewPrinter(language.English).
		Sprintf("d=%d nodes=%d rate=%dn/s cap=%d enp=%d cas=%d pro=%d chk=%d (%.3fs elapsed)",
			depth, c.Nodes, int(float64(c.Nodes)/(elapsed+1).Seconds()), c.Captures, c.EnPassants, c.Castles, c.Promotions, c.Checks, elapsed.Seconds())

	return nil
}

// Collect runs Perft and returns its output lines.
func Collect(ctx context.Context, depth int, fen string, parallel, verbose bool) ([]string, error) {
	out := make(chan string)
	var lines []string
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for line := range out {
			lines = append(lines, line)
		}
	}()
	err := Perft(ctx, depth, fen, parallel, verbose, out)
	close(out)
	wg.Wait()
	return lines, err
}
