package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eremzeit/skeleton/board"
)

const (
	clockTimePVConsistencyDecay       = 0.95 // more reduction with decay towards 0
	clockTimeScoreConsistencyMaxDecay = 0.95
	clockTimeScoreConsistencyWindow   = 0.75
)

var ErrNoMove = errors.New("cannot resolve best move")

func DefaultLogger(a ...any) {
	fmt.Println(a...)
}

// DumpHistory renders mvs, played from b, in numbered algebraic form.
func DumpHistory(b *board.Board, mvs []board.Move) string {
	if b == nil || len(mvs) < 1 {
		return ""
	}
	builder := strings.Builder{}
	bb := b.Clone()
	fullMoveClock := bb.FullMoveClock()
	if mvs[0].Side() == board.SideBlack {
		_, _ = builder.WriteString(fmt.Sprintf("%d... ", fullMoveClock))
	}
	for i, mv := range mvs {
		bb.Apply(mv)
		if mv.Side() == board.SideWhite {
			_, _ = builder.WriteString(fmt.Sprintf("%d. %s", fullMoveClock, mv))
		} else {
			_, _ = builder.WriteString(mv.String())
			fullMoveClock++
		}
		switch state := bb.State(); {
		case state.IsCheckmate():
			_, _ = builder.WriteRune('#')
		case state.IsCheck():
			_, _ = builder.WriteRune('+')
		case state.IsDraw():
			_, _ = builder.WriteRune('=')
		}
		if i < len(mvs)-1 {
			_, _ = builder.WriteRune(' ')
		}
	}
	return builder.String()
}

func StringUCI(mvs []board.Move) string {
	parts := make([]string, 0, len(mvs))
	for _, mv := range mvs {
		parts = append(parts, mv.UCI())
	}
	return strings.Join(parts, " ")
}

type EngineConfig struct {
	// HashTableSize is the transposition table size in megabytes.
	HashTableSize uint64
	NodeInterval  uint64
	Logger        func(...any)
}

type SearchConfig struct {
	ClockConfig ClockConfig
	Debug       bool
}

// Engine drives a Searcher with iterative deepening under a Clock.
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher
	logger   func(...any)
	printer  *message.Printer

	nodes       uint64
	elapsedTime time.Duration
}

func NewEngine(cfg *EngineConfig) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = DefaultLogger
	}
	if cfg.HashTableSize == 0 {
		cfg.HashTableSize = DefaultHashTableSizeMB
	}

	tt := NewTranspositionTableMB(cfg.HashTableSize)
	return &Engine{
		tt:       tt,
		searcher: NewSearcher(tt, WithNodeInterval(cfg.NodeInterval)),
		logger:   cfg.Logger,
		printer:  message.NewPrinter(language.English),
	}
}

// NewGame keeps the table contents but lets every entry be replaced.
func (e *Engine) NewGame() {
	e.tt.SetAncient()
}

// ResizeHash replaces the transposition table with an empty one of mb
// megabytes.
func (e *Engine) ResizeHash(mb uint64) {
	e.tt = NewTranspositionTableMB(mb)
	e.searcher.tt = e.tt
}

func (e *Engine) TranspositionTable() *TranspositionTable {
	return e.tt
}

// Nodes returns the nodes visited by the last Search.
func (e *Engine) Nodes() uint64 {
	return e.nodes
}

// Search returns the best move for the side to move in b. Cancelling ctx
// stops the search, which still returns the best move found so far.
func (e *Engine) Search(ctx context.Context, b *board.Board, cfg *SearchConfig) (board.Move, error) {
	mv, err := e.search(ctx, b, cfg)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return board.Move{}, err
	}
	if mv.IsNull() {
		// nothing completed in time, any legal move will do
		for legal := range b.LegalMoves() {
			return legal, nil
		}
		return board.Move{}, ErrNoMove
	}

	return mv, nil
}

func (e *Engine) search(ctx context.Context, b *board.Board, cfg *SearchConfig) (board.Move, error) {
	var err error
	var bestMove, prevMove board.Move
	var bestScore, prevScore int32
	e.nodes = 0
	e.elapsedTime = 0
	e.tt.ResetStats()
	timeDecay := float64(1)

	clock := NewClock(b.Turn(), b.FullMoveClock(), &cfg.ClockConfig)
	ctx, cancel := clock.Context(ctx)
	defer cancel()

	for d := 1; d <= int(MaxDepth) && !clock.DoneByDepth(uint8(d)); d++ {
		startTime := time.Now()
		var res Result
		res, err = e.searcher.Search(ctx, b, uint8(d))
		e.elapsedTime += time.Since(startTime)
		e.nodes += res.Nodes

		if err != nil {
			if bestMove.IsNull() {
				bestMove = res.Move
			}
			break
		}

		bestMove = res.Move
		bestScore = res.Score
		e.logIteration(b, cfg, res)

		if bestMove.IsNull() || IsMateScore(bestScore) || clock.DoneByNodes(e.nodes) {
			break
		}
		if d > 1 && clock.Mode() == ClockModeGametime {
			if prevMove.Equals(bestMove) {
				timeDecay *= clockTimePVConsistencyDecay // carry decay from previous iteration
			} else {
				timeDecay = 1 // reset decay factor
			}
			timeDecay *= clamp(
				float64(abs(prevScore-bestScore))/float64(max(abs(prevScore), 1))/clockTimeScoreConsistencyWindow,
				clockTimeScoreConsistencyMaxDecay, 1,
			)
			if e.elapsedTime.Seconds() > clock.AllocatedMovetime().Seconds()*timeDecay {
				break
			}
		}
		prevMove = bestMove
		prevScore = bestScore
	}

	return bestMove, err
}

func (e *Engine) logIteration(b *board.Board, cfg *SearchConfig, res Result) {
	nps := float64(e.nodes) / (e.elapsedTime + 1).Seconds()
	if cfg.Debug {
		hits, misses, writes := e.tt.Stats()
		e.logger(e.printer.Sprintf("depth:%d [%s] nodes:%d (%.0fn/s) t:%s tt:%d/%d/%d\n    %s",
			res.Depth, formatScoreDebug(res.Score), e.nodes, nps, e.elapsedTime, hits, misses, writes, DumpHistory(b, res.PV)))
		return
	}
	e.logger(fmt.Sprintf("info depth %d score %s time %d nodes %d nps %.0f pv %s",
		res.Depth, formatScoreUCI(res.Score), e.elapsedTime.Milliseconds(), e.nodes, nps, StringUCI(res.PV)))
}

func formatScoreDebug(s int32) string {
	if IsMateScore(s) {
		if n := MateIn(s); n > 0 {
			return fmt.Sprintf("#+%d", n)
		}
		return fmt.Sprintf("#-%d", -MateIn(s))
	}
	if s > 0 {
		return fmt.Sprintf("+%.2f", float64(s)/100)
	}
	if s < 0 {
		return fmt.Sprintf("%.2f", float64(s)/100)
	}
	return "0"
}

func formatScoreUCI(s int32) string {
	if IsMateScore(s) {
		return fmt.Sprintf("mate %d", MateIn(s))
	}
	return fmt.Sprintf("cp %d", s)
}
