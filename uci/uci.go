package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eremzeit/skeleton/bench"
	"github.com/eremzeit/skeleton/board"
	"github.com/eremzeit/skeleton/engine"
)

var (
	EngineName   = "Skeleton"
	EngineAuthor = "eremzeit"

	defaultOptions = options{
		debug:         false,
		hashTableSize: engine.DefaultHashTableSizeMB,
		parallelPerft: true,
	}

	ErrUnknownCommand = errors.New("unknown command")
)

const maxHashTableSizeMB = 1 << 16

type options struct {
	debug         bool
	hashTableSize uint64
	parallelPerft bool
}

type Option func(*Interface)

func WithInput(r io.Reader) Option {
	return func(i *Interface) {
		i.in = r
	}
}

func WithOutput(w io.Writer) Option {
	return func(i *Interface) {
		i.out = w
	}
}

type Interface struct {
	board   *board.Board
	engine  *engine.Engine
	options options

	in    io.Reader
	out   io.Writer
	outMu sync.Mutex

	mu            sync.Mutex
	engineRunning bool
	engineCancel  context.CancelFunc
	engineWG      sync.WaitGroup
}

func NewInterface(opts ...Option) *Interface {
	i := &Interface{
		options: defaultOptions,
		in:      os.Stdin,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run reads commands until quit or the end of input. A running search is
// stopped and awaited before Run returns.
func (i *Interface) Run(ctx context.Context) error {
	i.reset(ctx)
	defer i.engineWG.Wait()
	defer i.commandStop(ctx)

	scanner := bufio.NewScanner(i.in)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "uci":
			i.commandUCI(ctx)
		case "ucinewgame":
			i.commandNewGame(ctx)
		case "isready":
			i.commandReady(ctx)
		case "setoption":
			i.commandSetOption(ctx, args[1:])
		case "position":
			i.commandPosition(ctx, args[1:])
		case "d":
			i.commandDraw(ctx)
		case "go":
			i.commandGo(ctx, args[1:])
		case "stop":
			i.commandStop(ctx)
		case "quit":
			return nil
		default:
			i.debugf("%v: %s", ErrUnknownCommand, args[0])
		}
	}
	return scanner.Err()
}

func (i *Interface) commandUCI(_ context.Context) {
	i.println(fmt.Sprintf("id name %s", EngineName))
	i.println(fmt.Sprintf("id author %s", EngineAuthor))
	i.println(fmt.Sprintf("option name Debug type check default %v", defaultOptions.debug))
	i.println(fmt.Sprintf("option name Hash type spin default %d min 1 max %d", defaultOptions.hashTableSize, maxHashTableSizeMB))
	i.println("uciok")
}

func (i *Interface) commandReady(_ context.Context) {
	if i.board != nil && i.engine != nil {
		i.println("readyok")
	}
}

func (i *Interface) commandNewGame(ctx context.Context) {
	i.commandStop(ctx)
	i.engineWG.Wait()
	i.engine.NewGame()
	i.commandPosition(ctx, []string{"startpos"})
}

func (i *Interface) commandSetOption(_ context.Context, args []string) {
	if len(args) < 4 || args[0] != "name" || args[2] != "value" {
		return
	}
	switch name, valueStr := strings.ToLower(args[1]), args[3]; name {
	case "debug":
		value, err := strconv.ParseBool(valueStr)
		if err != nil {
			return
		}
		i.options.debug = value
	case "hash":
		value, err := strconv.ParseUint(valueStr, 10, 64)
		if err != nil || value < 1 || value > maxHashTableSizeMB {
			return
		}
		i.options.hashTableSize = value
		if !i.isRunning() {
			i.engine.ResizeHash(value)
		}
	}
}

func (i *Interface) commandPosition(_ context.Context, args []string) {
	if i.isRunning() || len(args) == 0 {
		return
	}

	var fen string
	var moves []string
	switch args[0] {
	case "fen":
		end := len(args)
		for idx, arg := range args {
			if arg == "moves" {
				end = idx
				break
			}
		}
		fen = strings.Join(args[1:end], " ")
		args = args[end:]
	case "startpos":
		fen = board.DefaultStartingPositionFEN
		args = args[1:]
	default:
		return
	}
	if len(args) > 0 && args[0] == "moves" {
		moves = args[1:]
	}

	b, err := board.NewBoard(board.WithFEN(fen))
	if err != nil {
		i.debugf("%v", err)
		return
	}
	for _, text := range moves {
		mv, err := board.ParseMove(b, text)
		if err != nil {
			i.debugf("%v", err)
			return
		}
		b.Apply(mv)
	}
	i.board = b
}

func (i *Interface) commandDraw(_ context.Context) {
	i.println(i.board.Draw())
	i.println(fmt.Sprintf("Fen: %s", i.board.FEN()))
	i.println(fmt.Sprintf("Key: %016X", i.board.Hash()))
}

func (i *Interface) commandGo(ctx context.Context, args []string) {
	if i.isRunning() {
		return
	}
	if len(args) > 0 && args[0] == "perft" {
		if len(args) != 2 {
			return
		}
		depth, err := strconv.Atoi(args[1])
		if err != nil || depth < 0 {
			return
		}

		out := make(chan string, 64)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for s := range out {
				i.println(s)
			}
		}()
		err = bench.Perft(ctx, depth, i.board.FEN(), i.options.parallelPerft, true, out)
		close(out)
		<-done
		if err != nil {
			i.debugf("%v", err)
		}
		return
	}

	cfg, err := parseClockConfig(args)
	if err != nil {
		i.debugf("%v", err)
		return
	}

	engineCtx, engineCancel := context.WithCancel(ctx)
	i.mu.Lock()
	i.engineCancel = engineCancel
	i.engineRunning = true
	i.mu.Unlock()

	b := i.board.Clone()
	searchCfg := &engine.SearchConfig{
		ClockConfig: cfg,
		Debug:       i.options.debug,
	}
	i.engineWG.Add(1)
	go func() {
		defer i.engineWG.Done()
		defer engineCancel()

		bestMove, err := i.engine.Search(engineCtx, b, searchCfg)
		if err != nil {
			i.debugf("%v", err)
		}

		i.mu.Lock()
		i.engineRunning = false
		i.mu.Unlock()
		i.println(fmt.Sprintf("bestmove %s", bestMove.UCI()))
	}()
}

func parseClockConfig(args []string) (engine.ClockConfig, error) {
	var cfg engine.ClockConfig
	for idx := 0; idx < len(args); idx++ {
		name := args[idx]
		if name == "infinite" {
			continue
		}
		if idx+1 >= len(args) {
			return cfg, fmt.Errorf("missing value for %s", name)
		}
		value, err := strconv.ParseInt(args[idx+1], 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		idx++
		ms := time.Duration(max(value, 0)) * time.Millisecond
		switch name {
		case "wtime":
			cfg.WhiteTime = ms
		case "btime":
			cfg.BlackTime = ms
		case "winc":
			cfg.WhiteIncrement = ms
		case "binc":
			cfg.BlackIncrement = ms
		case "movetime":
			cfg.Movetime = ms
		case "depth":
			cfg.Depth = uint8(min(max(value, 1), int64(engine.MaxDepth)))
		case "nodes":
			cfg.Nodes = uint64(max(value, 1))
		}
	}
	return cfg, nil
}

func (i *Interface) commandStop(_ context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.engineRunning {
		i.engineCancel()
	}
}

func (i *Interface) isRunning() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.engineRunning
}

func (i *Interface) reset(ctx context.Context) {
	i.commandStop(ctx)
	i.commandPosition(ctx, []string{"startpos"})
	i.engine = engine.NewEngine(&engine.EngineConfig{
		HashTableSize: i.options.hashTableSize,
		Logger:        i.println,
	})
}

func (i *Interface) debugf(format string, a ...any) {
	if i.options.debug {
		i.println("info string " + fmt.Sprintf(format, a...))
	}
}

func (i *Interface) println(a ...any) {
	i.outMu.Lock()
	defer i.outMu.Unlock()
	fmt.Fprintln(i.out, a...)
}
