package engine

import (
	"context"
	"math"
	"time"

	"github.com/eremzeit/skeleton/board"
)

const (
	DefaultMovetime = 10 * time.Second

	MaxMovetime        = 24 * time.Hour
	MaxDepth    uint8  = 255
	MaxNodes    uint64 = math.MaxUint64

	minMovetime = 350 * time.Millisecond

	expectedGameMoves         uint16 = 40
	movetimeAccumulationRatio        = 0.8
	movetimeMargin                   = 100 * time.Millisecond
)

type ClockMode uint8

const (
	ClockModeInfinite ClockMode = iota
	ClockModeMovetime
	ClockModeGametime
	ClockModeDepth
	ClockModeNodes
)

func (m ClockMode) String() string {
	switch m {
	case ClockModeMovetime:
		return "movetime"
	case ClockModeGametime:
		return "gametime"
	case ClockModeDepth:
		return "depth"
	case ClockModeNodes:
		return "nodes"
	default:
		return "infinite"
	}
}

type ClockConfig struct {
	WhiteTime      time.Duration
	BlackTime      time.Duration
	WhiteIncrement time.Duration
	BlackIncrement time.Duration

	Movetime time.Duration

	Depth uint8

	Nodes uint64
}

// Clock holds the limits of one search, derived from a ClockConfig.
type Clock struct {
	mode              ClockMode
	allocatedMovetime time.Duration
	targetDepth       uint8
	targetNodes       uint64
}

func NewClock(turn board.Side, fullMoveClock uint16, cfg *ClockConfig) *Clock {
	c := &Clock{
		mode:              ClockModeInfinite,
		allocatedMovetime: MaxMovetime,
		targetDepth:       MaxDepth,
		targetNodes:       MaxNodes,
	}

	switch {
	case cfg.Movetime != 0:
		c.mode = ClockModeMovetime
		c.allocatedMovetime = max(cfg.Movetime, minMovetime)
	case cfg.WhiteTime != 0 || cfg.BlackTime != 0:
		c.mode = ClockModeGametime
		phase := max(int64(expectedGameMoves)-int64(fullMoveClock), 1)
		remaining, increment := cfg.WhiteTime, cfg.WhiteIncrement
		if turn == board.SideBlack {
			remaining, increment = cfg.BlackTime, cfg.BlackIncrement
		}
		c.allocatedMovetime = time.Duration(float64(remaining)/float64(phase)) +
			time.Duration(float64(increment)*(1-movetimeAccumulationRatio))
		c.allocatedMovetime = clamp(c.allocatedMovetime, minMovetime, max(remaining-movetimeMargin, minMovetime))
	case cfg.Depth != 0:
		c.mode = ClockModeDepth
		c.targetDepth = cfg.Depth
	case cfg.Nodes != 0:
		c.mode = ClockModeNodes
		c.targetNodes = cfg.Nodes
	}
	return c
}

// Context derives the search context, carrying a deadline when the clock
// is time bound.
func (c *Clock) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if c.mode == ClockModeMovetime || c.mode == ClockModeGametime {
		return context.WithTimeout(parent, c.allocatedMovetime-movetimeMargin)
	}
	return context.WithCancel(parent)
}

func (c *Clock) Mode() ClockMode {
	return c.mode
}

func (c *Clock) AllocatedMovetime() time.Duration {
	return c.allocatedMovetime
}

func (c *Clock) DoneByDepth(depth uint8) bool {
	return depth > c.targetDepth
}

func (c *Clock) DoneByNodes(nodes uint64) bool {
	return nodes > c.targetNodes
}
