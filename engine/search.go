package engine

import (
	"context"
	"math"

	"github.com/eremzeit/skeleton/board"
)

const (
	// ScoreInfinite bounds every reachable score.
	ScoreInfinite int32 = math.MaxInt32 - 1
	// ScoreMate is the score of delivering mate at the root. A mate found
	// n plies deep scores ScoreMate-n.
	ScoreMate int32 = 1_000_000

	DefaultNodeInterval uint64 = 2048

	scoreMateThreshold = ScoreMate - int32(MaxDepth)
)

// Result is the outcome of one fixed-depth search.
type Result struct {
	Move  board.Move
	Score int32
	Depth uint8
	Nodes uint64
	PV    []board.Move

	// Completed is false when the search was cancelled before every root
	// move was examined. Move then holds the best fully searched one.
	Completed bool
}

type SearcherOption func(*Searcher)

// WithNodeInterval sets how many nodes are visited between cancellation
// checks.
func WithNodeInterval(n uint64) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.nodeInterval = n
		}
	}
}

// Searcher runs depth-bounded negamax with alpha-beta pruning. It is not
// safe for concurrent use; the board passed to Search belongs to the
// searcher until Search returns.
type Searcher struct {
	tt           *TranspositionTable
	nodeInterval uint64

	ctx       context.Context
	err       error
	nodes     uint64
	rootMove  board.Move
	rootScore int32
}

func NewSearcher(tt *TranspositionTable, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		tt:           tt,
		nodeInterval: DefaultNodeInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search looks depth plies ahead of b and returns the best move for the
// side to move. On cancellation it returns the partial result together
// with the context error. b is restored before Search returns.
func (s *Searcher) Search(ctx context.Context, b *board.Board, depth uint8) (Result, error) {
	s.ctx = ctx
	s.err = nil
	s.nodes = 0
	s.rootMove = board.Move{}
	s.rootScore = -ScoreInfinite
	if depth == 0 {
		depth = 1
	}

	score := s.negamax(b, depth, 0, -ScoreInfinite, ScoreInfinite)
	res := Result{
		Move:      s.rootMove,
		Score:     s.rootScore,
		Depth:     depth,
		Nodes:     s.nodes,
		Completed: s.err == nil,
	}
	if s.err != nil {
		return res, s.err
	}
	res.Score = score
	if !res.Move.IsNull() {
		res.PV = s.tt.PV(b, int(depth))
		if len(res.PV) == 0 || res.PV[0] != res.Move {
			res.PV = []board.Move{res.Move}
		}
	}
	return res, nil
}

func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// stopped polls the context every nodeInterval nodes, starting with the
// first one.
func (s *Searcher) stopped() bool {
	if s.err != nil {
		return true
	}
	if (s.nodes-1)%s.nodeInterval == 0 {
		s.err = s.ctx.Err()
	}
	return s.err != nil
}

// negamax returns the score of b from the side to move's perspective.
func (s *Searcher) negamax(b *board.Board, depth, ply uint8, alpha, beta int32) int32 {
	s.nodes++
	if s.stopped() {
		return 0
	}

	// check if leaf reached
	if depth == 0 {
		if !b.HasLegalMoves() {
			return terminalScore(b, ply)
		}
		return Evaluate(b)
	}

	isRoot := ply == 0
	alphaOrig := alpha

	// check from TranspositionTable
	var ttMove board.Move
	if isRoot {
		ttMove, _ = s.tt.BestMove(b.Hash())
	} else {
		score, mv, ok := s.tt.Probe(b.Hash(), depth, toTT(alpha, ply), toTT(beta, ply))
		if ok {
			return fromTT(score, ply)
		}
		ttMove = mv
	}

	mvs := b.GenerateMoves()
	if len(mvs) == 0 {
		return terminalScore(b, ply)
	}
	scores := make([]uint8, len(mvs))
	scoreMoves(ttMove, mvs, scores)

	var bestMove board.Move
	bestScore := -ScoreInfinite
	mateHere := ScoreMate - int32(ply+1)
	for i := range mvs {
		sortMoves(mvs, scores, i)
		mv := mvs[i]

		b.Apply(mv)
		score := -s.negamax(b, depth-1, ply+1, -beta, -alpha)
		b.Revert(mv)
		if s.err != nil {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = mv
			if isRoot {
				s.rootMove = mv
				s.rootScore = score
			}
		}
		if score >= mateHere {
			// no sibling can mate sooner
			s.tt.Record(b.Hash(), toTT(score, ply), mv, depth, EntryTypeExact)
			return score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break // fail-high cutoff
		}
	}

	typ := EntryTypeExact
	switch {
	case bestScore >= beta:
		typ = EntryTypeLowerBound
	case bestScore <= alphaOrig:
		typ = EntryTypeUpperBound
	}
	s.tt.Record(b.Hash(), toTT(bestScore, ply), bestMove, depth, typ)

	return bestScore
}

// terminalScore scores a position without legal moves.
func terminalScore(b *board.Board, ply uint8) int32 {
	if b.IsInCheck(b.Turn()) {
		return -(ScoreMate - int32(ply))
	}
	return 0
}

// toTT rebases a mate score from root distance to node distance.
func toTT(score int32, ply uint8) int32 {
	switch {
	case !IsMateScore(score):
	case score > 0:
		return score + int32(ply)
	default:
		return score - int32(ply)
	}
	return score
}

func fromTT(score int32, ply uint8) int32 {
	switch {
	case !IsMateScore(score):
	case score > 0:
		return score - int32(ply)
	default:
		return score + int32(ply)
	}
	return score
}

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int32) bool {
	return abs(score) >= scoreMateThreshold && abs(score) <= ScoreMate
}

// MateIn returns the number of full moves to the mate encoded by score,
// negative when the side to move is being mated.
func MateIn(score int32) int {
	plies := int(ScoreMate - abs(score))
	if score > 0 {
		return (plies + 1) / 2
	}
	return -(plies / 2)
}
