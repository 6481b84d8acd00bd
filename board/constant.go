package board

import (
	"errors"

	"github.com/eremzeit/skeleton/position"
)

const (
	Width      = position.MaxComponentScalar
	Height     = position.MaxComponentScalar
	TotalCells = Width * Height
)

var (
	ErrInvalidFEN  = errors.New("invalid fen")
	ErrInvalidMove = errors.New("invalid move")
)

var (
	DefaultStartingPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	maskCell [TotalCells]bitmap

	offsetsKnight = [8][2]position.Pos{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	offsetsKing = [8][2]position.Pos{
		{0, 1}, {1, 1}, {1, 0}, {1, -1},
		{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	}

	pawnRules = [3]pawnRule{
		SideWhite: {dir: 1, startRank: 1, backRank: 7, enPassantRank: 4},
		SideBlack: {dir: -1, startRank: 6, backRank: 0, enPassantRank: 3},
	}
)

// pawnRule holds the rank geometry of one color's pawns. The single push
// rank is startRank+dir and the double push rank is startRank+2*dir.
type pawnRule struct {
	dir           position.Pos
	startRank     position.Pos
	backRank      position.Pos
	enPassantRank position.Pos
}

func init() {
	for pos := position.Pos(0); pos < TotalCells; pos++ {
		maskCell[pos] = 1 << pos
	}
}
