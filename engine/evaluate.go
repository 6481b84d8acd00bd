package engine

import (
	"github.com/eremzeit/skeleton/board"
)

var (
	scorePiece = [6 + 1]int32{
		board.PiecePawn:   100,
		board.PieceBishop: 350,
		board.PieceKnight: 320,
		board.PieceRook:   500,
		board.PieceQueen:  900,
		board.PieceKing:   0,
	}

	offsetTT     uint8 = 255
	offsetMVVLVA uint8 = offsetTT - 64
	scoreMVVLVA        = [6 + 1][6 + 1]uint8{
		// attacker           P   B   N   R   Q
		board.PiecePawn:   {0, 15, 25, 25, 35, 45},
		board.PieceBishop: {0, 14, 24, 24, 34, 44},
		board.PieceKnight: {0, 13, 23, 23, 33, 43},
		board.PieceRook:   {0, 12, 22, 22, 32, 42},
		board.PieceQueen:  {0, 11, 21, 21, 31, 41},
		board.PieceKing:   {0, 10, 20, 20, 30, 40},
	}
	scorePromote uint8 = 50
)

// Evaluate returns the material balance of b in centipawns, positive when
// the side to move is ahead.
func Evaluate(b *board.Board) int32 {
	var white, black int32
	for p := board.PiecePawn; p <= board.PieceKing; p++ {
		white += scorePiece[p] * int32(b.Count(board.NewKind(board.SideWhite, p)))
		black += scorePiece[p] * int32(b.Count(board.NewKind(board.SideBlack, p)))
	}
	if b.Turn() == board.SideWhite {
		return white - black
	}
	return black - white
}

// scoreMoves assigns an ordering score to each move: the table move first,
// then captures by most valuable victim and least valuable attacker, then
// promotions.
func scoreMoves(ttMove board.Move, mvs []board.Move, scores []uint8) {
	for i, mv := range mvs {
		var score uint8
		switch {
		case !ttMove.IsNull() && mv == ttMove:
			score = offsetTT
		case mv.IsCapture():
			score = offsetMVVLVA + scoreMVVLVA[mv.Piece.Piece()][mv.Captured.Piece()]
		case mv.IsPromote():
			score = scorePromote
		}
		scores[i] = score
	}
}

// sortMoves brings the best scored move at or after index to index.
func sortMoves(mvs []board.Move, scores []uint8, index int) {
	bestIndex, bestScore := index, scores[index]
	for i := index + 1; i < len(mvs); i++ {
		if scores[i] > bestScore {
			bestIndex = i
			bestScore = scores[i]
		}
	}
	mvs[index], mvs[bestIndex] = mvs[bestIndex], mvs[index]
	scores[index], scores[bestIndex] = scores[bestIndex], scores[index]
}
