package board

import (
	"fmt"

	"github.com/eremzeit/skeleton/position"
)

// undo is pushed by Apply and popped by Revert.
type undo struct {
	move          Move
	castleRights  CastleRights
	enPassant     position.Pos
	halfMoveClock uint16
	fullMoveClock uint16
	hash          uint64
}

// Apply plays mv for the side to move. The null move passes the turn.
// A malformed move, a move by the wrong side, or a move whose origin does
// not hold mv.Piece panics.
func (b *Board) Apply(mv Move) {
	b.mustBeNormalized()
	if err := mv.Validate(); err != nil {
		panic(fmt.Sprintf("board: apply %s: %v", mv.UCI(), err))
	}
	if !mv.IsNull() {
		if mv.Side() != b.turn {
			panic(fmt.Sprintf("board: apply %s: %s to move", mv.UCI(), b.turn))
		}
		if b.cells[mv.From] != mv.Piece {
			panic(fmt.Sprintf("board: apply %s: %s on %s, want %s", mv.UCI(), b.cells[mv.From], mv.From, mv.Piece))
		}
		if mv.Tag != MoveTagEnPassant && b.cells[mv.To] != mv.Captured {
			panic(fmt.Sprintf("board: apply %s: %s on %s, want %s", mv.UCI(), b.cells[mv.To], mv.To, mv.Captured))
		}
	}

	b.history = append(b.history, undo{
		move:          mv,
		castleRights:  b.castleRights,
		enPassant:     b.enPassant,
		halfMoveClock: b.halfMoveClock,
		fullMoveClock: b.fullMoveClock,
		hash:          b.hash,
	})

	z := b.zobrist
	hash := b.hash ^ z.castle[b.castleRights] ^ z.blackToMove
	if b.enPassant != position.Invalid {
		hash ^= z.enPassant[b.enPassant]
	}
	s := b.turn

	b.enPassant = position.Invalid
	b.halfMoveClock++
	if !mv.IsNull() {
		k := mv.Piece
		if k.Piece() == PiecePawn || mv.IsCapture() {
			b.halfMoveClock = 0
		}
		switch {
		case mv.IsEnPassant():
			captured := position.NewPos(mv.To.X(), mv.From.Y())
			b.lift(captured)
			hash ^= z.piece[mv.Captured][captured]
		case mv.IsCapture():
			b.lift(mv.To)
			hash ^= z.piece[mv.Captured][mv.To]
		}
		b.lift(mv.From)
		hash ^= z.piece[k][mv.From]
		if p := mv.Tag.Promote(); p != PieceUnknown {
			k = NewKind(s, p)
		}
		b.place(mv.To, k)
		hash ^= z.piece[k][mv.To]

		if mv.IsCastle() {
			g := &castleGeometries[castleDirectionFor(s, mv.Tag == MoveTagKingCastle)]
			rook := b.lift(g.rook)
			b.place(g.rookTo, rook)
			hash ^= z.piece[rook][g.rook] ^ z.piece[rook][g.rookTo]
		}

		if mv.Tag == MoveTagDoublePush {
			b.enPassant = mv.From.X()
		}
		if mv.Piece.Piece() == PieceKing {
			b.castleRights.Revoke(s)
		}
		b.castleRights &= castleRightsKeep[mv.From] & castleRightsKeep[mv.To]
	}

	if s == SideBlack {
		b.fullMoveClock++
	}
	b.turn = s.Opposite()

	hash ^= z.castle[b.castleRights]
	if b.enPassant != position.Invalid {
		hash ^= z.enPassant[b.enPassant]
	}
	b.hash = hash
	b.normalizeOccupancy()
}

// Revert takes back mv, which must be the most recently applied move not
// yet reverted. Anything else panics.
func (b *Board) Revert(mv Move) {
	b.mustBeNormalized()
	if len(b.history) == 0 {
		panic(fmt.Sprintf("board: revert %s: nothing applied", mv.UCI()))
	}
	u := b.history[len(b.history)-1]
	if u.move != mv {
		panic(fmt.Sprintf("board: revert %s: last applied move is %s", mv.UCI(), u.move.UCI()))
	}
	b.history = b.history[:len(b.history)-1]

	s := b.turn.Opposite()
	if !mv.IsNull() {
		if mv.IsCastle() {
			g := &castleGeometries[castleDirectionFor(s, mv.Tag == MoveTagKingCastle)]
			b.place(g.rook, b.lift(g.rookTo))
		}
		b.lift(mv.To)
		b.place(mv.From, mv.Piece)
		switch {
		case mv.IsEnPassant():
			b.place(position.NewPos(mv.To.X(), mv.From.Y()), mv.Captured)
		case mv.IsCapture():
			b.place(mv.To, mv.Captured)
		}
	}

	b.turn = s
	b.castleRights = u.castleRights
	b.enPassant = u.enPassant
	b.halfMoveClock = u.halfMoveClock
	b.fullMoveClock = u.fullMoveClock
	b.hash = u.hash
	b.normalizeOccupancy()
}
