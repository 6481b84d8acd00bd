package board

import (
	"iter"
	"slices"

	"github.com/eremzeit/skeleton/position"
)

// PseudoLegalMoves lazily enumerates the pseudo-legal moves of s. The
// sequence can be ranged over any number of times while b is unchanged.
func (b *Board) PseudoLegalMoves(s Side) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		b.mustBeNormalized()
		b.genSide(s, false, yield)
	}
}

// LegalMoves lazily enumerates the legal moves of the side to move.
func (b *Board) LegalMoves() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		b.mustBeNormalized()
		b.genSide(b.turn, false, b.legalFilter(yield))
	}
}

// LegalMovesForPiece lazily enumerates the legal moves of the piece on pos.
// It is empty unless that piece belongs to the side to move.
func (b *Board) LegalMovesForPiece(pos position.Pos) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		b.mustBeNormalized()
		k := b.Get(pos)
		if !k.IsPiece() || k.Side() != b.turn {
			return
		}
		b.genPiece(pos, k, false, b.legalFilter(yield))
	}
}

// attacks enumerates the attack-only moves of s: every square a piece of s
// attacks, whatever stands there.
func (b *Board) attacks(s Side) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		b.genSide(s, true, yield)
	}
}

// GeneratePseudoLegalMoves collects the pseudo-legal moves of the side to move.
func (b *Board) GeneratePseudoLegalMoves() []Move {
	return slices.Collect(b.PseudoLegalMoves(b.turn))
}

// GeneratePseudoLegalMovesForPiece collects the pseudo-legal moves of the
// piece on pos, whichever side it belongs to.
func (b *Board) GeneratePseudoLegalMovesForPiece(pos position.Pos) []Move {
	b.mustBeNormalized()
	k := b.Get(pos)
	if !k.IsPiece() {
		return nil
	}
	var mvs []Move
	b.genPiece(pos, k, false, func(mv Move) bool {
		mvs = append(mvs, mv)
		return true
	})
	return mvs
}

// GenerateMoves collects the legal moves of the side to move.
func (b *Board) GenerateMoves() []Move {
	return slices.Collect(b.LegalMoves())
}

func (b *Board) GenerateMovesForPiece(pos position.Pos) []Move {
	return slices.Collect(b.LegalMovesForPiece(pos))
}

// HasLegalMoves stops at the first legal move found.
func (b *Board) HasLegalMoves() bool {
	for range b.LegalMoves() {
		return true
	}
	return false
}

// IsAttacked reports whether any piece of by attacks pos.
func (b *Board) IsAttacked(pos position.Pos, by Side) bool {
	b.mustBeNormalized()
	for mv := range b.attacks(by) {
		if mv.To == pos {
			return true
		}
	}
	return false
}

// AttackedSquares returns every square attacked by the pieces of by.
func (b *Board) AttackedSquares(by Side) bitmap {
	b.mustBeNormalized()
	var bm bitmap
	for mv := range b.attacks(by) {
		bm.Set(mv.To)
	}
	return bm
}

func (b *Board) IsInCheck(s Side) bool {
	king := b.KingPos(s)
	if king == position.Invalid {
		return false
	}
	return b.IsAttacked(king, s.Opposite())
}

// IsLegal applies mv provisionally and reports whether the mover's king
// survives it. mv must be pseudo-legal for the side to move.
func (b *Board) IsLegal(mv Move) bool {
	mover := b.turn
	b.Apply(mv)
	ok := !b.IsInCheck(mover)
	b.Revert(mv)
	return ok
}

func (b *Board) legalFilter(yield func(Move) bool) func(Move) bool {
	return func(mv Move) bool {
		if !b.IsLegal(mv) {
			return true
		}
		return yield(mv)
	}
}

// The gen* functions return false once yield asked to stop.

func (b *Board) genSide(s Side, attacksOnly bool, yield func(Move) bool) bool {
	first, last := KindWhitePawn, KindWhiteKing
	if s == SideBlack {
		first, last = KindBlackPawn, KindBlackKing
	}
	for k := first; k <= last; k++ {
		for bm := b.bitmaps[k]; bm != 0; {
			if !b.genPiece(bm.PopLS1B(), k, attacksOnly, yield) {
				return false
			}
		}
	}
	return true
}

func (b *Board) genPiece(from position.Pos, k Kind, attacksOnly bool, yield func(Move) bool) bool {
	switch k.Piece() {
	case PiecePawn:
		return b.genPawn(from, k, attacksOnly, yield)
	case PieceKnight:
		return b.genLeaper(from, k, &offsetsKnight, attacksOnly, false, yield)
	case PieceBishop:
		return b.genSlider(from, k, raysBishop, attacksOnly, yield)
	case PieceRook:
		return b.genSlider(from, k, raysRook, attacksOnly, yield)
	case PieceQueen:
		return b.genSlider(from, k, raysQueen, attacksOnly, yield)
	case PieceKing:
		if !b.genLeaper(from, k, &offsetsKing, attacksOnly, !attacksOnly, yield) {
			return false
		}
		if attacksOnly {
			return true
		}
		return b.genCastling(k.Side(), yield)
	}
	return true
}

func (b *Board) genSlider(from position.Pos, k Kind, dirs []RayDirection, attacksOnly bool, yield func(Move) bool) bool {
	for _, d := range dirs {
		for half := 0; half < 2; half++ {
			for _, to := range halfRays[from][2*int(d)+half] {
				target := b.cells[to]
				if target == KindEmpty {
					if !yield(Move{From: from, Piece: k, To: to, Tag: MoveTagQuiet}) {
						return false
					}
					continue
				}
				if attacksOnly || target.Side() != k.Side() {
					if !yield(Move{From: from, Piece: k, To: to, Captured: target, Tag: MoveTagCapture}) {
						return false
					}
				}
				break
			}
		}
	}
	return true
}

func (b *Board) genLeaper(from position.Pos, k Kind, offsets *[8][2]position.Pos, attacksOnly, avoidAttacked bool, yield func(Move) bool) bool {
	for _, o := range offsets {
		to := from.Offset(o[0], o[1])
		target := b.Get(to)
		if target == KindOffBoard {
			continue
		}
		if !attacksOnly {
			if target != KindEmpty && target.Side() == k.Side() {
				continue
			}
			if avoidAttacked && b.IsAttacked(to, k.Side().Opposite()) {
				continue
			}
		}
		tag := MoveTagQuiet
		if target != KindEmpty {
			tag = MoveTagCapture
		}
		if !yield(Move{From: from, Piece: k, To: to, Captured: target, Tag: tag}) {
			return false
		}
	}
	return true
}

func (b *Board) genPawn(from position.Pos, k Kind, attacksOnly bool, yield func(Move) bool) bool {
	s := k.Side()
	rule := pawnRules[s]

	if !attacksOnly {
		one := from.Offset(0, rule.dir)
		if b.Get(one) == KindEmpty {
			if !b.yieldPawn(from, k, one, KindEmpty, rule, yield) {
				return false
			}
			if two := one.Offset(0, rule.dir); from.Y() == rule.startRank && b.Get(two) == KindEmpty {
				if !yield(Move{From: from, Piece: k, To: two, Tag: MoveTagDoublePush}) {
					return false
				}
			}
		}
	}

	for _, dx := range [2]position.Pos{-1, 1} {
		to := from.Offset(dx, rule.dir)
		target := b.Get(to)
		if target == KindOffBoard {
			continue
		}
		if attacksOnly {
			if !yield(Move{From: from, Piece: k, To: to, Captured: target, Tag: MoveTagCapture}) {
				return false
			}
			continue
		}
		if target.IsPiece() && target.Side() != s {
			if !b.yieldPawn(from, k, to, target, rule, yield) {
				return false
			}
		}
	}

	if attacksOnly || b.enPassant == position.Invalid || from.Y() != rule.enPassantRank {
		return true
	}
	if dx := b.enPassant - from.X(); dx != 1 && dx != -1 {
		return true
	}
	to := position.NewPos(b.enPassant, from.Y()+rule.dir)
	captured := b.Get(position.NewPos(b.enPassant, from.Y()))
	if captured != NewKind(s.Opposite(), PiecePawn) || b.Get(to) != KindEmpty {
		return true
	}
	return yield(Move{From: from, Piece: k, To: to, Captured: captured, Tag: MoveTagEnPassant})
}

// yieldPawn emits a pawn push or capture, expanded into every promotion
// when it lands on the back rank.
func (b *Board) yieldPawn(from position.Pos, k Kind, to position.Pos, captured Kind, rule pawnRule, yield func(Move) bool) bool {
	if to.Y() != rule.backRank {
		tag := MoveTagQuiet
		if captured != KindEmpty {
			tag = MoveTagCapture
		}
		return yield(Move{From: from, Piece: k, To: to, Captured: captured, Tag: tag})
	}
	for _, p := range PawnPromoteCandidates {
		if !yield(Move{From: from, Piece: k, To: to, Captured: captured, Tag: promoteTag(p, captured != KindEmpty)}) {
			return false
		}
	}
	return true
}

func (b *Board) genCastling(s Side, yield func(Move) bool) bool {
	if !b.castleRights.IsSideAllowed(s) {
		return true
	}
	king, rook := NewKind(s, PieceKing), NewKind(s, PieceRook)
	opponent := s.Opposite()
castleLoop:
	for _, right := range [2]bool{true, false} {
		d := castleDirectionFor(s, right)
		if !b.castleRights.IsAllowed(d) {
			continue
		}
		g := &castleGeometries[d]
		if b.cells[g.king] != king || b.cells[g.rook] != rook {
			continue
		}
		for _, pos := range g.between {
			if b.cells[pos] != KindEmpty {
				continue castleLoop
			}
		}
		for _, pos := range g.safe {
			if b.IsAttacked(pos, opponent) {
				continue castleLoop
			}
		}
		tag := MoveTagQueenCastle
		if right {
			tag = MoveTagKingCastle
		}
		if !yield(Move{From: g.king, Piece: king, To: g.kingTo, Tag: tag}) {
			return false
		}
	}
	return true
}
