package board

import (
	"fmt"

	"github.com/eremzeit/skeleton/position"
)

// MoveTag classifies a move. The set is closed.
type MoveTag uint8

const (
	MoveTagQuiet MoveTag = iota
	MoveTagDoublePush
	MoveTagKingCastle
	MoveTagQueenCastle
	MoveTagCapture
	MoveTagEnPassant
	MoveTagPromoteKnight
	MoveTagPromoteBishop
	MoveTagPromoteRook
	MoveTagPromoteQueen
	MoveTagPromoteKnightCapture
	MoveTagPromoteBishopCapture
	MoveTagPromoteRookCapture
	MoveTagPromoteQueenCapture
)

func promoteTag(p Piece, capture bool) MoveTag {
	var tag MoveTag
	switch p {
	case PieceKnight:
		tag = MoveTagPromoteKnight
	case PieceBishop:
		tag = MoveTagPromoteBishop
	case PieceRook:
		tag = MoveTagPromoteRook
	default:
		tag = MoveTagPromoteQueen
	}
	if capture {
		tag += MoveTagPromoteKnightCapture - MoveTagPromoteKnight
	}
	return tag
}

func (t MoveTag) String() string {
	switch t {
	case MoveTagQuiet:
		return "quiet"
	case MoveTagDoublePush:
		return "double push"
	case MoveTagKingCastle:
		return "0-0"
	case MoveTagQueenCastle:
		return "0-0-0"
	case MoveTagCapture:
		return "capture"
	case MoveTagEnPassant:
		return "en passant"
	case MoveTagPromoteKnight, MoveTagPromoteBishop, MoveTagPromoteRook, MoveTagPromoteQueen:
		return "promote " + t.Promote().Name()
	case MoveTagPromoteKnightCapture, MoveTagPromoteBishopCapture, MoveTagPromoteRookCapture, MoveTagPromoteQueenCapture:
		return "promote " + t.Promote().Name() + " capture"
	default:
		return "unknown"
	}
}

// Promote returns the promoted piece class, or PieceUnknown.
func (t MoveTag) Promote() Piece {
	switch t {
	case MoveTagPromoteKnight, MoveTagPromoteKnightCapture:
		return PieceKnight
	case MoveTagPromoteBishop, MoveTagPromoteBishopCapture:
		return PieceBishop
	case MoveTagPromoteRook, MoveTagPromoteRookCapture:
		return PieceRook
	case MoveTagPromoteQueen, MoveTagPromoteQueenCapture:
		return PieceQueen
	default:
		return PieceUnknown
	}
}

func (t MoveTag) IsCapture() bool {
	return t == MoveTagCapture || t == MoveTagEnPassant || t >= MoveTagPromoteKnightCapture
}

// Move is a fully described move. The zero value is the null move.
type Move struct {
	From     position.Pos
	Piece    Kind
	To       position.Pos
	Captured Kind
	Tag      MoveTag
}

func (m Move) IsNull() bool {
	return m.Piece == KindEmpty
}

func (m Move) IsCapture() bool {
	return m.Tag.IsCapture()
}

func (m Move) IsEnPassant() bool {
	return m.Tag == MoveTagEnPassant
}

func (m Move) IsCastle() bool {
	return m.Tag == MoveTagKingCastle || m.Tag == MoveTagQueenCastle
}

func (m Move) IsPromote() bool {
	return m.Tag.Promote() != PieceUnknown
}

func (m Move) Side() Side {
	return m.Piece.Side()
}

func (m Move) Equals(other Move) bool {
	return m == other
}

// Validate checks that the tag and the piece fields agree.
func (m Move) Validate() error {
	if m.IsNull() {
		return nil
	}
	if !m.Piece.IsPiece() {
		return fmt.Errorf("%w: unknown piece %d", ErrInvalidMove, m.Piece)
	}
	if !m.From.IsValid() || !m.To.IsValid() || m.From == m.To {
		return fmt.Errorf("%w: bad squares %d-%d", ErrInvalidMove, m.From, m.To)
	}
	if m.Tag > MoveTagPromoteQueenCapture {
		return fmt.Errorf("%w: unknown tag %d", ErrInvalidMove, m.Tag)
	}
	if m.Tag.IsCapture() {
		if !m.Captured.IsPiece() || m.Captured.Side() == m.Piece.Side() {
			return fmt.Errorf("%w: %s requires an enemy piece, got %s", ErrInvalidMove, m.Tag, m.Captured)
		}
		if m.Captured.Piece() == PieceKing {
			return fmt.Errorf("%w: king capture", ErrInvalidMove)
		}
	} else if m.Captured != KindEmpty {
		return fmt.Errorf("%w: %s cannot capture %s", ErrInvalidMove, m.Tag, m.Captured)
	}
	switch p := m.Piece.Piece(); {
	case m.Tag == MoveTagDoublePush || m.Tag == MoveTagEnPassant || m.IsPromote():
		if p != PiecePawn {
			return fmt.Errorf("%w: %s by %s", ErrInvalidMove, m.Tag, p)
		}
	case m.IsCastle():
		if p != PieceKing {
			return fmt.Errorf("%w: %s by %s", ErrInvalidMove, m.Tag, p)
		}
	}
	if m.Tag == MoveTagEnPassant && m.Captured.Piece() != PiecePawn {
		return fmt.Errorf("%w: en passant must take a pawn", ErrInvalidMove)
	}
	return nil
}

func (m Move) String() string {
	return m.Algebra()
}

func (m Move) Algebra() string {
	if m.IsNull() {
		return "--"
	}
	switch m.Tag {
	case MoveTagKingCastle:
		return "0-0"
	case MoveTagQueenCastle:
		return "0-0-0"
	}
	p := m.Piece.Piece()
	nt := p.SymbolAlgebra(SideWhite) // SideWhite because it returns capital symbols
	if m.IsCapture() {
		if p == PiecePawn {
			nt += m.From.X().NotationComponentX()
		} else {
			nt += m.From.Notation()
		}
		nt += "x"
	}
	nt += m.To.Notation()
	if m.IsPromote() {
		nt += m.Tag.Promote().SymbolAlgebra(SideWhite)
	}
	if m.IsEnPassant() {
		nt += " e.p."
	}
	return nt
}

// UCI returns the coordinate form, "0000" for the null move.
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	return m.From.Notation() + m.To.Notation() + m.Tag.Promote().SymbolAlgebra(SideBlack)
}

// ParseMove resolves coordinate move text against the legal moves of b.
func ParseMove(b *Board, text string) (Move, error) {
	if text == "0000" {
		return Move{}, nil
	}
	if len(text) != 4 && len(text) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, text)
	}
	from, err := position.NewPosFromNotation(text[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMove, text, err)
	}
	to, err := position.NewPosFromNotation(text[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMove, text, err)
	}
	promote := PieceUnknown
	if len(text) == 5 {
		promote = NewKindFromSymbol(rune(text[4])).Piece()
		switch promote {
		case PieceKnight, PieceBishop, PieceRook, PieceQueen:
		default:
			return Move{}, fmt.Errorf("%w: %q: bad promotion", ErrInvalidMove, text)
		}
	}
	for _, mv := range b.GenerateMovesForPiece(from) {
		if mv.To == to && mv.Tag.Promote() == promote {
			return mv, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %q is not legal", ErrInvalidMove, text)
}
