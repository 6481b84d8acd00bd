package board

// Piece is the colorless class of a chess piece.
type Piece uint8

const (
	PieceUnknown Piece = iota
	PiecePawn
	PieceBishop
	PieceKnight
	PieceRook
	PieceQueen
	PieceKing
)

// PawnPromoteCandidates represents the candidates for pawn promotion, in
// generation order.
var PawnPromoteCandidates = [4]Piece{PieceKnight, PieceBishop, PieceRook, PieceQueen}

func (p Piece) String() string {
	return p.Name()
}

func (p Piece) Name() string {
	switch p {
	case PiecePawn:
		return "Pawn"
	case PieceBishop:
		return "Bishop"
	case PieceKnight:
		return "Knight"
	case PieceRook:
		return "Rook"
	case PieceQueen:
		return "Queen"
	case PieceKing:
		return "King"
	default:
		return ""
	}
}

func (p Piece) SymbolAlgebra(s Side) string {
	if p == PiecePawn {
		return ""
	}
	return p.SymbolFEN(s)
}

func (p Piece) SymbolFEN(s Side) string {
	var sym rune
	switch p {
	case PiecePawn:
		sym = 'P'
	case PieceBishop:
		sym = 'B'
	case PieceKnight:
		sym = 'N'
	case PieceRook:
		sym = 'R'
	case PieceQueen:
		sym = 'Q'
	case PieceKing:
		sym = 'K'
	default:
		return ""
	}
	if s == SideBlack {
		sym |= 0x20 // lowercase is +32 uppercase
	}
	return string(sym)
}

func (p Piece) SymbolUnicode(s Side) string {
	switch s {
	case SideWhite:
		switch p {
		case PiecePawn:
			return "♙"
		case PieceBishop:
			return "♗"
		case PieceKnight:
			return "♘"
		case PieceRook:
			return "♖"
		case PieceQueen:
			return "♕"
		case PieceKing:
			return "♔"
		}
	case SideBlack:
		switch p {
		case PiecePawn:
			return "♟"
		case PieceBishop:
			return "♝"
		case PieceKnight:
			return "♞"
		case PieceRook:
			return "♜"
		case PieceQueen:
			return "♛"
		case PieceKing:
			return "♚"
		}
	}
	return ""
}

// Kind is a concrete piece: a class together with its color. The zero
// value is an empty square.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindWhitePawn
	KindWhiteBishop
	KindWhiteKnight
	KindWhiteRook
	KindWhiteQueen
	KindWhiteKing
	KindBlackPawn
	KindBlackBishop
	KindBlackKnight
	KindBlackRook
	KindBlackQueen
	KindBlackKing
	KindOffBoard

	// KindCount sizes arrays indexed by Kind, sentinels included.
	KindCount = int(KindOffBoard) + 1
)

// NewKind combines a side and a piece class. Unknown inputs yield KindEmpty.
func NewKind(s Side, p Piece) Kind {
	if p == PieceUnknown || p > PieceKing {
		return KindEmpty
	}
	switch s {
	case SideWhite:
		return Kind(p)
	case SideBlack:
		return Kind(p) + Kind(PieceKing)
	default:
		return KindEmpty
	}
}

// NewKindFromSymbol parses a FEN piece letter.
func NewKindFromSymbol(sym rune) Kind {
	s := SideWhite
	if sym >= 'a' && sym <= 'z' {
		s = SideBlack
		sym &^= 0x20
	}
	switch sym {
	case 'P':
		return NewKind(s, PiecePawn)
	case 'B':
		return NewKind(s, PieceBishop)
	case 'N':
		return NewKind(s, PieceKnight)
	case 'R':
		return NewKind(s, PieceRook)
	case 'Q':
		return NewKind(s, PieceQueen)
	case 'K':
		return NewKind(s, PieceKing)
	default:
		return KindEmpty
	}
}

// IsPiece reports whether k is one of the twelve concrete kinds.
func (k Kind) IsPiece() bool {
	return k >= KindWhitePawn && k <= KindBlackKing
}

func (k Kind) Side() Side {
	switch {
	case k >= KindWhitePawn && k <= KindWhiteKing:
		return SideWhite
	case k >= KindBlackPawn && k <= KindBlackKing:
		return SideBlack
	default:
		return SideUnknown
	}
}

func (k Kind) Piece() Piece {
	switch {
	case k >= KindWhitePawn && k <= KindWhiteKing:
		return Piece(k)
	case k >= KindBlackPawn && k <= KindBlackKing:
		return Piece(k - Kind(PieceKing))
	default:
		return PieceUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "."
	case KindOffBoard:
		return "x"
	default:
		return k.Piece().SymbolFEN(k.Side())
	}
}
