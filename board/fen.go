package board

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/eremzeit/skeleton/position"
)

// UnmarshalFEN decodes fen into b, replacing its whole position and
// clearing its history. b is normalized on success.
func UnmarshalFEN(fen string, b *Board) error {
	if b == nil {
		return fmt.Errorf("invalid board")
	}
	segments := strings.Fields(fen)
	if len(segments) != 6 {
		return fmt.Errorf("%w: incorrect number of segments", ErrInvalidFEN)
	}

	z := b.zobrist
	if z == nil {
		z = DefaultZobrist()
	}
	*b = Board{zobrist: z, enPassant: position.Invalid, stale: true}

	rows := strings.Split(segments[0], "/")
	if len(rows) != int(Height) {
		return fmt.Errorf("%w: invalid board configuration", ErrInvalidFEN)
	}
	for y := position.Pos(0); y < Height; y++ {
		row := rows[Height-y-1]
		x := position.Pos(0)
		for _, cell := range row {
			if x >= Width {
				return fmt.Errorf("%w: too many cells in rank %d", ErrInvalidFEN, y+1)
			}
			if unicode.IsDigit(cell) {
				skip := position.Pos(cell - '0')
				if skip == 0 || x+skip > Width {
					return fmt.Errorf("%w: skip out of bounds", ErrInvalidFEN)
				}
				x += skip
				continue
			}
			k := NewKindFromSymbol(cell)
			if k == KindEmpty {
				return fmt.Errorf("%w: unknown symbol '%s'", ErrInvalidFEN, string(cell))
			}
			b.place(position.NewPos(x, y), k)
			x++
		}
		if x != Width {
			return fmt.Errorf("%w: missing cells in rank %d", ErrInvalidFEN, y+1)
		}
	}
	if b.Count(KindWhiteKing) != 1 || b.Count(KindBlackKing) != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	if (b.bitmaps[KindWhitePawn]|b.bitmaps[KindBlackPawn])&(rankMask(0)|rankMask(Height-1)) != 0 {
		return fmt.Errorf("%w: pawn on back rank", ErrInvalidFEN)
	}

	if b.turn = NewSideFromSymbol(segments[1]); b.turn == SideUnknown {
		return fmt.Errorf("%w: invalid turn", ErrInvalidFEN)
	}

	if len(segments[2]) > 4 {
		return fmt.Errorf("%w: invalid castling rights", ErrInvalidFEN)
	}
	if segments[2] != "-" {
		for _, e := range segments[2] {
			var d CastleDirection
			switch e {
			case 'K':
				d = CastleDirectionWhiteRight
			case 'Q':
				d = CastleDirectionWhiteLeft
			case 'k':
				d = CastleDirectionBlackRight
			case 'q':
				d = CastleDirectionBlackLeft
			default:
				return fmt.Errorf("%w: invalid castling rights", ErrInvalidFEN)
			}
			if b.castleRights.IsAllowed(d) {
				return fmt.Errorf("%w: repeated castling right", ErrInvalidFEN)
			}
			b.castleRights.Set(d, true)
		}
	}

	if segments[3] != "-" {
		file, err := parseEnPassant(segments[3], b.turn)
		if err != nil {
			return err
		}
		b.enPassant = file
	}

	halfMoveClock, err := strconv.ParseUint(segments[4], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: invalid half move clock", ErrInvalidFEN)
	}
	b.halfMoveClock = uint16(halfMoveClock)

	fullMoveClock, err := strconv.ParseUint(segments[5], 10, 16)
	if err != nil || fullMoveClock == 0 {
		return fmt.Errorf("%w: invalid full move clock", ErrInvalidFEN)
	}
	b.fullMoveClock = uint16(fullMoveClock)

	b.Normalize()
	return nil
}

// parseEnPassant accepts a target square on the rank implied by turn, or a
// bare file letter.
func parseEnPassant(field string, turn Side) (position.Pos, error) {
	if len(field) == 1 {
		file, err := position.NewFileFromNotation(field[0])
		if err != nil {
			return position.Invalid, fmt.Errorf("%w: invalid enpassant file: %v", ErrInvalidFEN, err)
		}
		return file, nil
	}
	pos, err := position.NewPosFromNotation(field)
	if err != nil {
		return position.Invalid, fmt.Errorf("%w: invalid enpassant position: %v", ErrInvalidFEN, err)
	}
	if pos.Y() != enPassantTargetRank(turn) {
		return position.Invalid, fmt.Errorf("%w: invalid enpassant rank", ErrInvalidFEN)
	}
	return pos.X(), nil
}

// enPassantTargetRank is the rank of the square a pawn of turn would land
// on when capturing en passant.
func enPassantTargetRank(turn Side) position.Pos {
	return pawnRules[turn].enPassantRank + pawnRules[turn].dir
}

func rankMask(y position.Pos) bitmap {
	return bitmap(0xFF) << (8 * uint(y))
}

func MarshalFEN(b *Board) (string, error) {
	if b == nil {
		return "", fmt.Errorf("invalid board")
	}
	builder := strings.Builder{}
	for y := position.Pos(Height) - 1; y >= 0; y-- {
		var skip uint8
		for x := position.Pos(0); x < Width; x++ {
			k := b.GetXY(x, y)
			if !k.IsPiece() {
				skip++
				continue
			}
			if skip != 0 {
				_, _ = builder.WriteRune(rune(skip + '0'))
				skip = 0
			}
			_, _ = builder.WriteString(k.String())
		}
		if skip != 0 {
			_, _ = builder.WriteRune(rune(skip + '0'))
		}
		if y > 0 {
			_, _ = builder.WriteRune('/')
		}
	}

	_, _ = builder.WriteString(" " + b.turn.Symbol() + " ")
	_, _ = builder.WriteString(b.castleRights.String())
	_, _ = builder.WriteRune(' ')

	if b.enPassant == position.Invalid {
		_, _ = builder.WriteRune('-')
	} else {
		_, _ = builder.WriteString(position.NewPos(b.enPassant, enPassantTargetRank(b.turn)).Notation())
	}

	_, _ = builder.WriteString(fmt.Sprintf(" %d %d", b.halfMoveClock, b.fullMoveClock))

	return builder.String(), nil
}
