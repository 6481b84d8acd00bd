package board

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/eremzeit/skeleton/position"
)

// Board is a position: one bitmap per concrete kind plus a mailbox that
// mirrors them, the derived occupancy sets, and the game counters.
//
// Set and Clear change both representations together but leave the
// derived sets and the hash stale; Normalize must run before the board is
// handed to move generation or search. Apply and Revert keep the board
// normalized on their own.
type Board struct {
	bitmaps  [KindCount]bitmap
	sides    [3]bitmap
	occupied bitmap
	cells    [TotalCells]Kind

	turn          Side
	castleRights  CastleRights
	enPassant     position.Pos // file, or position.Invalid
	halfMoveClock uint16
	fullMoveClock uint16

	hash    uint64
	zobrist *Zobrist
	stale   bool
	history []undo
}

type BoardOption func(*boardConfig)

type boardConfig struct {
	fen     string
	zobrist *Zobrist
}

func WithFEN(fen string) BoardOption {
	return func(cfg *boardConfig) {
		cfg.fen = fen
	}
}

func WithZobrist(z *Zobrist) BoardOption {
	return func(cfg *boardConfig) {
		cfg.zobrist = z
	}
}

// NewBoard decodes a position, the standard starting position by default.
func NewBoard(opts ...BoardOption) (*Board, error) {
	cfg := boardConfig{fen: DefaultStartingPositionFEN}
	for _, opt := range opts {
		opt(&cfg)
	}
	b := NewEmptyBoard(cfg.zobrist)
	if err := UnmarshalFEN(cfg.fen, b); err != nil {
		return nil, err
	}
	return b, nil
}

// NewEmptyBoard returns a normalized board with no pieces, White to move.
// A nil z selects DefaultZobrist.
func NewEmptyBoard(z *Zobrist) *Board {
	if z == nil {
		z = DefaultZobrist()
	}
	b := &Board{
		turn:          SideWhite,
		enPassant:     position.Invalid,
		fullMoveClock: 1,
		zobrist:       z,
	}
	b.Normalize()
	return b
}

// Get returns the kind on pos, KindOffBoard when pos is off the board.
func (b *Board) Get(pos position.Pos) Kind {
	if !pos.IsValid() {
		return KindOffBoard
	}
	return b.cells[pos]
}

// GetXY is Get addressed by file and rank.
func (b *Board) GetXY(x, y position.Pos) Kind {
	return b.Get(position.NewPos(x, y))
}

// Set places k on pos, replacing whatever was there.
func (b *Board) Set(pos position.Pos, k Kind) {
	if !pos.IsValid() {
		panic(fmt.Sprintf("board: set off-board square %d", pos))
	}
	if k != KindEmpty && !k.IsPiece() {
		panic(fmt.Sprintf("board: set sentinel kind %d", k))
	}
	b.lift(pos)
	if k != KindEmpty {
		b.place(pos, k)
	}
	b.stale = true
}

func (b *Board) Clear(pos position.Pos) {
	b.Set(pos, KindEmpty)
}

func (b *Board) SetTurn(s Side) {
	b.turn = s
	b.stale = true
}

func (b *Board) SetCastleRights(c CastleRights) {
	b.castleRights = c & CastleRightsAll
	b.stale = true
}

// SetEnPassant sets the en-passant file, position.Invalid for none.
func (b *Board) SetEnPassant(file position.Pos) {
	if file < 0 || file >= Width {
		file = position.Invalid
	}
	b.enPassant = file
	b.stale = true
}

func (b *Board) SetClocks(halfMove, fullMove uint16) {
	b.halfMoveClock = halfMove
	b.fullMoveClock = fullMove
}

// Normalize recomputes the derived occupancy sets and the hash.
func (b *Board) Normalize() {
	b.normalizeOccupancy()
	b.hash = b.zobrist.Hash(b)
	b.stale = false
}

func (b *Board) normalizeOccupancy() {
	b.sides[SideWhite], b.sides[SideBlack] = 0, 0
	for k := KindWhitePawn; k <= KindWhiteKing; k++ {
		b.sides[SideWhite] |= b.bitmaps[k]
	}
	for k := KindBlackPawn; k <= KindBlackKing; k++ {
		b.sides[SideBlack] |= b.bitmaps[k]
	}
	b.occupied = b.sides[SideWhite] | b.sides[SideBlack]
}

func (b *Board) mustBeNormalized() {
	if b.stale {
		panic("board: used before Normalize")
	}
}

// place and lift are the only writers of bitmaps and cells.
func (b *Board) place(pos position.Pos, k Kind) {
	b.bitmaps[k].Set(pos)
	b.cells[pos] = k
}

func (b *Board) lift(pos position.Pos) Kind {
	k := b.cells[pos]
	if k != KindEmpty {
		b.bitmaps[k].Unset(pos)
		b.cells[pos] = KindEmpty
	}
	return k
}

func (b *Board) Turn() Side {
	return b.turn
}

func (b *Board) CastleRights() CastleRights {
	return b.castleRights
}

// EnPassant returns the en-passant file, position.Invalid for none.
func (b *Board) EnPassant() position.Pos {
	return b.enPassant
}

func (b *Board) HalfMoveClock() uint16 {
	return b.halfMoveClock
}

func (b *Board) FullMoveClock() uint16 {
	return b.fullMoveClock
}

func (b *Board) Hash() uint64 {
	return b.hash
}

func (b *Board) Zobrist() *Zobrist {
	return b.zobrist
}

// Ply is the number of moves applied and not yet reverted.
func (b *Board) Ply() int {
	return len(b.history)
}

// LastMove returns the most recently applied move still on the stack.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	return b.history[len(b.history)-1].move, true
}

func (b *Board) GetBitmap(k Kind) bitmap {
	return b.bitmaps[k]
}

// Count returns how many pieces of kind k are on the board.
func (b *Board) Count(k Kind) int {
	return int(b.bitmaps[k].BitCount())
}

func (b *Board) Occupied(s Side) bitmap {
	if s == SideUnknown {
		return b.occupied
	}
	return b.sides[s]
}

// KingPos returns the square of the king of s, position.Invalid if absent.
func (b *Board) KingPos(s Side) position.Pos {
	bm := b.bitmaps[NewKind(s, PieceKing)]
	if bm == 0 {
		return position.Invalid
	}
	return bm.LS1B()
}

func (b *Board) FEN() string {
	fen, _ := MarshalFEN(b)
	return fen
}

// Clone returns an independent copy, history included.
func (b *Board) Clone() *Board {
	bb := *b
	bb.history = append(make([]undo, 0, cap(b.history)), b.history...)
	return &bb
}

func (b *Board) Dump() string {
	builder := strings.Builder{}
	for y := position.Pos(Height) - 1; y >= 0; y-- {
		_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n")
		_, _ = builder.WriteString(fmt.Sprintf(" %d |", y+1))
		for x := position.Pos(0); x < Width; x++ {
			sym := " "
			if k := b.GetXY(x, y); k.IsPiece() {
				sym = k.String()
			}
			_, _ = builder.WriteString(fmt.Sprintf(" %s |", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n   ")
	for x := position.Pos(0); x < Width; x++ {
		_, _ = builder.WriteString(fmt.Sprintf("  %s ", x.NotationComponentX()))
	}
	return builder.String()
}

var (
	drawLight = color.New(color.FgBlack, color.BgHiWhite)
	drawDark  = color.New(color.FgBlack, color.BgGreen)
	drawLabel = color.New(color.Bold)
)

func (b *Board) Draw() string {
	builder := strings.Builder{}
	for y := position.Pos(Height) - 1; y >= 0; y-- {
		_, _ = builder.WriteString(drawLabel.Sprintf(" %d ", y+1))
		for x := position.Pos(0); x < Width; x++ {
			sym := " "
			if k := b.GetXY(x, y); k.IsPiece() {
				sym = k.Piece().SymbolUnicode(k.Side())
			}
			cell := drawDark
			if x%2 != y%2 {
				cell = drawLight
			}
			_, _ = builder.WriteString(cell.Sprintf(" %s ", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   ")
	for x := position.Pos(0); x < Width; x++ {
		_, _ = builder.WriteString(drawLabel.Sprintf(" %s ", x.NotationComponentX()))
	}
	return builder.String()
}

func (b *Board) DebugString() string {
	return fmt.Sprintf("fen:  %s\nhash: %016x\ncast: %04b\nenp:  %s\nhalf: %4d\nfull: %4d\nstat: %s",
		b.FEN(), b.hash, b.castleRights, b.enPassant.NotationComponentX(), b.halfMoveClock, b.fullMoveClock, b.State())
}
