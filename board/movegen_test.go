package board

import (
	"slices"
	"testing"

	"github.com/eremzeit/skeleton/position"
)

func uciSet(mvs []Move) []string {
	out := make([]string, 0, len(mvs))
	for _, mv := range mvs {
		out = append(out, mv.UCI())
	}
	slices.Sort(out)
	return out
}

func mustBoard(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := NewBoard(WithFEN(fen))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func TestLoneBishop(t *testing.T) {
	t.Parallel()
	b := NewEmptyBoard(nil)
	b.Set(position.A1, KindWhiteBishop)
	b.Normalize()

	got := uciSet(b.GenerateMovesForPiece(position.A1))
	want := []string{"a1b2", "a1c3", "a1d4", "a1e5", "a1f6", "a1g7", "a1h8"}
	if !slices.Equal(got, want) {
		t.Errorf("unexpected moves: got=%v want=%v", got, want)
	}
}

func TestGenerateMovesForPiece(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		fen    string
		pos    position.Pos
		pseudo bool
		want   []string
	}{
		{
			name: "bishop blocked by own pawn and enemy pawn",
			fen:  "7k/8/8/1p3P2/8/3B4/8/K7 w - - 0 1",
			pos:  position.D3,
			want: []string{"d3b1", "d3b5", "d3c2", "d3c4", "d3e2", "d3e4", "d3f1"},
		},
		{
			name: "rook",
			fen:  "7k/8/8/1p3P2/8/8/5r1p/K7 b - - 0 1",
			pos:  position.F2,
			want: []string{"f2a2", "f2b2", "f2c2", "f2d2", "f2e2", "f2f1", "f2f3", "f2f4", "f2f5", "f2g2"},
		},
		{
			name: "queen",
			fen:  "7k/8/8/1p3P2/8/8/5Q1p/K7 w - - 0 1",
			pos:  position.F2,
			want: []string{
				"f2a2", "f2a7", "f2b2", "f2b6", "f2c2", "f2c5", "f2d2", "f2d4", "f2e1", "f2e2",
				"f2e3", "f2f1", "f2f3", "f2f4", "f2g1", "f2g2", "f2g3", "f2h2", "f2h4",
			},
		},
		{
			name: "king boxed in by the opposing king and rook",
			fen:  "1k6/8/1K6/8/8/8/8/R7 b - - 0 1",
			pos:  position.B8,
			want: []string{"b8c8"},
		},
		{
			name: "king between three rooks",
			fen:  "8/8/7r/3K4/7r/8/7k/4r3 w - - 0 1",
			pos:  position.D5,
			want: []string{"d5c5"},
		},
		{
			name: "knight must capture the checking rook",
			fen:  "5b2/3N4/7r/2rK4/7r/8/7k/4r3 w - - 0 1",
			pos:  position.D7,
			want: []string{"d7c5"},
		},
		{
			name: "pawn push capture and en passant",
			fen:  "r2qk2r/p5bp/3p2p1/1p2Pp1n/2PB1Qb1/7P/PP4P1/RN2KB1R w KQkq f6 5 3",
			pos:  position.E5,
			want: []string{"e5d6", "e5e6", "e5f6"},
		},
		{
			name: "pawn double push",
			fen:  "r2qk2r/p5bp/3p2p1/1p2Pp1n/2PB1Qb1/7P/PP4P1/RN2KB1R w KQkq f6 5 3",
			pos:  position.A2,
			want: []string{"a2a3", "a2a4"},
		},
		{
			name:   "black pawn blocked from double push",
			fen:    "r2qk2r/p5bp/3p2p1/1p2Pp1n/2PB1Qb1/7P/PP4P1/RN2KB1R w KQkq f6 5 3",
			pos:    position.H7,
			pseudo: true,
			want:   []string{"h7h6"},
		},
		{
			name: "promotion",
			fen:  "8/P6k/8/8/8/8/8/K7 w - - 0 1",
			pos:  position.A7,
			want: []string{"a7a8b", "a7a8n", "a7a8q", "a7a8r"},
		},
		{
			name: "promotion with capture",
			fen:  "1n5k/P7/8/8/8/8/8/K7 w - - 0 1",
			pos:  position.A7,
			want: []string{"a7a8b", "a7a8n", "a7a8q", "a7a8r", "a7b8b", "a7b8n", "a7b8q", "a7b8r"},
		},
		{
			name: "black promotion",
			fen:  "k7/8/8/8/8/8/6p1/K6R b - - 0 1",
			pos:  position.G2,
			want: []string{"g2g1b", "g2g1n", "g2g1q", "g2g1r", "g2h1b", "g2h1n", "g2h1q", "g2h1r"},
		},
		{
			name: "pinned knight",
			fen:  "4r2k/8/8/8/8/8/4N3/4K3 w - - 0 1",
			pos:  position.E2,
			want: []string{},
		},
		{
			name: "piece of the side not to move",
			fen:  DefaultStartingPositionFEN,
			pos:  position.E7,
			want: []string{},
		},
		{
			name: "empty square",
			fen:  DefaultStartingPositionFEN,
			pos:  position.E4,
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := mustBoard(t, tt.fen)
			var mvs []Move
			if tt.pseudo {
				mvs = b.GeneratePseudoLegalMovesForPiece(tt.pos)
			} else {
				mvs = b.GenerateMovesForPiece(tt.pos)
			}
			if got := uciSet(mvs); !slices.Equal(got, tt.want) {
				t.Errorf("unexpected moves: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestMoveTags(t *testing.T) {
	t.Parallel()
	b := mustBoard(t, "r2qk2r/p5bp/3p2p1/1p2Pp1n/2PB1Qb1/7P/PP4P1/RN2KB1R w KQkq f6 5 3")
	want := map[string]Move{
		"e5f6": {From: position.E5, Piece: KindWhitePawn, To: position.F6, Captured: KindBlackPawn, Tag: MoveTagEnPassant},
		"e5d6": {From: position.E5, Piece: KindWhitePawn, To: position.D6, Captured: KindBlackPawn, Tag: MoveTagCapture},
		"e5e6": {From: position.E5, Piece: KindWhitePawn, To: position.E6, Captured: KindEmpty, Tag: MoveTagQuiet},
		"a2a4": {From: position.A2, Piece: KindWhitePawn, To: position.A4, Captured: KindEmpty, Tag: MoveTagDoublePush},
	}
	for _, mv := range b.GenerateMoves() {
		if w, ok := want[mv.UCI()]; ok {
			if mv != w {
				t.Errorf("unexpected move %s: got=%+v want=%+v", mv.UCI(), mv, w)
			}
			delete(want, mv.UCI())
		}
	}
	if len(want) != 0 {
		t.Errorf("moves not generated: %v", want)
	}
}

func TestCastling(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		fen       string
		wantKing  bool
		wantQueen bool
	}{
		{name: "black king side", fen: "rnbqk2r/ppppp2p/5n1b/5pp1/3P1P2/5NP1/PPP1P1BP/RNBQK2R b KQkq - 9 5", wantKing: true},
		{name: "white king side", fen: "rnbqk2r/ppppp2p/5n1b/5pp1/3P1P2/5NP1/PPP1P1BP/RNBQK2R w KQkq - 9 5", wantKing: true},
		{name: "white queen side", fen: "r3kbnr/pppqpppp/2n1b3/3p4/3P4/2N1B3/PPPQPPPP/R3KBNR w KQkq - 8 5", wantQueen: true},
		{name: "black queen side", fen: "r3kbnr/pppqpppp/2n1b3/3p4/3P4/2N1B3/PPPQPPPP/R3KBNR b KQkq - 8 5", wantQueen: true},
		{name: "both sides", fen: "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", wantKing: true, wantQueen: true},
		{name: "no rights", fen: "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1"},
		{name: "only queen side right", fen: "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", wantQueen: true},
		{name: "king side path attacked", fen: "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", wantQueen: true},
		{name: "queen side blocked", fen: "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", wantKing: true},
		{name: "rook square next to rook attacked", fen: "r3k2r/8/8/8/8/n7/8/R3K2R w KQkq - 0 1", wantKing: true, wantQueen: true},
		{name: "in check", fen: "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1"},
		{name: "king side blocked", fen: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := mustBoard(t, tt.fen)
			var gotKing, gotQueen bool
			for _, mv := range b.GenerateMoves() {
				switch mv.Tag {
				case MoveTagKingCastle:
					gotKing = true
				case MoveTagQueenCastle:
					gotQueen = true
				}
			}
			if gotKing != tt.wantKing {
				t.Errorf("unexpected king side castle: got=%v want=%v", gotKing, tt.wantKing)
			}
			if gotQueen != tt.wantQueen {
				t.Errorf("unexpected queen side castle: got=%v want=%v", gotQueen, tt.wantQueen)
			}
		})
	}
}

func TestIsAttacked(t *testing.T) {
	t.Parallel()
	b := mustBoard(t, "r2qk2r/pp3pbp/3p1np1/8/2PBPQb1/8/PP4PP/RN2KB1R b KQkq - 0 12")

	// [attacked by White, attacked by Black] for a1..h1, a2..h2, a3..h3.
	table := [24][2]bool{
		{false, false}, {true, false}, {true, false}, {true, true}, {false, false}, {true, false}, {true, false}, {false, false},
		{true, false}, {true, false}, {false, false}, {true, false}, {true, true}, {true, false}, {true, false}, {true, false},
		{true, false}, {true, false}, {true, false}, {true, false}, {true, false}, {true, true}, {true, false}, {true, true},
	}
	for i, want := range table {
		pos := position.Pos(i)
		if got := b.IsAttacked(pos, SideWhite); got != want[0] {
			t.Errorf("unexpected attack by White on %s: got=%v want=%v", pos, got, want[0])
		}
		if got := b.IsAttacked(pos, SideBlack); got != want[1] {
			t.Errorf("unexpected attack by Black on %s: got=%v want=%v", pos, got, want[1])
		}
	}

	for _, tt := range []struct {
		pos          position.Pos
		white, black bool
	}{
		{pos: position.G7},
		{pos: position.G6, black: true},
		{pos: position.F6, white: true, black: true},
		{pos: position.A2, white: true},
		{pos: position.A8, black: true},
		{pos: position.B8, black: true},
		{pos: position.A6, black: true},
		{pos: position.F7, black: true},
		{pos: position.A7, white: true, black: true},
	} {
		if got := b.IsAttacked(tt.pos, SideWhite); got != tt.white {
			t.Errorf("unexpected attack by White on %s: got=%v want=%v", tt.pos, got, tt.white)
		}
		if got := b.IsAttacked(tt.pos, SideBlack); got != tt.black {
			t.Errorf("unexpected attack by Black on %s: got=%v want=%v", tt.pos, got, tt.black)
		}
	}

	attacked := b.AttackedSquares(SideBlack)
	for i, want := range table {
		if got := attacked.Has(position.Pos(i)); got != want[1] {
			t.Errorf("unexpected attack map on %s: got=%v want=%v", position.Pos(i), got, want[1])
		}
	}
}

func TestMoveCount(t *testing.T) {
	t.Parallel()
	b := mustBoard(t, DefaultStartingPositionFEN)
	mvs := b.GenerateMoves()
	if len(mvs) != 20 {
		t.Fatalf("unexpected move count: got=%d want=%d", len(mvs), 20)
	}
	var leaves int
	for _, mv := range mvs {
		b.Apply(mv)
		leaves += len(b.GenerateMoves())
		b.Revert(mv)
	}
	if leaves != 400 {
		t.Errorf("unexpected leaf count: got=%d want=%d", leaves, 400)
	}
}

func TestMoveSequenceEarlyExit(t *testing.T) {
	t.Parallel()
	b := mustBoard(t, DefaultStartingPositionFEN)
	var n int
	for range b.LegalMoves() {
		if n++; n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("unexpected iterations: got=%d want=%d", n, 3)
	}
	// sequences restart from the beginning
	var again int
	for range b.LegalMoves() {
		again++
	}
	if again != 20 {
		t.Errorf("unexpected move count: got=%d want=%d", again, 20)
	}
	if b.FEN() != DefaultStartingPositionFEN {
		t.Errorf("board changed: got=%s want=%s", b.FEN(), DefaultStartingPositionFEN)
	}
}

func TestState(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fen  string
		want State
	}{
		{name: "start", fen: DefaultStartingPositionFEN, want: StateRunning},
		{name: "fool's mate", fen: "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", want: StateCheckmateWhite},
		{name: "back rank mate", fen: "R5k1/5ppp/8/8/8/8/8/6K1 b - - 1 1", want: StateCheckmateBlack},
		{name: "stalemate", fen: "k7/8/1Q6/8/8/8/8/7K b - - 0 1", want: StateStalemate},
		{name: "check", fen: "4k3/8/8/8/8/8/8/4RK2 b - - 0 1", want: StateCheckBlack},
		{name: "fifty moves", fen: "4k3/8/8/8/8/8/8/4K2R w - - 100 80", want: StateFiftyMoveViolated},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := mustBoard(t, tt.fen)
			if got := b.State(); got != tt.want {
				t.Errorf("unexpected state: got=%s want=%s", got, tt.want)
			}
			if got := b.IsCheckmate(); got != tt.want.IsCheckmate() {
				t.Errorf("unexpected checkmate: got=%v want=%v", got, tt.want.IsCheckmate())
			}
			if got := b.IsStalemate(); got != (tt.want == StateStalemate) {
				t.Errorf("unexpected stalemate: got=%v want=%v", got, tt.want == StateStalemate)
			}
		})
	}
}

func TestUseBeforeNormalize(t *testing.T) {
	t.Parallel()
	b := NewEmptyBoard(nil)
	b.Set(position.E1, KindWhiteKing)
	defer func() {
		if recover() == nil {
			t.Error("panic expected: got=nil")
		}
	}()
	_ = b.GenerateMoves()
}
