package board

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/eremzeit/skeleton/position"
)

var walkFENs = []string{
	DefaultStartingPositionFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r2qk2r/p5bp/3p2p1/1p2Pp1n/2PB1Qb1/7P/PP4P1/RN2KB1R w KQkq f6 5 3",
	"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
}

// checkConsistency verifies the mailbox, the bitmaps, the derived sets and
// the hash against each other.
func checkConsistency(t *testing.T, b *Board) {
	t.Helper()
	for pos := position.Pos(0); pos < TotalCells; pos++ {
		for k := KindWhitePawn; k <= KindBlackKing; k++ {
			if b.bitmaps[k].Has(pos) != (b.cells[pos] == k) {
				t.Fatalf("bitmap and mailbox disagree on %s for %s: cell=%s", pos, k, b.cells[pos])
			}
		}
	}
	var white, black bitmap
	for k := KindWhitePawn; k <= KindWhiteKing; k++ {
		white |= b.bitmaps[k]
	}
	for k := KindBlackPawn; k <= KindBlackKing; k++ {
		black |= b.bitmaps[k]
	}
	if white != b.sides[SideWhite] || black != b.sides[SideBlack] || white|black != b.occupied {
		t.Fatalf("stale occupancy")
	}
	if got, want := b.Hash(), b.zobrist.Hash(b); got != want {
		t.Fatalf("unexpected hash: got=%016x want=%016x", got, want)
	}
}

func TestApplyRevertRoundTrip(t *testing.T) {
	t.Parallel()
	for _, fen := range walkFENs {
		fen := fen
		t.Run(fen, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewSource(42))
			b := mustBoard(t, fen)
			for step := 0; step < 60; step++ {
				mvs := b.GenerateMoves()
				if len(mvs) == 0 {
					break
				}
				before := b.Clone()
				for _, mv := range mvs {
					b.Apply(mv)
					checkConsistency(t, b)
					b.Revert(mv)
					if !reflect.DeepEqual(before, b) {
						t.Fatalf("revert %s from %s: got=%s want=%s", mv.UCI(), before.FEN(), b.FEN(), before.FEN())
					}
				}
				b.Apply(mvs[r.Intn(len(mvs))])
			}
			for b.Ply() > 0 {
				mv, _ := b.LastMove()
				b.Revert(mv)
			}
			if got := b.FEN(); got != fen {
				t.Errorf("unexpected FEN after unwinding: got=%s want=%s", got, fen)
			}
		})
	}
}

func TestApplyCounters(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  string
	}{
		{
			name:  "double push sets en passant, black move bumps full move",
			fen:   DefaultStartingPositionFEN,
			moves: []string{"e2e4", "c7c5"},
			want:  "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		},
		{
			name:  "knight moves bump half move",
			fen:   DefaultStartingPositionFEN,
			moves: []string{"g1f3", "g8f6", "f3g1"},
			want:  "rnbqkb1r/pppppppp/5n2/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 3 2",
		},
		{
			name:  "castling moves the rook, revokes rights and counts as a half move",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 4 10",
			moves: []string{"e1g1", "e8c8"},
			want:  "2kr3r/8/8/8/8/8/8/R4RK1 w - - 6 11",
		},
		{
			name:  "rook leaving home revokes one right",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			moves: []string{"h1h5"},
			want:  "r3k2r/8/8/7R/8/8/8/R3K3 b Qkq - 1 1",
		},
		{
			name:  "rook captured on home square",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			moves: []string{"a1a8"},
			want:  "R3k2r/8/8/8/8/8/8/4K2R b Kk - 0 1",
		},
		{
			name:  "en passant removes the passed pawn",
			fen:   "r2qk2r/p5bp/3p2p1/1p2Pp1n/2PB1Qb1/7P/PP4P1/RN2KB1R w KQkq f6 5 3",
			moves: []string{"e5f6"},
			want:  "r2qk2r/p5bp/3p1Pp1/1p5n/2PB1Qb1/7P/PP4P1/RN2KB1R b KQkq - 0 3",
		},
		{
			name:  "promotion with capture",
			fen:   "1n5k/P7/8/8/8/8/8/K7 w - - 7 40",
			moves: []string{"a7b8q"},
			want:  "1Q5k/8/8/8/8/8/8/K7 b - - 0 40",
		},
		{
			name:  "null move",
			fen:   DefaultStartingPositionFEN,
			moves: []string{"e2e4", "0000"},
			want:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 1 2",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := mustBoard(t, tt.fen)
			var played []Move
			for _, text := range tt.moves {
				mv, err := ParseMove(b, text)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				b.Apply(mv)
				checkConsistency(t, b)
				played = append(played, mv)
			}
			if got := b.FEN(); got != tt.want {
				t.Errorf("unexpected FEN: got=%s want=%s", got, tt.want)
			}
			want := mustBoard(t, tt.want)
			if b.Hash() != want.Hash() {
				t.Errorf("unexpected hash: got=%016x want=%016x", b.Hash(), want.Hash())
			}
			for i := len(played) - 1; i >= 0; i-- {
				b.Revert(played[i])
			}
			if got := b.FEN(); got != tt.fen {
				t.Errorf("unexpected FEN after revert: got=%s want=%s", got, tt.fen)
			}
		})
	}
}

func TestTransposedHash(t *testing.T) {
	t.Parallel()
	play := func(moves ...string) *Board {
		b := mustBoard(t, DefaultStartingPositionFEN)
		for _, text := range moves {
			mv, err := ParseMove(b, text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			b.Apply(mv)
		}
		return b
	}
	a := play("g1f3", "g8f6", "b1c3", "b8c6")
	b := play("b1c3", "b8c6", "g1f3", "g8f6")
	if a.Hash() != b.Hash() {
		t.Errorf("transposition hashes differ: got=%016x want=%016x", a.Hash(), b.Hash())
	}
	if a.Hash() != a.zobrist.Hash(a) {
		t.Errorf("hash is not stable")
	}
	c := play("g1f3", "g8f6", "b1c3")
	if c.Hash() == a.Hash() {
		t.Errorf("different positions share a hash: %016x", c.Hash())
	}
	d := mustBoard(t, "r1bqkb1r/pppppppp/2n2n2/8/8/2N2N2/PPPPPPPP/R1BQKB1R w KQkq - 4 3")
	if d.Hash() != a.Hash() {
		t.Errorf("decoded position hash differs: got=%016x want=%016x", d.Hash(), a.Hash())
	}
}

func TestApplyPanics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		run  func(b *Board)
	}{
		{
			name: "wrong side",
			run: func(b *Board) {
				b.Apply(Move{From: position.E7, Piece: KindBlackPawn, To: position.E5, Tag: MoveTagDoublePush})
			},
		},
		{
			name: "capture without victim",
			run: func(b *Board) {
				b.Apply(Move{From: position.E2, Piece: KindWhitePawn, To: position.E3, Tag: MoveTagCapture})
			},
		},
		{
			name: "piece not on origin",
			run: func(b *Board) {
				b.Apply(Move{From: position.E3, Piece: KindWhitePawn, To: position.E4, Tag: MoveTagQuiet})
			},
		},
		{
			name: "revert with empty history",
			run: func(b *Board) {
				b.Revert(Move{From: position.E2, Piece: KindWhitePawn, To: position.E4, Tag: MoveTagDoublePush})
			},
		},
		{
			name: "revert out of order",
			run: func(b *Board) {
				first := Move{From: position.E2, Piece: KindWhitePawn, To: position.E4, Tag: MoveTagDoublePush}
				second := Move{From: position.E7, Piece: KindBlackPawn, To: position.E5, Tag: MoveTagDoublePush}
				b.Apply(first)
				b.Apply(second)
				b.Revert(first)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := mustBoard(t, DefaultStartingPositionFEN)
			defer func() {
				if recover() == nil {
					t.Error("panic expected: got=nil")
				}
			}()
			tt.run(b)
		})
	}
}
