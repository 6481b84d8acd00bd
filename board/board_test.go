package board

import (
	"strings"
	"testing"

	"github.com/eremzeit/skeleton/position"
)

func TestGetOffBoard(t *testing.T) {
	t.Parallel()
	b := mustBoard(t, DefaultStartingPositionFEN)
	tests := []struct {
		x, y position.Pos
		want Kind
	}{
		{x: 0, y: 0, want: KindWhiteRook},
		{x: 4, y: 7, want: KindBlackKing},
		{x: 4, y: 4, want: KindEmpty},
		{x: -1, y: 0, want: KindOffBoard},
		{x: 8, y: 3, want: KindOffBoard},
		{x: 3, y: 8, want: KindOffBoard},
		{x: 0, y: -1, want: KindOffBoard},
	}
	for _, tt := range tests {
		if got := b.GetXY(tt.x, tt.y); got != tt.want {
			t.Errorf("unexpected kind at (%d,%d): got=%s want=%s", tt.x, tt.y, got, tt.want)
		}
	}
	if got := b.Get(position.Invalid); got != KindOffBoard {
		t.Errorf("unexpected kind: got=%s want=%s", got, KindOffBoard)
	}
}

func TestSetNormalize(t *testing.T) {
	t.Parallel()
	b := NewEmptyBoard(nil)
	b.Set(position.E1, KindWhiteKing)
	b.Set(position.E8, KindBlackKing)
	b.Set(position.D2, KindWhitePawn)
	b.Set(position.D2, KindWhiteQueen)
	b.Set(position.H7, KindBlackPawn)
	b.Clear(position.H7)
	b.SetTurn(SideBlack)
	b.SetCastleRights(CastleRightsNone)
	b.Normalize()

	want := mustBoard(t, "4k3/8/8/8/8/8/3Q4/4K3 b - - 0 1")
	if b.FEN() != want.FEN() {
		t.Errorf("unexpected FEN: got=%s want=%s", b.FEN(), want.FEN())
	}
	if b.Hash() != want.Hash() {
		t.Errorf("unexpected hash: got=%016x want=%016x", b.Hash(), want.Hash())
	}
	if b.Count(KindWhitePawn) != 0 || b.Count(KindWhiteQueen) != 1 || b.Count(KindBlackPawn) != 0 {
		t.Errorf("stale bitmap after replace")
	}
	checkConsistency(t, b)
}

func TestClone(t *testing.T) {
	t.Parallel()
	b := mustBoard(t, DefaultStartingPositionFEN)
	mv, err := ParseMove(b, "e2e4")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	b.Apply(mv)
	bb := b.Clone()
	reply, err := ParseMove(bb, "e7e5")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	bb.Apply(reply)
	if b.Ply() != 1 || bb.Ply() != 2 {
		t.Errorf("unexpected plies: got=%d,%d want=1,2", b.Ply(), bb.Ply())
	}
	if b.Get(position.E5) != KindEmpty {
		t.Errorf("clone shares squares with its source")
	}
	bb.Revert(reply)
	bb.Revert(mv)
	if bb.FEN() != DefaultStartingPositionFEN {
		t.Errorf("unexpected FEN: got=%s want=%s", bb.FEN(), DefaultStartingPositionFEN)
	}
}

func TestDump(t *testing.T) {
	t.Parallel()
	b := mustBoard(t, DefaultStartingPositionFEN)
	dump := b.Dump()
	for _, want := range []string{" 8 | r | n | b | q | k | b | n | r |", " 1 | R | N | B | Q | K | B | N | R |"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump misses %q:\n%s", want, dump)
		}
	}
	if !strings.Contains(b.Draw(), "♔") {
		t.Errorf("draw misses the white king")
	}
}
