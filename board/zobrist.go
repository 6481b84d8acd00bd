package board

import (
	"sync"

	"github.com/eremzeit/skeleton/position"
)

// DefaultZobristSeed seeds the process-wide table.
const DefaultZobristSeed uint64 = 0x9E3779B97F4A7C15

var (
	defaultZobrist     *Zobrist
	defaultZobristOnce sync.Once
)

// Zobrist is an immutable table of fingerprint constants.
type Zobrist struct {
	piece       [KindCount][TotalCells]uint64
	castle      [CastleRightsAll + 1]uint64
	enPassant   [Width]uint64
	blackToMove uint64
}

// DefaultZobrist returns the shared table, building it on first use.
func DefaultZobrist() *Zobrist {
	defaultZobristOnce.Do(func() {
		defaultZobrist = NewZobrist(DefaultZobristSeed)
	})
	return defaultZobrist
}

// NewZobrist builds a table deterministically from seed. A zero seed is
// replaced by DefaultZobristSeed since xorshift never leaves zero.
func NewZobrist(seed uint64) *Zobrist {
	if seed == 0 {
		seed = DefaultZobristSeed
	}
	r := pseudoRand{s: seed}
	z := &Zobrist{}
	for k := KindWhitePawn; k <= KindBlackKing; k++ {
		for pos := position.Pos(0); pos < TotalCells; pos++ {
			z.piece[k][pos] = r.Uint64()
		}
	}
	for c := range z.castle {
		z.castle[c] = r.Uint64()
	}
	for x := range z.enPassant {
		z.enPassant[x] = r.Uint64()
	}
	z.blackToMove = r.Uint64()
	return z
}

// Hash computes the fingerprint of b from scratch.
func (z *Zobrist) Hash(b *Board) uint64 {
	var hash uint64
	for k := KindWhitePawn; k <= KindBlackKing; k++ {
		for bm := b.bitmaps[k]; bm != 0; {
			hash ^= z.piece[k][bm.PopLS1B()]
		}
	}
	hash ^= z.castle[b.castleRights]
	if b.enPassant != position.Invalid {
		hash ^= z.enPassant[b.enPassant]
	}
	if b.turn == SideBlack {
		hash ^= z.blackToMove
	}
	return hash
}

// pseudoRand is a xorshift64* generator.
type pseudoRand struct {
	s uint64
}

func (r *pseudoRand) Uint64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}
