package board

import "github.com/eremzeit/skeleton/position"

type RayDirection uint8

const (
	RayHorizontal RayDirection = iota
	RayVertical
	RayDiagonal
	RayAntiDiagonal
)

var (
	rayDelta = [4][2]position.Pos{
		RayHorizontal:   {1, 0},
		RayVertical:     {0, 1},
		RayDiagonal:     {1, 1},
		RayAntiDiagonal: {1, -1},
	}

	raysBishop = []RayDirection{RayDiagonal, RayAntiDiagonal}
	raysRook   = []RayDirection{RayHorizontal, RayVertical}
	raysQueen  = []RayDirection{RayHorizontal, RayVertical, RayDiagonal, RayAntiDiagonal}

	// halfRays[pos][2*d] and halfRays[pos][2*d+1] are the two halves of
	// the ray through pos along d, each ordered outward from pos.
	halfRays [TotalCells][8][]position.Pos
)

func init() {
	for pos := position.Pos(0); pos < TotalCells; pos++ {
		for d := RayHorizontal; d <= RayAntiDiagonal; d++ {
			backward, forward := NewAttackingRay(pos, d).Split()
			halfRays[pos][2*d] = backward
			halfRays[pos][2*d+1] = forward
		}
	}
}

// AttackingRay is the full line of squares through an origin along one
// direction, edge to edge, with the origin's index inside Squares.
type AttackingRay struct {
	Squares []position.Pos
	Origin  int
}

func NewAttackingRay(pos position.Pos, d RayDirection) AttackingRay {
	dx, dy := rayDelta[d][0], rayDelta[d][1]
	start := pos
	for prev := start.Offset(-dx, -dy); prev != position.Invalid; prev = start.Offset(-dx, -dy) {
		start = prev
	}
	ray := AttackingRay{}
	for sq := start; sq != position.Invalid; sq = sq.Offset(dx, dy) {
		if sq == pos {
			ray.Origin = len(ray.Squares)
		}
		ray.Squares = append(ray.Squares, sq)
	}
	return ray
}

// Split returns both half-rays, origin excluded, each ordered outward.
func (r AttackingRay) Split() ([]position.Pos, []position.Pos) {
	backward := make([]position.Pos, 0, r.Origin)
	for i := r.Origin - 1; i >= 0; i-- {
		backward = append(backward, r.Squares[i])
	}
	forward := append([]position.Pos(nil), r.Squares[r.Origin+1:]...)
	return backward, forward
}
