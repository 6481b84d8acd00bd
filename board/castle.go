package board

import "github.com/eremzeit/skeleton/position"

type CastleDirection uint8

const (
	CastleDirectionUnknown CastleDirection = iota
	CastleDirectionWhiteRight
	CastleDirectionWhiteLeft
	CastleDirectionBlackRight
	CastleDirectionBlackLeft
)

// CastleDirections lists every direction in generation order.
var CastleDirections = [4]CastleDirection{
	CastleDirectionWhiteRight,
	CastleDirectionWhiteLeft,
	CastleDirectionBlackRight,
	CastleDirectionBlackLeft,
}

func (d CastleDirection) String() string {
	switch d {
	case CastleDirectionWhiteRight:
		return "White 0-0"
	case CastleDirectionWhiteLeft:
		return "White 0-0-0"
	case CastleDirectionBlackRight:
		return "Black 0-0"
	case CastleDirectionBlackLeft:
		return "Black 0-0-0"
	default:
		return ""
	}
}

func (d CastleDirection) Side() Side {
	switch d {
	case CastleDirectionWhiteRight, CastleDirectionWhiteLeft:
		return SideWhite
	case CastleDirectionBlackRight, CastleDirectionBlackLeft:
		return SideBlack
	default:
		return SideUnknown
	}
}

func (d CastleDirection) IsRight() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionBlackRight
}

// castleGeometry holds the fixed squares involved in one castling direction.
type castleGeometry struct {
	king, kingTo position.Pos
	rook, rookTo position.Pos

	// between must be empty, safe must not be attacked (king origin included).
	between []position.Pos
	safe    []position.Pos
}

var castleGeometries = [5]castleGeometry{
	CastleDirectionWhiteRight: {
		king: position.E1, kingTo: position.G1,
		rook: position.H1, rookTo: position.F1,
		between: []position.Pos{position.F1, position.G1},
		safe:    []position.Pos{position.E1, position.F1, position.G1},
	},
	CastleDirectionWhiteLeft: {
		king: position.E1, kingTo: position.C1,
		rook: position.A1, rookTo: position.D1,
		between: []position.Pos{position.D1, position.C1, position.B1},
		safe:    []position.Pos{position.E1, position.D1, position.C1},
	},
	CastleDirectionBlackRight: {
		king: position.E8, kingTo: position.G8,
		rook: position.H8, rookTo: position.F8,
		between: []position.Pos{position.F8, position.G8},
		safe:    []position.Pos{position.E8, position.F8, position.G8},
	},
	CastleDirectionBlackLeft: {
		king: position.E8, kingTo: position.C8,
		rook: position.A8, rookTo: position.D8,
		between: []position.Pos{position.D8, position.C8, position.B8},
		safe:    []position.Pos{position.E8, position.D8, position.C8},
	},
}

// castleDirectionFor returns the direction a side castles towards.
func castleDirectionFor(s Side, right bool) CastleDirection {
	switch {
	case s == SideWhite && right:
		return CastleDirectionWhiteRight
	case s == SideWhite:
		return CastleDirectionWhiteLeft
	case s == SideBlack && right:
		return CastleDirectionBlackRight
	case s == SideBlack:
		return CastleDirectionBlackLeft
	default:
		return CastleDirectionUnknown
	}
}

// CastleRights packs the four independent castling flags; every one of the
// sixteen combinations is a distinct value.
type CastleRights uint8

const (
	CastleRightsNone CastleRights = 0
	CastleRightsAll  CastleRights = 0b1111
)

var maskCastleRights = [5]CastleRights{
	CastleDirectionWhiteLeft:  0b0001,
	CastleDirectionWhiteRight: 0b0010,
	CastleDirectionBlackLeft:  0b0100,
	CastleDirectionBlackRight: 0b1000,
}

// castleRightsKeep[pos] is and-ed into the rights whenever a move leaves or
// lands on pos.
var castleRightsKeep [TotalCells]CastleRights

func init() {
	for pos := range castleRightsKeep {
		castleRightsKeep[pos] = CastleRightsAll
	}
	for _, d := range CastleDirections {
		castleRightsKeep[castleGeometries[d].rook] &^= maskCastleRights[d]
	}
}

func (c *CastleRights) Set(d CastleDirection, allow bool) {
	if allow {
		*c |= maskCastleRights[d]
	} else {
		*c &^= maskCastleRights[d]
	}
}

func (c CastleRights) IsAllowed(d CastleDirection) bool {
	return c&maskCastleRights[d] != 0
}

func (c CastleRights) IsSideAllowed(s Side) bool {
	return c.IsAllowed(castleDirectionFor(s, true)) || c.IsAllowed(castleDirectionFor(s, false))
}

// Revoke clears both rights of s.
func (c *CastleRights) Revoke(s Side) {
	c.Set(castleDirectionFor(s, true), false)
	c.Set(castleDirectionFor(s, false), false)
}

func (c CastleRights) String() string {
	if c == CastleRightsNone {
		return "-"
	}
	var sym []byte
	if c.IsAllowed(CastleDirectionWhiteRight) {
		sym = append(sym, 'K')
	}
	if c.IsAllowed(CastleDirectionWhiteLeft) {
		sym = append(sym, 'Q')
	}
	if c.IsAllowed(CastleDirectionBlackRight) {
		sym = append(sym, 'k')
	}
	if c.IsAllowed(CastleDirectionBlackLeft) {
		sym = append(sym, 'q')
	}
	return string(sym)
}
