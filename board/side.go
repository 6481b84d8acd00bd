package board

type Side uint8

const (
	SideUnknown Side = iota
	SideWhite
	SideBlack
)

func NewSideFromSymbol(sym string) Side {
	switch sym {
	case "w":
		return SideWhite
	case "b":
		return SideBlack
	default:
		return SideUnknown
	}
}

func (s Side) String() string {
	switch s {
	case SideWhite:
		return "White"
	case SideBlack:
		return "Black"
	default:
		return ""
	}
}

// Symbol returns the side-to-move field used by FEN.
func (s Side) Symbol() string {
	switch s {
	case SideWhite:
		return "w"
	case SideBlack:
		return "b"
	default:
		return "-"
	}
}

func (s Side) Opposite() Side {
	switch s {
	case SideWhite:
		return SideBlack
	case SideBlack:
		return SideWhite
	default:
		return SideUnknown
	}
}
