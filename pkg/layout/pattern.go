package layout

// Pattern is a decorative background tiling.
type Pattern int

const (
	NoPattern Pattern = iota
	Dots
	Grid
	Diagonal
)

// ParsePattern maps a parameter value to a Pattern. Anything unrecognized,
// including the empty string, is NoPattern.
func ParsePattern(s string) Pattern {
	switch s {
	case "dots":
		return Dots
	case "grid":
		return Grid
	case "diagonal":
		return Diagonal
	default:
		return NoPattern
	}
}

func (p Pattern) String() string {
	switch p {
	case Dots:
		return "dots"
	case Grid:
		return "grid"
	case Diagonal:
		return "diagonal"
	default:
		return "none"
	}
}

// Tile geometry in document units.
const (
	DotCell      = 30.0
	DotRadius    = 1.5
	GridCell     = 60.0
	GridLine     = 1.0
	StripeGap    = 20.0
	StripeWidth  = 1.0
	StripePeriod = StripeGap + StripeWidth
)
