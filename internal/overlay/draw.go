package overlay

// Kind identifies a drawing primitive.
type Kind string

const (
	// KindDisc is a filled ellipse inscribed in the box (X, Y, W, H).
	KindDisc Kind = "disc"
	// KindRing is a circle outline centered on (X, Y) with Radius.
	KindRing Kind = "ring"
	// KindRect is a filled rectangle (X, Y, W, H).
	KindRect Kind = "rect"
	// KindRectOutline is a rectangle outline (X, Y, W, H).
	KindRectOutline Kind = "rect_outline"
	// KindRotatedGroup draws Children rotated by Angle degrees about (X, Y).
	KindRotatedGroup Kind = "rotated_group"
)

// Color is a straight-alpha RGBA color with components in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Cyan returns the HUD color with the given alpha.
func Cyan(alpha float64) Color {
	return Color{R: 0, G: 1, B: 1, A: alpha}
}

// Primitive is one entry of a DrawList. Coordinates are surface pixels with
// the origin at the bottom-left corner and y growing upward.
type Primitive struct {
	Kind      Kind        `json:"kind"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	W         float64     `json:"w,omitempty"`
	H         float64     `json:"h,omitempty"`
	Radius    float64     `json:"radius,omitempty"`
	LineWidth float64     `json:"line_width,omitempty"`
	Angle     float64     `json:"angle,omitempty"`
	Color     Color       `json:"color"`
	Ref       string      `json:"ref,omitempty"`
	Children  []Primitive `json:"children,omitempty"`
}

// DrawList is an ordered list of primitives, back to front.
type DrawList []Primitive

// Count returns the number of primitives of kind k, including group children.
func (d DrawList) Count(k Kind) int {
	n := 0
	for _, p := range d {
		if p.Kind == k {
			n++
		}
		if len(p.Children) > 0 {
			n += DrawList(p.Children).Count(k)
		}
	}
	return n
}

func disc(cx, cy, size float64, c Color) Primitive {
	return Primitive{Kind: KindDisc, X: cx - size/2, Y: cy - size/2, W: size, H: size, Color: c}
}

func ring(cx, cy, radius, width float64, c Color) Primitive {
	return Primitive{Kind: KindRing, X: cx, Y: cy, Radius: radius, LineWidth: width, Color: c}
}
