package lattice

// Vec2 is a 2D vector used for positions, sizes, scale factors, and Bezier
// control points throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o componentwise.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o componentwise.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// MulV returns the componentwise product of v and o.
func (v Vec2) MulV(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// DivV returns the componentwise quotient of v and o.
func (v Vec2) DivV(o Vec2) Vec2 { return Vec2{v.X / o.X, v.Y / o.Y} }

// Vec2One is the unit scale factor.
var Vec2One = Vec2{1, 1}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// rectFromCorners builds a Rect from two opposite corners in any order.
func rectFromCorners(a, b Vec2) Rect {
	x0, x1 := a.X, b.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// NodeKind identifies which payload a node carries.
type NodeKind uint8

const (
	NodeKindNull NodeKind = iota
	NodeKindImage
	NodeKindText
	NodeKindSublayout
	NodeKindGroup
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindNull:
		return "Null"
	case NodeKindImage:
		return "Image"
	case NodeKindText:
		return "Text"
	case NodeKindSublayout:
		return "Sublayout"
	case NodeKindGroup:
		return "Group"
	}
	return "Unknown"
}

// isContainer reports whether this kind hosts a nested coordinate space.
// Container nodes reset to the back of the paint order so their descendants
// paint as one contiguous block.
func (k NodeKind) isContainer() bool {
	return k == NodeKindSublayout || k == NodeKindGroup
}

// Anchor selects which of the 9 named points of a node's box its position
// refers to. With AnchorTopLeft the node occupies
// [pos, pos+size]; with AnchorCenterRight it occupies
// [pos - size, pos + size/2] on each axis respectively.
type Anchor uint8

const (
	AnchorTopLeft Anchor = iota
	AnchorTopCenter
	AnchorTopRight
	AnchorCenterLeft
	AnchorCenter
	AnchorCenterRight
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight
)

// Vec returns the anchor as normalized coordinates away from AnchorCenter:
// AnchorTopLeft is (-0.5, -0.5), AnchorCenterRight is (0.5, 0).
func (a Anchor) Vec() Vec2 {
	switch a {
	case AnchorTopLeft:
		return Vec2{-0.5, -0.5}
	case AnchorTopCenter:
		return Vec2{0, -0.5}
	case AnchorTopRight:
		return Vec2{0.5, -0.5}
	case AnchorCenterLeft:
		return Vec2{-0.5, 0}
	case AnchorCenter:
		return Vec2{}
	case AnchorCenterRight:
		return Vec2{0.5, 0}
	case AnchorBottomLeft:
		return Vec2{-0.5, 0.5}
	case AnchorBottomCenter:
		return Vec2{0, 0.5}
	case AnchorBottomRight:
		return Vec2{0.5, 0.5}
	}
	return Vec2{}
}

func (a Anchor) String() string {
	switch a {
	case AnchorTopLeft:
		return "TopLeft"
	case AnchorTopCenter:
		return "TopCenter"
	case AnchorTopRight:
		return "TopRight"
	case AnchorCenterLeft:
		return "CenterLeft"
	case AnchorCenter:
		return "Center"
	case AnchorCenterRight:
		return "CenterRight"
	case AnchorBottomLeft:
		return "BottomLeft"
	case AnchorBottomCenter:
		return "BottomCenter"
	case AnchorBottomRight:
		return "BottomRight"
	}
	return "Unknown"
}

// anchorPoint converts (position, size) under anchor a into the location of
// the point identified by target on the node's box.
func anchorPoint(a Anchor, position, size Vec2, target Anchor) Vec2 {
	return position.Add(size.MulV(target.Vec().Sub(a.Vec())))
}

// AnchorOrigin returns the top-left corner of the box described by
// (anchor, position, size).
func AnchorOrigin(a Anchor, position, size Vec2) Vec2 {
	return anchorPoint(a, position, size, AnchorTopLeft)
}

// AnchorCenterOf returns the geometric center of the box described by
// (anchor, position, size). For every anchor,
// AnchorCenterOf == AnchorOrigin + size/2.
func AnchorCenterOf(a Anchor, position, size Vec2) Vec2 {
	return anchorPoint(a, position, size, AnchorCenter)
}

// TextAlign selects horizontal text alignment. Left and right alignment also
// shift the node's effective attachment point to the corresponding content
// edge rather than the geometric center; the spawner and the propagation
// engine both honor this.
type TextAlign uint8

const (
	TextAlignCenter TextAlign = iota
	TextAlignLeft
	TextAlignRight
)

// Font is the interface for text measurement. Shaping and rasterization are
// the renderer's concern; the engine only carries the handle.
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
}
