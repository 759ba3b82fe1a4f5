package lattice

// Curve remaps normalized animation progress through an easing function.
// All variants pass exactly through (0,0) and (1,1).
//
// Map performs no clamping: feeding a value outside [0, 1] to a Bezier curve
// deliberately overshoots, which is occasionally useful for bounce-style
// effects. Callers that need a clamped result clamp before calling.
type Curve struct {
	kind   curveKind
	c1, c2 Vec2
}

type curveKind uint8

const (
	curveLinear curveKind = iota
	curveQuadratic
	curveCubic
)

// Linear returns the identity curve.
func Linear() Curve { return Curve{} }

// QuadraticBezier returns a quadratic Bezier curve with endpoints fixed at
// (0,0) and (1,1) and the given control point.
func QuadraticBezier(control Vec2) Curve {
	return Curve{kind: curveQuadratic, c1: control}
}

// CubicBezier returns a cubic Bezier curve with endpoints fixed at (0,0) and
// (1,1) and the given control points.
func CubicBezier(c1, c2 Vec2) Curve {
	return Curve{kind: curveCubic, c1: c1, c2: c2}
}

// Map evaluates the curve at parameter t and returns the Y component of the
// resulting point.
func (c Curve) Map(t float64) float64 {
	switch c.kind {
	case curveQuadratic:
		u := 1 - t
		return 2*u*t*c.c1.Y + t*t
	case curveCubic:
		u := 1 - t
		return 3*u*u*t*c.c1.Y + 3*u*t*t*c.c2.Y + t*t*t
	default:
		return t
	}
}

// clamp01 restricts t to [0, 1].
func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
