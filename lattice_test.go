package lattice

import "testing"

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	assertNear(t, name+".X", got.X, want.X)
	assertNear(t, name+".Y", got.Y, want.Y)
}

var allAnchors = []Anchor{
	AnchorTopLeft, AnchorTopCenter, AnchorTopRight,
	AnchorCenterLeft, AnchorCenter, AnchorCenterRight,
	AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight,
}

func TestAnchorCenterIsOriginPlusHalfSize(t *testing.T) {
	// The center must be anchor-invariant relative to the origin.
	position := Vec2{37, -12}
	size := Vec2{100, 40}
	for _, a := range allAnchors {
		origin := AnchorOrigin(a, position, size)
		center := AnchorCenterOf(a, position, size)
		assertVec(t, a.String(), center, origin.Add(size.Mul(0.5)))
	}
}

func TestAnchorCenterPlacement(t *testing.T) {
	size := Vec2{100, 40}

	// A center-anchored node's position is its center.
	assertVec(t, "center", AnchorCenterOf(AnchorCenter, Vec2{10, 20}, size), Vec2{10, 20})

	// A top-left-anchored node's center is half a size away.
	assertVec(t, "topleft", AnchorCenterOf(AnchorTopLeft, Vec2{0, 0}, size), Vec2{50, 20})

	// A bottom-right-anchored node's center is half a size the other way.
	assertVec(t, "bottomright", AnchorCenterOf(AnchorBottomRight, Vec2{0, 0}, size), Vec2{-50, -20})
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	if !r.Contains(10, 10) {
		t.Error("edge point should be inside")
	}
	if !r.Contains(20, 15) {
		t.Error("interior point should be inside")
	}
	if r.Contains(31, 15) {
		t.Error("point past right edge should be outside")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Intersects(Rect{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(Rect{X: 20, Y: 20, Width: 5, Height: 5}) {
		t.Error("disjoint rects should not intersect")
	}
}

func TestNodeKindContainer(t *testing.T) {
	for _, k := range []NodeKind{NodeKindSublayout, NodeKindGroup} {
		if !k.isContainer() {
			t.Errorf("%v should be a container", k)
		}
	}
	for _, k := range []NodeKind{NodeKindNull, NodeKindImage, NodeKindText} {
		if k.isContainer() {
			t.Errorf("%v should not be a container", k)
		}
	}
}
