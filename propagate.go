package lattice

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// frameScale is the scale a frame-carrying node applies to its own
// transform: the ratio of allocated pixel size to the nested space's logical
// canvas, composed with any inherited resolution mismatch.
func frameScale(n *Node) Vec2 {
	if n.Frame == nil {
		return Vec2One
	}
	return n.Frame.ResolutionScale.MulV(n.Size.DivV(n.Frame.CanvasSize))
}

// computeLocalTransform computes a node's local affine matrix from its
// declared geometry and its parent's coordinate frame. The local space
// origin is the node's own center; the translation places that center
// relative to the parent frame's canvas center (the frame node's world
// transform carries the canvas-to-screen mapping).
//
// Composition order: Translate(center offset) -> Rotate -> Scale.
func computeLocalTransform(n *Node, parentFrame CoordinateFrame) [6]float64 {
	center := AnchorCenterOf(n.Anchor, n.Position, n.Size)

	// Left/right-aligned text attaches its quad at the content edge rather
	// than the geometric center. This is attachment semantics, not a
	// rendering hint.
	if n.Text != nil {
		switch n.Text.Align {
		case TextAlignLeft:
			center.X -= n.Size.X / 2
		case TextAlignRight:
			center.X += n.Size.X / 2
		}
	}

	tx := center.Sub(parentFrame.CanvasSize.Mul(0.5))
	s := frameScale(n)
	sin, cos := math.Sincos(n.Rotation * math.Pi / 180)

	return [6]float64{
		cos * s.X, sin * s.X,
		-sin * s.Y, cos * s.Y,
		tx.X, tx.Y,
	}
}

// childFrame returns the coordinate frame the node's children resolve
// against. Nodes without an explicit frame behave like a group over their
// own size.
func childFrame(n *Node) CoordinateFrame {
	if n.Frame != nil {
		return *n.Frame
	}
	return CoordinateFrame{ResolutionScale: Vec2One, CanvasSize: n.Size}
}

// updateWorldTransform recomputes a node's world transform, accumulated
// scale and rotation, and bounding box, then recurses into its children.
// Parents are always finalized before their children; siblings are
// independent of each other. parentRecomputed forces recomputation even when
// the node's own declared geometry did not change.
func updateWorldTransform(n *Node, parentWorld [6]float64, parentFrame CoordinateFrame, parentScale Vec2, parentRotation float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n, parentFrame)
		n.worldTransform = multiplyAffine(parentWorld, local)
		n.worldScale = parentScale.MulV(frameScale(n))
		n.worldRotation = parentRotation + n.Rotation
		n.bounds = computeBoundingBox(n)
		n.transformDirty = false
	}

	frame := childFrame(n)
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, frame, n.worldScale, n.worldRotation, recompute)
	}
}

// propagateRoot recomputes the whole tree under a spawned root. The root's
// own transform maps its layout's canvas onto the render-target allocation;
// this is the single place authored coordinates become screen coordinates.
func propagateRoot(root *Node, targetSize Vec2, force bool) {
	canvas := childFrame(root).CanvasSize
	if targetSize == (Vec2{}) {
		targetSize = canvas
	}
	scale := targetSize.DivV(canvas)

	recompute := root.transformDirty || force
	if recompute {
		root.worldTransform = [6]float64{
			scale.X, 0,
			0, scale.Y,
			targetSize.X / 2, targetSize.Y / 2,
		}
		root.worldScale = scale
		root.worldRotation = 0
		root.bounds = computeBoundingBox(root)
		root.transformDirty = false
	}

	frame := childFrame(root)
	for _, child := range root.children {
		updateWorldTransform(child, root.worldTransform, frame, root.worldScale, root.worldRotation, recompute)
	}
}

// --- Bounding box ---

// BoundingBox is a node's screen-space footprint: the four corners of its
// rotated box, its center, its accumulated rotation in degrees, and its
// scaled size.
type BoundingBox struct {
	TopLeft     Vec2
	TopRight    Vec2
	BottomLeft  Vec2
	BottomRight Vec2
	Center      Vec2
	Rotation    float64
	Size        Vec2
}

// computeBoundingBox derives the box from the node's final world transform
// and declared size.
func computeBoundingBox(n *Node) BoundingBox {
	hw, hh := n.Size.X/2, n.Size.Y/2
	m := n.worldTransform

	tlx, tly := transformPoint(m, -hw, -hh)
	trx, try := transformPoint(m, hw, -hh)
	blx, bly := transformPoint(m, -hw, hh)
	brx, bry := transformPoint(m, hw, hh)

	return BoundingBox{
		TopLeft:     Vec2{tlx, tly},
		TopRight:    Vec2{trx, try},
		BottomLeft:  Vec2{blx, bly},
		BottomRight: Vec2{brx, bry},
		Center:      Vec2{m[4], m[5]},
		Rotation:    n.worldRotation,
		Size:        n.Size.MulV(n.worldScale),
	}
}

// Contains reports whether the screen-space point lies inside the rotated
// box. Hit testing (an external collaborator) builds on this.
func (b BoundingBox) Contains(p Vec2) bool {
	local := p.Sub(b.Center)
	sin, cos := math.Sincos(-b.Rotation * math.Pi / 180)
	rx := local.X*cos - local.Y*sin
	ry := local.X*sin + local.Y*cos
	return math.Abs(rx) <= b.Size.X/2 && math.Abs(ry) <= b.Size.Y/2
}

// AABB returns the axis-aligned rectangle enclosing the four corners.
func (b BoundingBox) AABB() Rect {
	min := Vec2{
		X: math.Min(math.Min(b.TopLeft.X, b.TopRight.X), math.Min(b.BottomLeft.X, b.BottomRight.X)),
		Y: math.Min(math.Min(b.TopLeft.Y, b.TopRight.Y), math.Min(b.BottomLeft.Y, b.BottomRight.Y)),
	}
	max := Vec2{
		X: math.Max(math.Max(b.TopLeft.X, b.TopRight.X), math.Max(b.BottomLeft.X, b.BottomRight.X)),
		Y: math.Max(math.Max(b.TopLeft.Y, b.TopRight.Y), math.Max(b.BottomLeft.Y, b.BottomRight.Y)),
	}
	return rectFromCorners(min, max)
}

// --- Z order ---

// refreshZIndex re-walks an entire tree assigning paint order. The authored
// document order of siblings is the paint order: visual nodes get an
// incrementing counter in depth-first order, while container nodes (layout
// roots, sub-layouts, groups) reset to 0 so their descendants paint as a
// contiguous block relative to siblings at the same level. Deliberately
// non-incremental: any dirty flag in the tree re-walks the whole tree.
func refreshZIndex(root *Node) {
	z := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind.isContainer() {
			n.zIndex = 0
		} else {
			n.zIndex = z
			z++
		}
		n.zCalculated = true
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(root)
	root.zDirty = false
}
