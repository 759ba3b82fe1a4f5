package lattice

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Node simultaneously. It is
// the code-driven counterpart to keyframe animations: create one via the
// convenience constructors (TweenPosition, TweenSize, TweenTint,
// TweenRotation) and call Update(dt) each frame. The group auto-applies
// values and marks the node dirty. If the target node is disposed, the group
// stops immediately.
//
// There is no global tween manager; users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target
// fields, and marks the node dirty. If the target node has been disposed,
// Done is set to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// TweenPosition creates a TweenGroup that animates the node's declared
// position to the given point over the specified duration using the easing
// function.
func TweenPosition(node *Node, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(node.Position.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(node.Position.Y), float32(to.Y), duration, fn)
	g.fields[0] = &node.Position.X
	g.fields[1] = &node.Position.Y
	return g
}

// TweenSize creates a TweenGroup that animates the node's declared size to
// the given size over the specified duration using the easing function.
func TweenSize(node *Node, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(node.Size.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(node.Size.Y), float32(to.Y), duration, fn)
	g.fields[0] = &node.Size.X
	g.fields[1] = &node.Size.Y
	return g
}

// TweenTint creates a TweenGroup that animates all four components of an
// image node's tint to the target color over the specified duration.
// Returns nil for nodes without an image payload.
func TweenTint(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	if node.Image == nil {
		return nil
	}
	g := &TweenGroup{count: 4, target: node}
	g.tweens[0] = gween.New(float32(node.Image.Tint.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(node.Image.Tint.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(node.Image.Tint.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(node.Image.Tint.A), float32(to.A), duration, fn)
	g.fields[0] = &node.Image.Tint.R
	g.fields[1] = &node.Image.Tint.G
	g.fields[2] = &node.Image.Tint.B
	g.fields[3] = &node.Image.Tint.A
	return g
}

// TweenRotation creates a TweenGroup that animates the node's rotation to
// the target angle in degrees over the specified duration using the easing
// function.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Rotation), float32(to), duration, fn)
	g.fields[0] = &node.Rotation
	return g
}
