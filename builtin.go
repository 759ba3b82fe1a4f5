package lattice

import "math"

// Built-in animation targets and attributes. These cover the common cases so
// a host gets useful animations without registering anything; they also
// serve as reference implementations for user-defined targets.

// PositionAnimation animates a node's declared position.
type PositionAnimation struct {
	Position Vec2 `json:"position"`
}

// Interpolate implements AnimationTarget.
func (p *PositionAnimation) Interpolate(prev AnimationTarget, node *Node, progress float64) {
	pos := p.Position
	if from, ok := prev.(*PositionAnimation); ok {
		pos = from.Position.Mul(1 - progress).Add(p.Position.Mul(progress))
	}
	node.SetPosition(pos)
}

// SizeAnimation animates a node's declared size.
type SizeAnimation struct {
	Size Vec2 `json:"size"`
}

// Interpolate implements AnimationTarget.
func (s *SizeAnimation) Interpolate(prev AnimationTarget, node *Node, progress float64) {
	size := s.Size
	if from, ok := prev.(*SizeAnimation); ok {
		size = from.Size.Mul(1 - progress).Add(s.Size.Mul(progress))
	}
	node.SetSize(size)
}

// RotationAnimation animates a node's rotation, in degrees.
type RotationAnimation struct {
	Degrees float64 `json:"degrees"`
}

// Interpolate implements AnimationTarget.
func (r *RotationAnimation) Interpolate(prev AnimationTarget, node *Node, progress float64) {
	deg := r.Degrees
	if from, ok := prev.(*RotationAnimation); ok {
		deg = from.Degrees*(1-progress) + r.Degrees*progress
	}
	node.SetRotation(deg)
}

// ColorAnimation animates an image node's tint or a text node's fill color.
// Channels are blended in linear space with a perceived-brightness
// correction so mid-blend colors do not dip dark the way a naive
// channel-wise lerp does.
type ColorAnimation struct {
	Color Color `json:"color"`
}

const brightnessExp = 0.43

func perceivedBrightness(c Color) float64 {
	return math.Pow(c.R+c.G+c.B+c.A, brightnessExp)
}

// blendColors mixes a toward b by t with brightness preservation.
func blendColors(a, b Color, t float64) Color {
	intensity := math.Pow(perceivedBrightness(a)*(1-t)+perceivedBrightness(b)*t, 1/brightnessExp)
	mixed := Color{
		R: a.R*(1-t) + b.R*t,
		G: a.G*(1-t) + b.G*t,
		B: a.B*(1-t) + b.B*t,
		A: a.A*(1-t) + b.A*t,
	}
	sum := mixed.R + mixed.G + mixed.B + mixed.A
	if sum == 0 {
		return mixed
	}
	f := intensity / sum
	return Color{R: mixed.R * f, G: mixed.G * f, B: mixed.B * f, A: mixed.A * f}
}

// Interpolate implements AnimationTarget.
func (c *ColorAnimation) Interpolate(prev AnimationTarget, node *Node, progress float64) {
	color := c.Color
	if from, ok := prev.(*ColorAnimation); ok {
		color = blendColors(from.Color, c.Color, progress)
	}
	switch {
	case node.Image != nil:
		node.SetTint(color)
	case node.Text != nil:
		node.SetTextColor(color)
	}
}

// TintAttribute sets an image node's tint at spawn time.
type TintAttribute struct {
	Color Color `json:"color"`
}

// Apply implements Attribute.
func (t *TintAttribute) Apply(node *Node) { node.SetTint(t.Color) }

// Revert implements AttributeReverter by restoring the untinted default.
func (t *TintAttribute) Revert(node *Node) { node.SetTint(ColorWhite) }

// HiddenAttribute spawns a node invisible; useful for elements revealed
// later by game logic or an animation.
type HiddenAttribute struct{}

// Apply implements Attribute.
func (HiddenAttribute) Apply(node *Node) { node.Visible = false }

// Revert implements AttributeReverter.
func (HiddenAttribute) Revert(node *Node) { node.Visible = true }

func registerBuiltins(r *Registry) {
	RegisterAnimationTarget[PositionAnimation](r, "Position")
	RegisterAnimationTarget[SizeAnimation](r, "Size")
	RegisterAnimationTarget[RotationAnimation](r, "Rotation")
	RegisterAnimationTarget[ColorAnimation](r, "Color")
	RegisterAttribute[TintAttribute](r, "Tint")
	RegisterAttribute[HiddenAttribute](r, "Hidden")
	RegisterAttribute[InputDetectionAttribute](r, "InputDetection")
}
