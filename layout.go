package lattice

import (
	"fmt"
	"reflect"
	"slices"
)

// Layout is an authored collection of nodes with an associated coordinate
// system. It is produced by an external asset loader and is read-only for
// the rest of its lifetime; any number of live trees may be spawned from the
// same Layout.
type Layout struct {
	// CanvasSize is the size of the layout. A root layout's coordinate
	// system is scaled to its render-target allocation; a sub-layout's is
	// scaled into the coordinate system of the layout that embeds it.
	CanvasSize Vec2

	// Resolution is the coordinate space nodes are authored in. The zero
	// value means "same as CanvasSize".
	Resolution Vec2

	// Nodes are the root nodes of the layout.
	Nodes []*LayoutNode

	// Animations are the named animations of this layout, keyed by
	// animation name and then by slash-separated node path relative to the
	// layout root.
	Animations map[string]Animation
}

// EffectiveResolution returns Resolution, falling back to CanvasSize when no
// explicit resolution was authored.
func (l *Layout) EffectiveResolution() Vec2 {
	if l.Resolution == (Vec2{}) {
		return l.CanvasSize
	}
	return l.Resolution
}

// VisitDependencies reports every asset path this layout depends on,
// including image, font, and sub-layout references, attribute dependencies,
// and animation target dependencies.
func (l *Layout) VisitDependencies(visit func(path string)) {
	for _, node := range l.Nodes {
		node.visitDependencies(visit)
	}
	for _, anim := range l.Animations {
		for _, kfs := range anim {
			for _, channel := range kfs.Channels {
				for _, kf := range channel.Keyframes {
					kf.Target.visitDependencies(visit)
				}
			}
		}
	}
}

// InitializeDependencies runs the optional dependency-initialization hooks
// of every attribute and animation target in the layout. The external asset
// loader calls this once after deserialization.
func (l *Layout) InitializeDependencies(ctx *LoadContext) {
	var initNode func(node *LayoutNode)
	initNode = func(node *LayoutNode) {
		for _, attr := range node.Attributes {
			attr.initializeDependencies(ctx)
		}
		for _, child := range node.Group {
			initNode(child)
		}
	}
	for _, node := range l.Nodes {
		initNode(node)
	}
	for _, anim := range l.Animations {
		for _, kfs := range anim {
			for _, channel := range kfs.Channels {
				for _, kf := range channel.Keyframes {
					kf.Target.initializeDependencies(ctx)
				}
			}
		}
	}
}

// Validate checks the sibling-uniqueness invariant: node ids must be unique
// among siblings at every tree level, or path lookups become ambiguous. Ids
// may repeat across levels for composability.
func (l *Layout) Validate() error {
	return validateSiblings(l.Nodes, "")
}

func validateSiblings(nodes []*LayoutNode, parentPath string) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("duplicate sibling id %q under %q", node.ID, parentPath)
		}
		seen[node.ID] = struct{}{}
		if len(node.Group) > 0 {
			if err := validateSiblings(node.Group, joinPath(parentPath, node.ID)); err != nil {
				return err
			}
		}
	}
	return nil
}

// LayoutNode is one authored node. Immutable once loaded.
type LayoutNode struct {
	// ID is unique among siblings, not globally. Live nodes derive a
	// path-qualified identifier by joining ancestor ids with '/'.
	ID string

	// Position is relative to the parent, in the layout's resolution.
	Position Vec2

	// Size is in the layout's resolution.
	Size Vec2

	// Rotation is in degrees; the pivot is always the node's center.
	Rotation float64

	// Anchor selects which point of the node's box Position refers to.
	Anchor Anchor

	// Exactly one of the following is set for non-Null nodes.
	Image     *ImageData
	Text      *TextData
	Sublayout *SublayoutData
	Group     []*LayoutNode

	// Attributes are user-space opaque attributes applied at spawn time.
	Attributes []*DynamicAttribute
}

// Kind derives the node kind from which payload is present.
func (n *LayoutNode) Kind() NodeKind {
	switch {
	case n.Image != nil:
		return NodeKindImage
	case n.Text != nil:
		return NodeKindText
	case n.Sublayout != nil:
		return NodeKindSublayout
	case n.Group != nil:
		return NodeKindGroup
	}
	return NodeKindNull
}

func (n *LayoutNode) visitDependencies(visit func(path string)) {
	switch {
	case n.Image != nil:
		if n.Image.Path != "" {
			visit(n.Image.Path)
		}
	case n.Text != nil:
		if n.Text.FontPath != "" {
			visit(n.Text.FontPath)
		}
	case n.Sublayout != nil:
		visit(n.Sublayout.Path)
	case n.Group != nil:
		for _, child := range n.Group {
			child.visitDependencies(visit)
		}
	}
	for _, attr := range n.Attributes {
		attr.visitDependencies(visit)
	}
}

// ImageData is the authored payload of an image node. Size on the owning
// node is used as an explicit visual quad size rather than the image's
// native size.
type ImageData struct {
	Path string
	Tint *Color
}

// TextData is the authored payload of a text node. The owning node's size is
// treated as the text's bounding area.
type TextData struct {
	Text     string
	Size     float64
	Color    Color
	FontPath string
	Align    TextAlign
}

// SublayoutData is the authored payload of a node that embeds another
// layout file.
type SublayoutData struct {
	Path string
}

// Animation maps slash-separated node paths (relative to the layout root) to
// the flattened keyframe channels animating that node.
type Animation map[string]*Keyframes

// RawKeyframe is the authored form of one keyframe: a timestamp with any
// number of named targets. Flatten regroups these into per-type channels.
type RawKeyframe struct {
	TimestampMS float64
	TimeScale   Curve
	Targets     []*DynamicAnimationTarget
}

// Keyframe is one entry of a channel.
type Keyframe struct {
	TimestampMS float64
	TimeScale   Curve
	Target      *DynamicAnimationTarget
}

// Channel is the time-sorted keyframe list for one concrete animatable-value
// type within one animation.
type Channel struct {
	Type      reflect.Type
	Keyframes []Keyframe
}

// Keyframes is the flattened, playback-ready form of one node's animation.
type Keyframes struct {
	Channels  []Channel
	maxLength float64
}

// MaxLength returns the timestamp of the latest keyframe across all
// channels, in milliseconds.
func (k *Keyframes) MaxLength() float64 { return k.maxLength }

// Flatten groups an authored keyframe list into per-target-type channels,
// each sorted ascending by timestamp, so that at playback time each
// independently-typed property can be advanced without scanning entries of
// other types.
func Flatten(raw []RawKeyframe) *Keyframes {
	byType := make(map[reflect.Type][]Keyframe)
	for _, rk := range raw {
		for _, target := range rk.Targets {
			byType[target.TargetType()] = append(byType[target.TargetType()], Keyframe{
				TimestampMS: rk.TimestampMS,
				TimeScale:   rk.TimeScale,
				Target:      target,
			})
		}
	}

	kfs := &Keyframes{Channels: make([]Channel, 0, len(byType))}
	for typ, list := range byType {
		slices.SortStableFunc(list, func(a, b Keyframe) int {
			switch {
			case a.TimestampMS < b.TimestampMS:
				return -1
			case a.TimestampMS > b.TimestampMS:
				return 1
			}
			return 0
		})
		kfs.Channels = append(kfs.Channels, Channel{Type: typ, Keyframes: list})
		if last := list[len(list)-1].TimestampMS; last > kfs.maxLength {
			kfs.maxLength = last
		}
	}

	// Map iteration order is random; keep channel order deterministic.
	slices.SortFunc(kfs.Channels, func(a, b Channel) int {
		as, bs := a.Type.String(), b.Type.String()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	})

	return kfs
}

// joinPath joins layout node path segments with '/'. An empty parent yields
// the bare id.
func joinPath(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "/" + id
}
