package lattice

import (
	"errors"
	"fmt"
)

// ErrNotLoaded reports that a layout or one of its dependencies has not
// resolved yet. The spawn is retried on a later pass.
var ErrNotLoaded = errors.New("lattice: asset not loaded")

// ErrLoadFailed reports a permanent dependency failure. The owning root is
// marked failed and never retried.
var ErrLoadFailed = errors.New("lattice: asset load failed")

// RootStatus is the lifecycle state of a spawned layout root.
type RootStatus uint8

const (
	// RootPending means the layout or its dependencies are still loading.
	RootPending RootStatus = iota

	// RootSpawned means the live tree exists.
	RootSpawned

	// RootFailed means a dependency failed permanently and the root will
	// never spawn.
	RootFailed
)

func (s RootStatus) String() string {
	switch s {
	case RootPending:
		return "pending"
	case RootSpawned:
		return "spawned"
	case RootFailed:
		return "failed"
	}
	return "unknown"
}

// Root is one spawned (or spawning) instance of a layout file. The live
// tree hangs off Node; until the spawn succeeds Node has no children.
type Root struct {
	node       *Node
	layoutPath string
	targetSize Vec2 // on-screen allocation; zero means the layout's canvas size
	status     RootStatus
	active     bool
}

// Node returns the live root node. Valid in every status; before a
// successful spawn the node is an empty container.
func (r *Root) Node() *Node { return r.node }

// LayoutPath returns the asset path this root was spawned from.
func (r *Root) LayoutPath() string { return r.layoutPath }

// Status returns the root's lifecycle state.
func (r *Root) Status() RootStatus { return r.status }

// TargetSize returns the root's on-screen allocation.
func (r *Root) TargetSize() Vec2 { return r.targetSize }

// SetTargetSize changes the on-screen allocation the layout canvas is scaled
// to. A zero size means "use the layout's own canvas size".
func (r *Root) SetTargetSize(size Vec2) {
	if r.targetSize == size {
		return
	}
	r.targetSize = size
	r.node.MarkDirty()
}

// Active reports whether the root is active. Inactive roots stay spawned
// and animatable but are hidden from the renderer.
func (r *Root) Active() bool { return r.active }

// SetActive toggles the root's visibility.
func (r *Root) SetActive(active bool) {
	r.active = active
	r.node.Visible = active
}

// Root returns the spawn root owning this node's tree, or nil for trees
// assembled by hand.
func (n *Node) Root() *Root { return n.treeRoot().root }

// buildLayoutTree instantiates the full live tree for a layout under the
// given root node. Any unresolved or failed dependency anywhere in the tree
// aborts the whole build; the caller despawns whatever partial tree exists
// so no half-spawned subtree survives.
func buildLayoutTree(assets Assets, layout *Layout, root *Node) error {
	root.Size = layout.CanvasSize
	root.Frame = &CoordinateFrame{ResolutionScale: Vec2One, CanvasSize: layout.CanvasSize}
	root.animations = layout.Animations
	root.MarkDirty()
	return spawnNodes(assets, layout, layout.Nodes, root)
}

// spawnNodes creates one live node per authored node in declaration order,
// recursing into sub-layouts and groups. Attributes run in a second loop
// once every sibling subtree exists, so an attribute may safely navigate to
// child, parent, and sibling live nodes, later siblings included.
func spawnNodes(assets Assets, parentLayout *Layout, nodes []*LayoutNode, parent *Node) error {
	spawned := make([]*Node, 0, len(nodes))
	for _, ln := range nodes {
		n := newNode(ln.ID, ln.Kind())
		n.Anchor = ln.Anchor
		n.Position = ln.Position
		n.Size = ln.Size
		n.Rotation = ln.Rotation
		parent.AddChild(n)

		switch {
		case ln.Image != nil:
			img, state := assets.Image(ln.Image.Path)
			if err := loadErr(state, ln.Image.Path); err != nil {
				return err
			}
			tint := ColorWhite
			if ln.Image.Tint != nil {
				tint = *ln.Image.Tint
			}
			n.Image = &ImagePayload{Image: img, Path: ln.Image.Path, Tint: tint}

		case ln.Text != nil:
			var font Font
			if ln.Text.FontPath != "" {
				f, state := assets.Font(ln.Text.FontPath)
				if err := loadErr(state, ln.Text.FontPath); err != nil {
					return err
				}
				font = f
			}
			n.Text = &TextPayload{
				Text:     ln.Text.Text,
				Size:     ln.Text.Size,
				Color:    ln.Text.Color,
				Font:     font,
				FontPath: ln.Text.FontPath,
				Align:    ln.Text.Align,
			}

		case ln.Sublayout != nil:
			sub, state := assets.Layout(ln.Sublayout.Path)
			if err := loadErr(state, ln.Sublayout.Path); err != nil {
				return err
			}
			n.Frame = &CoordinateFrame{
				ResolutionScale: parentLayout.EffectiveResolution().DivV(sub.EffectiveResolution()),
				CanvasSize:      sub.CanvasSize,
			}
			n.animations = sub.Animations
			if err := spawnNodes(assets, sub, sub.Nodes, n); err != nil {
				return err
			}

		case ln.Group != nil:
			// A group does not rescale its coordinate space; it only
			// gathers children under one geometry.
			n.Frame = &CoordinateFrame{ResolutionScale: Vec2One, CanvasSize: ln.Size}
			if err := spawnNodes(assets, parentLayout, ln.Group, n); err != nil {
				return err
			}
		}

		spawned = append(spawned, n)
	}

	for i, ln := range nodes {
		for _, attr := range ln.Attributes {
			attr.Apply(spawned[i])
		}
	}
	return nil
}

func loadErr(state LoadState, path string) error {
	switch state {
	case LoadStateLoaded:
		return nil
	case LoadStateFailed:
		return fmt.Errorf("%w: %s", ErrLoadFailed, path)
	}
	return fmt.Errorf("%w: %s", ErrNotLoaded, path)
}
