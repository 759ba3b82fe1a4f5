package lattice

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// nodeIDCounter is a plain counter; no atomic since lattice is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// CoordinateFrame describes how a nested coordinate space maps into its
// parent's pixel space. Present on layout roots, sub-layout nodes, and group
// nodes; absent on leaf nodes.
type CoordinateFrame struct {
	// ResolutionScale converts this frame's resolution to the parent
	// layout's scale: parent resolution / own resolution. (1,1) for roots
	// and groups.
	ResolutionScale Vec2

	// CanvasSize is the logical canvas of the nested space: the layout's
	// canvas size for roots and sub-layouts, the node's authored size for
	// groups (a group relabels a region, it does not rescale it).
	CanvasSize Vec2
}

// ImagePayload is the live visual state of an image node.
type ImagePayload struct {
	Image *ebiten.Image
	Path  string
	Tint  Color
}

// TextPayload is the live visual state of a text node.
type TextPayload struct {
	Text     string
	Size     float64
	Color    Color
	Font     Font
	FontPath string
	Align    TextAlign
}

// Node is one live element of a spawned scene graph, mirroring one authored
// LayoutNode. A single flat struct is used for all node kinds to avoid
// interface dispatch on the hot path.
//
// The declared geometry fields (Anchor, Position, Size, Rotation) are the
// authoritative input to coordinate propagation. Mutate them through the
// setters, or directly followed by MarkDirty.
type Node struct {
	// Identity
	ID   uint32
	Name string // authored layout node id (one path segment)
	Kind NodeKind

	// Hierarchy
	Parent   *Node
	children []*Node

	// Declared geometry
	Anchor   Anchor
	Position Vec2
	Size     Vec2
	Rotation float64 // degrees, pivot at the node's center

	// Frame is set on layout roots, sub-layout nodes, and group nodes.
	Frame *CoordinateFrame

	// Visual payload (at most one set, matching Kind)
	Image *ImagePayload
	Text  *TextPayload

	// Visibility (renderer hint; inactive roots are hidden)
	Visible bool

	// Metadata
	UserData any
	EntityID uint32

	// Animations (layout roots and sub-layout nodes only)
	animations map[string]Animation
	playback   map[string]*playbackState

	// Pointer detection, nil unless enabled
	input *nodeInput

	// Computed (updated during the propagation phase)
	worldTransform [6]float64
	worldScale     Vec2
	worldRotation  float64 // degrees, accumulated down the ancestor chain
	bounds         BoundingBox
	zIndex         int
	zCalculated    bool
	transformDirty bool
	zDirty         bool // set on tree roots when any descendant invalidated z

	root     *Root // owning spawn root, set on the root node only
	disposed bool
}

func newNode(name string, kind NodeKind) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		Kind:           kind,
		Visible:        true,
		worldScale:     Vec2One,
		transformDirty: true,
	}
}

// --- Tree access ---

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller. Document order of children is the paint order.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node { return n.children[index] }

// Child returns the direct child with the given authored id, or nil. A miss
// is logged as a warning and is recoverable: layout files are edited by hand
// and a typo must not take the application down.
func (n *Node) Child(name string) *Node {
	for _, child := range n.children {
		if child.Name == name {
			return child
		}
	}
	logger.Warn("lattice: no child with id", "parent", n.Path(), "id", name)
	return nil
}

// Sibling returns the sibling with the given authored id, or nil.
func (n *Node) Sibling(name string) *Node {
	if n.Parent == nil {
		logger.Warn("lattice: sibling lookup on a root node", "id", name)
		return nil
	}
	return n.Parent.Child(name)
}

// Find resolves a slash-separated path of authored ids relative to this
// node. An empty path returns the node itself. Returns nil (after logging)
// when any segment is missing.
func (n *Node) Find(path string) *Node {
	if path == "" {
		return n
	}
	current := n
	for _, segment := range strings.Split(path, "/") {
		next := current.Child(segment)
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// Path returns the path-qualified identifier of this node: the authored ids
// of its ancestors joined with '/'. Spawn roots have an empty name and
// contribute nothing.
func (n *Node) Path() string {
	if n.Parent == nil {
		return n.Name
	}
	return joinPath(n.Parent.Path(), n.Name)
}

// LayoutRoot returns the nearest ancestor (or self) that owns animations:
// the spawn root or an embedded sub-layout node. Returns nil for detached
// nodes.
func (n *Node) LayoutRoot() *Node {
	for p := n; p != nil; p = p.Parent {
		if p.animations != nil {
			return p
		}
	}
	return nil
}

// treeRoot returns the topmost ancestor.
func (n *Node) treeRoot() *Node {
	p := n
	for p.Parent != nil {
		p = p.Parent
	}
	return p
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("lattice: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("lattice: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	n.InvalidateZ()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("lattice: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
	n.InvalidateZ()
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// --- Declared geometry ---

// SetPosition sets the node's declared position and marks it dirty.
func (n *Node) SetPosition(p Vec2) {
	n.Position = p
	n.MarkDirty()
}

// SetSize sets the node's declared size and marks it dirty.
func (n *Node) SetSize(s Vec2) {
	n.Size = s
	n.MarkDirty()
}

// SetRotation sets the node's rotation in degrees and marks it dirty.
func (n *Node) SetRotation(deg float64) {
	n.Rotation = deg
	n.MarkDirty()
}

// SetAnchor sets the node's anchor and marks it dirty.
func (n *Node) SetAnchor(a Anchor) {
	n.Anchor = a
	n.MarkDirty()
}

// MarkDirty marks the node's transform as dirty, forcing recomputation on
// the next pass. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Visual payload ---

// SetTint sets the tint of an image node. No-op on other kinds.
func (n *Node) SetTint(c Color) {
	if n.Image != nil {
		n.Image.Tint = c
	}
}

// SetText replaces the content of a text node. No-op on other kinds.
func (n *Node) SetText(text string) {
	if n.Text != nil {
		n.Text.Text = text
	}
}

// SetTextColor sets the fill color of a text node. No-op on other kinds.
func (n *Node) SetTextColor(c Color) {
	if n.Text != nil {
		n.Text.Color = c
	}
}

// SetTextAlign sets the alignment of a text node and marks it dirty, since
// left/right alignment shifts the node's effective attachment point.
func (n *Node) SetTextAlign(align TextAlign) {
	if n.Text != nil {
		n.Text.Align = align
		n.MarkDirty()
	}
}

// --- Computed values ---

// WorldTransform returns the node's world affine matrix
// [a, b, c, d, tx, ty] as of the last propagation pass. It maps points
// relative to the node's center into screen space.
func (n *Node) WorldTransform() [6]float64 { return n.worldTransform }

// Bounds returns the node's screen-space bounding box as of the last
// propagation pass.
func (n *Node) Bounds() BoundingBox { return n.bounds }

// ZIndex returns the node's paint order and whether it has been calculated
// since it was last invalidated.
func (n *Node) ZIndex() (int, bool) { return n.zIndex, n.zCalculated }

// ZOffset returns the depth offset renderers apply for this node's paint
// order.
func (n *Node) ZOffset() float64 { return float64(n.zIndex) * 0.001 }

// InvalidateZ marks this node's z-index as needing recalculation. The next
// pass re-walks the entire tree this node belongs to: document order of
// siblings is the paint order, so assignment is inherently a whole-subtree
// operation.
func (n *Node) InvalidateZ() {
	n.zCalculated = false
	n.treeRoot().zDirty = true
}

// --- Coordinate conversion ---

// WorldToLocal converts a screen-space point to this node's local coordinate
// space (origin at the node's center).
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	inv := invertAffine(n.worldTransform)
	return transformPoint(inv, wx, wy)
}

// LocalToWorld converts a local-space point (relative to the node's center)
// to screen space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.worldTransform, lx, ly)
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed, and
// recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Frame = nil
	n.Image = nil
	n.Text = nil
	n.animations = nil
	n.playback = nil
	n.input = nil
	n.UserData = nil
	n.root = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool { return n.disposed }

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing
// child.Parent. Uses copy+nil to avoid retaining a dangling pointer in the
// backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
