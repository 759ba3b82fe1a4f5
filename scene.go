package lattice

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventType identifies a scene event forwarded to the optional ECS bridge.
type EventType uint8

const (
	// EventRootSpawned fires once when a pending root's live tree comes up.
	EventRootSpawned EventType = iota

	// EventRootFailed fires once when a root's dependencies fail
	// permanently.
	EventRootFailed

	// EventAnimationFinished fires when a playing animation reaches its end
	// and transitions to stopped. Not fired for explicit Stop calls.
	EventAnimationFinished
)

// SceneEvent carries scene lifecycle data for the ECS bridge.
type SceneEvent struct {
	Type      EventType
	Root      *Root
	Node      *Node  // animation owner for EventAnimationFinished
	Animation string // animation name for EventAnimationFinished
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, lifecycle events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event SceneEvent)
}

// Scene owns the spawned roots and runs the per-frame passes: pending-root
// spawning, animation advance, z-order refresh, and transform propagation.
type Scene struct {
	assets     Assets
	roots      []*Root
	store      EntityStore
	debug      bool
	prevCursor CursorState
	stats      PassStats
}

// NewScene creates an empty scene over the given asset source.
func NewScene(assets Assets) *Scene {
	return &Scene{assets: assets}
}

// AddLayout registers a layout file to be spawned. The returned root starts
// pending; the live tree comes up on the first Update after the layout and
// its full dependency closure have loaded.
func (s *Scene) AddLayout(path string) *Root {
	r := &Root{
		node:       newNode("", NodeKindSublayout),
		layoutPath: path,
		active:     true,
	}
	r.node.root = r
	s.roots = append(s.roots, r)
	return r
}

// Despawn disposes a root's live tree and removes it from the scene.
func (s *Scene) Despawn(r *Root) {
	for i, existing := range s.roots {
		if existing == r {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			r.node.Dispose()
			return
		}
	}
}

// Roots returns the scene's roots in add order. The returned slice MUST NOT
// be mutated by the caller.
func (s *Scene) Roots() []*Root { return s.roots }

// SetEntityStore connects an ECS event sink.
func (s *Scene) SetEntityStore(store EntityStore) { s.store = store }

// SetDebugMode toggles internal consistency checks for this process.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

func (s *Scene) emit(ev SceneEvent) {
	if s.store != nil {
		s.store.EmitEvent(ev)
	}
}

// Update runs one frame's passes in order: spawn pending roots, advance
// animations, refresh dirty z-order, propagate transforms and bounding
// boxes. Animation runs before propagation so geometry written by targets is
// visible the same frame.
func (s *Scene) Update(dt time.Duration) {
	var start time.Time
	if s.debug {
		start = time.Now()
	}
	dtMS := float64(dt) / float64(time.Millisecond)

	for _, r := range s.roots {
		if r.status == RootPending {
			s.trySpawn(r)
		}
	}

	for _, r := range s.roots {
		if r.status != RootSpawned {
			continue
		}
		s.advanceTree(r.node, dtMS)
	}

	for _, r := range s.roots {
		if r.node.zDirty {
			refreshZIndex(r.node)
		}
		propagateRoot(r.node, r.targetSize, false)
	}

	if s.debug {
		s.collectStats(start)
	}
}

// trySpawn attempts to bring up a pending root's live tree. A still-loading
// dependency leaves the root pending for the next pass; a permanent failure
// marks it failed. Either way no partial subtree survives a failed attempt.
func (s *Scene) trySpawn(r *Root) {
	layout, state := s.assets.Layout(r.layoutPath)
	switch state {
	case LoadStateLoading:
		return
	case LoadStateFailed:
		logger.Error("lattice: layout failed to load", "path", r.layoutPath)
		r.status = RootFailed
		s.emit(SceneEvent{Type: EventRootFailed, Root: r})
		return
	}

	err := buildLayoutTree(s.assets, layout, r.node)
	if err != nil {
		s.despawnChildren(r.node)
		if errors.Is(err, ErrLoadFailed) {
			logger.Error("lattice: layout dependency failed to load",
				"path", r.layoutPath, "error", err)
			r.status = RootFailed
			s.emit(SceneEvent{Type: EventRootFailed, Root: r})
		}
		return
	}

	r.status = RootSpawned
	r.node.Visible = r.active
	s.emit(SceneEvent{Type: EventRootSpawned, Root: r})
}

// despawnChildren disposes every child of the root node while keeping the
// node itself alive for a retry.
func (s *Scene) despawnChildren(root *Node) {
	for root.NumChildren() > 0 {
		root.ChildAt(root.NumChildren() - 1).Dispose()
	}
	root.animations = nil
	root.playback = nil
	root.Frame = nil
}

// advanceTree advances the animations of every animation-owning node in the
// subtree: the root itself and any embedded sub-layout nodes.
func (s *Scene) advanceTree(n *Node, dtMS float64) {
	if n.animations != nil {
		advanceAnimations(n, dtMS, func(name string) {
			s.emit(SceneEvent{Type: EventAnimationFinished, Root: n.Root(), Node: n, Animation: name})
		})
	}
	for _, child := range n.Children() {
		s.advanceTree(child, dtMS)
	}
}

// Walk visits every live node of every spawned root in depth-first document
// order. Return false from fn to stop the walk.
func (s *Scene) Walk(fn func(*Node) bool) {
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		for _, child := range n.Children() {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	for _, r := range s.roots {
		if !walk(r.node) {
			return
		}
	}
}

// Draw paints every visible image node of every active root onto target, in
// z order. Text nodes are skipped; text rasterization is delegated to the
// host, which can Walk the tree and use each node's world transform and
// payload.
func (s *Scene) Draw(target *ebiten.Image) {
	var nodes []*Node
	s.Walk(func(n *Node) bool {
		root := n.Root()
		if root != nil && !root.active {
			return false
		}
		if !n.Visible {
			return false
		}
		if n.Image != nil && n.Image.Image != nil {
			nodes = append(nodes, n)
		}
		return true
	})

	sortByZ(nodes)

	for _, n := range nodes {
		img := n.Image.Image
		bw := img.Bounds().Dx()
		bh := img.Bounds().Dy()
		if bw == 0 || bh == 0 {
			continue
		}

		var op ebiten.DrawImageOptions
		// The node's quad is its declared size centered on the origin; the
		// image stretches to fill it.
		op.GeoM.Scale(n.Size.X/float64(bw), n.Size.Y/float64(bh))
		op.GeoM.Translate(-n.Size.X/2, -n.Size.Y/2)
		m := n.worldTransform
		var world ebiten.GeoM
		world.SetElement(0, 0, m[0])
		world.SetElement(1, 0, m[1])
		world.SetElement(0, 1, m[2])
		world.SetElement(1, 1, m[3])
		world.SetElement(0, 2, m[4])
		world.SetElement(1, 2, m[5])
		op.GeoM.Concat(world)

		tint := n.Image.Tint
		op.ColorScale.Scale(float32(tint.R), float32(tint.G), float32(tint.B), float32(tint.A))
		target.DrawImage(img, &op)
	}
}

// sortByZ sorts nodes by their calculated z-index, preserving document order
// for equal values.
func sortByZ(nodes []*Node) {
	// Insertion sort; draw lists are small and usually already ordered.
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && nodes[j-1].zIndex > nodes[j].zIndex; j-- {
			nodes[j-1], nodes[j] = nodes[j], nodes[j-1]
		}
	}
}
