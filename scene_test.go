package lattice

import (
	"testing"
	"time"
)

// fakeStore records forwarded scene events.
type fakeStore struct {
	events []SceneEvent
}

func (f *fakeStore) EmitEvent(ev SceneEvent) { f.events = append(f.events, ev) }

func (f *fakeStore) lastOfType(typ EventType) *SceneEvent {
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Type == typ {
			return &f.events[i]
		}
	}
	return nil
}

// menuLayout is a small but structurally complete fixture: an image, a
// font-less text node, and a group wrapping a second image.
func menuLayout() *Layout {
	return &Layout{
		CanvasSize: Vec2{200, 100},
		Nodes: []*LayoutNode{
			{
				ID:     "bg",
				Anchor: AnchorTopLeft,
				Size:   Vec2{200, 100},
				Image:  &ImageData{Path: "img/bg.png"},
			},
			{
				ID:       "title",
				Anchor:   AnchorCenter,
				Position: Vec2{100, 20},
				Size:     Vec2{80, 20},
				Text:     &TextData{Text: "Menu", Size: 16, Color: ColorWhite},
			},
			{
				ID:       "panel",
				Anchor:   AnchorTopLeft,
				Position: Vec2{50, 40},
				Size:     Vec2{100, 50},
				Group: []*LayoutNode{
					{
						ID:     "icon",
						Anchor: AnchorCenter,
						Size:   Vec2{16, 16},
						Image:  &ImageData{Path: "img/icon.png"},
					},
				},
			},
		},
	}
}

// menuAssets registers the menu layout and its dependencies as loaded. Images
// are registered as nil handles; spawning only needs the load state.
func menuAssets() *AssetLibrary {
	lib := NewAssetLibrary()
	lib.AddLayout("ui/menu.json", menuLayout())
	lib.AddImage("img/bg.png", nil)
	lib.AddImage("img/icon.png", nil)
	return lib
}

func updateOnce(s *Scene) { s.Update(16 * time.Millisecond) }

// --- Spawning ---

func TestAddLayoutStartsPending(t *testing.T) {
	scene := NewScene(menuAssets())
	r := scene.AddLayout("ui/menu.json")

	if r.Status() != RootPending {
		t.Errorf("Status = %v, want pending", r.Status())
	}
	if !r.Active() {
		t.Error("new roots start active")
	}
	if r.Node().NumChildren() != 0 {
		t.Error("pending roots have no live tree")
	}
	if r.Node().Root() != r {
		t.Error("root node should link back to its Root")
	}
	if r.LayoutPath() != "ui/menu.json" {
		t.Errorf("LayoutPath = %q", r.LayoutPath())
	}
}

func TestSpawnWhenAssetsReady(t *testing.T) {
	scene := NewScene(menuAssets())
	store := &fakeStore{}
	scene.SetEntityStore(store)
	r := scene.AddLayout("ui/menu.json")

	updateOnce(scene)

	if r.Status() != RootSpawned {
		t.Fatalf("Status = %v, want spawned", r.Status())
	}
	root := r.Node()
	if root.NumChildren() != 3 {
		t.Fatalf("NumChildren = %d, want 3", root.NumChildren())
	}
	if root.Find("bg") == nil || root.Find("title") == nil {
		t.Error("top-level nodes should be reachable by path")
	}
	icon := root.Find("panel/icon")
	if icon == nil {
		t.Fatal("grouped node should be reachable by path")
	}
	if icon.Kind != NodeKindImage || icon.Image == nil {
		t.Error("icon should carry an image payload")
	}
	if root.Find("bg").Image.Tint != ColorWhite {
		t.Error("unset tint defaults to white")
	}
	if root.Frame == nil || root.Frame.CanvasSize != (Vec2{200, 100}) {
		t.Errorf("root frame = %+v", root.Frame)
	}

	ev := store.lastOfType(EventRootSpawned)
	if ev == nil {
		t.Fatal("expected a root-spawned event")
	}
	if ev.Root != r {
		t.Error("event should reference the spawned root")
	}
}

func TestSpawnRetriesWhileLoading(t *testing.T) {
	lib := NewAssetLibrary()
	lib.AddLayout("ui/menu.json", menuLayout())
	lib.AddImage("img/bg.png", nil)
	// icon image still loading

	scene := NewScene(lib)
	store := &fakeStore{}
	scene.SetEntityStore(store)
	r := scene.AddLayout("ui/menu.json")

	updateOnce(scene)
	if r.Status() != RootPending {
		t.Fatalf("Status = %v, want pending while a dependency loads", r.Status())
	}
	if r.Node().NumChildren() != 0 {
		t.Error("a failed attempt must not leave a partial tree")
	}
	if len(store.events) != 0 {
		t.Errorf("no events while pending, got %v", store.events)
	}

	lib.AddImage("img/icon.png", nil)
	updateOnce(scene)
	if r.Status() != RootSpawned {
		t.Errorf("Status = %v, want spawned once the dependency resolves", r.Status())
	}
}

func TestSpawnFailsOnFailedDependency(t *testing.T) {
	lib := NewAssetLibrary()
	lib.AddLayout("ui/menu.json", menuLayout())
	lib.AddImage("img/bg.png", nil)
	lib.MarkFailed("img/icon.png")

	scene := NewScene(lib)
	store := &fakeStore{}
	scene.SetEntityStore(store)
	r := scene.AddLayout("ui/menu.json")

	updateOnce(scene)

	if r.Status() != RootFailed {
		t.Fatalf("Status = %v, want failed", r.Status())
	}
	if r.Node().NumChildren() != 0 {
		t.Error("a failed root must have no live children")
	}
	if store.lastOfType(EventRootFailed) == nil {
		t.Error("expected a root-failed event")
	}

	// Failed roots are never retried.
	lib.AddImage("img/icon.png", nil)
	updateOnce(scene)
	if r.Status() != RootFailed {
		t.Error("failed roots must stay failed")
	}
}

func TestSpawnFailsOnFailedLayout(t *testing.T) {
	lib := NewAssetLibrary()
	lib.MarkFailed("ui/menu.json")

	scene := NewScene(lib)
	store := &fakeStore{}
	scene.SetEntityStore(store)
	r := scene.AddLayout("ui/menu.json")

	updateOnce(scene)

	if r.Status() != RootFailed {
		t.Fatalf("Status = %v, want failed", r.Status())
	}
	if store.lastOfType(EventRootFailed) == nil {
		t.Error("expected a root-failed event")
	}
}

func TestSublayoutSpawnsWithScaledFrame(t *testing.T) {
	sub := &Layout{
		CanvasSize: Vec2{100, 100},
		Nodes: []*LayoutNode{
			{ID: "inner", Anchor: AnchorCenter, Position: Vec2{50, 50}, Size: Vec2{10, 10},
				Image: &ImageData{Path: "img/icon.png"}},
		},
	}
	outer := &Layout{
		CanvasSize: Vec2{400, 400},
		Nodes: []*LayoutNode{
			{ID: "embed", Anchor: AnchorTopLeft, Size: Vec2{200, 200},
				Sublayout: &SublayoutData{Path: "ui/sub.json"}},
		},
	}

	lib := NewAssetLibrary()
	lib.AddLayout("ui/outer.json", outer)
	lib.AddLayout("ui/sub.json", sub)
	lib.AddImage("img/icon.png", nil)

	scene := NewScene(lib)
	r := scene.AddLayout("ui/outer.json")
	updateOnce(scene)

	if r.Status() != RootSpawned {
		t.Fatalf("Status = %v", r.Status())
	}
	embed := r.Node().Find("embed")
	if embed == nil || embed.Frame == nil {
		t.Fatal("embedded sub-layout should carry a frame")
	}
	assertVec(t, "frame scale", embed.Frame.ResolutionScale, Vec2{4, 4})
	assertVec(t, "frame canvas", embed.Frame.CanvasSize, Vec2{100, 100})
	if embed.Find("inner") == nil {
		t.Error("sub-layout nodes should be reachable")
	}
	// 200px allocation over a 100 canvas at 4x resolution scale.
	assertVec(t, "world scale", embed.worldScale, Vec2{8, 8})
}

func TestFailedSublayoutLeavesNoPartialTree(t *testing.T) {
	outer := &Layout{
		CanvasSize: Vec2{400, 400},
		Nodes: []*LayoutNode{
			{ID: "bg", Anchor: AnchorTopLeft, Size: Vec2{400, 400},
				Image: &ImageData{Path: "img/bg.png"}},
			{ID: "embed", Anchor: AnchorTopLeft, Size: Vec2{200, 200},
				Sublayout: &SublayoutData{Path: "ui/sub.json"}},
		},
	}
	lib := NewAssetLibrary()
	lib.AddLayout("ui/outer.json", outer)
	lib.AddImage("img/bg.png", nil)
	lib.MarkFailed("ui/sub.json")

	scene := NewScene(lib)
	r := scene.AddLayout("ui/outer.json")
	updateOnce(scene)

	if r.Status() != RootFailed {
		t.Fatalf("Status = %v, want failed", r.Status())
	}
	// The bg node spawned before the sub-layout failed; it must be gone.
	if r.Node().NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", r.Node().NumChildren())
	}
}

// subtreeProbe asserts at apply time that the node's subtree already exists.
type subtreeProbe struct {
	sawSubtree bool
}

func (p *subtreeProbe) Apply(n *Node) {
	p.sawSubtree = n.NumChildren() > 0 && n.ChildAt(0).Name == "icon"
}

func TestAttributesApplyAfterSubtree(t *testing.T) {
	probe := &subtreeProbe{}
	layout := menuLayout()
	layout.Nodes[2].Attributes = []*DynamicAttribute{
		NewDynamicAttribute("probe", probe),
	}

	lib := NewAssetLibrary()
	lib.AddLayout("ui/menu.json", layout)
	lib.AddImage("img/bg.png", nil)
	lib.AddImage("img/icon.png", nil)

	scene := NewScene(lib)
	r := scene.AddLayout("ui/menu.json")
	updateOnce(scene)

	if r.Status() != RootSpawned {
		t.Fatalf("Status = %v", r.Status())
	}
	if !probe.sawSubtree {
		t.Error("attributes must see the node's spawned subtree")
	}
}

// siblingProbe records whether a later sibling was already live at apply time.
type siblingProbe struct {
	sibling string
	sawIt   bool
}

func (p *siblingProbe) Apply(n *Node) {
	p.sawIt = n.Sibling(p.sibling) != nil
}

func TestAttributesSeeLaterSiblings(t *testing.T) {
	probe := &siblingProbe{sibling: "panel"}
	layout := menuLayout()
	// Attached to the first node; "panel" is declared two siblings later.
	layout.Nodes[0].Attributes = []*DynamicAttribute{
		NewDynamicAttribute("probe", probe),
	}

	lib := NewAssetLibrary()
	lib.AddLayout("ui/menu.json", layout)
	lib.AddImage("img/bg.png", nil)
	lib.AddImage("img/icon.png", nil)

	scene := NewScene(lib)
	r := scene.AddLayout("ui/menu.json")
	updateOnce(scene)

	if r.Status() != RootSpawned {
		t.Fatalf("Status = %v", r.Status())
	}
	if !probe.sawIt {
		t.Error("attributes must see siblings declared after their node")
	}
}

// --- Lifecycle ---

func TestDespawn(t *testing.T) {
	scene := NewScene(menuAssets())
	r := scene.AddLayout("ui/menu.json")
	updateOnce(scene)

	node := r.Node()
	scene.Despawn(r)

	if len(scene.Roots()) != 0 {
		t.Error("despawn should remove the root from the scene")
	}
	if !node.IsDisposed() {
		t.Error("despawn should dispose the live tree")
	}
}

func TestSetTargetSizeScalesOutput(t *testing.T) {
	scene := NewScene(menuAssets())
	r := scene.AddLayout("ui/menu.json")
	updateOnce(scene)

	r.SetTargetSize(Vec2{400, 200})
	updateOnce(scene)

	assertVec(t, "root scale", r.Node().worldScale, Vec2{2, 2})
	bg := r.Node().Find("bg")
	assertVec(t, "bg center", Vec2{bg.worldTransform[4], bg.worldTransform[5]}, Vec2{200, 100})
}

func TestSetActiveTogglesVisibility(t *testing.T) {
	scene := NewScene(menuAssets())
	r := scene.AddLayout("ui/menu.json")
	updateOnce(scene)

	r.SetActive(false)
	if r.Active() || r.Node().Visible {
		t.Error("inactive roots should be hidden")
	}
	r.SetActive(true)
	if !r.Active() || !r.Node().Visible {
		t.Error("reactivated roots should be visible")
	}
}

// --- Animation through Update ---

func TestAnimationFinishedEventThroughUpdate(t *testing.T) {
	layout := menuLayout()
	layout.Animations = map[string]Animation{
		"slide_in": {
			"title": Flatten([]RawKeyframe{
				{TimestampMS: 0, Targets: []*DynamicAnimationTarget{
					NewDynamicAnimationTarget("position", &PositionAnimation{Position: Vec2{100, -20}}),
				}},
				{TimestampMS: 100, Targets: []*DynamicAnimationTarget{
					NewDynamicAnimationTarget("position", &PositionAnimation{Position: Vec2{100, 20}}),
				}},
			}),
		},
	}
	lib := NewAssetLibrary()
	lib.AddLayout("ui/menu.json", layout)
	lib.AddImage("img/bg.png", nil)
	lib.AddImage("img/icon.png", nil)

	scene := NewScene(lib)
	store := &fakeStore{}
	scene.SetEntityStore(store)
	r := scene.AddLayout("ui/menu.json")
	updateOnce(scene)

	root := r.Node()
	if err := root.Play("slide_in"); err != nil {
		t.Fatal(err)
	}

	scene.Update(60 * time.Millisecond)
	if store.lastOfType(EventAnimationFinished) != nil {
		t.Fatal("animation should not be finished at 60ms")
	}
	title := root.Find("title")
	assertVec(t, "midway position", title.Position, Vec2{100, 4})

	scene.Update(60 * time.Millisecond)
	ev := store.lastOfType(EventAnimationFinished)
	if ev == nil {
		t.Fatal("expected an animation-finished event")
	}
	if ev.Animation != "slide_in" || ev.Node != root || ev.Root != r {
		t.Errorf("event = %+v", ev)
	}
	assertVec(t, "final position", title.Position, Vec2{100, 20})

	// Geometry written by the animation is propagated the same frame.
	assertNear(t, "world y", title.worldTransform[5], 20)
}

// --- Walk ---

func TestWalkVisitsDocumentOrder(t *testing.T) {
	scene := NewScene(menuAssets())
	scene.AddLayout("ui/menu.json")
	updateOnce(scene)

	var names []string
	scene.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return true
	})

	want := []string{"", "bg", "title", "panel", "icon"}
	if len(names) != len(want) {
		t.Fatalf("visited %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("visited %v, want %v", names, want)
		}
	}
}

func TestWalkEarlyStop(t *testing.T) {
	scene := NewScene(menuAssets())
	scene.AddLayout("ui/menu.json")
	updateOnce(scene)

	count := 0
	scene.Walk(func(n *Node) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("visited %d nodes, want 2", count)
	}
}

// --- Z sort ---

func TestSortByZStable(t *testing.T) {
	a := newNode("a", NodeKindImage)
	b := newNode("b", NodeKindImage)
	c := newNode("c", NodeKindImage)
	a.zIndex = 2
	b.zIndex = 1
	c.zIndex = 1

	nodes := []*Node{a, b, c}
	sortByZ(nodes)

	if nodes[0] != b || nodes[1] != c || nodes[2] != a {
		t.Errorf("order = %s, %s, %s", nodes[0].Name, nodes[1].Name, nodes[2].Name)
	}
}
