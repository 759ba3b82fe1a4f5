package lattice

import (
	"fmt"
	"testing"
	"time"
)

// benchScene spawns a wide tree: one root with groups of image nodes.
func benchScene(b *testing.B, groups, perGroup int) (*Scene, *Root) {
	b.Helper()
	layout := &Layout{CanvasSize: Vec2{1920, 1080}}
	for g := 0; g < groups; g++ {
		group := &LayoutNode{
			ID:       fmt.Sprintf("g%d", g),
			Anchor:   AnchorTopLeft,
			Position: Vec2{float64(g * 10), 0},
			Size:     Vec2{100, 100},
		}
		for i := 0; i < perGroup; i++ {
			group.Group = append(group.Group, &LayoutNode{
				ID:       fmt.Sprintf("n%d", i),
				Anchor:   AnchorCenter,
				Position: Vec2{float64(i), float64(i)},
				Size:     Vec2{32, 32},
				Image:    &ImageData{Path: "img/tile.png"},
			})
		}
		layout.Nodes = append(layout.Nodes, group)
	}

	lib := NewAssetLibrary()
	lib.AddLayout("bench.json", layout)
	lib.AddImage("img/tile.png", nil)

	scene := NewScene(lib)
	r := scene.AddLayout("bench.json")
	scene.Update(time.Millisecond)
	if r.Status() != RootSpawned {
		b.Fatalf("Status = %v", r.Status())
	}
	return scene, r
}

func BenchmarkUpdateStatic1000Nodes(b *testing.B) {
	scene, _ := benchScene(b, 10, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scene.Update(16 * time.Millisecond)
	}
}

func BenchmarkUpdateAllDirty1000Nodes(b *testing.B) {
	scene, r := benchScene(b, 10, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		markSubtreeDirty(r.Node())
		scene.Update(16 * time.Millisecond)
	}
}

func BenchmarkAdvanceAnimation(b *testing.B) {
	var calls []probeCall
	owner := twoKeyframeOwner(&calls)
	if err := owner.Play("probe"); err != nil {
		b.Fatal(err)
	}
	st := owner.playback["probe"]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calls = calls[:0]
		st.phase = PlaybackPlaying
		st.progress = 0
		advanceAnimations(owner, 50, nil)
	}
}

// Steady-state updates of a clean tree must not allocate; this keeps the
// per-frame cost flat regardless of scene size.
func TestUpdateSteadyStateAllocs(t *testing.T) {
	layout := &Layout{CanvasSize: Vec2{1920, 1080}}
	for i := 0; i < 50; i++ {
		layout.Nodes = append(layout.Nodes, &LayoutNode{
			ID:     fmt.Sprintf("n%d", i),
			Anchor: AnchorTopLeft,
			Size:   Vec2{32, 32},
			Image:  &ImageData{Path: "img/tile.png"},
		})
	}
	lib := NewAssetLibrary()
	lib.AddLayout("bench.json", layout)
	lib.AddImage("img/tile.png", nil)

	scene := NewScene(lib)
	scene.AddLayout("bench.json")
	scene.Update(time.Millisecond)

	allocs := testing.AllocsPerRun(100, func() {
		scene.Update(16 * time.Millisecond)
	})
	if allocs > 0 {
		t.Errorf("steady-state Update allocates %v times per frame, want 0", allocs)
	}
}
