package lattice

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestDebugModeDisposedNodePanics(t *testing.T) {
	scene := NewScene(NewAssetLibrary())
	scene.SetDebugMode(true)
	defer scene.SetDebugMode(false)

	parent := newNode("parent", NodeKindGroup)
	child := newNode("child", NodeKindImage)
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention disposal: %q", msg)
		}
	}()
	parent.AddChild(child)
}

func TestDebugModeOffSkipsDisposedCheck(t *testing.T) {
	scene := NewScene(NewAssetLibrary())
	scene.SetDebugMode(false)

	parent := newNode("parent", NodeKindGroup)
	child := newNode("child", NodeKindImage)
	child.disposed = true
	child.children = nil

	// Without debug mode the check is skipped entirely; this is the
	// caller's responsibility in release builds.
	parent.AddChild(child)
	if parent.NumChildren() != 1 {
		t.Error("AddChild should proceed with debug mode off")
	}
}

func TestDebugStatsCollected(t *testing.T) {
	scene := NewScene(menuAssets())
	scene.SetDebugMode(true)
	defer scene.SetDebugMode(false)
	scene.AddLayout("ui/menu.json")
	scene.AddLayout("ui/missing.json") // stays pending

	scene.Update(16 * time.Millisecond)

	st := scene.Stats()
	if st.Roots != 2 {
		t.Errorf("Roots = %d, want 2", st.Roots)
	}
	if st.PendingRoots != 1 {
		t.Errorf("PendingRoots = %d, want 1", st.PendingRoots)
	}
	// Spawned menu tree: root + bg + title + panel + icon, plus the pending
	// root's empty node.
	if st.LiveNodes != 6 {
		t.Errorf("LiveNodes = %d, want 6", st.LiveNodes)
	}
}

func TestStatsNotCollectedWithoutDebug(t *testing.T) {
	scene := NewScene(menuAssets())
	scene.AddLayout("ui/menu.json")
	scene.Update(16 * time.Millisecond)

	if scene.Stats() != (PassStats{}) {
		t.Errorf("stats should stay zero without debug mode: %+v", scene.Stats())
	}
}
