package lattice

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// PassStats summarizes the most recent Update pass. Collected only in debug
// mode; otherwise every field reads zero.
type PassStats struct {
	Roots             int
	PendingRoots      int
	FailedRoots       int
	LiveNodes         int
	AnimationsPlaying int
	UpdateDuration    time.Duration
}

// Stats returns the stats of the last Update pass.
func (s *Scene) Stats() PassStats { return s.stats }

func (s *Scene) collectStats(start time.Time) {
	st := PassStats{UpdateDuration: time.Since(start)}
	for _, r := range s.roots {
		st.Roots++
		switch r.status {
		case RootPending:
			st.PendingRoots++
		case RootFailed:
			st.FailedRoots++
		}
	}
	s.Walk(func(n *Node) bool {
		st.LiveNodes++
		if n.IsPlayingAny() {
			st.AnimationsPlaying++
		}
		return true
	})
	s.stats = st
}

// DrawStats paints an FPS/TPS readout plus the last pass stats onto target,
// top-left, on a dimmed backing strip. Intended for debug builds; pairs with
// SetDebugMode(true) so the pass counters are live.
func (s *Scene) DrawStats(target *ebiten.Image) {
	msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	if s.debug {
		msg += fmt.Sprintf("\nroots: %d (%d pending, %d failed)\nnodes: %d\nanimating: %d\nupdate: %s",
			s.stats.Roots, s.stats.PendingRoots, s.stats.FailedRoots,
			s.stats.LiveNodes, s.stats.AnimationsPlaying, s.stats.UpdateDuration)
	}
	ebitenutil.DebugPrint(target, msg)
}
