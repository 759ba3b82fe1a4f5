package lattice

import "errors"

// ErrNoSuchAnimation is returned by playback-control calls naming an
// animation the node does not carry.
var ErrNoSuchAnimation = errors.New("lattice: no such animation")

// PlaybackPhase is the coarse state of one named animation on one node.
type PlaybackPhase uint8

const (
	PlaybackStopped PlaybackPhase = iota
	PlaybackPaused
	PlaybackPlaying
)

func (p PlaybackPhase) String() string {
	switch p {
	case PlaybackStopped:
		return "stopped"
	case PlaybackPaused:
		return "paused"
	case PlaybackPlaying:
		return "playing"
	}
	return "unknown"
}

// PlaybackStatus is a snapshot of one animation's playback state.
// ProgressMS is the current timestamp along the animation timeline; after an
// animation finishes it retains its final value until the next Play.
type PlaybackStatus struct {
	Phase      PlaybackPhase
	ProgressMS float64
	Reverse    bool
}

// playbackState tracks one named animation. fromEnd marks a reverse playback
// whose starting progress has not been resolved yet; the first per-frame
// advance replaces it with the animation's max length before applying the
// delta. This is how "reverse from wherever the animation visually is" works
// without the control call needing to know the timeline length.
type playbackState struct {
	phase    PlaybackPhase
	progress float64 // ms along the timeline
	reverse  bool
	fromEnd  bool
}

// playbackFor resolves the state record for a named animation, creating the
// Stopped record on first touch. Animations live on layout roots and
// sub-layout nodes only.
func (n *Node) playbackFor(name string) (*playbackState, error) {
	if _, ok := n.animations[name]; !ok {
		return nil, ErrNoSuchAnimation
	}
	st, ok := n.playback[name]
	if !ok {
		st = &playbackState{}
		if n.playback == nil {
			n.playback = make(map[string]*playbackState)
		}
		n.playback[name] = st
	}
	return st, nil
}

// AnimationNames returns the names of the animations this node carries.
// Only layout roots and embedded sub-layout nodes carry animations.
func (n *Node) AnimationNames() []string {
	names := make([]string, 0, len(n.animations))
	for name := range n.animations {
		names = append(names, name)
	}
	return names
}

// AnimationState reports the playback snapshot for a named animation.
func (n *Node) AnimationState(name string) (PlaybackStatus, error) {
	st, err := n.playbackFor(name)
	if err != nil {
		return PlaybackStatus{}, err
	}
	return PlaybackStatus{Phase: st.phase, ProgressMS: st.progress, Reverse: st.reverse}, nil
}

// Play starts the named animation from the beginning, playing forward. A
// playing or paused animation restarts.
func (n *Node) Play(name string) error {
	st, err := n.playbackFor(name)
	if err != nil {
		return err
	}
	*st = playbackState{phase: PlaybackPlaying}
	return nil
}

// Stop halts the named animation. Stopping a stopped animation is a no-op.
func (n *Node) Stop(name string) error {
	st, err := n.playbackFor(name)
	if err != nil {
		return err
	}
	st.phase = PlaybackStopped
	return nil
}

// Pause suspends a playing animation, keeping its progress and direction.
// No effect in any other state.
func (n *Node) Pause(name string) error {
	st, err := n.playbackFor(name)
	if err != nil {
		return err
	}
	if st.phase == PlaybackPlaying {
		st.phase = PlaybackPaused
	}
	return nil
}

// Resume continues a paused animation with its retained progress and
// direction. No effect in any other state.
func (n *Node) Resume(name string) error {
	st, err := n.playbackFor(name)
	if err != nil {
		return err
	}
	if st.phase == PlaybackPaused {
		st.phase = PlaybackPlaying
	}
	return nil
}

// Reverse flips the direction of a playing or paused animation. The
// direction is always a flip, never an assignment, so two Reverse calls
// cancel out. No effect when stopped.
func (n *Node) Reverse(name string) error {
	st, err := n.playbackFor(name)
	if err != nil {
		return err
	}
	if st.phase == PlaybackPlaying || st.phase == PlaybackPaused {
		st.reverse = !st.reverse
	}
	return nil
}

// PlayOrReverse toggles: a stopped animation starts playing in reverse from
// the end of its timeline; a playing or paused animation flips direction.
// Useful for hover-in/hover-out style effects driven by a single call site.
func (n *Node) PlayOrReverse(name string) error {
	st, err := n.playbackFor(name)
	if err != nil {
		return err
	}
	switch st.phase {
	case PlaybackStopped:
		*st = playbackState{phase: PlaybackPlaying, reverse: true, fromEnd: true}
	default:
		st.reverse = !st.reverse
	}
	return nil
}

// PauseAll suspends every playing animation on this node.
func (n *Node) PauseAll() {
	for _, st := range n.playback {
		if st.phase == PlaybackPlaying {
			st.phase = PlaybackPaused
		}
	}
}

// ResumeAll continues every paused animation on this node.
func (n *Node) ResumeAll() {
	for _, st := range n.playback {
		if st.phase == PlaybackPaused {
			st.phase = PlaybackPlaying
		}
	}
}

// IsPlayingAny reports whether any animation on this node is currently
// playing.
func (n *Node) IsPlayingAny() bool {
	for _, st := range n.playback {
		if st.phase == PlaybackPlaying {
			return true
		}
	}
	return false
}

// --- Per-frame advance ---

// animationLength is the longest channel timestamp across every node the
// animation touches.
func animationLength(anim Animation) float64 {
	var max float64
	for _, kfs := range anim {
		if l := kfs.MaxLength(); l > max {
			max = l
		}
	}
	return max
}

// advanceAnimations advances every playing animation carried by owner by
// dtMS milliseconds, interpolating each channel against the nodes it
// animates. Runs before coordinate propagation so geometry written by
// targets is picked up the same frame. onFinish is called for each animation
// that reached its end this advance; it may be nil.
func advanceAnimations(owner *Node, dtMS float64, onFinish func(name string)) {
	for name, st := range owner.playback {
		if st.phase != PlaybackPlaying {
			continue
		}
		advanceAnimation(owner, name, owner.animations[name], st, dtMS)
		if st.phase == PlaybackStopped && onFinish != nil {
			onFinish(name)
		}
	}
}

func advanceAnimation(owner *Node, name string, anim Animation, st *playbackState, dtMS float64) {
	if st.fromEnd {
		st.progress = animationLength(anim)
		st.fromEnd = false
	}
	if st.reverse {
		st.progress -= dtMS
		if st.progress < 0 {
			st.progress = 0
		}
	} else {
		st.progress += dtMS
	}

	allEnded := true
	for path, kfs := range anim {
		node := owner.Find(path)
		if node == nil {
			logger.Warn("lattice: animation target node missing",
				"animation", name, "path", path, "root", owner.Path())
			continue
		}
		for i := range kfs.Channels {
			if !applyChannel(&kfs.Channels[i], node, st.progress) {
				allEnded = false
			}
		}
	}

	if allEnded || (st.reverse && st.progress <= 0) {
		st.phase = PlaybackStopped
	}
}

// applyChannel locates the active keyframe interval for the given progress,
// remaps the normalized interval position through the current keyframe's
// time-scale curve, and invokes the target's interpolation. Reports whether
// the channel has reached its final keyframe.
func applyChannel(ch *Channel, n *Node, progress float64) (ended bool) {
	kfs := ch.Keyframes
	if len(kfs) == 0 {
		return true
	}

	idx := -1
	for i := range kfs {
		if kfs[i].TimestampMS >= progress {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Past the last keyframe: hold its value.
		last := &kfs[len(kfs)-1]
		if len(kfs) == 1 {
			last.Target.InterpolateFromStart(n, last.TimeScale.Map(1))
		} else {
			last.Target.InterpolateWithPrevious(kfs[len(kfs)-2].Target, n, last.TimeScale.Map(1))
		}
		return true
	}

	cur := &kfs[idx]
	if idx == 0 {
		// No prior keyframe to interpolate from; the target snaps to its
		// own value at full progress when its timestamp is 0.
		local := 1.0
		if cur.TimestampMS > 0 {
			local = progress / cur.TimestampMS
		}
		cur.Target.InterpolateFromStart(n, cur.TimeScale.Map(clamp01(local)))
		return len(kfs) == 1 && local >= 1
	}

	prev := &kfs[idx-1]
	local := 1.0
	if span := cur.TimestampMS - prev.TimestampMS; span > 0 {
		local = (progress - prev.TimestampMS) / span
	}
	cur.Target.InterpolateWithPrevious(prev.Target, n, cur.TimeScale.Map(clamp01(local)))
	return idx == len(kfs)-1 && local >= 1
}
