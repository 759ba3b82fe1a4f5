package lattice

import "github.com/hajimehoshi/ebiten/v2"

// Pointer input detection over spawned trees. Detection is opt-in per node:
// enable it directly with EnableInput, or declaratively with the built-in
// "InputDetection" attribute. The host feeds the scene one CursorState
// snapshot per frame (ReadCursor for the common ebiten case); the scene
// edge-detects hover and button transitions against each enabled node's
// screen-space bounding box and fires the registered handlers.
//
// Call Scene.ProcessInput after Scene.Update so hit testing sees this frame's
// bounding boxes.

// InputEventKind identifies one pointer transition on a node.
type InputEventKind uint8

const (
	InputHover InputEventKind = iota
	InputUnhover
	InputClick
	InputUnclick
	InputRightClick
	InputRightUnclick
	InputMiddleClick
	InputMiddleUnclick
)

func (k InputEventKind) String() string {
	switch k {
	case InputHover:
		return "Hover"
	case InputUnhover:
		return "Unhover"
	case InputClick:
		return "Click"
	case InputUnclick:
		return "Unclick"
	case InputRightClick:
		return "RightClick"
	case InputRightUnclick:
		return "RightUnclick"
	case InputMiddleClick:
		return "MiddleClick"
	case InputMiddleUnclick:
		return "MiddleUnclick"
	}
	return "Unknown"
}

// CursorState is one frame's pointer snapshot in screen coordinates. Hosts
// with custom cursors (gamepad-driven, or a render-to-texture indirection)
// construct it themselves; ReadCursor covers the plain window case.
type CursorState struct {
	Position Vec2
	Left     bool
	Right    bool
	Middle   bool
}

// ReadCursor snapshots the mouse from ebiten.
func ReadCursor() CursorState {
	mx, my := ebiten.CursorPosition()
	return CursorState{
		Position: Vec2{float64(mx), float64(my)},
		Left:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Right:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Middle:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
	}
}

// InputHandler receives pointer transitions for one node.
type InputHandler func(kind InputEventKind, n *Node)

// nodeInput is the per-node detection state. Buttons latch on a press that
// started inside the box and release wherever the cursor is, so a
// press-drag-out-release still delivers the unclick.
type nodeInput struct {
	handlers []InputHandler
	hover    bool
	left     bool
	right    bool
	middle   bool
}

// EnableInput turns on pointer detection for this node.
func (n *Node) EnableInput() {
	if n.input == nil {
		n.input = &nodeInput{}
	}
}

// DisableInput turns off pointer detection and drops registered handlers.
func (n *Node) DisableInput() { n.input = nil }

// InputEnabled reports whether this node participates in pointer detection.
func (n *Node) InputEnabled() bool { return n.input != nil }

// OnInput registers a handler for this node's pointer transitions, enabling
// detection if it was off.
func (n *Node) OnInput(fn InputHandler) {
	n.EnableInput()
	n.input.handlers = append(n.input.handlers, fn)
}

func (ni *nodeInput) fire(kind InputEventKind, n *Node) {
	for _, fn := range ni.handlers {
		fn(kind, n)
	}
}

// ProcessInput edge-detects the cursor snapshot against every input-enabled
// node of every active spawned root. Invisible subtrees are skipped; nodes of
// inactive roots keep their state but receive no events until reactivated.
func (s *Scene) ProcessInput(cursor CursorState) {
	justLeft := cursor.Left && !s.prevCursor.Left
	justRight := cursor.Right && !s.prevCursor.Right
	justMiddle := cursor.Middle && !s.prevCursor.Middle
	s.prevCursor = cursor

	for _, r := range s.roots {
		if r.status != RootSpawned || !r.active {
			continue
		}
		processInputTree(r.node, cursor, justLeft, justRight, justMiddle)
	}
}

func processInputTree(n *Node, cursor CursorState, justLeft, justRight, justMiddle bool) {
	if !n.Visible {
		return
	}
	if ni := n.input; ni != nil {
		inside := n.bounds.Contains(cursor.Position)

		if inside && !ni.hover {
			ni.hover = true
			ni.fire(InputHover, n)
		} else if !inside && ni.hover {
			ni.hover = false
			ni.fire(InputUnhover, n)
		}

		updateButton(ni, n, &ni.left, cursor.Left, justLeft, inside, InputClick, InputUnclick)
		updateButton(ni, n, &ni.right, cursor.Right, justRight, inside, InputRightClick, InputRightUnclick)
		updateButton(ni, n, &ni.middle, cursor.Middle, justMiddle, inside, InputMiddleClick, InputMiddleUnclick)
	}
	for _, child := range n.children {
		processInputTree(child, cursor, justLeft, justRight, justMiddle)
	}
}

func updateButton(ni *nodeInput, n *Node, latched *bool, pressed, justPressed, inside bool, press, release InputEventKind) {
	switch {
	case !*latched && pressed && justPressed && inside:
		*latched = true
		ni.fire(press, n)
	case *latched && !pressed:
		*latched = false
		ni.fire(release, n)
	}
}

// InputDetectionAttribute enables pointer detection on a node at spawn time.
// Handlers are attached afterwards by navigating to the live node.
type InputDetectionAttribute struct{}

// Apply implements Attribute.
func (InputDetectionAttribute) Apply(node *Node) { node.EnableInput() }

// Revert implements AttributeReverter.
func (InputDetectionAttribute) Revert(node *Node) { node.DisableInput() }
