// Package editor is the interaction controller: a state machine turning
// pointer and keyboard input into diagram mutations, with history
// snapshots taken before each destructive one. One Session owns one
// diagram for its whole lifetime; there is no shared editor state
// outside it.
package editor

import (
	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
	"mapedit/pkg/history"
)

// State is the interaction mode. Drag-like states are mutually
// exclusive: entering one cancels pointer tracking for any other.
type State int

const (
	StateIdle State = iota
	StatePanning
	StateDragging
	StateResizing
	StateConnecting
	StateEditingText
)

func (s State) String() string {
	switch s {
	case StatePanning:
		return "panning"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	case StateConnecting:
		return "connecting"
	case StateEditingText:
		return "editing"
	default:
		return "idle"
	}
}

// Effect tells the caller which render path an event requires. Values
// are ordered by cost so combining two effects keeps the stronger one.
type Effect int

const (
	// EffectNone requires no redraw.
	EffectNone Effect = iota
	// EffectLive patches the active element in place, throttled.
	EffectLive
	// EffectViewport redraws everything at a new pan/zoom.
	EffectViewport
	// EffectStructural rebuilds the visual tree.
	EffectStructural
)

func (e Effect) merge(o Effect) Effect {
	if o > e {
		return o
	}
	return e
}

// Handle identifies a resize handle by the corner it sits on.
type Handle int

const (
	HandleNW Handle = iota
	HandleNE
	HandleSE
	HandleSW
)

// Pixel thresholds, all measured in screen space.
const (
	edgeBand       = 8.0 // shape border band that starts a drag
	jitterLimit    = 4.0 // below this, a pan gesture is a deselect click
	connHitStroke  = 6.0 // invisible hit width around connection lines
	handleHitReach = 6.0
	anchorHitReach = 8.0
)

// DefaultGridSize is the snap grid pitch in canvas units.
const DefaultGridSize = 20.0

// DefaultShapeSize is the extent of shapes placed by AddShapeAt.
const (
	DefaultShapeWidth  = 150.0
	DefaultShapeHeight = 100.0
)

// Session is one open editor. It owns the diagram and its history and
// is not safe for concurrent use; all events arrive on one goroutine.
type Session struct {
	diagram *diagram.Diagram
	history *history.History

	state         State
	selectedShape string
	selectedConn  string

	gridEnabled bool
	gridSize    float64

	// pointer gesture tracking
	downScreen  geometry.Point
	lastScreen  geometry.Point
	moved       bool
	snapshotted bool
	dragOffset  geometry.Point
	resizeFrom  geometry.Rect
	handle      Handle

	// connection drag
	connectFrom   string
	connectAnchor diagram.Anchor
	rubberTo      geometry.Point

	// text editing
	editShape    string
	editBuffer   []rune
	editOriginal string

	nudgeActive bool
}

// NewSession opens an editor over d. The diagram is owned by the
// session from here on.
func NewSession(d *diagram.Diagram) *Session {
	if d == nil {
		d = diagram.New()
	}
	return &Session{
		diagram:  d,
		history:  history.New(history.DefaultCapacity),
		gridSize: DefaultGridSize,
	}
}

// Diagram returns the session's document. Callers must not mutate it
// while an interaction is in progress; use TakeCopy for export or save.
func (s *Session) Diagram() *diagram.Diagram {
	return s.diagram
}

// TakeCopy returns a deep copy safe to hand to export or persistence
// without observing a half-updated state mid-gesture.
func (s *Session) TakeCopy() *diagram.Diagram {
	return s.diagram.Clone()
}

// State returns the current interaction mode.
func (s *Session) State() State {
	return s.state
}

// SelectedShape returns the id of the selected shape, or "".
func (s *Session) SelectedShape() string {
	return s.selectedShape
}

// SelectedConnection returns the id of the selected connection, or "".
func (s *Session) SelectedConnection() string {
	return s.selectedConn
}

// EditingShape returns the id of the shape whose text is being edited,
// or "".
func (s *Session) EditingShape() string {
	return s.editShape
}

// EditBuffer returns the in-progress text of the active edit. The
// diagram itself is only updated on commit.
func (s *Session) EditBuffer() string {
	return string(s.editBuffer)
}

// RubberBand returns the live connection preview while connecting: the
// fixed start anchor and the cursor position, both in screen space.
func (s *Session) RubberBand() (from, to geometry.Point, ok bool) {
	if s.state != StateConnecting {
		return geometry.Point{}, geometry.Point{}, false
	}
	sh := s.diagram.FindShape(s.connectFrom)
	if sh == nil {
		return geometry.Point{}, geometry.Point{}, false
	}
	t := s.diagram.Viewport.Transform()
	return t.ToScreen(sh.AnchorPoint(s.connectAnchor)), s.rubberTo, true
}

// GridEnabled reports whether snapping is on.
func (s *Session) GridEnabled() bool {
	return s.gridEnabled
}

// SetGrid configures snapping. A non-positive size keeps the current
// pitch.
func (s *Session) SetGrid(enabled bool, size float64) {
	s.gridEnabled = enabled
	if size > 0 {
		s.gridSize = size
	}
}

// ToggleGrid flips snapping and reports the new setting.
func (s *Session) ToggleGrid() bool {
	s.gridEnabled = !s.gridEnabled
	return s.gridEnabled
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// snap applies grid snapping to a canvas coordinate when enabled.
func (s *Session) snap(v float64) float64 {
	if !s.gridEnabled {
		return v
	}
	return geometry.Snap(v, s.gridSize)
}

// selectShape sets the shape selection, clearing any connection
// selection.
func (s *Session) selectShape(id string) Effect {
	if s.selectedShape == id && s.selectedConn == "" {
		return EffectNone
	}
	s.selectedShape = id
	s.selectedConn = ""
	return EffectStructural
}

func (s *Session) clearSelection() Effect {
	if s.selectedShape == "" && s.selectedConn == "" {
		return EffectNone
	}
	s.selectedShape = ""
	s.selectedConn = ""
	return EffectStructural
}

// restore swaps the session's diagram contents for a state returned by
// the history manager and drops selections that no longer resolve.
func (s *Session) restore(d *diagram.Diagram) Effect {
	if d == nil {
		return EffectNone
	}
	*s.diagram = *d
	if s.selectedShape != "" && s.diagram.FindShape(s.selectedShape) == nil {
		s.selectedShape = ""
	}
	if s.selectedConn != "" && s.diagram.FindConnection(s.selectedConn) == nil {
		s.selectedConn = ""
	}
	return EffectStructural
}

// Deselect clears any selection, committing an in-progress text edit
// first.
func (s *Session) Deselect() Effect {
	eff := s.CommitEdit()
	return eff.merge(s.clearSelection())
}

// Undo steps back one history entry. Any in-progress text edit is
// committed first so it is itself undoable.
func (s *Session) Undo() Effect {
	eff := s.CommitEdit()
	s.nudgeActive = false
	d, err := s.history.Undo(s.diagram)
	if err != nil || d == nil {
		return eff
	}
	return eff.merge(s.restore(d))
}

// Redo steps forward after an undo.
func (s *Session) Redo() Effect {
	eff := s.CommitEdit()
	s.nudgeActive = false
	d, err := s.history.Redo(s.diagram)
	if err != nil || d == nil {
		return eff
	}
	return eff.merge(s.restore(d))
}

// AddShapeAt places a new shape of the given kind centered on the
// screen point, selects it, and snapshots history first.
func (s *Session) AddShapeAt(sp geometry.Point, kind diagram.Kind) Effect {
	s.nudgeActive = false
	eff := s.CommitEdit()
	cp := s.diagram.Viewport.Transform().ToCanvas(sp)
	s.history.Snapshot(s.diagram)
	id := s.diagram.AddShape(diagram.Shape{
		Kind:      kind,
		X:         s.snap(cp.X - DefaultShapeWidth/2),
		Y:         s.snap(cp.Y - DefaultShapeHeight/2),
		Width:     DefaultShapeWidth,
		Height:    DefaultShapeHeight,
		Style:     diagram.DefaultStyle(),
		TextStyle: diagram.DefaultTextStyle(),
	})
	s.selectShape(id)
	return eff.merge(EffectStructural)
}

// Delete removes the selected shape (cascading to its connections) or
// the selected connection, after a history snapshot. With nothing
// selected it does nothing.
func (s *Session) Delete() Effect {
	s.nudgeActive = false
	switch {
	case s.selectedShape != "":
		if s.editShape == s.selectedShape {
			// deleting the shape discards the in-progress edit with it
			s.abandonEdit()
		}
		s.history.Snapshot(s.diagram)
		s.diagram.DeleteShape(s.selectedShape)
		s.selectedShape = ""
		return EffectStructural
	case s.selectedConn != "":
		s.history.Snapshot(s.diagram)
		s.diagram.DeleteConnection(s.selectedConn)
		s.selectedConn = ""
		return EffectStructural
	}
	return EffectNone
}
