package editor

import (
	"testing"

	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// newTestSession returns a session over two rectangles, viewport at
// identity so screen and canvas coordinates coincide.
func newTestSession() *Session {
	d := diagram.New()
	d.AddShape(diagram.Shape{ID: "a", X: 100, Y: 100, Width: 150, Height: 100,
		Style: diagram.DefaultStyle(), TextStyle: diagram.DefaultTextStyle()})
	d.AddShape(diagram.Shape{ID: "b", X: 400, Y: 100, Width: 150, Height: 100,
		Style: diagram.DefaultStyle(), TextStyle: diagram.DefaultTextStyle()})
	return NewSession(d)
}

// clickSelect selects a shape through its edge band without moving it.
func clickSelect(s *Session, p geometry.Point) {
	s.PointerDown(p)
	s.PointerUp(p)
}

func TestClickEdgeBandSelectsWithoutHistory(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})

	if s.SelectedShape() != "a" {
		t.Errorf("Selected %q, want a", s.SelectedShape())
	}
	if s.State() != StateIdle {
		t.Errorf("State after release = %v", s.State())
	}
	if s.CanUndo() {
		t.Error("A motionless click must not push history")
	}
}

func TestDragGesturePushesOneHistoryEntry(t *testing.T) {
	s := newTestSession()
	s.PointerDown(geometry.Point{X: 105, Y: 150})
	if s.State() != StateDragging {
		t.Fatalf("Edge-band press should drag, state = %v", s.State())
	}
	for _, p := range []geometry.Point{
		{X: 115, Y: 160}, {X: 125, Y: 170}, {X: 135, Y: 170}, {X: 125, Y: 170},
	} {
		if eff := s.PointerMove(p); eff != EffectLive {
			t.Errorf("Move effect = %v, want EffectLive", eff)
		}
	}
	if eff := s.PointerUp(geometry.Point{X: 125, Y: 170}); eff != EffectStructural {
		t.Errorf("Release effect = %v, want EffectStructural", eff)
	}

	sh := s.Diagram().FindShape("a")
	if sh.X != 120 || sh.Y != 120 {
		t.Errorf("Shape at (%v,%v), want (120,120)", sh.X, sh.Y)
	}

	// One entry for the whole gesture, not one per move.
	s.Undo()
	sh = s.Diagram().FindShape("a")
	if sh.X != 100 || sh.Y != 100 {
		t.Errorf("Undo restored (%v,%v), want (100,100)", sh.X, sh.Y)
	}
	if s.CanUndo() {
		t.Error("Expected exactly one history entry for the drag")
	}
}

func TestDragBelowJitterIsInert(t *testing.T) {
	s := newTestSession()
	s.PointerDown(geometry.Point{X: 105, Y: 150})
	s.PointerMove(geometry.Point{X: 107, Y: 151})
	s.PointerUp(geometry.Point{X: 107, Y: 151})

	if sh := s.Diagram().FindShape("a"); sh.X != 100 {
		t.Errorf("Jitter moved the shape to x=%v", sh.X)
	}
	if s.CanUndo() {
		t.Error("Jitter must not push history")
	}
}

func TestDragSnapsToGrid(t *testing.T) {
	s := newTestSession()
	s.SetGrid(true, 20)
	s.PointerDown(geometry.Point{X: 105, Y: 150})
	s.PointerMove(geometry.Point{X: 117, Y: 163})
	s.PointerUp(geometry.Point{X: 117, Y: 163})

	sh := s.Diagram().FindShape("a")
	if sh.X != 120 || sh.Y != 120 {
		t.Errorf("Snapped position = (%v,%v), want (120,120)", sh.X, sh.Y)
	}
}

func TestNudgeSequencePushesOneHistoryEntry(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})

	// Five rapid presses with the key held down.
	for i := 0; i < 5; i++ {
		if eff := s.Nudge(1, 0, false); eff != EffectLive {
			t.Fatalf("Nudge effect = %v", eff)
		}
	}
	s.EndNudge()

	if sh := s.Diagram().FindShape("a"); sh.X != 105 {
		t.Errorf("x = %v, want 105", sh.X)
	}
	s.Undo()
	if sh := s.Diagram().FindShape("a"); sh.X != 100 {
		t.Errorf("Undo restored x = %v, want 100", sh.X)
	}
	if s.CanUndo() {
		t.Error("Held-key nudges should collapse into one history entry")
	}
}

func TestNudgeAfterEndStartsNewEntry(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.Nudge(1, 0, false)
	s.EndNudge()
	s.Nudge(1, 0, false)
	s.EndNudge()

	s.Undo()
	if sh := s.Diagram().FindShape("a"); sh.X != 101 {
		t.Errorf("First undo x = %v, want 101", sh.X)
	}
	s.Undo()
	if sh := s.Diagram().FindShape("a"); sh.X != 100 {
		t.Errorf("Second undo x = %v, want 100", sh.X)
	}
}

func TestNudgeStepsScaleToGrid(t *testing.T) {
	s := newTestSession()
	s.SetGrid(true, 20)
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.Nudge(0, 1, false)
	if sh := s.Diagram().FindShape("a"); sh.Y != 120 {
		t.Errorf("y = %v, want one grid step to 120", sh.Y)
	}
	s.Nudge(0, 1, true)
	if sh := s.Diagram().FindShape("a"); sh.Y != 320 {
		t.Errorf("y = %v, want large step to 320", sh.Y)
	}
}

func TestResizeFromSEHandle(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.PointerDown(geometry.Point{X: 250, Y: 200})
	if s.State() != StateResizing {
		t.Fatalf("Handle press should resize, state = %v", s.State())
	}
	s.PointerMove(geometry.Point{X: 300, Y: 240})
	s.PointerUp(geometry.Point{X: 300, Y: 240})

	sh := s.Diagram().FindShape("a")
	if sh.X != 100 || sh.Y != 100 || sh.Width != 200 || sh.Height != 140 {
		t.Errorf("Rect = (%v,%v,%v,%v)", sh.X, sh.Y, sh.Width, sh.Height)
	}
}

func TestResizeFromNWHandleKeepsSECornerFixed(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.PointerDown(geometry.Point{X: 100, Y: 100})
	s.PointerMove(geometry.Point{X: 120, Y: 130})
	s.PointerUp(geometry.Point{X: 120, Y: 130})

	sh := s.Diagram().FindShape("a")
	if sh.X != 120 || sh.Y != 130 || sh.Width != 130 || sh.Height != 70 {
		t.Errorf("Rect = (%v,%v,%v,%v)", sh.X, sh.Y, sh.Width, sh.Height)
	}
	if sh.X+sh.Width != 250 || sh.Y+sh.Height != 200 {
		t.Error("Opposite corner drifted during resize")
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.PointerDown(geometry.Point{X: 250, Y: 200})
	s.PointerMove(geometry.Point{X: 105, Y: 105})
	s.PointerUp(geometry.Point{X: 105, Y: 105})

	sh := s.Diagram().FindShape("a")
	if sh.Width != diagram.MinShapeWidth || sh.Height != diagram.MinShapeHeight {
		t.Errorf("Size = %vx%v, want clamped to floor", sh.Width, sh.Height)
	}
}

func TestConnectGestureCreatesConnection(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})

	// Press on a's right anchor, release on b's left anchor.
	s.PointerDown(geometry.Point{X: 250, Y: 150})
	if s.State() != StateConnecting {
		t.Fatalf("Anchor press should connect, state = %v", s.State())
	}
	s.PointerMove(geometry.Point{X: 320, Y: 150})
	if _, to, ok := s.RubberBand(); !ok || to.X != 320 {
		t.Error("Rubber band should track the cursor")
	}
	s.PointerUp(geometry.Point{X: 400, Y: 150})

	d := s.Diagram()
	if len(d.Connections) != 1 {
		t.Fatalf("Expected 1 connection, got %d", len(d.Connections))
	}
	c := d.Connections[0]
	if c.From != "a" || c.To != "b" ||
		c.FromAnchor != diagram.AnchorRight || c.ToAnchor != diagram.AnchorLeft {
		t.Errorf("Connection = %+v", c)
	}
	s.Undo()
	if len(s.Diagram().Connections) != 0 {
		t.Error("Undo should remove the connection")
	}
}

func TestConnectDropOnEmptyCanvasCancels(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.PointerDown(geometry.Point{X: 250, Y: 150})
	s.PointerMove(geometry.Point{X: 320, Y: 300})
	s.PointerUp(geometry.Point{X: 320, Y: 300})

	if len(s.Diagram().Connections) != 0 {
		t.Error("Dropping off-anchor must not create a connection")
	}
	if s.CanUndo() {
		t.Error("A cancelled connect must not push history")
	}
}

func TestConnectToSelfIsRejected(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.PointerDown(geometry.Point{X: 250, Y: 150})
	// Release on another anchor of the same shape.
	s.PointerUp(geometry.Point{X: 175, Y: 100})

	if len(s.Diagram().Connections) != 0 {
		t.Error("A shape must not connect to itself")
	}
}

func TestConnectionLineHitSelectsConnection(t *testing.T) {
	s := newTestSession()
	s.Diagram().AddConnection(diagram.Connection{
		ID: "ab", From: "a", To: "b",
		FromAnchor: diagram.AnchorRight, ToAnchor: diagram.AnchorLeft,
		Style: diagram.DefaultLineStyle(),
	})

	// A few pixels off the line still hits thanks to the hit stroke.
	s.PointerDown(geometry.Point{X: 320, Y: 154})
	s.PointerUp(geometry.Point{X: 320, Y: 154})

	if s.SelectedConnection() != "ab" {
		t.Errorf("Selected connection %q, want ab", s.SelectedConnection())
	}
	if s.SelectedShape() != "" {
		t.Error("Selecting a connection must clear the shape selection")
	}
}

func TestEmptyCanvasClickDeselects(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	clickSelect(s, geometry.Point{X: 700, Y: 500})

	if s.SelectedShape() != "" {
		t.Error("A motionless click on empty canvas should deselect")
	}
}

func TestPanKeepsSelection(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.PointerDown(geometry.Point{X: 700, Y: 500})
	if eff := s.PointerMove(geometry.Point{X: 720, Y: 510}); eff != EffectViewport {
		t.Errorf("Pan effect = %v", eff)
	}
	s.PointerUp(geometry.Point{X: 720, Y: 510})

	v := s.Diagram().Viewport
	if v.PanX != 20 || v.PanY != 10 {
		t.Errorf("Pan = (%v,%v), want (20,10)", v.PanX, v.PanY)
	}
	if s.SelectedShape() != "a" {
		t.Error("Panning must not clear the selection")
	}
	if s.CanUndo() {
		t.Error("Panning must not push history")
	}
}

func TestInteriorClickStartsTextEdit(t *testing.T) {
	s := newTestSession()
	s.PointerDown(geometry.Point{X: 175, Y: 150})
	s.PointerUp(geometry.Point{X: 175, Y: 150})

	if s.State() != StateEditingText || s.EditingShape() != "a" {
		t.Fatalf("State = %v editing %q", s.State(), s.EditingShape())
	}
	s.TypeRune('h')
	s.TypeRune('i')
	if s.EditBuffer() != "hi" {
		t.Errorf("Buffer = %q", s.EditBuffer())
	}
	if s.Diagram().FindShape("a").Content != "" {
		t.Error("Content must not change before commit")
	}

	if eff := s.CommitEdit(); eff != EffectStructural {
		t.Errorf("Commit effect = %v", eff)
	}
	if got := s.Diagram().FindShape("a").Content; got != "hi" {
		t.Errorf("Committed content = %q", got)
	}
	if s.State() != StateIdle {
		t.Errorf("State after commit = %v", s.State())
	}

	// Exactly one commit: a second commit call changes nothing.
	if eff := s.CommitEdit(); eff != EffectNone {
		t.Errorf("Second commit effect = %v", eff)
	}
	s.Undo()
	if got := s.Diagram().FindShape("a").Content; got != "" {
		t.Errorf("Undo restored content %q", got)
	}
	if s.CanUndo() {
		t.Error("Edit should be a single history entry")
	}
}

func TestPointerElsewhereCommitsEdit(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 175, Y: 150})
	s.TypeRune('x')

	// Claiming the pointer for a pan commits the edit first.
	s.PointerDown(geometry.Point{X: 700, Y: 500})
	if s.EditingShape() != "" {
		t.Error("Another interaction should end the edit")
	}
	if got := s.Diagram().FindShape("a").Content; got != "x" {
		t.Errorf("Content = %q, want committed x", got)
	}
}

func TestCommitEditSanitizes(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 175, Y: 150})
	for _, r := range "<script>bad</script><b>ok</b>" {
		s.TypeRune(r)
	}
	s.CommitEdit()

	got := s.Diagram().FindShape("a").Content
	if got != "bad<b>ok</b>" {
		t.Errorf("Sanitized content = %q", got)
	}
}

func TestBackspaceEditsBuffer(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 175, Y: 150})
	s.TypeRune('a')
	s.TypeRune('b')
	s.Backspace()
	if s.EditBuffer() != "a" {
		t.Errorf("Buffer = %q", s.EditBuffer())
	}
}

func TestDeleteSelectedShapeCascades(t *testing.T) {
	s := newTestSession()
	s.Diagram().AddConnection(diagram.Connection{
		ID: "ab", From: "a", To: "b",
		FromAnchor: diagram.AnchorRight, ToAnchor: diagram.AnchorLeft,
	})
	clickSelect(s, geometry.Point{X: 105, Y: 150})

	if eff := s.Delete(); eff != EffectStructural {
		t.Errorf("Delete effect = %v", eff)
	}
	d := s.Diagram()
	if len(d.Shapes) != 1 || len(d.Connections) != 0 {
		t.Errorf("After delete: %d shapes, %d connections", len(d.Shapes), len(d.Connections))
	}
	if s.SelectedShape() != "" {
		t.Error("Deleting should clear the selection")
	}

	s.Undo()
	d = s.Diagram()
	if len(d.Shapes) != 2 || len(d.Connections) != 1 {
		t.Error("Undo should restore shape and connection together")
	}
}

func TestDeleteWithNothingSelected(t *testing.T) {
	s := newTestSession()
	if eff := s.Delete(); eff != EffectNone {
		t.Errorf("Delete effect = %v, want EffectNone", eff)
	}
	if s.CanUndo() {
		t.Error("No-op delete must not push history")
	}
}

func TestWheelZoomKeepsCursorPointStable(t *testing.T) {
	s := newTestSession()
	cursor := geometry.Point{X: 175, Y: 150}
	before := s.Diagram().Viewport.Transform().ToCanvas(cursor)

	if eff := s.Wheel(cursor, 2); eff != EffectViewport {
		t.Errorf("Wheel effect = %v", eff)
	}
	after := s.Diagram().Viewport.Transform().ToScreen(before)
	if after.Dist(cursor) > 1e-9 {
		t.Errorf("Canvas point under cursor moved to %+v", after)
	}
	if s.Diagram().Viewport.Zoom <= 1 {
		t.Error("Positive notches should zoom in")
	}
}

func TestWheelAtZoomLimitIsInert(t *testing.T) {
	s := newTestSession()
	s.Diagram().Viewport.Zoom = 3.0
	if eff := s.Wheel(geometry.Point{X: 100, Y: 100}, 1); eff != EffectNone {
		t.Errorf("Wheel beyond the limit = %v, want EffectNone", eff)
	}
}

func TestAddShapeAt(t *testing.T) {
	s := newTestSession()
	eff := s.AddShapeAt(geometry.Point{X: 600, Y: 400}, diagram.KindDiamond)
	if eff != EffectStructural {
		t.Errorf("Effect = %v", eff)
	}
	d := s.Diagram()
	if len(d.Shapes) != 3 {
		t.Fatalf("Expected 3 shapes, got %d", len(d.Shapes))
	}
	sh := d.Shapes[2]
	if sh.Kind != diagram.KindDiamond {
		t.Errorf("Kind = %v", sh.Kind)
	}
	if sh.X != 600-DefaultShapeWidth/2 || sh.Y != 400-DefaultShapeHeight/2 {
		t.Errorf("Placed at (%v,%v), want centered on the click", sh.X, sh.Y)
	}
	if s.SelectedShape() != sh.ID {
		t.Error("New shape should be selected")
	}
	s.Undo()
	if len(s.Diagram().Shapes) != 2 {
		t.Error("Undo should remove the added shape")
	}
}

func TestUndoRedoInverse(t *testing.T) {
	s := newTestSession()
	clickSelect(s, geometry.Point{X: 105, Y: 150})
	s.Nudge(1, 0, true)
	s.EndNudge()

	s.Undo()
	if sh := s.Diagram().FindShape("a"); sh.X != 100 {
		t.Errorf("Undo x = %v", sh.X)
	}
	s.Redo()
	if sh := s.Diagram().FindShape("a"); sh.X != 110 {
		t.Errorf("Redo x = %v", sh.X)
	}
}

func TestUndoClearsStaleSelection(t *testing.T) {
	s := newTestSession()
	s.AddShapeAt(geometry.Point{X: 600, Y: 400}, diagram.KindRectangle)
	added := s.SelectedShape()
	s.Undo()
	if s.SelectedShape() == added {
		t.Error("Selection must not point at an undone shape")
	}
}
