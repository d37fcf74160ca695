package editor

import (
	"mapedit/pkg/content"
	"mapedit/pkg/diagram"
)

// Nudge step sizes in canvas units. With grid snapping on, steps scale
// to the grid pitch so every press lands on a grid line.
const (
	nudgeStep      = 1.0
	nudgeStepLarge = 10.0
)

// beginEdit starts text editing on sh. Any previous edit must already
// be committed by the caller.
func (s *Session) beginEdit(sh *diagram.Shape) {
	s.state = StateEditingText
	s.editShape = sh.ID
	s.editOriginal = sh.Content
	s.editBuffer = []rune(sh.Content)
}

// abandonEdit drops the in-progress edit without committing.
func (s *Session) abandonEdit() {
	s.editShape = ""
	s.editBuffer = nil
	s.editOriginal = ""
	if s.state == StateEditingText {
		s.state = StateIdle
	}
}

// CommitEdit ends the active text edit, writing the sanitized buffer
// into the shape exactly once. Escape commits rather than discards;
// so does any other interaction claiming the pointer. A no-op when
// nothing is being edited or nothing changed.
func (s *Session) CommitEdit() Effect {
	if s.editShape == "" {
		return EffectNone
	}
	id := s.editShape
	original := s.editOriginal
	markup := content.Sanitize(string(s.editBuffer))
	s.abandonEdit()
	if markup == original {
		return EffectNone
	}
	if sh := s.diagram.FindShape(id); sh != nil && sh.Content != markup {
		s.history.Snapshot(s.diagram)
		s.diagram.SetContent(id, markup)
		return EffectStructural
	}
	return EffectNone
}

// TypeRune appends a rune to the edit buffer.
func (s *Session) TypeRune(r rune) Effect {
	if s.state != StateEditingText {
		return EffectNone
	}
	s.editBuffer = append(s.editBuffer, r)
	return EffectLive
}

// Backspace removes the last rune from the edit buffer.
func (s *Session) Backspace() Effect {
	if s.state != StateEditingText || len(s.editBuffer) == 0 {
		return EffectNone
	}
	s.editBuffer = s.editBuffer[:len(s.editBuffer)-1]
	return EffectLive
}

// Nudge moves the selected shape by one step in the given direction
// (dx, dy each in {-1, 0, 1}). The first press of a contiguous
// sequence snapshots history; repeats while the key stays down do not,
// so one entry covers the whole nudge gesture. EndNudge closes the
// sequence.
func (s *Session) Nudge(dx, dy int, large bool) Effect {
	if s.state == StateEditingText {
		return EffectNone
	}
	sh := s.diagram.FindShape(s.selectedShape)
	if sh == nil {
		return EffectNone
	}
	step := nudgeStep
	if large {
		step = nudgeStepLarge
	}
	if s.gridEnabled {
		step *= s.gridSize
	}
	if !s.nudgeActive {
		s.history.Snapshot(s.diagram)
		s.nudgeActive = true
	}
	s.diagram.MoveShape(sh.ID, sh.X+float64(dx)*step, sh.Y+float64(dy)*step)
	return EffectLive
}

// EndNudge marks the end of a contiguous arrow-key sequence. The next
// Nudge starts a new history entry.
func (s *Session) EndNudge() {
	s.nudgeActive = false
}

// CycleSelectedKind advances the selected shape to the next kind in the
// fixed enumeration.
func (s *Session) CycleSelectedKind() Effect {
	sh := s.diagram.FindShape(s.selectedShape)
	if sh == nil {
		return EffectNone
	}
	s.history.Snapshot(s.diagram)
	sh.Kind = sh.Kind.Next()
	return EffectStructural
}

// ToggleSelectedRouting flips the selected connection between direct
// and orthogonal routing.
func (s *Session) ToggleSelectedRouting() Effect {
	c := s.diagram.FindConnection(s.selectedConn)
	if c == nil {
		return EffectNone
	}
	s.history.Snapshot(s.diagram)
	if c.Style.Routing == diagram.RoutingOrthogonal {
		c.Style.Routing = diagram.RoutingDirect
	} else {
		c.Style.Routing = diagram.RoutingOrthogonal
	}
	return EffectStructural
}

// CycleSelectedArrow advances the selected connection's arrow head
// through none, open, triangle.
func (s *Session) CycleSelectedArrow() Effect {
	c := s.diagram.FindConnection(s.selectedConn)
	if c == nil {
		return EffectNone
	}
	s.history.Snapshot(s.diagram)
	switch c.Style.Arrow {
	case diagram.ArrowNone:
		c.Style.Arrow = diagram.ArrowOpen
	case diagram.ArrowOpen:
		c.Style.Arrow = diagram.ArrowTriangle
	default:
		c.Style.Arrow = diagram.ArrowNone
	}
	return EffectStructural
}

// CycleSelectedPattern advances the selected connection's line pattern
// through solid, dashed, dotted.
func (s *Session) CycleSelectedPattern() Effect {
	c := s.diagram.FindConnection(s.selectedConn)
	if c == nil {
		return EffectNone
	}
	s.history.Snapshot(s.diagram)
	switch c.Style.Pattern {
	case diagram.PatternSolid:
		c.Style.Pattern = diagram.PatternDashed
	case diagram.PatternDashed:
		c.Style.Pattern = diagram.PatternDotted
	default:
		c.Style.Pattern = diagram.PatternSolid
	}
	return EffectStructural
}
