package editor

import (
	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// Wheel zoom step per scroll notch.
const wheelZoomStep = 1.1

// PointerDown starts a gesture at the screen point sp. Targets are
// disambiguated in a fixed precedence order: connection line, resize
// handle, connection anchor, shape edge band, shape interior, empty
// canvas.
func (s *Session) PointerDown(sp geometry.Point) Effect {
	s.downScreen = sp
	s.lastScreen = sp
	s.moved = false
	s.snapshotted = false
	s.nudgeActive = false

	t := s.diagram.Viewport.Transform()
	cp := t.ToCanvas(sp)

	// 1. Connection lines get a wide invisible hit stroke so thin lines
	// stay easy to grab.
	if c := s.connectionAt(sp); c != nil {
		eff := s.CommitEdit()
		s.selectedConn = c.ID
		s.selectedShape = ""
		s.state = StateIdle
		return eff.merge(EffectStructural)
	}

	// 2. Resize handles of the selected shape.
	if h, ok := s.handleAt(sp); ok {
		eff := s.CommitEdit()
		s.state = StateResizing
		s.handle = h
		s.resizeFrom = s.diagram.FindShape(s.selectedShape).Rect()
		return eff
	}

	// 3. Connection anchors, shown while a shape is selected.
	if a, ok := s.anchorAt(sp, s.selectedShape); ok {
		eff := s.CommitEdit()
		s.state = StateConnecting
		s.connectFrom = s.selectedShape
		s.connectAnchor = a
		s.rubberTo = sp
		return eff.merge(EffectLive)
	}

	if sh := s.diagram.ShapeAt(cp); sh != nil {
		// 4. The edge band starts a drag; 5. the interior starts a text
		// edit. Small shapes whose band swallows the interior only drag.
		if s.inEdgeBand(sp, sh) {
			eff := s.CommitEdit()
			eff = eff.merge(s.selectShape(sh.ID))
			s.state = StateDragging
			s.dragOffset = cp.Sub(geometry.Point{X: sh.X, Y: sh.Y})
			return eff
		}
		if s.editShape == sh.ID {
			return EffectNone
		}
		eff := s.CommitEdit()
		eff = eff.merge(s.selectShape(sh.ID))
		s.beginEdit(sh)
		return eff.merge(EffectStructural)
	}

	// 6. Empty canvas pans; a motionless release deselects instead.
	eff := s.CommitEdit()
	s.state = StatePanning
	return eff
}

// PointerMove advances the active gesture to the screen point sp.
func (s *Session) PointerMove(sp geometry.Point) Effect {
	if !s.moved && sp.Dist(s.downScreen) > jitterLimit {
		s.moved = true
	}
	delta := sp.Sub(s.lastScreen)
	s.lastScreen = sp

	switch s.state {
	case StatePanning:
		if !s.moved {
			return EffectNone
		}
		s.diagram.Viewport.PanX += delta.X
		s.diagram.Viewport.PanY += delta.Y
		return EffectViewport

	case StateDragging:
		if !s.moved {
			return EffectNone
		}
		s.snapshotOnce()
		cp := s.diagram.Viewport.Transform().ToCanvas(sp)
		s.diagram.MoveShape(s.selectedShape,
			s.snap(cp.X-s.dragOffset.X), s.snap(cp.Y-s.dragOffset.Y))
		return EffectLive

	case StateResizing:
		if !s.moved {
			return EffectNone
		}
		s.snapshotOnce()
		cp := s.diagram.Viewport.Transform().ToCanvas(sp)
		cp.X, cp.Y = s.snap(cp.X), s.snap(cp.Y)
		s.diagram.ResizeShape(s.selectedShape, resizeRect(s.resizeFrom, s.handle, cp))
		return EffectLive

	case StateConnecting:
		s.rubberTo = sp
		return EffectLive
	}
	return EffectNone
}

// PointerUp ends the active gesture at the screen point sp.
func (s *Session) PointerUp(sp geometry.Point) Effect {
	state := s.state
	switch state {
	case StatePanning:
		s.state = StateIdle
		if !s.moved {
			return s.clearSelection()
		}
		return EffectViewport

	case StateDragging, StateResizing:
		s.state = StateIdle
		if !s.moved {
			return EffectNone
		}
		return EffectStructural

	case StateConnecting:
		s.state = StateIdle
		eff := s.commitConnection(sp)
		s.connectFrom = ""
		return eff
	}
	return EffectNone
}

// Wheel zooms around the cursor so the canvas point under it stays put.
// Positive notches zoom in.
func (s *Session) Wheel(sp geometry.Point, notches int) Effect {
	if notches == 0 || s.state != StateIdle && s.state != StateEditingText {
		return EffectNone
	}
	factor := 1.0
	for i := 0; i < notches; i++ {
		factor *= wheelZoomStep
	}
	for i := 0; i > notches; i-- {
		factor /= wheelZoomStep
	}
	t := s.diagram.Viewport.Transform()
	nt := t.ZoomAt(sp, factor)
	if nt == t {
		return EffectNone
	}
	s.diagram.Viewport = diagram.Viewport{PanX: nt.PanX, PanY: nt.PanY, Zoom: nt.Zoom}
	return EffectViewport
}

// snapshotOnce pushes one history entry for the whole drag or resize
// gesture, on the first effective movement only.
func (s *Session) snapshotOnce() {
	if s.snapshotted {
		return
	}
	s.history.Snapshot(s.diagram)
	s.snapshotted = true
}

// commitConnection finishes a connect gesture: dropped on a valid
// anchor of a different shape it creates the connection, anywhere else
// it cancels with no mutation.
func (s *Session) commitConnection(sp geometry.Point) Effect {
	for i := range s.diagram.Shapes {
		sh := &s.diagram.Shapes[i]
		if sh.ID == s.connectFrom {
			continue
		}
		a, ok := s.anchorAt(sp, sh.ID)
		if !ok {
			continue
		}
		s.history.Snapshot(s.diagram)
		id := s.diagram.AddConnection(diagram.Connection{
			From:       s.connectFrom,
			To:         sh.ID,
			FromAnchor: s.connectAnchor,
			ToAnchor:   a,
			Style:      diagram.DefaultLineStyle(),
		})
		if id != "" {
			s.selectedConn = id
			s.selectedShape = ""
		}
		return EffectStructural
	}
	return EffectStructural
}

// resizeRect computes the rect for a resize gesture: the dragged handle
// follows the cursor while the opposite corner stays fixed.
func resizeRect(from geometry.Rect, h Handle, cp geometry.Point) geometry.Rect {
	switch h {
	case HandleSE:
		return geometry.Rect{X: from.X, Y: from.Y, W: cp.X - from.X, H: cp.Y - from.Y}
	case HandleNE:
		return geometry.Rect{X: from.X, Y: cp.Y, W: cp.X - from.X, H: from.Y + from.H - cp.Y}
	case HandleSW:
		return geometry.Rect{X: cp.X, Y: from.Y, W: from.X + from.W - cp.X, H: cp.Y - from.Y}
	default: // HandleNW
		return geometry.Rect{X: cp.X, Y: cp.Y, W: from.X + from.W - cp.X, H: from.Y + from.H - cp.Y}
	}
}
