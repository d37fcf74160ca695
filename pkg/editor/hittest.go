package editor

import (
	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// connectionAt returns the first connection whose polyline passes
// within the hit stroke of the screen point, or nil.
func (s *Session) connectionAt(sp geometry.Point) *diagram.Connection {
	t := s.diagram.Viewport.Transform()
	for i := range s.diagram.Connections {
		c := &s.diagram.Connections[i]
		pts, ok := s.diagram.ConnectionEndpoints(*c)
		if !ok {
			continue
		}
		for j := 0; j+1 < len(pts); j++ {
			a := t.ToScreen(pts[j])
			b := t.ToScreen(pts[j+1])
			if geometry.SegmentDistance(sp, a, b) <= connHitStroke {
				return c
			}
		}
	}
	return nil
}

// handleAt returns which resize handle of the selected shape sits under
// the screen point, if any. Handles only exist while a shape is
// selected.
func (s *Session) handleAt(sp geometry.Point) (Handle, bool) {
	sh := s.diagram.FindShape(s.selectedShape)
	if sh == nil {
		return 0, false
	}
	r := s.diagram.Viewport.Transform().RectToScreen(sh.Rect())
	corners := []struct {
		h Handle
		p geometry.Point
	}{
		{HandleNW, geometry.Point{X: r.X, Y: r.Y}},
		{HandleNE, geometry.Point{X: r.X + r.W, Y: r.Y}},
		{HandleSE, geometry.Point{X: r.X + r.W, Y: r.Y + r.H}},
		{HandleSW, geometry.Point{X: r.X, Y: r.Y + r.H}},
	}
	for _, c := range corners {
		if sp.Dist(c.p) <= handleHitReach {
			return c.h, true
		}
	}
	return 0, false
}

// anchorAt returns which connection anchor of the given shape sits
// under the screen point, if any.
func (s *Session) anchorAt(sp geometry.Point, shapeID string) (diagram.Anchor, bool) {
	sh := s.diagram.FindShape(shapeID)
	if sh == nil {
		return 0, false
	}
	t := s.diagram.Viewport.Transform()
	for _, a := range diagram.Anchors() {
		if sp.Dist(t.ToScreen(sh.AnchorPoint(a))) <= anchorHitReach {
			return a, true
		}
	}
	return 0, false
}

// inEdgeBand reports whether the screen point lies on the shape's
// border band. The band is measured in screen space so it stays a
// constant grab width at any zoom.
func (s *Session) inEdgeBand(sp geometry.Point, sh *diagram.Shape) bool {
	r := s.diagram.Viewport.Transform().RectToScreen(sh.Rect())
	if !r.Contains(sp) {
		return false
	}
	return !r.Inset(edgeBand).Contains(sp)
}
