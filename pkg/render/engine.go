package render

import (
	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// Engine drives a Backend from the diagram model. It offers two update
// paths: Rebuild for structural changes (add, delete, undo, redo) and
// Live for the drag/resize hot loop, which patches the moved shape and
// recomputes only its attached connections.
type Engine struct {
	backend  Backend
	selected string
}

// NewEngine returns an engine drawing into b.
func NewEngine(b Backend) *Engine {
	return &Engine{backend: b}
}

// Rebuild replaces the whole visual tree from the diagram. Connections
// are emitted before shapes so shapes draw on top.
func (e *Engine) Rebuild(d *diagram.Diagram) {
	t := d.Viewport.Transform()
	e.backend.Clear()
	for _, c := range d.Connections {
		if pts, ok := d.ConnectionEndpoints(c); ok {
			e.backend.UpsertConnection(c, toScreen(t, pts))
		}
	}
	for _, s := range d.Shapes {
		e.backend.UpsertShape(s, t.RectToScreen(s.Rect()))
	}
	if e.selected != "" {
		e.applyAffordances(d, t)
	}
	e.backend.Flush()
}

// Live patches the element for shapeID in place and recomputes the
// connections attached to it. No other element is touched.
func (e *Engine) Live(d *diagram.Diagram, shapeID string) {
	s := d.FindShape(shapeID)
	if s == nil {
		return
	}
	t := d.Viewport.Transform()
	r := t.RectToScreen(s.Rect())
	e.backend.PatchShape(shapeID, ShapePatch{X: r.X, Y: r.Y, W: r.W, H: r.H})
	for _, c := range d.Connections {
		if c.From != shapeID && c.To != shapeID {
			continue
		}
		if pts, ok := d.ConnectionEndpoints(c); ok {
			e.backend.UpsertConnection(c, toScreen(t, pts))
		}
	}
	if e.selected == shapeID {
		e.applyAffordances(d, t)
	}
	e.backend.Flush()
}

// Select moves the selection affordances to the shape with the given
// id. An empty id clears them.
func (e *Engine) Select(d *diagram.Diagram, id string) {
	if e.selected == id {
		return
	}
	if e.selected != "" {
		e.backend.SetAffordances(e.selected, nil)
	}
	e.selected = id
	if id != "" {
		e.applyAffordances(d, d.Viewport.Transform())
	}
	e.backend.Flush()
}

// Selected returns the id currently carrying affordances.
func (e *Engine) Selected() string {
	return e.selected
}

func (e *Engine) applyAffordances(d *diagram.Diagram, t geometry.Transform) {
	s := d.FindShape(e.selected)
	if s == nil {
		e.backend.SetAffordances(e.selected, nil)
		e.selected = ""
		return
	}
	r := t.RectToScreen(s.Rect())
	e.backend.SetAffordances(s.ID, &Affordances{
		Handles: []geometry.Point{
			{X: r.X, Y: r.Y},
			{X: r.X + r.W, Y: r.Y},
			{X: r.X + r.W, Y: r.Y + r.H},
			{X: r.X, Y: r.Y + r.H},
		},
		Anchors: []geometry.Point{
			geometry.AnchorPoint(r, geometry.SideTop),
			geometry.AnchorPoint(r, geometry.SideRight),
			geometry.AnchorPoint(r, geometry.SideBottom),
			geometry.AnchorPoint(r, geometry.SideLeft),
		},
	})
}

func toScreen(t geometry.Transform, pts []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = t.ToScreen(p)
	}
	return out
}
