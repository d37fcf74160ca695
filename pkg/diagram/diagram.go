package diagram

import (
	"mapedit/pkg/geometry"
)

// FindShape returns a pointer to the shape with the given id, or nil.
// The pointer is into the diagram's own slice; it is invalidated by
// structural mutations.
func (d *Diagram) FindShape(id string) *Shape {
	for i := range d.Shapes {
		if d.Shapes[i].ID == id {
			return &d.Shapes[i]
		}
	}
	return nil
}

// FindConnection returns a pointer to the connection with the given id,
// or nil.
func (d *Diagram) FindConnection(id string) *Connection {
	for i := range d.Connections {
		if d.Connections[i].ID == id {
			return &d.Connections[i]
		}
	}
	return nil
}

// ShapeAt returns the topmost shape containing the canvas point p, or nil.
// Later shapes are higher in z-order, so the scan runs back to front.
func (d *Diagram) ShapeAt(p geometry.Point) *Shape {
	for i := len(d.Shapes) - 1; i >= 0; i-- {
		if d.Shapes[i].Rect().Contains(p) {
			return &d.Shapes[i]
		}
	}
	return nil
}

// AddShape appends a shape to the top of the z-order. A missing id is
// generated; size is clamped to the minimum floor.
func (d *Diagram) AddShape(s Shape) string {
	if s.ID == "" {
		s.ID = NewID()
	}
	s.Width, s.Height = clampSize(s.Width, s.Height)
	d.Shapes = append(d.Shapes, s)
	return s.ID
}

// MoveShape sets the position of a shape. Unknown ids are ignored.
func (d *Diagram) MoveShape(id string, x, y float64) {
	if s := d.FindShape(id); s != nil {
		s.X = x
		s.Y = y
	}
}

// ResizeShape sets the geometry of a shape, clamping to the minimum
// floor. Callers resizing from a top/left handle pass the recomputed
// position so the opposite corner stays fixed.
func (d *Diagram) ResizeShape(id string, r geometry.Rect) {
	s := d.FindShape(id)
	if s == nil {
		return
	}
	w, h := clampSize(r.W, r.H)
	// When width clamps during a left-handle resize the x computed by the
	// caller would drift; pin the right edge instead.
	if w != r.W && r.X != s.X {
		r.X = s.X + s.Width - w
	}
	if h != r.H && r.Y != s.Y {
		r.Y = s.Y + s.Height - h
	}
	s.X, s.Y, s.Width, s.Height = r.X, r.Y, w, h
}

// DeleteShape removes a shape and every connection referencing it in the
// same mutation, so a dangling reference can never be observed.
func (d *Diagram) DeleteShape(id string) {
	out := d.Shapes[:0]
	for _, s := range d.Shapes {
		if s.ID != id {
			out = append(out, s)
		}
	}
	d.Shapes = out

	conns := d.Connections[:0]
	for _, c := range d.Connections {
		if c.From != id && c.To != id {
			conns = append(conns, c)
		}
	}
	d.Connections = conns
}

// AddConnection appends a connection. Self-loops and references to
// missing shapes are rejected silently: the returned id is empty and the
// diagram is unchanged.
func (d *Diagram) AddConnection(c Connection) string {
	if c.From == c.To {
		return ""
	}
	if d.FindShape(c.From) == nil || d.FindShape(c.To) == nil {
		return ""
	}
	if c.ID == "" {
		c.ID = NewID()
	}
	d.Connections = append(d.Connections, c)
	return c.ID
}

// DeleteConnection removes the connection with the given id.
func (d *Diagram) DeleteConnection(id string) {
	out := d.Connections[:0]
	for _, c := range d.Connections {
		if c.ID != id {
			out = append(out, c)
		}
	}
	d.Connections = out
}

// UpdateShapeStyle replaces the style of a shape.
func (d *Diagram) UpdateShapeStyle(id string, style Style) {
	if s := d.FindShape(id); s != nil {
		s.Style = style
	}
}

// UpdateConnectionStyle replaces the style of a connection.
func (d *Diagram) UpdateConnectionStyle(id string, style LineStyle) {
	if c := d.FindConnection(id); c != nil {
		c.Style = style
	}
}

// SetContent replaces the markup content of a shape. The caller is
// responsible for sanitizing before storing.
func (d *Diagram) SetContent(id, content string) {
	if s := d.FindShape(id); s != nil {
		s.Content = content
	}
}

// DropDanglingConnections removes connections whose shapes no longer
// exist. Used to repair loaded documents rather than failing the load.
// Returns the number of connections dropped.
func (d *Diagram) DropDanglingConnections() int {
	ids := make(map[string]bool, len(d.Shapes))
	for _, s := range d.Shapes {
		ids[s.ID] = true
	}
	out := d.Connections[:0]
	dropped := 0
	for _, c := range d.Connections {
		if ids[c.From] && ids[c.To] && c.From != c.To {
			out = append(out, c)
		} else {
			dropped++
		}
	}
	d.Connections = out
	return dropped
}

// Bounds returns the axis-aligned bounding box over all shapes and
// whether the diagram has any shapes at all.
func (d *Diagram) Bounds() (geometry.Rect, bool) {
	if len(d.Shapes) == 0 {
		return geometry.Rect{}, false
	}
	b := d.Shapes[0].Rect()
	for _, s := range d.Shapes[1:] {
		b = b.Union(s.Rect())
	}
	return b, true
}

// ConnectionEndpoints returns the routed canvas points for a connection:
// two points for direct routing, four for the orthogonal elbow. The
// boolean is false if either shape is missing.
func (d *Diagram) ConnectionEndpoints(c Connection) ([]geometry.Point, bool) {
	from := d.FindShape(c.From)
	to := d.FindShape(c.To)
	if from == nil || to == nil {
		return nil, false
	}
	a := from.AnchorPoint(c.FromAnchor)
	b := to.AnchorPoint(c.ToAnchor)
	if c.Style.Routing == RoutingOrthogonal {
		return geometry.ElbowPoints(a, b), true
	}
	return []geometry.Point{a, b}, true
}

func clampSize(w, h float64) (float64, float64) {
	if w < MinShapeWidth {
		w = MinShapeWidth
	}
	if h < MinShapeHeight {
		h = MinShapeHeight
	}
	return w, h
}
