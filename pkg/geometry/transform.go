package geometry

// Zoom limits for the viewport transform.
const (
	MinZoom = 0.2
	MaxZoom = 3.0
)

// ClampZoom limits z to the valid zoom range.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Transform converts between canvas space (the diagram's logical
// coordinates) and screen space (pixels as currently displayed).
type Transform struct {
	PanX, PanY float64
	Zoom       float64
}

// Identity returns the neutral transform.
func Identity() Transform {
	return Transform{Zoom: 1}
}

// ToScreen maps a canvas point to screen space.
func (t Transform) ToScreen(p Point) Point {
	return Point{p.X*t.Zoom + t.PanX, p.Y*t.Zoom + t.PanY}
}

// ToCanvas maps a screen point back to canvas space.
func (t Transform) ToCanvas(p Point) Point {
	return Point{(p.X - t.PanX) / t.Zoom, (p.Y - t.PanY) / t.Zoom}
}

// RectToScreen maps a canvas rectangle to screen space.
func (t Transform) RectToScreen(r Rect) Rect {
	tl := t.ToScreen(Point{r.X, r.Y})
	return Rect{tl.X, tl.Y, r.W * t.Zoom, r.H * t.Zoom}
}

// ZoomAt applies a zoom step centred on the screen point s. The canvas
// point currently under s stays under s after the change, which is what
// keeps wheel-zoom from visually jumping.
func (t Transform) ZoomAt(s Point, factor float64) Transform {
	z := ClampZoom(t.Zoom * factor)
	if z == t.Zoom {
		return t
	}
	c := t.ToCanvas(s)
	return Transform{
		PanX: s.X - c.X*z,
		PanY: s.Y - c.Y*z,
		Zoom: z,
	}
}
