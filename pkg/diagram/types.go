// Package diagram holds the in-memory document: shapes, connections, and
// viewport state. It has no dependency on rendering or input handling.
package diagram

import (
	"mapedit/pkg/geometry"

	"github.com/google/uuid"
)

// Minimum shape extent. Keeps resize handles and anchor points usable.
const (
	MinShapeWidth  = 50.0
	MinShapeHeight = 30.0
)

// Style holds the visual properties of a shape body.
type Style struct {
	Fill         string  `json:"fill"`
	Border       string  `json:"border"`
	BorderWidth  float64 `json:"borderWidth"`
	CornerRadius float64 `json:"cornerRadius"`
	Opacity      float64 `json:"opacity"`
}

// DefaultStyle returns the style applied to newly placed shapes.
func DefaultStyle() Style {
	return Style{
		Fill:         "#ffffff",
		Border:       "#333333",
		BorderWidth:  2,
		CornerRadius: 8,
		Opacity:      1,
	}
}

// TextStyle holds the typography of a shape's content.
type TextStyle struct {
	Font   string  `json:"font"`
	Size   float64 `json:"size"`
	Color  string  `json:"color"`
	Align  string  `json:"align"` // left, center, right
	Bold   bool    `json:"bold"`
	Italic bool    `json:"italic"`
}

// DefaultTextStyle returns the text style applied to newly placed shapes.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		Font:  "sans-serif",
		Size:  14,
		Color: "#333333",
		Align: "center",
	}
}

// Shape is a placed node. Content is a constrained markup subset, never
// raw untrusted markup.
type Shape struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Content   string    `json:"content"`
	Style     Style     `json:"style"`
	TextStyle TextStyle `json:"textStyle"`
}

// Rect returns the shape's bounding box in canvas space.
func (s Shape) Rect() geometry.Rect {
	return geometry.Rect{X: s.X, Y: s.Y, W: s.Width, H: s.Height}
}

// AnchorPoint returns the canvas position of one of the shape's four
// attachment points.
func (s Shape) AnchorPoint(a Anchor) geometry.Point {
	return geometry.AnchorPoint(s.Rect(), a.Side())
}

// LineStyle holds the visual properties of a connection.
type LineStyle struct {
	Stroke  string      `json:"stroke"`
	Width   float64     `json:"width"`
	Pattern LinePattern `json:"pattern"`
	Arrow   ArrowKind   `json:"arrow"`
	Routing Routing     `json:"routing"`
}

// DefaultLineStyle returns the style applied to newly drawn connections.
func DefaultLineStyle() LineStyle {
	return LineStyle{
		Stroke: "#333333",
		Width:  2,
		Arrow:  ArrowOpen,
	}
}

// Connection is a directed edge between two shapes.
type Connection struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	FromAnchor Anchor    `json:"fromPosition"`
	ToAnchor   Anchor    `json:"toPosition"`
	Style      LineStyle `json:"style"`
}

// Viewport is the pan/zoom state of the editor. It is persisted with the
// document but excluded from history snapshots.
type Viewport struct {
	PanX float64 `json:"x"`
	PanY float64 `json:"y"`
	Zoom float64 `json:"scale"`
}

// Transform returns the coordinate transform for this viewport.
func (v Viewport) Transform() geometry.Transform {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	return geometry.Transform{PanX: v.PanX, PanY: v.PanY, Zoom: geometry.ClampZoom(z)}
}

// Diagram is the aggregate document. Shape order is z-order: later shapes
// draw on top.
type Diagram struct {
	Shapes      []Shape      `json:"shapes"`
	Connections []Connection `json:"connections"`
	Viewport    Viewport     `json:"viewport"`
}

// New returns an empty diagram with a neutral viewport.
func New() *Diagram {
	return &Diagram{Viewport: Viewport{Zoom: 1}}
}

// NewID returns a fresh identifier for shapes, connections, and documents.
func NewID() string {
	return uuid.NewString()
}

// Clone creates a deep copy of the diagram.
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}
	clone := &Diagram{
		Shapes:      make([]Shape, len(d.Shapes)),
		Connections: make([]Connection, len(d.Connections)),
		Viewport:    d.Viewport,
	}
	copy(clone.Shapes, d.Shapes)
	copy(clone.Connections, d.Connections)
	return clone
}
