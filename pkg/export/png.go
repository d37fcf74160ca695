// Raster export through a 2D drawing context. Mirrors the SVG output:
// same bounds and padding, connections drawn behind shapes, flattened
// text since raster output cannot carry markup.

package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"mapedit/pkg/content"
	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// PNGExporter renders diagrams to PNG.
type PNGExporter struct{}

// NewPNGExporter creates a new PNG exporter.
func NewPNGExporter() *PNGExporter {
	return &PNGExporter{}
}

// FileExtension returns ".png".
func (e *PNGExporter) FileExtension() string { return ".png" }

// FormatName returns the format name.
func (e *PNGExporter) FormatName() string { return "PNG" }

// Export renders the diagram.
func (e *PNGExporter) Export(d *diagram.Diagram) ([]byte, error) {
	bounds, ok := d.Bounds()
	if !ok {
		return nil, ErrEmptyDiagram
	}

	ox := Padding - bounds.X
	oy := Padding - bounds.Y
	width := int(math.Ceil(bounds.W + 2*Padding))
	height := int(math.Ceil(bounds.H + 2*Padding))

	dc := gg.NewContext(width, height)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	for _, c := range d.Connections {
		drawConnectionPNG(dc, d, c, ox, oy)
	}
	for _, s := range d.Shapes {
		drawShapePNG(dc, s, ox, oy)
	}
	for _, s := range d.Shapes {
		drawTextPNG(dc, ttf, s, ox, oy)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawConnectionPNG(dc *gg.Context, d *diagram.Diagram, c diagram.Connection, ox, oy float64) {
	pts, ok := d.ConnectionEndpoints(c)
	if !ok {
		return
	}

	dc.SetHexColor(c.Style.Stroke)
	dc.SetLineWidth(c.Style.Width)
	switch c.Style.Pattern {
	case diagram.PatternDashed:
		dc.SetDash(8, 4)
	case diagram.PatternDotted:
		dc.SetDash(2, 3)
	default:
		dc.SetDash()
	}

	dc.MoveTo(pts[0].X+ox, pts[0].Y+oy)
	for _, p := range pts[1:] {
		dc.LineTo(p.X+ox, p.Y+oy)
	}
	dc.Stroke()
	dc.SetDash()

	if c.Style.Arrow != diagram.ArrowNone {
		tip := pts[len(pts)-1]
		tail := pts[len(pts)-2]
		drawArrowheadPNG(dc, c.Style, tail, tip, ox, oy)
	}
}

// drawArrowheadPNG draws the head at tip, oriented along the final
// segment.
func drawArrowheadPNG(dc *gg.Context, style diagram.LineStyle, tail, tip geometry.Point, ox, oy float64) {
	angle := math.Atan2(tip.Y-tail.Y, tip.X-tail.X)
	const size = 10.0
	const spread = 0.4 // radians off the shaft

	x, y := tip.X+ox, tip.Y+oy
	lx := x - size*math.Cos(angle-spread)
	ly := y - size*math.Sin(angle-spread)
	rx := x - size*math.Cos(angle+spread)
	ry := y - size*math.Sin(angle+spread)

	dc.SetHexColor(style.Stroke)
	if style.Arrow == diagram.ArrowTriangle {
		dc.MoveTo(x, y)
		dc.LineTo(lx, ly)
		dc.LineTo(rx, ry)
		dc.ClosePath()
		dc.Fill()
		return
	}
	dc.SetLineWidth(style.Width)
	dc.MoveTo(lx, ly)
	dc.LineTo(x, y)
	dc.LineTo(rx, ry)
	dc.Stroke()
}

func drawShapePNG(dc *gg.Context, s diagram.Shape, ox, oy float64) {
	x, y := s.X+ox, s.Y+oy
	w, h := s.Width, s.Height

	switch s.Kind {
	case diagram.KindEllipse:
		dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
	case diagram.KindRoundedRect:
		dc.DrawRoundedRectangle(x, y, w, h, s.Style.CornerRadius)
	case diagram.KindDiamond:
		tracePolygon(dc, diamondPoints(geometry.Rect{X: x, Y: y, W: w, H: h}))
	case diagram.KindHexagon:
		tracePolygon(dc, hexagonPoints(geometry.Rect{X: x, Y: y, W: w, H: h}))
	default:
		dc.DrawRectangle(x, y, w, h)
	}

	dc.SetHexColor(s.Style.Fill)
	dc.FillPreserve()
	dc.SetHexColor(s.Style.Border)
	dc.SetLineWidth(s.Style.BorderWidth)
	dc.Stroke()
}

func tracePolygon(dc *gg.Context, pts []geometry.Point) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

func drawTextPNG(dc *gg.Context, ttf *truetype.Font, s diagram.Shape, ox, oy float64) {
	text := content.Flatten(s.Content)
	if text == "" {
		return
	}

	size := s.TextStyle.Size
	if size <= 0 {
		size = 14
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)
	dc.SetHexColor(s.TextStyle.Color)

	align := gg.AlignCenter
	switch s.TextStyle.Align {
	case "left":
		align = gg.AlignLeft
	case "right":
		align = gg.AlignRight
	}

	dc.DrawStringWrapped(text,
		s.X+ox+s.Width/2, s.Y+oy+s.Height/2,
		0.5, 0.5, s.Width-8, 1.3, align)
}
