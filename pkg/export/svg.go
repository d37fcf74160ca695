package export

import (
	"fmt"
	"strings"

	"mapedit/pkg/content"
	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// SVGExporter renders diagrams to self-contained SVG. No external
// resources are referenced; rich text is embedded as XHTML so formatting
// survives export.
type SVGExporter struct{}

// NewSVGExporter creates a new SVG exporter.
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{}
}

// FileExtension returns ".svg".
func (e *SVGExporter) FileExtension() string { return ".svg" }

// FormatName returns the format name.
func (e *SVGExporter) FormatName() string { return "SVG" }

// markerKey identifies a marker definition. Connections sharing arrow
// kind and color share one definition.
type markerKey struct {
	kind  diagram.ArrowKind
	color string
}

// Export renders the diagram.
func (e *SVGExporter) Export(d *diagram.Diagram) ([]byte, error) {
	bounds, ok := d.Bounds()
	if !ok {
		return nil, ErrEmptyDiagram
	}

	// Offset maps the minimum corner of the content to the padding
	// origin.
	ox := Padding - bounds.X
	oy := Padding - bounds.Y
	width := bounds.W + 2*Padding
	height := bounds.H + 2*Padding

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)

	markers := markerIDs(d.Connections)
	writeMarkerDefs(&sb, d.Connections, markers)

	// Connections first so shapes draw over them.
	for _, c := range d.Connections {
		writeConnection(&sb, d, c, ox, oy, markers)
	}

	for _, s := range d.Shapes {
		writeShape(&sb, s, ox, oy)
	}
	for _, s := range d.Shapes {
		writeText(&sb, s, ox, oy)
	}

	sb.WriteString("</svg>\n")
	return []byte(sb.String()), nil
}

// markerIDs assigns one id per distinct arrow kind + color, in
// connection order so output is deterministic.
func markerIDs(conns []diagram.Connection) map[markerKey]string {
	ids := make(map[markerKey]string)
	n := 0
	for _, c := range conns {
		if c.Style.Arrow == diagram.ArrowNone {
			continue
		}
		key := markerKey{c.Style.Arrow, c.Style.Stroke}
		if _, seen := ids[key]; !seen {
			ids[key] = fmt.Sprintf("%s-%d", c.Style.Arrow, n)
			n++
		}
	}
	return ids
}

func writeMarkerDefs(sb *strings.Builder, conns []diagram.Connection, ids map[markerKey]string) {
	if len(ids) == 0 {
		return
	}
	sb.WriteString("<defs>\n")
	// Emit in connection order for stable output.
	seen := make(map[markerKey]bool)
	for _, c := range conns {
		if c.Style.Arrow == diagram.ArrowNone {
			continue
		}
		key := markerKey{c.Style.Arrow, c.Style.Stroke}
		if seen[key] {
			continue
		}
		seen[key] = true
		id := ids[key]
		fmt.Fprintf(sb,
			`  <marker id="%s" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto" markerUnits="userSpaceOnUse">`+"\n",
			id)
		switch key.kind {
		case diagram.ArrowTriangle:
			fmt.Fprintf(sb, `    <polygon points="0 0, 10 3.5, 0 7" fill="%s"/>`+"\n", key.color)
		default:
			fmt.Fprintf(sb, `    <path d="M0,0 L10,3.5 L0,7" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n", key.color)
		}
		sb.WriteString("  </marker>\n")
	}
	sb.WriteString("</defs>\n")
}

func writeConnection(sb *strings.Builder, d *diagram.Diagram, c diagram.Connection, ox, oy float64, markers map[markerKey]string) {
	pts, ok := d.ConnectionEndpoints(c)
	if !ok {
		return
	}

	var path strings.Builder
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%.1f,%.1f ", cmd, p.X+ox, p.Y+oy)
	}

	attrs := fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%.1f"`, c.Style.Stroke, c.Style.Width)
	switch c.Style.Pattern {
	case diagram.PatternDashed:
		attrs += ` stroke-dasharray="8 4"`
	case diagram.PatternDotted:
		attrs += ` stroke-dasharray="2 3"`
	}
	if c.Style.Arrow != diagram.ArrowNone {
		if id, ok := markers[markerKey{c.Style.Arrow, c.Style.Stroke}]; ok {
			attrs += fmt.Sprintf(` marker-end="url(#%s)"`, id)
		}
	}
	fmt.Fprintf(sb, `<path d="%s" %s/>`+"\n", strings.TrimSpace(path.String()), attrs)
}

func writeShape(sb *strings.Builder, s diagram.Shape, ox, oy float64) {
	x, y := s.X+ox, s.Y+oy
	w, h := s.Width, s.Height
	style := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%.1f"`,
		s.Style.Fill, s.Style.Border, s.Style.BorderWidth)
	if s.Style.Opacity > 0 && s.Style.Opacity < 1 {
		style += fmt.Sprintf(` opacity="%.2f"`, s.Style.Opacity)
	}

	switch s.Kind {
	case diagram.KindEllipse:
		fmt.Fprintf(sb, `<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" %s/>`+"\n",
			x+w/2, y+h/2, w/2, h/2, style)
	case diagram.KindDiamond:
		fmt.Fprintf(sb, `<polygon points="%s" %s/>`+"\n",
			pointsAttr(diamondPoints(geometry.Rect{X: x, Y: y, W: w, H: h})), style)
	case diagram.KindHexagon:
		fmt.Fprintf(sb, `<polygon points="%s" %s/>`+"\n",
			pointsAttr(hexagonPoints(geometry.Rect{X: x, Y: y, W: w, H: h})), style)
	case diagram.KindRoundedRect:
		fmt.Fprintf(sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" %s/>`+"\n",
			x, y, w, h, s.Style.CornerRadius, style)
	default:
		fmt.Fprintf(sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`+"\n",
			x, y, w, h, style)
	}
}

// writeText embeds the shape's rich-text content as an XHTML block. The
// content is re-sanitized here regardless of what happened at input
// time: export output must stand on its own.
func writeText(sb *strings.Builder, s diagram.Shape, ox, oy float64) {
	if strings.TrimSpace(s.Content) == "" {
		return
	}
	safe := content.Sanitize(s.Content)

	weight := "normal"
	if s.TextStyle.Bold {
		weight = "bold"
	}
	fontStyle := "normal"
	if s.TextStyle.Italic {
		fontStyle = "italic"
	}
	align := s.TextStyle.Align
	if align == "" {
		align = "center"
	}

	fmt.Fprintf(sb,
		`<foreignObject x="%.1f" y="%.1f" width="%.1f" height="%.1f">`+"\n",
		s.X+ox, s.Y+oy, s.Width, s.Height)
	fmt.Fprintf(sb,
		`  <div xmlns="http://www.w3.org/1999/xhtml" style="display:flex;align-items:center;justify-content:center;width:100%%;height:100%%;overflow:hidden;font-family:%s;font-size:%.0fpx;color:%s;text-align:%s;font-weight:%s;font-style:%s;">%s</div>`+"\n",
		s.TextStyle.Font, s.TextStyle.Size, s.TextStyle.Color, align, weight, fontStyle, safe)
	sb.WriteString("</foreignObject>\n")
}

func diamondPoints(r geometry.Rect) []geometry.Point {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	return []geometry.Point{
		{X: cx, Y: r.Y},
		{X: r.X + r.W, Y: cy},
		{X: cx, Y: r.Y + r.H},
		{X: r.X, Y: cy},
	}
}

func hexagonPoints(r geometry.Rect) []geometry.Point {
	inset := r.W * 0.25
	cy := r.Y + r.H/2
	return []geometry.Point{
		{X: r.X + inset, Y: r.Y},
		{X: r.X + r.W - inset, Y: r.Y},
		{X: r.X + r.W, Y: cy},
		{X: r.X + r.W - inset, Y: r.Y + r.H},
		{X: r.X + inset, Y: r.Y + r.H},
		{X: r.X, Y: cy},
	}
}

func pointsAttr(pts []geometry.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
